// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered user account.
//
// This is the INTERNAL form of a user: it carries the bcrypt password hash
// and bookkeeping timestamps. It must never be written to an HTTP response
// directly — use Public() to get the outward-facing projection.
//
// WHY json:"-" ON PasswordHash?
// It is a second line of defence. Even if someone accidentally encodes a
// *User, encoding/json skips fields tagged "-", so the hash can't leak.
//
// The ID is an xid generated by the repository on insert (e.g.
// "cv37rs3pp9olc6atsptg"). Email is stored normalized (trimmed, lowercase)
// and the users table has a UNIQUE constraint on it.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Avatar       string    `json:"avatar"    db:"avatar"` // optional, empty when unset
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the only shape of a user that leaves the service.
//
// It deliberately has no password, hash, avatar or timestamp fields: API
// consumers get exactly id, name and email.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the outward-facing projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
