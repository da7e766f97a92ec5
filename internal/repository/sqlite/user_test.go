package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only during the test.
// Each test gets its own database, and t.Cleanup closes it when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser is a test helper that creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$not-a-real-hash-but-fine-for-storage",
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$04$hash",
		Avatar:       "https://example.com/ada.png",
	}

	err := db.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The struct is modified in place (pointer argument)
	if _, err := xid.FromString(user.ID); err != nil {
		t.Errorf("Create() set ID %q which is not a valid xid: %v", user.ID, err)
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
	if user.UpdatedAt.IsZero() {
		t.Error("Create() did not set user.UpdatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "first", "dup@example.com")

	duplicate := &model.User{Name: "second", Email: "dup@example.com", PasswordHash: "h"}
	err := db.Create(context.Background(), duplicate)

	if err == nil {
		t.Fatal("Create() should have returned an error for duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

// TestUserCreate_ConcurrentDuplicates fires several inserts for the same email
// at once. Exactly one must win; the rest must see ErrConflict.
func TestUserCreate_ConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := &model.User{Name: fmt.Sprintf("racer-%d", i), Email: "race@example.com", PasswordHash: "h"}
			err := db.Create(context.Background(), u)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, apperror.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "getbyid", "getbyid@example.com")

	found, err := db.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "getbyid", found.Name)
	assert.Equal(t, "getbyid@example.com", found.Email)
	assert.Equal(t, created.PasswordHash, found.PasswordHash)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), xid.New().String())

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "byemail", "byemail@example.com")

	found, err := db.GetByEmail(context.Background(), "byemail@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NotContains(t, err.Error(), "nobody@example.com")
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestUserDelete(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "deleteme", "deleteme@example.com")

	require.NoError(t, db.Delete(context.Background(), created.ID))

	_, err := db.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUserDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), xid.New().String())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUserDelete_FreesEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "reuse", "reuse@example.com")
	require.NoError(t, db.Delete(context.Background(), created.ID))

	again := createTestUser(t, db, "reuse-again", "reuse@example.com")
	assert.NotEqual(t, created.ID, again.ID)
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Ping(context.Background()))
}
