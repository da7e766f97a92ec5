// Package handler contains HTTP request handlers for the account API.
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming HTTP request (path params, body)
// 2. Call the service layer
// 3. Write the HTTP response (status code, headers, body)
//
// Handlers contain no business logic. In particular they never see a password
// hash: every user they write goes through model.User.Public() first.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/service"
)

// maxBodyBytes caps request bodies. Sign-up and login payloads are tiny.
const maxBodyBytes = 1 << 20

// UserHandler serves the /api/users routes.
type UserHandler struct {
	users  *service.UserService
	auth   *service.AuthService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, authSvc *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		auth:   authSvc,
		logger: logger,
	}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authData is the payload returned by sign-up and login.
type authData struct {
	User        model.PublicUser `json:"user"`
	AccessToken string           `json:"accessToken"`
}

type envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// HandleCreate registers a new user and returns it with an access token.
//
// HTTP: POST /api/users
// REQUEST BODY: {"name":"Ada Lovelace","email":"ada@example.com","password":"s3cret!","avatar":"..."}
// RESPONSE: 201 {"message":"User created successfully","data":{"user":{...},"accessToken":"..."}}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Register(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		h.logFailure("create user failed", err)
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, envelope{
		Message: "User created successfully",
		Data:    authData{User: result.User.Public(), AccessToken: result.Token},
	})
}

// HandleGetByID returns one user's public projection.
//
// HTTP: GET /api/users/{userId}
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.logFailure("get user failed", err)
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, envelope{Data: user.Public()})
}

// HandleDelete permanently removes a user.
//
// HTTP: DELETE /api/users/{userId}
// RESPONSE: 200 {"message":"User deleted successfully"}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "userId")); err != nil {
		h.logFailure("delete user failed", err)
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, envelope{Message: "User deleted successfully"})
}

// HandleLogin verifies email + password and returns an access token.
//
// HTTP: POST /api/users/login
// REQUEST BODY: {"email":"ada@example.com","password":"s3cret!"}
//
// Every credential failure is the same 401 with the same message.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logFailure("login failed", err)
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, envelope{
		Message: "User Logged in successfully",
		Data:    authData{User: result.User.Public(), AccessToken: result.Token},
	})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/users/me
// Auth: Required (RequireAuth middleware sets userID in context)
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthenticated())
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		h.logFailure("current user lookup failed", err)
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, envelope{Data: user.Public()})
}

// logFailure logs at Warn for client mistakes and Error for everything else.
// Request bodies are never logged: they contain passwords.
func (h *UserHandler) logFailure(msg string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		h.logger.Warn(msg, slog.String("reason", appErr.Message))
		return
	}
	h.logger.Error(msg, slog.String("error", err.Error()))
}

// decodeJSON reads a single JSON object from the request body.
// Malformed bodies become a validation error on the "body" field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("body", "request body is required")
		}
		return apperror.ValidationFailed("body", "request body must be valid JSON")
	}
	return nil
}
