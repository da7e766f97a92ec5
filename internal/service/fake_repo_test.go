package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// Using a fake (not a mock framework) keeps tests easy to read — you can see
// exactly what the fake does. It enforces email uniqueness the way the real
// store's UNIQUE index does.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*model.User // keyed by ID
	byEmail map[string]string      // email → ID

	// calls counts every repository method invocation, so tests can assert
	// that some inputs never reach storage.
	calls int

	// set to a non-nil error to simulate a database failure
	createErr     error
	getByEmailErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.createErr != nil {
		return f.createErr
	}
	if _, taken := f.byEmail[user.Email]; taken {
		return apperror.Conflict("user", "email")
	}

	user.ID = xid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	copied := *user
	f.users[user.ID] = &copied
	f.byEmail[user.Email] = user.ID
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	id, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *f.users[id]
	return &copied, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.byEmail, u.Email)
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServices wires a UserService and AuthService over the given fake.
// bcrypt cost 4 keeps the tests fast.
func newTestServices(t *testing.T, repo *fakeUserRepo) (*UserService, *AuthService) {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	ps := auth.NewPasswordServiceForTest(4)
	logger := discardLogger()

	users := NewUserService(repo, ps, logger)
	return users, NewAuthService(users, ts, ps, logger)
}
