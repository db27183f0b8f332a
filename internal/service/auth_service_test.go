package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"parkhub/internal/models"
	"parkhub/internal/password"
	"parkhub/internal/repository"
)

type fakeUserStore struct {
	nextID int64
	byName map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byName: map[string]*models.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if _, ok := f.byName[user.Username]; ok {
		return repository.ErrDuplicate
	}
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.byName[user.Username] = &stored
	return nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.byName[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func newAuthServiceForTest(store *fakeUserStore) *AuthService {
	hasher := password.NewBcryptHasher(4)
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(store, hasher, tokens, nil, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthServiceForTest(store)

	user, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Fatalf("expected user role, got %q", user.Role)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password stored in plain text")
	}

	token, logged, err := svc.Login(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if logged.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, logged.ID)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthServiceForTest(store)

	if _, err := svc.Register(context.Background(), "bob", "bob@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(context.Background(), "bob", "other@example.com", "secret123")
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthServiceForTest(newFakeUserStore())

	cases := []struct {
		name     string
		username string
		email    string
		pass     string
	}{
		{"empty username", "", "a@b.c", "secret"},
		{"empty email", "alice", "", "secret"},
		{"empty password", "alice", "a@b.c", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.pass)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthServiceForTest(store)

	if _, err := svc.Register(context.Background(), "carol", "carol@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, err := svc.Login(context.Background(), "carol", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthServiceForTest(newFakeUserStore())

	_, _, err := svc.Login(context.Background(), "ghost", "secret123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	token, err := tokens.GenerateToken(7, models.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := tokens.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected user id 7, got %d", claims.UserID)
	}
	if claims.Role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	token, err := tokens.GenerateToken(7, models.RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestTokenExpired(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)
	// Negative TTL falls back to the default, so craft a genuinely short one.
	short := &TokenService{secret: []byte("test-secret"), expiresIn: time.Nanosecond}

	token, err := short.GenerateToken(7, models.RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := tokens.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}
