package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell/blog-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, NewTokenService("secret", time.Hour), bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, err := svc.Register(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected id to be assigned")
	}

	stored := repo.users["alice"]
	if stored.PasswordHash == "" || stored.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed, got %q", stored.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_RequiresFields(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "", "pass"); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for empty username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for empty password, got %v", err)
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	_, err := svc.Register(context.Background(), "bob", strings.Repeat("x", 80))
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "bob", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Verify_RoundTrip(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	cases := []struct{ username, password string }{
		{"alice", "secret1"},
		{"bob", "p@ss word"},
		{"carol", "ünïcødé"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.username, tc.password); err != nil {
			t.Fatalf("register %s: %v", tc.username, err)
		}
		id, err := svc.Verify(context.Background(), tc.username, tc.password)
		if err != nil {
			t.Fatalf("verify %s: %v", tc.username, err)
		}
		if id.Username != tc.username {
			t.Errorf("expected identity %q, got %q", tc.username, id.Username)
		}
	}
}

func TestAuthService_Verify_WrongPassword(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	_, _ = svc.Register(context.Background(), "dave", "goodpass")

	for _, wrong := range []string{"badpass", "goodpas", "goodpass ", ""} {
		if _, err := svc.Verify(context.Background(), "dave", wrong); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("password %q: expected ErrInvalidCredentials, got %v", wrong, err)
		}
	}
}

func TestAuthService_Verify_UnknownUser(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, err := svc.Verify(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_IssuesVerifiableToken(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	svc := NewAuthService(newStubUserRepo(), tokens, bcrypt.MinCost, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "carol", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	id, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if id.Username != "carol" {
		t.Fatalf("expected carol, got %q", id.Username)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	_, _ = svc.Register(context.Background(), "erin", "pw1234")

	if _, err := svc.Login(context.Background(), "erin", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "frank", "pw1234"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
