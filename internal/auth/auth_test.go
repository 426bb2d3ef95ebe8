package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"instacat/gram/domain"

	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepository is an in-memory domain.UserRepository for auth tests.
type fakeUserRepository struct {
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	return u, nil
}

func (r *fakeUserRepository) Create(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.Username]; ok {
		return fmt.Errorf("duplicate username %q", u.Username)
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.users[u.Username] = u
	return nil
}

func TestService_Register(t *testing.T) {
	repo := newFakeUserRepository()
	svc := NewService(repo, []byte("secret"), time.Hour)

	user, err := svc.Register(context.Background(), "Bob@Example.com", "bob", "Bob", "hunter22")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.ID == 0 {
		t.Error("Register should assign an ID")
	}
	if user.Email != "bob@example.com" {
		t.Errorf("Email = %v, want lowercased bob@example.com", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")); err != nil {
		t.Error("stored hash does not match the password")
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password must not be stored in the clear")
	}
}

func TestService_Register_UsernameTaken(t *testing.T) {
	repo := newFakeUserRepository()
	svc := NewService(repo, []byte("secret"), time.Hour)

	if _, err := svc.Register(context.Background(), "bob@example.com", "bob", "", "hunter22"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), "other@example.com", "bob", "", "hunter22")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Register error = %v, want ErrUsernameTaken", err)
	}
}

func TestService_Register_MissingFields(t *testing.T) {
	repo := newFakeUserRepository()
	svc := NewService(repo, []byte("secret"), time.Hour)

	if _, err := svc.Register(context.Background(), "", "bob", "", "hunter22"); err == nil {
		t.Error("Register should fail without an email")
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "", "", "hunter22"); err == nil {
		t.Error("Register should fail without a username")
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "bob", "", ""); err == nil {
		t.Error("Register should fail without a password")
	}
}

func TestService_Login(t *testing.T) {
	repo := newFakeUserRepository()
	secret := []byte("secret")
	svc := NewService(repo, secret, time.Hour)

	if _, err := svc.Register(context.Background(), "bob@example.com", "bob", "", "hunter22"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "bob", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	username, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if username != "bob" {
		t.Errorf("token subject = %v, want bob", username)
	}
}

func TestService_Login_Invalid(t *testing.T) {
	repo := newFakeUserRepository()
	svc := NewService(repo, []byte("secret"), time.Hour)

	if _, err := svc.Register(context.Background(), "bob@example.com", "bob", "", "hunter22"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Wrong password and unknown user both collapse into the same error
	if _, err := svc.Login(context.Background(), "bob", "wrong"); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("Login with wrong password error = %v, want ErrInvalidLogin", err)
	}
	if _, err := svc.Login(context.Background(), "ghost", "hunter22"); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("Login for unknown user error = %v, want ErrInvalidLogin", err)
	}
}
