package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"instacat/gram/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidLogin  = errors.New("invalid username or password")
)

// Service is the authentication collaborator: it owns user records and issues
// the tokens the rest of the API trusts.
type Service struct {
	users         domain.UserRepository
	secret        []byte
	tokenLifetime time.Duration
}

func NewService(users domain.UserRepository, secret []byte, tokenLifetime time.Duration) *Service {
	return &Service{
		users:         users,
		secret:        secret,
		tokenLifetime: tokenLifetime,
	}
}

// Register creates a new user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, username, name, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)

	if email == "" || username == "" || password == "" {
		return nil, errors.New("email, username and password are required")
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("username", username).Msg("Registered new user")
	return user, nil
}

// Login verifies the password and returns a bearer token for the user.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", ErrInvalidLogin
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidLogin
	}

	return MintToken(s.secret, user.Username, s.tokenLifetime)
}
