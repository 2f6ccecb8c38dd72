// internal/session/service.go
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"creditpix-back/internal/auth"
	"creditpix-back/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound is returned when no identity matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNegativeBalance is returned when a credit update would take the
	// balance below zero.
	ErrNegativeBalance = errors.New("credit balance cannot be negative")
)

// Service is the session state provider: it owns login, registration and the
// authoritative credit balance. Callers compute a new balance and ask
// UpdateCredits to persist it; there is no server-side atomic decrement, so
// concurrent sessions for the same identity can race on the balance.
type Service struct {
	users         UserRepo
	tokens        *auth.TokenService
	signupCredits int
	logger        *slog.Logger
}

func NewService(users UserRepo, tokens *auth.TokenService, signupCredits int, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, signupCredits: signupCredits, logger: logger}
}

// Login checks the password and issues a session token. On failure nothing
// changes and the error is surfaced.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Register creates the identity with the signup credit balance and issues a
// session token. A missing display name defaults to the local part of the
// email.
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, string, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, "", err
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Credits:  s.signupCredits,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "credits", user.Credits)
	return user, token, nil
}

// Profile re-reads the authoritative identity/credit record.
func (s *Service) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateCredits persists a caller-computed balance. It is the single point of
// truth for the balance and rejects anything below zero.
func (s *Service) UpdateCredits(ctx context.Context, userID uint, newBalance int) error {
	if newBalance < 0 {
		return ErrNegativeBalance
	}
	if err := s.users.UpdateCredits(ctx, userID, newBalance); err != nil {
		return err
	}
	s.logger.Info("credits updated", "user_id", userID, "balance", newBalance)
	return nil
}
