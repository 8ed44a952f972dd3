package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"planner/internal/models"
	"planner/internal/storage"
)

// IDSource hands out identifiers for new accounts.
type IDSource interface {
	Next() string
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by successful register and login calls.
type Session struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Service registers accounts and logs them in.
type Service struct {
	accounts storage.AccountStore
	tokens   *Tokens
	ids      IDSource
	logger   *slog.Logger
}

// NewService wires the credential service.
func NewService(accounts storage.AccountStore, tokens *Tokens, ids IDSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{accounts: accounts, tokens: tokens, ids: ids, logger: logger}
}

// Tokens exposes the token issuer used by the service.
func (s *Service) Tokens() *Tokens {
	return s.tokens
}

// Register creates a new account and signs a token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	required := []struct{ field, value string }{
		{"username", in.Username},
		{"email", in.Email},
		{"password", in.Password},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return Session{}, &models.ValidationError{Field: r.field, Reason: "is required"}
		}
	}

	// Cheap early exit; CreateAccount repeats the check atomically.
	if _, err := s.accounts.AccountByEmail(ctx, in.Email); err == nil {
		return Session{}, ErrDuplicateAccount
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Session{}, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	account, err := s.accounts.CreateAccount(ctx, models.Account{
		ID:           s.ids.Next(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return Session{}, ErrDuplicateAccount
	}
	if err != nil {
		return Session{}, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account registered", slog.String("account_id", account.ID))
	return s.session(account)
}

// Login verifies the password of the account registered under email.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" {
		return Session{}, &models.ValidationError{Field: "email", Reason: "is required"}
	}
	if password == "" {
		return Session{}, &models.ValidationError{Field: "password", Reason: "is required"}
	}

	account, err := s.accounts.AccountByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, ErrAccountNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup account: %w", err)
	}

	if err := CheckPassword(account.PasswordHash, password); err != nil {
		return Session{}, err
	}
	return s.session(account)
}

func (s *Service) session(a models.Account) (Session, error) {
	token, err := s.tokens.Issue(a.ID, a.Email)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: a.Public()}, nil
}
