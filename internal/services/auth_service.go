// Package services – AuthService
//
// This file implements the AuthService, which owns account signup, login, and
// token refresh. It validates credentials, hashes passwords, and delegates
// token issuance/verification to the credential layer. Login failures are
// deliberately indistinct: unknown email and wrong password both surface as
// ErrInvalidCredentials.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gesturepath/go-gesture-backend/internal/auth"
	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
)

// emailRE accepts the pragmatic "local@domain.tld" shape; full RFC 5322
// validation is not attempted.
var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService coordinates account lifecycle and credential issuance.
type AuthService struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
}

// NewAuthService constructs an AuthService bound to the given DB and issuer.
func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{DB: db, Tokens: tokens}
}

// Signup validates the registration payload, stores the account with a hashed
// password, and returns the user together with a fresh token.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Signup")
	defer span.End()

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if len([]rune(name)) < 2 {
		return nil, "", ErrNameTooShort
	}
	if !emailRE.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, "", ErrPasswordTooShort
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := repo.CreateUser(ctx, s.DB, name, email, digest)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the email/password pair and returns the user with a fresh
// token. Any mismatch surfaces as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	user, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Refresh verifies a still-valid token, re-resolves its user, and issues a
// replacement token. Expired or otherwise unverifiable tokens are rejected
// with the credential layer's classified error.
func (s *AuthService) Refresh(ctx context.Context, token string) (*domain.User, string, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Refresh")
	defer span.End()

	userID, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, "", err
	}
	span.SetAttributes(attribute.String("user.id", userID))

	user, err := repo.GetUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", auth.ErrTokenInvalid
		}
		return nil, "", err
	}

	fresh, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, fresh, nil
}
