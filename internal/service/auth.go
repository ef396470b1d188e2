// Package service — authentication business logic.
//
// AuthService is the credential engine. It sits between the HTTP handlers and
// the store adapter:
//
//	AuthHandler (HTTP) → AuthService (credential rules) → repository.UserRepository (store)
//	                   ↘ auth.PasswordService (KDF) + auth.IssueToken (bearer tokens)
//
// KEY RESPONSIBILITIES:
//   - Register: salt + derive + persist a new account, issue its first token
//   - Authenticate: verify a password without leaking whether the account exists
//   - Keep every credential rule here, away from HTTP concerns
package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/auth"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

// AuthService handles registration and login.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → read/write user records
//   - passwords *auth.PasswordService     → PBKDF2 derivation and verification
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger

	// decoySalt/decoyHash are a fixed credential pair derived once at
	// construction. When a login targets an unknown email, the engine still
	// runs a full verification against this pair before failing, so the
	// unknown-email path costs the same as the wrong-password path and
	// response timing does not reveal which addresses have accounts.
	decoySalt []byte
	decoyHash []byte
}

// NewAuthService creates an AuthService with all required dependencies.
// Called from server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	decoySalt := []byte("saas-starter-decoy-salt-v1")
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
		decoySalt: decoySalt,
		decoyHash: passwords.DeriveKey("decoy-password-never-matches", decoySalt),
	}
}

// AuthResult is returned by both Register and Authenticate: the freshly issued
// bearer token plus the public profile fields, bundled so the handler can
// respond in one step. Nothing secret beyond the token itself is in here.
type AuthResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NormalizeEmail returns the canonical lookup form of an email address:
// trimmed and lower-cased. Every store comparison uses this form, which is
// what makes login case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account and issues its first bearer token.
//
// CONTRACT:
//  1. Reject malformed email / empty password (validation error)
//  2. Reject an email that already has an account (DuplicateEmail)
//  3. Generate a fresh salt — once, here, never again for this user
//  4. Derive the PBKDF2 digest and persist the record with an empty token list
//  5. Issue an opaque token and append it to the new record
//
// THE DUPLICATE PRE-CHECK IS A FAST PATH, NOT THE ENFORCEMENT:
// Two concurrent registrations can both pass step 2. The store's unique email
// index makes exactly one insert win; the loser's constraint violation comes
// back from Insert already shaped as a DuplicateEmail.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	normalized := NormalizeEmail(email)
	if err := validateCredentials(normalized, password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	existing, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking existing email: %w", err)
	}
	if existing != nil {
		return nil, apperror.DuplicateEmail(normalized)
	}

	salt, err := s.passwords.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}
	digest := s.passwords.DeriveKey(password, salt)

	user := &model.User{
		Name:         name,
		Email:        normalized,
		PasswordHash: hex.EncodeToString(digest),
		Salt:         hex.EncodeToString(salt),
		IsActive:     true,
		Tokens:       []string{},
	}
	if err := s.users.Insert(ctx, user); err != nil {
		// A concurrent registration may have won the race — Insert reports
		// the unique-index violation as DuplicateEmail, which we pass along.
		return nil, fmt.Errorf("service/auth: inserting user: %w", err)
	}

	token, err := s.appendFreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
	)

	return &AuthResult{Token: token, Name: user.Name, Email: user.Email}, nil
}

// Authenticate verifies an email/password pair and issues a fresh token.
//
// UNIFORM FAILURE:
// Unknown email, a record with no stored credential pair, and a wrong password
// all return the same InvalidCredentials error. The three paths also perform
// the same KDF work (see decoySalt), so neither the response body nor its
// timing says which one happened.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, apperror.ValidationFailed("credentials", "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if user == nil || !user.HasCredentials() {
		// Burn the same KDF cost as a real verification before failing.
		s.passwords.Verify(password, s.decoySalt, s.decoyHash)
		return nil, apperror.InvalidCredentials()
	}

	salt, err := hex.DecodeString(user.Salt)
	if err != nil {
		s.logger.Error("stored salt is not valid hex", slog.String("userID", user.ID))
		return nil, apperror.InvalidCredentials()
	}
	storedHash, err := hex.DecodeString(user.PasswordHash)
	if err != nil {
		s.logger.Error("stored hash is not valid hex", slog.String("userID", user.ID))
		return nil, apperror.InvalidCredentials()
	}

	if !s.passwords.Verify(password, salt, storedHash) {
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.appendFreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
	)

	return &AuthResult{Token: token, Name: user.Name, Email: user.Email}, nil
}

// appendFreshToken mints one opaque token and records it on the user.
// Every successful registration or login goes through here — exactly one
// append per success, which is the token-list length invariant.
func (s *AuthService) appendFreshToken(ctx context.Context, userID string) (string, error) {
	token, err := auth.IssueToken()
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	if err := s.users.AppendToken(ctx, userID, token); err != nil {
		return "", fmt.Errorf("service/auth: recording token: %w", err)
	}
	return token, nil
}

// validateCredentials checks the shape of a registration's email and password.
// net/mail implements RFC 5322 address parsing — the same check the ecosystem
// reaches for instead of hand-rolled regexes.
func validateCredentials(normalizedEmail, password string) error {
	if normalizedEmail == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return apperror.ValidationFailed("email", "email is not a valid address")
	}
	if password == "" {
		return apperror.ValidationFailed("password", "password is required")
	}
	return nil
}
