package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dentalsupply/inventory/internal/apperror"
)

// Client-facing messages. Authentication failures share one message per
// operation regardless of cause so responses never reveal whether an
// account exists.
const (
	msgCredentialsRequired = "email and password are required"
	msgPasswordTooLong     = "password must be at most 72 bytes"
	msgInvalidCredentials  = "invalid credentials"
	msgNotAuthenticated    = "not authenticated"
)

// defaultHashTimeout applies when no hash timeout is configured.
const defaultHashTimeout = 5 * time.Second

// dummyPassword is hashed once at startup. Logins for unknown emails are
// verified against that hash so they take as long as a wrong password.
const dummyPassword = "dummy-password-never-matches"

var errNoToken = errors.New("no session token presented")

// TokenCodec mints and verifies session tokens. Implemented by
// *token.Codec.
type TokenCodec interface {
	Sign(subjectID string) (string, error)
	Verify(raw string) (string, error)
}

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	// Register creates an account. It does not start a session.
	Register(ctx context.Context, input RegisterInput) (*Identity, error)

	// Login checks credentials and returns a freshly signed token.
	Login(ctx context.Context, input LoginInput) (token string, identity *Identity, err error)

	// Identify verifies a raw token and resolves it to an existing account.
	Identify(ctx context.Context, token string) (*Identity, error)

	// WhoAmI extracts the token from the request's carriers (first match
	// wins) and identifies it.
	WhoAmI(ctx context.Context, r *http.Request) (*Identity, error)
}

// authService implements AuthService.
type authService struct {
	repo        UserRepository
	hasher      PasswordHasher
	codec       TokenCodec
	carriers    []Carrier
	hashTimeout time.Duration
	dummyHash   string
}

// NewAuthService creates a new auth service. carriers are consulted in order
// by WhoAmI; pass the cookie carrier before the bearer carrier.
func NewAuthService(repo UserRepository, hasher PasswordHasher, codec TokenCodec, carriers []Carrier, hashTimeout time.Duration) AuthService {
	if hashTimeout <= 0 {
		hashTimeout = defaultHashTimeout
	}
	s := &authService{
		repo:        repo,
		hasher:      hasher,
		codec:       codec,
		carriers:    carriers,
		hashTimeout: hashTimeout,
	}

	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		slog.Warn("failed to prepare dummy password hash", slog.Any("error", err))
	}
	s.dummyHash = dummy

	return s
}

// Register validates input, hashes the password and inserts the account.
// Duplicate emails are detected by the store's unique index only.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*Identity, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperror.NewValidation(msgCredentialsRequired)
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, apperror.NewValidation(msgPasswordTooLong)
	}

	hash, err := bounded(ctx, s.hashTimeout, func() (string, error) {
		return s.hasher.Hash(input.Password)
	})
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	now := time.Now().UTC()
	user := &User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if apperror.IsCode(err, http.StatusConflict) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user.Identity(), nil
}

// Login authenticates by email and password and signs a session token.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *Identity, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return "", nil, apperror.NewValidation(msgCredentialsRequired)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	target := s.dummyHash
	switch {
	case err == nil:
		target = user.PasswordHash
	case apperror.IsCode(err, http.StatusNotFound):
		user = nil
	default:
		return "", nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	// Always run the comparison so unknown emails cost the same as bad passwords.
	match, err := bounded(ctx, s.hashTimeout, func() (bool, error) {
		return s.hasher.Verify(input.Password, target), nil
	})
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("verifying password: %w", err))
	}
	if user == nil || !match {
		slog.Debug("login rejected", slog.String("email", email))
		return "", nil, apperror.NewUnauthorized(msgInvalidCredentials)
	}

	tok, err := s.codec.Sign(user.ID)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("signing token: %w", err))
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return tok, user.Identity(), nil
}

// Identify verifies tok and loads the account it names. Every failure
// except a store outage is reported as the same 401.
func (s *authService) Identify(ctx context.Context, tok string) (*Identity, error) {
	id, err := s.codec.Verify(tok)
	if err != nil {
		return nil, unauthenticated(err)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return nil, unauthenticated(err)
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	return user.Identity(), nil
}

// WhoAmI identifies the caller from the first carrier that holds a token.
func (s *authService) WhoAmI(ctx context.Context, r *http.Request) (*Identity, error) {
	tok, ok := extractToken(r, s.carriers)
	if !ok {
		return nil, unauthenticated(errNoToken)
	}
	return s.Identify(ctx, tok)
}

// --- Helpers ---

// normalizeEmail matches the store's canonical form: trimmed and lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// unauthenticated wraps cause behind the uniform 401 message.
func unauthenticated(cause error) error {
	return apperror.NewUnauthorized(msgNotAuthenticated).WithInternal(cause)
}

// bounded runs fn on its own goroutine and gives up once timeout or ctx
// expires. fn keeps running to completion in the background; bcrypt cannot
// be interrupted.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
