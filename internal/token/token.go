// Package token mints and verifies the signed session tokens handed to
// clients after a successful login. Tokens are HS256 JWTs carrying the
// account id and an absolute expiry; nothing is stored server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Lifetime is how long a freshly signed token stays valid.
const Lifetime = 7 * 24 * time.Hour

var (
	// ErrInvalidToken is returned for malformed tokens, bad signatures and
	// unexpected signing algorithms.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the embedded expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrEmptySecret is returned by New when no signing secret is given.
	ErrEmptySecret = errors.New("token signing secret is empty")
)

// Claims is the token payload. The account id travels both as the custom
// "id" claim and as the registered subject.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-wide secret.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithLifetime overrides Lifetime. Intended for tests that need short-lived
// tokens.
func WithLifetime(d time.Duration) Option {
	return func(c *Codec) { c.lifetime = d }
}

// New creates a Codec. The secret is copied so later mutation by the caller
// has no effect.
func New(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	c := &Codec{
		secret:   append([]byte(nil), secret...),
		lifetime: Lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Lifetime returns the validity window of tokens minted by c.
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}

// Sign issues a token for subjectID expiring Lifetime from now.
func (c *Codec) Sign(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("signing token: empty subject")
	}
	now := c.now()
	claims := Claims{
		UserID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns the subject id.
func (c *Codec) Verify(raw string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return subject, nil
}
