// Package jwtmw provides signed bearer-token issuance, verification and the
// Gin middleware that guards protected routes.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is used when the service is constructed without an explicit
// token lifetime.
const DefaultTTL = 15 * time.Minute

var (
	// ErrInvalidToken is returned when a token is tampered with, unparseable,
	// or signed with an unexpected algorithm or secret.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token's signature verifies but its
	// expiry is not strictly in the future at verification time.
	ErrTokenExpired = errors.New("token has expired")
)

// Claims carries the verified content of a token.
// The claim set is fixed-shape: a subject (the username the token asserts)
// and an absolute expiry.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Service issues and verifies signed, time-limited tokens.
// The signing secret is injected at construction and read-only afterwards;
// rotating it requires a restart and invalidates all outstanding tokens.
type Service struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewService creates a token Service with the given secret and default TTL.
// A non-positive defaultTTL falls back to DefaultTTL.
func NewService(secret string, defaultTTL time.Duration) *Service {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Service{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
	}
}

// Issue creates a signed token for the subject using the service default TTL.
func (s *Service) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.defaultTTL)
}

// IssueWithTTL creates a signed token for the subject expiring after ttl.
// The ttl is applied verbatim: a zero or negative value produces a token
// that is already expired.
func (s *Service) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify decodes the token, checks its signature and expiry, and returns the
// embedded claims. Expiry is evaluated at call time, never cached.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			// Only HMAC is accepted; anything else is treated as tampering
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	rc, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Subject:   rc.Subject,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}
