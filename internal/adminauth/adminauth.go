// Package adminauth checks admin credentials and issues the session tokens
// that guard the admin API.
package adminauth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mvps-vip/showcase/internal/config"
)

const issuer = "showcase"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired session")
	// ErrDisabled is returned by New when the admin section lacks an email,
	// password hash or signing secret.
	ErrDisabled = errors.New("admin access not configured")
)

// Claims is what a verified session token asserts.
type Claims struct {
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Authenticator struct {
	email  string
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New builds an Authenticator from the admin config section.
func New(cfg config.AdminConfig, ttl time.Duration) (*Authenticator, error) {
	email := normalizeEmail(cfg.Email)
	if email == "" || cfg.PasswordHash == "" || cfg.JWTSecret == "" {
		return nil, ErrDisabled
	}
	if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
		return nil, fmt.Errorf("admin.password_hash is not a bcrypt hash: %w", err)
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{
		email:  email,
		hash:   []byte(cfg.PasswordHash),
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Login checks the credentials and returns a signed session token.
func (a *Authenticator) Login(email, password string) (string, Claims, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(a.email)) == 1
	// The hash is always compared so a wrong email costs the same as a wrong
	// password.
	pwErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !emailOK || pwErr != nil {
		return "", Claims{}, ErrInvalidCredentials
	}

	now := a.now().UTC().Truncate(time.Second)
	claims := Claims{Email: a.email, IssuedAt: now, ExpiresAt: now.Add(a.ttl)}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   a.email,
		IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("signing session: %w", err)
	}
	return signed, claims, nil
}

// Verify checks the token's signature, issuer, subject and expiry.
func (a *Authenticator) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalidToken
	}
	var parsed jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(a.email),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	c := Claims{Email: parsed.Subject, ExpiresAt: parsed.ExpiresAt.Time.UTC()}
	if parsed.IssuedAt != nil {
		c.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return c, nil
}

// HashPassword returns a bcrypt hash suitable for admin.password_hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
