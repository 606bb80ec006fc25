package adminauth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mvps-vip/showcase/internal/config"
)

func newTestAuth(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	a, err := New(config.AdminConfig{
		Email:        "Admin@Example.com",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
	}, time.Hour)
	require.NoError(t, err)
	return a
}

func TestNew_Disabled(t *testing.T) {
	_, err := New(config.AdminConfig{Email: "a@b.c"}, 0)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNew_RejectsNonBcryptHash(t *testing.T) {
	_, err := New(config.AdminConfig{Email: "a@b.c", PasswordHash: "plaintext", JWTSecret: "s"}, 0)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDisabled)
}

func TestLoginAndVerify(t *testing.T) {
	a := newTestAuth(t)

	token, claims, err := a.Login("  admin@example.COM ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))

	got, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, claims.Email, got.Email)
	assert.True(t, claims.ExpiresAt.Equal(got.ExpiresAt))
}

func TestLogin_WrongCredentials(t *testing.T) {
	a := newTestAuth(t)
	for _, tc := range []struct{ email, password string }{
		{"admin@example.com", "wrong"},
		{"intruder@example.com", "hunter2"},
		{"", ""},
	} {
		_, _, err := a.Login(tc.email, tc.password)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%s/%s", tc.email, tc.password)
	}
}

func TestVerify_Expired(t *testing.T) {
	a := newTestAuth(t)
	start := time.Now()
	a.now = func() time.Time { return start }
	token, _, err := a.Login("admin@example.com", "hunter2")
	require.NoError(t, err)

	a.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	a := newTestAuth(t)
	token, _, err := a.Login("admin@example.com", "hunter2")
	require.NoError(t, err)

	a.secret = []byte("other")
	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithmsAndSubjects(t *testing.T) {
	a := newTestAuth(t)
	now := time.Now()

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer: issuer, Subject: a.email, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer: issuer, Subject: "someone@else.com", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := other.SignedString(a.secret)
	require.NoError(t, err)
	_, err = a.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: issuer, Subject: a.email})
	signed, err = noExp.SignedString(a.secret)
	require.NoError(t, err)
	_, err = a.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Verify("   ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$2"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("s3cret")))

	_, err = HashPassword("")
	assert.Error(t, err)
}
