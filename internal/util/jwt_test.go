package util

import (
	"errors"
	"testing"
	"time"

	"doe_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims *Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func validClaims(id uint) *Claims {
	now := time.Now()
	return &Claims{
		UserID: id,
		Role:   model.Student,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   "7",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	u := &model.User{Email: "a@doe.test", Role: model.Admin}
	u.ID = 7

	tok, err := GenerateJWT(u, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.Admin, claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, TokenIssuer, claims.Issuer)

	_, err = ParseJWT(tok, "another-secret-another-secret-xx")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseJWTRejects(t *testing.T) {
	expired := validClaims(7)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	foreign := validClaims(7)
	foreign.Issuer = "someone-else"

	noExpiry := validClaims(7)
	noExpiry.ExpiresAt = nil

	mismatch := validClaims(8)

	cases := []struct {
		name  string
		token string
	}{
		{"hs512 with the same secret", signed(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(7))},
		{"alg none", signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims(7))},
		{"expired", signed(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"wrong issuer", signed(t, jwt.SigningMethodHS256, []byte(testSecret), foreign)},
		{"missing expiry", signed(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
		{"subject differs from user", signed(t, jwt.SigningMethodHS256, []byte(testSecret), mismatch)},
		{"garbage", "not-a-jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := ParseJWT(tc.token, testSecret)
			assert.Nil(t, claims)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}
