package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user-123",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestVerify(t *testing.T) {
	v := NewVerifier(testSecret, "authenticated")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	noSubject := validClaims()
	noSubject.Subject = ""

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	testCases := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "Valid", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())},
		{name: "Expired", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired), wantErr: true},
		{name: "WrongSecret", token: signToken(t, jwt.SigningMethodHS256, []byte("another-secret"), validClaims()), wantErr: true},
		{name: "WrongAlgorithm", token: signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims()), wantErr: true},
		{name: "WrongAudience", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongAudience), wantErr: true},
		{name: "NoSubject", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject), wantErr: true},
		{name: "NoExpiry", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry), wantErr: true},
		{name: "Garbage", token: "not-a-jwt", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			userID, err := v.Verify(tc.token)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				assert.Empty(t, userID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "user-123", userID)
			}
		})
	}
}

func TestVerify_NoAudienceConfigured(t *testing.T) {
	v := NewVerifier(testSecret, "")
	claims := validClaims()
	claims.Audience = nil

	userID, err := v.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyRequest(t *testing.T) {
	v := NewVerifier(testSecret, "")

	t.Run("MissingHeader", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		_, err := v.VerifyRequest(r)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("NotBearer", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		_, err := v.VerifyRequest(r)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Bearer", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()))
		userID, err := v.VerifyRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "user-123", userID)
	})
}

func TestUserIDContext(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	userID, ok := UserID(WithUserID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", userID)
}
