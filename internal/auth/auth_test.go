package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashen-w/furnistore/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)
	assert.True(t, CheckPassword("s3cret-password", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")
	user := &models.User{
		Email:     "jane@example.com",
		Role:      models.RoleModerator,
		FirstName: "Jane",
		LastName:  "Doe",
		Img:       models.DefaultAvatarURL,
	}
	token, err := m.Issue(user)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, models.RoleModerator, claims.Role)
	assert.Equal(t, "Jane", claims.FirstName)
	assert.Equal(t, "Doe", claims.LastName)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := NewTokenManager("test-secret")
	token, err := m.Issue(&models.User{Email: "a@b.c", Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = m.Parse(token + "x")
	assert.Error(t, err)

	other := NewTokenManager("different-secret")
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestMiddlewareAttachesClaims(t *testing.T) {
	m := NewTokenManager("test-secret")
	token, err := m.Issue(&models.User{Email: "a@b.c", Role: models.RoleAdmin})
	require.NoError(t, err)

	var got *Claims
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	assert.Equal(t, "a@b.c", got.Email)

	// Garbage token: request continues anonymous.
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, got)
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, a, 40) // 20 random bytes, hex encoded
	assert.NotEqual(t, a, b)
}
