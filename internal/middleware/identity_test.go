package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrusavuk/fundlyhub-sub006/pkg/jwt"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/log"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID string, expiry time.Duration) string {
	t.Helper()

	claims := jwt.Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(expiry)),
		},
		UserID: userID,
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func runIdentity(t *testing.T, verifier *jwt.Verifier, authHeader string) (userID string, found bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Identity(verifier))
	r.GET("/probe", func(c *gin.Context) {
		if v, ok := c.Get(log.FieldUserID); ok {
			userID, found = v.(string), true
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "identity middleware must never reject")
	return userID, found
}

func TestIdentityValidToken(t *testing.T) {
	verifier := jwt.NewVerifier(testSecret, "")

	userID, found := runIdentity(t, verifier, "Bearer "+signToken(t, "user-7", time.Hour))
	assert.True(t, found)
	assert.Equal(t, "user-7", userID)
}

func TestIdentityAnonymousPassesThrough(t *testing.T) {
	verifier := jwt.NewVerifier(testSecret, "")

	_, found := runIdentity(t, verifier, "")
	assert.False(t, found)
}

func TestIdentityInvalidTokenIsAnonymous(t *testing.T) {
	verifier := jwt.NewVerifier(testSecret, "")

	_, found := runIdentity(t, verifier, "Bearer not-a-token")
	assert.False(t, found)
}

func TestIdentityExpiredTokenIsAnonymous(t *testing.T) {
	verifier := jwt.NewVerifier(testSecret, "")

	_, found := runIdentity(t, verifier, "Bearer "+signToken(t, "user-7", -time.Hour))
	assert.False(t, found)
}

func TestIdentityNilVerifier(t *testing.T) {
	_, found := runIdentity(t, nil, "Bearer "+signToken(t, "user-7", time.Hour))
	assert.False(t, found)
}
