package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuth(testSecret), func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"role": claims.Role, "user_id": claims.UserID})
	})
	r.GET("/admin", JWTAuth(testSecret), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	r := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/protected", "garbage").Code)

	expired := signToken(t, jwt.MapClaims{
		"user_id": "u-1", "role": "user",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/protected", expired).Code)
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	r := newAuthRouter()

	token := signToken(t, jwt.MapClaims{
		"user_id": "u-1", "email": "a@example.com", "role": "user",
		"max_clearance_level": 2,
		"exp":                 time.Now().Add(time.Hour).Unix(),
	})
	w := doRequest(r, "/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter()

	user := signToken(t, jwt.MapClaims{
		"user_id": "u-1", "role": "user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusForbidden, doRequest(r, "/admin", user).Code)

	admin := signToken(t, jwt.MapClaims{
		"user_id": "u-2", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/admin", admin).Code)
}

func TestClearanceCap(t *testing.T) {
	two := 2
	capped := &JWTClaims{Role: "user", MaxClearanceLevel: &two}
	require.NotNil(t, capped.ClearanceCap())
	assert.Equal(t, 2, *capped.ClearanceCap())

	// admins and uncapped users see everything
	assert.Nil(t, (&JWTClaims{Role: "admin", MaxClearanceLevel: &two}).ClearanceCap())
	assert.Nil(t, (&JWTClaims{Role: "user"}).ClearanceCap())
}
