package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"innovation-portal-api/models"
	"innovation-portal-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, userID uint, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	mem := repository.NewMemoryStore()
	mem.PutUser(models.User{UserID: 7, Email: "eva@example.com", RoleName: "Evaluator"})
	mem.PutUser(models.User{UserID: 8, Email: "ghost@example.com", RoleName: "guest"})

	router := gin.New()
	router.Use(AuthMiddleware(testSecret, mem.Store().Users, nil))
	router.GET("/whoami", func(c *gin.Context) {
		id, _ := UserIDFromContext(c)
		role, _ := RoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	router.GET("/evaluators", RequireRole(models.RoleEvaluator), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func call(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareResolvesRoleFromDirectory(t *testing.T) {
	router := authRouter()
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), 7, time.Now().Add(time.Hour))

	w := call(router, "/whoami", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"role":"evaluator"}`, w.Body.String())

	w = call(router, "/evaluators", "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	router := authRouter()
	now := time.Now()

	cases := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"no bearer prefix", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), 7, now.Add(time.Hour))},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), 7, now.Add(-time.Minute))},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), 7, now.Add(time.Hour))},
		{"wrong algorithm", "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), 7, now.Add(time.Hour))},
		{"unknown user", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), 99, now.Add(time.Hour))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(router, "/whoami", tc.authorization)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRoleWithoutKnownRole(t *testing.T) {
	router := authRouter()
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), 8, time.Now().Add(time.Hour))

	w := call(router, "/whoami", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":8,"role":""}`, w.Body.String())

	w = call(router, "/evaluators", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Role not found"}`, w.Body.String())
}
