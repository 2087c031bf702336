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

const secret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func token(t *testing.T, rol string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "0b8f7c3e-8d0a-4f7b-9a43-2b1c5d6e7f80",
		"email":   "luisa@mafer.test",
		"nombre":  "Luisa",
		"rol":     rol,
		"exp":     exp.Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	api := r.Group("/api", JWTAuth(secret))
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rol": GetClaims(c).Rol, "nombre": GetClaims(c).Nombre})
	})
	api.GET("/admin", RequireRole(RolAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func get(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newEngine()

	w := get(r, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/api/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/api/me", token(t, RolEmployee, time.Now().Add(-time.Minute)))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "expired token")

	w = get(r, "/api/me", token(t, RolEmployee, time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rol":"employee","nombre":"Luisa"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequireRole(t *testing.T) {
	r := newEngine()

	w := get(r, "/api/admin", token(t, RolEmployee, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, "/api/admin", token(t, RolAdmin, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit(t *testing.T) {
	l, err := NewLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/login", RateLimit(l, "Demasiados intentos"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/login", "").Code)
	}
	w := get(r, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Demasiados intentos"}`, w.Body.String())

	_, err = NewLimiter("muchos")
	assert.Error(t, err)
}

func TestErrorHandlerYRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(), ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	r.GET("/fail", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	for _, path := range []string{"/boom", "/fail"} {
		w := get(r, path, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.JSONEq(t, `{"error":"Error interno del servidor"}`, w.Body.String(), path)
	}
}

func TestRequestID_PropagaCabecera(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
