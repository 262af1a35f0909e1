package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizadmin/internal/auth"
	"bizadmin/internal/config"
	"bizadmin/internal/domain"
	"bizadmin/internal/metrics"
	"bizadmin/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func testIssuer() *auth.Issuer {
	return auth.NewIssuer(config.JWTConfig{
		Secret: "0123456789abcdef0123456789abcdef", Issuer: "bizadmin", Audience: "bizadmin-api",
		AccessTTL: time.Minute,
	})
}

func bearer(t *testing.T, perms ...string) string {
	t.Helper()
	u := domain.User{Username: "alice"}
	u.ID = 3
	u.Roles = []domain.Role{{Name: "Clerk"}}
	for _, p := range perms {
		u.Roles[0].Permissions = append(u.Roles[0].Permissions, domain.Permission{Code: p})
	}
	raw, _, err := testIssuer().Issue(u)
	require.NoError(t, err)
	return "Bearer " + raw
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.False(t, env.Success)
	return env.Error.Code
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func protected(perm string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Authenticate(testIssuer()))
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, auth.FromContext(c.Request.Context()).Username())
	})
	r.GET("/me", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, domain.ActorFrom(c.Request.Context()))
	})
	r.GET("/guarded", RequirePermission(perm), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuthenticate(t *testing.T) {
	r := protected("countries.read")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t))
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(t, w))

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Basic YWxpY2U6cw==")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission(t *testing.T) {
	r := protected("countries.delete")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", bearer(t, "countries.read"))
	w = serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", errorCode(t, w))

	req = httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", bearer(t, "countries.read", "countries.delete"))
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)
}

func TestRateLimit(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/login", RateLimit(ratelimit.NewMemory(0.001, 2), m), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", errorCode(t, w))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRecover(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recover())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", errorCode(t, w))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}
