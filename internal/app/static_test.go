package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_ServesIndexAndAssets(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>tree</h1>")

	rec = e.do(http.MethodGet, "/images/stage1.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestStatic_NotFound(t *testing.T) {
	e := newTestEnv(t)
	for _, p := range []string{"/missing.css", "/images", "/images/"} {
		rec := e.do(http.MethodGet, p, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, p)
	}
}

func TestStatic_RejectsTraversal(t *testing.T) {
	e := newTestEnv(t)
	for _, p := range []string{"/../secret.txt", "/images/../../etc/passwd", "/images/..%2f..%2fetc/passwd", "/a%5c..%5cb"} {
		rec := e.do(http.MethodGet, p, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, p)
	}
}

func TestHasTraversal(t *testing.T) {
	assert.True(t, hasTraversal("/.."))
	assert.True(t, hasTraversal("/a/../b"))
	assert.True(t, hasTraversal(`/a\b`))
	assert.False(t, hasTraversal("/a..b/c"))
	assert.False(t, hasTraversal("/"))
}

func TestCORS_AllOrigins(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/schools/1/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ListedOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/api/schools", func(c *gin.Context) { c.Status(http.StatusOK) })

	for origin, want := range map[string]int{
		"http://localhost:3000": http.StatusOK,
		"http://evil.example":   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/schools", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, origin)
	}
}

func TestRequestID_Propagates(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}
