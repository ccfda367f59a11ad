package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCompressRouter(t *testing.T, body string, status int) *gin.Engine {
	t.Helper()

	mw, err := Compress(DefaultCompressConfig())
	require.NoError(t, err)

	router := gin.New()
	router.Use(mw)
	router.GET("/data", func(c *gin.Context) {
		c.String(status, body)
	})
	return router
}

func TestCompress_LargeBodyIsGzipped(t *testing.T) {
	body := strings.Repeat("webnode ", 512)
	router := newCompressRouter(t, body, http.StatusOK)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))
}

func TestCompress_SmallBodyIsNotGzipped(t *testing.T) {
	router := newCompressRouter(t, "tiny", http.StatusOK)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "tiny", w.Body.String())
}

func TestCompress_NoAcceptEncoding(t *testing.T) {
	body := strings.Repeat("x", 4096)
	router := newCompressRouter(t, body, http.StatusOK)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, body, w.Body.String())
}

func TestCompress_PreservesStatus(t *testing.T) {
	mw, err := Compress(DefaultCompressConfig())
	require.NoError(t, err)

	var seen int
	router := gin.New()
	router.Use(mw, func(c *gin.Context) {
		c.Next()
		seen = c.Writer.Status()
	})
	router.GET("/data", func(c *gin.Context) {
		c.String(http.StatusNotFound, "missing")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "missing", w.Body.String())
	assert.Equal(t, http.StatusNotFound, seen)
}

func TestCompress_InvalidLevel(t *testing.T) {
	_, err := Compress(CompressConfig{MinSize: 10, Level: 42})
	assert.Error(t, err)
}
