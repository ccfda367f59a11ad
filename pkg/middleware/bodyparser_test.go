package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBodyRouter(cfg BodyParserConfig) *gin.Engine {
	router := gin.New()
	router.Use(BodyParser(cfg))
	router.POST("/json", func(c *gin.Context) {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, payload)
	})
	router.POST("/form", func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.PostForm.Get("name"))
	})
	return router
}

func TestBodyParser_JSONWithinLimit(t *testing.T) {
	router := newBodyRouter(BodyParserConfig{JSONLimit: 1024, URLEncodedLimit: 1024, Extended: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(`{"hello":"world"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hello":"world"}`, w.Body.String())
}

func TestBodyParser_JSONTooLarge(t *testing.T) {
	router := newBodyRouter(BodyParserConfig{JSONLimit: 16, URLEncodedLimit: 16})

	body := `{"hello":"` + strings.Repeat("a", 64) + `"}`

	t.Run("known content length", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("unknown content length", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestBodyParser_MalformedJSON(t *testing.T) {
	router := newBodyRouter(BodyParserConfig{JSONLimit: 1024, URLEncodedLimit: 1024})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(`{"hello":`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "malformed JSON body")
}

func TestBodyParser_Form(t *testing.T) {
	form := url.Values{"name": {"webnode"}}.Encode()

	t.Run("extended parses form", func(t *testing.T) {
		router := newBodyRouter(BodyParserConfig{JSONLimit: 1024, URLEncodedLimit: 1024, Extended: true})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "webnode", w.Body.String())
	})

	t.Run("too large", func(t *testing.T) {
		router := newBodyRouter(BodyParserConfig{JSONLimit: 1024, URLEncodedLimit: 4, Extended: true})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestBodyParser_OtherContentTypesPassThrough(t *testing.T) {
	router := gin.New()
	router.Use(BodyParser(BodyParserConfig{JSONLimit: 1, URLEncodedLimit: 1}))
	router.POST("/raw", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader("plain text body"))
	req.Header.Set("Content-Type", "text/plain")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100kb", 100 * 1024},
		{"1mb", 1 << 20},
		{"1MB", 1 << 20},
		{"512", 512},
		{"10b", 10},
		{"1.5kb", 1536},
		{" 2 gb ", 2 << 30},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseByteSize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "mb", "10tb", "-1kb", "abc", "99999999999gb", "9223372036854775808"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseByteSize(bad)
			assert.Error(t, err)
		})
	}
}
