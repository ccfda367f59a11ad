package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// BodyParserConfig configures the JSON / URL-encoded body parser.
type BodyParserConfig struct {
	// JSONLimit is the maximum accepted JSON body size in bytes.
	JSONLimit int64
	// URLEncodedLimit is the maximum accepted form body size in bytes.
	URLEncodedLimit int64
	// Extended pre-parses form bodies into Request.PostForm.
	Extended bool
}

// BodyParser returns a middleware enforcing size limits on JSON and
// URL-encoded request bodies. Oversized bodies are rejected with 413,
// malformed JSON with 400. JSON bodies are buffered and handed downstream
// untouched, so handlers keep using c.ShouldBindJSON.
func BodyParser(cfg BodyParserConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		switch ct := c.ContentType(); {
		case isJSON(ct):
			if !parseJSON(c, cfg.JSONLimit) {
				return
			}
		case ct == gin.MIMEPOSTForm:
			if !parseForm(c, cfg.URLEncodedLimit, cfg.Extended) {
				return
			}
		}

		c.Next()
	}
}

func isJSON(ct string) bool {
	return ct == gin.MIMEJSON || strings.HasSuffix(ct, "+json")
}

func parseJSON(c *gin.Context, limit int64) bool {
	if tooLarge(c, limit) {
		return false
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, limit+1))
	_ = c.Request.Body.Close()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return false
	}
	if int64(len(data)) > limit {
		abortTooLarge(c)
		return false
	}
	if len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed JSON body"})
		return false
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(data))
	c.Request.ContentLength = int64(len(data))
	return true
}

func parseForm(c *gin.Context, limit int64, extended bool) bool {
	if tooLarge(c, limit) {
		return false
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	if !extended {
		return true
	}

	if err := c.Request.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			abortTooLarge(c)
			return false
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed form body"})
		return false
	}
	return true
}

func tooLarge(c *gin.Context, limit int64) bool {
	if c.Request.ContentLength > limit {
		abortTooLarge(c)
		return true
	}
	return false
}

func abortTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request entity too large"})
}

var byteUnits = map[string]float64{
	"":   1,
	"b":  1,
	"kb": 1 << 10,
	"mb": 1 << 20,
	"gb": 1 << 30,
}

// ParseByteSize parses sizes such as "100kb", "1mb" or "512" (bytes).
// Units are binary multiples and case-insensitive.
func ParseByteSize(s string) (int64, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	i := strings.IndexFunc(v, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	num, unit := v, ""
	if i >= 0 {
		num, unit = v[:i], strings.TrimSpace(v[i:])
	}

	mult, ok := byteUnits[unit]
	if !ok {
		return 0, fmt.Errorf("invalid byte size %q: unknown unit %q", s, unit)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	size := n * mult
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid byte size %q: too large", s)
	}
	return int64(size), nil
}
