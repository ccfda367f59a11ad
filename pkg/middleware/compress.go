package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/klauspost/compress/gzip"
)

// DefaultCompressMinSize is the smallest response body that gets compressed.
const DefaultCompressMinSize = 1024

// CompressConfig configures the gzip middleware.
type CompressConfig struct {
	// MinSize is the body size threshold in bytes; smaller bodies are sent as-is.
	MinSize int
	// Level is a gzip compression level (gzip.DefaultCompression when zero and unset).
	Level int
	// ContentTypes restricts compression to these content types. Empty means gzhttp defaults.
	ContentTypes []string
}

// DefaultCompressConfig returns the threshold/level pair used when nothing is configured.
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		MinSize: DefaultCompressMinSize,
		Level:   gzip.DefaultCompression,
	}
}

// Compress returns a gin middleware gzip-encoding responses for clients that accept it.
func Compress(cfg CompressConfig) (gin.HandlerFunc, error) {
	var (
		wrap func(http.Handler) http.HandlerFunc
		err  error
	)
	if len(cfg.ContentTypes) > 0 {
		wrap, err = gzhttp.NewWrapper(
			gzhttp.MinSize(cfg.MinSize),
			gzhttp.CompressionLevel(cfg.Level),
			gzhttp.ContentTypes(cfg.ContentTypes),
		)
	} else {
		wrap, err = gzhttp.NewWrapper(
			gzhttp.MinSize(cfg.MinSize),
			gzhttp.CompressionLevel(cfg.Level),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
	}

	return func(c *gin.Context) {
		orig := c.Writer
		wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Writer = &compressWriter{ResponseWriter: orig, w: w}
			c.Next()
		})).ServeHTTP(orig, c.Request)
		c.Writer = orig
	}, nil
}

// compressWriter routes the body through the gzip writer while keeping the
// gin bookkeeping (status, size) that later middlewares read.
type compressWriter struct {
	gin.ResponseWriter
	w      http.ResponseWriter
	status int
}

func (cw *compressWriter) Header() http.Header {
	return cw.w.Header()
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.status = code
	cw.w.WriteHeader(code)
}

// WriteHeaderNow is a no-op: the gzip writer decides when headers go out.
func (cw *compressWriter) WriteHeaderNow() {}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.status == 0 {
		cw.status = http.StatusOK
	}
	return cw.w.Write(b)
}

func (cw *compressWriter) WriteString(s string) (int, error) {
	return cw.Write([]byte(s))
}

func (cw *compressWriter) Status() int {
	if cw.status != 0 {
		return cw.status
	}
	return cw.ResponseWriter.Status()
}

func (cw *compressWriter) Written() bool {
	return cw.status != 0 || cw.ResponseWriter.Written()
}

func (cw *compressWriter) Flush() {
	if f, ok := cw.w.(http.Flusher); ok {
		f.Flush()
	}
}

var _ io.StringWriter = (*compressWriter)(nil)
