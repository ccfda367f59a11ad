package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/larapida/go-webnode/pkg/webnode"
)

// HTTPError is an error carrying the status and message sent to the client.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewHTTPError creates an HTTPError
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

var errInternal = NewHTTPError(http.StatusInternalServerError, "Internal server error")

// RespondError aborts the request with {"error": message}. Errors that are
// not HTTPErrors are logged and answered with 500.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	render(c, err)
}

func render(c *gin.Context, err error) {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		webnode.LoggerFrom(c).Error("Unhandled error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		httpErr = errInternal
	}
	c.AbortWithStatusJSON(httpErr.Status, gin.H{"error": httpErr.Message})
}

// ErrorHandler answers requests whose handlers recorded errors with
// c.Error but wrote no response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		if c.Writer.Written() {
			webnode.LoggerFrom(c).Debug("Response already written, dropping errors",
				zap.String("errors", c.Errors.String()))
			return
		}
		render(c, c.Errors.Last().Err)
	}
}
