package webnode

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/larapida/go-webnode/pkg/logging"
)

// ContextLogger is the gin context key holding the node logger.
const ContextLogger = "logger"

func newLogger(opts Options) (*zap.Logger, error) {
	o := opts.Logger
	if o == nil {
		o = DefaultLoggerOptions()
	}
	if o.Disabled {
		return logging.Console(), nil
	}
	if o.Instance != nil {
		return o.Instance, nil
	}

	cfg, ok := o.Environments[opts.Environment]
	if !ok {
		cfg = DefaultLoggerOptions().Environments[opts.Environment]
	}
	logger, err := logging.NewLogger(cfg)
	if err != nil {
		return nil, wrapConfigErr("logger", fmt.Sprintf("cannot build %s logger", opts.Environment), err)
	}
	return logger, nil
}

// attachLogger exposes the node logger to handlers through LoggerFrom.
func attachLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextLogger, logger)
		c.Next()
	}
}

// LoggerFrom returns the node logger for a request, or a no-op logger when
// the handler does not run inside a node.
func LoggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(ContextLogger); ok {
		if logger, ok := v.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}
