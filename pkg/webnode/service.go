package webnode

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service is one step of the bootstrap sequence. Setup runs exactly once.
type Service interface {
	Name() string
	Setup(ctx context.Context) error
}

// deps is shared by every service of a node.
type deps struct {
	engine *gin.Engine
	logger *zap.Logger
	opts   *Options
}
