package webnode

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type middlewaresService struct {
	deps
	entries []Middleware
}

func newMiddlewaresService(d deps, entries []Middleware) *middlewaresService {
	return &middlewaresService{deps: d, entries: entries}
}

func (s *middlewaresService) Name() string { return "middlewares" }

// Setup resolves every entry before mounting any, in declaration order.
func (s *middlewaresService) Setup(_ context.Context) error {
	handlers := make([]gin.HandlerFunc, 0, len(s.entries))
	for i, m := range s.entries {
		field := fmt.Sprintf("middlewares[%d]", i)
		h, err := produce(m)
		if err != nil {
			return wrapConfigErr(field, "factory failed", err)
		}
		if h == nil {
			return configErr(field, "did not produce a handler")
		}
		handlers = append(handlers, h)
	}
	if len(handlers) == 0 {
		return nil
	}
	s.engine.Use(handlers...)
	s.logger.Info("Middlewares applied", zap.Int("count", len(handlers)))
	return nil
}

func produce(m Middleware) (h gin.HandlerFunc, err error) {
	if m.factory == nil {
		return m.handler, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return m.factory(), nil
}
