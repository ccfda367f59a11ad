package webnode

import (
	"context"

	"github.com/larapida/go-webnode/pkg/middleware"
)

type httpLoggerService struct {
	deps
	option *HTTPLoggerOptions
}

func newHTTPLoggerService(d deps, option *HTTPLoggerOptions) *httpLoggerService {
	return &httpLoggerService{deps: d, option: option}
}

func (s *httpLoggerService) Name() string { return "httpLogger" }

func (s *httpLoggerService) Setup(_ context.Context) error {
	var cfg middleware.RequestLoggerConfig
	if s.option != nil {
		if s.option.Disabled {
			s.logger.Debug("HTTP request logging disabled")
			return nil
		}
		cfg.SkipPaths = s.option.SkipPaths
		cfg.RequestIDHeader = s.option.RequestIDHeader
	}
	s.engine.Use(middleware.RequestLogger(s.logger.Named("http"), cfg))
	s.logger.Info("HTTP request logging applied")
	return nil
}
