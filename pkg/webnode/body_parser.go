package webnode

import (
	"context"

	"go.uber.org/zap"

	"github.com/larapida/go-webnode/pkg/middleware"
)

type bodyParserService struct {
	deps
	option *BodyParserOptions
}

func newBodyParserService(d deps, option *BodyParserOptions) *bodyParserService {
	return &bodyParserService{deps: d, option: option}
}

func (s *bodyParserService) Name() string { return "bodyParser" }

// config resolves limits; a limit left empty falls back to LegacyBodyLimit.
func (s *bodyParserService) config() (middleware.BodyParserConfig, bool, error) {
	opt := s.option
	if opt == nil {
		opt = DefaultBodyParserOptions()
	}
	if opt.Disabled {
		return middleware.BodyParserConfig{}, false, nil
	}

	cfg := middleware.BodyParserConfig{
		JSONLimit:       LegacyBodyLimit,
		URLEncodedLimit: LegacyBodyLimit,
		Extended:        true,
	}
	if opt.JSONLimit != "" {
		n, err := middleware.ParseByteSize(opt.JSONLimit)
		if err != nil {
			return cfg, false, wrapConfigErr("bodyParser.jsonLimit", "invalid size", err)
		}
		cfg.JSONLimit = n
	}
	if opt.URLEncodedLimit != "" {
		n, err := middleware.ParseByteSize(opt.URLEncodedLimit)
		if err != nil {
			return cfg, false, wrapConfigErr("bodyParser.urlencodedLimit", "invalid size", err)
		}
		cfg.URLEncodedLimit = n
	}
	if opt.Extended != nil {
		cfg.Extended = *opt.Extended
	}
	return cfg, true, nil
}

func (s *bodyParserService) Setup(_ context.Context) error {
	cfg, enabled, err := s.config()
	if err != nil {
		return err
	}
	if !enabled {
		s.logger.Debug("Body parsers disabled")
		return nil
	}
	s.engine.Use(middleware.BodyParser(cfg))
	s.logger.Info("Body parsers configured",
		zap.Int64("json_limit", cfg.JSONLimit),
		zap.Int64("urlencoded_limit", cfg.URLEncodedLimit),
		zap.Bool("extended", cfg.Extended))
	return nil
}
