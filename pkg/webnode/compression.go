package webnode

import (
	"context"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/larapida/go-webnode/pkg/middleware"
)

type compressionService struct {
	deps
	option *CompressionOptions
}

func newCompressionService(d deps, option *CompressionOptions) *compressionService {
	return &compressionService{deps: d, option: option}
}

func (s *compressionService) Name() string { return "compression" }

func (s *compressionService) config() (middleware.CompressConfig, bool) {
	if s.option == nil {
		return middleware.DefaultCompressConfig(), true
	}
	if s.option.Disabled {
		return middleware.CompressConfig{}, false
	}
	cfg := middleware.CompressConfig{
		MinSize:      s.option.MinSize,
		Level:        s.option.Level,
		ContentTypes: s.option.ContentTypes,
	}
	if cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}
	return cfg, true
}

func (s *compressionService) Setup(_ context.Context) error {
	cfg, enabled := s.config()
	if !enabled {
		s.logger.Debug("Compression disabled")
		return nil
	}
	mw, err := middleware.Compress(cfg)
	if err != nil {
		return wrapConfigErr("compression", "invalid options", err)
	}
	s.engine.Use(mw)
	s.logger.Info("Compression middleware applied",
		zap.Int("min_size", cfg.MinSize),
		zap.Int("level", cfg.Level))
	return nil
}
