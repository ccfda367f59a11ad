package webnode

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

var localOriginPattern = regexp.MustCompile(`^https?://(?:localhost|127\.0\.0\.1)(?::\d+)?$`)

type corsService struct {
	deps
	config *cors.Config
}

// newCORSService computes the CORS policy up front, so a production node
// without a usable base domain fails at construction.
func newCORSService(d deps, option *CORSOptions) (*corsService, error) {
	s := &corsService{deps: d}
	if option != nil && option.Disabled {
		return s, nil
	}
	if option != nil && option.Config != nil {
		cfg := *option.Config
		if err := cfg.Validate(); err != nil {
			return nil, wrapConfigErr("cors", "invalid config", err)
		}
		s.config = &cfg
		return s, nil
	}

	base := d.opts.BaseDomain
	if d.opts.Environment != Development && (base == "" || base == DefaultBaseDomain) {
		d.logger.Error("CORS: a base domain is required outside development",
			zap.String("environment", string(d.opts.Environment)))
		return nil, configErr("baseDomain", "required by the default CORS policy in %s", d.opts.Environment)
	}

	allowed := OriginPolicy(base, d.opts.Environment)
	s.config = &cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if allowed(origin) {
				return true
			}
			d.logger.Warn("CORS: origin not allowed", zap.String("origin", origin))
			return false
		},
		AllowMethods:     []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	return s, nil
}

func (s *corsService) Name() string { return "cors" }

func (s *corsService) Setup(_ context.Context) error {
	if s.config == nil {
		s.logger.Debug("CORS disabled")
		return nil
	}
	s.engine.Use(cors.New(*s.config))
	s.logger.Info("CORS middleware applied", zap.String("base_domain", s.opts.BaseDomain))
	return nil
}

// RegistrableDomain reduces a domain to its registrable part: scheme,
// "www.", port and subdomains are dropped ("https://www.api.example.co.uk"
// becomes "example.co.uk").
func RegistrableDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.IndexAny(d, "/:"); i >= 0 {
		d = d[:i]
	}
	d = strings.TrimPrefix(d, "www.")
	if d == "" || d == DefaultBaseDomain {
		return DefaultBaseDomain
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(d); err == nil {
		return etld1
	}
	return d
}

// OriginPolicy returns the default origin predicate for a base domain.
// Allowed: the registrable domain and any of its subdomains over http or
// https on any port, plus localhost in development. A "localhost" base
// domain allows every origin. Requests without an Origin always pass.
func OriginPolicy(baseDomain string, env Environment) func(origin string) bool {
	base := RegistrableDomain(baseDomain)
	if base == DefaultBaseDomain {
		return func(string) bool { return true }
	}
	sub := regexp.MustCompile(`^https?://(?:[^./]+\.)*` + regexp.QuoteMeta(base) + `(?::\d+)?$`)
	return func(origin string) bool {
		if origin == "" {
			return true
		}
		origin = strings.ToLower(origin)
		if sub.MatchString(origin) {
			return true
		}
		return env == Development && localOriginPattern.MatchString(origin)
	}
}
