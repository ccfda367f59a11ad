package webnode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/larapida/go-webnode/pkg/middleware"
)

var (
	idPattern     = regexp.MustCompile(`^[0-9a-z]+(?:[-.]?[0-9a-z]+)*$`)
	domainPattern = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+(?:[a-z]{2,63}|xn--[a-z0-9-]{1,59})$`)
)

const maxDomainLength = 253

// Normalize merges opts over the environment over the defaults and
// validates the result. Explicit options win; environment variables only
// fill fields left unset. Normalize is idempotent.
func Normalize(opts Options) (Options, error) {
	env, err := LoadEnv()
	if err != nil {
		return Options{}, err
	}
	return normalize(opts, env)
}

func normalize(opts Options, env EnvOptions) (Options, error) {
	if err := env.apply(&opts); err != nil {
		return Options{}, err
	}
	applyDefaults(&opts)
	if err := validate(opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func applyDefaults(opts *Options) {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Secure == nil {
		opts.Secure = Bool(false)
	}
	if opts.Environment == "" {
		opts.Environment = Development
	}
	if opts.BaseDomain == "" {
		opts.BaseDomain = DefaultBaseDomain
	}
	opts.BaseDomain = strings.ToLower(opts.BaseDomain)
	if opts.Logger == nil {
		opts.Logger = DefaultLoggerOptions()
	}
	if opts.BodyParser == nil {
		opts.BodyParser = DefaultBodyParserOptions()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
}

func validate(opts Options) error {
	if opts.ID != MainID && !idPattern.MatchString(opts.ID) {
		return configErr("id", "%q must be %q or a lowercase slug of letters and digits separated by '-' or '.'", opts.ID, MainID)
	}
	if opts.Port < MinPort || opts.Port > MaxPort {
		return configErr("port", "%d is outside [%d, %d]", opts.Port, MinPort, MaxPort)
	}
	if !opts.Environment.IsValid() {
		return configErr("environment", "%q is not one of %v", opts.Environment, Environments)
	}
	if err := validateBaseDomain(opts.BaseDomain); err != nil {
		return err
	}
	if l := opts.Logger; l != nil && !l.Disabled && l.Instance == nil && len(l.Environments) == 0 {
		return configErr("logger", "needs an instance or at least one environment config")
	}
	if bp := opts.BodyParser; bp != nil && !bp.Disabled {
		for field, limit := range map[string]string{"bodyParser.jsonLimit": bp.JSONLimit, "bodyParser.urlencodedLimit": bp.URLEncodedLimit} {
			if limit == "" {
				continue
			}
			if _, err := middleware.ParseByteSize(limit); err != nil {
				return wrapConfigErr(field, "invalid size", err)
			}
		}
	}
	for i, m := range opts.Middlewares {
		if m.handler == nil && m.factory == nil {
			return configErr(fmt.Sprintf("middlewares[%d]", i), "neither a handler nor a factory")
		}
	}
	for i, r := range opts.Routers {
		field := fmt.Sprintf("routers[%d]", i)
		if r.router == nil && r.loader == nil {
			return configErr(field, "neither a router nor a loader")
		}
		if !strings.HasPrefix(r.Path(), "/") {
			return configErr(field, "path %q must start with '/'", r.Path())
		}
	}
	return nil
}

func validateBaseDomain(domain string) error {
	if domain == DefaultBaseDomain {
		return nil
	}
	if len(domain) > maxDomainLength || !domainPattern.MatchString(domain) {
		return configErr("baseDomain", "%q must be %q or a valid domain name", domain, DefaultBaseDomain)
	}
	return nil
}
