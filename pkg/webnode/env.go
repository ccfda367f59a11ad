package webnode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvOptions holds the raw environment overrides. A nil or empty field is unset.
type EnvOptions struct {
	Port        *string `envconfig:"PORT"`
	Secure      *string `envconfig:"SECURE"`
	NodeEnv     *string `envconfig:"NODE_ENV"`
	Environment *string `envconfig:"ENVIRONMENT"`
	BaseDomain  *string `envconfig:"BASE_DOMAIN"`
}

// LoadEnv reads PORT, SECURE, NODE_ENV (or ENVIRONMENT) and BASE_DOMAIN.
func LoadEnv() (EnvOptions, error) {
	var env EnvOptions
	if err := envconfig.Process("", &env); err != nil {
		return EnvOptions{}, fmt.Errorf("failed to process environment: %w", err)
	}
	return env, nil
}

func envValue(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	return s, s != ""
}

// apply fills fields still unset in opts from the environment.
func (e EnvOptions) apply(opts *Options) error {
	if v, ok := envValue(e.Port); ok && opts.Port == 0 {
		port, err := strconv.Atoi(v)
		if err != nil {
			return wrapConfigErr("port", "PORT must be an integer", err)
		}
		opts.Port = port
	}

	if v, ok := envValue(e.Secure); ok && opts.Secure == nil {
		var secure bool
		switch strings.ToLower(v) {
		case "true":
			secure = true
		case "false":
		default:
			return configErr("secure", "SECURE must be true or false, got %q", v)
		}
		opts.Secure = &secure
	}

	if opts.Environment == "" {
		v, ok := envValue(e.NodeEnv)
		if !ok {
			v, ok = envValue(e.Environment)
		}
		if ok {
			opts.Environment = Environment(strings.ToLower(v))
		}
	}

	if v, ok := envValue(e.BaseDomain); ok && opts.BaseDomain == "" {
		opts.BaseDomain = v
	}
	return nil
}
