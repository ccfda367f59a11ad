package webnode

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/larapida/go-webnode/pkg/logging"
)

// Environment is the runtime environment of a node.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Environments lists the valid environments.
var Environments = []Environment{Development, Production}

// IsValid checks if the environment is one of Environments.
func (e Environment) IsValid() bool {
	for _, valid := range Environments {
		if e == valid {
			return true
		}
	}
	return false
}

// ParseEnvironment parses an environment name.
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(s)
	if !env.IsValid() {
		return "", fmt.Errorf("invalid environment %q, valid environments: %v", s, Environments)
	}
	return env, nil
}

const (
	// MainID is the id of the node served on the bare base domain.
	MainID = "main"

	DefaultPort       = 3000
	MinPort           = 3000
	MaxPort           = 65535
	DefaultBaseDomain = "localhost"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultBodyLimit is the body parser limit filled in by Normalize.
	DefaultBodyLimit int64 = 1 << 20
	// LegacyBodyLimit applies to limits left empty in an explicit BodyParserOptions.
	LegacyBodyLimit int64 = 100 << 10
)

// Options configures a Node. Zero values mean "unset": Normalize fills them
// from the environment or defaults. Each concern option carries a Disabled
// sentinel; a nil pointer asks for the computed default.
type Options struct {
	// ID names the node: "main" or a lowercase slug such as "api" or "admin-v2".
	ID string `yaml:"id"`
	// Host is the listen address; empty listens on all interfaces.
	Host string `yaml:"host"`
	// Port must lie in [MinPort, MaxPort].
	Port        int         `yaml:"port"`
	Secure      *bool       `yaml:"secure"`
	Environment Environment `yaml:"environment"`
	// BaseDomain is "localhost" or a bare domain such as "example.com".
	BaseDomain string `yaml:"base_domain"`

	Logger      *LoggerOptions      `yaml:"-"`
	Compression *CompressionOptions `yaml:"-"`
	CORS        *CORSOptions        `yaml:"-"`
	BodyParser  *BodyParserOptions  `yaml:"-"`
	HTTPLogger  *HTTPLoggerOptions  `yaml:"-"`

	Middlewares []Middleware   `yaml:"-"`
	Routes      RouteRegistrar `yaml:"-"`
	Routers     []RouterEntry  `yaml:"-"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggerOptions selects the node logger.
type LoggerOptions struct {
	// Disabled switches to a plain console logger.
	Disabled bool
	// Instance is used verbatim when set.
	Instance *zap.Logger
	// Environments holds per-environment logging configs.
	Environments map[Environment]logging.Config
}

// DefaultLoggerOptions returns the built-in per-environment logging configs.
func DefaultLoggerOptions() *LoggerOptions {
	return &LoggerOptions{
		Environments: map[Environment]logging.Config{
			Development: logging.DevelopmentConfig(),
			Production:  logging.DefaultConfig(),
		},
	}
}

// CompressionOptions configures gzip compression; used verbatim when given.
type CompressionOptions struct {
	Disabled     bool
	MinSize      int
	Level        int
	ContentTypes []string
}

// CORSOptions configures CORS. A non-nil Config is used verbatim.
type CORSOptions struct {
	Disabled bool
	Config   *cors.Config
}

// BodyParserOptions configures JSON and URL-encoded body parsing.
// Limits accept sizes such as "100kb" or "1mb".
type BodyParserOptions struct {
	Disabled        bool
	JSONLimit       string
	URLEncodedLimit string
	Extended        *bool
}

// DefaultBodyParserOptions returns the options Normalize fills in.
func DefaultBodyParserOptions() *BodyParserOptions {
	return &BodyParserOptions{
		JSONLimit:       "1mb",
		URLEncodedLimit: "1mb",
		Extended:        Bool(true),
	}
}

// HTTPLoggerOptions configures the per-request logger.
type HTTPLoggerOptions struct {
	Disabled        bool
	SkipPaths       []string
	RequestIDHeader string
}

// Middleware is a handler or a zero-argument factory producing one.
type Middleware struct {
	handler gin.HandlerFunc
	factory func() gin.HandlerFunc
}

// Handler wraps a ready handler.
func Handler(h gin.HandlerFunc) Middleware {
	return Middleware{handler: h}
}

// Factory wraps a function invoked once during bootstrap to produce the handler.
func Factory(f func() gin.HandlerFunc) Middleware {
	return Middleware{factory: f}
}

// RouteRegistrar registers ad-hoc routes directly on the engine.
type RouteRegistrar func(engine *gin.Engine)

// Router contributes a group of routes below its mount path.
type Router interface {
	RegisterRoutes(r gin.IRouter)
}

// RouterFunc adapts a function to Router.
type RouterFunc func(r gin.IRouter)

// RegisterRoutes calls f(r).
func (f RouterFunc) RegisterRoutes(r gin.IRouter) {
	f(r)
}

// RouterLoader lazily produces a Router during bootstrap.
type RouterLoader func(ctx context.Context) (Router, error)

// RouterEntry is one mount: a bare Router or a RouterLoader, optionally
// scoped to a path. Build entries with Bare, Lazy and At.
type RouterEntry struct {
	path   string
	router Router
	loader RouterLoader
}

// Bare mounts r at "/".
func Bare(r Router) RouterEntry {
	return RouterEntry{router: r}
}

// Lazy mounts the router returned by l at "/".
func Lazy(l RouterLoader) RouterEntry {
	return RouterEntry{loader: l}
}

// At scopes e to path.
func At(path string, e RouterEntry) RouterEntry {
	e.path = path
	return e
}

// Path returns the mount path, "/" by default.
func (e RouterEntry) Path() string {
	if e.path == "" {
		return "/"
	}
	return e.path
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
