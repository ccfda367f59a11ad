package webnode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// State is the lifecycle state of a Node.
type State int32

const (
	StateConstructed State = iota
	StateBootstrapping
	StateReady
	StateServing
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateBootstrapping:
		return "bootstrapping"
	case StateReady:
		return "ready"
	case StateServing:
		return "serving"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Node is a configured HTTP application: a gin engine plus the services
// that wire it, run in a fixed order during Bootstrap.
type Node struct {
	opts    Options
	engine  *gin.Engine
	logger  *zap.Logger
	routers *routersService

	services []Service

	state atomic.Int32

	bootstrapOnce sync.Once
	bootstrapErr  error
	ready         chan struct{}

	mu     sync.Mutex
	server *http.Server
	addr   net.Addr
	done   chan error

	shutdownInProgress atomic.Bool
	stopped            chan struct{}
}

// New normalizes opts and builds a node. Only the logger and the CORS
// policy are computed here; nothing is mounted until Bootstrap.
func New(opts Options) (*Node, error) {
	normalized, err := Normalize(opts)
	if err != nil {
		return nil, err
	}
	return newNode(normalized)
}

func newNode(opts Options) (*Node, error) {
	logger, err := newLogger(opts)
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("node", opts.ID))

	engine := gin.New()
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	engine.Use(attachLogger(logger))

	n := &Node{
		opts:    opts,
		engine:  engine,
		logger:  logger,
		ready:   make(chan struct{}),
		done:    make(chan error, 1),
		stopped: make(chan struct{}),
	}

	d := deps{engine: engine, logger: logger, opts: &n.opts}
	corsSvc, err := newCORSService(d, opts.CORS)
	if err != nil {
		return nil, err
	}
	n.routers = newRoutersService(d, opts.Routers)
	n.services = []Service{
		newCompressionService(d, opts.Compression),
		corsSvc,
		newBodyParserService(d, opts.BodyParser),
		newHTTPLoggerService(d, opts.HTTPLogger),
		newMiddlewaresService(d, opts.Middlewares),
		newRoutesService(d, opts.Routes),
		n.routers,
	}
	return n, nil
}

// Bootstrap runs every service once, in order. Concurrent and later calls
// wait for the first run and return its result.
func (n *Node) Bootstrap(ctx context.Context) error {
	n.bootstrapOnce.Do(func() {
		defer close(n.ready)
		n.state.CompareAndSwap(int32(StateConstructed), int32(StateBootstrapping))
		n.bootstrapErr = n.bootstrap(ctx)
		if n.bootstrapErr != nil {
			n.setState(StateStopped)
		} else {
			// a node stopped meanwhile stays stopped
			n.state.CompareAndSwap(int32(StateBootstrapping), int32(StateReady))
		}
	})
	return n.bootstrapErr
}

// setup runs one service, turning a panic into a configuration error.
func setup(ctx context.Context, s Service) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = configErr(s.Name(), "panicked during setup: %v", r)
		}
	}()
	return s.Setup(ctx)
}

func (n *Node) bootstrap(ctx context.Context) error {
	start := time.Now()
	for _, s := range n.services {
		if err := setup(ctx, s); err != nil {
			n.logger.Error("Bootstrap failed", zap.String("service", s.Name()), zap.Error(err))
			return fmt.Errorf("bootstrap %s: %w", s.Name(), err)
		}
	}
	n.logger.Info("WebNode bootstrapped",
		zap.String("environment", string(n.opts.Environment)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Serve bootstraps the node and starts listening on Host:Port. It returns
// once the socket is bound; Done reports when serving ends.
func (n *Node) Serve(ctx context.Context) error {
	if err := n.Bootstrap(ctx); err != nil {
		return err
	}
	if n.shutdownInProgress.Load() {
		return ErrStopped
	}

	addr := net.JoinHostPort(n.opts.Host, strconv.Itoa(n.opts.Port))
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return n.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener, which the node owns from
// then on.
func (n *Node) ServeListener(ctx context.Context, ln net.Listener) error {
	if err := n.Bootstrap(ctx); err != nil {
		_ = ln.Close()
		return err
	}

	n.mu.Lock()
	if n.shutdownInProgress.Load() {
		n.mu.Unlock()
		_ = ln.Close()
		return ErrStopped
	}
	if n.server != nil {
		n.mu.Unlock()
		_ = ln.Close()
		return ErrAlreadyServing
	}
	srv := &http.Server{
		Handler:           n.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	n.server = srv
	n.addr = ln.Addr()
	n.setState(StateServing)
	n.mu.Unlock()

	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		} else {
			n.logger.Error("HTTP server error", zap.Error(err))
		}
		n.done <- err
		close(n.done)
	}()

	n.logger.Info("WebNode listening",
		zap.String("address", ln.Addr().String()),
		zap.String("url", n.Info().URL),
		zap.String("environment", string(n.opts.Environment)))
	return nil
}

// Stop gracefully shuts the server down, waiting at most ShutdownTimeout
// for in-flight requests. Only the first call acts; the others wait for it
// and return nil.
func (n *Node) Stop(ctx context.Context) error {
	if !n.shutdownInProgress.CompareAndSwap(false, true) {
		select {
		case <-n.stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	defer close(n.stopped)

	n.mu.Lock()
	srv := n.server
	n.mu.Unlock()

	if srv == nil {
		n.setState(StateStopped)
		return nil
	}

	n.setState(StateStopping)
	n.logger.Info("Shutting down WebNode...")

	ctx, cancel := context.WithTimeout(ctx, n.opts.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	n.setState(StateStopped)
	if err != nil {
		n.logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	n.logger.Info("WebNode stopped")
	return nil
}

// Done yields the serve error (nil after a clean Stop) and is closed when
// serving ends. It never fires for a node that was not served.
func (n *Node) Done() <-chan error { return n.done }

// Ready is closed once Bootstrap has finished, successfully or not.
func (n *Node) Ready() <-chan struct{} { return n.ready }

// State returns the current lifecycle state.
func (n *Node) State() State { return State(n.state.Load()) }

func (n *Node) setState(s State) { n.state.Store(int32(s)) }

// Engine exposes the gin engine, e.g. for httptest.
func (n *Node) Engine() *gin.Engine { return n.engine }

// Logger returns the node logger.
func (n *Node) Logger() *zap.Logger { return n.logger }

// Options returns the normalized options.
func (n *Node) Options() Options { return n.opts }

// Addr returns the bound address, or nil before Serve.
func (n *Node) Addr() net.Addr {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.addr
}

// Mounts lists router mount paths in mount order.
func (n *Node) Mounts() []string {
	paths := make([]string, 0, len(n.routers.mounts))
	for _, m := range n.routers.mounts {
		paths = append(paths, m.Path)
	}
	return paths
}
