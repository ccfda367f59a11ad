package webnode

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Mount is a router resolved during bootstrap together with its path.
type Mount struct {
	Path   string
	Router Router
}

type routersService struct {
	deps
	entries []RouterEntry
	mounts  []Mount
}

func newRoutersService(d deps, entries []RouterEntry) *routersService {
	return &routersService{deps: d, entries: entries}
}

func (s *routersService) Name() string { return "routers" }

// resolve awaits loaders one after another; any failure aborts before
// anything is mounted.
func (s *routersService) resolve(ctx context.Context) ([]Mount, error) {
	mounts := make([]Mount, 0, len(s.entries))
	for i, e := range s.entries {
		r, err := resolveRouter(ctx, e)
		if err != nil {
			return nil, wrapConfigErr(fmt.Sprintf("routers[%d]", i), "cannot resolve router", err)
		}
		mounts = append(mounts, Mount{Path: e.Path(), Router: r})
	}
	return mounts, nil
}

func resolveRouter(ctx context.Context, e RouterEntry) (Router, error) {
	switch {
	case e.router != nil:
		return e.router, nil
	case e.loader != nil:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := load(ctx, e.loader)
		if err != nil {
			return nil, fmt.Errorf("router loader failed: %w", err)
		}
		if r == nil {
			return nil, errors.New("router loader returned no router")
		}
		return r, nil
	default:
		return nil, errors.New("entry has neither a router nor a loader")
	}
}

func load(ctx context.Context, l RouterLoader) (r Router, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return l(ctx)
}

func (s *routersService) Setup(ctx context.Context) error {
	mounts, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	for i, m := range mounts {
		if err := s.mount(i, m); err != nil {
			return err
		}
		s.mounts = append(s.mounts, m)
		s.logger.Info("Router mounted", zap.String("path", m.Path))
	}
	return nil
}

func (s *routersService) mount(i int, m Mount) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = configErr(fmt.Sprintf("routers[%d]", i), "mounting at %s: %v", m.Path, r)
		}
	}()
	m.Router.RegisterRoutes(s.engine.Group(m.Path))
	return nil
}
