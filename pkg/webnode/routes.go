package webnode

import (
	"context"
)

type routesService struct {
	deps
	registrar RouteRegistrar
}

func newRoutesService(d deps, registrar RouteRegistrar) *routesService {
	return &routesService{deps: d, registrar: registrar}
}

func (s *routesService) Name() string { return "routes" }

// Setup calls the registrar with the engine. gin panics on conflicting
// routes; the panic becomes a configuration error.
func (s *routesService) Setup(_ context.Context) (err error) {
	if s.registrar == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = configErr("routes", "%v", r)
		}
	}()
	s.registrar(s.engine)
	s.logger.Info("Routes mounted successfully")
	return nil
}
