// Package webnode bootstraps a gin HTTP application from declarative
// options.
//
// A Node normalizes its options (explicit values over PORT, SECURE,
// NODE_ENV and BASE_DOMAIN over defaults), then mounts its services in a
// fixed order on Bootstrap: compression, CORS, body parsing, request
// logging, custom middlewares, ad-hoc routes and finally routers.
//
//	node, err := webnode.New(webnode.Options{
//		ID:      "api",
//		Routers: []webnode.RouterEntry{webnode.At("/v1", webnode.Bare(v1))},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.Exit(webnode.ExitCode(webnode.Run(context.Background(), node)))
package webnode
