package webnode

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Run serves n until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// server fails, then stops it gracefully. The result maps to a process exit
// status through ExitCode.
func Run(ctx context.Context, n *Node) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := n.Serve(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		n.logger.Info("Received termination signal, shutting down...", zap.Error(context.Cause(ctx)))
	case serveErr = <-n.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.opts.ShutdownTimeout)
	defer cancel()
	if err := n.Stop(stopCtx); err != nil {
		return err
	}
	return serveErr
}

// ExitCode maps the result of Run to a process exit status.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
