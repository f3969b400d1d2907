package server

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pvandermeer/vosdns/internal/config"
	"github.com/pvandermeer/vosdns/internal/querylog"
	"github.com/pvandermeer/vosdns/internal/resolver"
	"github.com/pvandermeer/vosdns/internal/stats"
)

// Runner wires configuration into a resolver, handler, and UDP server, and
// manages their lifecycle.
type Runner struct {
	logger   *slog.Logger
	stats    *stats.DNSStats
	queryLog *querylog.Store
}

// NewRunner creates a runner with the given logger. queryLog may be nil
// when query logging is disabled; the store's lifecycle belongs to the
// caller.
func NewRunner(logger *slog.Logger, queryLog *querylog.Store) *Runner {
	return &Runner{logger: logger, stats: stats.New(), queryLog: queryLog}
}

// Stats exposes the serving counters, for the management API.
func (r *Runner) Stats() *stats.DNSStats {
	return r.stats
}

// QueryLog exposes the query log store, nil when disabled.
func (r *Runner) QueryLog() *querylog.Store {
	return r.queryLog
}

// Run starts the server and blocks until SIGINT/SIGTERM.
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg)
}

// RunWithContext starts the server and blocks until ctx is canceled or the
// server fails. Callers sharing a shutdown signal (e.g. the management API)
// use this directly.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config) error {
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	res := r.buildResolver(cfg)
	defer res.Close()

	handler := &QueryHandler{
		Logger:   r.logger,
		Resolver: res,
		Stats:    r.stats,
		QueryLog: r.queryLog,
		Timeout:  4 * time.Second,
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	r.logger.Info("dns server listening",
		"addr", addr,
		"mode", string(cfg.Resolver.Mode),
		"max_concurrency", cfg.Server.MaxConcurrency,
		"query_log", cfg.QueryLog.Enabled,
	)

	udp := &UDPServer{Logger: r.logger, Handler: handler, MaxConcurrency: cfg.Server.MaxConcurrency}

	errCh := make(chan error, 1)
	go func() { errCh <- udp.Run(ctx, addr) }()

	select {
	case <-ctx.Done():
		// shutdown requested
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	if err := udp.Stop(5 * time.Second); err != nil {
		r.logger.Warn("shutdown incomplete", "error", err)
	}
	return nil
}

func (r *Runner) buildResolver(cfg *config.Config) resolver.Resolver {
	timeout := cfg.ResolverTimeout()
	switch cfg.Resolver.Mode {
	case config.ModeIterate:
		it := resolver.NewIterativeResolver(cfg.Resolver.RootServer, timeout)
		it.Logger = r.logger
		return it
	default:
		fw := resolver.NewForwardingResolver(cfg.Resolver.Upstream, timeout, cfg.Resolver.MaxRetries)
		fw.Logger = r.logger
		return fw
	}
}
