package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pvandermeer/vosdns/internal/api"
	"github.com/pvandermeer/vosdns/internal/config"
	"github.com/pvandermeer/vosdns/internal/logging"
	"github.com/pvandermeer/vosdns/internal/querylog"
	"github.com/pvandermeer/vosdns/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to JSON configuration file (or set VOSDNS_CONFIG)")
		host       = flag.String("host", "", "Override bind host")
		port       = flag.Int("port", 0, "Override bind port")
		mode       = flag.String("mode", "", "Override resolver mode (forward|iterate)")
		upstream   = flag.String("upstream", "", "Override upstream resolver HOST:PORT")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *mode != "" {
		cfg.Resolver.Mode = config.ResolverMode(*mode)
	}
	if *upstream != "" {
		cfg.Resolver.Upstream = *upstream
	}
	if *jsonLogs {
		cfg.Logging.Format = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		IncludePID:  cfg.Logging.IncludePID,
		ExtraFields: cfg.Logging.ExtraFields,
	})
	logger.Info("VosDNS starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", string(cfg.Resolver.Mode),
		"api", cfg.API.Enabled,
	)

	var store *querylog.Store
	if cfg.QueryLog.Enabled {
		store, err = querylog.Open(cfg.QueryLog.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open query log: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	runner := server.NewRunner(logger, store)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.API.Enabled {
		apiServer := api.New(cfg, logger, runner.Stats(), runner.QueryLog())
		go func() {
			logger.Info("management api listening", "addr", apiServer.Addr())
			if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("management api failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := apiServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("management api shutdown incomplete", "error", err)
			}
		}()
	}

	if err := runner.RunWithContext(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}
