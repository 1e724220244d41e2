package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/internal/api"
	"github.com/soulboard-labs/soulboard-go/internal/config"
	"github.com/soulboard-labs/soulboard-go/internal/db"
	"github.com/soulboard-labs/soulboard-go/internal/observability"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/rpc"
	"github.com/soulboard-labs/soulboard-go/subscription"
	"github.com/soulboard-labs/soulboard-go/types"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLogger(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("gateway error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	programID := program.DefaultProgramID
	if cfg.ProgramID != "" {
		pk, err := types.PublicKeyFromBase58(cfg.ProgramID)
		if err != nil {
			return fmt.Errorf("invalid PROGRAM_ID: %w", err)
		}
		programID = pk
	}

	if cfg.TracingEnabled {
		shutdownTracing, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.OTLPEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdownTracing()
	}

	store, err := db.InitRedis(cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer store.Close()

	rpcClient := rpc.NewHTTP(cfg.RPCEndpoint, rpc.WithLogger(logger), rpc.WithTimeout(cfg.RPCTimeout))
	transport := rpc.NewPollingTransport(rpcClient, cfg.PollInterval, logger)
	subs := subscription.NewManager(transport, logger)

	metricsRegistry := observability.NewPrometheusRegistry()

	srvDeps := api.NewServer(logger, rpcClient, programID, store, subs, metricsRegistry, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srvDeps.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("Gateway running",
		zap.String("addr", srv.Addr),
		zap.Stringer("program", programID),
		zap.String("rpc", cfg.RPCEndpoint))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	srvDeps.CloseSubscriptions()

	return nil
}
