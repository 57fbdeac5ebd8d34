package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/docintel/api"
	"github.com/hazyhaar/docintel/pipeline"
	"github.com/hazyhaar/docintel/registry"
)

const httpShutdownTimeout = 10 * time.Second

var (
	flagAddr     string
	flagAuthUser string
	flagAuthHash string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&flagAuthUser, "auth-user", "", "basic auth username")
	serveCmd.Flags().StringVar(&flagAuthHash, "auth-hash", "", "bcrypt hash of the basic auth password")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := setupLogger()
	cfg, err := loadPipelineConfig(logger)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, registry.New())
	if err != nil {
		return err
	}
	defer p.Close()

	svc := api.New(api.Config{
		Addr:     flagAddr,
		AuthUser: flagAuthUser,
		AuthHash: flagAuthHash,
		Logger:   logger,
	}, p)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := svc.Server()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http service listening", "addr", flagAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
