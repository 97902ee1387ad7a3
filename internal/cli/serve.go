package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coderefine/coderefine/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the analysis engine to a web frontend.

Endpoints:
  GET  /health       — Service health and bridge reachability
  GET  /api/catalog  — Personas, languages, and providers
  POST /api/analyze  — One-shot code analysis
  GET  /api/ws       — WebSocket review session`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6180, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	srv := api.New(fmt.Sprintf("%s:%d", addr, port), newClient(cfg), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
