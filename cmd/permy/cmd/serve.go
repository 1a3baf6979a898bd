package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/routes"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the decision API",
	Long: `Serve the permission check, catalog and decision audit endpoints under
/api/v1 and Prometheus metrics under /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gin.SetMode(gin.ReleaseMode)
		a, err := newApp(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := a.routes.Table(ctx); err != nil {
			logger.Warn("Route table not loaded yet", zap.Error(err))
		}
		if cfg.Server.RoutesRefresh > 0 {
			go refreshRoutes(ctx, a.routes, cfg.Server.RoutesRefresh)
		}

		server := &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: a.router,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("failed to start server: %w", err)
		case <-ctx.Done():
		}
		logger.Info("Shutting down server...")

		// The server has 5 seconds to finish the requests it is handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		logger.Info("Server exiting")
		return nil
	},
}

func refreshRoutes(ctx context.Context, cache *routes.Cache, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := cache.Refresh(ctx)
			if err != nil {
				logger.Warn("Failed to refresh route table", zap.Error(err))
				continue
			}
			if changed {
				logger.Info("Route table reloaded")
			}
		}
	}
}
