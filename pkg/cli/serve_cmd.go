package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"masksync/internal/reconcile"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reconciler on a schedule with a status endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cfg, logger, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.Scheduler.Start(cfg.Schedule); err != nil {
				return err
			}
			defer a.Scheduler.Stop()

			// First cycle runs immediately so the status endpoint has data
			// before the first scheduled tick.
			go func() {
				if _, err := a.Reconciler.Run(ctx, reconcile.Options{}); err != nil {
					logger.Warn("initial reconciliation failed", "error", err)
				}
			}()

			router := chi.NewRouter()
			router.Use(chimw.Recoverer)
			router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			})
			router.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
				last, lastErr := a.Scheduler.LastRun()
				status := map[string]any{
					"schedule": cfg.Schedule,
					"last_run": last,
				}
				if lastErr != nil {
					status["last_error"] = lastErr.Error()
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(status)
			})

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("status endpoint listening", "addr", cfg.ListenAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}
