// Package health serves the liveness endpoint of the bot process.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const pingTimeout = 3 * time.Second

// Pinger checks the database connection
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SessionCounter reports how many users hold training state
type SessionCounter interface {
	ActiveUsers() int
}

type status struct {
	Status           string `json:"status"`
	TrainingSessions int    `json:"training_sessions"`
}

// NewRouter builds the health router
func NewRouter(db Pinger, sessions SessionCounter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		body := status{Status: "ok", TrainingSessions: sessions.ActiveUsers()}
		code := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			logger.Error("Health check failed: could not ping DB", zap.Error(err))
			body.Status = "unavailable"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	})
	return r
}

// Serve runs the health server on addr until ctx is cancelled
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Health server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Health server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
