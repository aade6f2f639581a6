package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/roomread"
	httpAdapter "github.com/aretw0/roomread/pkg/adapters/http"
)

// NewHTTPHandler builds the API handler for env, metrics included.
func NewHTTPHandler(env *Environment) http.Handler {
	auth := env.Config.Auth
	return httpAdapter.NewHandler(env.App.Sessions(), env.App.Content(),
		httpAdapter.WithMetrics(env.Metrics.Handler()),
		httpAdapter.WithIdentity(httpAdapter.Identity{
			UserHeader: auth.UserHeader,
			NameHeader: auth.NameHeader,
			Disabled:   auth.Disabled,
		}),
		httpAdapter.WithVersion(roomread.Version),
		httpAdapter.WithLogger(env.Logger),
	)
}

// Serve listens on the configured address until ctx is cancelled.
func Serve(ctx context.Context, env *Environment) error {
	ln, err := net.Listen("tcp", env.Config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", env.Config.HTTP.Addr, err)
	}
	return ServeListener(ctx, env, ln)
}

// ServeListener serves the API on ln and shuts down gracefully when ctx is cancelled.
func ServeListener(ctx context.Context, env *Environment, ln net.Listener) error {
	srv := &http.Server{
		Handler:           NewHTTPHandler(env),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		env.Logger.Info("HTTP server listening", "address", ln.Addr().String(), "data", env.Config.Data.QuestionsDir)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		timeout := env.Config.HTTP.ShutdownTimeout
		env.Logger.Info("shutting down", "timeout", timeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			env.Logger.Error("graceful shutdown did not complete", "timeout", timeout, "err", err)
			if cerr := srv.Close(); cerr != nil {
				return fmt.Errorf("error killing server: %w", cerr)
			}
			return err
		}
		env.Logger.Info("HTTP server stopped gracefully")
		return nil
	}
}
