package main

import (
	"context"
	"errors"
	"net/http"

	"communityAPI/cmd/app"
	"communityAPI/internal/jobs"
	"communityAPI/internal/logging"
)

// runServer serves until ctx is done or the listener fails, then stops the
// server and the background jobs. A listener failure is returned.
func runServer(ctx context.Context, server *http.Server, background jobs.Jobs) error {
	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("Сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
	case err := <-serverErr:
		if err != nil {
			logging.Error().Err(err).Msg("Ошибка запуска сервера")
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
	}

	if unfinished := background.CancelAndWait(app.ShutdownTimeout); len(unfinished) > 0 {
		logging.Warn().Strs("jobs", unfinished).Msg("jobs did not stop in time")
	}
	return runErr
}
