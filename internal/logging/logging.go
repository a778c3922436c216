package logging

import (
	"context"
	"os"
	"time"

	"communityAPI/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	log.Logger = zerolog.New(newConsoleWriter()).With().Timestamp().Logger()
}

func newConsoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
}

// Configure applies the level and output format from cfg to the global logger.
func Configure(cfg config.Log) {
	zerolog.SetGlobalLevel(cfg.Level)
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(newConsoleWriter()).With().Timestamp().Logger()
}

func GlobalLogger() *zerolog.Logger {
	return &log.Logger
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

func With() zerolog.Context {
	return log.With()
}

type ctxKey struct{}

func AttachLoggerToContext(logger *zerolog.Logger, ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// ExtractLogger returns the logger attached to ctx, or the global one.
func ExtractLogger(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return GlobalLogger()
}

func LogPanics(logger *zerolog.Logger) {
	if r := recover(); r != nil {
		if logger == nil {
			logger = GlobalLogger()
		}
		if err, ok := r.(error); ok {
			logger.Error().Err(err).Msg("recovered from panic")
			return
		}
		logger.Error().Interface("recovered", r).Msg("recovered from panic")
	}
}
