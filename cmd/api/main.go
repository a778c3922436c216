package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"communityAPI/cmd/app"
	"communityAPI/internal/config"
	"communityAPI/internal/database"
	"communityAPI/internal/jobs"
	"communityAPI/internal/logging"
	"communityAPI/internal/middleware"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadConfig()
	logging.Configure(cfg.Log)

	rootCmd := &cobra.Command{
		Use:   "community",
		Short: "Community API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server with the sweep and notifier jobs",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := database.ConnectDB(cfg)
				if err != nil {
					return err
				}
				defer db.CloseDB()
				return db.RunMigrations()
			},
		},
		&cobra.Command{
			Use:   "create-admin",
			Short: "Create the administrator account from ADMIN_* settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := app.New(cfg)
				if err != nil {
					return err
				}
				defer a.Close()

				admin, err := a.Services.User.CreateAdmin(cmd.Context())
				if err != nil {
					return err
				}
				logging.Info().Int64("id", admin.ID).Str("uid", admin.UID).Msg("admin created")
				return nil
			},
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Promote every pending post that is old enough, once",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := app.New(cfg)
				if err != nil {
					return err
				}
				defer a.Close()

				promoted, err := a.Services.PendingPost.Sweep(cmd.Context())
				logging.Info().Int("promoted", promoted).Msg("sweep finished")
				return err
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	if cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY не установлен")
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.DB.RunMigrations(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backgroundJobs := jobs.Jobs{
		a.Services.PendingPost.StartSweepJob(cfg.Staging.SweepInterval),
		a.Notifier(ctx).Start(),
	}

	h := a.Handlers()
	handlerChain := middleware.Chain(
		h.Routes(),
		middleware.AuthMiddleware(a.Services.Auth),
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return runServer(ctx, server, backgroundJobs)
}
