package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"communityAPI/internal/config"
	"communityAPI/internal/database"
	"communityAPI/internal/encryption"
	handlers "communityAPI/internal/handler"
	"communityAPI/internal/logging"
	"communityAPI/internal/models"
	"communityAPI/internal/notify"
	"communityAPI/internal/repository"
	"communityAPI/internal/service"
	"communityAPI/internal/social"
	"communityAPI/internal/staging"
	"communityAPI/internal/storage"
)

// App holds every long-lived dependency of the process.
type App struct {
	Cfg      *config.Config
	DB       *database.DB
	Staging  *staging.RedisStore
	Bus      *notify.Bus
	Repo     *repository.Repository
	Services *service.Service
}

// New connects to every external system and wires the services. The caller
// must Close the returned App.
func New(cfg *config.Config) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	// connection Redis
	store, err := staging.NewRedisStore(cfg.Redis)
	if err != nil {
		db.CloseDB()
		return nil, err
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		store.Close()
		db.CloseDB()
		return nil, fmt.Errorf("не удалось инициализировать MinIO: %w", err)
	}

	encryptor, err := encryption.New(cfg.EncryptionKey)
	if err != nil {
		store.Close()
		db.CloseDB()
		return nil, err
	}

	bus := notify.NewBus(64, notify.NewZerologAdapter(*logging.GlobalLogger()))

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, service.Dependencies{
		Storage:   minioClient,
		Verifier:  social.NewVerifier(social.DefaultEndpoints()),
		Encryptor: encryptor,
		Staging:   store,
		Clock:     staging.RealClock{},
		Publisher: bus,
	})

	return &App{
		Cfg:      cfg,
		DB:       db,
		Staging:  store,
		Bus:      bus,
		Repo:     repo,
		Services: services,
	}, nil
}

func (a *App) Handlers() *handlers.Handlers {
	return handlers.NewHandlers(a.Services, a.Cfg, map[string]handlers.HealthCheck{
		"postgres": a.DB.HealthCheck,
		"redis":    a.Staging.Ping,
	})
}

// Notifier builds the push notifier addressed to the configured admin
// account. Without FCM credentials pushes are only logged.
func (a *App) Notifier(ctx context.Context) *notify.Notifier {
	var sender notify.Sender = notify.LogSender{}
	if a.Cfg.FCM.CredentialsFile != "" {
		fcm, err := notify.NewFCMSender(ctx, a.Cfg.FCM.ProjectID, a.Cfg.FCM.CredentialsFile)
		if err != nil {
			logging.Error().Err(err).Msg("FCM disabled")
		} else {
			sender = fcm
		}
	}

	notifierCfg := notify.DefaultNotifierConfig()
	admin, err := a.Repo.User.GetActiveByUID(ctx, a.Cfg.Admin.UID, models.ProviderAdmin)
	switch {
	case err == nil:
		notifierCfg.RecipientID = admin.ID
	case errors.Is(err, models.ErrNotFound):
		logging.Warn().Msg("admin account not found, run create-admin")
	default:
		logging.Error().Err(err).Msg("failed to resolve admin account")
	}

	return notify.NewNotifier(a.Bus, a.Repo.User, sender, notifierCfg)
}

func (a *App) Close() {
	if err := a.Bus.Close(); err != nil {
		logging.Warn().Err(err).Msg("failed to close event bus")
	}
	if err := a.Staging.Close(); err != nil {
		logging.Warn().Err(err).Msg("failed to close redis")
	}
	if err := a.DB.CloseDB(); err != nil {
		logging.Warn().Err(err).Msg("failed to close database")
	}
}

// ShutdownTimeout bounds how long background jobs get to stop.
const ShutdownTimeout = 10 * time.Second
