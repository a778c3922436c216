package database

import (
	"context"
	"fmt"
	"time"

	"communityAPI/internal/config"
	"communityAPI/internal/database/migrations"
	"communityAPI/internal/logging"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type MethodsDB interface {
	CloseDB() error
	RunMigrations() error
	HealthCheck(ctx context.Context) error
}

type DB struct {
	*sqlx.DB
}

func connString(cfg config.DB) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DbHOST,
		cfg.DbPORT,
		cfg.DbUSER,
		cfg.DbPASSWORD,
		cfg.DbNAME,
		cfg.DbSSLMODE,
	)
}

// ConnectDB opens the pool and checks the connection. Migrations are run
// separately with RunMigrations.
func ConnectDB(cfg *config.Config) (*DB, error) {
	logging.Info().
		Str("host", cfg.DB.DbHOST).
		Str("dbname", cfg.DB.DbNAME).
		Msg("Подключаемся к БД")

	db, err := sqlx.Connect("postgres", connString(cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{db}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbStruct.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка при проверке подключения к БД: %w", err)
	}

	logging.Info().Msg("Успешное подключение к PostgreSQL")
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) RunMigrations() error {
	if err := migrations.MigrateUp(db.DB.DB); err != nil {
		return err
	}

	version, dirty, err := migrations.Version(db.DB.DB)
	if err != nil {
		return err
	}
	logging.Info().Uint("version", version).Bool("dirty", dirty).Msg("Миграции успешно применены")
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("подключение к БД не инициализировано")
	}

	return db.PingContext(ctx)
}
