package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"communityAPI/internal/models"

	"github.com/jmoiron/sqlx"
)

type tokenVersionRepository struct {
	db *sqlx.DB
}

func NewTokenVersionRepository(db *sqlx.DB) TokenVersionRepository {
	return &tokenVersionRepository{db: db}
}

func (r *tokenVersionRepository) Upsert(ctx context.Context, userID int64, tokenType, version string) error {
	query := `
		INSERT INTO token_versions (user_id, type, version)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, type) DO UPDATE SET version = EXCLUDED.version
	`

	if _, err := r.db.ExecContext(ctx, query, userID, tokenType, version); err != nil {
		return fmt.Errorf("ошибка при сохранении версии токена: %w", err)
	}
	return nil
}

func (r *tokenVersionRepository) Get(ctx context.Context, userID int64, tokenType string) (string, error) {
	var version string

	query := `SELECT version FROM token_versions WHERE user_id = $1 AND type = $2`

	err := r.db.GetContext(ctx, &version, query, userID, tokenType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("версия токена: %w", models.ErrNotFound)
		}
		return "", fmt.Errorf("ошибка при получении версии токена: %w", err)
	}
	return version, nil
}

func (r *tokenVersionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return deleteVersions(ctx, r.db, userID)
}

func (r *tokenVersionRepository) DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return deleteVersions(ctx, tx, userID)
}

func deleteVersions(ctx context.Context, e sqlx.ExecerContext, userID int64) error {
	query := `DELETE FROM token_versions WHERE user_id = $1`

	if _, err := e.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("ошибка при удалении версий токена: %w", err)
	}
	return nil
}
