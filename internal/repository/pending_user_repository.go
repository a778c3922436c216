package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"communityAPI/internal/models"

	"github.com/jmoiron/sqlx"
)

type pendingUserRepository struct {
	db *sqlx.DB
}

func NewPendingUserRepository(db *sqlx.DB) PendingUserRepository {
	return &pendingUserRepository{db: db}
}

func (r *pendingUserRepository) Create(ctx context.Context, pending *models.PendingUser) error {
	query := `
		INSERT INTO pending_users (uid, login_provider, name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.GetContext(ctx, &pending.ID, query, pending.UID, pending.LoginProvider, pending.Name, pending.Phone)
	if err != nil {
		if cerr := constraintError(err, "заявка"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("ошибка при создании заявки: %w", err)
	}
	return nil
}

func (r *pendingUserRepository) List(ctx context.Context) ([]models.PendingUser, error) {
	pending := []models.PendingUser{}

	query := `SELECT id, uid, login_provider, name, phone FROM pending_users ORDER BY id`

	if err := r.db.SelectContext(ctx, &pending, query); err != nil {
		return nil, fmt.Errorf("ошибка при получении заявок: %w", err)
	}
	return pending, nil
}

func (r *pendingUserRepository) Exists(ctx context.Context, uid, provider string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM pending_users WHERE uid = $1 AND login_provider = $2)`

	if err := r.db.GetContext(ctx, &exists, query, uid, provider); err != nil {
		return false, fmt.Errorf("ошибка при проверке заявки: %w", err)
	}
	return exists, nil
}

// GetByIDTx locks the pending row until the transaction ends.
func (r *pendingUserRepository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.PendingUser, error) {
	var pending models.PendingUser

	query := `SELECT id, uid, login_provider, name, phone FROM pending_users WHERE id = $1 FOR UPDATE`

	err := tx.GetContext(ctx, &pending, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("заявка с ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении заявки: %w", err)
	}
	return &pending, nil
}

func (r *pendingUserRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	query := `DELETE FROM pending_users WHERE id = $1`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка при удалении заявки: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("заявка с ID %d", id))
}
