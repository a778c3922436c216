package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Transactor runs fn inside a single database transaction. The transaction
// is committed when fn returns nil and rolled back otherwise, including when
// fn panics.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (ошибка отката: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}
