package repository

import (
	"context"
	"fmt"
	"time"

	"communityAPI/internal/models"

	"github.com/jmoiron/sqlx"
)

type announcementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) ListBefore(ctx context.Context, before time.Time) ([]models.AuthoredRow, error) {
	rows := []models.AuthoredRow{}

	query := `
		SELECT a.id, a.title, a.content, a.create_at, u.id AS author_id, u.name AS author_name
		FROM announcements a
		LEFT JOIN users u ON u.id = a.user_id AND u.disable_at IS NULL
		WHERE a.create_at < $1
		ORDER BY a.create_at DESC
		LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &rows, query, before, PageSize); err != nil {
		return nil, fmt.Errorf("ошибка при получении объявлений: %w", err)
	}
	return rows, nil
}

func (r *announcementRepository) ListByUser(ctx context.Context, userID int64, before time.Time) ([]models.AuthoredRow, error) {
	rows := []models.AuthoredRow{}

	query := `
		SELECT a.id, a.title, a.content, a.create_at, u.id AS author_id, u.name AS author_name
		FROM announcements a
		LEFT JOIN users u ON u.id = a.user_id AND u.disable_at IS NULL
		WHERE a.user_id = $1 AND a.create_at < $2
		ORDER BY a.create_at DESC
		LIMIT $3
	`

	if err := r.db.SelectContext(ctx, &rows, query, userID, before, PageSize); err != nil {
		return nil, fmt.Errorf("ошибка при получении объявлений пользователя: %w", err)
	}
	return rows, nil
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	query := `
		INSERT INTO announcements (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, create_at
	`

	err := r.db.QueryRowxContext(ctx, query, announcement.Title, announcement.Content, announcement.UserID).
		Scan(&announcement.ID, &announcement.CreateAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании объявления: %w", err)
	}
	return nil
}

func (r *announcementRepository) Update(ctx context.Context, id, userID int64, title, content string) error {
	query := `UPDATE announcements SET title = $1, content = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.ExecContext(ctx, query, title, content, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении объявления: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("объявление с ID %d", id))
}

func (r *announcementRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM announcements WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении объявления: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("объявление с ID %d", id))
}
