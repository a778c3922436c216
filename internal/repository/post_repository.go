package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"communityAPI/internal/models"

	"github.com/jmoiron/sqlx"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and sets post.ID to the id assigned by the
// database.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, create_at
	`

	err := r.db.QueryRowxContext(ctx, query, post.Title, post.Content, post.UserID).
		Scan(&post.ID, &post.CreateAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post

	query := `SELECT id, title, content, user_id, create_at FROM posts WHERE id = $1`

	err := r.db.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}
	return &post, nil
}

func (r *postRepository) ListBefore(ctx context.Context, before time.Time) ([]models.AuthoredRow, error) {
	rows := []models.AuthoredRow{}

	query := `
		SELECT p.id, p.title, p.content, p.create_at,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
			u.id AS author_id, u.name AS author_name
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id AND u.disable_at IS NULL
		WHERE p.create_at < $1
		ORDER BY p.create_at DESC
		LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &rows, query, before, PageSize); err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}
	return rows, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID int64, before time.Time) ([]models.AuthoredRow, error) {
	rows := []models.AuthoredRow{}

	query := `
		SELECT p.id, p.title, p.content, p.create_at,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
			u.id AS author_id, u.name AS author_name
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id AND u.disable_at IS NULL
		WHERE p.user_id = $1 AND p.create_at < $2
		ORDER BY p.create_at DESC
		LIMIT $3
	`

	if err := r.db.SelectContext(ctx, &rows, query, userID, before, PageSize); err != nil {
		return nil, fmt.Errorf("ошибка при получении постов пользователя: %w", err)
	}
	return rows, nil
}

func (r *postRepository) ExistsByOwner(ctx context.Context, id, userID int64) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND user_id = $2)`

	if err := r.db.GetContext(ctx, &exists, query, id, userID); err != nil {
		return false, fmt.Errorf("ошибка при проверке владельца поста: %w", err)
	}
	return exists, nil
}

func (r *postRepository) Update(ctx context.Context, id, userID int64, title, content string) error {
	query := `UPDATE posts SET title = $1, content = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.ExecContext(ctx, query, title, content, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("пост с ID %d", id))
}

func (r *postRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM posts WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("пост с ID %d", id))
}
