package repository

import (
	"context"
	"fmt"

	"communityAPI/internal/models"

	"github.com/jmoiron/sqlx"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]models.CommentRow, error) {
	rows := []models.CommentRow{}

	query := `
		SELECT c.id, c.content, c.create_at, u.id AS author_id, u.name AS author_name
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id AND u.disable_at IS NULL
		WHERE c.post_id = $1
		ORDER BY c.create_at
	`

	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}
	return rows, nil
}

func (r *commentRepository) Exists(ctx context.Context, postID, userID int64) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM comments WHERE post_id = $1 AND user_id = $2)`

	if err := r.db.GetContext(ctx, &exists, query, postID, userID); err != nil {
		return false, fmt.Errorf("ошибка при проверке комментария: %w", err)
	}
	return exists, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (content, post_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, create_at
	`

	err := r.db.QueryRowxContext(ctx, query, comment.Content, comment.PostID, comment.UserID).
		Scan(&comment.ID, &comment.CreateAt)
	if err != nil {
		if cerr := constraintError(err, "комментарий"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, id, userID int64, content string) error {
	query := `UPDATE comments SET content = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.db.ExecContext(ctx, query, content, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении комментария: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("комментарий с ID %d", id))
}

func (r *commentRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM comments WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении комментария: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("комментарий с ID %d", id))
}
