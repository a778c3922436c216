package repository

import (
	"context"
	"fmt"

	"communityAPI/internal/models"

	"github.com/jmoiron/sqlx"
)

type replyRepository struct {
	db *sqlx.DB
}

func NewReplyRepository(db *sqlx.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) ListByComment(ctx context.Context, commentID int64) ([]models.CommentRow, error) {
	rows := []models.CommentRow{}

	query := `
		SELECT r.id, r.content, r.create_at, u.id AS author_id, u.name AS author_name
		FROM replies r
		LEFT JOIN users u ON u.id = r.user_id AND u.disable_at IS NULL
		WHERE r.comment_id = $1
		ORDER BY r.create_at
	`

	if err := r.db.SelectContext(ctx, &rows, query, commentID); err != nil {
		return nil, fmt.Errorf("ошибка при получении ответов: %w", err)
	}
	return rows, nil
}

func (r *replyRepository) Exists(ctx context.Context, commentID, userID int64) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM replies WHERE comment_id = $1 AND user_id = $2)`

	if err := r.db.GetContext(ctx, &exists, query, commentID, userID); err != nil {
		return false, fmt.Errorf("ошибка при проверке ответа: %w", err)
	}
	return exists, nil
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	query := `
		INSERT INTO replies (content, comment_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, create_at
	`

	err := r.db.QueryRowxContext(ctx, query, reply.Content, reply.CommentID, reply.UserID).
		Scan(&reply.ID, &reply.CreateAt)
	if err != nil {
		if cerr := constraintError(err, "ответ"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("ошибка при создании ответа: %w", err)
	}
	return nil
}

func (r *replyRepository) Update(ctx context.Context, id, userID int64, content string) error {
	query := `UPDATE replies SET content = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.db.ExecContext(ctx, query, content, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении ответа: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("ответ с ID %d", id))
}

func (r *replyRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM replies WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении ответа: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("ответ с ID %d", id))
}
