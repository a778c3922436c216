package service

import (
	"context"
	"fmt"

	"communityAPI/internal/models"
	"communityAPI/internal/repository"
)

type CommentService interface {
	List(ctx context.Context, postID int64) ([]models.CommentView, error)
	// Create allows one comment per user per post.
	Create(ctx context.Context, postID, userID int64, content string) (*models.Comment, error)
	Update(ctx context.Context, id, userID int64, content string) error
	Delete(ctx context.Context, id, userID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *commentService) List(ctx context.Context, postID int64) ([]models.CommentView, error) {
	rows, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return commentViews(rows), nil
}

func commentViews(rows []models.CommentRow) []models.CommentView {
	result := make([]models.CommentView, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.CommentView{
			ID:       row.ID,
			Content:  row.Content,
			CreateAt: models.ToKST(row.CreateAt),
			User:     row.Author(),
		})
	}
	return result
}

func (s *commentService) Create(ctx context.Context, postID, userID int64, content string) (*models.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("текст комментария обязателен: %w", models.ErrInvalidInput)
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	exists, err := s.commentRepo.Exists(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("комментарий к посту %d: %w", postID, models.ErrAlreadyExists)
	}

	comment := &models.Comment{Content: content, PostID: postID, UserID: userID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, id, userID int64, content string) error {
	if content == "" {
		return fmt.Errorf("текст комментария обязателен: %w", models.ErrInvalidInput)
	}
	return s.commentRepo.Update(ctx, id, userID, content)
}

func (s *commentService) Delete(ctx context.Context, id, userID int64) error {
	return s.commentRepo.Delete(ctx, id, userID)
}
