package service

import (
	"context"
	"fmt"

	"communityAPI/internal/models"
	"communityAPI/internal/repository"
)

type ReplyService interface {
	List(ctx context.Context, commentID int64) ([]models.CommentView, error)
	// Create allows one reply per user per comment. A missing comment
	// surfaces as not found from the insert.
	Create(ctx context.Context, commentID, userID int64, content string) (*models.Reply, error)
	Update(ctx context.Context, id, userID int64, content string) error
	Delete(ctx context.Context, id, userID int64) error
}

type replyService struct {
	replyRepo repository.ReplyRepository
}

func NewReplyService(replyRepo repository.ReplyRepository) ReplyService {
	return &replyService{replyRepo: replyRepo}
}

func (s *replyService) List(ctx context.Context, commentID int64) ([]models.CommentView, error) {
	rows, err := s.replyRepo.ListByComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return commentViews(rows), nil
}

func (s *replyService) Create(ctx context.Context, commentID, userID int64, content string) (*models.Reply, error) {
	if content == "" {
		return nil, fmt.Errorf("текст ответа обязателен: %w", models.ErrInvalidInput)
	}

	exists, err := s.replyRepo.Exists(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("ответ на комментарий %d: %w", commentID, models.ErrAlreadyExists)
	}

	reply := &models.Reply{Content: content, CommentID: commentID, UserID: userID}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *replyService) Update(ctx context.Context, id, userID int64, content string) error {
	if content == "" {
		return fmt.Errorf("текст ответа обязателен: %w", models.ErrInvalidInput)
	}
	return s.replyRepo.Update(ctx, id, userID, content)
}

func (s *replyService) Delete(ctx context.Context, id, userID int64) error {
	return s.replyRepo.Delete(ctx, id, userID)
}
