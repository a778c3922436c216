package service

import (
	"context"
	"fmt"
	"time"

	"communityAPI/internal/models"
	"communityAPI/internal/repository"
)

type AnnouncementService interface {
	ListBefore(ctx context.Context, date string) ([]models.AnnouncementView, error)
	ListMine(ctx context.Context, userID int64, date string) ([]models.AnnouncementView, error)
	// Create is restricted to administrators.
	Create(ctx context.Context, userID int64, title, content string) (*models.Announcement, error)
	Update(ctx context.Context, id, userID int64, title, content string) error
	Delete(ctx context.Context, id, userID int64) error
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
	now              func() time.Time
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository, userRepo repository.UserRepository) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		now:              time.Now,
	}
}

func (s *announcementService) ListBefore(ctx context.Context, date string) ([]models.AnnouncementView, error) {
	before, err := models.ParseBefore(date, s.now())
	if err != nil {
		return nil, fmt.Errorf("неверная дата %q: %w", date, models.ErrInvalidInput)
	}

	rows, err := s.announcementRepo.ListBefore(ctx, before)
	if err != nil {
		return nil, err
	}
	return announcementViews(rows), nil
}

func (s *announcementService) ListMine(ctx context.Context, userID int64, date string) ([]models.AnnouncementView, error) {
	before, err := models.ParseBefore(date, s.now())
	if err != nil {
		return nil, fmt.Errorf("неверная дата %q: %w", date, models.ErrInvalidInput)
	}

	rows, err := s.announcementRepo.ListByUser(ctx, userID, before)
	if err != nil {
		return nil, err
	}
	return announcementViews(rows), nil
}

func announcementViews(rows []models.AuthoredRow) []models.AnnouncementView {
	result := make([]models.AnnouncementView, 0, len(rows))
	for _, row := range rows {
		author := row.Author()
		result = append(result, models.AnnouncementView{
			ID:       row.ID,
			Title:    row.Title,
			Content:  row.Content,
			CreateAt: models.ToKST(row.CreateAt),
			User:     &author,
		})
	}
	return result
}

func (s *announcementService) Create(ctx context.Context, userID int64, title, content string) (*models.Announcement, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("заголовок и текст обязательны: %w", models.ErrInvalidInput)
	}

	admin, err := s.userRepo.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, fmt.Errorf("объявления создает только администратор: %w", models.ErrForbidden)
	}

	announcement := &models.Announcement{Title: title, Content: content, UserID: userID}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *announcementService) Update(ctx context.Context, id, userID int64, title, content string) error {
	if title == "" || content == "" {
		return fmt.Errorf("заголовок и текст обязательны: %w", models.ErrInvalidInput)
	}
	return s.announcementRepo.Update(ctx, id, userID, title, content)
}

func (s *announcementService) Delete(ctx context.Context, id, userID int64) error {
	return s.announcementRepo.Delete(ctx, id, userID)
}
