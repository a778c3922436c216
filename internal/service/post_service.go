package service

import (
	"context"
	"fmt"
	"time"

	"communityAPI/internal/logging"
	"communityAPI/internal/models"
	"communityAPI/internal/repository"
	"communityAPI/internal/storage"
)

// MaxPhotosPerPost bounds a single photo upload.
const MaxPhotosPerPost = 10

type PostService interface {
	ListBefore(ctx context.Context, date string) ([]models.PostView, error)
	ListMine(ctx context.Context, userID int64, date string) ([]models.PostView, error)
	Update(ctx context.Context, id, userID int64, title, content string) error
	Delete(ctx context.Context, id, userID int64) error
	UploadPhotos(ctx context.Context, id, userID int64, files []storage.Upload) error
	PhotoURLs(ctx context.Context, id int64) ([]string, error)
}

type postService struct {
	postRepo repository.PostRepository
	storage  storage.Storage
	now      func() time.Time
}

func NewPostService(postRepo repository.PostRepository, storage storage.Storage) PostService {
	return &postService{
		postRepo: postRepo,
		storage:  storage,
		now:      time.Now,
	}
}

func (p *postService) ListBefore(ctx context.Context, date string) ([]models.PostView, error) {
	before, err := models.ParseBefore(date, p.now())
	if err != nil {
		return nil, fmt.Errorf("неверная дата %q: %w", date, models.ErrInvalidInput)
	}

	rows, err := p.postRepo.ListBefore(ctx, before)
	if err != nil {
		return nil, err
	}
	return postViews(rows), nil
}

func (p *postService) ListMine(ctx context.Context, userID int64, date string) ([]models.PostView, error) {
	before, err := models.ParseBefore(date, p.now())
	if err != nil {
		return nil, fmt.Errorf("неверная дата %q: %w", date, models.ErrInvalidInput)
	}

	rows, err := p.postRepo.ListByUser(ctx, userID, before)
	if err != nil {
		return nil, err
	}
	return postViews(rows), nil
}

func postViews(rows []models.AuthoredRow) []models.PostView {
	result := make([]models.PostView, 0, len(rows))
	for _, row := range rows {
		author := row.Author()
		result = append(result, models.PostView{
			ID:           row.ID,
			Title:        row.Title,
			Content:      row.Content,
			CommentCount: row.CommentCount,
			CreateAt:     models.ToKST(row.CreateAt),
			User:         &author,
		})
	}
	return result
}

func (p *postService) Update(ctx context.Context, id, userID int64, title, content string) error {
	if title == "" || content == "" {
		return fmt.Errorf("заголовок и текст обязательны: %w", models.ErrInvalidInput)
	}
	return p.postRepo.Update(ctx, id, userID, title, content)
}

func (p *postService) Delete(ctx context.Context, id, userID int64) error {
	if err := p.postRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	if err := p.storage.DeletePostPhotos(ctx, id); err != nil {
		logging.ExtractLogger(ctx).Warn().Err(err).Int64("post", id).Msg("failed to remove post photos")
	}
	return nil
}

func (p *postService) UploadPhotos(ctx context.Context, id, userID int64, files []storage.Upload) error {
	if len(files) == 0 || len(files) > MaxPhotosPerPost {
		return fmt.Errorf("допустимо от 1 до %d фото: %w", MaxPhotosPerPost, models.ErrInvalidInput)
	}

	owner, err := p.postRepo.ExistsByOwner(ctx, id, userID)
	if err != nil {
		return err
	}
	if !owner {
		return fmt.Errorf("пост с ID %d: %w", id, models.ErrNotFound)
	}

	if err := p.storage.ReplacePostPhotos(ctx, id, files); err != nil {
		return fmt.Errorf("ошибка загрузки фото: %w", err)
	}
	return nil
}

func (p *postService) PhotoURLs(ctx context.Context, id int64) ([]string, error) {
	if _, err := p.postRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return p.storage.PostPhotoURLs(ctx, id)
}
