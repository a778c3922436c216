package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"communityAPI/internal/models"
	"communityAPI/internal/repository"
	"communityAPI/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPosts struct {
	repository.PostRepository
	owners map[int64]int64
	rows   []models.AuthoredRow
	before time.Time
	userID int64
}

func (s *stubPosts) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	owner, ok := s.owners[id]
	if !ok {
		return nil, fmt.Errorf("пост с ID %d: %w", id, models.ErrNotFound)
	}
	return &models.Post{ID: id, UserID: owner}, nil
}

func (s *stubPosts) ExistsByOwner(ctx context.Context, id, userID int64) (bool, error) {
	owner, ok := s.owners[id]
	return ok && owner == userID, nil
}

func (s *stubPosts) ListBefore(ctx context.Context, before time.Time) ([]models.AuthoredRow, error) {
	s.before = before
	return s.rows, nil
}

func (s *stubPosts) ListByUser(ctx context.Context, userID int64, before time.Time) ([]models.AuthoredRow, error) {
	s.userID = userID
	s.before = before
	return s.rows, nil
}

func (s *stubPosts) Delete(ctx context.Context, id, userID int64) error {
	if owner, ok := s.owners[id]; !ok || owner != userID {
		return fmt.Errorf("пост с ID %d: %w", id, models.ErrNotFound)
	}
	delete(s.owners, id)
	return nil
}

func TestPostService_ListBefore(t *testing.T) {
	createdAt := time.Date(2025, 2, 26, 2, 0, 0, 0, time.UTC)
	posts := &stubPosts{rows: []models.AuthoredRow{
		{ID: 1, Title: "a", Content: "b", CreateAt: createdAt, CommentCount: 2,
			AuthorID: sql.NullInt64{Int64: 4, Valid: true}, AuthorName: sql.NullString{String: "Lee", Valid: true}},
		{ID: 2, Title: "c", Content: "d", CreateAt: createdAt},
	}}
	svc := NewPostService(posts, newMemoryStorage()).(*postService)
	now := time.Date(2025, 2, 26, 11, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	t.Run("Ноль означает текущий момент", func(t *testing.T) {
		views, err := svc.ListBefore(context.Background(), "0")

		require.NoError(t, err)
		assert.Equal(t, now, posts.before)
		require.Len(t, views, 2)
		assert.Equal(t, "2025-02-26T11:00:00.000+09:00", views[0].CreateAt)
		assert.Equal(t, models.UserInfo{ID: 4, Name: "Lee"}, *views[0].User)
		assert.Equal(t, models.UserInfo{ID: 0, Name: models.DisabledUserName}, *views[1].User)
	})

	t.Run("Неверная дата", func(t *testing.T) {
		_, err := svc.ListBefore(context.Background(), "yesterday")

		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestPostService_ListMine(t *testing.T) {
	posts := &stubPosts{rows: []models.AuthoredRow{
		{ID: 3, Title: "a", Content: "b", CreateAt: time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewPostService(posts, newMemoryStorage()).(*postService)
	svc.now = func() time.Time { return time.Date(2025, 2, 26, 11, 0, 0, 0, time.UTC) }

	t.Run("Курсор по дате", func(t *testing.T) {
		views, err := svc.ListMine(context.Background(), 9, "2025-02-26T09:00:00+09:00")

		require.NoError(t, err)
		assert.Equal(t, int64(9), posts.userID)
		assert.True(t, posts.before.Equal(time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC)))
		require.Len(t, views, 1)
	})

	t.Run("Неверная дата", func(t *testing.T) {
		_, err := svc.ListMine(context.Background(), 9, "yesterday")

		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestPostService_Photos(t *testing.T) {
	posts := &stubPosts{owners: map[int64]int64{10: 1}}
	objects := newMemoryStorage()
	svc := NewPostService(posts, objects)
	ctx := context.Background()

	t.Run("Загрузка заменяет все фото", func(t *testing.T) {
		require.NoError(t, svc.UploadPhotos(ctx, 10, 1, []storage.Upload{{FileName: "a.jpg"}, {FileName: "b.jpg"}}))
		require.NoError(t, svc.UploadPhotos(ctx, 10, 1, []storage.Upload{{FileName: "c.jpg"}}))

		urls, err := svc.PhotoURLs(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://objects.test/c.jpg"}, urls)
	})

	t.Run("Чужой пост", func(t *testing.T) {
		err := svc.UploadPhotos(ctx, 10, 2, []storage.Upload{{FileName: "x.jpg"}})

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Без файлов", func(t *testing.T) {
		err := svc.UploadPhotos(ctx, 10, 1, nil)

		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("Удаление поста удаляет фото", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, 10, 1))

		assert.Empty(t, objects.photos[10])
		_, err := svc.PhotoURLs(ctx, 10)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
