package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"communityAPI/internal/models"
	"communityAPI/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubComments struct {
	repository.CommentRepository
	created []models.Comment
	rows    []models.CommentRow
}

func (s *stubComments) Exists(ctx context.Context, postID, userID int64) (bool, error) {
	for _, c := range s.created {
		if c.PostID == postID && c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubComments) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = int64(len(s.created) + 1)
	s.created = append(s.created, *comment)
	return nil
}

func (s *stubComments) ListByPost(ctx context.Context, postID int64) ([]models.CommentRow, error) {
	return s.rows, nil
}

func TestCommentService_Create(t *testing.T) {
	posts := &stubPosts{owners: map[int64]int64{1: 9}}

	t.Run("Один комментарий на пользователя", func(t *testing.T) {
		comments := &stubComments{}
		svc := NewCommentService(comments, posts)
		ctx := context.Background()

		first, err := svc.Create(ctx, 1, 2, "nice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.ID)

		_, err = svc.Create(ctx, 1, 2, "again")
		assert.ErrorIs(t, err, models.ErrAlreadyExists)
		assert.Len(t, comments.created, 1)
	})

	t.Run("Пост не найден", func(t *testing.T) {
		svc := NewCommentService(&stubComments{}, posts)

		_, err := svc.Create(context.Background(), 404, 2, "hi")

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Пустой текст", func(t *testing.T) {
		svc := NewCommentService(&stubComments{}, posts)

		_, err := svc.Create(context.Background(), 1, 2, "")

		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestCommentService_ListShowsDisabledAuthor(t *testing.T) {
	comments := &stubComments{rows: []models.CommentRow{
		{ID: 1, Content: "hi", CreateAt: time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Content: "yo", CreateAt: time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC),
			AuthorID: sql.NullInt64{Int64: 3, Valid: true}, AuthorName: sql.NullString{String: "Park", Valid: true}},
	}}
	svc := NewCommentService(comments, &stubPosts{})

	views, err := svc.List(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, models.UserInfo{ID: 0, Name: "탈퇴한 사용자"}, views[0].User)
	assert.Equal(t, models.UserInfo{ID: 3, Name: "Park"}, views[1].User)
	assert.Equal(t, "2025-02-26T09:00:00.000+09:00", views[1].CreateAt)
}

type stubAnnouncements struct {
	repository.AnnouncementRepository
	created []models.Announcement
	before  time.Time
}

func (s *stubAnnouncements) ListByUser(ctx context.Context, userID int64, before time.Time) ([]models.AuthoredRow, error) {
	s.before = before
	return []models.AuthoredRow{{ID: 1, Title: "공지", AuthorID: sql.NullInt64{Int64: userID, Valid: true}}}, nil
}

func (s *stubAnnouncements) Create(ctx context.Context, announcement *models.Announcement) error {
	announcement.ID = int64(len(s.created) + 1)
	s.created = append(s.created, *announcement)
	return nil
}

func TestAnnouncementService_Create(t *testing.T) {
	users := newStubUsers(
		&models.User{ID: 1, Role: models.RoleAdmin},
		&models.User{ID: 2, Role: models.RoleUser},
	)

	t.Run("Администратор", func(t *testing.T) {
		announcements := &stubAnnouncements{}
		svc := NewAnnouncementService(announcements, users)

		created, err := svc.Create(context.Background(), 1, "공지", "내용")

		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
	})

	t.Run("Обычный пользователь", func(t *testing.T) {
		announcements := &stubAnnouncements{}
		svc := NewAnnouncementService(announcements, users)

		_, err := svc.Create(context.Background(), 2, "공지", "내용")

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Empty(t, announcements.created)
	})
}

func TestAnnouncementService_ListMine(t *testing.T) {
	announcements := &stubAnnouncements{}
	svc := NewAnnouncementService(announcements, newStubUsers()).(*announcementService)
	now := time.Date(2025, 2, 26, 11, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	views, err := svc.ListMine(context.Background(), 1, "0")

	require.NoError(t, err)
	assert.Equal(t, now, announcements.before)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), views[0].User.ID)
}
