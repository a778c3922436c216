package test

import (
	"context"
	"time"

	"communityAPI/internal/jobs"
	"communityAPI/internal/models"
	"communityAPI/internal/service"
	"communityAPI/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SocialLogin(ctx context.Context, provider, accessToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, provider, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) AdminLogin(ctx context.Context, username, password string) (*models.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*service.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Identity), args.Error(1)
}

func (m *MockAuthService) Revoke(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, id int64) (*models.UserView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserView), args.Error(1)
}

func (m *MockUserService) UpdateName(ctx context.Context, id int64, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockUserService) Disable(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) SetFCMToken(ctx context.Context, id int64, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserService) UploadProfileImage(ctx context.Context, id int64, file storage.Upload) error {
	args := m.Called(ctx, id, file)
	return args.Error(0)
}

func (m *MockUserService) DeleteProfileImage(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) ProfileImageURL(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) IsAdmin(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) CreateAdmin(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) ListBefore(ctx context.Context, date string) ([]models.PostView, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockPostService) ListMine(ctx context.Context, userID int64, date string) ([]models.PostView, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, id, userID int64, title, content string) error {
	args := m.Called(ctx, id, userID, title, content)
	return args.Error(0)
}

func (m *MockPostService) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockPostService) UploadPhotos(ctx context.Context, id, userID int64, files []storage.Upload) error {
	args := m.Called(ctx, id, userID, files)
	return args.Error(0)
}

func (m *MockPostService) PhotoURLs(ctx context.Context, id int64) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockPendingPostService struct {
	mock.Mock
}

func (m *MockPendingPostService) Stage(ctx context.Context, authorID int64, authorName, title, content string) (int64, error) {
	args := m.Called(ctx, authorID, authorName, title, content)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPendingPostService) ListPending(ctx context.Context) ([]models.PostView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockPendingPostService) Promote(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPendingPostService) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPendingPostService) StartSweepJob(interval time.Duration) *jobs.Job {
	args := m.Called(interval)
	return args.Get(0).(*jobs.Job)
}

type MockPendingUserService struct {
	mock.Mock
}

func (m *MockPendingUserService) Register(ctx context.Context, req models.CreateUserRequest) (*models.PendingUser, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingUser), args.Error(1)
}

func (m *MockPendingUserService) Stage(ctx context.Context, req models.CreateUserRequest) (*models.PendingUser, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingUser), args.Error(1)
}

func (m *MockPendingUserService) ListPending(ctx context.Context) ([]models.UserView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserView), args.Error(1)
}

func (m *MockPendingUserService) Promote(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
