package service

import (
	"context"
	"errors"
	"fmt"

	"communityAPI/internal/config"
	"communityAPI/internal/logging"
	"communityAPI/internal/models"
	"communityAPI/internal/repository"
	"communityAPI/internal/storage"

	"github.com/jmoiron/sqlx"
)

type UserService interface {
	GetProfile(ctx context.Context, id int64) (*models.UserView, error)
	UpdateName(ctx context.Context, id int64, name string) error
	// Disable keeps the row so authored content stays attached, and revokes
	// every token of the user.
	Disable(ctx context.Context, id int64) error
	SetFCMToken(ctx context.Context, id int64, token string) error
	UploadProfileImage(ctx context.Context, id int64, file storage.Upload) error
	DeleteProfileImage(ctx context.Context, id int64) error
	ProfileImageURL(ctx context.Context, id int64) (string, error)
	IsAdmin(ctx context.Context, id int64) (bool, error)
	CreateAdmin(ctx context.Context) (*models.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	versions   repository.TokenVersionRepository
	transactor repository.Transactor
	storage    storage.Storage
	cfg        *config.Config
}

func NewUserService(
	userRepo repository.UserRepository,
	versions repository.TokenVersionRepository,
	transactor repository.Transactor,
	storage storage.Storage,
	cfg *config.Config,
) UserService {
	return &userService{
		userRepo:   userRepo,
		versions:   versions,
		transactor: transactor,
		storage:    storage,
		cfg:        cfg,
	}
}

func (s *userService) GetProfile(ctx context.Context, id int64) (*models.UserView, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.DisableAt.Valid {
		return nil, fmt.Errorf("пользователь с ID %d: %w", id, models.ErrNotFound)
	}

	return &models.UserView{
		ID:              user.ID,
		UID:             user.UID,
		Provider:        user.LoginProvider,
		Role:            user.Role,
		Name:            user.Name,
		HasProfileImage: user.HasProfileImage,
	}, nil
}

func (s *userService) UpdateName(ctx context.Context, id int64, name string) error {
	if name == "" {
		return fmt.Errorf("имя обязательно: %w", models.ErrInvalidInput)
	}
	return s.userRepo.UpdateName(ctx, id, name)
}

func (s *userService) Disable(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// A disabled user must never keep a valid token version.
	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.userRepo.DisableTx(ctx, tx, id); err != nil {
			return err
		}
		return s.versions.DeleteByUserTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if user.HasProfileImage {
		if err := s.storage.DeleteProfileImage(ctx, id); err != nil {
			logging.ExtractLogger(ctx).Warn().Err(err).Int64("user", id).Msg("failed to remove profile image")
		}
	}

	return nil
}

func (s *userService) SetFCMToken(ctx context.Context, id int64, token string) error {
	if token == "" {
		return fmt.Errorf("токен устройства обязателен: %w", models.ErrInvalidInput)
	}
	return s.userRepo.SetFCMToken(ctx, id, token)
}

func (s *userService) UploadProfileImage(ctx context.Context, id int64, file storage.Upload) error {
	if err := s.storage.PutProfileImage(ctx, id, file); err != nil {
		return err
	}
	return s.userRepo.SetProfileImage(ctx, id, true)
}

func (s *userService) DeleteProfileImage(ctx context.Context, id int64) error {
	if err := s.storage.DeleteProfileImage(ctx, id); err != nil {
		return err
	}
	return s.userRepo.SetProfileImage(ctx, id, false)
}

func (s *userService) ProfileImageURL(ctx context.Context, id int64) (string, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !user.HasProfileImage || user.DisableAt.Valid {
		return "", fmt.Errorf("фото профиля пользователя %d: %w", id, models.ErrNotFound)
	}
	return s.storage.ProfileImageURL(ctx, id)
}

func (s *userService) IsAdmin(ctx context.Context, id int64) (bool, error) {
	return s.userRepo.IsAdmin(ctx, id)
}

func (s *userService) CreateAdmin(ctx context.Context) (*models.User, error) {
	if s.cfg.Admin.UID == "" {
		return nil, errors.New("ADMIN_UID не задан")
	}

	exists, err := s.userRepo.ExistsActive(ctx, s.cfg.Admin.UID, models.ProviderAdmin)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("администратор %s: %w", s.cfg.Admin.UID, models.ErrAlreadyExists)
	}

	admin := &models.User{
		UID:           s.cfg.Admin.UID,
		LoginProvider: models.ProviderAdmin,
		Role:          models.RoleAdmin,
		Name:          s.cfg.Admin.Username,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
