package service

import (
	"context"
	"fmt"

	"communityAPI/internal/encryption"
	"communityAPI/internal/logging"
	"communityAPI/internal/models"
	"communityAPI/internal/notify"
	"communityAPI/internal/repository"

	"github.com/jmoiron/sqlx"
)

type PendingUserService interface {
	// Register runs the duplicate checks and stages the registration.
	Register(ctx context.Context, req models.CreateUserRequest) (*models.PendingUser, error)
	Stage(ctx context.Context, req models.CreateUserRequest) (*models.PendingUser, error)
	ListPending(ctx context.Context) ([]models.UserView, error)
	// Promote approves a registration and returns the permanent user id.
	Promote(ctx context.Context, id int64) (int64, error)
}

type pendingUserService struct {
	users      repository.UserRepository
	pending    repository.PendingUserRepository
	transactor repository.Transactor
	encryptor  encryption.Encryptor
	publisher  notify.Publisher
}

func NewPendingUserService(
	users repository.UserRepository,
	pending repository.PendingUserRepository,
	transactor repository.Transactor,
	encryptor encryption.Encryptor,
	publisher notify.Publisher,
) PendingUserService {
	return &pendingUserService{
		users:      users,
		pending:    pending,
		transactor: transactor,
		encryptor:  encryptor,
		publisher:  publisher,
	}
}

func (s *pendingUserService) Register(ctx context.Context, req models.CreateUserRequest) (*models.PendingUser, error) {
	alreadyPending, err := s.pending.Exists(ctx, req.UID, req.Provider)
	if err != nil {
		return nil, err
	}
	if alreadyPending {
		return nil, fmt.Errorf("заявка %s/%s: %w", req.Provider, req.UID, models.ErrAlreadyExists)
	}

	disabled, err := s.users.IsDisabled(ctx, req.UID, req.Provider)
	if err != nil {
		return nil, err
	}

	if !disabled {
		active, err := s.users.ExistsActive(ctx, req.UID, req.Provider)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, fmt.Errorf("пользователь %s/%s: %w", req.Provider, req.UID, models.ErrAlreadyExists)
		}

		phone, err := s.encryptor.Encrypt(req.Phone)
		if err != nil {
			return nil, fmt.Errorf("ошибка шифрования телефона: %w", err)
		}
		used, err := s.users.ExistsByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, fmt.Errorf("телефон уже используется: %w", models.ErrConflict)
		}
	}

	pending, err := s.Stage(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, notify.TopicPendingUserCreated, notify.Event{
			Title: "새 회원 가입 요청",
			Body:  fmt.Sprintf("%s (%s)", req.Name, req.Provider),
		})
		if err != nil {
			logging.ExtractLogger(ctx).Warn().Err(err).Msg("failed to publish notification")
		}
	}

	return pending, nil
}

func (s *pendingUserService) Stage(ctx context.Context, req models.CreateUserRequest) (*models.PendingUser, error) {
	phone, err := s.encryptor.Encrypt(req.Phone)
	if err != nil {
		return nil, fmt.Errorf("ошибка шифрования телефона: %w", err)
	}

	pending := &models.PendingUser{
		UID:           req.UID,
		LoginProvider: req.Provider,
		Name:          req.Name,
		Phone:         phone,
	}
	if err := s.pending.Create(ctx, pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (s *pendingUserService) ListPending(ctx context.Context) ([]models.UserView, error) {
	rows, err := s.pending.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.UserView, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.UserView{
			ID:              row.ID,
			UID:             row.UID,
			Provider:        row.LoginProvider,
			Role:            models.RoleUser,
			Name:            row.Name,
			HasProfileImage: false,
		})
	}
	return result, nil
}

// Promote deletes the registration and either reactivates the disabled user
// with the same uid and provider or inserts a new one, all in one
// transaction.
func (s *pendingUserService) Promote(ctx context.Context, id int64) (int64, error) {
	var userID int64

	err := s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		pending, err := s.pending.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.pending.DeleteTx(ctx, tx, id); err != nil {
			return err
		}

		disabled, err := s.users.IsDisabledTx(ctx, tx, pending.UID, pending.LoginProvider)
		if err != nil {
			return err
		}

		if disabled {
			userID, err = s.users.ReactivateTx(ctx, tx, pending)
			return err
		}

		user := &models.User{
			UID:           pending.UID,
			LoginProvider: pending.LoginProvider,
			Role:          models.RoleUser,
			Name:          pending.Name,
			Phone:         pending.Phone,
		}
		if err := s.users.CreateTx(ctx, tx, user); err != nil {
			return err
		}
		userID = user.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.ExtractLogger(ctx).Info().Int64("pending", id).Int64("user", userID).Msg("promoted pending user")
	return userID, nil
}
