package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"communityAPI/internal/models"

	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, uid, login_provider, role, name, phone, has_profile_image, disable_at, fcm_token`

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetActiveByUID(ctx context.Context, uid, provider string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users
		WHERE uid = $1 AND login_provider = $2 AND disable_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, uid, provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь %s/%s: %w", provider, uid, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по uid: %w", err)
	}

	return &user, nil
}

func (r *userRepository) ExistsActive(ctx context.Context, uid, provider string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE uid = $1 AND login_provider = $2 AND disable_at IS NULL)`

	if err := r.db.GetContext(ctx, &exists, query, uid, provider); err != nil {
		return false, fmt.Errorf("ошибка при проверке пользователя: %w", err)
	}
	return exists, nil
}

func (r *userRepository) IsDisabled(ctx context.Context, uid, provider string) (bool, error) {
	return isDisabled(ctx, r.db, uid, provider)
}

func (r *userRepository) IsDisabledTx(ctx context.Context, tx *sqlx.Tx, uid, provider string) (bool, error) {
	return isDisabled(ctx, tx, uid, provider)
}

func isDisabled(ctx context.Context, q sqlx.QueryerContext, uid, provider string) (bool, error) {
	var disabled bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE uid = $1 AND login_provider = $2 AND disable_at IS NOT NULL)`

	if err := sqlx.GetContext(ctx, q, &disabled, query, uid, provider); err != nil {
		return false, fmt.Errorf("ошибка при проверке отключенного пользователя: %w", err)
	}
	return disabled, nil
}

func (r *userRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1 AND disable_at IS NULL)`

	if err := r.db.GetContext(ctx, &exists, query, phone); err != nil {
		return false, fmt.Errorf("ошибка при проверке телефона: %w", err)
	}
	return exists, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return createUser(ctx, r.db, user)
}

func (r *userRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, user *models.User) error {
	return createUser(ctx, tx, user)
}

func createUser(ctx context.Context, q sqlx.QueryerContext, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	query := `
		INSERT INTO users (uid, login_provider, role, name, phone, has_profile_image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := sqlx.GetContext(ctx, q, &user.ID, query,
		user.UID, user.LoginProvider, user.Role, user.Name, user.Phone, user.HasProfileImage)
	if err != nil {
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}
	return nil
}

// ReactivateTx brings a disabled user back under the same id, overwriting
// the name and phone with the pending registration's values.
func (r *userRepository) ReactivateTx(ctx context.Context, tx *sqlx.Tx, pending *models.PendingUser) (int64, error) {
	var id int64

	query := `
		UPDATE users
		SET name = $1, phone = $2, disable_at = NULL
		WHERE uid = $3 AND login_provider = $4 AND disable_at IS NOT NULL
		RETURNING id
	`

	err := tx.GetContext(ctx, &id, query, pending.Name, pending.Phone, pending.UID, pending.LoginProvider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("отключенный пользователь %s: %w", pending.UID, models.ErrNotFound)
		}
		return 0, fmt.Errorf("ошибка при восстановлении пользователя: %w", err)
	}

	return id, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id int64, name string) error {
	query := `UPDATE users SET name = $1 WHERE id = $2 AND disable_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("пользователь с ID %d", id))
}

// DisableTx keeps the row so authored content stays attached.
func (r *userRepository) DisableTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	query := `UPDATE users SET disable_at = NOW(), fcm_token = NULL WHERE id = $1 AND disable_at IS NULL`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка при отключении пользователя: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("пользователь с ID %d", id))
}

func (r *userRepository) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var isAdmin bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = $2 AND disable_at IS NULL)`

	if err := r.db.GetContext(ctx, &isAdmin, query, id, models.RoleAdmin); err != nil {
		return false, fmt.Errorf("ошибка при проверке роли: %w", err)
	}
	return isAdmin, nil
}

func (r *userRepository) SetFCMToken(ctx context.Context, id int64, token string) error {
	query := `UPDATE users SET fcm_token = $1 WHERE id = $2 AND disable_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, token, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении FCM токена: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("пользователь с ID %d", id))
}

// GetFCMToken returns an empty string when the user has no device token.
func (r *userRepository) GetFCMToken(ctx context.Context, id int64) (string, error) {
	var token sql.NullString

	query := `SELECT fcm_token FROM users WHERE id = $1 AND disable_at IS NULL`

	err := r.db.GetContext(ctx, &token, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("пользователь с ID %d: %w", id, models.ErrNotFound)
		}
		return "", fmt.Errorf("ошибка при получении FCM токена: %w", err)
	}

	return token.String, nil
}

func (r *userRepository) SetProfileImage(ctx context.Context, id int64, has bool) error {
	query := `UPDATE users SET has_profile_image = $1 WHERE id = $2 AND disable_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, has, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении фото профиля: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("пользователь с ID %d", id))
}

func expectOneRow(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}

	return nil
}
