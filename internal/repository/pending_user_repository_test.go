package repository

import (
	"context"
	"database/sql"
	"testing"

	"communityAPI/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingUserRepository(db)

	pending := &models.PendingUser{UID: "u1", LoginProvider: "kakao", Name: "A", Phone: "enc"}

	mock.ExpectQuery(`
		INSERT INTO pending_users (uid, login_provider, name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`).
		WithArgs("u1", "kakao", "A", "enc").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	require.NoError(t, repo.Create(context.Background(), pending))
	assert.Equal(t, int64(3), pending.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingUserRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingUserRepository(db)

	mock.ExpectQuery(`
		INSERT INTO pending_users (uid, login_provider, name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`).
		WithArgs("u1", "kakao", "A", "enc").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.PendingUser{UID: "u1", LoginProvider: "kakao", Name: "A", Phone: "enc"})

	assert.ErrorIs(t, err, models.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingUserRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingUserRepository(db)
	query := `SELECT id, uid, login_provider, name, phone FROM pending_users ORDER BY id`

	t.Run("Пустой список", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows([]string{"id", "uid", "login_provider", "name", "phone"}))

		pending, err := repo.List(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, pending)
		assert.Empty(t, pending)
	})

	t.Run("Список заявок", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows([]string{"id", "uid", "login_provider", "name", "phone"}).
				AddRow(1, "u1", "kakao", "A", "enc1").
				AddRow(2, "u2", "naver", "B", "enc2"))

		pending, err := repo.List(context.Background())

		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, "naver", pending[1].LoginProvider)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingUserRepository_GetByIDTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingUserRepository(db)
	query := `SELECT id, uid, login_provider, name, phone FROM pending_users WHERE id = $1 FOR UPDATE`

	mock.ExpectBegin()
	mock.ExpectQuery(query).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)

	pending, err := repo.GetByIDTx(context.Background(), tx, 404)

	assert.Nil(t, pending)
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
