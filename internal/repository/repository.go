package repository

import (
	"context"
	"time"

	"communityAPI/internal/models"

	"github.com/jmoiron/sqlx"
)

// PageSize bounds every "before date" listing.
const PageSize = 20

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetActiveByUID(ctx context.Context, uid, provider string) (*models.User, error)
	ExistsActive(ctx context.Context, uid, provider string) (bool, error)
	IsDisabled(ctx context.Context, uid, provider string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateName(ctx context.Context, id int64, name string) error
	IsAdmin(ctx context.Context, id int64) (bool, error)
	SetFCMToken(ctx context.Context, id int64, token string) error
	GetFCMToken(ctx context.Context, id int64) (string, error)
	SetProfileImage(ctx context.Context, id int64, has bool) error

	IsDisabledTx(ctx context.Context, tx *sqlx.Tx, uid, provider string) (bool, error)
	ReactivateTx(ctx context.Context, tx *sqlx.Tx, pending *models.PendingUser) (int64, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, user *models.User) error
	DisableTx(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type PendingUserRepository interface {
	Create(ctx context.Context, pending *models.PendingUser) error
	List(ctx context.Context) ([]models.PendingUser, error)
	Exists(ctx context.Context, uid, provider string) (bool, error)

	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.PendingUser, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	ListBefore(ctx context.Context, before time.Time) ([]models.AuthoredRow, error)
	ListByUser(ctx context.Context, userID int64, before time.Time) ([]models.AuthoredRow, error)
	ExistsByOwner(ctx context.Context, id, userID int64) (bool, error)
	Update(ctx context.Context, id, userID int64, title, content string) error
	Delete(ctx context.Context, id, userID int64) error
}

type CommentRepository interface {
	ListByPost(ctx context.Context, postID int64) ([]models.CommentRow, error)
	Exists(ctx context.Context, postID, userID int64) (bool, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, id, userID int64, content string) error
	Delete(ctx context.Context, id, userID int64) error
}

type ReplyRepository interface {
	ListByComment(ctx context.Context, commentID int64) ([]models.CommentRow, error)
	Exists(ctx context.Context, commentID, userID int64) (bool, error)
	Create(ctx context.Context, reply *models.Reply) error
	Update(ctx context.Context, id, userID int64, content string) error
	Delete(ctx context.Context, id, userID int64) error
}

type AnnouncementRepository interface {
	ListBefore(ctx context.Context, before time.Time) ([]models.AuthoredRow, error)
	ListByUser(ctx context.Context, userID int64, before time.Time) ([]models.AuthoredRow, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, id, userID int64, title, content string) error
	Delete(ctx context.Context, id, userID int64) error
}

type TokenVersionRepository interface {
	Upsert(ctx context.Context, userID int64, tokenType, version string) error
	Get(ctx context.Context, userID int64, tokenType string) (string, error)
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type Repository struct {
	User         UserRepository
	PendingUser  PendingUserRepository
	Post         PostRepository
	Comment      CommentRepository
	Reply        ReplyRepository
	Announcement AnnouncementRepository
	TokenVersion TokenVersionRepository
	Transactor   Transactor
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:         NewUserRepository(db),
		PendingUser:  NewPendingUserRepository(db),
		Post:         NewPostRepository(db),
		Comment:      NewCommentRepository(db),
		Reply:        NewReplyRepository(db),
		Announcement: NewAnnouncementRepository(db),
		TokenVersion: NewTokenVersionRepository(db),
		Transactor:   NewTransactor(db),
	}
}
