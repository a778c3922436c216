package models

import (
	"database/sql"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderKakao  = "kakao"
	ProviderNaver  = "naver"
	ProviderGoogle = "google"
	// ProviderAdmin marks the single account that logs in with the configured
	// admin credentials.
	ProviderAdmin = "admin"

	// DisabledUserName is shown in place of an author whose account is disabled.
	DisabledUserName = "탈퇴한 사용자"
)

type User struct {
	ID              int64          `json:"id" db:"id"`
	UID             string         `json:"uid" db:"uid"`
	LoginProvider   string         `json:"loginProvider" db:"login_provider"`
	Role            string         `json:"role" db:"role"`
	Name            string         `json:"name" db:"name"`
	Phone           string         `json:"-" db:"phone"`
	HasProfileImage bool           `json:"hasProfileImage" db:"has_profile_image"`
	DisableAt       sql.NullTime   `json:"-" db:"disable_at"`
	FCMToken        sql.NullString `json:"-" db:"fcm_token"`
}

type PendingUser struct {
	ID            int64  `json:"id" db:"id"`
	UID           string `json:"uid" db:"uid"`
	LoginProvider string `json:"loginProvider" db:"login_provider"`
	Name          string `json:"name" db:"name"`
	Phone         string `json:"-" db:"phone"`
}

type CreateUserRequest struct {
	UID      string `json:"uid" validate:"required,max=32"`
	Name     string `json:"name" validate:"required,max=24"`
	Phone    string `json:"phone" validate:"required,e164"`
	Provider string `json:"provider" validate:"required,oneof=kakao naver google"`
}

type Post struct {
	ID       int64     `json:"id" db:"id"`
	Title    string    `json:"title" db:"title"`
	Content  string    `json:"content" db:"content"`
	UserID   int64     `json:"userId" db:"user_id"`
	CreateAt time.Time `json:"createAt" db:"create_at"`
}

type Comment struct {
	ID       int64     `json:"id" db:"id"`
	Content  string    `json:"content" db:"content"`
	PostID   int64     `json:"postId" db:"post_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	CreateAt time.Time `json:"createAt" db:"create_at"`
}

type Reply struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	CommentID int64     `json:"commentId" db:"comment_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreateAt  time.Time `json:"createAt" db:"create_at"`
}

type Announcement struct {
	ID       int64     `json:"id" db:"id"`
	Title    string    `json:"title" db:"title"`
	Content  string    `json:"content" db:"content"`
	UserID   int64     `json:"userId" db:"user_id"`
	CreateAt time.Time `json:"createAt" db:"create_at"`
}

// UserInfo is the author snapshot attached to posts, comments and replies.
type UserInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserView struct {
	ID              int64  `json:"id"`
	UID             string `json:"uid"`
	Provider        string `json:"provider"`
	Role            string `json:"role"`
	Name            string `json:"name"`
	HasProfileImage bool   `json:"hasProfileImage"`
}

type PostView struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CommentCount int       `json:"commentCount"`
	CreateAt     string    `json:"createAt"`
	User         *UserInfo `json:"user,omitempty"`
}

type CommentView struct {
	ID       int64    `json:"id"`
	Content  string   `json:"content"`
	CreateAt string   `json:"createAt"`
	User     UserInfo `json:"user"`
}

type AnnouncementView struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	CreateAt string    `json:"createAt"`
	User     *UserInfo `json:"user,omitempty"`
}

// AuthoredRow is a listing row joined with its author; the author columns are
// NULL when the author is disabled.
type AuthoredRow struct {
	ID           int64          `db:"id"`
	Title        string         `db:"title"`
	Content      string         `db:"content"`
	CreateAt     time.Time      `db:"create_at"`
	CommentCount int            `db:"comment_count"`
	AuthorID     sql.NullInt64  `db:"author_id"`
	AuthorName   sql.NullString `db:"author_name"`
}

func (r AuthoredRow) Author() UserInfo {
	return authorInfo(r.AuthorID, r.AuthorName)
}

// CommentRow is a comment or reply joined with its author.
type CommentRow struct {
	ID         int64          `db:"id"`
	Content    string         `db:"content"`
	CreateAt   time.Time      `db:"create_at"`
	AuthorID   sql.NullInt64  `db:"author_id"`
	AuthorName sql.NullString `db:"author_name"`
}

func (r CommentRow) Author() UserInfo {
	return authorInfo(r.AuthorID, r.AuthorName)
}

func authorInfo(id sql.NullInt64, name sql.NullString) UserInfo {
	if !id.Valid {
		return UserInfo{ID: 0, Name: DisabledUserName}
	}
	return UserInfo{ID: id.Int64, Name: name.String}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
