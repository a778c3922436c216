package handlers

import (
	"context"

	"communityAPI/internal/config"
	"communityAPI/internal/service"

	"github.com/go-playground/validator/v10"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	AuthService         service.AuthService
	UserService         service.UserService
	PostService         service.PostService
	PendingPostService  service.PendingPostService
	PendingUserService  service.PendingUserService
	CommentService      service.CommentService
	ReplyService        service.ReplyService
	AnnouncementService service.AnnouncementService
	HealthChecks        map[string]HealthCheck
	Cfg                 *config.Config
	Validate            *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config, checks map[string]HealthCheck) *Handlers {
	return &Handlers{
		AuthService:         service.Auth,
		UserService:         service.User,
		PostService:         service.Post,
		PendingPostService:  service.PendingPost,
		PendingUserService:  service.PendingUser,
		CommentService:      service.Comment,
		ReplyService:        service.Reply,
		AnnouncementService: service.Announcement,
		HealthChecks:        checks,
		Cfg:                 config,
		Validate:            validator.New(),
	}
}
