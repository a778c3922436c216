package service

import (
	"communityAPI/internal/config"
	"communityAPI/internal/encryption"
	"communityAPI/internal/notify"
	"communityAPI/internal/repository"
	"communityAPI/internal/social"
	"communityAPI/internal/staging"
	"communityAPI/internal/storage"
)

// Dependencies are the external systems the services talk to besides the
// database.
type Dependencies struct {
	Storage   storage.Storage
	Verifier  social.Verifier
	Encryptor encryption.Encryptor
	Staging   staging.Store
	Clock     staging.Clock
	Publisher notify.Publisher
}

type Service struct {
	User         UserService
	Auth         AuthService
	Post         PostService
	PendingPost  PendingPostService
	PendingUser  PendingUserService
	Comment      CommentService
	Reply        ReplyService
	Announcement AnnouncementService
}

func NewService(rep *repository.Repository, cfg *config.Config, deps Dependencies) *Service {
	lock := staging.NewPromotionLock(deps.Staging, cfg.Staging.LockTTL)

	return &Service{
		User: NewUserService(rep.User, rep.TokenVersion, rep.Transactor, deps.Storage, cfg),
		Auth: NewAuthService(rep.User, rep.TokenVersion, deps.Verifier, cfg),
		Post: NewPostService(rep.Post, deps.Storage),
		PendingPost: NewPendingPostService(deps.Staging, lock, rep.Post, deps.Clock, deps.Publisher, PendingPostConfig{
			PromoteAfter: cfg.Staging.PromoteAfter,
			ScanCount:    cfg.Staging.ScanCount,
		}),
		PendingUser:  NewPendingUserService(rep.User, rep.PendingUser, rep.Transactor, deps.Encryptor, deps.Publisher),
		Comment:      NewCommentService(rep.Comment, rep.Post),
		Reply:        NewReplyService(rep.Reply),
		Announcement: NewAnnouncementService(rep.Announcement, rep.User),
	}
}
