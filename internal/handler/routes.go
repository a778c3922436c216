package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers every endpoint on a new router.
func (h *Handlers) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", h.SocialLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/admin", h.AdminLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.RefreshToken).Methods(http.MethodPost)

	api.HandleFunc("/users", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/me", h.GetCurrentUser).Methods(http.MethodGet)
	api.HandleFunc("/users/me", h.UpdateName).Methods(http.MethodPatch)
	api.HandleFunc("/users/me", h.DisableUser).Methods(http.MethodDelete)
	api.HandleFunc("/users/me/fcm-token", h.SetFCMToken).Methods(http.MethodPut)
	api.HandleFunc("/users/me/profile-image", h.UploadProfileImage).Methods(http.MethodPut)
	api.HandleFunc("/users/me/profile-image", h.DeleteProfileImage).Methods(http.MethodDelete)
	api.HandleFunc("/users/{id:[0-9]+}", h.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/profile-image", h.GetProfileImage).Methods(http.MethodGet)

	api.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/mine", h.GetMyPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}", h.UpdatePost).Methods(http.MethodPatch)
	api.HandleFunc("/posts/{id:[0-9]+}", h.DeletePost).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id:[0-9]+}/photos", h.GetPhotos).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}/photos", h.UploadPhotos).Methods(http.MethodPut)
	api.HandleFunc("/posts/{id:[0-9]+}/comments", h.GetComments).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}/comments", h.CreateComment).Methods(http.MethodPost)

	api.HandleFunc("/comments/{id:[0-9]+}", h.UpdateComment).Methods(http.MethodPatch)
	api.HandleFunc("/comments/{id:[0-9]+}", h.DeleteComment).Methods(http.MethodDelete)
	api.HandleFunc("/comments/{id:[0-9]+}/replies", h.GetReplies).Methods(http.MethodGet)
	api.HandleFunc("/comments/{id:[0-9]+}/replies", h.CreateReply).Methods(http.MethodPost)
	api.HandleFunc("/replies/{id:[0-9]+}", h.UpdateReply).Methods(http.MethodPatch)
	api.HandleFunc("/replies/{id:[0-9]+}", h.DeleteReply).Methods(http.MethodDelete)

	api.HandleFunc("/announcements", h.GetAnnouncements).Methods(http.MethodGet)
	api.HandleFunc("/announcements", h.CreateAnnouncement).Methods(http.MethodPost)
	api.HandleFunc("/announcements/mine", h.GetMyAnnouncements).Methods(http.MethodGet)
	api.HandleFunc("/announcements/{id:[0-9]+}", h.UpdateAnnouncement).Methods(http.MethodPatch)
	api.HandleFunc("/announcements/{id:[0-9]+}", h.DeleteAnnouncement).Methods(http.MethodDelete)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/pending-posts", h.ListPendingPosts).Methods(http.MethodGet)
	admin.HandleFunc("/pending-posts/{id:[0-9]+}", h.PromotePendingPost).Methods(http.MethodPost)
	admin.HandleFunc("/pending-users", h.ListPendingUsers).Methods(http.MethodGet)
	admin.HandleFunc("/pending-users/{id:[0-9]+}", h.PromotePendingUser).Methods(http.MethodPost)

	return r
}
