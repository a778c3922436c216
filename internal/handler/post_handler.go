package handlers

import (
	"encoding/json"
	"net/http"
)

type PostRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}

// GetPosts lists permanent posts created before the "date" query parameter.
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListBefore(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetMyPosts(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	posts, err := h.PostService.ListMine(r.Context(), identity.UserID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}

// CreatePost stages the post for moderation. The returned id is the staged
// id, not the permanent one.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	id, err := h.PendingPostService.Stage(r.Context(), user.ID, user.Name, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, CreatedResponse{ID: id}, http.StatusAccepted)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	if err := h.PostService.Update(r.Context(), id, identity.UserID, req.Title, req.Content); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.PostService.Delete(r.Context(), id, identity.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	uploads, closeAll, ok := h.readUploads(w, r, "photos")
	if !ok {
		return
	}
	defer closeAll()

	if err := h.PostService.UploadPhotos(r.Context(), id, identity.UserID, uploads); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	urls, err := h.PostService.PhotoURLs(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, URLsResponse{URLs: urls}, http.StatusOK)
}

func (h *Handlers) ListPendingPosts(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	posts, err := h.PendingPostService.ListPending(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) PromotePendingPost(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.PendingPostService.Promote(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
