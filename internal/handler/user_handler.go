package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"communityAPI/internal/storage"
)

type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,max=24"`
}

type FCMTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type URLResponse struct {
	URL string `json:"url"`
}

type URLsResponse struct {
	URLs []string `json:"urls"`
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, user, http.StatusOK)
}

// GetUser returns the profile of any active user by id.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, user, http.StatusOK)
}

func (h *Handlers) UpdateName(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UpdateName(r.Context(), identity.UserID, req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DisableUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.UserService.Disable(r.Context(), identity.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetFCMToken(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req FCMTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	if err := h.UserService.SetFCMToken(r.Context(), identity.UserID, req.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	uploads, closeAll, ok := h.readUploads(w, r, "image")
	if !ok {
		return
	}
	defer closeAll()

	if len(uploads) != 1 {
		WriteError(w, "Нужен ровно один файл", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UploadProfileImage(r.Context(), identity.UserID, uploads[0]); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteProfileImage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteProfileImage(r.Context(), identity.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetProfileImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	url, err := h.UserService.ProfileImageURL(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, URLResponse{URL: url}, http.StatusOK)
}

// readUploads parses a multipart body and opens every file under field. The
// returned func closes the opened files.
func (h *Handlers) readUploads(w http.ResponseWriter, r *http.Request, field string) ([]storage.Upload, func(), bool) {
	maxSize := h.Cfg.MaxUploadSize
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		WriteError(w, "Файл слишком большой или неверный формат", http.StatusBadRequest)
		return nil, nil, false
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	var uploads []storage.Upload
	for _, header := range r.MultipartForm.File[field] {
		file, err := header.Open()
		if err != nil {
			closeAll()
			WriteError(w, "Не удалось прочитать файл", http.StatusBadRequest)
			return nil, nil, false
		}
		opened = append(opened, file)
		uploads = append(uploads, storage.Upload{
			FileName: header.Filename,
			Reader:   file,
			Size:     header.Size,
		})
	}

	return uploads, closeAll, true
}
