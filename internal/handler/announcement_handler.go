package handlers

import (
	"encoding/json"
	"net/http"
)

func (h *Handlers) GetAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.AnnouncementService.ListBefore(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, announcements, http.StatusOK)
}

func (h *Handlers) GetMyAnnouncements(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}

	announcements, err := h.AnnouncementService.ListMine(r.Context(), identity.UserID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, announcements, http.StatusOK)
}

func (h *Handlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
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

	announcement, err := h.AnnouncementService.Create(r.Context(), identity.UserID, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, CreatedResponse{ID: announcement.ID}, http.StatusCreated)
}

func (h *Handlers) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
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

	if err := h.AnnouncementService.Update(r.Context(), id, identity.UserID, req.Title, req.Content); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.AnnouncementService.Delete(r.Context(), id, identity.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
