package handlers

import (
	"encoding/json"
	"net/http"

	"communityAPI/internal/models"
)

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type PromotedUserResponse struct {
	UserID int64 `json:"userId"`
}

// Register stages a registration for administrator approval.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	pending, err := h.PendingUserService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, CreatedResponse{ID: pending.ID}, http.StatusCreated)
}

func (h *Handlers) ListPendingUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	users, err := h.PendingUserService.ListPending(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, users, http.StatusOK)
}

func (h *Handlers) PromotePendingUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID, err := h.PendingUserService.Promote(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, PromotedUserResponse{UserID: userID}, http.StatusOK)
}
