package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"communityAPI/internal/service"
)

type SocialLoginRequest struct {
	Provider    string `json:"provider" validate:"required,oneof=kakao naver google"`
	AccessToken string `json:"accessToken" validate:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UnregisteredResponse tells the client which uid to register with.
type UnregisteredResponse struct {
	Error string `json:"error"`
	UID   string `json:"uid"`
}

func (h *Handlers) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req SocialLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	pair, err := h.AuthService.SocialLogin(r.Context(), req.Provider, req.AccessToken)
	if err != nil {
		var unregistered *service.UnregisteredError
		if errors.As(err, &unregistered) {
			WriteSuccess(w, UnregisteredResponse{Error: "Пользователь не зарегистрирован", UID: unregistered.UID}, http.StatusNotFound)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, pair, http.StatusOK)
}

func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	pair, err := h.AuthService.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, pair, http.StatusOK)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	// token missing
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Отсуствует refreshToken", http.StatusBadRequest)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, pair, http.StatusOK)
}
