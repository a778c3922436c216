package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"communityAPI/internal/logging"
	"communityAPI/internal/models"
	"communityAPI/internal/social"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteSuccess(w, ErrorResponse{Error: message}, statusCode)
}

// WriteSuccess - функция для успешных ответов
func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// StatusFor maps a service error onto its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyProcessing), errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, social.ErrUnsupportedProvider):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError never exposes the text of unexpected errors.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logging.ExtractLogger(r.Context()).Error().Err(err).Msg("request failed")
		WriteError(w, "Внутренняя ошибка сервера", status)
		return
	}
	WriteError(w, err.Error(), status)
}
