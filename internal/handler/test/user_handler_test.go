package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"communityAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler(t *testing.T) {
	valid := models.CreateUserRequest{UID: "k-1", Name: "Kim", Phone: "+821012345678", Provider: "kakao"}

	tests := []struct {
		name           string
		request        models.CreateUserRequest
		mockSetup      func(*MockPendingUserService)
		expectedStatus int
	}{
		{
			name:    "Заявка создана",
			request: valid,
			mockSetup: func(m *MockPendingUserService) {
				m.On("Register", mock.Anything, valid).Return(&models.PendingUser{ID: 4}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:    "Заявка уже есть",
			request: valid,
			mockSetup: func(m *MockPendingUserService) {
				m.On("Register", mock.Anything, valid).Return(nil, fmt.Errorf("заявка: %w", models.ErrAlreadyExists))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "Телефон занят",
			request: valid,
			mockSetup: func(m *MockPendingUserService) {
				m.On("Register", mock.Anything, valid).Return(nil, fmt.Errorf("телефон: %w", models.ErrConflict))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Телефон не в формате E.164",
			request:        models.CreateUserRequest{UID: "k-1", Name: "Kim", Phone: "010-1234", Provider: "kakao"},
			mockSetup:      func(m *MockPendingUserService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandlers()
			tt.mockSetup(m.pendingUser)

			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBuffer(body))
			rr := serve(h, req, nil)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			m.pendingUser.AssertExpectations(t)
		})
	}
}

func TestPromotePendingUserHandler(t *testing.T) {
	h, m := newTestHandlers()
	m.pendingUser.On("Promote", mock.Anything, int64(3)).Return(int64(7), nil)

	rr := serve(h, httptest.NewRequest(http.MethodPost, "/api/admin/pending-users/3", nil), admin)

	assert.Equal(t, http.StatusOK, rr.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, float64(7), response["userId"])
}

func TestGetCurrentUserHandler(t *testing.T) {
	t.Run("Профиль", func(t *testing.T) {
		h, m := newTestHandlers()
		m.user.On("GetProfile", mock.Anything, int64(3)).
			Return(&models.UserView{ID: 3, UID: "k-1", Provider: "kakao", Role: "user", Name: "Kim"}, nil)

		rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), member)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"name":"Kim"`)
	})

	t.Run("Пользователь отключен", func(t *testing.T) {
		h, m := newTestHandlers()
		m.user.On("GetProfile", mock.Anything, int64(3)).Return(nil, models.ErrNotFound)

		rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), member)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetUserHandler(t *testing.T) {
	t.Run("Профиль другого пользователя", func(t *testing.T) {
		h, m := newTestHandlers()
		m.user.On("GetProfile", mock.Anything, int64(12)).
			Return(&models.UserView{ID: 12, UID: "n-12", Provider: "naver", Role: "user", Name: "Park"}, nil)

		rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/users/12", nil), member)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"name":"Park"`)
		m.user.AssertExpectations(t)
	})

	t.Run("Пользователь не найден", func(t *testing.T) {
		h, m := newTestHandlers()
		m.user.On("GetProfile", mock.Anything, int64(404)).Return(nil, models.ErrNotFound)

		rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/users/404", nil), member)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetMyPostsHandler(t *testing.T) {
	h, m := newTestHandlers()
	m.post.On("ListMine", mock.Anything, int64(3), "2025-02-26T20:09:12+09:00").
		Return([]models.PostView{{ID: 8, Title: "t"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/mine?date=2025-02-26T20:09:12%2B09:00", nil)
	rr := serve(h, req, member)

	assert.Equal(t, http.StatusOK, rr.Code)
	m.post.AssertExpectations(t)
}

func TestDisableUserHandler(t *testing.T) {
	h, m := newTestHandlers()
	m.user.On("Disable", mock.Anything, int64(3)).Return(nil)

	rr := serve(h, httptest.NewRequest(http.MethodDelete, "/api/users/me", nil), member)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	m.user.AssertExpectations(t)
}
