package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"communityAPI/internal/models"
	"communityAPI/internal/service"
	"communityAPI/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		caller         *service.Identity
		mockSetup      func(*mocks)
		expectedStatus int
	}{
		{
			name:        "Пост ставится на модерацию",
			requestBody: map[string]interface{}{"title": "Hello", "content": "World"},
			caller:      member,
			mockSetup: func(m *mocks) {
				m.user.On("GetProfile", mock.Anything, int64(3)).
					Return(&models.UserView{ID: 3, Name: "Kim"}, nil)
				m.pendingPost.On("Stage", mock.Anything, int64(3), "Kim", "Hello", "World").
					Return(int64(12), nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "Пустой заголовок",
			requestBody:    map[string]interface{}{"title": "", "content": "World"},
			caller:         member,
			mockSetup:      func(m *mocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Без авторизации",
			requestBody:    map[string]interface{}{"title": "Hello", "content": "World"},
			caller:         nil,
			mockSetup:      func(m *mocks) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "Ошибка Redis скрыта от клиента",
			requestBody: map[string]interface{}{"title": "Hello", "content": "World"},
			caller:      member,
			mockSetup: func(m *mocks) {
				m.user.On("GetProfile", mock.Anything, int64(3)).
					Return(&models.UserView{ID: 3, Name: "Kim"}, nil)
				m.pendingPost.On("Stage", mock.Anything, int64(3), "Kim", "Hello", "World").
					Return(int64(0), errors.New("dial tcp: connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandlers()
			tt.mockSetup(m)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			rr := serve(h, req, tt.caller)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.NotContains(t, rr.Body.String(), "connection refused")
			if tt.expectedStatus == http.StatusAccepted {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
				assert.Equal(t, float64(12), response["id"])
			}
			m.pendingPost.AssertExpectations(t)
		})
	}
}

func TestPromotePendingPostHandler(t *testing.T) {
	tests := []struct {
		name           string
		caller         *service.Identity
		promoteErr     error
		shouldCallMock bool
		expectedStatus int
	}{
		{"Успешная публикация", admin, nil, true, http.StatusNoContent},
		{"Пост уже опубликован", admin, fmt.Errorf("пост 5: %w", models.ErrNotFound), true, http.StatusNotFound},
		{"Пост уже обрабатывается", admin, fmt.Errorf("пост 5: %w", models.ErrAlreadyProcessing), true, http.StatusConflict},
		{"Не администратор", member, nil, false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandlers()
			if tt.shouldCallMock {
				m.pendingPost.On("Promote", mock.Anything, int64(5)).Return(tt.promoteErr)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/admin/pending-posts/5", nil)
			rr := serve(h, req, tt.caller)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.shouldCallMock {
				m.pendingPost.AssertExpectations(t)
			} else {
				m.pendingPost.AssertNotCalled(t, "Promote", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestListPendingPostsHandler(t *testing.T) {
	h, m := newTestHandlers()
	m.pendingPost.On("ListPending", mock.Anything).Return([]models.PostView{}, nil)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/admin/pending-posts", nil), admin)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetPostsHandler(t *testing.T) {
	h, m := newTestHandlers()
	m.post.On("ListBefore", mock.Anything, "0").Return([]models.PostView{
		{ID: 1, Title: "t", Content: "c", CreateAt: "2025-02-26T20:00:00.000+09:00", User: &models.UserInfo{ID: 0, Name: models.DisabledUserName}},
	}, nil)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/posts?date=0", nil), member)

	assert.Equal(t, http.StatusOK, rr.Code)
	var response []models.PostView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, models.DisabledUserName, response[0].User.Name)
}

func TestUploadPhotosHandler(t *testing.T) {
	h, m := newTestHandlers()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range []string{"a.jpg", "b.jpg"} {
		part, err := writer.CreateFormFile("photos", name)
		require.NoError(t, err)
		part.Write([]byte("fake image"))
	}
	require.NoError(t, writer.Close())

	m.post.On("UploadPhotos", mock.Anything, int64(7), int64(3), mock.MatchedBy(func(files []storage.Upload) bool {
		return len(files) == 2 && files[0].FileName == "a.jpg" && files[1].FileName == "b.jpg"
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPut, "/api/posts/7/photos", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := serve(h, req, member)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	m.post.AssertExpectations(t)
}
