package service

import (
	"context"
	"fmt"
	"sync"

	"communityAPI/internal/models"
	"communityAPI/internal/repository"
	"communityAPI/internal/storage"

	"github.com/jmoiron/sqlx"
)

// stubUsers answers the lookups the services under test need. Calling any
// other method panics on the nil embedded interface.
type stubUsers struct {
	repository.UserRepository
	byID    map[int64]*models.User
	admins  map[int64]bool
	created []*models.User
}

func newStubUsers(users ...*models.User) *stubUsers {
	s := &stubUsers{byID: map[int64]*models.User{}, admins: map[int64]bool{}}
	for _, u := range users {
		s.byID[u.ID] = u
		if u.Role == models.RoleAdmin {
			s.admins[u.ID] = true
		}
	}
	return s
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("пользователь с ID %d: %w", id, models.ErrNotFound)
	}
	return u, nil
}

func (s *stubUsers) GetActiveByUID(ctx context.Context, uid, provider string) (*models.User, error) {
	for _, u := range s.byID {
		if u.UID == uid && u.LoginProvider == provider && !u.DisableAt.Valid {
			return u, nil
		}
	}
	return nil, fmt.Errorf("пользователь %s/%s: %w", provider, uid, models.ErrNotFound)
}

func (s *stubUsers) ExistsActive(ctx context.Context, uid, provider string) (bool, error) {
	_, err := s.GetActiveByUID(ctx, uid, provider)
	return err == nil, nil
}

func (s *stubUsers) Create(ctx context.Context, user *models.User) error {
	user.ID = int64(len(s.byID) + 1)
	s.byID[user.ID] = user
	s.created = append(s.created, user)
	return nil
}

func (s *stubUsers) IsAdmin(ctx context.Context, id int64) (bool, error) {
	return s.admins[id], nil
}

func (s *stubUsers) SetProfileImage(ctx context.Context, id int64, has bool) error {
	u, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("пользователь с ID %d: %w", id, models.ErrNotFound)
	}
	u.HasProfileImage = has
	return nil
}

type memoryVersions struct {
	mu       sync.Mutex
	versions map[string]string
}

func newMemoryVersions() *memoryVersions {
	return &memoryVersions{versions: map[string]string{}}
}

func versionKey(userID int64, tokenType string) string {
	return fmt.Sprintf("%d/%s", userID, tokenType)
}

func (m *memoryVersions) Upsert(ctx context.Context, userID int64, tokenType, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[versionKey(userID, tokenType)] = version
	return nil
}

func (m *memoryVersions) Get(ctx context.Context, userID int64, tokenType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.versions[versionKey(userID, tokenType)]
	if !ok {
		return "", models.ErrNotFound
	}
	return v, nil
}

func (m *memoryVersions) DeleteByUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range []string{TokenTypeAccess, TokenTypeRefresh} {
		delete(m.versions, versionKey(userID, t))
	}
	return nil
}

func (m *memoryVersions) DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return m.DeleteByUser(ctx, userID)
}

type stubVerifier map[string]string

func (v stubVerifier) Verify(ctx context.Context, provider, accessToken string) (string, error) {
	uid, ok := v[provider+":"+accessToken]
	if !ok {
		return "", models.ErrInvalidToken
	}
	return uid, nil
}

// memoryStorage records object store calls.
type memoryStorage struct {
	photos   map[int64][]string
	profiles map[int64]bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{photos: map[int64][]string{}, profiles: map[int64]bool{}}
}

func (m *memoryStorage) ReplacePostPhotos(ctx context.Context, postID int64, files []storage.Upload) error {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.FileName)
	}
	m.photos[postID] = names
	return nil
}

func (m *memoryStorage) DeletePostPhotos(ctx context.Context, postID int64) error {
	delete(m.photos, postID)
	return nil
}

func (m *memoryStorage) PostPhotoURLs(ctx context.Context, postID int64) ([]string, error) {
	urls := []string{}
	for _, name := range m.photos[postID] {
		urls = append(urls, "https://objects.test/"+name)
	}
	return urls, nil
}

func (m *memoryStorage) PutProfileImage(ctx context.Context, userID int64, file storage.Upload) error {
	m.profiles[userID] = true
	return nil
}

func (m *memoryStorage) DeleteProfileImage(ctx context.Context, userID int64) error {
	delete(m.profiles, userID)
	return nil
}

func (m *memoryStorage) ProfileImageURL(ctx context.Context, userID int64) (string, error) {
	return fmt.Sprintf("https://objects.test/profiles/%d", userID), nil
}
