package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"communityAPI/internal/config"
	"communityAPI/internal/models"
	"communityAPI/internal/repository"
	"communityAPI/internal/social"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims carry the user id in sub and the stored token version in jti.
type Claims struct {
	Type string `json:"typ"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID int64
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// UnregisteredError is returned by SocialLogin when the provider account has
// no active user yet. UID is what the client must register with.
type UnregisteredError struct {
	Provider string
	UID      string
}

func (e *UnregisteredError) Error() string {
	return fmt.Sprintf("пользователь %s/%s не зарегистрирован", e.Provider, e.UID)
}

func (e *UnregisteredError) Unwrap() error {
	return models.ErrNotFound
}

type AuthService interface {
	SocialLogin(ctx context.Context, provider, accessToken string) (*models.TokenPair, error)
	AdminLogin(ctx context.Context, username, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*Identity, error)
	// Revoke invalidates every token issued to the user.
	Revoke(ctx context.Context, userID int64) error
}

type authService struct {
	userRepo repository.UserRepository
	versions repository.TokenVersionRepository
	verifier social.Verifier
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	versions repository.TokenVersionRepository,
	verifier social.Verifier,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo: userRepo,
		versions: versions,
		verifier: verifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) SocialLogin(ctx context.Context, provider, accessToken string) (*models.TokenPair, error) {
	uid, err := s.verifier.Verify(ctx, provider, accessToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки токена провайдера: %w", err)
	}

	user, err := s.userRepo.GetActiveByUID(ctx, uid, provider)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &UnregisteredError{Provider: provider, UID: uid}
		}
		return nil, err
	}

	return s.issue(ctx, user)
}

func (s *authService) AdminLogin(ctx context.Context, username, password string) (*models.TokenPair, error) {
	if s.cfg.Admin.Password == "" {
		return nil, fmt.Errorf("вход администратора отключен: %w", models.ErrForbidden)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Admin.Password)) == 1
	if !userOK || !passOK {
		return nil, fmt.Errorf("неверные учетные данные: %w", models.ErrInvalidToken)
	}

	user, err := s.userRepo.GetActiveByUID(ctx, s.cfg.Admin.UID, models.ProviderAdmin)
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.verify(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	userID, _ := strconv.ParseInt(claims.Subject, 10, 64)
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}
	if user.DisableAt.Valid {
		return nil, fmt.Errorf("пользователь отключен: %w", models.ErrInvalidToken)
	}

	return s.issue(ctx, user)
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*Identity, error) {
	claims, err := s.verify(ctx, accessToken, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	userID, _ := strconv.ParseInt(claims.Subject, 10, 64)
	return &Identity{UserID: userID, Role: claims.Role}, nil
}

func (s *authService) Revoke(ctx context.Context, userID int64) error {
	return s.versions.DeleteByUser(ctx, userID)
}

// issue stores fresh versions for both token types, which invalidates any
// pair issued before.
func (s *authService) issue(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	access, err := s.sign(ctx, user, TokenTypeAccess, s.cfg.AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(ctx, user, TokenTypeRefresh, s.cfg.RefreshTokenDuration)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) sign(ctx context.Context, user *models.User, tokenType string, ttl time.Duration) (string, error) {
	version := uuid.New().String()
	if err := s.versions.Upsert(ctx, user.ID, tokenType, version); err != nil {
		return "", err
	}

	now := s.now()
	claims := Claims{
		Type: tokenType,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        version,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

func (s *authService) verify(ctx context.Context, tokenString, tokenType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга токена: %v: %w", err, models.ErrInvalidToken)
	}

	if claims.Type != tokenType {
		return nil, fmt.Errorf("ожидался %s токен: %w", tokenType, models.ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("неверный subject: %w", models.ErrInvalidToken)
	}

	current, err := s.versions.Get(ctx, userID, tokenType)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("токен отозван: %w", models.ErrInvalidToken)
		}
		return nil, err
	}
	if current != claims.ID {
		return nil, fmt.Errorf("токен отозван: %w", models.ErrInvalidToken)
	}

	return &claims, nil
}
