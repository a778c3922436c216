package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"communityAPI/internal/models"

	"golang.org/x/oauth2"
)

var ErrUnsupportedProvider = errors.New("неподдерживаемый провайдер")

// Endpoints are the userinfo URLs of each provider.
type Endpoints struct {
	Kakao  string
	Naver  string
	Google string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Kakao:  "https://kapi.kakao.com/v2/user/me",
		Naver:  "https://openapi.naver.com/v1/nid/me",
		Google: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
}

// Verifier exchanges a provider access token for the provider's user id.
type Verifier interface {
	Verify(ctx context.Context, provider, accessToken string) (string, error)
}

type verifier struct {
	endpoints Endpoints
}

func NewVerifier(endpoints Endpoints) Verifier {
	return &verifier{endpoints: endpoints}
}

type kakaoUser struct {
	ID int64 `json:"id"`
}

type naverUser struct {
	Response struct {
		ID string `json:"id"`
	} `json:"response"`
}

type googleUser struct {
	Sub string `json:"sub"`
}

func (v *verifier) Verify(ctx context.Context, provider, accessToken string) (string, error) {
	switch provider {
	case models.ProviderKakao:
		var u kakaoUser
		if err := v.fetch(ctx, v.endpoints.Kakao, accessToken, &u); err != nil {
			return "", err
		}
		if u.ID == 0 {
			return "", models.ErrInvalidToken
		}
		return strconv.FormatInt(u.ID, 10), nil
	case models.ProviderNaver:
		var u naverUser
		if err := v.fetch(ctx, v.endpoints.Naver, accessToken, &u); err != nil {
			return "", err
		}
		if u.Response.ID == "" {
			return "", models.ErrInvalidToken
		}
		return u.Response.ID, nil
	case models.ProviderGoogle:
		var u googleUser
		if err := v.fetch(ctx, v.endpoints.Google, accessToken, &u); err != nil {
			return "", err
		}
		if u.Sub == "" {
			return "", models.ErrInvalidToken
		}
		return u.Sub, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

func (v *verifier) fetch(ctx context.Context, url, accessToken string, out interface{}) error {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса к провайдеру: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса к провайдеру: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return models.ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("провайдер вернул статус %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка разбора ответа провайдера: %w", err)
	}
	return nil
}
