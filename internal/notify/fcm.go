package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	fcmScope       = "https://www.googleapis.com/auth/firebase.messaging"
	fcmEndpointFmt = "https://fcm.googleapis.com/v1/projects/%s/messages:send"
)

// FCMSender sends through the Firebase Cloud Messaging HTTP v1 API.
type FCMSender struct {
	client   *http.Client
	endpoint string
}

// NewFCMSender loads service-account credentials from credentialsFile.
func NewFCMSender(ctx context.Context, projectID, credentialsFile string) (*FCMSender, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ключа FCM: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора ключа FCM: %w", err)
	}

	return NewFCMSenderWithTokenSource(ctx, fmt.Sprintf(fcmEndpointFmt, projectID), creds.TokenSource), nil
}

func NewFCMSenderWithTokenSource(ctx context.Context, endpoint string, ts oauth2.TokenSource) *FCMSender {
	return &FCMSender{
		client:   oauth2.NewClient(ctx, ts),
		endpoint: endpoint,
	}
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string          `json:"token"`
	Notification fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *FCMSender) Send(ctx context.Context, token string, event Event) error {
	body, err := json.Marshal(fcmRequest{Message: fcmMessage{
		Token:        token,
		Notification: fcmNotification{Title: event.Title, Body: event.Body},
	}})
	if err != nil {
		return fmt.Errorf("ошибка сериализации сообщения FCM: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса FCM: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки FCM: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("FCM вернул статус %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
