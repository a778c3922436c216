package notify

import (
	"context"
	"sync"

	"communityAPI/internal/logging"
)

// Sender delivers a push notification to a device token.
type Sender interface {
	Send(ctx context.Context, token string, event Event) error
}

// LogSender only logs. Used when no push credentials are configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, token string, event Event) error {
	logging.ExtractLogger(ctx).Info().
		Str("title", event.Title).
		Str("body", event.Body).
		Msg("push notification (no sender configured)")
	return nil
}

type Delivery struct {
	Token string
	Event Event
}

// MemorySender records deliveries in memory.
type MemorySender struct {
	mu         sync.Mutex
	deliveries []Delivery
}

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (m *MemorySender) Send(_ context.Context, token string, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, Delivery{Token: token, Event: event})
	return nil
}

// Deliveries returns a copy of deliveries seen so far.
func (m *MemorySender) Deliveries() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Delivery, len(m.deliveries))
	copy(out, m.deliveries)
	return out
}
