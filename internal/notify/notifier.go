package notify

import (
	"context"
	"fmt"
	"time"

	"communityAPI/internal/jobs"
	"communityAPI/internal/logging"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jpillora/backoff"
)

// AdminUserID receives moderation notifications.
const AdminUserID int64 = 1

// RecipientLookup resolves the device token of a user. An empty token means
// the user has not registered a device.
type RecipientLookup interface {
	GetFCMToken(ctx context.Context, userID int64) (string, error)
}

type NotifierConfig struct {
	RecipientID int64
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

func DefaultNotifierConfig() NotifierConfig {
	return NotifierConfig{
		RecipientID: AdminUserID,
		MaxAttempts: 3,
		MinDelay:    time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Notifier forwards moderation events from the bus to the administrator's
// device.
type Notifier struct {
	bus    *Bus
	lookup RecipientLookup
	sender Sender
	cfg    NotifierConfig
}

func NewNotifier(bus *Bus, lookup RecipientLookup, sender Sender, cfg NotifierConfig) *Notifier {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Notifier{bus: bus, lookup: lookup, sender: sender, cfg: cfg}
}

// Start subscribes to the moderation topics and returns the running job.
func (n *Notifier) Start() *jobs.Job {
	job := jobs.New("notifier")

	userCh, err := n.bus.Subscribe(job.Ctx, TopicPendingUserCreated)
	if err != nil {
		job.Logger.Error().Err(err).Msg("failed to subscribe to pending users")
		return job.Finish()
	}
	postCh, err := n.bus.Subscribe(job.Ctx, TopicPendingPostCreated)
	if err != nil {
		job.Logger.Error().Err(err).Msg("failed to subscribe to pending posts")
		return job.Finish()
	}

	go func() {
		defer job.Finish()
		defer logging.LogPanics(&job.Logger)
		job.Logger.Info().Msg("notifier started")

		for {
			select {
			case <-job.Canceled():
				job.Logger.Info().Msg("notifier stopped")
				return
			case msg, ok := <-userCh:
				if !ok {
					return
				}
				n.handle(job.Ctx, msg)
			case msg, ok := <-postCh:
				if !ok {
					return
				}
				n.handle(job.Ctx, msg)
			}
		}
	}()

	return job
}

// handle always acks; a lost notification never blocks the bus.
func (n *Notifier) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := decodeEvent(msg)
	if err != nil {
		logging.ExtractLogger(ctx).Error().Err(err).Str("message", msg.UUID).Msg("dropping malformed event")
		return
	}

	if err := n.Deliver(ctx, event); err != nil {
		logging.ExtractLogger(ctx).Error().Err(err).Str("title", event.Title).Msg("failed to deliver notification")
	}
}

// Deliver sends event to the configured recipient, retrying with backoff.
func (n *Notifier) Deliver(ctx context.Context, event Event) error {
	token, err := n.lookup.GetFCMToken(ctx, n.cfg.RecipientID)
	if err != nil {
		return fmt.Errorf("ошибка получения токена получателя: %w", err)
	}
	if token == "" {
		logging.ExtractLogger(ctx).Debug().Int64("recipient", n.cfg.RecipientID).Msg("recipient has no device token")
		return nil
	}

	boff := backoff.Backoff{
		Min:    n.cfg.MinDelay,
		Max:    n.cfg.MaxDelay,
		Factor: 2,
	}

	for attempt := 1; ; attempt++ {
		err = n.sender.Send(ctx, token, event)
		if err == nil {
			return nil
		}
		if attempt >= n.cfg.MaxAttempts {
			return fmt.Errorf("уведомление не доставлено после %d попыток: %w", attempt, err)
		}

		dur := boff.Duration()
		logging.ExtractLogger(ctx).Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retrying after", dur).
			Msg("notification send failed")

		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
