package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	TopicPendingUserCreated = "pending.user.created"
	TopicPendingPostCreated = "pending.post.created"
)

// Event is the payload carried on the bus.
type Event struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Publisher is what the pending pipelines see of the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

// Bus is an in-process pub/sub on top of watermill's gochannel transport.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus(bufferSize int64, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if bufferSize <= 0 {
		bufferSize = 100
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            bufferSize,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)

	return &Bus{pubSub: pubSub}
}

func (b *Bus) Publish(ctx context.Context, topic string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)

	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("ошибка публикации события %s: %w", topic, err)
	}
	return nil
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

func decodeEvent(msg *message.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return Event{}, fmt.Errorf("ошибка разбора события: %w", err)
	}
	return event, nil
}
