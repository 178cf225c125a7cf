package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Topics carried by the message broker.
const (
	TopicNotifications = "library.notifications"
	TopicEmails        = "library.emails"
)

// Event types.
const (
	EventUserRegistered       = "user.registered"
	EventUserPasswordReset    = "user.password_reset"
	EventResourceCreated      = "resource.created"
	EventBulkNotification     = "system.bulk_notification"
	EventResourceAccessLogged = "resource.access_logged"
)

// Event is the envelope for every published message.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an event envelope with this service as source.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "library-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Publisher publishes domain events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}

// watermillPublisher adapts a watermill publisher to the Publisher interface.
type watermillPublisher struct {
	pub message.Publisher
}

// NewWatermillPublisher wraps any watermill publisher (GoChannel, Kafka).
func NewWatermillPublisher(pub message.Publisher) Publisher {
	return &watermillPublisher{pub: pub}
}

func (p *watermillPublisher) Publish(ctx context.Context, topic string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	if err := p.pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

func (p *watermillPublisher) Close() error {
	return p.pub.Close()
}

// routedPublisher keeps email events on the local bus the mail worker
// subscribes to and hands every other topic to the external broker.
type routedPublisher struct {
	local    Publisher
	external Publisher
}

func NewRoutedPublisher(local, external Publisher) Publisher {
	return &routedPublisher{local: local, external: external}
}

func (p *routedPublisher) Publish(ctx context.Context, topic string, event Event) error {
	if topic == TopicEmails {
		return p.local.Publish(ctx, topic, event)
	}
	return p.external.Publish(ctx, topic, event)
}

func (p *routedPublisher) Close() error {
	if err := p.external.Close(); err != nil {
		return err
	}
	return p.local.Close()
}

// DecodeEvent unmarshals a watermill message back into an Event.
func DecodeEvent(msg *message.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	return event, nil
}

// DecodeEventData re-marshals the loosely typed Data field into dest.
func DecodeEventData(event Event, dest interface{}) error {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode event data: %w", err)
	}
	return nil
}
