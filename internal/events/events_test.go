package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestRoutedPublisherKeepsEmailsLocal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	local := NewMockEventPublisher(logger)
	external := NewMockEventPublisher(logger)
	publisher := NewRoutedPublisher(local, external)

	if err := publisher.Publish(context.Background(), TopicEmails, NewEvent(EventUserPasswordReset, nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := publisher.Publish(context.Background(), TopicNotifications, NewEvent(EventResourceCreated, nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	localEvents := local.GetPublishedEvents()
	if len(localEvents) != 1 || localEvents[0].Type != EventUserPasswordReset {
		t.Errorf("local events = %+v, want only the email event", localEvents)
	}

	externalEvents := external.GetPublishedEvents()
	if len(externalEvents) != 1 || externalEvents[0].Type != EventResourceCreated {
		t.Errorf("external events = %+v, want only the notification event", externalEvents)
	}
}
