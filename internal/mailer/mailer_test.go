package mailer

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rbse-library/library-service/internal/events"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (r *recordingSender) all() []sentEmail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentEmail, len(r.sent))
	copy(out, r.sent)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWorkerDeliversPasswordResetEmail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	bus := events.NewGoChannelBus(logger)
	defer bus.Close()

	sender := &recordingSender{}
	worker := NewWorker(bus, sender, logger, "RBSE", "https://library.example.edu")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	publisher := events.NewWatermillPublisher(bus)
	event := events.NewEvent(events.EventUserPasswordReset, EmailRequest{
		To:       "meera@example.com",
		Name:     "Meera",
		Template: TemplatePasswordReset,
		ResetURL: "https://library.example.edu/reset-password/abc123",
	})
	if err := publisher.Publish(ctx, events.TopicEmails, event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	waitFor(t, func() bool { return len(sender.all()) == 1 })

	got := sender.all()[0]
	if got.To != "meera@example.com" {
		t.Errorf("To = %q, want %q", got.To, "meera@example.com")
	}
	if got.Subject != "Password Reset Request" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if !strings.Contains(got.Body, "https://library.example.edu/reset-password/abc123") {
		t.Error("body does not contain reset URL")
	}
	if !strings.Contains(got.Body, "Meera") {
		t.Error("body does not contain recipient name")
	}
}

func TestWorkerSkipsUnknownTemplate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	bus := events.NewGoChannelBus(logger)
	defer bus.Close()

	sender := &recordingSender{}
	worker := NewWorker(bus, sender, logger, "RBSE", "https://library.example.edu")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	time.Sleep(50 * time.Millisecond)

	publisher := events.NewWatermillPublisher(bus)
	bad := events.NewEvent(events.EventUserRegistered, EmailRequest{
		To:       "x@example.com",
		Template: "no-such-template",
	})
	if err := publisher.Publish(ctx, events.TopicEmails, bad); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	good := events.NewEvent(events.EventUserRegistered, EmailRequest{
		To:       "arjun@example.com",
		Name:     "Arjun",
		Template: TemplateWelcome,
	})
	if err := publisher.Publish(ctx, events.TopicEmails, good); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	waitFor(t, func() bool { return len(sender.all()) == 1 })

	got := sender.all()[0]
	if got.To != "arjun@example.com" {
		t.Errorf("To = %q, want %q", got.To, "arjun@example.com")
	}
	if !strings.Contains(got.Subject, "Welcome") {
		t.Errorf("Subject = %q, want welcome subject", got.Subject)
	}
}

func TestRenderTemplateUnknown(t *testing.T) {
	if _, _, err := RenderTemplate("bogus", templateData{}); err == nil {
		t.Error("RenderTemplate() error = nil, want error for unknown template")
	}
}
