package mailer

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/rbse-library/library-service/internal/events"
)

// EmailRequest is the payload carried by email events.
type EmailRequest struct {
	To       string `json:"to"`
	Name     string `json:"name"`
	Template string `json:"template"`
	ResetURL string `json:"reset_url,omitempty"`
}

// Worker consumes email events and delivers them. Delivery failures are
// logged and acked; an email must never fail the request that queued it.
type Worker struct {
	subscriber message.Subscriber
	sender     Sender
	logger     *slog.Logger
	schoolName string
	libraryURL string
}

func NewWorker(subscriber message.Subscriber, sender Sender, logger *slog.Logger, schoolName, libraryURL string) *Worker {
	return &Worker{
		subscriber: subscriber,
		sender:     sender,
		logger:     logger,
		schoolName: schoolName,
		libraryURL: libraryURL,
	}
}

// Run consumes email events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, events.TopicEmails)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.handle(msg)
		}
	}
}

func (w *Worker) handle(msg *message.Message) {
	// Ack unconditionally; a bad or undeliverable email is not retried.
	defer msg.Ack()

	event, err := events.DecodeEvent(msg)
	if err != nil {
		w.logger.Error("failed to decode email event", "error", err, "message_id", msg.UUID)
		return
	}

	var req EmailRequest
	if err := events.DecodeEventData(event, &req); err != nil {
		w.logger.Error("failed to decode email request", "error", err, "event_id", event.ID)
		return
	}

	subject, body, err := RenderTemplate(req.Template, templateData{
		Name:       req.Name,
		SchoolName: w.schoolName,
		LibraryURL: w.libraryURL,
		ResetURL:   req.ResetURL,
	})
	if err != nil {
		w.logger.Error("failed to render email", "error", err, "template", req.Template)
		return
	}

	if err := w.sender.Send(req.To, subject, body); err != nil {
		w.logger.Error("failed to deliver email", "error", err, "template", req.Template)
		return
	}

	w.logger.Info("email delivered", "template", req.Template, "event_id", event.ID)
}
