package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/rbse-library/library-service/internal/events"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/validator"
)

type fakeNotificationRepository struct {
	notifications []*models.Notification
}

func (f *fakeNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepository) CreateBatch(ctx context.Context, ns []*models.Notification) error {
	f.notifications = append(f.notifications, ns...)
	return nil
}

func (f *fakeNotificationRepository) ListByUser(ctx context.Context, userID string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	var out []*models.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if filters.IsRead != nil && n.IsRead != *filters.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	fakeRepository
	notificationRepo *fakeNotificationRepository
}

func (f *fakeNotificationRepo) Notification() repositories.NotificationRepository {
	return f.notificationRepo
}

func TestNotificationEventService_PublishEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mockPublisher := events.NewMockEventPublisher(logger)
	v := validator.New()
	repo := &fakeNotificationRepo{notificationRepo: &fakeNotificationRepository{}}

	service := &notificationEventService{
		repo:           repo,
		eventPublisher: mockPublisher,
		logger:         logger,
		validator:      v,
	}

	ctx := context.Background()

	t.Run("SendBulkNotification", func(t *testing.T) {
		userIDs := []string{"u-1", "u-2", "u-3"}
		notification := &NotificationRequest{
			Type:    models.NotificationNewResource,
			Title:   "New study material",
			Message: "Class 10 science videos are now available",
		}

		if err := service.SendBulkNotification(ctx, userIDs, notification); err != nil {
			t.Fatalf("Failed to send bulk notification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventBulkNotification {
			t.Errorf("Expected event type %q, got %q", events.EventBulkNotification, published[0].Type)
		}

		if len(repo.notificationRepo.notifications) != 3 {
			t.Errorf("Expected 3 persisted notifications, got %d", len(repo.notificationRepo.notifications))
		}
	})

	t.Run("Event_Structure_Validation", func(t *testing.T) {
		mockPublisher.ClearEvents()

		notification := &NotificationRequest{
			Type:    models.NotificationAnnouncement,
			Title:   "Library closed",
			Message: "The digital library is under maintenance on Sunday",
		}

		if err := service.SendBulkNotification(ctx, []string{"u-123"}, notification); err != nil {
			t.Fatalf("Failed to send notification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.ID == "" {
			t.Error("Event ID should not be empty")
		}
		if event.Source != "library-service" {
			t.Errorf("Expected source 'library-service', got '%s'", event.Source)
		}
		if event.Version != "1.0" {
			t.Errorf("Expected version '1.0', got '%s'", event.Version)
		}
		if event.Timestamp.IsZero() {
			t.Error("Event timestamp should not be zero")
		}
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		mockPublisher.ClearEvents()

		err := service.SendBulkNotification(ctx, []string{"u-1"}, &NotificationRequest{})
		if err == nil {
			t.Fatal("Expected validation error for empty request")
		}
		if got := len(mockPublisher.GetPublishedEvents()); got != 0 {
			t.Errorf("Expected 0 events after validation failure, got %d", got)
		}
	})
}

func TestNotificationEventService_ReadTracking(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := &fakeNotificationRepo{notificationRepo: &fakeNotificationRepository{}}

	service := &notificationEventService{
		repo:           repo,
		eventPublisher: events.NewMockEventPublisher(logger),
		logger:         logger,
		validator:      validator.New(),
	}

	ctx := context.Background()
	notification := &NotificationRequest{
		Type:    models.NotificationAnnouncement,
		Title:   "Exam schedule",
		Message: "Half-yearly exams begin next month",
	}
	if err := service.SendBulkNotification(ctx, []string{"u-1", "u-2"}, notification); err != nil {
		t.Fatalf("SendBulkNotification() error = %v", err)
	}

	count, err := service.CountUnread(ctx, "u-1")
	if err != nil {
		t.Fatalf("CountUnread() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountUnread() = %d, want 1", count)
	}

	list, _, err := service.ListByUser(ctx, "u-1", repositories.NotificationFilters{})
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ListByUser() returned %d, want 1", len(list))
	}

	if err := service.MarkRead(ctx, "u-2", list[0].ID); err != ErrNotOwner {
		t.Errorf("MarkRead() for wrong owner error = %v, want ErrNotOwner", err)
	}
	if err := service.MarkRead(ctx, "u-1", list[0].ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	count, _ = service.CountUnread(ctx, "u-1")
	if count != 0 {
		t.Errorf("CountUnread() after MarkRead = %d, want 0", count)
	}
}
