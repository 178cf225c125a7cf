package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rbse-library/library-service/internal/events"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/validator"
)

// BulkNotificationEvent is the payload published for a notification fan-out.
type BulkNotificationEvent struct {
	UserIDs []string                `json:"user_ids"`
	Type    models.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
}

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.Publisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, publisher events.Publisher, logger *slog.Logger, validator *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: publisher,
		logger:         logger,
		validator:      validator,
	}
}

// SendBulkNotification persists one notification per user and publishes a
// single bulk event for downstream consumers.
func (s *notificationEventService) SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}
	if len(userIDs) == 0 {
		return nil
	}

	notifications := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notifications = append(notifications, &models.Notification{
			ID:          uuid.New().String(),
			UserID:      userID,
			Title:       req.Title,
			Message:     req.Message,
			Type:        req.Type,
			RelatedID:   req.RelatedID,
			RelatedType: req.RelatedType,
		})
	}

	if err := s.repo.Notification().CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("failed to persist notifications: %w", err)
	}

	event := events.NewEvent(events.EventBulkNotification, BulkNotificationEvent{
		UserIDs: userIDs,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	})
	if err := s.eventPublisher.Publish(ctx, events.TopicNotifications, event); err != nil {
		return fmt.Errorf("failed to publish bulk notification event: %w", err)
	}

	s.logger.Info("bulk notification sent", "recipients", len(userIDs), "type", req.Type)
	return nil
}

func (s *notificationEventService) ListByUser(ctx context.Context, userID string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	notifications, total, err := s.repo.Notification().ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *notificationEventService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.repo.Notification().MarkRead(ctx, notificationID, userID); err != nil {
		if repositories.IsNotFound(err) {
			return ErrNotOwner
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationEventService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.Notification().MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *notificationEventService) CountUnread(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.Notification().CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
