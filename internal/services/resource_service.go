package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/events"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/validator"
)

type resourceService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.Publisher
}

func NewResourceService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher) ResourceService {
	return &resourceService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *resourceService) Create(ctx context.Context, uploaderID string, req *models.ResourceCreateRequest) (*models.Resource, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	// Streaming entries carry a URL instead of an uploaded file.
	if req.Type == models.ResourceStreaming && (req.StreamingURL == nil || *req.StreamingURL == "") {
		return nil, fmt.Errorf("%w: streaming resources require a streaming URL", ErrValidationFailed)
	}
	if req.Type != models.ResourceStreaming && req.FileURL == "" {
		return nil, fmt.Errorf("%w: file URL is required", ErrValidationFailed)
	}

	var tags datatypes.JSON
	if len(req.Tags) > 0 {
		raw, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		tags = datatypes.JSON(raw)
	}

	board := req.Board
	if board == "" {
		board = "RBSE"
	}

	resource := &models.Resource{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Type:         req.Type,
		Author:       req.Author,
		Subject:      req.Subject,
		Class:        req.Class,
		Board:        board,
		Language:     req.Language,
		FileURL:      req.FileURL,
		FileSize:     req.FileSize,
		StreamingURL: req.StreamingURL,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
		Tags:         tags,
		UploadedBy:   uploaderID,
		IsActive:     true,
	}

	if err := s.repo.Resource().Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	event := events.NewEvent(events.EventResourceCreated, map[string]interface{}{
		"resource_id": resource.ID,
		"title":       resource.Title,
		"type":        resource.Type,
		"class":       resource.Class,
	})
	if err := s.publisher.Publish(ctx, events.TopicNotifications, event); err != nil {
		s.logger.Error("failed to publish resource created event", "resource_id", resource.ID, "error", err)
	}

	s.logger.Info("resource created", "resource_id", resource.ID, "type", resource.Type, "uploader_id", uploaderID)
	return resource, nil
}

func (s *resourceService) Get(ctx context.Context, id string) (*models.Resource, error) {
	resource, err := s.repo.Resource().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	if !resource.IsActive {
		return nil, ErrResourceNotFound
	}
	return resource, nil
}

func (s *resourceService) List(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Resource, int64, error) {
	// Inactive entries stay hidden unless a caller asks for them explicitly.
	if filters.IsActive == nil {
		active := true
		filters.IsActive = &active
	}

	resources, total, err := s.repo.Resource().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, total, nil
}

func (s *resourceService) Update(ctx context.Context, id string, req *models.ResourceUpdateRequest) (*models.Resource, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	resource, err := s.repo.Resource().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	if req.Title != nil {
		resource.Title = *req.Title
	}
	if req.Type != nil {
		resource.Type = *req.Type
	}
	if req.Author != nil {
		resource.Author = *req.Author
	}
	if req.Subject != nil {
		resource.Subject = *req.Subject
	}
	if req.Class != nil {
		resource.Class = req.Class
	}
	if req.Board != nil {
		resource.Board = *req.Board
	}
	if req.Language != nil {
		resource.Language = *req.Language
	}
	if req.FileURL != nil {
		resource.FileURL = *req.FileURL
	}
	if req.StreamingURL != nil {
		resource.StreamingURL = req.StreamingURL
	}
	if req.ThumbnailURL != nil {
		resource.ThumbnailURL = req.ThumbnailURL
	}
	if req.Description != nil {
		resource.Description = *req.Description
	}
	if req.Tags != nil {
		raw, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		resource.Tags = datatypes.JSON(raw)
	}
	if req.IsActive != nil {
		resource.IsActive = *req.IsActive
	}

	if err := s.repo.Resource().Update(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}

	s.logger.Info("resource updated", "resource_id", resource.ID)
	return resource, nil
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Resource().Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	s.logger.Info("resource deactivated", "resource_id", id)
	return nil
}

// Access records one resource access and returns the delivery details.
func (s *resourceService) Access(ctx context.Context, userID, resourceID string, duration int, meta RequestMeta) (*models.AccessResponse, error) {
	resource, err := s.Get(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	log := &models.AccessLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		ResourceID: resourceID,
		AccessedAt: time.Now(),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Duration:   duration,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.AccessLog().Create(ctx, log); err != nil {
			return err
		}
		return txRepo.Resource().IncrementAccessCount(ctx, resourceID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record access: %w", err)
	}

	fileURL := resource.FileURL
	if resource.Type == models.ResourceStreaming && resource.StreamingURL != nil {
		fileURL = *resource.StreamingURL
	}

	return &models.AccessResponse{
		ResourceID: resource.ID,
		FileURL:    fileURL,
		Title:      resource.Title,
		Type:       resource.Type,
	}, nil
}

// History lists the caller's own access log entries, newest first.
func (s *resourceService) History(ctx context.Context, userID string, filters repositories.AccessLogFilters) ([]*models.AccessLog, int64, error) {
	filters.UserID = &userID

	logs, total, err := s.repo.AccessLog().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list access history: %w", err)
	}
	return logs, total, nil
}
