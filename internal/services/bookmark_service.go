package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/validator"
)

type bookmarkService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewBookmarkService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) BookmarkService {
	return &bookmarkService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *bookmarkService) Create(ctx context.Context, userID string, req *models.BookmarkCreateRequest) (*models.Bookmark, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	exists, err := s.repo.Resource().ExistsByID(ctx, req.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check resource: %w", err)
	}
	if !exists {
		return nil, ErrResourceNotFound
	}

	if _, err := s.repo.Bookmark().GetByUserAndResource(ctx, userID, req.ResourceID); err == nil {
		return nil, ErrBookmarkExists
	} else if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check existing bookmark: %w", err)
	}

	bookmark := &models.Bookmark{
		ID:         uuid.New().String(),
		UserID:     userID,
		ResourceID: req.ResourceID,
		Notes:      req.Notes,
	}

	if err := s.repo.Bookmark().Create(ctx, bookmark); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, ErrBookmarkExists
		}
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	created, err := s.repo.Bookmark().GetByID(ctx, bookmark.ID)
	if err != nil {
		return bookmark, nil
	}

	s.logger.Info("bookmark created", "bookmark_id", bookmark.ID, "user_id", userID)
	return created, nil
}

func (s *bookmarkService) ListByUser(ctx context.Context, userID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, int64, error) {
	bookmarks, total, err := s.repo.Bookmark().ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, total, nil
}

func (s *bookmarkService) Update(ctx context.Context, userID, bookmarkID string, req *models.BookmarkUpdateRequest) (*models.Bookmark, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	bookmark, err := s.repo.Bookmark().GetByID(ctx, bookmarkID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrBookmarkNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	if bookmark.UserID != userID {
		return nil, ErrNotOwner
	}

	bookmark.Notes = req.Notes
	if err := s.repo.Bookmark().Update(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}

	return bookmark, nil
}

func (s *bookmarkService) Delete(ctx context.Context, userID, bookmarkID string) error {
	bookmark, err := s.repo.Bookmark().GetByID(ctx, bookmarkID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrBookmarkNotFound
		}
		return fmt.Errorf("failed to get bookmark: %w", err)
	}

	if bookmark.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Bookmark().Delete(ctx, bookmarkID); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	s.logger.Info("bookmark deleted", "bookmark_id", bookmarkID, "user_id", userID)
	return nil
}
