package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
)

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) repositories.BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	if err := r.db.WithContext(ctx).Create(bookmark).Error; err != nil {
		return handleDBError(err, "create bookmark")
	}
	return nil
}

func (r *bookmarkRepository) GetByID(ctx context.Context, id string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	if err := r.db.WithContext(ctx).
		Preload("Resource").
		First(&bookmark, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get bookmark by id")
	}
	return &bookmark, nil
}

func (r *bookmarkRepository) GetByUserAndResource(ctx context.Context, userID, resourceID string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	if err := r.db.WithContext(ctx).
		First(&bookmark, "user_id = ? AND resource_id = ?", userID, resourceID).Error; err != nil {
		return nil, handleDBError(err, "get bookmark by user and resource")
	}
	return &bookmark, nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, int64, error) {
	var bookmarks []*models.Bookmark
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Preload("Resource")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count bookmarks")
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&bookmarks).Error; err != nil {
		return nil, 0, handleDBError(err, "list bookmarks")
	}

	return bookmarks, total, nil
}

func (r *bookmarkRepository) Update(ctx context.Context, bookmark *models.Bookmark) error {
	if err := r.db.WithContext(ctx).Save(bookmark).Error; err != nil {
		return handleDBError(err, "update bookmark")
	}
	return nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Bookmark{}, "id = ?", id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete bookmark")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete bookmark")
	}
	return nil
}
