package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
)

type accessLogRepository struct {
	db *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) repositories.AccessLogRepository {
	return &accessLogRepository{db: db}
}

func (r *accessLogRepository) Create(ctx context.Context, log *models.AccessLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return handleDBError(err, "create access log")
	}
	return nil
}

func (r *accessLogRepository) List(ctx context.Context, filters repositories.AccessLogFilters) ([]*models.AccessLog, int64, error) {
	var logs []*models.AccessLog
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.AccessLog{}).
		Preload("Resource")

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.ResourceID != nil {
		query = query.Where("resource_id = ?", *filters.ResourceID)
	}
	if filters.DateFrom != nil {
		query = query.Where("accessed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("accessed_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count access logs")
	}

	query = query.Order("accessed_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, handleDBError(err, "list access logs")
	}

	return logs, total, nil
}

func (r *accessLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.AccessLog, error) {
	if limit <= 0 {
		limit = 10
	}

	var logs []*models.AccessLog
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Resource").
		Order("accessed_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, handleDBError(err, "list recent access logs")
	}

	return logs, nil
}
