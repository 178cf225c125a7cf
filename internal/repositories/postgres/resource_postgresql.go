package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/cache"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
)

type resourceRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewResourceRepository(db *gorm.DB, redisClient *redis.Client) repositories.ResourceRepository {
	return &resourceRepository{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	if err := r.db.WithContext(ctx).Create(resource).Error; err != nil {
		return handleDBError(err, "create resource")
	}
	r.invalidate(ctx, resource.ID)
	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource

	cacheKey := fmt.Sprintf("id:%s", id)
	err := r.cacheManager.Resource.CacheOrExecute(ctx, cacheKey, &resource, cache.ResourceCacheConfig.TTL, func() (interface{}, error) {
		var fetched models.Resource
		if err := r.db.WithContext(ctx).
			Preload("Uploader").
			First(&fetched, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &fetched, nil
	})
	if err != nil {
		return nil, handleDBError(err, "get resource by id")
	}

	return &resource, nil
}

func (r *resourceRepository) List(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Resource, int64, error) {
	var resources []*models.Resource
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Resource{}).Preload("Uploader")
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count resources")
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&resources).Error; err != nil {
		return nil, 0, handleDBError(err, "list resources")
	}

	return resources, total, nil
}

func (r *resourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	if err := r.db.WithContext(ctx).Save(resource).Error; err != nil {
		return handleDBError(err, "update resource")
	}
	r.invalidate(ctx, resource.ID)
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return handleDBError(result.Error, "delete resource")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete resource")
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *resourceRepository) IncrementAccessCount(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("id = ?", id).
		UpdateColumn("access_count", gorm.Expr("access_count + 1")).Error; err != nil {
		return handleDBError(err, "increment access count")
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *resourceRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check resource exists")
	}
	return count > 0, nil
}

func (r *resourceRepository) invalidate(ctx context.Context, id string) {
	// Cache invalidation failures degrade freshness, not correctness.
	_ = r.cacheManager.InvalidateResource(ctx, id)
}

func (r *resourceRepository) applyFilters(query *gorm.DB, filters repositories.ResourceFilters) *gorm.DB {
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.Class != nil {
		query = query.Where("class = ?", *filters.Class)
	}
	if filters.Board != nil {
		query = query.Where("board = ?", *filters.Board)
	}
	if filters.Language != nil {
		query = query.Where("language = ?", *filters.Language)
	}
	if filters.UploadedBy != nil {
		query = query.Where("uploaded_by = ?", *filters.UploadedBy)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ? OR description ILIKE ?", like, like, like)
	}
	return query
}
