package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/cache"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
)

type analyticsRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAnalyticsRepository(db *gorm.DB, redisClient *redis.Client) repositories.AnalyticsRepository {
	return &analyticsRepository{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

type countRow struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

func (r *analyticsRepository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	err := r.cacheManager.Stats.CacheOrExecute(ctx, "dashboard", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return r.computeDashboardStats(ctx)
	})
	if err != nil {
		return nil, handleDBError(err, "get dashboard stats")
	}

	return &stats, nil
}

func (r *analyticsRepository) computeDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		ByType:  map[string]int64{},
		ByClass: map[string]int64{},
	}

	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Resource{}).Where("is_active = ?", true).Count(&stats.TotalResources).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.AccessLog{}).Count(&stats.TotalAccess).Error; err != nil {
		return nil, err
	}

	var byType []countRow
	if err := db.Model(&models.Resource{}).
		Select("type AS key, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, row := range byType {
		stats.ByType[row.Key] = row.Count
	}

	var byClass []countRow
	if err := db.Model(&models.Resource{}).
		Select("COALESCE(class::text, 'all') AS key, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("class").
		Scan(&byClass).Error; err != nil {
		return nil, err
	}
	for _, row := range byClass {
		stats.ByClass[row.Key] = row.Count
	}

	var topCount int64
	if err := db.Model(&models.Resource{}).
		Select("COALESCE(MAX(access_count), 0)").
		Where("is_active = ?", true).
		Scan(&topCount).Error; err != nil {
		return nil, err
	}
	stats.TopResource = topCount

	recent, err := r.recentAccess(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.RecentAccess = recent

	return stats, nil
}

func (r *analyticsRepository) recentAccess(ctx context.Context, limit int) ([]models.RecentAccess, error) {
	var logs []*models.AccessLog
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Resource").
		Order("accessed_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	recent := make([]models.RecentAccess, 0, len(logs))
	for _, log := range logs {
		entry := models.RecentAccess{
			ID:         log.ID,
			AccessedAt: log.AccessedAt,
		}
		if log.User != nil {
			entry.User = log.User.Name
		}
		if log.Resource != nil {
			entry.Resource = log.Resource.Title
			entry.ResourceType = string(log.Resource.Type)
		}
		recent = append(recent, entry)
	}
	return recent, nil
}

func (r *analyticsRepository) PopularResources(ctx context.Context, limit, days int) ([]models.PopularResource, error) {
	if limit <= 0 {
		limit = 10
	}
	if days <= 0 {
		days = 30
	}

	var popular []models.PopularResource
	cacheKey := fmt.Sprintf("popular:%d:%d", limit, days)

	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &popular, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		since := time.Now().AddDate(0, 0, -days)

		var rows []models.PopularResource
		err := r.db.WithContext(ctx).
			Table("access_logs al").
			Select("al.resource_id, r.title, r.type, COUNT(*) AS access_count").
			Joins("INNER JOIN resources r ON r.id = al.resource_id").
			Where("al.accessed_at >= ? AND r.is_active = ?", since, true).
			Group("al.resource_id, r.title, r.type").
			Order("access_count DESC").
			Limit(limit).
			Scan(&rows).Error
		return rows, err
	})
	if err != nil {
		return nil, handleDBError(err, "get popular resources")
	}

	return popular, nil
}

func (r *analyticsRepository) DailyEngagement(ctx context.Context, days int) ([]models.DailyEngagement, error) {
	if days <= 0 {
		days = 30
	}

	var engagement []models.DailyEngagement
	cacheKey := fmt.Sprintf("engagement:%d", days)

	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &engagement, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		since := time.Now().AddDate(0, 0, -days)

		var rows []models.DailyEngagement
		err := r.db.WithContext(ctx).
			Table("access_logs").
			Select("TO_CHAR(accessed_at, 'YYYY-MM-DD') AS date, COUNT(*) AS access_count, COUNT(DISTINCT user_id) AS unique_users").
			Where("accessed_at >= ?", since).
			Group("date").
			Order("date ASC").
			Scan(&rows).Error
		return rows, err
	})
	if err != nil {
		return nil, handleDBError(err, "get daily engagement")
	}

	return engagement, nil
}

func (r *analyticsRepository) TopUsers(ctx context.Context, limit, days int) ([]models.TopUser, error) {
	if limit <= 0 {
		limit = 10
	}
	if days <= 0 {
		days = 30
	}

	var top []models.TopUser
	cacheKey := fmt.Sprintf("topusers:%d:%d", limit, days)

	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &top, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		since := time.Now().AddDate(0, 0, -days)

		var rows []models.TopUser
		err := r.db.WithContext(ctx).
			Table("access_logs al").
			Select("al.user_id, u.name, u.email, COUNT(*) AS access_count").
			Joins("INNER JOIN users u ON u.id = al.user_id").
			Where("al.accessed_at >= ?", since).
			Group("al.user_id, u.name, u.email").
			Order("access_count DESC").
			Limit(limit).
			Scan(&rows).Error
		return rows, err
	})
	if err != nil {
		return nil, handleDBError(err, "get top users")
	}

	return top, nil
}
