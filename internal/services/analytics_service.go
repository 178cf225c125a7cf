package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
)

type analyticsService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *analyticsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.repo.Analytics().DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return stats, nil
}

func (s *analyticsService) PopularResources(ctx context.Context, limit, days int) ([]models.PopularResource, error) {
	popular, err := s.repo.Analytics().PopularResources(ctx, limit, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular resources: %w", err)
	}
	return popular, nil
}

func (s *analyticsService) DailyEngagement(ctx context.Context, days int) ([]models.DailyEngagement, error) {
	engagement, err := s.repo.Analytics().DailyEngagement(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily engagement: %w", err)
	}
	return engagement, nil
}

func (s *analyticsService) TopUsers(ctx context.Context, limit, days int) ([]models.TopUser, error) {
	top, err := s.repo.Analytics().TopUsers(ctx, limit, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	return top, nil
}

// ExportUsageReport builds an XLSX workbook with the usage aggregates.
func (s *analyticsService) ExportUsageReport(ctx context.Context, days int) ([]byte, error) {
	if days <= 0 {
		days = 30
	}

	popular, err := s.repo.Analytics().PopularResources(ctx, 50, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular resources: %w", err)
	}
	engagement, err := s.repo.Analytics().DailyEngagement(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily engagement: %w", err)
	}
	topUsers, err := s.repo.Analytics().TopUsers(ctx, 50, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const popularSheet = "Popular Resources"
	f.SetSheetName("Sheet1", popularSheet)

	headers := []string{"Resource ID", "Title", "Type", "Access Count"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(popularSheet, cell, h)
	}
	for row, p := range popular {
		values := []interface{}{p.ResourceID, p.Title, string(p.Type), p.AccessCount}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(popularSheet, cell, v)
		}
	}

	const engagementSheet = "Daily Engagement"
	if _, err := f.NewSheet(engagementSheet); err != nil {
		return nil, fmt.Errorf("failed to create engagement sheet: %w", err)
	}
	for i, h := range []string{"Date", "Access Count", "Unique Users"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(engagementSheet, cell, h)
	}
	for row, e := range engagement {
		values := []interface{}{e.Date, e.AccessCount, e.UniqueUsers}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(engagementSheet, cell, v)
		}
	}

	const usersSheet = "Top Users"
	if _, err := f.NewSheet(usersSheet); err != nil {
		return nil, fmt.Errorf("failed to create users sheet: %w", err)
	}
	for i, h := range []string{"User ID", "Name", "Email", "Access Count"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(usersSheet, cell, h)
	}
	for row, u := range topUsers {
		values := []interface{}{u.UserID, u.Name, u.Email, u.AccessCount}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(usersSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("usage report exported", "days", days, "bytes", buf.Len())
	return buf.Bytes(), nil
}
