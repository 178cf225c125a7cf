package repositories

import (
	"context"
	"time"

	"github.com/rbse-library/library-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role     *models.UserRole `json:"role"`
	Class    *int             `json:"class"`
	Section  *string          `json:"section"`
	IsActive *bool            `json:"is_active"`
	Query    string           `json:"query"` // matches name, email or admission number
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	SortBy   string           `json:"sort_by"`
	SortOrder string          `json:"sort_order"`
}

type ResourceFilters struct {
	Type      *models.ResourceType     `json:"type"`
	Subject   *string                  `json:"subject"`
	Class     *int                     `json:"class"`
	Board     *string                  `json:"board"`
	Language  *models.ResourceLanguage `json:"language"`
	UploadedBy *string                 `json:"uploaded_by"`
	IsActive  *bool                    `json:"is_active"`
	Query     string                   `json:"query"` // matches title, author or description
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`
	SortOrder string                   `json:"sort_order"`
}

type BookmarkFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type AccessLogFilters struct {
	UserID     *string    `json:"user_id"`
	ResourceID *string    `json:"resource_id"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

type NotificationFilters struct {
	IsRead *bool `json:"is_read"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// UserRepository owns the user credential and profile store.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByAdmissionNumber(ctx context.Context, admissionNumber string) (bool, error)
}

// ResourceRepository owns the digital catalogue.
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	List(ctx context.Context, filters ResourceFilters) ([]*models.Resource, int64, error)
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, id string) error
	IncrementAccessCount(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// BookmarkRepository owns user bookmarks.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *models.Bookmark) error
	GetByID(ctx context.Context, id string) (*models.Bookmark, error)
	GetByUserAndResource(ctx context.Context, userID, resourceID string) (*models.Bookmark, error)
	ListByUser(ctx context.Context, userID string, filters BookmarkFilters) ([]*models.Bookmark, int64, error)
	Update(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, id string) error
}

// AccessLogRepository owns the access history.
type AccessLogRepository interface {
	Create(ctx context.Context, log *models.AccessLog) error
	List(ctx context.Context, filters AccessLogFilters) ([]*models.AccessLog, int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.AccessLog, error)
}

// NotificationRepository owns in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []*models.Notification) error
	ListByUser(ctx context.Context, userID string, filters NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// AnalyticsRepository serves aggregate queries for the dashboard.
type AnalyticsRepository interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	PopularResources(ctx context.Context, limit, days int) ([]models.PopularResource, error)
	DailyEngagement(ctx context.Context, days int) ([]models.DailyEngagement, error)
	TopUsers(ctx context.Context, limit, days int) ([]models.TopUser, error)
}
