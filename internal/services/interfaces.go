package services

import (
	"context"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
)

// AuthResult carries a freshly issued session token and the user it belongs to.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RequestMeta carries per-request client details into the access log.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// NotificationRequest describes a notification to fan out to users.
type NotificationRequest struct {
	Type    models.NotificationType `json:"type" validate:"required"`
	Title   string                  `json:"title" validate:"required,max=200"`
	Message string                  `json:"message" validate:"required,max=1000"`

	RelatedID   *string `json:"related_id"`
	RelatedType *string `json:"related_type"`
}

// AuthService implements registration, login and the password lifecycle.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error)
	GetMe(ctx context.Context, userID string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID string, req *models.UpdatePasswordRequest) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) (*AuthResult, error)
}

// UserService implements staff-facing account management.
type UserService interface {
	List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Update(ctx context.Context, id string, req *models.AdminUpdateUserRequest) (*models.User, error)
	Deactivate(ctx context.Context, actorID, id string) error
	Activate(ctx context.Context, id string) (*models.User, error)
	ChangePassword(ctx context.Context, id, newPassword string) error
}

// ResourceService implements the digital catalogue operations.
type ResourceService interface {
	Create(ctx context.Context, uploaderID string, req *models.ResourceCreateRequest) (*models.Resource, error)
	Get(ctx context.Context, id string) (*models.Resource, error)
	List(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Resource, int64, error)
	Update(ctx context.Context, id string, req *models.ResourceUpdateRequest) (*models.Resource, error)
	Delete(ctx context.Context, id string) error
	Access(ctx context.Context, userID, resourceID string, duration int, meta RequestMeta) (*models.AccessResponse, error)
	History(ctx context.Context, userID string, filters repositories.AccessLogFilters) ([]*models.AccessLog, int64, error)
}

// BookmarkService implements per-user bookmarks.
type BookmarkService interface {
	Create(ctx context.Context, userID string, req *models.BookmarkCreateRequest) (*models.Bookmark, error)
	ListByUser(ctx context.Context, userID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, int64, error)
	Update(ctx context.Context, userID, bookmarkID string, req *models.BookmarkUpdateRequest) (*models.Bookmark, error)
	Delete(ctx context.Context, userID, bookmarkID string) error
}

// AnalyticsService serves usage statistics for staff dashboards.
type AnalyticsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	PopularResources(ctx context.Context, limit, days int) ([]models.PopularResource, error)
	DailyEngagement(ctx context.Context, days int) ([]models.DailyEngagement, error)
	TopUsers(ctx context.Context, limit, days int) ([]models.TopUser, error)
	ExportUsageReport(ctx context.Context, days int) ([]byte, error)
}

// NotificationEventService persists notifications and publishes events.
type NotificationEventService interface {
	SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error
	ListByUser(ctx context.Context, userID string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// ServiceManager aggregates all services.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Resource() ResourceService
	Bookmark() BookmarkService
	Analytics() AnalyticsService
	NotificationEvents() NotificationEventService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
