package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/auth"
	"github.com/rbse-library/library-service/internal/events"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/validator"
)

// Dependencies carries the auth and messaging collaborators the services need
// beyond the repository.
type Dependencies struct {
	Codec       *auth.Codec
	Hasher      *auth.Hasher
	Publisher   events.Publisher
	FrontendURL string
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	deps      Dependencies

	authService         AuthService
	userService         UserService
	resourceService     ResourceService
	bookmarkService     BookmarkService
	analyticsService    AnalyticsService
	notificationService NotificationEventService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewDefaultServiceManager creates a service manager wired with all services.
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps Dependencies) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		deps:      deps,
	}
}

// Initialize builds all service instances.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.shutdown {
		return fmt.Errorf("service manager has been shut down")
	}

	if sm.repo == nil {
		return fmt.Errorf("repository is required")
	}
	if sm.deps.Codec == nil || sm.deps.Hasher == nil {
		return fmt.Errorf("auth dependencies are required")
	}
	if sm.deps.Publisher == nil {
		return fmt.Errorf("event publisher is required")
	}

	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Codec, sm.deps.Hasher, sm.deps.Publisher, sm.deps.FrontendURL)
	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Hasher)
	sm.resourceService = NewResourceService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Publisher)
	sm.bookmarkService = NewBookmarkService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.analyticsService = NewAnalyticsService(sm.repo, sm.db, sm.logger)
	sm.notificationService = NewNotificationEventService(sm.repo, sm.deps.Publisher, sm.logger, sm.validator)

	sm.initialized = true
	sm.logger.Info("services initialized")
	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.userService
}

func (sm *serviceManager) Resource() ResourceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.resourceService
}

func (sm *serviceManager) Bookmark() BookmarkService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.bookmarkService
}

func (sm *serviceManager) Analytics() AnalyticsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.analyticsService
}

func (sm *serviceManager) NotificationEvents() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.notificationService
}

// HealthCheck verifies the data stores behind the services.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	return sm.repo.Ping(ctx)
}

// Shutdown releases the event publisher. Repositories are closed by the
// repository manager.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true
	sm.initialized = false

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			return fmt.Errorf("failed to close event publisher: %w", err)
		}
	}

	sm.logger.Info("services shut down")
	return nil
}
