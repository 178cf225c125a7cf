package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/config"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/services"
	"github.com/rbse-library/library-service/internal/utils"
)

// HandlerManager manages all HTTP handlers and route registration.
type HandlerManager struct {
	authHandler         *AuthHandler
	userHandler         *UserHandler
	resourceHandler     *ResourceHandler
	bookmarkHandler     *BookmarkHandler
	analyticsHandler    *AnalyticsHandler
	notificationHandler *NotificationHandler

	accessGate  *AccessGate
	rateLimiter *RateLimiter
	rateCfg     config.RateLimitConfig
}

// NewHandlerManager creates all handlers wired to the service layer.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	accessGate *AccessGate,
	rateLimiter *RateLimiter,
	rateCfg config.RateLimitConfig,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		resourceHandler:     NewResourceHandler(serviceManager.Resource(), logger),
		bookmarkHandler:     NewBookmarkHandler(serviceManager.Bookmark(), logger),
		analyticsHandler:    NewAnalyticsHandler(serviceManager.Analytics(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.NotificationEvents(), logger),
		accessGate:          accessGate,
		rateLimiter:         rateLimiter,
		rateCfg:             rateCfg,
	}
}

// SetupRoutes registers all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	apiLimit := hm.rateLimiter.Limit("api", hm.rateCfg.MaxRequests, hm.rateCfg.Window)
	// Failed auth attempts burn the budget; successful ones are refunded.
	authLimit := hm.rateLimiter.LimitWithRefund("auth", hm.rateCfg.AuthMax, hm.rateCfg.AuthWindow)

	v1 := router.Group("/api/v1")
	v1.Use(apiLimit)

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authLimit, hm.authHandler.Register)
		auth.POST("/login", authLimit, hm.authHandler.Login)
		auth.POST("/forgot-password", authLimit, hm.authHandler.ForgotPassword)
		auth.POST("/reset-password/:token", authLimit, hm.authHandler.ResetPassword)

		authed := auth.Group("")
		authed.Use(hm.accessGate.AuthMiddleware())
		{
			authed.GET("/me", hm.authHandler.Me)
			authed.PUT("/update-password", hm.authHandler.UpdatePassword)
			authed.POST("/logout", hm.authHandler.Logout)
		}
	}

	// Digital resource routes
	resources := v1.Group("/digital-resources")
	resources.Use(hm.accessGate.AuthMiddleware())
	{
		resources.GET("", hm.resourceHandler.ListResources)
		resources.GET("/my/history", hm.resourceHandler.MyHistory)
		resources.GET("/:id", hm.resourceHandler.GetResource)
		resources.POST("/:id/access", hm.resourceHandler.AccessResource)

		resources.POST("", hm.accessGate.RequireRoleMiddleware(models.RoleTeacher, models.RoleLibrarian), hm.resourceHandler.CreateResource)
		resources.PUT("/:id", hm.accessGate.RequireRoleMiddleware(models.RoleTeacher, models.RoleLibrarian), hm.resourceHandler.UpdateResource)
		resources.DELETE("/:id", hm.accessGate.RequireRoleMiddleware(models.RoleLibrarian), hm.resourceHandler.DeleteResource)
	}

	// Bookmark routes
	bookmarks := v1.Group("/bookmarks")
	bookmarks.Use(hm.accessGate.AuthMiddleware())
	{
		bookmarks.GET("", hm.bookmarkHandler.ListBookmarks)
		bookmarks.POST("", hm.bookmarkHandler.CreateBookmark)
		bookmarks.PUT("/:id", hm.bookmarkHandler.UpdateBookmark)
		bookmarks.DELETE("/:id", hm.bookmarkHandler.DeleteBookmark)
	}

	// User management routes (staff only, except looking up your own record)
	users := v1.Group("/auth/users")
	users.Use(hm.accessGate.AuthMiddleware())
	{
		staff := hm.accessGate.RequireRoleMiddleware(models.RoleLibrarian)
		users.GET("", staff, hm.userHandler.ListUsers)
		users.POST("", staff, hm.userHandler.CreateUser)
		users.GET("/:id", hm.accessGate.RequireSelfOrRoleMiddleware("id", models.RoleLibrarian), hm.userHandler.GetUser)
		users.PUT("/:id", staff, hm.userHandler.UpdateUser)
		users.DELETE("/:id", staff, hm.userHandler.DeactivateUser)
		users.PUT("/:id/activate", staff, hm.userHandler.ActivateUser)
		users.PUT("/:id/password", staff, hm.userHandler.ChangePassword)
	}

	// Analytics routes (staff only)
	analytics := v1.Group("/analytics")
	analytics.Use(hm.accessGate.AuthMiddleware())
	analytics.Use(hm.accessGate.RequireRoleMiddleware(models.RoleTeacher, models.RoleLibrarian))
	{
		analytics.GET("/dashboard", hm.analyticsHandler.Dashboard)
		analytics.GET("/popular-resources", hm.analyticsHandler.PopularResources)
		analytics.GET("/engagement", hm.analyticsHandler.DailyEngagement)
		analytics.GET("/top-users", hm.analyticsHandler.TopUsers)
		analytics.GET("/export", hm.analyticsHandler.ExportReport)
	}

	// Notification routes
	notifications := v1.Group("/notifications")
	notifications.Use(hm.accessGate.AuthMiddleware())
	{
		notifications.GET("", hm.notificationHandler.ListNotifications)
		notifications.GET("/unread-count", hm.notificationHandler.UnreadCount)
		notifications.PUT("/read-all", hm.notificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", hm.notificationHandler.MarkRead)

		notifications.POST("/bulk", hm.accessGate.RequireRoleMiddleware(models.RoleTeacher, models.RoleLibrarian), hm.notificationHandler.SendBulk)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "library-service",
		})
	})
}
