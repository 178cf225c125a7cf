package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/services"
	"github.com/rbse-library/library-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// ListUsers lists accounts with optional filtering.
// GET /api/v1/auth/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	filters := h.parseUserFilters(c)

	users, total, err := h.userService.List(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	page := (filters.Offset / max(filters.Limit, 1)) + 1
	h.RespondSuccess(c, http.StatusOK, "Users", gin.H{
		"users":      users,
		"pagination": buildPagination(total, page, filters.Limit),
	})
}

// GetUser retrieves a single account.
// GET /api/v1/auth/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "User", user)
}

// CreateUser provisions an account without the self-service register flow.
// POST /api/v1/auth/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	h.LogRequest(c, "Creating user", "email", req.Email, "role", req.Role)

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, "User created", user)
}

// UpdateUser edits profile fields on an account.
// PUT /api/v1/auth/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var req models.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	h.LogRequest(c, "Updating user", "user_id", userID)

	user, err := h.userService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "User updated", user)
}

// DeactivateUser disables an account. Staff cannot deactivate themselves.
// DELETE /api/v1/auth/users/:id
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	userID := c.Param("id")

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	h.LogRequest(c, "Deactivating user", "user_id", userID)

	if err := h.userService.Deactivate(c.Request.Context(), actorID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "User deactivated", nil)
}

// ActivateUser re-enables a deactivated account.
// PUT /api/v1/auth/users/:id/activate
func (h *UserHandler) ActivateUser(c *gin.Context) {
	userID := c.Param("id")

	h.LogRequest(c, "Activating user", "user_id", userID)

	user, err := h.userService.Activate(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "User activated", user)
}

// ChangePassword sets a new password on an account without the current one.
// PUT /api/v1/auth/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID := c.Param("id")

	var req models.AdminChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	h.LogRequest(c, "Changing user password", "user_id", userID)

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.Password); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Password changed", nil)
}

// ===== HELPER METHODS =====

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	page, limit := parsePagination(c)

	filters := repositories.UserFilters{
		Limit:     limit,
		Offset:    (page - 1) * limit,
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if section := c.Query("section"); section != "" {
		filters.Section = &section
	}
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filters.Role = &r
	}
	if classStr := c.Query("class"); classStr != "" {
		if class, err := strconv.Atoi(classStr); err == nil {
			filters.Class = &class
		}
	}
	if activeStr := c.Query("is_active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			filters.IsActive = &active
		}
	}

	return filters
}

func parsePagination(c *gin.Context) (page, limit int) {
	page = 1
	limit = 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	return page, limit
}

func buildPagination(total int64, page, limit int) models.Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return models.Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}
