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

type ResourceHandler struct {
	BaseHandler
	resourceService services.ResourceService
}

func NewResourceHandler(resourceService services.ResourceService, logger utils.Logger) *ResourceHandler {
	return &ResourceHandler{
		BaseHandler:     NewBaseHandler(logger),
		resourceService: resourceService,
	}
}

// ListResources lists catalogue entries with filtering and pagination.
// GET /api/v1/digital-resources
func (h *ResourceHandler) ListResources(c *gin.Context) {
	filters := h.parseResourceFilters(c)

	resources, total, err := h.resourceService.List(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	page := (filters.Offset / max(filters.Limit, 1)) + 1
	h.RespondSuccess(c, http.StatusOK, "Resources", gin.H{
		"resources":  resources,
		"pagination": buildPagination(total, page, filters.Limit),
	})
}

// GetResource retrieves a single catalogue entry.
// GET /api/v1/digital-resources/:id
func (h *ResourceHandler) GetResource(c *gin.Context) {
	resourceID := c.Param("id")

	resource, err := h.resourceService.Get(c.Request.Context(), resourceID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Resource", resource)
}

// CreateResource adds a catalogue entry.
// POST /api/v1/digital-resources
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	uploaderID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	var req models.ResourceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	h.LogRequest(c, "Creating resource", "title", req.Title, "type", req.Type)

	resource, err := h.resourceService.Create(c.Request.Context(), uploaderID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, "Resource created", resource)
}

// UpdateResource edits a catalogue entry.
// PUT /api/v1/digital-resources/:id
func (h *ResourceHandler) UpdateResource(c *gin.Context) {
	resourceID := c.Param("id")

	var req models.ResourceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	h.LogRequest(c, "Updating resource", "resource_id", resourceID)

	resource, err := h.resourceService.Update(c.Request.Context(), resourceID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Resource updated", resource)
}

// DeleteResource retires a catalogue entry. The row is kept so access history
// stays intact.
// DELETE /api/v1/digital-resources/:id
func (h *ResourceHandler) DeleteResource(c *gin.Context) {
	resourceID := c.Param("id")

	h.LogRequest(c, "Deleting resource", "resource_id", resourceID)

	if err := h.resourceService.Delete(c.Request.Context(), resourceID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Resource deleted", nil)
}

// AccessResource records an access and returns the content location.
// POST /api/v1/digital-resources/:id/access
func (h *ResourceHandler) AccessResource(c *gin.Context) {
	resourceID := c.Param("id")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	// Duration is optional; an empty body means a plain open.
	var req models.AccessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.RespondBindError(c, err)
			return
		}
	}

	meta := services.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	access, err := h.resourceService.Access(c.Request.Context(), userID, resourceID, req.Duration, meta)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Access granted", access)
}

// MyHistory lists the caller's own access history.
// GET /api/v1/digital-resources/my/history
func (h *ResourceHandler) MyHistory(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	page, limit := parsePagination(c)
	filters := repositories.AccessLogFilters{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	logs, total, err := h.resourceService.History(c.Request.Context(), userID, filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Access history", gin.H{
		"history":    logs,
		"pagination": buildPagination(total, page, limit),
	})
}

// ===== HELPER METHODS =====

func (h *ResourceHandler) parseResourceFilters(c *gin.Context) repositories.ResourceFilters {
	page, limit := parsePagination(c)

	filters := repositories.ResourceFilters{
		Limit:     limit,
		Offset:    (page - 1) * limit,
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if subject := c.Query("subject"); subject != "" {
		filters.Subject = &subject
	}
	if board := c.Query("board"); board != "" {
		filters.Board = &board
	}
	if typeStr := c.Query("type"); typeStr != "" {
		t := models.ResourceType(typeStr)
		filters.Type = &t
	}
	if lang := c.Query("language"); lang != "" {
		l := models.ResourceLanguage(lang)
		filters.Language = &l
	}
	if classStr := c.Query("class"); classStr != "" {
		if class, err := strconv.Atoi(classStr); err == nil {
			filters.Class = &class
		}
	}

	// Staff may ask for retired entries too.
	if activeStr := c.Query("is_active"); activeStr != "" {
		if role, err := GetUserRoleFromContext(c); err == nil && role != models.RoleStudent {
			if active, err := strconv.ParseBool(activeStr); err == nil {
				filters.IsActive = &active
			}
		}
	}

	return filters
}
