package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/services"
	"github.com/rbse-library/library-service/internal/utils"
)

type BookmarkHandler struct {
	BaseHandler
	bookmarkService services.BookmarkService
}

func NewBookmarkHandler(bookmarkService services.BookmarkService, logger utils.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		BaseHandler:     NewBaseHandler(logger),
		bookmarkService: bookmarkService,
	}
}

// ListBookmarks lists the authenticated user's bookmarks.
// GET /api/v1/bookmarks
func (h *BookmarkHandler) ListBookmarks(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	page, limit := parsePagination(c)
	filters := repositories.BookmarkFilters{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	bookmarks, total, err := h.bookmarkService.ListByUser(c.Request.Context(), userID, filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Bookmarks", gin.H{
		"bookmarks":  bookmarks,
		"pagination": buildPagination(total, page, limit),
	})
}

// CreateBookmark bookmarks a resource for the authenticated user.
// POST /api/v1/bookmarks
func (h *BookmarkHandler) CreateBookmark(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	var req models.BookmarkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	h.LogRequest(c, "Creating bookmark", "resource_id", req.ResourceID)

	bookmark, err := h.bookmarkService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, "Bookmark created", bookmark)
}

// UpdateBookmark edits the notes on a bookmark the user owns.
// PUT /api/v1/bookmarks/:id
func (h *BookmarkHandler) UpdateBookmark(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	var req models.BookmarkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	bookmark, err := h.bookmarkService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Bookmark updated", bookmark)
}

// DeleteBookmark removes a bookmark the user owns.
// DELETE /api/v1/bookmarks/:id
func (h *BookmarkHandler) DeleteBookmark(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	if err := h.bookmarkService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Bookmark deleted", nil)
}
