package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/services"
	"github.com/rbse-library/library-service/internal/utils"
	"github.com/rbse-library/library-service/internal/validator"
)

// Machine-readable error codes carried in the error envelope.
const (
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeDuplicate      = "DUPLICATE_ERROR"
	CodeValidation     = "VALIDATION_ERROR"
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeNotFound       = "NOT_FOUND"
	CodeBadRequest     = "BAD_REQUEST"
	CodeRateLimit      = "RATE_LIMIT_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// BaseHandler provides logging and response helpers shared by all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context()).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c.Request.Context()).Error(msg, args...)
}

// RespondSuccess writes the uniform success envelope.
func (h *BaseHandler) RespondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the uniform error envelope.
func (h *BaseHandler) RespondError(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// RespondBindError handles JSON binding failures uniformly.
func (h *BaseHandler) RespondBindError(c *gin.Context, err error) {
	h.RespondError(c, http.StatusBadRequest, CodeBadRequest, "Invalid request body", err.Error())
}

// HandleServiceError maps service sentinel errors to HTTP status codes and
// stable error codes. Unknown errors become a 500 without leaking internals.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.RespondError(c, http.StatusBadRequest, CodeValidation, "Validation failed", validationErrs)
		return
	}

	switch {
	case errors.Is(err, services.ErrValidationFailed):
		h.RespondError(c, http.StatusBadRequest, CodeValidation, "Validation failed", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Invalid email or password", nil)
	case errors.Is(err, services.ErrAccountDeactivated):
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Your account has been deactivated", nil)
	case errors.Is(err, services.ErrCurrentPasswordIncorrect):
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Current password is incorrect", nil)
	case errors.Is(err, services.ErrDuplicateEmail):
		h.RespondError(c, http.StatusBadRequest, CodeDuplicate, "Email already registered", nil)
	case errors.Is(err, services.ErrDuplicateAdmissionNumber):
		h.RespondError(c, http.StatusBadRequest, CodeDuplicate, "Admission number already registered", nil)
	case errors.Is(err, services.ErrBookmarkExists):
		h.RespondError(c, http.StatusBadRequest, CodeDuplicate, "Resource already bookmarked", nil)
	case errors.Is(err, services.ErrInvalidResetToken):
		h.RespondError(c, http.StatusBadRequest, CodeInvalidToken, "Invalid or expired reset token", nil)
	case errors.Is(err, services.ErrSelfDeactivation):
		h.RespondError(c, http.StatusBadRequest, CodeBadRequest, "You cannot deactivate yourself", nil)
	case errors.Is(err, services.ErrUserNotFound):
		h.RespondError(c, http.StatusNotFound, CodeNotFound, "User not found", nil)
	case errors.Is(err, services.ErrResourceNotFound):
		h.RespondError(c, http.StatusNotFound, CodeNotFound, "Resource not found", nil)
	case errors.Is(err, services.ErrBookmarkNotFound):
		h.RespondError(c, http.StatusNotFound, CodeNotFound, "Bookmark not found", nil)
	case errors.Is(err, services.ErrNotOwner), errors.Is(err, services.ErrForbidden):
		h.RespondError(c, http.StatusForbidden, CodeAuthorization, "You do not have permission to perform this action", nil)
	default:
		h.LogError(c, err, "Unhandled service error")
		h.RespondError(c, http.StatusInternalServerError, CodeInternal, "Something went wrong", nil)
	}
}
