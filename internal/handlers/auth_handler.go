package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/services"
	"github.com/rbse-library/library-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Register creates a new account and returns a session token.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	h.LogRequest(c, "Registering user", "email", req.Email)

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, "Registration successful", models.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// Login exchanges credentials for a session token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Login successful", models.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// Me returns the authenticated user's profile.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	user, err := h.authService.GetMe(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Current user", user)
}

// ForgotPassword starts the reset flow. The response never reveals whether
// the email is registered.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "If that email is registered, you will receive a password reset link", nil)
}

// ResetPassword consumes a reset token and sets a new password.
// POST /api/v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		h.RespondError(c, http.StatusBadRequest, CodeBadRequest, "Reset token is required", nil)
		return
	}

	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	result, err := h.authService.ResetPassword(c.Request.Context(), token, req.Password)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Password reset successful", models.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// UpdatePassword changes the authenticated user's password and issues a fresh
// token.
// PUT /api/v1/auth/update-password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	var req models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	result, err := h.authService.UpdatePassword(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Password updated", models.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// Logout acknowledges the logout. Tokens are stateless, so the client discards
// its copy; nothing is revoked server side.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.RespondSuccess(c, http.StatusOK, "Logged out", nil)
}
