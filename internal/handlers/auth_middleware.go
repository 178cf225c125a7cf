package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/auth"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
)

// AccessGate authenticates requests with a bearer token and loads the current
// user so handlers see fresh role and activation state, not stale claims.
type AccessGate struct {
	codec    *auth.Codec
	userRepo repositories.UserRepository
}

func NewAccessGate(codec *auth.Codec, userRepo repositories.UserRepository) *AccessGate {
	return &AccessGate{
		codec:    codec,
		userRepo: userRepo,
	}
}

// FailurePolicy decides what a failed authentication check does to the
// request.
type FailurePolicy int

const (
	// PolicyRequired rejects the request with a 401.
	PolicyRequired FailurePolicy = iota
	// PolicyOptional lets the request proceed anonymously.
	PolicyOptional
)

// AuthMiddleware returns a Gin middleware that requires a valid session token.
func (ag *AccessGate) AuthMiddleware() gin.HandlerFunc {
	return ag.Middleware(PolicyRequired)
}

// OptionalAuthMiddleware attaches user info when a valid token is present but
// never rejects the request.
func (ag *AccessGate) OptionalAuthMiddleware() gin.HandlerFunc {
	return ag.Middleware(PolicyOptional)
}

// Middleware runs the authentication checks once; the policy only decides
// whether a failure rejects the request or lets it pass anonymously.
func (ag *AccessGate) Middleware(policy FailurePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			ag.fail(c, policy, "Not authorized to access this route. Please login.")
			return
		}

		claims, err := ag.codec.Verify(token)
		if err != nil {
			ag.fail(c, policy, "Invalid or expired token")
			return
		}

		// The account behind the token must still exist and be active.
		user, err := ag.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if repositories.IsNotFound(err) {
				ag.fail(c, policy, "User no longer exists")
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error:   models.ErrorBody{Code: CodeInternal, Message: "Something went wrong"},
			})
			c.Abort()
			return
		}
		if !user.IsActive {
			ag.fail(c, policy, "Your account has been deactivated")
			return
		}

		// Handlers only ever see the credential-free view.
		c.Set("user_id", user.ID)
		c.Set("user", user.Sanitized())
		c.Set("user_role", user.Role)
		c.Set("user_email", user.Email)
		c.Set("claims", claims)

		c.Next()
	}
}

func (ag *AccessGate) fail(c *gin.Context, policy FailurePolicy, message string) {
	if policy == PolicyOptional {
		c.Next()
		return
	}
	abortUnauthorized(c, message)
}

// RequireRoleMiddleware checks if user has required role. Admins pass every
// check.
func (ag *AccessGate) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			abortForbidden(c, "user role not found in context")
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			abortForbidden(c, "invalid user role format")
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if role == requiredRole || role == models.RoleAdmin {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			abortForbidden(c, fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles))
			return
		}

		c.Next()
	}
}

// RequireSelfOrRoleMiddleware lets a caller act on their own record, matched
// against the named path parameter, and otherwise falls back to the role
// check.
func (ag *AccessGate) RequireSelfOrRoleMiddleware(param string, requiredRoles ...models.UserRole) gin.HandlerFunc {
	roleCheck := ag.RequireRoleMiddleware(requiredRoles...)
	return func(c *gin.Context) {
		if userID, err := GetUserIDFromContext(c); err == nil && userID == c.Param(param) {
			c.Next()
			return
		}
		roleCheck(c)
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error:   models.ErrorBody{Code: CodeAuthentication, Message: message},
	})
	c.Abort()
}

func abortForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, models.ErrorResponse{
		Success: false,
		Error:   models.ErrorBody{Code: CodeAuthorization, Message: message},
	})
	c.Abort()
}

// GetUserFromContext extracts user from Gin context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

// GetUserIDFromContext extracts user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRoleFromContext extracts user role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}
