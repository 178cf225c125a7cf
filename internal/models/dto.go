package models

import (
	"time"
)

// ===== AUTH REQUESTS =====

type RegisterRequest struct {
	AdmissionNumber string    `json:"admission_number" validate:"required,min=1,max=50"`
	Name            string    `json:"name" validate:"required,min=3,max=100"`
	Email           string    `json:"email" validate:"required,email"`
	Password        string    `json:"password" validate:"required,min=8,max=72"`
	Role            UserRole  `json:"role" validate:"omitempty,oneof=student teacher librarian admin"`
	Class           *int      `json:"class" validate:"omitempty,min=1,max=12"`
	Section         string    `json:"section" validate:"omitempty,max=10"`
	Board           string    `json:"board" validate:"omitempty,max=20"`
	Phone           string    `json:"phone" validate:"omitempty,max=20"`
	Address         string    `json:"address" validate:"omitempty,max=500"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type AdminUpdateUserRequest struct {
	AdmissionNumber *string    `json:"admission_number" validate:"omitempty,min=1,max=50"`
	Name            *string    `json:"name" validate:"omitempty,min=3,max=100"`
	Email           *string    `json:"email" validate:"omitempty,email"`
	Role            *UserRole  `json:"role" validate:"omitempty,oneof=student teacher librarian admin"`
	Class           *int       `json:"class" validate:"omitempty,min=1,max=12"`
	Section         *string    `json:"section" validate:"omitempty,max=10"`
	Board           *string    `json:"board" validate:"omitempty,max=20"`
	Phone           *string    `json:"phone" validate:"omitempty,max=20"`
	Address         *string    `json:"address" validate:"omitempty,max=500"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
}

type AdminChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AuthResponse is returned by register, login and the reset flows.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// ===== RESOURCE REQUESTS =====

type ResourceCreateRequest struct {
	Title        string           `json:"title" validate:"required,min=1,max=500"`
	Type         ResourceType     `json:"type" validate:"required,oneof=ebook pdf video audio streaming"`
	Author       string           `json:"author" validate:"omitempty,max=200"`
	Subject      string           `json:"subject" validate:"omitempty,max=100"`
	Class        *int             `json:"class" validate:"omitempty,min=1,max=12"`
	Board        string           `json:"board" validate:"omitempty,oneof=RBSE NCERT CBSE Other"`
	Language     ResourceLanguage `json:"language" validate:"required,oneof=Hindi English Sanskrit Other"`
	FileURL      string           `json:"file_url" validate:"omitempty,max=1000"`
	FileSize     int64            `json:"file_size" validate:"omitempty,min=0"`
	StreamingURL *string          `json:"streaming_url" validate:"omitempty,url"`
	ThumbnailURL *string          `json:"thumbnail_url" validate:"omitempty,url"`
	Description  string           `json:"description" validate:"omitempty,max=2000"`
	Tags         []string         `json:"tags" validate:"omitempty,max=10,dive,max=50"`
}

type ResourceUpdateRequest struct {
	Title        *string           `json:"title" validate:"omitempty,min=1,max=500"`
	Type         *ResourceType     `json:"type" validate:"omitempty,oneof=ebook pdf video audio streaming"`
	Author       *string           `json:"author" validate:"omitempty,max=200"`
	Subject      *string           `json:"subject" validate:"omitempty,max=100"`
	Class        *int              `json:"class" validate:"omitempty,min=1,max=12"`
	Board        *string           `json:"board" validate:"omitempty,oneof=RBSE NCERT CBSE Other"`
	Language     *ResourceLanguage `json:"language" validate:"omitempty,oneof=Hindi English Sanskrit Other"`
	FileURL      *string           `json:"file_url" validate:"omitempty,max=1000"`
	StreamingURL *string           `json:"streaming_url" validate:"omitempty,url"`
	ThumbnailURL *string           `json:"thumbnail_url" validate:"omitempty,url"`
	Description  *string           `json:"description" validate:"omitempty,max=2000"`
	Tags         []string          `json:"tags" validate:"omitempty,max=10,dive,max=50"`
	IsActive     *bool             `json:"is_active"`
}

type AccessRequest struct {
	Duration int `json:"duration" validate:"omitempty,min=0"`
}

// AccessResponse is the payload returned after an access is logged.
type AccessResponse struct {
	ResourceID string       `json:"resource_id"`
	FileURL    string       `json:"file_url"`
	Title      string       `json:"title"`
	Type       ResourceType `json:"type"`
}

// ===== BOOKMARK REQUESTS =====

type BookmarkCreateRequest struct {
	ResourceID string `json:"resource_id" validate:"required"`
	Notes      string `json:"notes" validate:"omitempty,max=500"`
}

type BookmarkUpdateRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// ===== PAGINATION =====

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// ===== ANALYTICS DTOS =====

type DashboardStats struct {
	TotalResources int64            `json:"total_resources"`
	TotalUsers     int64            `json:"total_users"`
	ActiveUsers    int64            `json:"active_users"`
	TotalAccess    int64            `json:"total_access"`
	TopResource    int64            `json:"top_resource"`
	ByType         map[string]int64 `json:"by_type"`
	ByClass        map[string]int64 `json:"by_class"`
	RecentAccess   []RecentAccess   `json:"recent_access"`
}

type RecentAccess struct {
	ID           string    `json:"id"`
	User         string    `json:"user"`
	Resource     string    `json:"resource"`
	ResourceType string    `json:"resource_type"`
	AccessedAt   time.Time `json:"accessed_at"`
}

type PopularResource struct {
	ResourceID  string       `json:"resource_id"`
	Title       string       `json:"title"`
	Type        ResourceType `json:"type"`
	AccessCount int64        `json:"access_count"`
}

type DailyEngagement struct {
	Date        string `json:"date"`
	AccessCount int64  `json:"access_count"`
	UniqueUsers int64  `json:"unique_users"`
}

type TopUser struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccessCount int64  `json:"access_count"`
}

// ===== RESPONSE ENVELOPES =====

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody carries the machine-readable error code alongside the message.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}
