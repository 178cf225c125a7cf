package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleTeacher   UserRole = "teacher"
	RoleLibrarian UserRole = "librarian"
	RoleAdmin     UserRole = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

// User is a library account. The password hash and reset material are never
// serialized; deactivation is the delete substitute, so there is no
// soft-delete column.
type User struct {
	ID              string   `json:"id" gorm:"primaryKey;size:36"`
	AdmissionNumber string   `json:"admission_number" gorm:"uniqueIndex;not null;size:50"`
	Name            string   `json:"name" gorm:"not null;size:100"`
	Email           string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password        string   `json:"-" gorm:"not null;size:100"`
	Role            UserRole `json:"role" gorm:"not null;default:student;size:20;index:idx_users_role_class,priority:1"`

	// Profile info
	Class        *int       `json:"class,omitempty" gorm:"index:idx_users_role_class,priority:2"`
	Section      string     `json:"section,omitempty" gorm:"size:10"`
	Board        string     `json:"board" gorm:"default:RBSE;size:20"`
	Phone        string     `json:"phone,omitempty" gorm:"size:20"`
	Address      string     `json:"address,omitempty" gorm:"size:500"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	ProfileImage *string    `json:"profile_image"`

	// Status
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	LastLogin *time.Time `json:"last_login"`

	// Reset material, present only while a password reset is in flight.
	ResetPasswordToken  *string    `json:"-" gorm:"size:64"`
	ResetPasswordExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Sanitized returns a copy safe to hand to clients.
func (u *User) Sanitized() *User {
	out := *u
	out.Password = ""
	out.ResetPasswordToken = nil
	out.ResetPasswordExpire = nil
	return &out
}

// IsStaff reports whether the user holds an elevated role.
func (u *User) IsStaff() bool {
	return u.Role == RoleTeacher || u.Role == RoleLibrarian || u.Role == RoleAdmin
}
