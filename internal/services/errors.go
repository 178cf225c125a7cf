package services

import "errors"

// Sentinel errors mapped to HTTP responses by the handlers.
var (
	// Auth
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrAccountDeactivated       = errors.New("account deactivated")
	ErrDuplicateEmail           = errors.New("email already registered")
	ErrDuplicateAdmissionNumber = errors.New("admission number already registered")
	ErrInvalidResetToken        = errors.New("invalid or expired reset token")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")

	// Users
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfDeactivation = errors.New("cannot deactivate own account")

	// Resources
	ErrResourceNotFound = errors.New("resource not found")

	// Bookmarks
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrBookmarkExists   = errors.New("bookmark already exists")
	ErrNotOwner         = errors.New("not the owner of this record")

	// Shared
	ErrValidationFailed = errors.New("validation failed")
	ErrForbidden        = errors.New("forbidden")
)
