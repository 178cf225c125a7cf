package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/auth"
	"github.com/rbse-library/library-service/internal/events"
	"github.com/rbse-library/library-service/internal/mailer"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/validator"
)

const resetTokenTTL = time.Hour

// normalizeEmail lowercases the address so email uniqueness and lookups are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator

	codec     *auth.Codec
	hasher    *auth.Hasher
	publisher events.Publisher

	frontendURL string
}

func NewAuthService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
	codec *auth.Codec,
	hasher *auth.Hasher,
	publisher events.Publisher,
	frontendURL string,
) AuthService {
	return &authService{
		repo:        repo,
		db:          db,
		logger:      logger,
		validator:   validator,
		codec:       codec,
		hasher:      hasher,
		publisher:   publisher,
		frontendURL: frontendURL,
	}
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role == models.RoleStudent && req.Class == nil {
		return nil, fmt.Errorf("%w: class is required for students", ErrValidationFailed)
	}

	email := normalizeEmail(req.Email)
	if exists, err := s.repo.User().ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	} else if exists {
		return nil, ErrDuplicateEmail
	}

	if exists, err := s.repo.User().ExistsByAdmissionNumber(ctx, req.AdmissionNumber); err != nil {
		return nil, fmt.Errorf("failed to check admission number uniqueness: %w", err)
	} else if exists {
		return nil, ErrDuplicateAdmissionNumber
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	board := req.Board
	if board == "" {
		board = "RBSE"
	}

	now := time.Now()
	user := &models.User{
		ID:              uuid.New().String(),
		AdmissionNumber: req.AdmissionNumber,
		Name:            req.Name,
		Email:           email,
		Password:        hashed,
		Role:            role,
		Class:           req.Class,
		Section:         req.Section,
		Board:           board,
		Phone:           req.Phone,
		Address:         req.Address,
		DateOfBirth:     req.DateOfBirth,
		IsActive:        true,
		LastLogin:       &now,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publishEmail(ctx, events.EventUserRegistered, mailer.EmailRequest{
		To:       user.Email,
		Name:     user.Name,
		Template: mailer.TemplateWelcome,
	})

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &AuthResult{Token: token, User: user.Sanitized()}, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	user, err := s.repo.User().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.User().UpdateFields(ctx, user.ID, map[string]interface{}{"last_login": now}); err != nil {
		// Login still succeeds if the timestamp write fails.
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: user.Sanitized()}, nil
}

func (s *authService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Sanitized(), nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID string, req *models.UpdatePasswordRequest) (*AuthResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Compare(user.Password, req.CurrentPassword) {
		return nil, ErrCurrentPasswordIncorrect
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdateFields(ctx, user.ID, map[string]interface{}{"password": hashed}); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("password updated", "user_id", user.ID)
	return &AuthResult{Token: token, User: user.Sanitized()}, nil
}

// ForgotPassword always reports success to the caller so that the endpoint
// does not reveal whether an email is registered.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.User().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil
	}

	raw, hash, err := auth.NewResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expire := time.Now().Add(resetTokenTTL)
	if err := s.repo.User().UpdateFields(ctx, user.ID, map[string]interface{}{
		"reset_password_token":  hash,
		"reset_password_expire": expire,
	}); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.publishEmail(ctx, events.EventUserPasswordReset, mailer.EmailRequest{
		To:       user.Email,
		Name:     user.Name,
		Template: mailer.TemplatePasswordReset,
		ResetURL: fmt.Sprintf("%s/reset-password/%s", s.frontendURL, raw),
	})

	s.logger.Info("password reset requested", "user_id", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, rawToken, newPassword string) (*AuthResult, error) {
	if len(newPassword) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidationFailed)
	}

	hash := auth.HashResetToken(rawToken)
	user, err := s.repo.User().GetByResetTokenHash(ctx, hash)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdateFields(ctx, user.ID, map[string]interface{}{
		"password":              hashed,
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}); err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	return &AuthResult{Token: token, User: user.Sanitized()}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	token, err := s.codec.Issue(auth.Claims{
		UserID:          user.ID,
		Email:           user.Email,
		Role:            string(user.Role),
		AdmissionNumber: user.AdmissionNumber,
		Board:           user.Board,
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// publishEmail queues an email event. Failures are logged only; mail must
// never block or fail the request.
func (s *authService) publishEmail(ctx context.Context, eventType string, req mailer.EmailRequest) {
	event := events.NewEvent(eventType, req)
	if err := s.publisher.Publish(ctx, events.TopicEmails, event); err != nil {
		s.logger.Error("failed to queue email event", "type", eventType, "error", err)
	}
}
