package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbse-library/library-service/internal/auth"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	hasher    *auth.Hasher
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, hasher *auth.Hasher) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		hasher:    hasher,
	}
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	for i, u := range users {
		users[i] = u.Sanitized()
	}
	return users, total, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Sanitized(), nil
}

func (s *userService) Create(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
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
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created by staff", "user_id", user.ID, "role", user.Role)
	return user.Sanitized(), nil
}

func (s *userService) Update(ctx context.Context, id string, req *models.AdminUpdateUserRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != nil {
		if email := normalizeEmail(*req.Email); email != user.Email {
			if exists, err := s.repo.User().ExistsByEmail(ctx, email); err != nil {
				return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
			} else if exists {
				return nil, ErrDuplicateEmail
			}
			user.Email = email
		}
	}
	if req.AdmissionNumber != nil && *req.AdmissionNumber != user.AdmissionNumber {
		if exists, err := s.repo.User().ExistsByAdmissionNumber(ctx, *req.AdmissionNumber); err != nil {
			return nil, fmt.Errorf("failed to check admission number uniqueness: %w", err)
		} else if exists {
			return nil, ErrDuplicateAdmissionNumber
		}
		user.AdmissionNumber = *req.AdmissionNumber
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Class != nil {
		user.Class = req.Class
	}
	if req.Section != nil {
		user.Section = *req.Section
	}
	if req.Board != nil {
		user.Board = *req.Board
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated", "user_id", user.ID)
	return user.Sanitized(), nil
}

// Deactivate disables an account. Staff cannot deactivate themselves.
func (s *userService) Deactivate(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDeactivation
	}

	if err := s.repo.User().UpdateFields(ctx, id, map[string]interface{}{"is_active": false}); err != nil {
		if repositories.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.logger.Info("user deactivated", "user_id", id, "actor_id", actorID)
	return nil
}

func (s *userService) Activate(ctx context.Context, id string) (*models.User, error) {
	if err := s.repo.User().UpdateFields(ctx, id, map[string]interface{}{"is_active": true}); err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	s.logger.Info("user activated", "user_id", id)
	return user.Sanitized(), nil
}

func (s *userService) ChangePassword(ctx context.Context, id, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidationFailed)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fields := map[string]interface{}{
		"password":              hashed,
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}
	if err := s.repo.User().UpdateFields(ctx, id, fields); err != nil {
		if repositories.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.logger.Info("password changed by staff", "user_id", id)
	return nil
}
