package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/rbse-library/library-service/internal/auth"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/validator"
)

func newTestUserService() (UserService, *fakeUserRepository) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	userRepo := newFakeUserRepository()
	repo := &fakeRepository{userRepo: userRepo}
	return NewUserService(repo, nil, logger, validator.New(), auth.NewHasher(4)), userRepo
}

func TestUserCreate(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	user, err := service.Create(ctx, &models.RegisterRequest{
		AdmissionNumber: "RBSE-2024-100",
		Name:            "Rahul Verma",
		Email:           "rahul@example.com",
		Password:        "staff-made-1",
		Role:            models.RoleTeacher,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.Role != models.RoleTeacher {
		t.Errorf("Role = %q", user.Role)
	}
	if user.Password != "" {
		t.Error("returned user carries password hash")
	}

	if _, err := service.Create(ctx, &models.RegisterRequest{
		AdmissionNumber: "RBSE-2024-101",
		Name:            "Rahul Clone",
		Email:           "rahul@example.com",
		Password:        "staff-made-1",
		Role:            models.RoleTeacher,
	}); err != ErrDuplicateEmail {
		t.Errorf("Create() duplicate email error = %v, want ErrDuplicateEmail", err)
	}

	// Students cannot be created without a class.
	if _, err := service.Create(ctx, &models.RegisterRequest{
		AdmissionNumber: "RBSE-2024-102",
		Name:            "Anil Kumar",
		Email:           "anil@example.com",
		Password:        "staff-made-1",
		Role:            models.RoleStudent,
	}); err == nil {
		t.Error("Create() should reject a student without a class")
	}
}

func TestUserUpdateUniqueness(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	class := 9
	first, err := service.Create(ctx, &models.RegisterRequest{
		AdmissionNumber: "RBSE-2024-100",
		Name:            "Rahul Verma",
		Email:           "rahul@example.com",
		Password:        "staff-made-1",
		Class:           &class,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := service.Create(ctx, &models.RegisterRequest{
		AdmissionNumber: "RBSE-2024-101",
		Name:            "Meena Kumari",
		Email:           "meena@example.com",
		Password:        "staff-made-1",
		Class:           &class,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	takenEmail := "meena@example.com"
	if _, err := service.Update(ctx, first.ID, &models.AdminUpdateUserRequest{Email: &takenEmail}); err != ErrDuplicateEmail {
		t.Errorf("Update() error = %v, want ErrDuplicateEmail", err)
	}

	// Case does not dodge the uniqueness check.
	takenUpper := "MEENA@Example.com"
	if _, err := service.Update(ctx, first.ID, &models.AdminUpdateUserRequest{Email: &takenUpper}); err != ErrDuplicateEmail {
		t.Errorf("Update() with different case error = %v, want ErrDuplicateEmail", err)
	}

	newName := "Rahul V."
	updated, err := service.Update(ctx, first.ID, &models.AdminUpdateUserRequest{Name: &newName})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != newName {
		t.Errorf("Name = %q", updated.Name)
	}
	// Setting the same email back is not a conflict.
	sameEmail := "rahul@example.com"
	if _, err := service.Update(ctx, first.ID, &models.AdminUpdateUserRequest{Email: &sameEmail}); err != nil {
		t.Errorf("Update() with own email error = %v", err)
	}
}

func TestUserDeactivateAndActivate(t *testing.T) {
	service, userRepo := newTestUserService()
	ctx := context.Background()

	class := 9
	user, err := service.Create(ctx, &models.RegisterRequest{
		AdmissionNumber: "RBSE-2024-100",
		Name:            "Rahul Verma",
		Email:           "rahul@example.com",
		Password:        "staff-made-1",
		Class:           &class,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := service.Deactivate(ctx, user.ID, user.ID); err != ErrSelfDeactivation {
		t.Errorf("Deactivate() self error = %v, want ErrSelfDeactivation", err)
	}

	if err := service.Deactivate(ctx, "admin-1", user.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if userRepo.users[user.ID].IsActive {
		t.Error("user should be inactive")
	}

	reactivated, err := service.Activate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if !reactivated.IsActive {
		t.Error("user should be active again")
	}

	if err := service.Deactivate(ctx, "admin-1", "missing"); err != ErrUserNotFound {
		t.Errorf("Deactivate() missing error = %v, want ErrUserNotFound", err)
	}
}

func TestUserChangePassword(t *testing.T) {
	service, userRepo := newTestUserService()
	ctx := context.Background()

	class := 9
	user, err := service.Create(ctx, &models.RegisterRequest{
		AdmissionNumber: "RBSE-2024-100",
		Name:            "Rahul Verma",
		Email:           "rahul@example.com",
		Password:        "staff-made-1",
		Class:           &class,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldHash := userRepo.users[user.ID].Password

	if err := service.ChangePassword(ctx, user.ID, "short"); err == nil {
		t.Error("ChangePassword() should reject short passwords")
	}

	if err := service.ChangePassword(ctx, user.ID, "a-new-password"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if userRepo.users[user.ID].Password == oldHash {
		t.Error("password hash should change")
	}
	if err := service.ChangePassword(ctx, "missing", "a-new-password"); err != ErrUserNotFound {
		t.Errorf("ChangePassword() missing error = %v, want ErrUserNotFound", err)
	}
}
