package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/auth"
	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetByAdmissionNumber(ctx context.Context, n string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *models.User) error { return nil }

func (f *fakeUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) ExistsByAdmissionNumber(ctx context.Context, n string) (bool, error) {
	return false, nil
}

func newGateRouter(t *testing.T) (*gin.Engine, *auth.Codec, *fakeUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := auth.NewCodec("test-secret", "library-service", time.Hour, 24*time.Hour)
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u-1": {ID: "u-1", Email: "asha@school.edu", Role: models.RoleStudent, IsActive: true, Password: "$2a$10$hash"},
		"u-2": {ID: "u-2", Email: "gone@school.edu", Role: models.RoleLibrarian, IsActive: false},
	}}
	gate := NewAccessGate(codec, repo)

	router := gin.New()
	router.GET("/protected", gate.AuthMiddleware(), func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	router.GET("/whoami", gate.AuthMiddleware(), func(c *gin.Context) {
		user, _ := GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"has_password": user.Password != ""})
	})
	router.GET("/staff", gate.AuthMiddleware(), gate.RequireRoleMiddleware(models.RoleLibrarian), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, codec, repo
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error.Message
}

func TestAuthMiddleware(t *testing.T) {
	router, codec, repo := newGateRouter(t)

	token, err := codec.Issue(auth.Claims{UserID: "u-1", Email: "asha@school.edu", Role: "student"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(router, "/protected", token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "/protected", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if msg := errorMessage(t, w); msg != "Not authorized to access this route. Please login." {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(router, "/protected", "not-a-token")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if msg := errorMessage(t, w); msg != "Invalid or expired token" {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("user deleted after issue", func(t *testing.T) {
		ghost, err := codec.Issue(auth.Claims{UserID: "u-404", Email: "ghost@school.edu", Role: "student"})
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		w := doRequest(router, "/protected", ghost)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if msg := errorMessage(t, w); msg != "User no longer exists" {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		deactivated, err := codec.Issue(auth.Claims{UserID: "u-2", Email: "gone@school.edu", Role: "librarian"})
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		w := doRequest(router, "/protected", deactivated)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if msg := errorMessage(t, w); msg != "Your account has been deactivated" {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("context user carries no password hash", func(t *testing.T) {
		w := doRequest(router, "/whoami", token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}
		var resp struct {
			HasPassword bool `json:"has_password"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.HasPassword {
			t.Error("attached user should be password-stripped")
		}
	})

	t.Run("role enforcement", func(t *testing.T) {
		w := doRequest(router, "/staff", token)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("admin passes every role check", func(t *testing.T) {
		repo.users["u-3"] = &models.User{ID: "u-3", Email: "admin@school.edu", Role: models.RoleAdmin, IsActive: true}
		adminToken, err := codec.Issue(auth.Claims{UserID: "u-3", Email: "admin@school.edu", Role: "admin"})
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		w := doRequest(router, "/staff", adminToken)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})
}
