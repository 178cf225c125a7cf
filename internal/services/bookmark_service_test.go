package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/validator"
)

type fakeResourceRepository struct {
	resources map[string]*models.Resource
}

func (f *fakeResourceRepository) Create(ctx context.Context, r *models.Resource) error {
	f.resources[r.ID] = r
	return nil
}

func (f *fakeResourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r, nil
}

func (f *fakeResourceRepository) List(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Resource, int64, error) {
	return nil, 0, nil
}

func (f *fakeResourceRepository) Update(ctx context.Context, r *models.Resource) error {
	f.resources[r.ID] = r
	return nil
}

func (f *fakeResourceRepository) Delete(ctx context.Context, id string) error {
	if _, ok := f.resources[id]; !ok {
		return repositories.ErrNotFound
	}
	f.resources[id].IsActive = false
	return nil
}

func (f *fakeResourceRepository) IncrementAccessCount(ctx context.Context, id string) error {
	if r, ok := f.resources[id]; ok {
		r.AccessCount++
	}
	return nil
}

func (f *fakeResourceRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r, ok := f.resources[id]
	return ok && r.IsActive, nil
}

type fakeBookmarkRepository struct {
	bookmarks map[string]*models.Bookmark
}

func (f *fakeBookmarkRepository) Create(ctx context.Context, b *models.Bookmark) error {
	for _, existing := range f.bookmarks {
		if existing.UserID == b.UserID && existing.ResourceID == b.ResourceID {
			return repositories.ErrDuplicateKey
		}
	}
	f.bookmarks[b.ID] = b
	return nil
}

func (f *fakeBookmarkRepository) GetByID(ctx context.Context, id string) (*models.Bookmark, error) {
	b, ok := f.bookmarks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookmarkRepository) GetByUserAndResource(ctx context.Context, userID, resourceID string) (*models.Bookmark, error) {
	for _, b := range f.bookmarks {
		if b.UserID == userID && b.ResourceID == resourceID {
			return b, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeBookmarkRepository) ListByUser(ctx context.Context, userID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, int64, error) {
	var out []*models.Bookmark
	for _, b := range f.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookmarkRepository) Update(ctx context.Context, b *models.Bookmark) error {
	f.bookmarks[b.ID] = b
	return nil
}

func (f *fakeBookmarkRepository) Delete(ctx context.Context, id string) error {
	if _, ok := f.bookmarks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.bookmarks, id)
	return nil
}

type fakeBookmarkRepo struct {
	fakeRepository
	resourceRepo *fakeResourceRepository
	bookmarkRepo *fakeBookmarkRepository
}

func (f *fakeBookmarkRepo) Resource() repositories.ResourceRepository { return f.resourceRepo }
func (f *fakeBookmarkRepo) Bookmark() repositories.BookmarkRepository { return f.bookmarkRepo }

func newTestBookmarkService() (BookmarkService, *fakeBookmarkRepo) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := &fakeBookmarkRepo{
		resourceRepo: &fakeResourceRepository{resources: map[string]*models.Resource{
			"r-1": {ID: "r-1", Title: "Hindi Vyakaran", Type: models.ResourcePDF, IsActive: true},
			"r-2": {ID: "r-2", Title: "Old Syllabus", Type: models.ResourcePDF, IsActive: false},
		}},
		bookmarkRepo: &fakeBookmarkRepository{bookmarks: map[string]*models.Bookmark{}},
	}
	return NewBookmarkService(repo, nil, logger, validator.New()), repo
}

func TestBookmarkCreate(t *testing.T) {
	service, _ := newTestBookmarkService()
	ctx := context.Background()

	bookmark, err := service.Create(ctx, "u-1", &models.BookmarkCreateRequest{ResourceID: "r-1", Notes: "chapter 4"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if bookmark.UserID != "u-1" || bookmark.ResourceID != "r-1" {
		t.Errorf("bookmark = %+v", bookmark)
	}

	if _, err := service.Create(ctx, "u-1", &models.BookmarkCreateRequest{ResourceID: "r-1"}); err != ErrBookmarkExists {
		t.Errorf("Create() duplicate error = %v, want ErrBookmarkExists", err)
	}

	if _, err := service.Create(ctx, "u-1", &models.BookmarkCreateRequest{ResourceID: "missing"}); err != ErrResourceNotFound {
		t.Errorf("Create() missing resource error = %v, want ErrResourceNotFound", err)
	}

	// Inactive resources cannot be bookmarked.
	if _, err := service.Create(ctx, "u-1", &models.BookmarkCreateRequest{ResourceID: "r-2"}); err != ErrResourceNotFound {
		t.Errorf("Create() inactive resource error = %v, want ErrResourceNotFound", err)
	}
}

func TestBookmarkOwnership(t *testing.T) {
	service, _ := newTestBookmarkService()
	ctx := context.Background()

	bookmark, err := service.Create(ctx, "u-1", &models.BookmarkCreateRequest{ResourceID: "r-1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := service.Update(ctx, "u-2", bookmark.ID, &models.BookmarkUpdateRequest{Notes: "stolen"}); err != ErrNotOwner {
		t.Errorf("Update() by non-owner error = %v, want ErrNotOwner", err)
	}
	if err := service.Delete(ctx, "u-2", bookmark.ID); err != ErrNotOwner {
		t.Errorf("Delete() by non-owner error = %v, want ErrNotOwner", err)
	}

	updated, err := service.Update(ctx, "u-1", bookmark.ID, &models.BookmarkUpdateRequest{Notes: "revise before exam"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Notes != "revise before exam" {
		t.Errorf("Notes = %q", updated.Notes)
	}

	if err := service.Delete(ctx, "u-1", bookmark.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := service.Delete(ctx, "u-1", bookmark.ID); err != ErrBookmarkNotFound {
		t.Errorf("Delete() twice error = %v, want ErrBookmarkNotFound", err)
	}
}
