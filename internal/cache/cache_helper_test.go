package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, prefix), mr
}

type cachedResource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestCacheHelperSetGet(t *testing.T) {
	helper, _ := newTestHelper(t, "resource:")
	ctx := context.Background()

	want := cachedResource{ID: "r-1", Title: "Ganit Class 10"}
	if err := helper.Set(ctx, "id:r-1", want, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got cachedResource
	if err := helper.Get(ctx, "id:r-1", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCacheHelperGetMissing(t *testing.T) {
	helper, _ := newTestHelper(t, "resource:")

	var dest cachedResource
	if err := helper.Get(context.Background(), "id:missing", &dest); err != ErrCacheNotFound {
		t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelperNilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "resource:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:r-1", "x", time.Minute); err != nil {
		t.Errorf("Set() with nil client error = %v, want nil", err)
	}

	var dest string
	if err := helper.Get(ctx, "id:r-1", &dest); err != ErrCacheNotAvailable {
		t.Errorf("Get() with nil client error = %v, want ErrCacheNotAvailable", err)
	}

	if err := helper.Delete(ctx, "id:r-1"); err != nil {
		t.Errorf("Delete() with nil client error = %v, want nil", err)
	}
}

func TestCacheHelperDelete(t *testing.T) {
	helper, _ := newTestHelper(t, "resource:")
	ctx := context.Background()

	for _, key := range []string{"id:a", "id:b"} {
		if err := helper.Set(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := helper.Delete(ctx, "id:a", "id:b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	exists, err := helper.Exists(ctx, "id:a")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true after delete")
	}
}

func TestCacheHelperInvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t, "resource:")
	ctx := context.Background()

	if err := helper.Set(ctx, "list:page1", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := helper.Set(ctx, "list:page2", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := helper.Set(ctx, "id:r-1", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}

	if exists, _ := helper.Exists(ctx, "list:page1"); exists {
		t.Error("list:page1 still exists after invalidation")
	}
	if exists, _ := helper.Exists(ctx, "id:r-1"); !exists {
		t.Error("id:r-1 was removed by unrelated invalidation")
	}
}

func TestCacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t, "resource:")
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedResource{ID: "r-1", Title: "Vigyan Class 9"}, nil
	}

	var first cachedResource
	if err := helper.CacheOrExecute(ctx, "id:r-1", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	if first.Title != "Vigyan Class 9" {
		t.Errorf("Title = %q", first.Title)
	}

	// The async write may lag the return; poll briefly before the cached read.
	deadline := time.Now().Add(time.Second)
	for {
		if exists, _ := helper.Exists(ctx, "id:r-1"); exists || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	var second cachedResource
	if err := helper.CacheOrExecute(ctx, "id:r-1", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() second call error = %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch calls after cached read = %d, want 1", calls)
	}
}
