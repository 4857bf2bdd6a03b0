package redis

import (
	"context"
	"testing"
	"time"

	"mock-interview-service/internal/bank"
	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(bank.DefaultCatalog())}
	repo := NewCatalogRepository(client, loader, time.Minute)

	catalog, err := repo.GetCatalog(context.Background(), bank.DefaultCatalogID)
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(catalog.Questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(catalog.Questions))
	}
	if !mr.Exists("catalog:communication:questions") {
		t.Fatalf("expected questions hash to be written")
	}
	if ttl := mr.TTL("catalog:communication:questions"); ttl < time.Minute {
		t.Fatalf("expected ttl with jitter, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetCatalog(context.Background(), bank.DefaultCatalogID)
	if err != nil {
		t.Fatalf("get cached catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	for i, q := range cached.Questions {
		want := bank.DefaultCatalog().Questions[i]
		if q != want {
			t.Fatalf("cached question %d = %+v, want %+v", i, q, want)
		}
	}
}

func TestCatalogRepositoryMissingCatalog(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewCatalogRepository(newClient(mr), memory.NewStaticCatalogLoader(), time.Minute)
	if _, err := repo.GetCatalog(context.Background(), "missing"); err != domain.ErrCatalogNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx, catalogID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
