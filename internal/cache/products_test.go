package cache_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"doemais/internal/cache"
)

func newTestListing(t *testing.T) (*cache.Listing, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewListing(client, 30*time.Second), s
}

func TestListing_GetSet(t *testing.T) {
	listing, _ := newTestListing(t)
	ctx := t.Context()

	if _, ok := listing.Get(ctx, 1, 10); ok {
		t.Fatal("expected cache miss on empty cache")
	}

	payload := []byte(`{"products":[]}`)
	listing.Set(ctx, 1, 10, payload)

	got, ok := listing.Get(ctx, 1, 10)
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("unexpected payload %q", got)
	}

	// Pages are cached independently.
	if _, ok := listing.Get(ctx, 2, 10); ok {
		t.Fatal("expected miss for a different page")
	}
	if _, ok := listing.Get(ctx, 1, 20); ok {
		t.Fatal("expected miss for a different limit")
	}
}

func TestListing_TTL(t *testing.T) {
	listing, s := newTestListing(t)
	ctx := t.Context()

	listing.Set(ctx, 1, 10, []byte("payload"))

	s.FastForward(31 * time.Second)
	if _, ok := listing.Get(ctx, 1, 10); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestListing_Invalidate(t *testing.T) {
	listing, s := newTestListing(t)
	ctx := t.Context()

	listing.Set(ctx, 1, 10, []byte("page-1"))
	listing.Set(ctx, 2, 10, []byte("page-2"))
	// An unrelated key must survive the invalidation.
	s.Set("session:abc", "keep")

	listing.Invalidate(ctx)

	if _, ok := listing.Get(ctx, 1, 10); ok {
		t.Fatal("expected page 1 to be dropped")
	}
	if _, ok := listing.Get(ctx, 2, 10); ok {
		t.Fatal("expected page 2 to be dropped")
	}
	if got, err := s.Get("session:abc"); err != nil || got != "keep" {
		t.Fatalf("unrelated key was touched: %q %v", got, err)
	}
}

func TestListing_NilSafe(t *testing.T) {
	var listing *cache.Listing
	ctx := t.Context()

	// All operations are no-ops on a nil cache.
	if _, ok := listing.Get(ctx, 1, 10); ok {
		t.Fatal("nil cache must always miss")
	}
	listing.Set(ctx, 1, 10, []byte("payload"))
	listing.Invalidate(ctx)
}
