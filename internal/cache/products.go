// Package cache holds the optional Redis read-through cache for the public
// product listing. Every method is safe to call on a nil *Listing, which is
// how the rest of the code runs when Redis is not configured; cache failures
// are logged and the caller falls through to the database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const listingKeyPrefix = "products:index:"

// Listing caches serialized product-listing pages keyed by page and limit.
type Listing struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListing creates a listing cache on top of an already-connected client.
func NewListing(client *redis.Client, ttl time.Duration) *Listing {
	return &Listing{client: client, ttl: ttl}
}

func listingKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", listingKeyPrefix, page, limit)
}

// Get returns the cached payload for a page, if present.
func (c *Listing) Get(ctx context.Context, page, limit int) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, listingKey(page, limit)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("listing cache get", "error", err)
		}
		return nil, false
	}
	return payload, true
}

// Set stores the serialized payload for a page.
func (c *Listing) Set(ctx context.Context, page, limit int, payload []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, listingKey(page, limit), payload, c.ttl).Err(); err != nil {
		slog.Warn("listing cache set", "error", err)
	}
}

// Invalidate drops every cached listing page. Called after any product write.
func (c *Listing) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, listingKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("listing cache scan", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("listing cache invalidate", "error", err)
	}
}
