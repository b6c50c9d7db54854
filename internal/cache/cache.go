// Package cache is the balance read cache. Every committed balance
// mutation must delete the affected account keys synchronously so a later
// transfer decision never sees a stale balance.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Cache interface {
	// Get unmarshals the cached value into dest and reports whether the
	// key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func AccountKey(id uuid.UUID) string {
	return "account:balance:" + id.String()
}
