package ratestore

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// cached wraps a backend with an in-memory read-through cache so
// repeated lookups for the same date hit the backend at most once per
// process. Historical rates never change, so entries do not expire.
type cached struct {
	inner Store
	mem   *gocache.Cache
}

// Cached wraps a backend with the in-memory cache layer.
func Cached(inner Store) Store {
	return &cached{
		inner: inner,
		mem:   gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *cached) Get(ctx context.Context, day string) (Record, bool, error) {
	if v, ok := c.mem.Get(day); ok {
		return v.(Record), true, nil
	}
	rec, ok, err := c.inner.Get(ctx, day)
	if err != nil || !ok {
		return nil, false, err
	}
	c.mem.Set(day, rec, gocache.NoExpiration)
	return rec, true, nil
}

func (c *cached) Put(ctx context.Context, day string, rec Record) error {
	if err := c.inner.Put(ctx, day, rec); err != nil {
		return err
	}
	c.mem.Set(day, rec, gocache.NoExpiration)
	return nil
}
