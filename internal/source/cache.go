package source

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hongminglow/lendsqr-admin/internal/models"
)

// Ensure Cache can stand in for the client it wraps.
var _ Fetcher = (*Cache)(nil)

// Cache keeps the last successful list for a fixed TTL so that paging through
// a list does not refetch it. Failures are returned as-is and never cached.
// Concurrent misses share one upstream request, and the lock is never held
// across it.
type Cache struct {
	next  Fetcher
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu        sync.Mutex
	users     []models.User
	fetchedAt time.Time
	valid     bool
}

// NewCache wraps next. A non-positive ttl disables caching.
func NewCache(next Fetcher, ttl time.Duration) *Cache {
	return &Cache{next: next, ttl: ttl, now: time.Now}
}

// FetchUsers returns a copy of the cached list or fetches a fresh one.
func (c *Cache) FetchUsers(ctx context.Context) ([]models.User, error) {
	if c.ttl <= 0 {
		return c.next.FetchUsers(ctx)
	}

	c.mu.Lock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		users := clone(c.users)
		c.mu.Unlock()
		return users, nil
	}
	c.mu.Unlock()

	// Waiters share this request, so it outlives the caller that started it.
	// The client timeout still bounds it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do("users", func() (any, error) {
		users, err := c.next.FetchUsers(shared)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.valid = false
			c.users = nil
			return nil, err
		}
		c.users = users
		c.fetchedAt = c.now()
		c.valid = true
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]models.User)), nil
}

// Invalidate drops the cached list.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.users = nil
	c.mu.Unlock()
}

func clone(users []models.User) []models.User {
	out := make([]models.User, len(users))
	copy(out, users)
	return out
}
