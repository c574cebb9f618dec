// Package sessioncache shortcuts the per-request session lookup. Every
// authenticated request otherwise costs two queries (session + user);
// a short TTL keeps revocations and plan changes visible quickly.
package sessioncache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

type Cache struct {
	inner *gocache.Cache
}

func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &Cache{inner: gocache.New(defaultTTL, 5*time.Minute)}
}

func (c *Cache) Get(token string) (*domain.User, bool) {
	v, ok := c.inner.Get(token)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

func (c *Cache) Set(token string, user *domain.User, ttl time.Duration) {
	c.inner.Set(token, user, ttl)
}

func (c *Cache) Delete(token string) {
	c.inner.Delete(token)
}
