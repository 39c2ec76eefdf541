package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
	"github.com/fomongole/User-Management-Api/internal/model"
	"github.com/fomongole/User-Management-Api/internal/repository"
)

// DefaultUserCacheTTL bounds how long a resolved identity may be served from cache.
const DefaultUserCacheTTL = time.Hour

// Cache is the key/value backend behind UserCache. Implementations fail open:
// a backend error is reported as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UserCache resolves user ids to their safe projection, cache-aside.
type UserCache struct {
	repo  repository.UserRepository
	cache Cache
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewUserCache caches repo lookups in cache for ttl.
func NewUserCache(repo repository.UserRepository, cache Cache, ttl time.Duration, log logrus.FieldLogger) *UserCache {
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &UserCache{repo: repo, cache: cache, ttl: ttl, log: log.WithField("component", "user_cache")}
}

func cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// Resolve returns the user from cache, or loads and caches it on a miss.
// A user missing from the store yields ErrUserNotFound.
func (c *UserCache) Resolve(ctx context.Context, id string) (*model.SafeUser, error) {
	key := cacheKey(id)
	if data, _ := c.cache.Get(ctx, key); data != nil {
		var cached model.SafeUser
		if err := json.Unmarshal(data, &cached); err == nil && cached.ID == id {
			return &cached, nil
		}
		c.log.WithField("key", key).Warn("discarding unreadable cache entry")
	}

	user, err := c.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	safe := user.Safe()
	if payload, err := json.Marshal(safe); err == nil {
		_ = c.cache.Set(ctx, key, payload, c.ttl)
	}
	return &safe, nil
}

// Invalidate drops the cached entry for id. Missing keys are not an error.
func (c *UserCache) Invalidate(ctx context.Context, id string) {
	if err := c.cache.Delete(ctx, cacheKey(id)); err != nil {
		c.log.WithError(err).WithField("user_id", id).Warn("cache invalidation failed")
	}
}
