package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fomongole/User-Management-Api/internal/cache"
	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
	"github.com/fomongole/User-Management-Api/internal/model"
	"github.com/fomongole/User-Management-Api/internal/testutil"
)

func seedUser(repo *testutil.MemoryUserRepository, id, email string, role model.Role) {
	repo.Put(model.User{ID: id, Name: "N", Email: email, PasswordHash: "$2a$10$hash", Role: role, IsVerified: true})
}

func TestResolve_MissPopulatesThenHitSkipsStore(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	mc := testutil.NewMemoryCache()
	seedUser(repo, "u-1", "a@x.com", model.RoleUser)
	uc := NewUserCache(repo, mc, time.Hour, quietLogger())
	ctx := context.Background()

	first, err := uc.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", first.Email)
	assert.Equal(t, 1, repo.FindByIDCalls)
	assert.Equal(t, time.Hour, mc.TTLs["user:u-1"])

	raw, _ := mc.Get(ctx, "user:u-1")
	assert.NotContains(t, string(raw), "$2a$10$hash")

	second, err := uc.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.FindByIDCalls)
}

func TestResolve_NotFound(t *testing.T) {
	uc := NewUserCache(testutil.NewMemoryUserRepository(), testutil.NewMemoryCache(), 0, quietLogger())

	_, err := uc.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestResolve_CorruptEntryFallsBackToStore(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	mc := testutil.NewMemoryCache()
	seedUser(repo, "u-1", "a@x.com", model.RoleUser)
	require.NoError(t, mc.Set(context.Background(), "user:u-1", []byte("{not json"), time.Hour))
	uc := NewUserCache(repo, mc, time.Hour, quietLogger())

	u, err := uc.Resolve(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, 1, repo.FindByIDCalls)
}

func TestResolve_FailsOpenWhenRedisIsDown(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	seedUser(repo, "u-1", "a@x.com", model.RoleAdmin)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	uc := NewUserCache(repo, cache.NewWithClient(rdb, quietLogger()), time.Hour, quietLogger())

	u, err := uc.Resolve(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	uc.Invalidate(context.Background(), "u-1")
}

func TestInvalidate_Idempotent(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	mc := testutil.NewMemoryCache()
	seedUser(repo, "u-1", "a@x.com", model.RoleUser)
	uc := NewUserCache(repo, mc, time.Hour, quietLogger())
	ctx := context.Background()

	_, err := uc.Resolve(ctx, "u-1")
	require.NoError(t, err)
	require.True(t, mc.Has("user:u-1"))

	uc.Invalidate(ctx, "u-1")
	uc.Invalidate(ctx, "u-1")
	assert.False(t, mc.Has("user:u-1"))
}
