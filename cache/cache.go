package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bluele/gcache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"reddit/logger"
	"reddit/models"
	"reddit/settings"
)

const recentPostsKey = "recent_posts"

// RecentPosts holds the newest-posts listing. Get reports a miss with
// ok=false rather than an error.
type RecentPosts interface {
	Get(ctx context.Context) (posts []*models.PostView, ok bool, err error)
	Set(ctx context.Context, posts []*models.PostView) error
	Invalidate(ctx context.Context) error
}

// New picks the implementation named by cfg.Driver. The redis client, when
// one is created, is returned so the caller can close it on shutdown.
func New(ctx context.Context, cfg settings.CacheConfig, rcfg settings.RedisConfig) (RecentPosts, *redis.Client, error) {
	switch cfg.Driver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:        rcfg.Addr,
			Password:    rcfg.Password,
			DB:          rcfg.DB,
			DialTimeout: rcfg.Timeout,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, errors.Wrapf(err, "cache: ping redis %s", rcfg.Addr)
		}
		logger.Infof("Redis connected successfully")
		return NewRedis(rdb, cfg.TTL), rdb, nil
	case "local":
		return NewLocal(cfg.Size, cfg.TTL), nil, nil
	default:
		return Nop{}, nil, nil
	}
}

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context) ([]*models.PostView, bool, error) {
	raw, err := r.rdb.Get(ctx, recentPostsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "cache: get recent posts")
	}

	var posts []*models.PostView
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false, errors.Wrap(err, "cache: decode recent posts")
	}
	return posts, true, nil
}

func (r *Redis) Set(ctx context.Context, posts []*models.PostView) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return errors.Wrap(err, "cache: encode recent posts")
	}
	return errors.Wrap(r.rdb.Set(ctx, recentPostsKey, raw, r.ttl).Err(), "cache: set recent posts")
}

func (r *Redis) Invalidate(ctx context.Context) error {
	return errors.Wrap(r.rdb.Del(ctx, recentPostsKey).Err(), "cache: invalidate recent posts")
}

// Local keeps the listing in an in-process LRU.
type Local struct {
	gc  gcache.Cache
	ttl time.Duration
}

func NewLocal(size int, ttl time.Duration) *Local {
	if size <= 0 {
		size = 1
	}
	return &Local{gc: gcache.New(size).LRU().Build(), ttl: ttl}
}

func (l *Local) Get(context.Context) ([]*models.PostView, bool, error) {
	v, err := l.gc.Get(recentPostsKey)
	if err == gcache.KeyNotFoundError {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "cache: get recent posts")
	}
	return v.([]*models.PostView), true, nil
}

func (l *Local) Set(_ context.Context, posts []*models.PostView) error {
	return l.gc.SetWithExpire(recentPostsKey, posts, l.ttl)
}

func (l *Local) Invalidate(context.Context) error {
	l.gc.Remove(recentPostsKey)
	return nil
}

// Nop never holds anything.
type Nop struct{}

func (Nop) Get(context.Context) ([]*models.PostView, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, []*models.PostView) error { return nil }
func (Nop) Invalidate(context.Context) error { return nil }
