package logic

import (
	"context"
	"sync/atomic"

	"reddit/cache"
	"reddit/logger"
	"reddit/models"
)

// recentPosts guards the recent-posts cache against refills racing with
// writes. Every write that changes a listed post bumps gen; a fill that
// started under an older gen does not survive.
type recentPosts struct {
	cache cache.RecentPosts
	gen   atomic.Uint64
}

func newRecentPosts(c cache.RecentPosts) *recentPosts {
	return &recentPosts{cache: c}
}

func (r *recentPosts) get(ctx context.Context) ([]*models.PostView, bool) {
	posts, ok, err := r.cache.Get(ctx)
	if err != nil {
		logger.Warnf("logic: read recent posts cache: %v", err)
		return nil, false
	}
	return posts, ok
}

// generation is read before loading the posts that will be passed to fill.
func (r *recentPosts) generation() uint64 {
	return r.gen.Load()
}

func (r *recentPosts) fill(ctx context.Context, gen uint64, posts []*models.PostView) {
	if r.gen.Load() != gen {
		return
	}
	if err := r.cache.Set(ctx, posts); err != nil {
		logger.Warnf("logic: fill recent posts cache: %v", err)
		return
	}
	// a write landed between the check and the Set
	if r.gen.Load() != gen {
		r.drop(ctx)
	}
}

// invalidate is called after the write it covers has been stored.
func (r *recentPosts) invalidate(ctx context.Context) {
	r.gen.Add(1)
	r.drop(ctx)
}

func (r *recentPosts) drop(ctx context.Context) {
	if err := r.cache.Invalidate(ctx); err != nil {
		logger.Warnf("logic: invalidate recent posts cache: %v", err)
	}
}
