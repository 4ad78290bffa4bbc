package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit/models"
)

func samplePosts() []*models.PostView {
	return []*models.PostView{
		{Post: models.Post{Title: "first"}, Author: &models.AuthorSummary{Username: "a"}},
		{Post: models.Post{Title: "second"}},
	}
}

func exercise(t *testing.T, c RecentPosts) {
	ctx := context.Background()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, samplePosts()))
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "a", got[0].Author.Username)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal(t *testing.T) {
	exercise(t, NewLocal(4, time.Minute))
}

func TestLocalExpires(t *testing.T) {
	c := NewLocal(4, 20*time.Millisecond)
	require.NoError(t, c.Set(context.Background(), samplePosts()))
	time.Sleep(50 * time.Millisecond)

	_, ok, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNop(t *testing.T) {
	c := Nop{}
	require.NoError(t, c.Set(context.Background(), samplePosts()))
	_, ok, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Skipping test - no Redis connection configured")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	exercise(t, NewRedis(rdb, time.Minute))
}
