package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	prev := GetClient()
	SetClient(rdb)
	t.Cleanup(func() { SetClient(prev) })

	return mr
}

func TestKeyFormats(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "user:123456789", UserKey("123456789"))
	assert.Equal(t, "posts:owner:123456789", OwnerPostsKey("123456789"))
	assert.Equal(t, "posts:open", OpenPostsKey)
}

func TestGetSetJSON_RoundTrip(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}

	SetJSON(ctx, "k", payload{Name: "duo queue"}, time.Minute)

	var got payload
	ok := GetJSON(ctx, "k", &got)
	assert.True(t, ok)
	assert.Equal(t, "duo queue", got.Name)
}

func TestGetJSON_MissReturnsFalse(t *testing.T) {
	setupMiniredis(t)

	var got map[string]string
	assert.False(t, GetJSON(context.Background(), "absent", &got))
}

func TestGetJSON_CorruptEntryEvicted(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("bad", "{not json"))

	var got map[string]string
	assert.False(t, GetJSON(ctx, "bad", &got))
	assert.False(t, mr.Exists("bad"))
}

func TestGetJSON_NilClientFailsSoft(t *testing.T) {
	prev := GetClient()
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })

	var got map[string]string
	assert.False(t, GetJSON(context.Background(), "k", &got))
	SetJSON(context.Background(), "k", got, time.Minute) // must not panic
}

func TestInvalidateListings(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(OpenPostsKey, "[]"))
	require.NoError(t, mr.Set(OwnerPostsKey("42"), "[]"))

	InvalidateListings(ctx, "42")

	assert.False(t, mr.Exists(OpenPostsKey))
	assert.False(t, mr.Exists(OwnerPostsKey("42")))
}
