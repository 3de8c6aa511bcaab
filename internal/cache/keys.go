package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"partyfinder/internal/observability"
)

const (
	UserKeyPrefix       = "user:%s"
	OpenPostsKey        = "posts:open"
	OwnerPostsKeyPrefix = "posts:owner:%s"
)

const (
	UserTTL      = 5 * time.Minute
	OpenPostsTTL = 30 * time.Second
)

func UserKey(discordID string) string {
	return fmt.Sprintf(UserKeyPrefix, discordID)
}

func OwnerPostsKey(discordID string) string {
	return fmt.Sprintf(OwnerPostsKeyPrefix, discordID)
}

// GetJSON fetches key and unmarshals it into dest. Returns false on miss or
// when the cache is unavailable.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "get")
	defer span.End()

	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON marshals value and stores it under key with the given TTL.
// Failures are silent; the cache is best-effort.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern: on a miss, loader populates dest
// and the result is written back under key. Loader errors propagate untouched.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func() error) error {
	if GetJSON(ctx, key, dest) {
		return nil
	}
	if err := loader(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, discordID string) {
	Invalidate(ctx, UserKey(discordID))
}

// InvalidateListings drops the open listings key and the owner's listings key.
// Called after create and delete so readers do not see stale boards.
func InvalidateListings(ctx context.Context, ownerDiscordID string) {
	Invalidate(ctx, OpenPostsKey)
	if ownerDiscordID != "" {
		Invalidate(ctx, OwnerPostsKey(ownerDiscordID))
	}
}
