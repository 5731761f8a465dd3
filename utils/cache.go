package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ewhacare/accessdesk/config"
)

// Cache key prefixes for public read paths. Writes invalidate the whole
// prefix.
const (
	CachePrefixPosts    = "accessdesk:posts:"
	CachePrefixFeatured = "accessdesk:featured:"
)

func cacheTTL() time.Duration {
	if sec := config.Get().CacheTTLSec; sec > 0 {
		return time.Duration(sec) * time.Second
	}
	return 5 * time.Minute
}

// CacheGetJSON loads key into out. It reports false on miss, decode error or
// when Redis is disabled.
func CacheGetJSON(ctx context.Context, key string, out interface{}) bool {
	rc := GetRedis()
	if rc == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache decode failed key=%s err=%v", key, err)
		}
		return false
	}
	return true
}

// CacheSetJSON stores v under key with the configured TTL.
func CacheSetJSON(ctx context.Context, key string, v interface{}) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, b, cacheTTL()).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidateByPrefix deletes keys matching prefix using SCAN.
func InvalidateByPrefix(ctx context.Context, prefixes ...string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	for _, prefix := range prefixes {
		var cursor uint64
		for i := 0; i < 10; i++ {
			keys, cur, err := rc.Scan(ctx, cursor, prefix+"*", 500).Result()
			if err != nil {
				break
			}
			cursor = cur
			if len(keys) > 0 {
				_ = rc.Del(ctx, keys...).Err()
			}
			if cursor == 0 {
				break
			}
		}
	}
}
