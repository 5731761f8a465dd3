package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

const revokedKeyPrefix = "accessdesk:revoked:"

var (
	revoked   = map[string]time.Time{}
	revokedMu sync.Mutex
)

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RevokeToken marks token unusable until expiresAt. Redis is used when
// available so revocations survive restarts and span instances.
func RevokeToken(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	key := tokenKey(token)
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, revokedKeyPrefix+key, "1", ttl).Err(); err == nil {
			return
		}
	}
	revokedMu.Lock()
	revoked[key] = expiresAt
	revokedMu.Unlock()
}

// IsTokenRevoked reports whether token was revoked before its natural expiry.
func IsTokenRevoked(ctx context.Context, token string) bool {
	key := tokenKey(token)
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if n, err := rc.Exists(ctx, revokedKeyPrefix+key).Result(); err == nil && n > 0 {
			return true
		}
	}

	revokedMu.Lock()
	defer revokedMu.Unlock()
	exp, ok := revoked[key]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(revoked, key)
		return false
	}
	return true
}
