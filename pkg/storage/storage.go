// Package storage defines the durable key/value contract that session state, idempotency
// records, and rate-limit counters are written through.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("storage: key not found")

// Store is implemented by the memory, redis, and sql backends.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key. A zero ttl never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// IncrWithTTL increments the counter at key, applying ttl only when the counter is created.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

const (
	keyNamespace      = "zora"
	sessionPrefix     = "session"
	idempotencyPrefix = "idempotency"
	rateLimitPrefix   = "rate_limit"
	lockPrefix        = "lock"
)

// SessionKey returns the key holding one named piece of session state,
// e.g. zora:session:<sid>:cart.
func SessionKey(sessionID, name string) string {
	return buildKey(sessionPrefix, sessionID, name)
}

// IdempotencyKey returns the key holding a replayable response.
func IdempotencyKey(scope, id string) string {
	return buildKey(idempotencyPrefix, scope, id)
}

// RateLimitKey returns the key holding a fixed-window counter.
func RateLimitKey(scope string) string {
	return buildKey(rateLimitPrefix, scope)
}

// LockKey returns the key guarding a job that must run on one instance at a time.
func LockKey(name string) string {
	return buildKey(lockPrefix, name)
}

// Counter is the subset of Store needed for rate limiting.
type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// FixedWindowAllow applies a fixed-window limit using the store's counter primitive.
func FixedWindowAllow(ctx context.Context, counter Counter, scope string, limit int64, window time.Duration) (bool, int64, error) {
	count, err := counter.IncrWithTTL(ctx, RateLimitKey(scope), window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, ":")
}
