// Package cache holds the fast key-value counter shared by the vote path,
// the live tally endpoint and the admin token list.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable wraps every backend failure. A missing key is not an error.
	ErrUnavailable = errors.New("cache unavailable")
	// ErrMalformed means the stored value cannot serve the operation, such as
	// incrementing a non-integer. The backend itself is healthy.
	ErrMalformed = errors.New("malformed cache value")
)

// Counter is the fast, ephemeral store. A ttl of zero means no expiry.
type Counter interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
	// SetIfAbsent writes the key only if it does not exist yet and reports
	// whether it did. Check and write are one atomic step.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
}

// WindowLimiter counts hits per key over a sliding window.
type WindowLimiter interface {
	SlidingWindowAllow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Store is a Counter that can also throttle. Both implementations satisfy it.
type Store interface {
	Counter
	WindowLimiter
}

var (
	_ Store = (*RedisCounter)(nil)
	_ Store = (*MemoryCounter)(nil)
)

// Key namespaces. Each family owns its own prefix so that rate-limit markers,
// tallies and token entries can never collide.
const (
	voteMarkerPrefix    = "ratelimit:vote:"
	loginLimitPrefix    = "ratelimit:login:"
	optionCounterPrefix = "counter:option:"
	tokenPrefix         = "auth:token:"
)

// VoteMarkerKey scopes the vote rate limit to one question and one client.
func VoteMarkerKey(questionID uint, clientHash string) string {
	return fmt.Sprintf("%sq:%d:c:%s", voteMarkerPrefix, questionID, clientHash)
}

func OptionCounterKey(optionID uint) string {
	return fmt.Sprintf("%s%d", optionCounterPrefix, optionID)
}

func TokenKey(tokenID string) string {
	return tokenPrefix + tokenID
}

func LoginLimitKey(clientIP string) string {
	return loginLimitPrefix + clientIP
}
