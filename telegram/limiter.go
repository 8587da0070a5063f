package telegram

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sweepInterval is how often idle chats are dropped from a ChatLimiter.
const sweepInterval = time.Minute

// ChatLimiter provides per-chat rate limiting using token buckets.
// A chat that sends links faster than the limit gets a notice instead of an
// analysis; other chats are unaffected.
type ChatLimiter struct {
	mu    sync.Mutex
	chats map[int64]*rate.Limiter
	limit rate.Limit
	burst int
	swept time.Time
}

// NewChatLimiter creates a ChatLimiter allowing rps analyses per second per
// chat with the given burst.
func NewChatLimiter(rps float64, burst int) *ChatLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ChatLimiter{
		chats: make(map[int64]*rate.Limiter),
		limit: rate.Limit(rps),
		burst: burst,
	}
}

// Allow reports whether chatID may start another analysis now.
func (c *ChatLimiter) Allow(chatID int64) bool {
	return c.AllowAt(chatID, time.Now())
}

// AllowAt reports whether chatID may start another analysis at now.
func (c *ChatLimiter) AllowAt(chatID int64, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.swept) >= sweepInterval {
		c.sweep(now)
		c.swept = now
	}

	limiter, ok := c.chats[chatID]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.chats[chatID] = limiter
	}
	return limiter.AllowN(now, 1)
}

// Len returns the number of chats currently tracked.
func (c *ChatLimiter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chats)
}

// sweep drops chats whose bucket has refilled. A new limiter for such a
// chat starts in the same state.
func (c *ChatLimiter) sweep(now time.Time) {
	for id, limiter := range c.chats {
		if limiter.TokensAt(now) >= float64(c.burst) {
			delete(c.chats, id)
		}
	}
}
