// Package ratelimit throttles event producers on the notify endpoint.
// Producers are tracked per client IP; stale producers are swept out
// periodically so the table does not grow without bound.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
)

// Config holds the limiter settings for one endpoint.
type Config struct {
	// Rate is the sustained number of events allowed per second per producer.
	Rate float64
	// Burst is the number of events a producer may submit at once.
	Burst int
	// CleanupInterval is how often stale producers are swept.
	CleanupInterval time.Duration
	// MaxAge is how long a producer entry survives after its last event.
	MaxAge time.Duration
}

// DefaultNotifyConfig returns the limiter settings for the notify endpoint.
// Event producers are automation, not humans, so bursts are expected when a
// config rule fires across many accounts at once.
func DefaultNotifyConfig() Config {
	return Config{
		Rate:            20,
		Burst:           50,
		CleanupInterval: time.Minute,
		MaxAge:          5 * time.Minute,
	}
}

type producer struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter applies per-producer rate limiting with background cleanup.
type Limiter struct {
	mu        sync.Mutex
	producers map[string]*producer
	config    Config
	done      chan struct{}
}

// New creates a Limiter and starts its cleanup loop. Call Stop on shutdown.
func New(cfg Config) *Limiter {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 5 * time.Minute
	}

	l := &Limiter{
		producers: make(map[string]*producer),
		config:    cfg,
		done:      make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow reports whether the producer identified by key may submit an event now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.producers[key]
	if !ok {
		p = &producer{
			limiter: rate.NewLimiter(rate.Limit(l.config.Rate), l.config.Burst),
		}
		l.producers[key] = p
	}
	p.lastSeen = time.Now()

	return p.limiter.Allow()
}

// Middleware returns a gin middleware that rejects over-limit producers
// with 429 before the request body is read.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			metrics.EventsThrottled.Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "event rate limit exceeded, retry later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	close(l.done)
}

// Len returns the number of tracked producers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.producers)
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, p := range l.producers {
		if now.Sub(p.lastSeen) > l.config.MaxAge {
			delete(l.producers, key)
		}
	}
}
