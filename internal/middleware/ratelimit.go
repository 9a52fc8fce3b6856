package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type visitor struct {
	count    int
	lastSeen time.Time
}

// RateLimiter is the in-memory per-IP limiter, used when no Redis is
// configured. Counts reset per window.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	// Cleanup goroutine
	go func() {
		for {
			time.Sleep(window)
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > window {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		rl.mu.Lock()
		v, exists := rl.visitors[ip]
		if !exists || time.Since(v.lastSeen) > rl.window {
			rl.visitors[ip] = &visitor{count: 1, lastSeen: time.Now()}
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		v.count++
		v.lastSeen = time.Now()
		count := v.count
		rl.mu.Unlock()

		if count > rl.limit {
			writeRateLimited(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RedisRateLimiter is the Redis-backed per-IP limiter: INCR a per-window key
// and EXPIRE it on first hit. Survives restarts and is shared across
// replicas, unlike the in-memory map.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

func (rl *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:chat:" + clientIP(r)

		count, err := rl.client.Incr(r.Context(), key).Result()
		if err != nil {
			// Redis being down should not take chat down with it.
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			rl.client.Expire(context.WithoutCancel(r.Context()), key, rl.window)
		}

		if count > int64(rl.limit) {
			writeRateLimited(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	// RealIP middleware rewrites RemoteAddr when forwarding headers are set.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeRateLimited(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  false,
		"error":    "rateLimited",
		"message":  "Too many requests. Please try again later.",
		"reply":    "You're sending messages a bit too quickly. Give it a moment and try again.",
		"fallback": true,
	})
}
