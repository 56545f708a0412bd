package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// slidingWindow 按客户端 IP 记录窗口内的请求时间
type slidingWindow struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	hits        map[string][]time.Time
}

func newSlidingWindow(maxAttempts int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		maxAttempts: maxAttempts,
		window:      window,
		hits:        make(map[string][]time.Time),
	}
}

// prune 去掉窗口外的记录，需持有锁
func (w *slidingWindow) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-w.window)
	kept := w.hits[key][:0]
	for _, t := range w.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(w.hits, key)
		return nil
	}
	w.hits[key] = kept
	return kept
}

// allow 记录一次请求，超过上限返回 false
func (w *slidingWindow) allow(key string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.prune(key, now)) >= w.maxAttempts {
		return false
	}
	w.hits[key] = append(w.hits[key], now)
	return true
}

// sweep 清理所有过期记录
func (w *slidingWindow) sweep(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for key := range w.hits {
		w.prune(key, now)
	}
}

// AuthRateLimit 注册/登录接口限流中间件
// 每 IP 在 window 内最多 maxAttempts 次，超过返回 429
func AuthRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	limiter := newSlidingWindow(maxAttempts, window)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			limiter.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "请求过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
