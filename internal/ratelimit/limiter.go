// Package ratelimit 行情代理的进程内限流：滑动窗口，按客户端 key 计数。
package ratelimit

import (
	"sync"
	"time"
)

// Limiter 滑动窗口限流器
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time // 可注入时钟，便于测试

	mu      sync.Mutex
	entries map[string][]time.Time // key -> 窗口内的请求时间戳
}

// New 创建限流器，limit 为窗口内允许的请求数
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string][]time.Time),
	}
}

// SetClock 注入时钟（测试用）
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}

// Allow 判断该 key 的本次请求是否放行
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// 剔除窗口外的旧时间戳
	stamps := l.entries[key]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.entries[key] = kept
		return false
	}

	l.entries[key] = append(kept, now)
	return true
}

// Remaining 返回该 key 在当前窗口内剩余的请求数
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, ts := range l.entries[key] {
		if ts.After(cutoff) {
			count++
		}
	}
	if count >= l.limit {
		return 0
	}
	return l.limit - count
}

// Reset 清空指定 key 的计数
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// Sweep 清理所有已无有效时间戳的 key，避免 map 无界增长
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for key, stamps := range l.entries {
		alive := false
		for _, ts := range stamps {
			if ts.After(cutoff) {
				alive = true
				break
			}
		}
		if !alive {
			delete(l.entries, key)
		}
	}
}
