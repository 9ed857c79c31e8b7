package ratelimit

import (
	"testing"
	"time"
)

// TestLimiterWindow 60秒内第6次请求被拒绝，窗口滑过后恢复
func TestLimiterWindow(t *testing.T) {
	current := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	l := New(5, time.Minute)
	l.SetClock(func() time.Time { return current })

	// 前5次放行
	for i := 1; i <= 5; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("第 %d 次请求应放行", i)
		}
		current = current.Add(time.Second)
	}

	// 第6次拒绝
	if l.Allow("1.2.3.4") {
		t.Fatal("第 6 次请求应被拒绝")
	}

	// 窗口滑过后第7次放行
	current = current.Add(61 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Fatal("窗口重置后请求应放行")
	}
}

// TestLimiterPerKey 不同客户端互不影响
func TestLimiterPerKey(t *testing.T) {
	current := time.Now()
	l := New(1, time.Minute)
	l.SetClock(func() time.Time { return current })

	if !l.Allow("a") {
		t.Fatal("a 的首次请求应放行")
	}
	if l.Allow("a") {
		t.Fatal("a 的第二次请求应被拒绝")
	}
	if !l.Allow("b") {
		t.Fatal("b 不应受 a 的计数影响")
	}
}

// TestLimiterRemaining 剩余配额随请求递减
func TestLimiterRemaining(t *testing.T) {
	current := time.Now()
	l := New(5, time.Minute)
	l.SetClock(func() time.Time { return current })

	if got := l.Remaining("x"); got != 5 {
		t.Errorf("初始 Remaining = %d, 期望 5", got)
	}
	l.Allow("x")
	l.Allow("x")
	if got := l.Remaining("x"); got != 3 {
		t.Errorf("两次请求后 Remaining = %d, 期望 3", got)
	}
}

// TestLimiterSweep 过期 key 可被清理
func TestLimiterSweep(t *testing.T) {
	current := time.Now()
	l := New(5, time.Minute)
	l.SetClock(func() time.Time { return current })

	l.Allow("old")
	current = current.Add(2 * time.Minute)
	l.Sweep()

	l.mu.Lock()
	_, exists := l.entries["old"]
	l.mu.Unlock()
	if exists {
		t.Error("过期 key 未被清理")
	}
}
