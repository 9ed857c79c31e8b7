package market

import (
	"testing"
	"time"
)

// TestMemoryCacheTTL 30秒 TTL 内命中，过期后未命中
func TestMemoryCacheTTL(t *testing.T) {
	current := time.Now()
	c := NewMemoryCache(30 * time.Second)
	c.SetClock(func() time.Time { return current })

	c.Set("quote:TCS", 42)

	if v, ok := c.Get("quote:TCS"); !ok || v.(int) != 42 {
		t.Fatalf("Get = %v, %v; 期望命中 42", v, ok)
	}

	current = current.Add(29 * time.Second)
	if _, ok := c.Get("quote:TCS"); !ok {
		t.Fatal("29 秒后应仍然命中")
	}

	current = current.Add(2 * time.Second)
	if _, ok := c.Get("quote:TCS"); ok {
		t.Fatal("31 秒后应视为过期")
	}
}

// TestMemoryCacheSweep 过期条目可被清理
func TestMemoryCacheSweep(t *testing.T) {
	current := time.Now()
	c := NewMemoryCache(time.Second)
	c.SetClock(func() time.Time { return current })

	c.Set("a", 1)
	c.Set("b", 2)
	current = current.Add(2 * time.Second)
	c.Sweep()

	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	if n != 0 {
		t.Errorf("Sweep 后剩余 %d 条, 期望 0", n)
	}
}
