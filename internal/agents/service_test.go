package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/market"
)

// TestIsRetryableError 重试判定
func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil 错误", nil, false},
		{"超时不重试", context.DeadlineExceeded, false},
		{"取消不重试", context.Canceled, false},
		{"配置错误不重试", errors.New("invalid config: missing key"), false},
		{"not found 不重试", errors.New("model not found"), false},
		{"网络错误可重试", errors.New("connection reset by peer"), true},
		{"API 临时错误可重试", errors.New("503 service unavailable"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, 期望 %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestRetryRun 重试包装的快速路径（成功、不可重试错误）
func TestRetryRun(t *testing.T) {
	ctx := context.Background()

	t.Run("首次成功不重试", func(t *testing.T) {
		calls := 0
		result, err := retryRun(ctx, MaxAnalystRetries, func() (string, error) {
			calls++
			return "ok", nil
		})
		if err != nil || result != "ok" {
			t.Fatalf("retryRun = (%q, %v), 期望 (ok, nil)", result, err)
		}
		if calls != 1 {
			t.Errorf("调用次数 = %d, 期望 1", calls)
		}
	})

	t.Run("不可重试错误立即返回", func(t *testing.T) {
		calls := 0
		_, err := retryRun(ctx, MaxAnalystRetries, func() (string, error) {
			calls++
			return "", context.DeadlineExceeded
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("err = %v, 期望 DeadlineExceeded", err)
		}
		if calls != 1 {
			t.Errorf("调用次数 = %d, 期望 1", calls)
		}
	})

	t.Run("ctx 取消时停止重试", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := retryRun(cancelCtx, MaxAnalystRetries, func() (string, error) {
			return "", errors.New("transient")
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, 期望 context.Canceled", err)
		}
	})
}

// TestStatus 未配置 API Key 时全部分析师 ready=false
func TestStatus(t *testing.T) {
	marketSvc := market.NewService(time.Second, time.Second)
	svc := NewService(&models.AIConfig{
		Provider:  models.AIProviderGemini,
		ModelName: "gemini-2.0-flash",
	}, nil, marketSvc)

	statuses := svc.Status()
	if len(statuses) != 2 {
		t.Fatalf("分析师数 = %d, 期望 2", len(statuses))
	}
	for _, st := range statuses {
		t.Logf("analyst %s: ready=%v tools=%d", st.ID, st.Ready, st.ToolCount)
		if st.Ready {
			t.Errorf("分析师 %s 在无 API Key 时 ready=true", st.ID)
		}
		if st.Model != "gemini-2.0-flash" {
			t.Errorf("分析师 %s model = %q", st.ID, st.Model)
		}
	}
}

// TestRecommendWithoutAPIKey 未配置时返回 ErrNoAIConfig
func TestRecommendWithoutAPIKey(t *testing.T) {
	marketSvc := market.NewService(time.Second, time.Second)
	svc := NewService(&models.AIConfig{Provider: models.AIProviderGemini}, nil, marketSvc)

	if _, err := svc.Recommend(context.Background(), "RELIANCE"); !errors.Is(err, ErrNoAIConfig) {
		t.Errorf("err = %v, 期望 ErrNoAIConfig", err)
	}
}
