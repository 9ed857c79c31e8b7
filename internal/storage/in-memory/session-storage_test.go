package in_memory

import (
	"context"
	"errors"
	"testing"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/storage"
)

// TestSessionLifecycle 会话的创建、追加、清空
func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStorage()

	if _, err := s.GetSession(ctx, "user-1"); !errors.Is(err, storage.ErrSessionDoesNotExist) {
		t.Fatalf("空存储 GetSession err = %v, 期望 ErrSessionDoesNotExist", err)
	}

	if err := s.AppendMessages(ctx, "user-1",
		models.ChatMessage{ID: "m1", Text: "How is my portfolio?", IsUser: true},
		models.ChatMessage{ID: "m2", Text: "Your portfolio is up 12%.", Agent: models.AgentPast},
	); err != nil {
		t.Fatalf("AppendMessages error: %v", err)
	}

	session, err := s.GetSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSession error: %v", err)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("消息数 = %d, 期望 2", len(session.Messages))
	}
	if session.Messages[1].Agent != models.AgentPast {
		t.Errorf("第二条消息 agent = %q, 期望 %q", session.Messages[1].Agent, models.AgentPast)
	}
	if session.UpdatedAt == 0 {
		t.Error("UpdatedAt 未设置")
	}

	// 返回的是副本，修改不影响内部状态
	session.Messages[0].Text = "mutated"
	again, _ := s.GetSession(ctx, "user-1")
	if again.Messages[0].Text != "How is my portfolio?" {
		t.Error("GetSession 返回了内部切片，应为副本")
	}

	if err := s.ClearSession(ctx, "user-1"); err != nil {
		t.Fatalf("ClearSession error: %v", err)
	}
	if _, err := s.GetSession(ctx, "user-1"); !errors.Is(err, storage.ErrSessionDoesNotExist) {
		t.Errorf("清空后 GetSession err = %v, 期望 ErrSessionDoesNotExist", err)
	}
}

// TestSessionIsolation 不同用户互不影响
func TestSessionIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStorage()

	_ = s.AppendMessages(ctx, "alice", models.ChatMessage{ID: "a1", Text: "hi", IsUser: true})
	_ = s.AppendMessages(ctx, "bob", models.ChatMessage{ID: "b1", Text: "hello", IsUser: true})

	_ = s.ClearSession(ctx, "alice")

	if _, err := s.GetSession(ctx, "bob"); err != nil {
		t.Errorf("清空 alice 不应影响 bob: %v", err)
	}
}
