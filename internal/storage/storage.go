package storage

import (
	"context"
	"errors"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

var (
	// ErrSessionDoesNotExist 会话不存在
	ErrSessionDoesNotExist = errors.New("chat session does not exist")
)

// SessionStorage 聊天会话存储接口
type SessionStorage interface {
	// GetSession 获取用户会话
	GetSession(ctx context.Context, userID string) (models.ChatSession, error)
	// AppendMessages 追加消息（会话不存在时自动创建）
	AppendMessages(ctx context.Context, userID string, messages ...models.ChatMessage) error
	// ClearSession 清空用户会话历史
	ClearSession(ctx context.Context, userID string) error
}
