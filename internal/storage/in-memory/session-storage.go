package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/storage"
)

// SessionStorage 内存会话存储（默认实现，进程重启后丢失）
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
}

// NewSessionStorage 创建内存会话存储
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[string]*models.ChatSession),
	}
}

// GetSession 获取用户会话
func (s *SessionStorage) GetSession(ctx context.Context, userID string) (models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return models.ChatSession{}, storage.ErrSessionDoesNotExist
	}
	// 返回副本，避免调用方持有内部切片
	out := *session
	out.Messages = make([]models.ChatMessage, len(session.Messages))
	copy(out.Messages, session.Messages)
	return out, nil
}

// AppendMessages 追加消息（会话不存在时自动创建）
func (s *SessionStorage) AppendMessages(ctx context.Context, userID string, messages ...models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	session, ok := s.sessions[userID]
	if !ok {
		session = &models.ChatSession{
			UserID:    userID,
			Messages:  make([]models.ChatMessage, 0, len(messages)),
			CreatedAt: now,
		}
		s.sessions[userID] = session
	}
	session.Messages = append(session.Messages, messages...)
	session.UpdatedAt = now
	return nil
}

// ClearSession 清空用户会话历史
func (s *SessionStorage) ClearSession(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
