package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/storage"
)

// messageInternal 消息的序列化结构
type messageInternal struct {
	ID             string            `json:"id"`
	Text           string            `json:"text"`
	IsUser         bool              `json:"is_user"`
	Timestamp      int64             `json:"timestamp"`
	Agent          string            `json:"agent,omitempty"`
	AgentResponses map[string]string `json:"agent_responses,omitempty"`
}

// sessionInternal 会话的序列化结构
type sessionInternal struct {
	UserID    string            `json:"user_id"`
	Messages  []messageInternal `json:"messages"`
	CreatedAt int64             `json:"created_at"`
	UpdatedAt int64             `json:"updated_at"`
}

// SessionStorage Redis 会话存储（配置了 REDIS_ENDPOINT 时启用）
type SessionStorage struct {
	rdb *redis.Client
}

// NewSessionStorage 创建 Redis 会话存储
func NewSessionStorage(rdb *redis.Client) *SessionStorage {
	return &SessionStorage{
		rdb: rdb,
	}
}

// GetSession 获取用户会话
func (s *SessionStorage) GetSession(ctx context.Context, userID string) (models.ChatSession, error) {
	sessionInt, err := s.getSessionInt(ctx, userID)
	if err != nil {
		return models.ChatSession{}, err
	}
	return fromInternal(sessionInt), nil
}

// AppendMessages 追加消息（会话不存在时自动创建）
func (s *SessionStorage) AppendMessages(ctx context.Context, userID string, messages ...models.ChatMessage) error {
	now := time.Now().Unix()
	sessionInt, err := s.getSessionInt(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrSessionDoesNotExist) {
			return err
		}
		sessionInt = sessionInternal{
			UserID:    userID,
			Messages:  make([]messageInternal, 0, len(messages)),
			CreatedAt: now,
		}
	}
	for _, msg := range messages {
		sessionInt.Messages = append(sessionInt.Messages, toInternalMessage(msg))
	}
	sessionInt.UpdatedAt = now
	return s.setSessionInt(ctx, userID, sessionInt)
}

// ClearSession 清空用户会话历史
func (s *SessionStorage) ClearSession(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, getSessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", userID, err)
	}
	return nil
}

func (s *SessionStorage) getSessionInt(ctx context.Context, userID string) (sessionInternal, error) {
	raw, err := s.rdb.Get(ctx, getSessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sessionInternal{}, storage.ErrSessionDoesNotExist
		}
		return sessionInternal{}, fmt.Errorf("failed to get session %s: %w", userID, err)
	}
	var sessionInt sessionInternal
	if err = json.Unmarshal([]byte(raw), &sessionInt); err != nil {
		return sessionInternal{}, fmt.Errorf("failed to unmarshal session %s: %w", userID, err)
	}
	return sessionInt, nil
}

func (s *SessionStorage) setSessionInt(ctx context.Context, userID string, sessionInt sessionInternal) error {
	data, err := json.Marshal(sessionInt)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err = s.rdb.Set(ctx, getSessionKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", userID, err)
	}
	return nil
}

func toInternalMessage(msg models.ChatMessage) messageInternal {
	out := messageInternal{
		ID:        msg.ID,
		Text:      msg.Text,
		IsUser:    msg.IsUser,
		Timestamp: msg.Timestamp,
		Agent:     string(msg.Agent),
	}
	if len(msg.AgentResponses) > 0 {
		out.AgentResponses = make(map[string]string, len(msg.AgentResponses))
		for agent, text := range msg.AgentResponses {
			out.AgentResponses[string(agent)] = text
		}
	}
	return out
}

func fromInternal(sessionInt sessionInternal) models.ChatSession {
	messages := make([]models.ChatMessage, 0, len(sessionInt.Messages))
	for _, msg := range sessionInt.Messages {
		out := models.ChatMessage{
			ID:        msg.ID,
			Text:      msg.Text,
			IsUser:    msg.IsUser,
			Timestamp: msg.Timestamp,
			Agent:     models.AgentType(msg.Agent),
		}
		if len(msg.AgentResponses) > 0 {
			out.AgentResponses = make(map[models.AgentType]string, len(msg.AgentResponses))
			for agent, text := range msg.AgentResponses {
				out.AgentResponses[models.AgentType(agent)] = text
			}
		}
		messages = append(messages, out)
	}
	return models.ChatSession{
		UserID:    sessionInt.UserID,
		Messages:  messages,
		CreatedAt: sessionInt.CreatedAt,
		UpdatedAt: sessionInt.UpdatedAt,
	}
}

func getSessionKey(userID string) string {
	return fmt.Sprintf("chat_session_%v", userID)
}
