package portfolio

import (
	"encoding/json"
	"fmt"

	"github.com/gurram46/Artha-Agent-sub004/internal/embed"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

// defaultUserID 未知用户兜底使用的演示档案
const defaultUserID = "demo"

// fixtureFile 嵌入数据的反序列化结构
type fixtureFile struct {
	Users []models.FinancialData `json:"users"`
}

// Service 演示财务数据服务，数据来自编译期嵌入的 JSON
type Service struct {
	users map[string]models.FinancialData
}

// NewService 创建财务数据服务
func NewService() (*Service, error) {
	return newServiceFromJSON(embed.FinancialDataJSON)
}

// newServiceFromJSON 从 JSON 字节加载（测试用入口）
func newServiceFromJSON(data []byte) (*Service, error) {
	var fixture fixtureFile
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse financial data fixture error: %w", err)
	}
	if len(fixture.Users) == 0 {
		return nil, fmt.Errorf("financial data fixture has no users")
	}

	users := make(map[string]models.FinancialData, len(fixture.Users))
	for _, u := range fixture.Users {
		users[u.UserID] = u
	}
	if _, ok := users[defaultUserID]; !ok {
		return nil, fmt.Errorf("financial data fixture missing default user %q", defaultUserID)
	}

	return &Service{users: users}, nil
}

// GetFinancialData 获取用户财务数据
// 未知用户返回演示档案副本，UserID 改写为请求的 ID
func (s *Service) GetFinancialData(userID string) models.FinancialData {
	if data, ok := s.users[userID]; ok {
		return data
	}
	data := s.users[defaultUserID]
	data.UserID = userID
	return data
}

// Users 返回已知用户 ID 列表
func (s *Service) Users() []string {
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids
}
