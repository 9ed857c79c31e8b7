package models

// AgentType 理财助手类型（封闭枚举）
type AgentType string

const (
	AgentPast        AgentType = "past"        // 历史账本：持仓、收益、历史表现
	AgentPresent     AgentType = "present"     // 当下管家：支出、预算、现金流
	AgentFuture      AgentType = "future"      // 未来规划：目标、养老、定投计划
	AgentCoordinator AgentType = "coordinator" // 协调人：兜底与总结
)

// AgentMeta 助手展示元数据
type AgentMeta struct {
	Type        AgentType `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"` // 前端主题色 (hex)
	Icon        string    `json:"icon"`
}

// AgentMetas 全部助手的展示元数据（顺序即展示顺序）
var AgentMetas = []AgentMeta{
	{Type: AgentPast, Name: "Portfolio Historian", Description: "持仓与历史收益分析", Color: "#7C4DFF", Icon: "history"},
	{Type: AgentPresent, Name: "Spending Guardian", Description: "当期支出与预算管理", Color: "#00BFA5", Icon: "account_balance_wallet"},
	{Type: AgentFuture, Name: "Goal Planner", Description: "目标规划与定投建议", Color: "#FF6D00", Icon: "flag"},
	{Type: AgentCoordinator, Name: "Coordinator", Description: "综合协调与总结", Color: "#2962FF", Icon: "hub"},
}

// MetaOf 返回指定类型的元数据，未知类型回退到协调人
func MetaOf(t AgentType) AgentMeta {
	for _, m := range AgentMetas {
		if m.Type == t {
			return m
		}
	}
	return AgentMetas[len(AgentMetas)-1]
}

// ChatMessage 聊天消息
type ChatMessage struct {
	ID             string               `json:"id"`
	Text           string               `json:"text"`
	IsUser         bool                 `json:"isUser"`
	Timestamp      int64                `json:"timestamp"`
	Agent          AgentType            `json:"agent,omitempty"`          // 非用户消息的主讲助手
	AgentResponses map[AgentType]string `json:"agentResponses,omitempty"` // 各助手的片段
}

// ChatSession 单个用户的聊天会话（仅内存/KV，不做持久化承诺）
type ChatSession struct {
	UserID    string        `json:"userId"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt int64         `json:"createdAt"`
	UpdatedAt int64         `json:"updatedAt"`
}
