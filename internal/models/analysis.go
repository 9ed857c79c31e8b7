package models

// AIProvider 模型提供方
type AIProvider string

const (
	AIProviderGemini AIProvider = "gemini"
	AIProviderOpenAI AIProvider = "openai"
)

// AIConfig 模型配置
type AIConfig struct {
	Provider  AIProvider `json:"provider"`
	APIKey    string     `json:"-"`
	ModelName string     `json:"modelName"`
	BaseURL   string     `json:"baseUrl,omitempty"`
}

// AnalystConfig 分析师 Agent 配置
type AnalystConfig struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Instruction string   `json:"instruction"`
	Tools       []string `json:"tools"` // 可用工具名列表
}

// AnalystStatus 分析师就绪状态（GET /api/agents/status）
type AnalystStatus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Model     string `json:"model"`
	Provider  string `json:"provider"`
	Ready     bool   `json:"ready"`
	ToolCount int    `json:"toolCount"`
}

// 投资情绪枚举（五档）
const (
	SentimentStrongBuy  = "Strong Buy"
	SentimentBuy        = "Buy"
	SentimentHold       = "Hold"
	SentimentSell       = "Sell"
	SentimentStrongSell = "Strong Sell"
)

// ParseStatus 解析状态：区分"模型真的给了 Hold"和"解析失败填了默认值"
type ParseStatus struct {
	ScoreParsed      bool `json:"scoreParsed"`
	SentimentParsed  bool `json:"sentimentParsed"`
	ConfidenceParsed bool `json:"confidenceParsed"`
	Degraded         bool `json:"degraded"` // 任一字段走了默认值
}

// Recommendation 结构化投资建议
type Recommendation struct {
	Symbol         string      `json:"symbol"`
	Score          int         `json:"score"`     // 0-100
	Sentiment      string      `json:"sentiment"` // 五档之一
	Strengths      []string    `json:"strengths"`
	Concerns       []string    `json:"concerns"`
	Considerations []string    `json:"considerations"`
	Confidence     float64     `json:"confidence"` // 0-1
	ParseStatus    ParseStatus `json:"parseStatus"`
	RawText        string      `json:"-"` // 原始模型输出，仅供调试
}

// ResearchResult 研究分析结果
type ResearchResult struct {
	Symbol    string `json:"symbol"`
	Analyst   string `json:"analyst"`
	Content   string `json:"content"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// FullAnalysis 完整分析（研究 + 建议）
type FullAnalysis struct {
	Symbol         string          `json:"symbol"`
	Research       *ResearchResult `json:"research"`
	Recommendation *Recommendation `json:"recommendation"`
}
