package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/gurram46/Artha-Agent-sub004/internal/adk"
	"github.com/gurram46/Artha-Agent-sub004/internal/adk/tools"
	"github.com/gurram46/Artha-Agent-sub004/internal/analysis"
	"github.com/gurram46/Artha-Agent-sub004/internal/logger"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/market"
)

// 日志实例
var log = logger.New("agents")

// 超时配置常量
const (
	AnalysisTimeout      = 3 * time.Minute  // 整个完整分析的最大时长
	AnalystTimeout       = 90 * time.Second // 单个分析师的最大时长
	ModelCreationTimeout = 10 * time.Second // 模型创建的最大时长
)

// 重试配置常量
const (
	MaxAnalystRetries = 2                // 单个分析师最大重试次数
	RetryBaseDelay    = 2 * time.Second  // 指数退避基础延迟
	RetryMaxDelay     = 15 * time.Second // 指数退避最大延迟
)

// 错误定义
var (
	ErrNoAIConfig     = errors.New("AI service is not configured")
	ErrUnknownAnalyst = errors.New("unknown analyst")
)

// isRetryableError 判断错误是否可重试
// 超时、主动取消、配置错误不重试；网络错误、API 临时错误可重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	msg := err.Error()
	// 配置类错误不重试
	if strings.Contains(msg, "config") || strings.Contains(msg, "not found") {
		return false
	}
	return true
}

// retryRun 带指数退避的重试包装
// 在父 ctx 未取消的前提下，最多重试 maxRetries 次
func retryRun(ctx context.Context, maxRetries int, fn func() (string, error)) (string, error) {
	result, err := fn()
	if err == nil || !isRetryableError(err) {
		return result, err
	}

	var lastErr error = err
	for i := 1; i <= maxRetries; i++ {
		// 指数退避：baseDelay * 2^(i-1)，上限 RetryMaxDelay
		delay := RetryBaseDelay * time.Duration(1<<(i-1))
		if delay > RetryMaxDelay {
			delay = RetryMaxDelay
		}
		log.Warn("retry %d/%d after %v, last error: %v", i, maxRetries, delay, lastErr)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}

		result, err = fn()
		if err == nil {
			log.Info("retry %d/%d succeeded", i, maxRetries)
			return result, nil
		}
		lastErr = err
		if !isRetryableError(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("still failing after %d retries: %w", maxRetries, lastErr)
}

// 分析师 ID 常量
const (
	AnalystResearch  = "research"
	AnalystRecommend = "recommend"
)

// defaultAnalysts 内置分析师配置
func defaultAnalysts() []models.AnalystConfig {
	return []models.AnalystConfig{
		{
			ID:   AnalystResearch,
			Name: "Equity Researcher",
			Role: "equity research analyst covering Indian markets",
			Instruction: "You are an equity research analyst covering NSE and BSE listed companies. " +
				"Give a concise, well-structured research note: business overview, recent price action, " +
				"sector context and notable risks. Be specific, avoid generic filler.",
			Tools: []string{"get_stock_quote", "get_stock_chart", "get_market_news"},
		},
		{
			ID:   AnalystRecommend,
			Name: "Investment Strategist",
			Role: "investment strategist producing structured recommendations",
			Instruction: "You are an investment strategist. You always answer in the exact sectioned " +
				"format you are asked for, with no preamble and no closing remarks.",
			Tools: []string{"get_stock_quote", "get_stock_chart"},
		},
	}
}

// recommendFormat 固定输出格式要求（供解析器逐节提取）
const recommendFormat = `Respond in EXACTLY this format:

SCORE: <integer 0-100>
SENTIMENT: <one of: Strong Buy, Buy, Hold, Sell, Strong Sell>
KEY STRENGTHS:
- <strength 1>
- <strength 2>
KEY CONCERNS:
- <concern 1>
- <concern 2>
KEY CONSIDERATIONS:
- <consideration 1>
CONFIDENCE: <decimal 0.0-1.0>`

// Service 分析师服务，编排股票研究与投资建议
type Service struct {
	modelFactory  *adk.ModelFactory
	toolRegistry  *tools.Registry
	marketService *market.Service
	aiConfig      *models.AIConfig
	analysts      []models.AnalystConfig
}

// NewService 创建分析师服务
func NewService(aiConfig *models.AIConfig, registry *tools.Registry, marketService *market.Service) *Service {
	return &Service{
		modelFactory:  adk.NewModelFactory(),
		toolRegistry:  registry,
		marketService: marketService,
		aiConfig:      aiConfig,
		analysts:      defaultAnalysts(),
	}
}

// Status 返回全部分析师的就绪状态
func (s *Service) Status() []models.AnalystStatus {
	ready := s.aiConfig != nil && s.aiConfig.APIKey != ""
	statuses := make([]models.AnalystStatus, 0, len(s.analysts))
	for _, cfg := range s.analysts {
		status := models.AnalystStatus{
			ID:        cfg.ID,
			Name:      cfg.Name,
			Role:      cfg.Role,
			Ready:     ready,
			ToolCount: len(cfg.Tools),
		}
		if s.aiConfig != nil {
			status.Model = s.aiConfig.ModelName
			status.Provider = string(s.aiConfig.Provider)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Research 对指定股票运行研究分析师
func (s *Service) Research(ctx context.Context, symbol string) (*models.ResearchResult, error) {
	cfg, err := s.analystByID(AnalystResearch)
	if err != nil {
		return nil, err
	}

	task := fmt.Sprintf("Write a research note on %s. Use your tools to pull the live quote, "+
		"recent price history and market news before answering.", symbol)

	start := time.Now()
	content, err := s.runWithRetry(ctx, cfg, symbol, task)
	if err != nil {
		return nil, err
	}

	return &models.ResearchResult{
		Symbol:    symbol,
		Analyst:   cfg.Name,
		Content:   content,
		Model:     s.aiConfig.ModelName,
		ElapsedMs: time.Since(start).Milliseconds(),
	}, nil
}

// Recommend 对指定股票生成结构化投资建议
func (s *Service) Recommend(ctx context.Context, symbol string) (*models.Recommendation, error) {
	return s.recommend(ctx, symbol, "")
}

// recommend 生成建议，researchContext 非空时作为额外上下文
func (s *Service) recommend(ctx context.Context, symbol string, researchContext string) (*models.Recommendation, error) {
	cfg, err := s.analystByID(AnalystRecommend)
	if err != nil {
		return nil, err
	}

	task := fmt.Sprintf("Produce an investment recommendation for %s.\n\n%s", symbol, recommendFormat)
	if researchContext != "" {
		task = fmt.Sprintf("Research note on %s:\n%s\n\n%s", symbol, researchContext, task)
	}

	content, err := s.runWithRetry(ctx, cfg, symbol, task)
	if err != nil {
		return nil, err
	}

	rec := analysis.ParseRecommendation(symbol, content)
	if rec.ParseStatus.Degraded {
		log.Warn("recommendation for %s partially parsed: %+v", symbol, rec.ParseStatus)
	}
	return &rec, nil
}

// FullAnalysis 完整分析：先研究，再基于研究结论生成建议
func (s *Service) FullAnalysis(ctx context.Context, symbol string) (*models.FullAnalysis, error) {
	analysisCtx, cancel := context.WithTimeout(ctx, AnalysisTimeout)
	defer cancel()

	research, err := s.Research(analysisCtx, symbol)
	if err != nil {
		return nil, fmt.Errorf("research stage error: %w", err)
	}

	rec, err := s.recommend(analysisCtx, symbol, research.Content)
	if err != nil {
		// 研究已完成，建议失败时返回部分结果
		log.Error("recommend stage error for %s: %v", symbol, err)
		return &models.FullAnalysis{Symbol: symbol, Research: research}, err
	}

	return &models.FullAnalysis{
		Symbol:         symbol,
		Research:       research,
		Recommendation: rec,
	}, nil
}

// analystByID 按 ID 查找分析师配置
func (s *Service) analystByID(id string) (*models.AnalystConfig, error) {
	for i := range s.analysts {
		if s.analysts[i].ID == id {
			return &s.analysts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAnalyst, id)
}

// runWithRetry 运行单个分析师（带超时控制 + 指数退避重试）
func (s *Service) runWithRetry(ctx context.Context, cfg *models.AnalystConfig, symbol, task string) (string, error) {
	if s.aiConfig == nil || s.aiConfig.APIKey == "" {
		return "", ErrNoAIConfig
	}

	// 创建模型（带超时）
	modelCtx, modelCancel := context.WithTimeout(ctx, ModelCreationTimeout)
	llm, err := s.modelFactory.CreateModel(modelCtx, s.aiConfig)
	modelCancel()
	if err != nil {
		return "", fmt.Errorf("create model error: %w", err)
	}

	builder := adk.NewAnalystAgentBuilderWithTools(llm, s.toolRegistry)

	// 带行情上下文（取不到实时数据时会拿到合成行情，带 Synthetic 标记）
	stock := s.marketService.GetQuote(ctx, symbol)

	return retryRun(ctx, MaxAnalystRetries, func() (string, error) {
		analystCtx, analystCancel := context.WithTimeout(ctx, AnalystTimeout)
		defer analystCancel()
		return s.runAnalyst(analystCtx, builder, cfg, &stock, task)
	})
}

// runAnalyst 运行单个分析师 Agent 并收集文本输出
func (s *Service) runAnalyst(ctx context.Context, builder *adk.AnalystAgentBuilder, cfg *models.AnalystConfig, stock *models.Stock, task string) (string, error) {
	agentInstance, err := builder.BuildAgent(cfg, stock, task)
	if err != nil {
		return "", err
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        "artha",
		Agent:          agentInstance,
		SessionService: sessionService,
	})
	if err != nil {
		return "", err
	}

	sessionID := fmt.Sprintf("session-%s-%d", cfg.ID, time.Now().UnixNano())
	_, err = sessionService.Create(ctx, &session.CreateRequest{
		AppName:   "artha",
		UserID:    "user",
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("create session error: %w", err)
	}

	userMsg := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(task),
		},
	}

	var content string
	runCfg := agent.RunConfig{}
	for event, err := range r.Run(ctx, "user", sessionID, userMsg, runCfg) {
		if err != nil {
			return "", err
		}
		if event != nil && event.LLMResponse.Content != nil {
			for _, part := range event.LLMResponse.Content.Parts {
				if part.Thought {
					continue
				}
				if part.Text != "" {
					content += part.Text
				}
			}
		}
	}

	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("analyst %s returned empty output", cfg.ID)
	}
	return content, nil
}
