package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"

	"github.com/gurram46/Artha-Agent-sub004/internal/format"
	"github.com/gurram46/Artha-Agent-sub004/internal/logger"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/router"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/portfolio"
	"github.com/gurram46/Artha-Agent-sub004/internal/storage"
)

var log = logger.New("chat")

// MarketReader 聊天回复所需的行情只读接口
type MarketReader interface {
	// GetQuote 获取单只股票行情（上游不可用时返回合成行情）
	GetQuote(ctx context.Context, symbol string) models.Stock
	// MarketStatus 返回市场状态: open/pre-open/post-close/closed
	MarketStatus() string
}

// Service 理财助手聊天服务
// 回复由各助手的模板填入用户财务数据与实时行情生成
type Service struct {
	portfolio *portfolio.Service
	market    MarketReader
	store     storage.SessionStorage
}

// NewService 创建聊天服务
func NewService(portfolioSvc *portfolio.Service, market MarketReader, store storage.SessionStorage) *Service {
	return &Service{
		portfolio: portfolioSvc,
		market:    market,
		store:     store,
	}
}

// SendMessage 处理单条聊天消息
// 按关键词路由选出助手，每个助手产出一段回复，协调人最后汇总；
// 返回单条 ChatMessage，各助手片段放在 AgentResponses
func (s *Service) SendMessage(ctx context.Context, userID, message string) (models.ChatMessage, error) {
	agents := router.Route(message)
	agents = ensureCoordinator(agents)

	data := s.portfolio.GetFinancialData(userID)

	// 各助手回复互不依赖，并行生成
	snippets := iter.Map(agents, func(agent *models.AgentType) string {
		return s.agentResponse(ctx, *agent, data)
	})

	responses := make(map[models.AgentType]string, len(agents))
	var sb strings.Builder
	for i, agent := range agents {
		responses[agent] = snippets[i]
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("**%s**: %s", models.MetaOf(agent).Name, snippets[i]))
	}

	reply := models.ChatMessage{
		ID:             uuid.New().String(),
		Text:           sb.String(),
		IsUser:         false,
		Timestamp:      time.Now().Unix(),
		Agent:          agents[len(agents)-1],
		AgentResponses: responses,
	}

	if err := s.store.AppendMessages(ctx, userID, userMessage(message), reply); err != nil {
		// 存储失败不影响本次回复
		log.Warn("append messages for %s error: %v", userID, err)
	}

	log.Debug("user %s routed to %d agents", userID, len(agents))
	return reply, nil
}

// Discussion 多助手讨论
// 每个被路由的助手按序各发一条消息，协调人最后总结
func (s *Service) Discussion(ctx context.Context, userID, message string) ([]models.ChatMessage, error) {
	agents := router.Route(message)
	agents = ensureCoordinator(agents)

	data := s.portfolio.GetFinancialData(userID)

	snippets := iter.Map(agents, func(agent *models.AgentType) string {
		return s.agentResponse(ctx, *agent, data)
	})

	now := time.Now().Unix()
	messages := make([]models.ChatMessage, 0, len(agents))
	for i, agent := range agents {
		messages = append(messages, models.ChatMessage{
			ID:        uuid.New().String(),
			Text:      snippets[i],
			IsUser:    false,
			Timestamp: now,
			Agent:     agent,
		})
	}

	stored := append([]models.ChatMessage{userMessage(message)}, messages...)
	if err := s.store.AppendMessages(ctx, userID, stored...); err != nil {
		log.Warn("append discussion for %s error: %v", userID, err)
	}

	return messages, nil
}

// History 获取用户聊天历史（无历史时返回空会话）
func (s *Service) History(ctx context.Context, userID string) (models.ChatSession, error) {
	session, err := s.store.GetSession(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionDoesNotExist) {
			return models.ChatSession{UserID: userID, Messages: []models.ChatMessage{}}, nil
		}
		return models.ChatSession{}, err
	}
	return session, nil
}

// ClearHistory 清空用户聊天历史
func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	return s.store.ClearSession(ctx, userID)
}

// ensureCoordinator 确保协调人总在末位
func ensureCoordinator(agents []models.AgentType) []models.AgentType {
	filtered := make([]models.AgentType, 0, len(agents)+1)
	for _, a := range agents {
		if a != models.AgentCoordinator {
			filtered = append(filtered, a)
		}
	}
	return append(filtered, models.AgentCoordinator)
}

// userMessage 构造用户消息记录
func userMessage(text string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		IsUser:    true,
		Timestamp: time.Now().Unix(),
	}
}

// agentResponse 生成单个助手的模板化回复
func (s *Service) agentResponse(ctx context.Context, agent models.AgentType, data models.FinancialData) string {
	switch agent {
	case models.AgentPast:
		return s.pastResponse(ctx, data)
	case models.AgentPresent:
		return presentResponse(data)
	case models.AgentFuture:
		return futureResponse(data)
	default:
		return s.coordinatorResponse(data)
	}
}

// pastResponse 历史账本：持仓与收益，带最大持仓的实时行情
func (s *Service) pastResponse(ctx context.Context, data models.FinancialData) string {
	text := fmt.Sprintf("You've invested %s which has grown to %s — total returns of %s at %.1f%% XIRR.",
		format.CompactCurrency(data.TotalInvested),
		format.CompactCurrency(data.NetWorth),
		format.CompactCurrency(data.TotalReturns),
		data.PortfolioXIRR)

	if top := topHolding(data.Holdings); top != nil {
		quote := s.market.GetQuote(ctx, top.Symbol)
		if quote.Price > 0 {
			text += fmt.Sprintf(" Your largest holding %s is trading at ₹%.2f (%s today).",
				top.Symbol, quote.Price, format.Percent(quote.ChangePercent))
			if quote.Synthetic {
				text += " (simulated quote)"
			}
		}
	}
	return text
}

// presentResponse 当下管家：本月支出与预算
func presentResponse(data models.FinancialData) string {
	sp := data.Spending
	if !sp.Available {
		return "Spending data isn't connected for your account yet, so I can't see this month's expenses. " +
			"Link your bank account to unlock spending insights."
	}
	used := 0.0
	if sp.BudgetLimit > 0 {
		used = sp.MonthTotal / sp.BudgetLimit * 100
	}
	return fmt.Sprintf("This month you've spent %s of your %s budget (%.1f%% used). Your biggest category is %s.",
		format.CompactCurrency(sp.MonthTotal),
		format.CompactCurrency(sp.BudgetLimit),
		used,
		sp.TopCategory)
}

// futureResponse 未来规划：目标进度与定投
func futureResponse(data models.FinancialData) string {
	goal := data.Goal
	if !goal.Available {
		return "You haven't set up any goals yet. Tell me what you're saving for and I'll help you plan it."
	}
	progress := 0.0
	if goal.Target > 0 {
		progress = goal.Saved / goal.Target * 100
	}
	text := fmt.Sprintf("For '%s' you've saved %s of the %s target — %.1f%% there, aiming for %d.",
		goal.Name,
		format.CompactCurrency(goal.Saved),
		format.CompactCurrency(goal.Target),
		progress,
		goal.TargetYear)

	if monthly := activeSIPTotal(data.SIPs); monthly > 0 {
		text += fmt.Sprintf(" Your active SIPs add %s every month toward it.", format.CompactCurrency(monthly))
	}
	return text
}

// coordinatorResponse 协调人：整体画像与市场状态
func (s *Service) coordinatorResponse(data models.FinancialData) string {
	return fmt.Sprintf("Overall: net worth %s, %s invested, returns of %s (%.1f%% XIRR). The market is currently %s. "+
		"Ask me about your portfolio, spending or goals for a deeper look.",
		format.CompactCurrency(data.NetWorth),
		format.CompactCurrency(data.TotalInvested),
		format.CompactCurrency(data.TotalReturns),
		data.PortfolioXIRR,
		s.market.MarketStatus())
}

// topHolding 返回市值最大的持仓
func topHolding(holdings []models.Holding) *models.Holding {
	var top *models.Holding
	for i := range holdings {
		if top == nil || holdings[i].CurrentValue > top.CurrentValue {
			top = &holdings[i]
		}
	}
	return top
}

// activeSIPTotal 活跃定投的月度总额
func activeSIPTotal(sips []models.SIPPlan) float64 {
	var total float64
	for _, sip := range sips {
		if sip.Active {
			total += sip.MonthlyAmount
		}
	}
	return total
}
