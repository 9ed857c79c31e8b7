package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gurram46/Artha-Agent-sub004/internal/chat"
	"github.com/gurram46/Artha-Agent-sub004/internal/config"
	"github.com/gurram46/Artha-Agent-sub004/internal/logger"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/ratelimit"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/news"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/portfolio"
)

var log = logger.New("server")

// MarketService 行情代理所需的操作
type MarketService interface {
	GetQuote(ctx context.Context, symbol string) models.Stock
	GetChart(ctx context.Context, symbol, chartRange, interval string) models.ChartResult
	GetSnapshot(ctx context.Context) models.MarketSnapshot
	MarketStatus() string
}

// NewsService 快讯列表
type NewsService interface {
	GetTelegraphList() ([]news.Telegraph, error)
}

// AnalystService 股票分析操作
type AnalystService interface {
	Status() []models.AnalystStatus
	Research(ctx context.Context, symbol string) (*models.ResearchResult, error)
	Recommend(ctx context.Context, symbol string) (*models.Recommendation, error)
	FullAnalysis(ctx context.Context, symbol string) (*models.FullAnalysis, error)
}

// Server HTTP API 服务
type Server struct {
	cfg       *config.Config
	chat      *chat.Service
	market    MarketService
	news      NewsService
	portfolio *portfolio.Service
	analysts  AnalystService
	limiter   *ratelimit.Limiter
	router    chi.Router
}

// New 创建 HTTP 服务并装配路由
func New(cfg *config.Config, chatSvc *chat.Service, marketSvc MarketService, newsSvc NewsService, portfolioSvc *portfolio.Service, analystSvc AnalystService) *Server {
	s := &Server{
		cfg:       cfg,
		chat:      chatSvc,
		market:    marketSvc,
		news:      newsSvc,
		portfolio: portfolioSvc,
		analysts:  analystSvc,
		limiter:   ratelimit.New(cfg.Market.RateLimit, cfg.Market.RateLimitWindow),
	}
	s.router = s.routes()
	return s
}

// Handler 返回根 http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes 装配全部路由
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/api/health", s.handleHealth)

	// 聊天
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/agent-discussion", s.handleAgentDiscussion)
	r.Get("/api/chat/history/{user_id}", s.handleChatHistory)
	r.Delete("/api/chat/history/{user_id}", s.handleClearChatHistory)

	// 财务与市场数据
	r.Get("/api/financial-data/{user_id}", s.handleFinancialData)
	r.Get("/api/market-data", s.handleMarketData)
	r.Get("/api/news", s.handleNews)

	// 行情代理（带限流）
	r.Route("/api/stocks", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/quote", s.handleStockQuote)
		r.Get("/chart", s.handleStockChart)
	})

	// 分析师
	r.Get("/api/agents/status", s.handleAgentsStatus)
	r.Post("/api/stock/research", s.handleResearch)
	r.Post("/api/stock/recommend", s.handleRecommend)
	r.Post("/api/stock/full-analysis", s.handleFullAnalysis)

	return r
}
