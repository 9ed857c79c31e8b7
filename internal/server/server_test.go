package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gurram46/Artha-Agent-sub004/internal/agents"
	"github.com/gurram46/Artha-Agent-sub004/internal/chat"
	"github.com/gurram46/Artha-Agent-sub004/internal/config"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/news"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/portfolio"
	in_memory "github.com/gurram46/Artha-Agent-sub004/internal/storage/in-memory"
)

// stubMarket 固定行情替身
type stubMarket struct{}

func (m *stubMarket) GetQuote(ctx context.Context, symbol string) models.Stock {
	return models.Stock{Symbol: symbol, Name: symbol, Price: 1520.4, ChangePercent: -0.8, Source: "stub"}
}

func (m *stubMarket) GetChart(ctx context.Context, symbol, chartRange, interval string) models.ChartResult {
	return models.ChartResult{
		Meta:      models.ChartMeta{Symbol: symbol, Range: chartRange, DataGranularity: interval},
		Timestamp: []int64{1748836500, 1748836800},
		Indicators: models.ChartIndicators{Quote: []models.QuoteIndicator{{
			Open: []float64{100, 101}, High: []float64{102, 103},
			Low: []float64{99, 100}, Close: []float64{101, 102},
			Volume: []int64{1000, 1200},
		}}},
	}
}

func (m *stubMarket) GetSnapshot(ctx context.Context) models.MarketSnapshot {
	return models.MarketSnapshot{
		Indices:   []models.MarketIndex{{Code: "^NSEI", Name: "NIFTY 50", Price: 24750}},
		UpdatedAt: 1748836500,
	}
}

func (m *stubMarket) MarketStatus() string { return "open" }

// stubNews 固定快讯替身
type stubNews struct{ err error }

func (n *stubNews) GetTelegraphList() ([]news.Telegraph, error) {
	if n.err != nil {
		return nil, n.err
	}
	return []news.Telegraph{{Title: "Nifty hits record high", Time: "10:42 AM"}}, nil
}

// stubAnalysts 分析师替身
type stubAnalysts struct{ configured bool }

func (a *stubAnalysts) Status() []models.AnalystStatus {
	return []models.AnalystStatus{{ID: "research", Name: "Equity Researcher", Ready: a.configured}}
}

func (a *stubAnalysts) Research(ctx context.Context, symbol string) (*models.ResearchResult, error) {
	if !a.configured {
		return nil, agents.ErrNoAIConfig
	}
	return &models.ResearchResult{Symbol: symbol, Analyst: "Equity Researcher", Content: "solid fundamentals"}, nil
}

func (a *stubAnalysts) Recommend(ctx context.Context, symbol string) (*models.Recommendation, error) {
	if !a.configured {
		return nil, agents.ErrNoAIConfig
	}
	return &models.Recommendation{Symbol: symbol, Score: 72, Sentiment: models.SentimentBuy, Confidence: 0.85}, nil
}

func (a *stubAnalysts) FullAnalysis(ctx context.Context, symbol string) (*models.FullAnalysis, error) {
	if !a.configured {
		return nil, agents.ErrNoAIConfig
	}
	research, _ := a.Research(ctx, symbol)
	rec, _ := a.Recommend(ctx, symbol)
	return &models.FullAnalysis{Symbol: symbol, Research: research, Recommendation: rec}, nil
}

func newTestServer(t *testing.T, analystsConfigured bool) *Server {
	t.Helper()

	portfolioSvc, err := portfolio.NewService()
	if err != nil {
		t.Fatalf("portfolio.NewService error: %v", err)
	}

	cfg := &config.Config{}
	cfg.Market.RateLimit = 5
	cfg.Market.RateLimitWindow = time.Minute

	marketStub := &stubMarket{}
	chatSvc := chat.NewService(portfolioSvc, marketStub, in_memory.NewSessionStorage())

	return New(cfg, chatSvc, marketStub, &stubNews{}, portfolioSvc, &stubAnalysts{configured: analystsConfigured})
}

// TestHealth GET /api/health
func TestHealth(t *testing.T) {
	srv := newTestServer(t, false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, 期望 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应非 JSON: %v", err)
	}
	if body["status"] != "ok" || body["market"] != "open" {
		t.Errorf("body = %v", body)
	}
}

// TestFinancialData 演示档案与未知用户回退
func TestFinancialData(t *testing.T) {
	srv := newTestServer(t, false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/financial-data/demo", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, 期望 200", rec.Code)
	}
	var data models.FinancialData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("响应非 JSON: %v", err)
	}
	if data.UserID != "demo" || data.NetWorth <= 0 {
		t.Errorf("data = %+v", data)
	}
}

// TestChatEndpoint POST /api/chat 正常与校验失败
func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t, false)

	t.Run("正常请求", func(t *testing.T) {
		body := strings.NewReader(`{"user_id":"demo","message":"How is my portfolio?"}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var msg models.ChatMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
			t.Fatalf("响应非 JSON: %v", err)
		}
		if msg.ID == "" || len(msg.AgentResponses) == 0 {
			t.Errorf("msg = %+v", msg)
		}
		if _, ok := msg.AgentResponses[models.AgentPast]; !ok {
			t.Error("portfolio 问题应路由到历史账本")
		}
	})

	t.Run("缺少消息返回400", func(t *testing.T) {
		body := strings.NewReader(`{"user_id":"demo","message":"  "}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, 期望 400", rec.Code)
		}
		var errResp errorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &errResp)
		if errResp.Error != "missing_message" {
			t.Errorf("error = %q", errResp.Error)
		}
	})
}

// TestChatHistoryLifecycle 历史查询与清空
func TestChatHistoryLifecycle(t *testing.T) {
	srv := newTestServer(t, false)

	body := strings.NewReader(`{"user_id":"u1","message":"what is my goal progress?"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history/u1", nil))
	var session models.ChatSession
	_ = json.Unmarshal(rec.Body.Bytes(), &session)
	if len(session.Messages) != 2 {
		t.Errorf("历史消息数 = %d, 期望 2", len(session.Messages))
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/chat/history/u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history/u1", nil))
	session = models.ChatSession{}
	_ = json.Unmarshal(rec.Body.Bytes(), &session)
	if len(session.Messages) != 0 {
		t.Errorf("清空后历史消息数 = %d", len(session.Messages))
	}
}

// TestStockQuote 参数校验与正常返回
func TestStockQuote(t *testing.T) {
	srv := newTestServer(t, false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks/quote", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("无 symbol status = %d, 期望 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks/quote?symbol=TCS", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stock models.Stock
	_ = json.Unmarshal(rec.Body.Bytes(), &stock)
	if stock.Symbol != "TCS" {
		t.Errorf("symbol = %q", stock.Symbol)
	}
}

// TestStockChartEnvelope 返回 Yahoo 形态外层
func TestStockChartEnvelope(t *testing.T) {
	srv := newTestServer(t, false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks/chart?symbol=INFY&range=1d", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var env models.ChartEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("响应非 JSON: %v", err)
	}
	if len(env.Chart.Result) != 1 {
		t.Fatalf("chart.result 长度 = %d, 期望 1", len(env.Chart.Result))
	}
	if env.Chart.Result[0].Meta.Symbol != "INFY" {
		t.Errorf("meta.symbol = %q", env.Chart.Result[0].Meta.Symbol)
	}
	// 无 interval 参数时 1d 默认 5m
	if env.Chart.Result[0].Meta.DataGranularity != "5m" {
		t.Errorf("dataGranularity = %q, 期望 5m", env.Chart.Result[0].Meta.DataGranularity)
	}
}

// TestRateLimit 第6个请求返回429，不同IP互不影响
func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, false)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/stocks/quote?symbol=TCS", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("第%d个请求 status = %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stocks/quote?symbol=TCS", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("第6个请求 status = %d, 期望 429", rec.Code)
	}
	var errResp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &errResp)
	if errResp.Error != "rate_limited" {
		t.Errorf("error = %q", errResp.Error)
	}

	// 其他 IP 不受影响
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/stocks/quote?symbol=TCS", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("其他 IP status = %d, 期望 200", rec.Code)
	}

	// 限流不作用于行情代理以外的路由
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

// TestAnalysisEndpoints 未配置 AI 时返回 503，配置后正常
func TestAnalysisEndpoints(t *testing.T) {
	t.Run("未配置返回503", func(t *testing.T) {
		srv := newTestServer(t, false)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stock/research", strings.NewReader(`{"symbol":"TCS"}`)))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, 期望 503", rec.Code)
		}
	})

	t.Run("recommend 返回结构化建议", func(t *testing.T) {
		srv := newTestServer(t, true)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stock/recommend", strings.NewReader(`{"symbol":"tcs"}`)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var recmd models.Recommendation
		_ = json.Unmarshal(rec.Body.Bytes(), &recmd)
		// symbol 应被规范化为大写
		if recmd.Symbol != "TCS" || recmd.Score != 72 {
			t.Errorf("recommendation = %+v", recmd)
		}
	})

	t.Run("缺少 symbol 返回400", func(t *testing.T) {
		srv := newTestServer(t, true)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stock/full-analysis", strings.NewReader(`{}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, 期望 400", rec.Code)
		}
	})
}

// TestNewsEndpoint 快讯正常与上游失败
func TestNewsEndpoint(t *testing.T) {
	srv := newTestServer(t, false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nifty hits record high") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
