package market

import (
	"context"
	"time"

	"github.com/gurram46/Artha-Agent-sub004/internal/logger"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"

	"github.com/sourcegraph/conc/iter"
)

var log = logger.New("market")

// indexDef 指数定义（Yahoo 记法）
type indexDef struct {
	code string
	name string
}

var indexSymbols = []indexDef{
	{"^NSEI", "NIFTY 50"},
	{"^BSESN", "SENSEX"},
}

// Service 行情服务：Yahoo 优先，NSE 兜底，最后回退合成数据。
// 一次性降级，不做重试；结果进 30 秒 TTL 内存缓存。
type Service struct {
	yahoo *YahooClient
	nse   *NSEClient
	synth *SyntheticGenerator
	cache *MemoryCache
}

// NewService 创建行情服务
func NewService(requestTimeout, cacheTTL time.Duration) *Service {
	return &Service{
		yahoo: NewYahooClient(requestTimeout),
		nse:   NewNSEClient(requestTimeout),
		synth: NewSyntheticGenerator(),
		cache: NewMemoryCache(cacheTTL),
	}
}

// GetQuote 获取单只股票行情（Yahoo -> NSE -> 合成）
func (s *Service) GetQuote(ctx context.Context, symbol string) models.Stock {
	cacheKey := "quote:" + symbol
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(models.Stock)
	}

	stock, err := s.yahoo.Quote(ctx, symbol)
	if err != nil {
		log.Warn("yahoo quote %s failed, trying nse: %v", symbol, err)
		stock, err = s.nse.Quote(ctx, symbol)
	}
	if err != nil {
		log.Warn("nse quote %s failed, using synthetic: %v", symbol, err)
		synthetic := s.synth.Quote(symbol)
		stock = &synthetic
	}

	s.cache.Set(cacheKey, *stock)
	return *stock
}

// GetQuotes 并发获取多只股票行情
func (s *Service) GetQuotes(ctx context.Context, symbols []string) []models.Stock {
	return iter.Map(symbols, func(symbol *string) models.Stock {
		return s.GetQuote(ctx, *symbol)
	})
}

// GetChart 获取图表数据（Yahoo -> 合成），输出保持 Yahoo chart schema
func (s *Service) GetChart(ctx context.Context, symbol, chartRange, interval string) models.ChartResult {
	cacheKey := "chart:" + symbol + ":" + chartRange + ":" + interval
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(models.ChartResult)
	}

	chart, err := s.yahoo.Chart(ctx, symbol, chartRange, interval)
	if err != nil {
		log.Warn("yahoo chart %s failed, using synthetic: %v", symbol, err)
		synthetic := s.synth.Chart(symbol, chartRange, interval)
		chart = &synthetic
	}

	s.cache.Set(cacheKey, *chart)
	return *chart
}

// GetSnapshot 市场概览：主要指数行情，上游全挂时回退静态兜底
func (s *Service) GetSnapshot(ctx context.Context) models.MarketSnapshot {
	cacheKey := "snapshot"
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(models.MarketSnapshot)
	}

	snapshot := models.MarketSnapshot{UpdatedAt: time.Now().Unix()}

	indices := iter.Map(indexSymbols, func(idx *indexDef) models.MarketIndex {
		stock, err := s.yahoo.Quote(ctx, idx.code)
		if err != nil {
			log.Warn("index quote %s failed: %v", idx.code, err)
			return models.MarketIndex{Code: idx.code, Name: idx.name}
		}
		return models.MarketIndex{
			Code:          idx.code,
			Name:          idx.name,
			Price:         stock.Price,
			Change:        stock.Change,
			ChangePercent: stock.ChangePercent,
		}
	})

	live := 0
	for _, idx := range indices {
		if idx.Price > 0 {
			live++
		}
	}
	if live == 0 {
		indices = fallbackIndices()
		snapshot.Fallback = true
	}
	snapshot.Indices = indices

	s.cache.Set(cacheKey, snapshot)
	return snapshot
}

// MarketStatus 按 IST 交易时段判断市场状态（周一至周五 09:15-15:30）
func (s *Service) MarketStatus() string {
	now := time.Now().In(istZone)
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "closed"
	}
	minutes := now.Hour()*60 + now.Minute()
	openAt := sessionOpenHour*60 + sessionOpenMinute
	closeAt := sessionCloseHour*60 + sessionCloseMinute
	switch {
	case minutes < openAt:
		return "pre-open"
	case minutes > closeAt:
		return "post-close"
	default:
		return "open"
	}
}

// fallbackIndices 上游全部不可用时的展示兜底
func fallbackIndices() []models.MarketIndex {
	return []models.MarketIndex{
		{Code: "^NSEI", Name: "NIFTY 50", Price: 24750.0, Change: 112.4, ChangePercent: 0.46},
		{Code: "^BSESN", Name: "SENSEX", Price: 81350.0, Change: 318.2, ChangePercent: 0.39},
	}
}
