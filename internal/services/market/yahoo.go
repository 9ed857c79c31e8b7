package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s"

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// YahooClient Yahoo Finance 行情客户端
type YahooClient struct {
	httpClient *http.Client
}

// NewYahooClient 创建 Yahoo 客户端
func NewYahooClient(timeout time.Duration) *YahooClient {
	return &YahooClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// normalizeSymbol 无后缀的印度股票代码默认补 NSE 后缀，指数(^开头)原样返回
func normalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || strings.HasPrefix(symbol, "^") || strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".NS"
}

// Chart 获取图表数据（range + interval 透传 Yahoo）
func (c *YahooClient) Chart(ctx context.Context, symbol, chartRange, interval string) (*models.ChartResult, error) {
	if chartRange == "" {
		chartRange = "1d"
	}
	if interval == "" {
		if chartRange == "1d" {
			interval = "5m"
		} else {
			interval = "1d"
		}
	}

	endpoint := fmt.Sprintf(yahooChartURL, url.PathEscape(normalizeSymbol(symbol)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("range", chartRange)
	q.Set("interval", interval)
	q.Set("includePrePost", "false")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart status %d", resp.StatusCode)
	}

	var envelope models.ChartEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("yahoo chart decode error: %w", err)
	}
	if envelope.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error: %s", envelope.Chart.Error.Description)
	}
	if len(envelope.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart empty result for %s", symbol)
	}

	result := envelope.Chart.Result[0]
	return &result, nil
}

// Quote 通过 chart meta 获取实时行情（quote 端点需要 crumb，chart 不需要）
func (c *YahooClient) Quote(ctx context.Context, symbol string) (*models.Stock, error) {
	chart, err := c.Chart(ctx, symbol, "1d", "5m")
	if err != nil {
		return nil, err
	}

	meta := chart.Meta
	preClose := meta.ChartPreviousClose
	change := meta.RegularMarketPrice - preClose
	changePct := 0.0
	if preClose > 0 {
		changePct = change / preClose * 100
	}

	var open float64
	var volume int64
	if len(chart.Indicators.Quote) > 0 {
		quote := chart.Indicators.Quote[0]
		if len(quote.Open) > 0 {
			open = quote.Open[0]
		}
		for _, v := range quote.Volume {
			volume += v
		}
	}

	return &models.Stock{
		Symbol:        symbol,
		Name:          meta.Symbol,
		Exchange:      meta.ExchangeName,
		Currency:      meta.Currency,
		Price:         meta.RegularMarketPrice,
		Change:        change,
		ChangePercent: changePct,
		Volume:        volume,
		Open:          open,
		High:          meta.RegularMarketDayHigh,
		Low:           meta.RegularMarketDayLow,
		PreClose:      preClose,
		Source:        "yahoo",
	}, nil
}
