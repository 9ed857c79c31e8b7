package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

const (
	nseBaseURL  = "https://www.nseindia.com"
	nseQuoteURL = nseBaseURL + "/api/quote-equity"
)

// nseQuoteResponse NSE quote-equity 响应（仅取用到的字段）
type nseQuoteResponse struct {
	Info struct {
		Symbol      string `json:"symbol"`
		CompanyName string `json:"companyName"`
	} `json:"info"`
	PriceInfo struct {
		LastPrice      float64 `json:"lastPrice"`
		Change         float64 `json:"change"`
		PChange        float64 `json:"pChange"`
		Open           float64 `json:"open"`
		PreviousClose  float64 `json:"previousClose"`
		IntraDayHighLow struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"intraDayHighLow"`
		TotalTradedVolume int64 `json:"totalTradedVolume"`
	} `json:"priceInfo"`
}

// NSEClient NSE 行情客户端。
// NSE 要求浏览器头并通过首页预热 cookie，否则返回 401。
type NSEClient struct {
	httpClient *http.Client

	mu       sync.Mutex
	primedAt time.Time
}

// cookie 预热有效期，过期后重新访问首页
const nsePrimeTTL = 5 * time.Minute

// NewNSEClient 创建 NSE 客户端
func NewNSEClient(timeout time.Duration) *NSEClient {
	jar, _ := cookiejar.New(nil)
	return &NSEClient{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// setNSEHeaders NSE 必需的请求头
func setNSEHeaders(req *http.Request) {
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")
	req.Header.Set("Referer", nseBaseURL+"/get-quotes/equity")
}

// prime 访问首页拿会话 cookie
func (c *NSEClient) prime(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.primedAt) < nsePrimeTTL {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nseBaseURL, nil)
	if err != nil {
		return err
	}
	setNSEHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nse prime error: %w", err)
	}
	defer resp.Body.Close()

	c.primedAt = time.Now()
	return nil
}

// Quote 获取 NSE 实时行情；symbol 按 NSE 习惯去掉 .NS 后缀
func (c *NSEClient) Quote(ctx context.Context, symbol string) (*models.Stock, error) {
	if err := c.prime(ctx); err != nil {
		return nil, err
	}

	nseSymbol := strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(symbol), ".NS"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nseQuoteURL, nil)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("symbol", nseSymbol)
	req.URL.RawQuery = q.Encode()
	setNSEHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nse quote request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nse quote status %d", resp.StatusCode)
	}

	var payload nseQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("nse quote decode error: %w", err)
	}
	if payload.PriceInfo.LastPrice <= 0 {
		return nil, fmt.Errorf("nse quote empty for %s", nseSymbol)
	}

	return &models.Stock{
		Symbol:        symbol,
		Name:          payload.Info.CompanyName,
		Exchange:      "NSE",
		Currency:      "INR",
		Price:         payload.PriceInfo.LastPrice,
		Change:        payload.PriceInfo.Change,
		ChangePercent: payload.PriceInfo.PChange,
		Volume:        payload.PriceInfo.TotalTradedVolume,
		Open:          payload.PriceInfo.Open,
		High:          payload.PriceInfo.IntraDayHighLow.Max,
		Low:           payload.PriceInfo.IntraDayHighLow.Min,
		PreClose:      payload.PriceInfo.PreviousClose,
		Source:        "nse",
	}, nil
}
