package models

// Stock 股票实时行情
type Stock struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Exchange      string  `json:"exchange"`      // NSE / BSE
	Currency      string  `json:"currency"`      // INR
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PreClose      float64 `json:"preClose"`
	Source        string  `json:"source"`    // yahoo / nse / synthetic
	Synthetic     bool    `json:"synthetic"` // 数据为合成数据时置位
}

// Candle K线数据（单根OHLCV）
type Candle struct {
	Time   int64   `json:"time"` // Unix 秒
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// MarketIndex 指数行情
type MarketIndex struct {
	Code          string  `json:"code"` // 如 ^NSEI
	Name          string  `json:"name"` // 如 NIFTY 50
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// ChartMeta 图表元信息（对齐 Yahoo Finance chart schema）
type ChartMeta struct {
	Currency             string  `json:"currency"`
	Symbol               string  `json:"symbol"`
	ExchangeName         string  `json:"exchangeName"`
	Range                string  `json:"range"`
	DataGranularity      string  `json:"dataGranularity"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	ChartPreviousClose   float64 `json:"chartPreviousClose"`
	RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
	Synthetic            bool    `json:"synthetic,omitempty"`
}

// QuoteIndicator OHLCV 序列（列式，对齐 Yahoo Finance chart schema）
type QuoteIndicator struct {
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []int64   `json:"volume"`
}

// ChartIndicators 图表指标容器
type ChartIndicators struct {
	Quote []QuoteIndicator `json:"quote"`
}

// ChartResult 单只股票的图表数据
type ChartResult struct {
	Meta       ChartMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators ChartIndicators `json:"indicators"`
}

// ChartError 图表错误信息
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartEnvelope 图表响应外层（chart.result / chart.error）
type ChartEnvelope struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// NewChartEnvelope 包装单个结果为 Yahoo 形态的响应
func NewChartEnvelope(result ChartResult) ChartEnvelope {
	var env ChartEnvelope
	env.Chart.Result = []ChartResult{result}
	return env
}

// MarketSnapshot 市场概览
type MarketSnapshot struct {
	Indices   []MarketIndex `json:"indices"`
	UpdatedAt int64         `json:"updatedAt"`
	Fallback  bool          `json:"fallback"` // 上游不可用、返回兜底数据时置位
}
