package market

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

// 印度市场交易时段（IST）：09:15 - 15:30
var istZone = time.FixedZone("IST", 5*3600+30*60)

const (
	sessionOpenHour    = 9
	sessionOpenMinute  = 15
	sessionCloseHour   = 15
	sessionCloseMinute = 30
	intradayStep       = 5 * time.Minute
)

// 多日 range 对应的交易日数量
var rangeTradingDays = map[string]int{
	"5d":  5,
	"1w":  5,
	"1mo": 22,
	"3mo": 66,
	"6mo": 132,
	"1y":  252,
}

// SyntheticGenerator 合成行情生成器：上游不可用时的随机游走兜底
type SyntheticGenerator struct {
	now func() time.Time
}

// NewSyntheticGenerator 创建合成行情生成器
func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{now: time.Now}
}

// SetClock 注入时钟（测试用）
func (g *SyntheticGenerator) SetClock(now func() time.Time) {
	g.now = now
}

// Chart 生成 Yahoo chart 形态的合成 OHLCV 序列。
// range "1d" 时仅输出 09:15-15:30 IST、间隔5分钟的时间戳。
func (g *SyntheticGenerator) Chart(symbol, chartRange, interval string) models.ChartResult {
	day := g.now().In(istZone)
	// 同一(股票, 交易日)的序列保持稳定，避免前端每次刷新跳变
	seed := seedFor(symbol, day)
	rng := rand.New(rand.NewSource(seed))
	base := basePriceFor(symbol)

	var timestamps []int64
	if chartRange == "1d" {
		timestamps = intradayTimestamps(day)
		if interval == "" {
			interval = "5m"
		}
	} else {
		days, ok := rangeTradingDays[chartRange]
		if !ok {
			days = 30
		}
		timestamps = dailyTimestamps(day, days)
		if interval == "" {
			interval = "1d"
		}
	}

	quote := randomWalk(rng, base, len(timestamps))

	closes := quote.Close
	lastClose := base
	if len(closes) > 0 {
		lastClose = closes[len(closes)-1]
	}

	return models.ChartResult{
		Meta: models.ChartMeta{
			Currency:           "INR",
			Symbol:             symbol,
			ExchangeName:       "NSI",
			Range:              chartRange,
			DataGranularity:    interval,
			RegularMarketPrice: lastClose,
			ChartPreviousClose: base,
			RegularMarketDayHigh: maxOf(quote.High),
			RegularMarketDayLow:  minOf(quote.Low),
			Synthetic:            true,
		},
		Timestamp: timestamps,
		Indicators: models.ChartIndicators{
			Quote: []models.QuoteIndicator{quote},
		},
	}
}

// Quote 生成合成实时行情
func (g *SyntheticGenerator) Quote(symbol string) models.Stock {
	chart := g.Chart(symbol, "1d", "5m")
	quote := chart.Indicators.Quote[0]
	n := len(quote.Close)

	last := chart.Meta.ChartPreviousClose
	open := last
	var volume int64
	if n > 0 {
		last = quote.Close[n-1]
		open = quote.Open[0]
		for _, v := range quote.Volume {
			volume += v
		}
	}

	preClose := chart.Meta.ChartPreviousClose
	change := last - preClose
	changePct := 0.0
	if preClose > 0 {
		changePct = change / preClose * 100
	}

	return models.Stock{
		Symbol:        symbol,
		Name:          symbol,
		Exchange:      "NSE",
		Currency:      "INR",
		Price:         last,
		Change:        change,
		ChangePercent: changePct,
		Volume:        volume,
		Open:          open,
		High:          chart.Meta.RegularMarketDayHigh,
		Low:           chart.Meta.RegularMarketDayLow,
		PreClose:      preClose,
		Source:        "synthetic",
		Synthetic:     true,
	}
}

// intradayTimestamps 当日 09:15-15:30 IST、5分钟间隔（含首尾）
func intradayTimestamps(day time.Time) []int64 {
	open := time.Date(day.Year(), day.Month(), day.Day(),
		sessionOpenHour, sessionOpenMinute, 0, 0, istZone)
	close := time.Date(day.Year(), day.Month(), day.Day(),
		sessionCloseHour, sessionCloseMinute, 0, 0, istZone)

	var stamps []int64
	for t := open; !t.After(close); t = t.Add(intradayStep) {
		stamps = append(stamps, t.Unix())
	}
	return stamps
}

// dailyTimestamps 最近 n 个交易日的收盘时间戳（跳过周末，升序）
func dailyTimestamps(day time.Time, n int) []int64 {
	stamps := make([]int64, 0, n)
	t := time.Date(day.Year(), day.Month(), day.Day(),
		sessionCloseHour, sessionCloseMinute, 0, 0, istZone)
	for len(stamps) < n {
		if t.Weekday() != time.Saturday && t.Weekday() != time.Sunday {
			stamps = append(stamps, t.Unix())
		}
		t = t.AddDate(0, 0, -1)
	}
	// 倒序收集后翻转为升序
	for i, j := 0, len(stamps)-1; i < j; i, j = i+1, j-1 {
		stamps[i], stamps[j] = stamps[j], stamps[i]
	}
	return stamps
}

// randomWalk 以 base 为起点的随机游走，价格不为负
func randomWalk(rng *rand.Rand, base float64, n int) models.QuoteIndicator {
	quote := models.QuoteIndicator{
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]int64, n),
	}

	price := base
	for i := 0; i < n; i++ {
		open := price
		drift := rng.NormFloat64() * base * 0.002
		close := math.Max(0, open+drift)
		spread := math.Abs(rng.NormFloat64()) * base * 0.001

		quote.Open[i] = round2(open)
		quote.Close[i] = round2(close)
		quote.High[i] = round2(math.Max(open, close) + spread)
		quote.Low[i] = round2(math.Max(0, math.Min(open, close)-spread))
		quote.Volume[i] = 10000 + rng.Int63n(990000)

		price = close
	}
	return quote
}

// seedFor 由股票代码+交易日派生随机种子
func seedFor(symbol string, day time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	h.Write([]byte(day.Format("2006-01-02")))
	return int64(h.Sum64())
}

// basePriceFor 由股票代码派生一个稳定的基准价（100 - 5100 区间）
func basePriceFor(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 100 + float64(h.Sum32()%50000)/10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxOf(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals {
		if v < m {
			m = v
		}
	}
	return m
}
