package market

import (
	"testing"
	"time"
)

// TestSyntheticIntraday range "1d"：时间戳均落在 09:15-15:30 IST 且间隔5分钟
func TestSyntheticIntraday(t *testing.T) {
	g := NewSyntheticGenerator()
	g.SetClock(func() time.Time {
		return time.Date(2025, 6, 2, 12, 0, 0, 0, istZone) // 周一
	})

	chart := g.Chart("RELIANCE.NS", "1d", "5m")

	if len(chart.Timestamp) == 0 {
		t.Fatal("未生成任何时间戳")
	}
	t.Logf("生成 %d 个时间戳", len(chart.Timestamp))

	// 09:15 到 15:30 每5分钟一个点，含首尾共 76 个
	if len(chart.Timestamp) != 76 {
		t.Errorf("时间戳数量 = %d, 期望 76", len(chart.Timestamp))
	}

	for i, ts := range chart.Timestamp {
		tm := time.Unix(ts, 0).In(istZone)
		minutes := tm.Hour()*60 + tm.Minute()
		if minutes < 9*60+15 || minutes > 15*60+30 {
			t.Errorf("时间戳 %d (%s) 超出交易时段", i, tm.Format("15:04"))
		}
		if i > 0 {
			gap := ts - chart.Timestamp[i-1]
			if gap != 300 {
				t.Errorf("第 %d 个间隔 = %ds, 期望 300s", i, gap)
			}
		}
	}
}

// TestSyntheticNonNegative 随机游走价格不为负
func TestSyntheticNonNegative(t *testing.T) {
	g := NewSyntheticGenerator()
	chart := g.Chart("TCS.NS", "1y", "1d")

	quote := chart.Indicators.Quote[0]
	for i := range quote.Close {
		if quote.Low[i] < 0 || quote.Close[i] < 0 || quote.Open[i] < 0 {
			t.Fatalf("第 %d 根K线出现负价格: open=%v low=%v close=%v",
				i, quote.Open[i], quote.Low[i], quote.Close[i])
		}
		if quote.High[i] < quote.Low[i] {
			t.Fatalf("第 %d 根K线最高价低于最低价", i)
		}
		if quote.Volume[i] <= 0 {
			t.Fatalf("第 %d 根K线成交量非正", i)
		}
	}
}

// TestSyntheticDailySkipsWeekend 多日序列跳过周末
func TestSyntheticDailySkipsWeekend(t *testing.T) {
	g := NewSyntheticGenerator()
	chart := g.Chart("INFY.NS", "1mo", "1d")

	if len(chart.Timestamp) != 22 {
		t.Errorf("1mo 交易日数量 = %d, 期望 22", len(chart.Timestamp))
	}
	for _, ts := range chart.Timestamp {
		wd := time.Unix(ts, 0).In(istZone).Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Errorf("时间戳落在周末: %s", time.Unix(ts, 0).In(istZone))
		}
	}
}

// TestSyntheticDeterministic 同一(股票, 交易日)的序列稳定
func TestSyntheticDeterministic(t *testing.T) {
	fixed := time.Date(2025, 6, 2, 12, 0, 0, 0, istZone)
	g1 := NewSyntheticGenerator()
	g1.SetClock(func() time.Time { return fixed })
	g2 := NewSyntheticGenerator()
	g2.SetClock(func() time.Time { return fixed })

	c1 := g1.Chart("HDFCBANK.NS", "1d", "5m")
	c2 := g2.Chart("HDFCBANK.NS", "1d", "5m")

	q1, q2 := c1.Indicators.Quote[0], c2.Indicators.Quote[0]
	for i := range q1.Close {
		if q1.Close[i] != q2.Close[i] {
			t.Fatalf("第 %d 个收盘价不一致: %v != %v", i, q1.Close[i], q2.Close[i])
		}
	}
}
