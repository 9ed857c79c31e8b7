package tools

import (
	"fmt"
	"time"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// GetStockChartInput 走势数据输入参数
type GetStockChartInput struct {
	Symbol   string `json:"symbol" jsonschema:"股票代码，如 RELIANCE"`
	Range    string `json:"range,omitempty" jsonschema:"时间区间: 1d, 5d, 1mo, 3mo, 6mo, 1y，默认1mo"`
	Interval string `json:"interval,omitempty" jsonschema:"采样粒度: 5m(仅1d), 1d，默认1d"`
}

// GetStockChartOutput 走势数据输出
type GetStockChartOutput struct {
	Data string `json:"data" jsonschema:"OHLCV 走势数据"`
}

// createChartTool 创建走势数据工具
func (r *Registry) createChartTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input GetStockChartInput) (GetStockChartOutput, error) {
		fmt.Printf("[Tool:get_stock_chart] 调用开始, symbol=%s, range=%s, interval=%s\n", input.Symbol, input.Range, input.Interval)

		if input.Symbol == "" {
			fmt.Println("[Tool:get_stock_chart] 错误: 未提供股票代码")
			return GetStockChartOutput{Data: "Please provide a stock symbol."}, nil
		}

		chartRange := input.Range
		if chartRange == "" {
			chartRange = "1mo"
		}
		interval := input.Interval
		if interval == "" {
			interval = "1d"
		}

		chart := r.marketService.GetChart(ctx, input.Symbol, chartRange, interval)
		if len(chart.Timestamp) == 0 || len(chart.Indicators.Quote) == 0 {
			return GetStockChartOutput{Data: "No chart data available."}, nil
		}

		// 只取最近20个点避免过长
		quote := chart.Indicators.Quote[0]
		start := 0
		if len(chart.Timestamp) > 20 {
			start = len(chart.Timestamp) - 20
		}
		var result string
		for i := start; i < len(chart.Timestamp); i++ {
			ts := time.Unix(chart.Timestamp[i], 0).Format("2006-01-02 15:04")
			result += fmt.Sprintf("%s: O %.2f H %.2f L %.2f C %.2f V %d\n",
				ts, quote.Open[i], quote.High[i], quote.Low[i], quote.Close[i], quote.Volume[i])
		}
		if chart.Meta.Synthetic {
			result += "(simulated data)\n"
		}

		fmt.Printf("[Tool:get_stock_chart] 调用完成, 返回%d个数据点\n", len(chart.Timestamp)-start)
		return GetStockChartOutput{Data: result}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "get_stock_chart",
		Description: "获取股票历史走势数据（OHLCV），支持日内5分钟线与日线",
	}, handler)
}
