package tools

import (
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// GetStockQuoteInput 实时行情输入参数
type GetStockQuoteInput struct {
	Symbols []string `json:"symbols" jsonschema:"股票代码列表，如 RELIANCE, TCS, INFY.NS"`
}

// GetStockQuoteOutput 实时行情输出
type GetStockQuoteOutput struct {
	Data string `json:"data" jsonschema:"股票实时数据，包含价格、涨跌幅等信息"`
}

// createQuoteTool 创建实时行情工具
func (r *Registry) createQuoteTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input GetStockQuoteInput) (GetStockQuoteOutput, error) {
		fmt.Printf("[Tool:get_stock_quote] 调用开始, symbols=%v\n", input.Symbols)

		if len(input.Symbols) == 0 {
			fmt.Println("[Tool:get_stock_quote] 错误: 未提供股票代码")
			return GetStockQuoteOutput{Data: "Please provide at least one stock symbol."}, nil
		}

		stocks := r.marketService.GetQuotes(ctx, input.Symbols)

		var result string
		for _, s := range stocks {
			line := fmt.Sprintf("[%s (%s)] Price: ₹%.2f Change: %+.2f%% Open: %.2f High: %.2f Low: %.2f Volume: %d",
				s.Name, s.Symbol, s.Price, s.ChangePercent, s.Open, s.High, s.Low, s.Volume)
			if s.Synthetic {
				line += " (simulated data)"
			}
			result += line + "\n"
		}

		fmt.Printf("[Tool:get_stock_quote] 调用完成, 返回%d条数据\n", len(stocks))
		return GetStockQuoteOutput{Data: result}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "get_stock_quote",
		Description: "获取股票实时行情数据，包括当前价格、涨跌幅、开盘价、最高价、最低价、成交量等",
	}, handler)
}
