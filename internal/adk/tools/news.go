package tools

import (
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// GetMarketNewsInput 快讯输入参数
type GetMarketNewsInput struct {
	Limit int `json:"limit,omitzero" jsonschema:"返回条数，默认10条"`
}

// GetMarketNewsOutput 快讯输出
type GetMarketNewsOutput struct {
	Data string `json:"data" jsonschema:"市场快讯列表"`
}

// createNewsTool 创建快讯工具
func (r *Registry) createNewsTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input GetMarketNewsInput) (GetMarketNewsOutput, error) {
		fmt.Printf("[Tool:get_market_news] 调用开始, limit=%d\n", input.Limit)

		items, err := r.newsService.GetTelegraphList()
		if err != nil {
			fmt.Printf("[Tool:get_market_news] 错误: %v\n", err)
			return GetMarketNewsOutput{}, err
		}

		limit := input.Limit
		if limit == 0 {
			limit = 10
		}

		result := r.newsService.FormatToText(items, limit)

		fmt.Printf("[Tool:get_market_news] 调用完成\n")
		return GetMarketNewsOutput{Data: result}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "get_market_news",
		Description: "获取最新市场快讯，来源于 Moneycontrol",
	}, handler)
}
