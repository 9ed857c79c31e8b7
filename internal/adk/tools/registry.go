package tools

import (
	"fmt"

	"google.golang.org/adk/tool"

	"github.com/gurram46/Artha-Agent-sub004/internal/services/market"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/news"
)

// ToolInfo 工具信息（供 Agent 指令中的工具说明使用）
type ToolInfo struct {
	Name        string
	Description string
}

// Registry 内置工具注册表
type Registry struct {
	marketService *market.Service
	newsService   *news.Service

	tools map[string]tool.Tool
	infos map[string]ToolInfo
	order []string
}

// NewRegistry 创建工具注册表并注册全部内置工具
func NewRegistry(marketService *market.Service, newsService *news.Service) (*Registry, error) {
	r := &Registry{
		marketService: marketService,
		newsService:   newsService,
		tools:         make(map[string]tool.Tool),
		infos:         make(map[string]ToolInfo),
	}

	builders := []struct {
		name        string
		description string
		create      func() (tool.Tool, error)
	}{
		{"get_stock_quote", "获取股票实时行情，包括当前价格、涨跌幅、开盘价、最高价、最低价、成交量", r.createQuoteTool},
		{"get_stock_chart", "获取股票历史走势数据，支持 1d/5d/1mo/3mo/6mo/1y 区间", r.createChartTool},
		{"get_market_news", "获取最新市场快讯", r.createNewsTool},
	}

	for _, b := range builders {
		t, err := b.create()
		if err != nil {
			return nil, fmt.Errorf("create tool %s error: %w", b.name, err)
		}
		r.tools[b.name] = t
		r.infos[b.name] = ToolInfo{Name: b.name, Description: b.description}
		r.order = append(r.order, b.name)
	}

	return r, nil
}

// GetTools 根据名称列表获取工具
func (r *Registry) GetTools(names []string) []tool.Tool {
	result := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		if t, ok := r.tools[name]; ok {
			result = append(result, t)
		}
	}
	return result
}

// GetToolInfosByNames 根据名称列表获取工具信息
func (r *Registry) GetToolInfosByNames(names []string) []ToolInfo {
	result := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		if info, ok := r.infos[name]; ok {
			result = append(result, info)
		}
	}
	return result
}

// Names 返回全部工具名（注册顺序）
func (r *Registry) Names() []string {
	return r.order
}
