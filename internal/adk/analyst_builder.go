package adk

import (
	"fmt"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"

	"github.com/gurram46/Artha-Agent-sub004/internal/adk/tools"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

var istZone = time.FixedZone("IST", 5*3600+30*60)

// AnalystAgentBuilder 分析师 Agent 构建器
type AnalystAgentBuilder struct {
	llm          model.LLM
	toolRegistry *tools.Registry
}

// NewAnalystAgentBuilder 创建分析师 Agent 构建器
func NewAnalystAgentBuilder(llm model.LLM) *AnalystAgentBuilder {
	return &AnalystAgentBuilder{llm: llm}
}

// NewAnalystAgentBuilderWithTools 创建带工具的分析师 Agent 构建器
func NewAnalystAgentBuilderWithTools(llm model.LLM, registry *tools.Registry) *AnalystAgentBuilder {
	return &AnalystAgentBuilder{llm: llm, toolRegistry: registry}
}

// BuildAgent 根据配置构建 LLM Agent
func (b *AnalystAgentBuilder) BuildAgent(config *models.AnalystConfig, stock *models.Stock, task string) (agent.Agent, error) {
	instruction := b.buildInstruction(config, stock, task)

	// 获取 Agent 配置的工具
	var agentTools []tool.Tool
	if b.toolRegistry != nil && len(config.Tools) > 0 {
		agentTools = b.toolRegistry.GetTools(config.Tools)
	}

	return llmagent.New(llmagent.Config{
		Name:        config.ID,
		Model:       b.llm,
		Description: config.Role,
		Instruction: instruction,
		Tools:       agentTools,
	})
}

// buildInstruction 构建 Agent 指令
func (b *AnalystAgentBuilder) buildInstruction(config *models.AnalystConfig, stock *models.Stock, task string) string {
	baseInstruction := config.Instruction
	if baseInstruction == "" {
		baseInstruction = fmt.Sprintf("You are %s, a %s.", config.Name, config.Role)
	}

	// 构建可用工具说明
	toolsDescription := b.buildToolsDescription(config)

	// 获取当前时间和盘中状态（NSE 交易时间：9:15-15:30 IST，周一至周五）
	now := time.Now().In(istZone)
	timeStr := now.Format("2006-01-02 15:04:05")
	weekday := now.Weekday()
	currentMinutes := now.Hour()*60 + now.Minute()

	var marketStatus string
	if weekday == time.Saturday || weekday == time.Sunday {
		marketStatus = "closed (weekend)"
	} else if currentMinutes < 9*60+15 {
		marketStatus = "pre-open"
	} else if currentMinutes > 15*60+30 {
		marketStatus = "post-close"
	} else {
		marketStatus = "open (regular session)"
	}

	prompt := fmt.Sprintf(`%s
%s
Current time (IST): %s
Market status: %s
`, baseInstruction, toolsDescription, timeStr, marketStatus)

	// 有行情时加入上下文
	if stock != nil {
		prompt += fmt.Sprintf(`
Stock: %s (%s)
Current price: ₹%.2f
Change: %+.2f%%
`, stock.Symbol, stock.Name, stock.Price, stock.ChangePercent)
		if stock.Synthetic {
			prompt += "Note: the quote above is simulated data, treat exact prices as indicative only.\n"
		}
	}

	prompt += "\nTask: " + task
	return prompt
}

// buildToolsDescription 构建可用工具说明
func (b *AnalystAgentBuilder) buildToolsDescription(config *models.AnalystConfig) string {
	if b.toolRegistry == nil || len(config.Tools) == 0 {
		return ""
	}

	toolInfos := b.toolRegistry.GetToolInfosByNames(config.Tools)
	if len(toolInfos) == 0 {
		return ""
	}

	result := "\nAvailable tools:\n"
	for _, info := range toolInfos {
		result += fmt.Sprintf("- %s: %s\n", info.Name, info.Description)
	}
	return result
}
