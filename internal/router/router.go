// Package router 将用户消息按关键词路由到对应的理财助手。
// 静态子串匹配，不做打分、否定词或多语言处理。
package router

import (
	"strings"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

// 四组固定关键词，匹配顺序 past -> present -> future -> coordinator
var keywordGroups = []struct {
	agent    models.AgentType
	keywords []string
}{
	{models.AgentPast, []string{
		"portfolio", "performance", "history", "past", "returns", "xirr", "invested",
	}},
	{models.AgentPresent, []string{
		"spending", "expense", "budget", "current", "balance", "cash", "emi",
	}},
	{models.AgentFuture, []string{
		"future", "goal", "plan", "retirement", "sip", "projection", "save",
	}},
	{models.AgentCoordinator, []string{
		"advice", "suggest", "help", "overall",
	}},
}

// Route 返回非空的有序助手集合；无任何命中时恰好为 {coordinator}
func Route(message string) []models.AgentType {
	lower := strings.ToLower(message)

	var result []models.AgentType
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				result = append(result, group.agent)
				break
			}
		}
	}

	if len(result) == 0 {
		return []models.AgentType{models.AgentCoordinator}
	}
	return result
}

// Matches 判断消息是否命中指定助手的关键词组
func Matches(message string, agent models.AgentType) bool {
	for _, a := range Route(message) {
		if a == agent {
			return true
		}
	}
	return false
}
