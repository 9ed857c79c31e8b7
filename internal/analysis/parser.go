// Package analysis 将模型的自由文本建议解析为结构化记录。
// 解析永不报错：字段缺失时填默认值，并通过 ParseStatus 标记降级，
// 调用方据此区分"模型真的建议 Hold"和"解析失败"。
package analysis

import (
	"strconv"
	"strings"

	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

// 解析失败时的默认值
const (
	DefaultScore      = 50
	DefaultSentiment  = models.SentimentHold
	DefaultConfidence = 0.7
)

// section 当前扫描到的模板区块
type section int

const (
	sectionNone section = iota
	sectionScore
	sectionSentiment
	sectionStrengths
	sectionConcerns
	sectionConsiderations
	sectionConfidence
)

// 区块头到 section 的映射，长前缀在前避免误匹配
var sectionHeaders = []struct {
	prefix string
	sec    section
}{
	{"RECOMMENDATION SCORE", sectionScore},
	{"INVESTMENT SENTIMENT", sectionSentiment},
	{"KEY STRENGTHS", sectionStrengths},
	{"STRENGTHS", sectionStrengths},
	{"KEY CONCERNS", sectionConcerns},
	{"CONCERNS", sectionConcerns},
	{"KEY CONSIDERATIONS", sectionConsiderations},
	{"CONSIDERATIONS", sectionConsiderations},
	{"CONFIDENCE", sectionConfidence},
	{"SENTIMENT", sectionSentiment},
	{"SCORE", sectionScore},
}

// ParseRecommendation 按行扫描模型输出，维护区块游标，尽力而为地提取字段
func ParseRecommendation(symbol, raw string) models.Recommendation {
	rec := models.Recommendation{
		Symbol:     symbol,
		Score:      DefaultScore,
		Sentiment:  DefaultSentiment,
		Confidence: DefaultConfidence,
		RawText:    raw,
	}

	current := sectionNone
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if sec, rest, ok := matchHeader(line); ok {
			current = sec
			// 区块头同行携带的取值（如 "RECOMMENDATION SCORE: 72"）
			if rest != "" {
				consumeValue(&rec, current, rest)
			}
			continue
		}

		switch current {
		case sectionStrengths, sectionConcerns, sectionConsiderations:
			if item, ok := stripBullet(line); ok {
				appendItem(&rec, current, item)
			}
		case sectionScore, sectionSentiment, sectionConfidence:
			consumeValue(&rec, current, line)
		}
	}

	rec.ParseStatus.Degraded = !rec.ParseStatus.ScoreParsed ||
		!rec.ParseStatus.SentimentParsed ||
		!rec.ParseStatus.ConfidenceParsed
	return rec
}

// matchHeader 判断该行是否为区块头，返回冒号后的剩余内容
func matchHeader(line string) (section, string, bool) {
	cleaned := strings.TrimLeft(line, "#*-• \t")
	upper := strings.ToUpper(cleaned)

	for _, h := range sectionHeaders {
		if !strings.HasPrefix(upper, h.prefix) {
			continue
		}
		rest := cleaned[len(h.prefix):]
		rest = strings.TrimSpace(strings.TrimLeft(rest, ":："))
		return h.sec, rest, true
	}
	return sectionNone, "", false
}

// stripBullet 去掉项目符号，非列表行返回 false
func stripBullet(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• ", "– "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):]), true
		}
	}
	// 数字编号："1. xxx" / "2) xxx"
	if len(line) > 2 && line[0] >= '0' && line[0] <= '9' {
		if idx := strings.IndexAny(line, ".)"); idx > 0 && idx <= 2 {
			return strings.TrimSpace(line[idx+1:]), true
		}
	}
	return "", false
}

// appendItem 追加条目到当前区块的列表
func appendItem(rec *models.Recommendation, sec section, item string) {
	if item == "" {
		return
	}
	switch sec {
	case sectionStrengths:
		rec.Strengths = append(rec.Strengths, item)
	case sectionConcerns:
		rec.Concerns = append(rec.Concerns, item)
	case sectionConsiderations:
		rec.Considerations = append(rec.Considerations, item)
	}
}

// consumeValue 解析数值/情绪区块的取值，失败时保持默认值不动
func consumeValue(rec *models.Recommendation, sec section, text string) {
	switch sec {
	case sectionScore:
		if rec.ParseStatus.ScoreParsed {
			return
		}
		if v, ok := firstNumber(text); ok {
			rec.Score = clampInt(int(v), 0, 100)
			rec.ParseStatus.ScoreParsed = true
		}
	case sectionSentiment:
		if rec.ParseStatus.SentimentParsed {
			return
		}
		if s, ok := normalizeSentiment(text); ok {
			rec.Sentiment = s
			rec.ParseStatus.SentimentParsed = true
		}
	case sectionConfidence:
		if rec.ParseStatus.ConfidenceParsed {
			return
		}
		if v, ok := firstNumber(text); ok {
			// 模型偶尔输出百分数形式（如 85 或 85%）
			if v > 1 {
				v = v / 100
			}
			rec.Confidence = clampFloat(v, 0, 1)
			rec.ParseStatus.ConfidenceParsed = true
		}
	}
}

// firstNumber 提取文本中的第一个数字 token
func firstNumber(text string) (float64, bool) {
	var sb strings.Builder
	started := false
	for _, r := range text {
		if (r >= '0' && r <= '9') || (started && r == '.') {
			sb.WriteRune(r)
			started = true
			continue
		}
		if started {
			break
		}
	}
	if !started {
		return 0, false
	}
	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeSentiment 归一化为五档情绪字面量，长词优先
func normalizeSentiment(text string) (string, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "strong buy"):
		return models.SentimentStrongBuy, true
	case strings.Contains(lower, "strong sell"):
		return models.SentimentStrongSell, true
	case strings.Contains(lower, "buy"):
		return models.SentimentBuy, true
	case strings.Contains(lower, "sell"):
		return models.SentimentSell, true
	case strings.Contains(lower, "hold"), strings.Contains(lower, "neutral"):
		return models.SentimentHold, true
	}
	return "", false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
