package news

import (
	"strings"
	"testing"
)

// TestFormatToText 快讯文本格式化
func TestFormatToText(t *testing.T) {
	s := &Service{}
	items := []Telegraph{
		{Time: "10:42 AM", Title: "Nifty hits record high", Content: "IT stocks lead the rally."},
		{Title: "RBI holds repo rate"},
		{Title: "Rupee weakens against dollar"},
	}

	text := s.FormatToText(items, 2)
	t.Logf("格式化结果:\n%s", text)

	if !strings.Contains(text, "1. Nifty hits record high (10:42 AM)") {
		t.Error("缺少带时间的第一条标题")
	}
	if !strings.Contains(text, "IT stocks lead the rally.") {
		t.Error("缺少摘要正文")
	}
	if !strings.Contains(text, "2. RBI holds repo rate") {
		t.Error("缺少第二条标题")
	}
	if strings.Contains(text, "Rupee") {
		t.Error("limit=2 不应包含第三条")
	}
}

// TestGetLatestTelegraph 空状态返回 nil
func TestGetLatestTelegraph(t *testing.T) {
	s := &Service{}
	if latest := s.GetLatestTelegraph(); latest != nil {
		t.Errorf("空状态 GetLatestTelegraph = %+v, 期望 nil", latest)
	}

	s.remember([]Telegraph{{Title: "first"}, {Title: "second"}})
	latest := s.GetLatestTelegraph()
	if latest == nil || latest.Title != "first" {
		t.Errorf("GetLatestTelegraph = %+v, 期望第一条", latest)
	}
}
