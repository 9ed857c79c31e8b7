package portfolio

import (
	"testing"
)

// TestEmbeddedFixture 嵌入数据可加载且字段齐全
func TestEmbeddedFixture(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	data := svc.GetFinancialData("demo")
	t.Logf("demo 用户: 净值=%.2f 持仓=%d SIP=%d", data.NetWorth, len(data.Holdings), len(data.SIPs))

	if data.NetWorth <= 0 {
		t.Error("demo 用户净值应为正")
	}
	if len(data.Holdings) == 0 {
		t.Error("demo 用户应有持仓")
	}
	if len(data.SIPs) == 0 {
		t.Error("demo 用户应有定投计划")
	}
	if !data.Spending.Available {
		t.Error("demo 用户支出数据应可用")
	}
	if !data.Goal.Available {
		t.Error("demo 用户目标数据应可用")
	}
}

// TestSparseUser 稀疏档案的 data-unavailable 状态
func TestSparseUser(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	data := svc.GetFinancialData("demo-sparse")
	if data.Spending.Available {
		t.Error("demo-sparse 支出数据应不可用")
	}
	if data.Goal.Available {
		t.Error("demo-sparse 目标数据应不可用")
	}
}

// TestUnknownUserFallback 未知用户回退到演示档案并改写 UserID
func TestUnknownUserFallback(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	data := svc.GetFinancialData("someone-new")
	if data.UserID != "someone-new" {
		t.Errorf("UserID = %q, 期望改写为请求的 ID", data.UserID)
	}
	if data.NetWorth <= 0 {
		t.Error("回退档案净值应为正")
	}
}

// TestFixtureValidation 损坏的 fixture 返回错误
func TestFixtureValidation(t *testing.T) {
	if _, err := newServiceFromJSON([]byte(`{"users": []}`)); err == nil {
		t.Error("空用户列表应返回错误")
	}
	if _, err := newServiceFromJSON([]byte(`not json`)); err == nil {
		t.Error("非法 JSON 应返回错误")
	}
}
