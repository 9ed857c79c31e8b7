package models

// Holding 持仓条目（演示数据，仅用于展示）
type Holding struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Units        float64 `json:"units"`
	AvgCost      float64 `json:"avgCost"`
	CurrentValue float64 `json:"currentValue"`
	InvestedValue float64 `json:"investedValue"`
	XIRR         float64 `json:"xirr"` // 年化收益率，展示用
}

// SIPPlan 定投计划
type SIPPlan struct {
	FundName     string  `json:"fundName"`
	MonthlyAmount float64 `json:"monthlyAmount"`
	StartDate    string  `json:"startDate"` // YYYY-MM-DD
	Active       bool    `json:"active"`
}

// SpendingSummary 支出概览；后端数据源缺失时 Available=false
type SpendingSummary struct {
	Available    bool    `json:"available"`
	MonthTotal   float64 `json:"monthTotal,omitempty"`
	BudgetLimit  float64 `json:"budgetLimit,omitempty"`
	TopCategory  string  `json:"topCategory,omitempty"`
}

// GoalSummary 目标概览；后端数据源缺失时 Available=false
type GoalSummary struct {
	Available bool    `json:"available"`
	Name      string  `json:"name,omitempty"`
	Target    float64 `json:"target,omitempty"`
	Saved     float64 `json:"saved,omitempty"`
	TargetYear int    `json:"targetYear,omitempty"`
}

// FinancialData 用户财务数据快照（GET /api/financial-data/{user_id}）
type FinancialData struct {
	UserID        string          `json:"userId"`
	NetWorth      float64         `json:"netWorth"`
	TotalInvested float64         `json:"totalInvested"`
	TotalReturns  float64         `json:"totalReturns"`
	PortfolioXIRR float64         `json:"portfolioXirr"`
	Holdings      []Holding       `json:"holdings"`
	SIPs          []SIPPlan       `json:"sips"`
	Spending      SpendingSummary `json:"spending"`
	Goal          GoalSummary     `json:"goal"`
}
