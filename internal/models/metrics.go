package models

import "github.com/shopspring/decimal"

// MonthlyMetrics represents the cash position of a single month. Derived on
// demand, never persisted.
//
// RealizedBalance and ProjectedBalance net revenue against expense;
// OverdueAmount and UpcomingAmount deliberately do not: they sum raw pending
// amounts of both kinds, because they measure exposure, not solvency.
type MonthlyMetrics struct {
	RealizedBalance   decimal.Decimal `json:"realized_balance"`
	PendingReceivable decimal.Decimal `json:"pending_receivable"`
	PendingPayable    decimal.Decimal `json:"pending_payable"`
	ProjectedBalance  decimal.Decimal `json:"projected_balance"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
	UpcomingAmount    decimal.Decimal `json:"upcoming_amount"`
}

// LiquidityForecast reports whether the running cash balance goes negative
// within the forecast horizon. DaysUntilNegative is the 1-based day offset
// from today of the first crossing (tomorrow = 1) and is only meaningful
// when IsProjectedNegative is true.
type LiquidityForecast struct {
	IsProjectedNegative bool `json:"is_projected_negative"`
	DaysUntilNegative   int  `json:"days_until_negative,omitempty"`
}
