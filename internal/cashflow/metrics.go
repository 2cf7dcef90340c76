// Package cashflow derives cash-position metrics from ledger entries. All
// functions are pure: the reference date is an explicit argument, never the
// wall clock.
package cashflow

import (
	"time"

	"github.com/meihub/finance-service/internal/models"
)

// ComputeMonthly filters entries to the given month and derives the month's
// metrics. Realized and projected balances net revenue against expense;
// the overdue/upcoming buckets sum raw pending amounts of both kinds
// relative to today (exposure, not net position).
func ComputeMonthly(entries []models.LedgerEntry, month time.Month, year int, today time.Time) models.MonthlyMetrics {
	var m models.MonthlyMetrics
	day := dateOnly(today)

	for _, e := range entries {
		if e.Date.Month() != month || e.Date.Year() != year {
			continue
		}
		switch e.Status {
		case models.StatusSettled:
			if e.Kind == models.KindRevenue {
				m.RealizedBalance = m.RealizedBalance.Add(e.Amount)
			} else {
				m.RealizedBalance = m.RealizedBalance.Sub(e.Amount)
			}
		case models.StatusPending:
			if e.Kind == models.KindRevenue {
				m.PendingReceivable = m.PendingReceivable.Add(e.Amount)
			} else {
				m.PendingPayable = m.PendingPayable.Add(e.Amount)
			}
			if dateOnly(e.Date).Before(day) {
				m.OverdueAmount = m.OverdueAmount.Add(e.Amount)
			} else {
				m.UpcomingAmount = m.UpcomingAmount.Add(e.Amount)
			}
		}
	}

	m.ProjectedBalance = m.RealizedBalance.Add(m.PendingReceivable).Sub(m.PendingPayable)
	return m
}

// dateOnly truncates a timestamp to its calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
