package cashflow

import (
	"testing"

	"github.com/meihub/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

// offsetEntry builds an entry dated a number of days from the fixed today.
func offsetEntry(t *testing.T, kind, status, amount string, dayOffset int) models.LedgerEntry {
	t.Helper()
	return models.LedgerEntry{
		Kind:   kind,
		Status: status,
		Amount: decimal.RequireFromString(amount),
		Date:   today.AddDate(0, 0, dayOffset),
	}
}

func TestForecast_NegativeCrossing(t *testing.T) {
	// Settled revenue of 100 yesterday, pending expense of 200 in 3 days:
	// starting balance 100 goes to -100 on day 3.
	entries := []models.LedgerEntry{
		offsetEntry(t, models.KindRevenue, models.StatusSettled, "100.00", -1),
		offsetEntry(t, models.KindExpense, models.StatusPending, "200.00", 3),
	}

	f := Forecast(entries, today, 30)
	if !f.IsProjectedNegative {
		t.Fatal("IsProjectedNegative = false, want true")
	}
	if f.DaysUntilNegative != 3 {
		t.Errorf("DaysUntilNegative = %d, want 3", f.DaysUntilNegative)
	}
}

func TestForecast_NoCrossing(t *testing.T) {
	entries := []models.LedgerEntry{
		offsetEntry(t, models.KindRevenue, models.StatusSettled, "500.00", -10),
		offsetEntry(t, models.KindExpense, models.StatusPending, "100.00", 5),
		offsetEntry(t, models.KindRevenue, models.StatusPending, "50.00", 2),
	}

	f := Forecast(entries, today, 30)
	if f.IsProjectedNegative {
		t.Errorf("IsProjectedNegative = true, want false")
	}
}

func TestForecast_EmptyEntries(t *testing.T) {
	f := Forecast(nil, today, 30)
	if f.IsProjectedNegative {
		t.Error("empty entry set must not project negative")
	}
}

func TestForecast_SeedSpansAllTime(t *testing.T) {
	// The seed is a running balance over all settled history, not the
	// current month.
	entries := []models.LedgerEntry{
		offsetEntry(t, models.KindRevenue, models.StatusSettled, "300.00", -90),
		offsetEntry(t, models.KindExpense, models.StatusPending, "250.00", 4),
	}

	f := Forecast(entries, today, 30)
	if f.IsProjectedNegative {
		t.Errorf("balance 300 - 250 stays positive, got negative at day %d", f.DaysUntilNegative)
	}
}

func TestForecast_FutureSettledExcludedFromSeed(t *testing.T) {
	entries := []models.LedgerEntry{
		offsetEntry(t, models.KindRevenue, models.StatusSettled, "300.00", 10),
		offsetEntry(t, models.KindExpense, models.StatusPending, "50.00", 2),
	}

	f := Forecast(entries, today, 30)
	if !f.IsProjectedNegative || f.DaysUntilNegative != 2 {
		t.Errorf("forecast = %+v, want negative at day 2 (future settled entry must not seed)", f)
	}
}

func TestForecast_FirstCrossingOnly(t *testing.T) {
	entries := []models.LedgerEntry{
		offsetEntry(t, models.KindExpense, models.StatusPending, "100.00", 2),
		offsetEntry(t, models.KindRevenue, models.StatusPending, "500.00", 5),
		offsetEntry(t, models.KindExpense, models.StatusPending, "900.00", 8),
	}

	f := Forecast(entries, today, 30)
	if !f.IsProjectedNegative {
		t.Fatal("IsProjectedNegative = false, want true")
	}
	if f.DaysUntilNegative != 2 {
		t.Errorf("DaysUntilNegative = %d, want first crossing at 2", f.DaysUntilNegative)
	}
}

func TestForecast_PendingBeforeTodayIgnored(t *testing.T) {
	entries := []models.LedgerEntry{
		offsetEntry(t, models.KindExpense, models.StatusPending, "1000.00", -5),
		offsetEntry(t, models.KindRevenue, models.StatusSettled, "50.00", -1),
	}

	f := Forecast(entries, today, 30)
	if f.IsProjectedNegative {
		t.Error("pending entries before today must not enter the walk")
	}
}

func TestForecast_OutsideHorizonIgnored(t *testing.T) {
	entries := []models.LedgerEntry{
		offsetEntry(t, models.KindExpense, models.StatusPending, "1000.00", 31),
	}

	f := Forecast(entries, today, 30)
	if f.IsProjectedNegative {
		t.Error("entries beyond the horizon must not trigger a crossing")
	}
}

func TestForecast_AddedRevenuePreservesPositivity(t *testing.T) {
	base := []models.LedgerEntry{
		offsetEntry(t, models.KindRevenue, models.StatusSettled, "100.00", -1),
		offsetEntry(t, models.KindExpense, models.StatusPending, "90.00", 6),
	}
	if f := Forecast(base, today, 30); f.IsProjectedNegative {
		t.Fatal("base scenario should not be negative")
	}

	withRevenue := append([]models.LedgerEntry{
		offsetEntry(t, models.KindRevenue, models.StatusPending, "40.00", 3),
	}, base...)
	if f := Forecast(withRevenue, today, 30); f.IsProjectedNegative {
		t.Error("adding pending revenue turned a clean forecast negative")
	}
}

func TestForecast_DefaultHorizon(t *testing.T) {
	entries := []models.LedgerEntry{
		offsetEntry(t, models.KindExpense, models.StatusPending, "10.00", 20),
	}

	f := Forecast(entries, today, 0)
	if !f.IsProjectedNegative || f.DaysUntilNegative != 20 {
		t.Errorf("forecast = %+v, want crossing at day 20 under the default horizon", f)
	}
}
