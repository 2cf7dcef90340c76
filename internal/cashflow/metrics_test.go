package cashflow

import (
	"testing"
	"time"

	"github.com/meihub/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

// entry builds a ledger entry for a day of June 2024.
func entry(t *testing.T, kind, status string, amount string, day int) models.LedgerEntry {
	t.Helper()
	return models.LedgerEntry{
		Kind:   kind,
		Status: status,
		Amount: decimal.RequireFromString(amount),
		Date:   time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
	}
}

func wantDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got.String(), want)
	}
}

func TestComputeMonthly_EmptyEntries(t *testing.T) {
	m := ComputeMonthly(nil, time.June, 2024, today)

	for name, v := range map[string]decimal.Decimal{
		"RealizedBalance":   m.RealizedBalance,
		"PendingReceivable": m.PendingReceivable,
		"PendingPayable":    m.PendingPayable,
		"ProjectedBalance":  m.ProjectedBalance,
		"OverdueAmount":     m.OverdueAmount,
		"UpcomingAmount":    m.UpcomingAmount,
	} {
		if !v.IsZero() {
			t.Errorf("%s = %s, want 0", name, v.String())
		}
	}
}

func TestComputeMonthly_Balances(t *testing.T) {
	entries := []models.LedgerEntry{
		entry(t, models.KindRevenue, models.StatusSettled, "1000.00", 5),
		entry(t, models.KindExpense, models.StatusSettled, "300.00", 6),
		entry(t, models.KindRevenue, models.StatusPending, "500.00", 20),
		entry(t, models.KindExpense, models.StatusPending, "200.00", 25),
	}

	m := ComputeMonthly(entries, time.June, 2024, today)
	wantDecimal(t, "RealizedBalance", m.RealizedBalance, "700.00")
	wantDecimal(t, "PendingReceivable", m.PendingReceivable, "500.00")
	wantDecimal(t, "PendingPayable", m.PendingPayable, "200.00")
	wantDecimal(t, "ProjectedBalance", m.ProjectedBalance, "1000.00")
}

func TestComputeMonthly_ProjectedIdentity(t *testing.T) {
	entries := []models.LedgerEntry{
		entry(t, models.KindRevenue, models.StatusSettled, "120.55", 1),
		entry(t, models.KindExpense, models.StatusSettled, "80.10", 2),
		entry(t, models.KindRevenue, models.StatusPending, "33.33", 10),
		entry(t, models.KindRevenue, models.StatusPending, "66.67", 28),
		entry(t, models.KindExpense, models.StatusPending, "45.00", 14),
	}

	m := ComputeMonthly(entries, time.June, 2024, today)
	identity := m.RealizedBalance.Add(m.PendingReceivable).Sub(m.PendingPayable)
	if !m.ProjectedBalance.Equal(identity) {
		t.Errorf("ProjectedBalance = %s, want realized+receivable-payable = %s",
			m.ProjectedBalance.String(), identity.String())
	}

	exposure := m.OverdueAmount.Add(m.UpcomingAmount)
	pending := m.PendingReceivable.Add(m.PendingPayable)
	if !exposure.Equal(pending) {
		t.Errorf("overdue+upcoming = %s, want receivable+payable = %s",
			exposure.String(), pending.String())
	}
}

func TestComputeMonthly_ExposureBucketsDoNotNet(t *testing.T) {
	// A pending revenue before today and a pending expense before today both
	// land in the overdue bucket at their raw amounts.
	entries := []models.LedgerEntry{
		entry(t, models.KindRevenue, models.StatusPending, "100.00", 10),
		entry(t, models.KindExpense, models.StatusPending, "40.00", 12),
		entry(t, models.KindExpense, models.StatusPending, "25.00", 20),
	}

	m := ComputeMonthly(entries, time.June, 2024, today)
	wantDecimal(t, "OverdueAmount", m.OverdueAmount, "140.00")
	wantDecimal(t, "UpcomingAmount", m.UpcomingAmount, "25.00")
}

func TestComputeMonthly_EntryOnTodayIsUpcoming(t *testing.T) {
	entries := []models.LedgerEntry{
		entry(t, models.KindExpense, models.StatusPending, "50.00", 15),
	}

	m := ComputeMonthly(entries, time.June, 2024, today)
	wantDecimal(t, "OverdueAmount", m.OverdueAmount, "0")
	wantDecimal(t, "UpcomingAmount", m.UpcomingAmount, "50.00")
}

func TestComputeMonthly_FiltersOtherMonths(t *testing.T) {
	mayEntry := models.LedgerEntry{
		Kind:   models.KindRevenue,
		Status: models.StatusSettled,
		Amount: decimal.RequireFromString("999.00"),
		Date:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	}
	entries := []models.LedgerEntry{
		mayEntry,
		entry(t, models.KindRevenue, models.StatusSettled, "10.00", 1),
	}

	m := ComputeMonthly(entries, time.June, 2024, today)
	wantDecimal(t, "RealizedBalance", m.RealizedBalance, "10.00")
}
