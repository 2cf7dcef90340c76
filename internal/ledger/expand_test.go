package ledger

import (
	"testing"
	"time"

	"github.com/meihub/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

func baseRequest() models.SeriesRequest {
	return models.SeriesRequest{
		CompanyID:      1,
		Description:    "Aluguel do ponto",
		Category:       "moradia",
		Kind:           models.KindExpense,
		Amount:         decimal.RequireFromString("1200.00"),
		Date:           time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:         models.StatusSettled,
		RepetitionMode: models.RepetitionNone,
	}
}

func TestExpand_SingleEntry(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := Expand(baseRequest(), now)

	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Status != models.StatusSettled {
		t.Errorf("Status = %q, want settled", e.Status)
	}
	if e.SeriesID != "" {
		t.Errorf("SeriesID = %q, want empty for a single entry", e.SeriesID)
	}
	if e.Installment != nil || e.IsRecurring {
		t.Error("single entry must carry no series metadata")
	}
	if !e.Date.Equal(baseRequest().Date) {
		t.Errorf("Date = %v, want %v", e.Date, baseRequest().Date)
	}
}

func TestExpand_InstallmentSequence(t *testing.T) {
	req := baseRequest()
	req.RepetitionMode = models.RepetitionInstallment
	req.Count = 4
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	entries := Expand(req, now)
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}

	seen := make(map[int64]bool)
	for i, e := range entries {
		if e.Installment == nil {
			t.Fatalf("entry %d has no installment info", i)
		}
		if e.Installment.Number != i+1 || e.Installment.Total != 4 {
			t.Errorf("entry %d installment = %d/%d, want %d/4", i, e.Installment.Number, e.Installment.Total, i+1)
		}
		if e.IsRecurring {
			t.Errorf("entry %d marked recurring in installment mode", i)
		}
		want := req.Date.AddDate(0, i, 0)
		if !e.Date.Equal(want) {
			t.Errorf("entry %d date = %v, want %v", i, e.Date, want)
		}
		if e.SeriesID != entries[0].SeriesID || e.SeriesID == "" {
			t.Errorf("entry %d series id = %q, want shared non-empty id", i, e.SeriesID)
		}
		if seen[e.ID] {
			t.Errorf("duplicate entry id %d", e.ID)
		}
		seen[e.ID] = true
	}

	if entries[0].Status != models.StatusSettled {
		t.Errorf("first entry status = %q, want requested settled", entries[0].Status)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Status != models.StatusPending {
			t.Errorf("entry %d status = %q, want forced pending", i, entries[i].Status)
		}
	}
}

func TestExpand_RecurringFlags(t *testing.T) {
	req := baseRequest()
	req.RepetitionMode = models.RepetitionRecurring
	req.Count = 3

	entries := Expand(req, time.Now())
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if !e.IsRecurring {
			t.Errorf("entry %d IsRecurring = false, want true", i)
		}
		if e.Installment != nil {
			t.Errorf("entry %d carries installment info in recurring mode", i)
		}
	}
}

func TestExpand_CountClamped(t *testing.T) {
	for _, count := range []int{-1, 0, 1} {
		req := baseRequest()
		req.RepetitionMode = models.RepetitionInstallment
		req.Count = count

		entries := Expand(req, time.Now())
		if len(entries) != 1 {
			t.Fatalf("count %d: len(entries) = %d, want 1", count, len(entries))
		}
		if entries[0].Installment != nil || entries[0].SeriesID != "" {
			t.Errorf("count %d: clamped expansion must degrade to a plain entry", count)
		}
		if entries[0].Status != models.StatusSettled {
			t.Errorf("count %d: status = %q, want requested settled", count, entries[0].Status)
		}
	}
}

func TestExpand_MonthEndRollover(t *testing.T) {
	req := baseRequest()
	req.Date = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	req.RepetitionMode = models.RepetitionRecurring
	req.Count = 2

	entries := Expand(req, time.Now())
	// Jan 31 + 1 month rolls over through Feb 31 to Mar 3 in a non-leap year.
	want := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	if !entries[1].Date.Equal(want) {
		t.Errorf("rollover date = %v, want %v", entries[1].Date, want)
	}
}

func TestExpand_SeriesIDsDifferBetweenBatches(t *testing.T) {
	req := baseRequest()
	req.RepetitionMode = models.RepetitionRecurring
	req.Count = 2

	a := Expand(req, time.Now())
	b := Expand(req, time.Now())
	if a[0].SeriesID == b[0].SeriesID {
		t.Error("two expansions share a series id")
	}
}
