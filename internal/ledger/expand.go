// Package ledger expands a single transaction request into the concrete
// ledger entries it stands for.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/meihub/finance-service/internal/models"
)

// Expand turns a series request into one entry per calendar month. A "none"
// request yields exactly one entry with the requested status. Installment
// and recurring requests yield Count entries, each i months after the start
// date (calendar rollover applies when the start day does not exist in a
// later month); only the first entry keeps the requested status, every
// later one is forced to pending since future money movement is a forecast.
//
// All entries of a multi-entry batch share a freshly generated SeriesID so
// the whole series can be deleted by key. IDs are derived from now and the
// batch offset, unique within the batch and monotonic enough to sort by
// creation.
func Expand(req models.SeriesRequest, now time.Time) []models.LedgerEntry {
	count := req.Count
	if req.RepetitionMode == models.RepetitionNone || count < 2 {
		count = 1
	}

	var seriesID string
	if count > 1 {
		seriesID = uuid.NewString()
	}

	baseID := now.UnixMilli() * 1000
	entries := make([]models.LedgerEntry, 0, count)
	for i := 0; i < count; i++ {
		entry := models.LedgerEntry{
			ID:          baseID + int64(i),
			CompanyID:   req.CompanyID,
			SeriesID:    seriesID,
			Description: req.Description,
			Category:    req.Category,
			Kind:        req.Kind,
			Amount:      req.Amount,
			Date:        req.Date.AddDate(0, i, 0),
			Status:      req.Status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if i > 0 {
			entry.Status = models.StatusPending
		}
		if count > 1 {
			switch req.RepetitionMode {
			case models.RepetitionInstallment:
				entry.Installment = &models.Installment{Number: i + 1, Total: count}
			case models.RepetitionRecurring:
				entry.IsRecurring = true
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
