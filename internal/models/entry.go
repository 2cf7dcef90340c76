package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry kinds
const (
	KindRevenue = "revenue"
	KindExpense = "expense"
)

// Entry statuses
const (
	StatusSettled = "settled"
	StatusPending = "pending"
)

// Repetition modes accepted by the recurrence expander
const (
	RepetitionNone        = "none"
	RepetitionInstallment = "installment"
	RepetitionRecurring   = "recurring"
)

// Installment marks an entry as one payment of a split purchase.
type Installment struct {
	Number int `json:"number"` // 1-based
	Total  int `json:"total"`
}

// LedgerEntry represents a single dated revenue or expense record.
// At most one of Installment or IsRecurring is meaningful: they describe
// membership in two different series types. Entries produced by a single
// expansion share a SeriesID; manually created entries carry none.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	SeriesID    string          `json:"series_id,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status"`
	Installment *Installment    `json:"installment,omitempty"`
	IsRecurring bool            `json:"is_recurring,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SeriesRequest is the input to the recurrence expander: one user-entered
// transaction plus how it repeats. Count is only meaningful when
// RepetitionMode is not "none".
type SeriesRequest struct {
	CompanyID      int64           `json:"company_id"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Kind           string          `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Status         string          `json:"status"`
	RepetitionMode string          `json:"repetition_mode"`
	Count          int             `json:"count"`
}
