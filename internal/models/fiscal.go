package models

import "github.com/shopspring/decimal"

// Derived guide (DAS) statuses
const (
	GuideStatusPaid     = "paid"
	GuideStatusOverdue  = "overdue"
	GuideStatusUpcoming = "upcoming"
	GuideStatusPending  = "pending"
)

// Derived annual declaration (DASN) statuses
const (
	DeclarationFiled         = "filed"
	DeclarationNotApplicable = "not-applicable"
	DeclarationPending       = "pending"
)

// Overall fiscal situation
const (
	FiscalRegular   = "regular"
	FiscalIrregular = "irregular"
)

// FiscalGuideRecord is one DAS payment slip as reported by the government
// source. Currency fields keep the source's locale-formatted string form
// ("1.234,56") and are parsed on demand.
type FiscalGuideRecord struct {
	Year      int    `json:"year"`
	Period    string `json:"period"`
	Principal string `json:"principal"`
	Fine      string `json:"fine"`
	Interest  string `json:"interest"`
	Total     string `json:"total"`
	DueDate   string `json:"due_date"` // dd/mm/yyyy as received
	RawStatus string `json:"raw_status"`
	Status    string `json:"status"`
}

// AnnualDeclarationRecord is one DASN filing year.
type AnnualDeclarationRecord struct {
	Year      int    `json:"year"`
	FiledDate string `json:"filed_date,omitempty"`
	RawStatus string `json:"raw_status"`
	Status    string `json:"status"`
}

// FiscalDiagnosis aggregates the normalized fiscal situation of a company.
// IsEstimated is set when TotalEstimatedDebt includes synthesized months for
// years the source has no guides for yet.
type FiscalDiagnosis struct {
	Guides                  []FiscalGuideRecord       `json:"guides"`
	Declarations            []AnnualDeclarationRecord `json:"declarations"`
	TotalEstimatedDebt      decimal.Decimal           `json:"total_estimated_debt"`
	PendingDeclarationCount int                       `json:"pending_declaration_count"`
	OverallStatus           string                    `json:"overall_status"`
	IsEstimated             bool                      `json:"is_estimated"`
}
