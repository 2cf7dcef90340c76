// Package fiscal normalizes the loosely-structured tax-situation payload of
// the government diagnostics source into a single FiscalDiagnosis.
package fiscal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/meihub/finance-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrMalformedPayload reports that no recognizable guide or declaration
// structure was found under any known nesting variant. Callers must surface
// this as "diagnosis unavailable", never as an all-clear.
var ErrMalformedPayload = errors.New("unrecognized fiscal payload shape")

// dueDateLayout is the dd/mm/yyyy form the source uses for due dates.
const dueDateLayout = "02/01/2006"

// Options configures normalization. AvgMonthlyGuia is the fixed value each
// synthesized month contributes when the source has no guides on file for a
// year that should have them. Log is the warning channel for skipped rows;
// nil falls back to the standard logger.
type Options struct {
	AvgMonthlyGuia decimal.Decimal
	Log            *logrus.Logger
}

// Normalize classifies every guide and declaration in the raw payload
// against the reference date, sums overdue debt, and synthesizes estimated
// debt for years the tax authority has not issued guides for yet. It is a
// pure function of its inputs: the same payload and reference date always
// produce the same diagnosis.
func Normalize(raw any, ref time.Time, opts Options) (*models.FiscalDiagnosis, error) {
	core, ok := locate(raw, 0)
	if !ok {
		return nil, fmt.Errorf("fiscal diagnosis: %w", ErrMalformedPayload)
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	diag := &models.FiscalDiagnosis{
		Guides:             []models.FiscalGuideRecord{},
		Declarations:       []models.AnnualDeclarationRecord{},
		TotalEstimatedDebt: decimal.Zero,
	}

	guideRows, skipped := rowList(core, guideKeys...)
	if skipped > 0 {
		log.Warnf("fiscal: skipped %d non-object guide rows", skipped)
	}
	guidesPerYear := make(map[int]int)
	for _, row := range guideRows {
		guide, ok := parseGuide(row, ref)
		if !ok {
			log.Warnf("fiscal: skipped guide row with no usable value: %v", row)
			continue
		}
		diag.Guides = append(diag.Guides, guide)
		guidesPerYear[guide.Year]++
		if guide.Status == models.GuideStatusOverdue {
			if total, err := ParseBRL(guide.Total); err == nil {
				diag.TotalEstimatedDebt = diag.TotalEstimatedDebt.Add(total)
			} else {
				log.Warnf("fiscal: overdue guide %s/%d has unparsable total %q", guide.Period, guide.Year, guide.Total)
			}
		}
	}
	sortGuides(diag.Guides)

	declRows, skipped := rowList(core, declarationKeys...)
	if skipped > 0 {
		log.Warnf("fiscal: skipped %d non-object declaration rows", skipped)
	}
	for _, row := range declRows {
		decl := parseDeclaration(row)
		if decl.Year == 0 {
			log.Warnf("fiscal: skipped declaration row with no year: %v", row)
			continue
		}
		diag.Declarations = append(diag.Declarations, decl)
		if decl.Status == models.DeclarationPending {
			diag.PendingDeclarationCount++
		}
	}

	estimateMissingYears(diag, guidesPerYear, ref, opts.AvgMonthlyGuia)

	if diag.TotalEstimatedDebt.Sign() > 0 || diag.PendingDeclarationCount > 0 {
		diag.OverallStatus = models.FiscalIrregular
	} else {
		diag.OverallStatus = models.FiscalRegular
	}
	return diag, nil
}

// parseGuide builds one guide record from a raw row. Rows with no non-zero
// principal or total are source placeholders and are dropped.
func parseGuide(row map[string]any, ref time.Time) (models.FiscalGuideRecord, bool) {
	guide := models.FiscalGuideRecord{
		Year:      fieldInt(row, "ano", "year", "anoCalendario"),
		Period:    fieldString(row, "periodo", "period", "periodoApuracao"),
		Principal: fieldString(row, "principal", "valorPrincipal"),
		Fine:      fieldString(row, "multa", "fine"),
		Interest:  fieldString(row, "juros", "interest"),
		Total:     fieldString(row, "total", "valorTotal"),
		DueDate:   fieldString(row, "vencimento", "dataVencimento", "due_date"),
		RawStatus: fieldString(row, "situacao", "status"),
	}
	if !hasMonetaryValue(guide.Principal) && !hasMonetaryValue(guide.Total) {
		return guide, false
	}

	due, dueErr := time.Parse(dueDateLayout, guide.DueDate)
	if guide.Year == 0 && dueErr == nil {
		guide.Year = due.Year()
	}

	lower := strings.ToLower(guide.RawStatus)
	switch {
	case strings.Contains(lower, "liquidado") || strings.Contains(lower, "pago"):
		guide.Status = models.GuideStatusPaid
	case dueErr == nil:
		refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		if due.Before(refDay) {
			guide.Status = models.GuideStatusOverdue
		} else {
			guide.Status = models.GuideStatusUpcoming
		}
	default:
		guide.Status = models.GuideStatusPending
	}
	return guide, true
}

func parseDeclaration(row map[string]any) models.AnnualDeclarationRecord {
	decl := models.AnnualDeclarationRecord{
		Year:      fieldInt(row, "ano", "year", "anoCalendario"),
		FiledDate: fieldString(row, "dataTransmissao", "dataEnvio", "filed_date"),
		RawStatus: fieldString(row, "situacao", "status"),
	}
	lower := strings.ToLower(decl.RawStatus)
	switch {
	case decl.FiledDate != "" || (strings.Contains(lower, "regular") && !strings.Contains(lower, "irregular")):
		decl.Status = models.DeclarationFiled
	case strings.Contains(lower, "não optante") || strings.Contains(lower, "nao optante"):
		decl.Status = models.DeclarationNotApplicable
	default:
		decl.Status = models.DeclarationPending
	}
	return decl
}

func hasMonetaryValue(s string) bool {
	d, err := ParseBRL(s)
	return err == nil && d.Sign() != 0
}

// sortGuides orders guides most recent due date first. Guides with an
// unparsable due date compare equal, so the stable sort leaves them where
// they were relative to their neighbors.
func sortGuides(guides []models.FiscalGuideRecord) {
	sort.SliceStable(guides, func(i, j int) bool {
		di, erri := time.Parse(dueDateLayout, guides[i].DueDate)
		dj, errj := time.Parse(dueDateLayout, guides[j].DueDate)
		if erri != nil || errj != nil {
			return false
		}
		return di.After(dj)
	})
}

// estimateMissingYears models the rule that the tax authority withholds
// current-year guides until the prior year's annual declaration is filed:
// a past year with a pending declaration and no guides on file gets 12
// estimated months, and the current year gets its elapsed months (minus any
// guides already on file) when the previous year's declaration is pending
// and the current year has no guides at all.
func estimateMissingYears(diag *models.FiscalDiagnosis, guidesPerYear map[int]int, ref time.Time, avgGuia decimal.Decimal) {
	currentYear := ref.Year()
	years := make(map[int]bool)
	for _, decl := range diag.Declarations {
		if decl.Status != models.DeclarationPending {
			continue
		}
		if decl.Year < currentYear && guidesPerYear[decl.Year] == 0 {
			years[decl.Year] = true
		}
		if decl.Year == currentYear-1 && guidesPerYear[currentYear] == 0 {
			years[currentYear] = true
		}
	}

	for year := range years {
		months := 12
		if year == currentYear {
			months = int(ref.Month()) - guidesPerYear[currentYear]
			if months < 0 {
				months = 0
			}
		}
		if months == 0 {
			continue
		}
		diag.TotalEstimatedDebt = diag.TotalEstimatedDebt.Add(avgGuia.Mul(decimal.NewFromInt(int64(months))))
		diag.IsEstimated = true
	}
}
