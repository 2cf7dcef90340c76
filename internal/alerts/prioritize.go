// Package alerts ranks the dashboard's actionable warnings.
package alerts

import (
	"fmt"

	"github.com/meihub/finance-service/internal/fiscal"
	"github.com/meihub/finance-service/internal/models"
)

// navigation is the fixed alert-kind to screen mapping consumed by the
// presenting layer.
var navigation = map[string]string{
	"overdue":  models.TargetTransactions,
	"fiscal":   models.TargetFiscal,
	"upcoming": models.TargetAgenda,
	"cash":     models.TargetDashboard,
	"clear":    models.TargetDashboard,
}

// Prioritize combines the month's metrics, the liquidity forecast and the
// fiscal diagnosis into a ranked alert list. Overdue items come first:
// financial overdue entries, then overdue guides and pending declarations.
// A nil fiscal diagnosis means "diagnosis unavailable" and contributes
// nothing; it never suppresses the financial alerts. When no condition
// triggers, a single informational all-clear alert is returned.
func Prioritize(m models.MonthlyMetrics, f models.LiquidityForecast, diag *models.FiscalDiagnosis, pendingNext7 int, overdueCount int) []models.Alert {
	var out []models.Alert

	if overdueCount > 0 {
		out = append(out, models.Alert{
			Severity: models.SeverityCritical,
			Title:    "Lançamentos vencidos",
			Message:  fmt.Sprintf("Você tem %d lançamento(s) vencido(s), R$ %s em aberto.", overdueCount, fiscal.FormatBRL(m.OverdueAmount)),
			Target:   navigation["overdue"],
		})
	}

	if diag != nil {
		fiscalOverdue := diag.PendingDeclarationCount
		for _, g := range diag.Guides {
			if g.Status == models.GuideStatusOverdue {
				fiscalOverdue++
			}
		}
		if fiscalOverdue > 0 {
			out = append(out, models.Alert{
				Severity: models.SeverityCritical,
				Title:    "Pendências fiscais",
				Message:  fmt.Sprintf("%d guia(s) ou declaração(ões) vencida(s) junto à Receita.", fiscalOverdue),
				Target:   navigation["fiscal"],
			})
		}
	}

	if pendingNext7 > 0 {
		out = append(out, models.Alert{
			Severity: models.SeverityWarning,
			Title:    "Vencimentos próximos",
			Message:  fmt.Sprintf("%d lançamento(s) vencem nos próximos 7 dias.", pendingNext7),
			Target:   navigation["upcoming"],
		})
	}

	if f.IsProjectedNegative {
		out = append(out, models.Alert{
			Severity: models.SeverityWarning,
			Title:    "Caixa projetado negativo",
			Message:  fmt.Sprintf("Seu saldo deve ficar negativo em %d dia(s).", f.DaysUntilNegative),
			Target:   navigation["cash"],
		})
	}

	if len(out) == 0 {
		out = append(out, models.Alert{
			Severity: models.SeverityInfo,
			Title:    "Tudo em dia",
			Message:  "Nenhuma pendência encontrada.",
			Target:   navigation["clear"],
		})
	}
	return out
}
