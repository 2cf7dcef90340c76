package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/meihub/finance-service/internal/alerts"
	"github.com/meihub/finance-service/internal/cashflow"
	"github.com/meihub/finance-service/internal/config"
	"github.com/meihub/finance-service/internal/fiscal"
	"github.com/meihub/finance-service/internal/integrations/nfe"
	"github.com/meihub/finance-service/internal/ledger"
	"github.com/meihub/finance-service/internal/models"
	"github.com/meihub/finance-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// PayloadFetcher retrieves the opaque fiscal payload for a tax id.
type PayloadFetcher interface {
	FetchPayload(cnpj string) (any, error)
}

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	fiscal PayloadFetcher
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo *repository.Repository, fiscalClient PayloadFetcher, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, fiscal: fiscalClient, log: log, config: cfg}
}

// CreateTransaction expands a series request into its ledger entries and
// persists the batch.
func (s *Service) CreateTransaction(ctx context.Context, req models.SeriesRequest) ([]models.LedgerEntry, error) {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	req.CompanyID = companyID

	entries := ledger.Expand(req, time.Now())
	if err := s.repo.InsertEntries(entries); err != nil {
		return nil, err
	}
	s.log.Infof("Created %d entries for company %d (%s)", len(entries), companyID, req.RepetitionMode)
	return entries, nil
}

// ImportInvoice parses an NF-e XML document and records it as a pending
// revenue entry dated at the invoice issue date.
func (s *Service) ImportInvoice(ctx context.Context, xmlData []byte) (*models.LedgerEntry, error) {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	draft, err := nfe.ParseInvoice(xmlData)
	if err != nil {
		return nil, fmt.Errorf("failed to import invoice: %w", err)
	}

	now := time.Now()
	issueDate := draft.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}
	req := models.SeriesRequest{
		CompanyID:      companyID,
		Description:    draft.Description,
		Category:       "vendas",
		Kind:           models.KindRevenue,
		Amount:         draft.Amount,
		Date:           issueDate,
		Status:         models.StatusPending,
		RepetitionMode: models.RepetitionNone,
	}
	entries := ledger.Expand(req, now)
	if err := s.repo.InsertEntries(entries); err != nil {
		return nil, err
	}
	s.log.Infof("Imported invoice from %s for company %d", draft.Emitter, companyID)
	return &entries[0], nil
}

// ListTransactions returns a company's entries for a calendar month.
func (s *Service) ListTransactions(ctx context.Context, month time.Month, year int) ([]models.LedgerEntry, error) {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	from, to := monthBounds(month, year)
	return s.repo.ListEntries(companyID, from, to)
}

// UpdateTransaction edits a single entry. Series membership fields are not
// editable.
func (s *Service) UpdateTransaction(ctx context.Context, entry *models.LedgerEntry) error {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return err
	}
	entry.CompanyID = companyID
	if err := s.repo.UpdateEntry(entry); err != nil {
		return err
	}
	s.log.Infof("Updated entry %d for company %d", entry.ID, companyID)
	return nil
}

// DeleteTransaction removes one entry.
func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteEntry(companyID, id); err != nil {
		return err
	}
	s.log.Infof("Deleted entry %d for company %d", id, companyID)
	return nil
}

// DeleteSeries removes every entry of an expansion batch by its series key.
func (s *Service) DeleteSeries(ctx context.Context, seriesID string) (int64, error) {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteSeries(companyID, seriesID)
	if err != nil {
		return 0, err
	}
	s.log.Infof("Deleted series %s (%d entries) for company %d", seriesID, n, companyID)
	return n, nil
}

// MonthlyDashboard computes the month's cash metrics.
func (s *Service) MonthlyDashboard(ctx context.Context, month time.Month, year int, now time.Time) (models.MonthlyMetrics, error) {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return models.MonthlyMetrics{}, err
	}
	from, to := monthBounds(month, year)
	entries, err := s.repo.ListEntries(companyID, from, to)
	if err != nil {
		return models.MonthlyMetrics{}, err
	}
	return cashflow.ComputeMonthly(entries, month, year, now), nil
}

// LiquidityForecast runs the running-cash check over the configured horizon.
func (s *Service) LiquidityForecast(ctx context.Context, now time.Time, horizonDays int) (models.LiquidityForecast, error) {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return models.LiquidityForecast{}, err
	}
	if horizonDays <= 0 {
		horizonDays = s.config.ForecastHorizonDays
	}
	entries, err := s.repo.ListAllEntries(companyID)
	if err != nil {
		return models.LiquidityForecast{}, err
	}
	return cashflow.Forecast(entries, now, horizonDays), nil
}

// FiscalDiagnosis fetches and normalizes the company's tax situation.
// Failures (including an unrecognizable payload) are returned to the caller
// so the edge can answer "diagnosis unavailable" instead of all-clear.
func (s *Service) FiscalDiagnosis(cnpj string, now time.Time) (*models.FiscalDiagnosis, error) {
	if cnpj == "" {
		cnpj = s.config.CompanyCNPJ
	}
	raw, err := s.fiscal.FetchPayload(cnpj)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fiscal payload: %w", err)
	}
	diag, err := fiscal.Normalize(raw, now, fiscal.Options{
		AvgMonthlyGuia: s.config.FiscalAvgGuia,
		Log:            s.log,
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Fiscal diagnosis for %s: %s (debt %s, estimated=%t)",
		cnpj, diag.OverallStatus, diag.TotalEstimatedDebt.StringFixed(2), diag.IsEstimated)
	return diag, nil
}

// CurrentAlerts assembles the ranked alert list for the dashboard. A failed
// fiscal diagnosis downgrades to a nil contribution rather than an error so
// financial alerts are never suppressed.
func (s *Service) CurrentAlerts(ctx context.Context, now time.Time) ([]models.Alert, error) {
	companyID, err := companyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListAllEntries(companyID)
	if err != nil {
		return nil, err
	}

	metrics := cashflow.ComputeMonthly(entries, now.Month(), now.Year(), now)
	forecast := cashflow.Forecast(entries, now, s.config.ForecastHorizonDays)
	pendingNext7, overdueCount := pendingWindows(entries, now)

	diag, err := s.FiscalDiagnosis(s.config.CompanyCNPJ, now)
	if err != nil {
		s.log.Warnf("Fiscal diagnosis unavailable, alerts computed without it: %v", err)
		diag = nil
	}

	return alerts.Prioritize(metrics, forecast, diag, pendingNext7, overdueCount), nil
}

// pendingWindows counts pending entries overdue as of now and those due in
// the next 7 days.
func pendingWindows(entries []models.LedgerEntry, now time.Time) (pendingNext7, overdueCount int) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	limit := day.AddDate(0, 0, 7)
	for _, e := range entries {
		if e.Status != models.StatusPending {
			continue
		}
		entryDay := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, e.Date.Location())
		switch {
		case entryDay.Before(day):
			overdueCount++
		case !entryDay.After(limit):
			pendingNext7++
		}
	}
	return pendingNext7, overdueCount
}

func validateRequest(req models.SeriesRequest) error {
	if req.Kind != models.KindRevenue && req.Kind != models.KindExpense {
		return fmt.Errorf("invalid kind: %q", req.Kind)
	}
	if req.Status != models.StatusSettled && req.Status != models.StatusPending {
		return fmt.Errorf("invalid status: %q", req.Status)
	}
	switch req.RepetitionMode {
	case models.RepetitionNone, models.RepetitionInstallment, models.RepetitionRecurring:
	default:
		return fmt.Errorf("invalid repetition mode: %q", req.RepetitionMode)
	}
	if req.Amount.Sign() < 0 {
		return fmt.Errorf("amount must be non-negative")
	}
	return nil
}

func monthBounds(month time.Month, year int) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

func companyFromContext(ctx context.Context) (int64, error) {
	idStr, ok := ctx.Value("companyID").(string)
	if !ok || idStr == "" {
		return 0, fmt.Errorf("company ID not found in context")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid company ID: %w", err)
	}
	return id, nil
}
