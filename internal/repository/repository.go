package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/meihub/finance-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const entryColumns = `id, company_id, series_id, description, category, kind,
	amount, entry_date, status, installment_number, installment_total,
	is_recurring, created_at, updated_at`

// InsertEntries stores a batch of ledger entries in one transaction so a
// series is persisted whole or not at all.
func (r *Repository) InsertEntries(entries []models.LedgerEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO meihub.ledger_entries
			(id, company_id, series_id, description, category, kind, amount,
			 entry_date, status, installment_number, installment_total,
			 is_recurring, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12,
			CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	for _, e := range entries {
		var instNumber, instTotal sql.NullInt64
		if e.Installment != nil {
			instNumber = sql.NullInt64{Int64: int64(e.Installment.Number), Valid: true}
			instTotal = sql.NullInt64{Int64: int64(e.Installment.Total), Valid: true}
		}
		_, err := tx.Exec(query, e.ID, e.CompanyID, e.SeriesID, e.Description,
			e.Category, e.Kind, e.Amount, e.Date, e.Status, instNumber,
			instTotal, e.IsRecurring)
		if err != nil {
			return fmt.Errorf("failed to insert entry %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entries: %w", err)
	}
	return nil
}

// ListEntries retrieves a company's entries dated within [from, to].
func (r *Repository) ListEntries(companyID int64, from, to time.Time) ([]models.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM meihub.ledger_entries
		WHERE company_id = $1 AND entry_date BETWEEN $2 AND $3
		ORDER BY entry_date, id`, entryColumns)
	rows, err := r.db.Query(query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListAllEntries retrieves every entry of a company, oldest first. The
// liquidity forecast needs the full history to seed its running balance.
func (r *Repository) ListAllEntries(companyID int64) ([]models.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM meihub.ledger_entries
		WHERE company_id = $1
		ORDER BY entry_date, id`, entryColumns)
	rows, err := r.db.Query(query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// UpdateEntry updates the editable fields of a single entry. Series fields
// never change through an edit.
func (r *Repository) UpdateEntry(e *models.LedgerEntry) error {
	query := `
		UPDATE meihub.ledger_entries
		SET description = $1, category = $2, kind = $3, amount = $4,
			entry_date = $5, status = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7 AND company_id = $8
		RETURNING updated_at`
	err := r.db.QueryRow(query, e.Description, e.Category, e.Kind, e.Amount,
		e.Date, e.Status, e.ID, e.CompanyID).Scan(&e.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("entry %d not found", e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

// DeleteEntry removes a single entry.
func (r *Repository) DeleteEntry(companyID, id int64) error {
	res, err := r.db.Exec(`DELETE FROM meihub.ledger_entries WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %d not found", id)
	}
	return nil
}

// DeleteSeries removes every entry sharing a series id.
func (r *Repository) DeleteSeries(companyID int64, seriesID string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM meihub.ledger_entries WHERE series_id = $1 AND company_id = $2`, seriesID, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete series: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanEntries(rows *sql.Rows) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var seriesID sql.NullString
		var instNumber, instTotal sql.NullInt64
		err := rows.Scan(&e.ID, &e.CompanyID, &seriesID, &e.Description,
			&e.Category, &e.Kind, &e.Amount, &e.Date, &e.Status, &instNumber,
			&instTotal, &e.IsRecurring, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if seriesID.Valid {
			e.SeriesID = seriesID.String
		}
		if instNumber.Valid && instTotal.Valid {
			e.Installment = &models.Installment{
				Number: int(instNumber.Int64),
				Total:  int(instTotal.Int64),
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}
