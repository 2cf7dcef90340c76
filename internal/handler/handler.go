package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/meihub/finance-service/internal/fiscal"
	"github.com/meihub/finance-service/internal/models"
	"github.com/meihub/finance-service/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateTransaction handles POST /transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.SeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	entries, err := h.svc.CreateTransaction(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	WriteJSON(w, http.StatusCreated, entries)
}

// ListTransactions handles GET /transactions?month=&year=
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	month, year, _ := monthYearParams(r)
	entries, err := h.svc.ListTransactions(r.Context(), month, year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	WriteJSON(w, http.StatusOK, entries)
}

// UpdateTransaction handles PUT /transactions/{id}
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}
	var entry models.LedgerEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	entry.ID = id
	if err := h.svc.UpdateTransaction(r.Context(), &entry); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSeries handles DELETE /series/{seriesID}
func (h *Handler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := mux.Vars(r)["seriesID"]
	if seriesID == "" {
		http.Error(w, "missing series id", http.StatusBadRequest)
		return
	}
	n, err := h.svc.DeleteSeries(r.Context(), seriesID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// ImportInvoice handles POST /transactions/import-nfe with the raw NF-e XML
// as the request body.
func (h *Handler) ImportInvoice(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	entry, err := h.svc.ImportInvoice(r.Context(), data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// Dashboard handles GET /dashboard?month=&year=
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	month, year, now := monthYearParams(r)
	metrics, err := h.svc.MonthlyDashboard(r.Context(), month, year, now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, metrics)
}

// Forecast handles GET /forecast?days=
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	forecast, err := h.svc.LiquidityForecast(r.Context(), time.Now(), days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, forecast)
}

// FiscalDiagnosis handles GET /fiscal/diagnosis. An unrecognizable payload
// from the provider answers 503 "diagnosis unavailable", never an empty
// all-clear diagnosis.
func (h *Handler) FiscalDiagnosis(w http.ResponseWriter, r *http.Request) {
	diag, err := h.svc.FiscalDiagnosis(r.URL.Query().Get("cnpj"), time.Now())
	if err != nil {
		if errors.Is(err, fiscal.ErrMalformedPayload) {
			http.Error(w, "diagnosis unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	WriteJSON(w, http.StatusOK, diag)
}

// Alerts handles GET /alerts
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.CurrentAlerts(r.Context(), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, alerts)
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// monthYearParams reads month/year query parameters, defaulting to the
// current month.
func monthYearParams(r *http.Request) (time.Month, int, time.Time) {
	now := time.Now()
	month := now.Month()
	year := now.Year()
	if v := r.URL.Query().Get("month"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 && parsed <= 12 {
			month = time.Month(parsed)
		}
	}
	if v := r.URL.Query().Get("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			year = parsed
		}
	}
	return month, year, now
}
