package cashflow

import (
	"sort"
	"time"

	"github.com/meihub/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultHorizonDays is the forecast window when the caller passes no
// usable horizon.
const DefaultHorizonDays = 30

// Forecast walks the running cash balance forward one day at a time over
// the horizon and reports the first day it would go strictly negative.
//
// The seed balance sums every settled entry dated today or earlier, across
// all time: this is a running-cash check, not a monthly statement. Pending
// entries dated today or later are then applied in date order (stable for
// ties) as each simulated day is reached. DaysUntilNegative is 1-based
// (tomorrow = 1). Only the first crossing is recorded; the walk always
// covers the full horizon.
func Forecast(entries []models.LedgerEntry, today time.Time, horizonDays int) models.LiquidityForecast {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	day := dateOnly(today)

	balance := decimal.Zero
	var pending []models.LedgerEntry
	for _, e := range entries {
		switch e.Status {
		case models.StatusSettled:
			if !dateOnly(e.Date).After(day) {
				balance = applySigned(balance, e)
			}
		case models.StatusPending:
			if !dateOnly(e.Date).Before(day) {
				pending = append(pending, e)
			}
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return dateOnly(pending[i].Date).Before(dateOnly(pending[j].Date))
	})

	// Entries already due today count against the seed before the walk.
	next := 0
	for next < len(pending) && dateOnly(pending[next].Date).Equal(day) {
		balance = applySigned(balance, pending[next])
		next++
	}

	var out models.LiquidityForecast
	for offset := 1; offset <= horizonDays; offset++ {
		current := day.AddDate(0, 0, offset)
		for next < len(pending) && dateOnly(pending[next].Date).Equal(current) {
			balance = applySigned(balance, pending[next])
			next++
		}
		if balance.Sign() < 0 && !out.IsProjectedNegative {
			out.IsProjectedNegative = true
			out.DaysUntilNegative = offset
		}
	}
	return out
}

func applySigned(balance decimal.Decimal, e models.LedgerEntry) decimal.Decimal {
	if e.Kind == models.KindRevenue {
		return balance.Add(e.Amount)
	}
	return balance.Sub(e.Amount)
}
