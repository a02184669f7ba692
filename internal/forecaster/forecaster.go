package forecaster

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

// DefaultHorizonDays is the projection window used when the caller does
// not ask for a specific one.
const DefaultHorizonDays = 30

// Point is one projected day of cash balance.
type Point struct {
	Date    time.Time
	Balance float64
}

// Forecast projects the daily cash balance for the given number of days
// past the last ledger entry. History is aggregated to daily nets, the
// running balance gives the starting point, and the projection extends
// it by the trailing average daily net. The projection is deterministic:
// the same ledger always yields the same curve.
func Forecast(transactions []models.Transaction, days int) ([]Point, error) {
	if len(transactions) == 0 {
		return nil, fmt.Errorf("forecast requires at least one transaction")
	}
	if days <= 0 {
		days = DefaultHorizonDays
	}

	daily := map[time.Time]float64{}
	for _, tx := range transactions {
		day := tx.Date.Truncate(24 * time.Hour)
		daily[day] += tx.Amount
	}

	dates := make([]time.Time, 0, len(daily))
	for day := range daily {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	first, last := dates[0], dates[len(dates)-1]
	spanDays := int(last.Sub(first).Hours()/24) + 1

	var balance float64
	points := make([]Point, 0, spanDays+days)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		balance += daily[d]
		points = append(points, Point{Date: d, Balance: balance})
	}

	// Average daily net over the observed span, including quiet days.
	trend := balance / float64(spanDays)

	for i := 1; i <= days; i++ {
		points = append(points, Point{
			Date:    last.AddDate(0, 0, i),
			Balance: balance + trend*float64(i),
		})
	}

	return points, nil
}

// Stats summarizes a forecast window.
type Stats struct {
	Min          float64
	Max          float64
	Mean         float64
	NegativeDays int
}

// Summarize computes window statistics over the last n points.
func Summarize(points []Point, n int) Stats {
	if n <= 0 || n > len(points) {
		n = len(points)
	}
	window := points[len(points)-n:]

	stats := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, p := range window {
		if p.Balance < stats.Min {
			stats.Min = p.Balance
		}
		if p.Balance > stats.Max {
			stats.Max = p.Balance
		}
		if p.Balance < 0 {
			stats.NegativeDays++
		}
		sum += p.Balance
	}
	stats.Mean = sum / float64(len(window))
	return stats
}

// Summary renders the short user-facing forecast reply: a warning naming
// the first projected negative-balance day, or an all-clear.
func Summary(points []Point, horizonDays int) string {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	start := len(points) - horizonDays
	if start < 0 {
		start = 0
	}
	for _, p := range points[start:] {
		if p.Balance < 0 {
			return fmt.Sprintf(
				"Cash flow alert: on %s your projected balance may dip to $%.2f. Consider cutting expenses or delaying non-essential payments.",
				p.Date.Format("Jan 02"), p.Balance)
		}
	}
	return fmt.Sprintf("Your cash flow looks healthy for the next %d days.", horizonDays)
}
