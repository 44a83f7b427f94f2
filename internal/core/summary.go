package core

import "sort"

// CategoryTotal is an amount aggregated by normalized category label.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthTotal is an amount aggregated by calendar month (YYYY-MM).
type MonthTotal struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// SummaryByCategory groups expenses by category label and sums amounts per
// group. Output is sorted by category name so results are deterministic.
// Empty input yields an empty (non-nil) slice.
func SummaryByCategory(expenses []Expense) []CategoryTotal {
	totals := make(map[string]float64)
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, amount := range totals {
		out = append(out, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// SummaryByMonth groups expenses by the YYYY-MM of their date and sums
// amounts per group. Output is sorted by month so results are deterministic.
// Empty input yields an empty (non-nil) slice.
func SummaryByMonth(expenses []Expense) []MonthTotal {
	totals := make(map[string]float64)
	for _, e := range expenses {
		totals[e.Date.YearMonth()] += e.Amount
	}

	out := make([]MonthTotal, 0, len(totals))
	for month, amount := range totals {
		out = append(out, MonthTotal{Month: month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
