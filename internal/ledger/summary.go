package ledger

import (
	"sort"
	"time"

	"cashbook/internal/models"

	"github.com/shopspring/decimal"
)

type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	EntryCount   int             `json:"entry_count"`
	LastUpdated  *time.Time      `json:"last_updated,omitempty"`
}

func Summarize(entries []models.Entry) Summary {
	summary := Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, entry := range entries {
		if entry.Type == models.EntryTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(entry.Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(entry.Amount)
		}
		if summary.LastUpdated == nil || entry.UpdatedAt.After(*summary.LastUpdated) {
			updated := entry.UpdatedAt
			summary.LastUpdated = &updated
		}
	}
	summary.EntryCount = len(entries)
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

type PeriodTotals struct {
	Label   string          `json:"label"`
	Start   time.Time       `json:"start"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Daily returns one bucket per calendar day for the `days` days ending on
// `today`, oldest first.
func Daily(entries []models.Entry, today time.Time, days int) []PeriodTotals {
	end := dateOnly(today)
	buckets := make([]PeriodTotals, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := end.AddDate(0, 0, i-days+1)
		key := day.Format("2006-01-02")
		buckets[i] = newPeriod(day.Format("Jan 02"), day)
		index[key] = i
	}
	for _, entry := range entries {
		if i, ok := index[entry.Date.Format("2006-01-02")]; ok {
			buckets[i].add(entry)
		}
	}
	return buckets
}

// Monthly returns one bucket per calendar month for the `months` months ending
// with the month containing `today`, oldest first.
func Monthly(entries []models.Entry, today time.Time, months int) []PeriodTotals {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]PeriodTotals, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i-months+1, 0)
		buckets[i] = newPeriod(month.Format("Jan 2006"), month)
		index[month.Format("2006-01")] = i
	}
	for _, entry := range entries {
		if i, ok := index[entry.Date.Format("2006-01")]; ok {
			buckets[i].add(entry)
		}
	}
	return buckets
}

type CategoryTotal struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Color      string          `json:"color,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

// ByCategory totals entries of the given type per category, largest first.
// Entries whose category is missing are grouped under UncategorizedName.
func ByCategory(entries []models.Entry, categories []models.Category, entryType string) []CategoryTotal {
	known := make(map[string]models.Category, len(categories))
	for _, category := range categories {
		known[category.ID] = category
	}
	totals := make(map[string]*CategoryTotal)
	var order []string
	for _, entry := range entries {
		if entry.Type != entryType {
			continue
		}
		key := entry.CategoryID
		category, ok := known[key]
		if !ok {
			key = ""
		}
		total, seen := totals[key]
		if !seen {
			total = &CategoryTotal{CategoryID: key, Name: models.UncategorizedName, Total: decimal.Zero}
			if ok {
				total.Name = category.Name
				total.Color = category.Color
			}
			totals[key] = total
			order = append(order, key)
		}
		total.Total = total.Total.Add(entry.Amount)
		total.Count++
	}
	result := make([]CategoryTotal, 0, len(order))
	for _, key := range order {
		result = append(result, *totals[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result
}

func newPeriod(label string, start time.Time) PeriodTotals {
	return PeriodTotals{Label: label, Start: start, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
}

func (p *PeriodTotals) add(entry models.Entry) {
	if entry.Type == models.EntryTypeIncome {
		p.Income = p.Income.Add(entry.Amount)
	} else {
		p.Expense = p.Expense.Add(entry.Amount)
	}
	p.Net = p.Income.Sub(p.Expense)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in loc, as midnight UTC, which is how
// entry dates are stored.
func Today(now time.Time, loc *time.Location) time.Time {
	return dateOnly(now.In(loc))
}
