// Package ledger derives balances and report aggregates from a book's entries.
// Nothing here touches storage; every result is recomputed from the full entry set.
package ledger

import (
	"sort"

	"cashbook/internal/models"

	"github.com/shopspring/decimal"
)

// Signed returns the entry amount as a balance contribution: income adds,
// expense subtracts.
func Signed(entryType string, amount decimal.Decimal) decimal.Decimal {
	if entryType == models.EntryTypeExpense {
		return amount.Neg()
	}
	return amount
}

// SortChronological orders entries by date ascending, ties broken by creation
// sequence and then creation time.
func SortChronological(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return chronologicalLess(entries[i], entries[j])
	})
}

func chronologicalLess(a, b models.Entry) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// ApplyRunningBalances sorts entries chronologically in place, sets each
// RunningBalance to the signed prefix sum, and returns the final balance.
func ApplyRunningBalances(entries []models.Entry) decimal.Decimal {
	SortChronological(entries)
	running := decimal.Zero
	for i := range entries {
		running = running.Add(Signed(entries[i].Type, entries[i].Amount))
		entries[i].RunningBalance = running
	}
	return running
}

// Balance is the signed sum of every entry.
func Balance(entries []models.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(Signed(entry.Type, entry.Amount))
	}
	return total
}

// ForDisplay returns a copy of entries newest first, with running balances
// computed on the oldest-first ordering before the reversal.
func ForDisplay(entries []models.Entry) ([]models.Entry, decimal.Decimal) {
	ordered := make([]models.Entry, len(entries))
	copy(ordered, entries)
	balance := ApplyRunningBalances(ordered)
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered, balance
}

// Drift describes a stored running balance that differs from the recomputed one.
type Drift struct {
	EntryID  string          `json:"entry_id"`
	Stored   decimal.Decimal `json:"stored"`
	Computed decimal.Decimal `json:"computed"`
}

// FindDrift compares stored running balances against a fresh recomputation.
// The input slice is not modified.
func FindDrift(entries []models.Entry) []Drift {
	computed := make([]models.Entry, len(entries))
	copy(computed, entries)
	ApplyRunningBalances(computed)
	stored := make(map[string]decimal.Decimal, len(entries))
	for _, entry := range entries {
		stored[entry.ID] = entry.RunningBalance
	}
	var drift []Drift
	for _, entry := range computed {
		if !stored[entry.ID].Equal(entry.RunningBalance) {
			drift = append(drift, Drift{EntryID: entry.ID, Stored: stored[entry.ID], Computed: entry.RunningBalance})
		}
	}
	return drift
}

// DisplayViews is ForDisplay for entries joined with their category labels.
func DisplayViews(views []models.EntryView) ([]models.EntryView, decimal.Decimal) {
	entries := make([]models.Entry, len(views))
	byID := make(map[string]models.EntryView, len(views))
	for i, view := range views {
		entries[i] = view.Entry
		byID[view.ID] = view
	}
	display, balance := ForDisplay(entries)
	out := make([]models.EntryView, len(display))
	for i, entry := range display {
		view := byID[entry.ID]
		view.Entry = entry
		out[i] = view
	}
	return out, balance
}
