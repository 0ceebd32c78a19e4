// Package report builds spending summaries from recorded expenses.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rgoyals/bahikhata/internal/expense"
	"github.com/rgoyals/bahikhata/internal/validation"
)

// ExpenseLister is the slice of the expense service the reporter needs.
type ExpenseLister interface {
	List(ctx context.Context, ownerID uuid.UUID, filter expense.ListFilter) ([]*expense.Expense, error)
}

// MonthlySummary aggregates one owner's expenses for one calendar month.
type MonthlySummary struct {
	Year         int                `json:"year"`
	Month        time.Month         `json:"month"`
	Total        float64            `json:"total"`
	Count        int                `json:"count"`
	ByCategory   map[string]float64 `json:"by_category"`
	TopCategory  string             `json:"top_category,omitempty"`
	LargestItem  string             `json:"largest_item,omitempty"`
	LargestSpend float64            `json:"largest_spend"`
}

type Service struct {
	expenses ExpenseLister
	rules    []CategoryRule
}

func NewService(expenses ExpenseLister, rules []CategoryRule) *Service {
	if len(rules) == 0 {
		rules = DefaultCategoryRules()
	}

	return &Service{expenses: expenses, rules: rules}
}

// Monthly summarizes the owner's expenses for the given month.
func (s *Service) Monthly(ctx context.Context, ownerID uuid.UUID, year int, month time.Month) (*MonthlySummary, error) {
	if year < 2000 || year > 2100 {
		return nil, validation.Errorf("year", "out of range: %d", year)
	}

	if month < time.January || month > time.December {
		return nil, validation.Errorf("month", "out of range: %d", int(month))
	}

	// The store's end-date filter is inclusive, so the bound is the last day
	// of the month, not the first day of the next one.
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	expenses, err := s.expenses.List(ctx, ownerID, expense.ListFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("listing expenses for %d-%02d: %w", year, month, err)
	}

	summary := &MonthlySummary{
		Year:       year,
		Month:      month,
		Count:      len(expenses),
		ByCategory: make(map[string]float64),
	}

	for _, e := range expenses {
		category := Categorize(s.rules, e.Item)

		summary.Total += e.Amount
		summary.ByCategory[category] += e.Amount

		if e.Amount > summary.LargestSpend {
			summary.LargestSpend = e.Amount
			summary.LargestItem = e.Item
		}
	}

	summary.TopCategory = topCategory(summary.ByCategory)

	return summary, nil
}

// topCategory picks the category with the highest spend, breaking ties by
// name so the result is stable.
func topCategory(byCategory map[string]float64) string {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}

	sort.Strings(names)

	var top string
	var best float64

	for _, name := range names {
		if byCategory[name] > best {
			best = byCategory[name]
			top = name
		}
	}

	return top
}
