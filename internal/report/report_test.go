package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoyals/bahikhata/internal/expense"
	"github.com/rgoyals/bahikhata/internal/report"
	"github.com/rgoyals/bahikhata/internal/validation"
)

type fakeLister struct {
	expenses []*expense.Expense
	err      error
	filter   expense.ListFilter
}

func (l *fakeLister) List(_ context.Context, _ uuid.UUID, filter expense.ListFilter) ([]*expense.Expense, error) {
	l.filter = filter
	return l.expenses, l.err
}

func TestCategorize(t *testing.T) {
	rules := report.DefaultCategoryRules()

	tests := []struct {
		item string
		want string
	}{
		{item: "Diesel for the truck", want: "transport"},
		{item: "raw material purchase", want: "raw materials"},
		{item: "chai for the team", want: "food"},
		{item: "shop rent April", want: "rent"},
		{item: "mystery purchase", want: report.OtherCategory},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, report.Categorize(rules, tt.item))
		})
	}
}

func TestCategorize_FirstRuleWins(t *testing.T) {
	rules := []report.CategoryRule{
		{Category: "first", Keywords: []string{"overlap"}},
		{Category: "second", Keywords: []string{"overlap"}},
	}

	assert.Equal(t, "first", report.Categorize(rules, "an OVERLAP item"))
}

func TestMonthly(t *testing.T) {
	ownerID := uuid.New()
	date := func(day int) time.Time {
		return time.Date(2025, time.April, day, 0, 0, 0, 0, time.UTC)
	}

	lister := &fakeLister{expenses: []*expense.Expense{
		{Date: date(1), Item: "diesel", Amount: 300},
		{Date: date(5), Item: "petrol", Amount: 200},
		{Date: date(12), Item: "chai", Amount: 20},
		{Date: date(20), Item: "new printer", Amount: 4500},
	}}

	svc := report.NewService(lister, nil)

	summary, err := svc.Monthly(context.Background(), ownerID, 2025, time.April)
	require.NoError(t, err)

	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, time.April, summary.Month)
	assert.Equal(t, 4, summary.Count)
	assert.InDelta(t, 5020, summary.Total, 0.001)
	assert.InDelta(t, 500, summary.ByCategory["transport"], 0.001)
	assert.InDelta(t, 4500, summary.ByCategory["equipment"], 0.001)
	assert.Equal(t, "equipment", summary.TopCategory)
	assert.Equal(t, "new printer", summary.LargestItem)
	assert.InDelta(t, 4500, summary.LargestSpend, 0.001)

	// The lister is asked for exactly the calendar month: the inclusive end
	// bound is the last day of April, so an expense dated May 1 stays out.
	require.NotNil(t, lister.filter.StartDate)
	require.NotNil(t, lister.filter.EndDate)
	assert.Equal(t, date(1), *lister.filter.StartDate)
	assert.Equal(t, date(30), *lister.filter.EndDate)
}

func TestMonthly_EndBoundExcludesNextMonth(t *testing.T) {
	lister := &fakeLister{}
	svc := report.NewService(lister, nil)

	_, err := svc.Monthly(context.Background(), uuid.New(), 2025, time.December)
	require.NoError(t, err)

	require.NotNil(t, lister.filter.EndDate)
	assert.Equal(t, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), *lister.filter.EndDate)
	assert.True(t, lister.filter.EndDate.Before(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthly_EmptyMonth(t *testing.T) {
	svc := report.NewService(&fakeLister{}, nil)

	summary, err := svc.Monthly(context.Background(), uuid.New(), 2025, time.March)
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Count)
	assert.Empty(t, summary.TopCategory)
}

func TestMonthly_InvalidMonth(t *testing.T) {
	svc := report.NewService(&fakeLister{}, nil)

	_, err := svc.Monthly(context.Background(), uuid.New(), 2025, time.Month(13))

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "month", verr.Field)
}

func TestMonthly_ListerError(t *testing.T) {
	svc := report.NewService(&fakeLister{err: errors.New("db down")}, nil)

	_, err := svc.Monthly(context.Background(), uuid.New(), 2025, time.April)
	assert.Error(t, err)
}
