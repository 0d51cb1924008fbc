// Package services holds the application services between the HTTP
// layer and the stores: record CRUD with sync publishing, financial
// reporting, dashboard aggregation.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

// ReportsService computes the financial report views. Every view
// fetches expenses and income concurrently, filters both by the
// requested range, and aggregates in a single pass.
type ReportsService struct {
	expenses store.ExpenseStore
	income   store.IncomeStore
}

func NewReportsService(expenses store.ExpenseStore, income store.IncomeStore) *ReportsService {
	return &ReportsService{expenses: expenses, income: income}
}

// fetch loads both record sets in parallel and applies the range
// filter. Records with unparseable dates are dropped and logged, not
// fatal; store errors abort the whole report.
func (s *ReportsService) fetch(ctx context.Context, start, end string) ([]core.Expense, []core.Income, error) {
	var (
		expenses []core.Expense
		income   []core.Income
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.ListExpenses(gctx)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		income, err = s.income.ListIncome(gctx)
		if err != nil {
			return fmt.Errorf("fetch income: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	expenses, expenseWarns := core.FilterByDateRange(expenses, start, end)
	income, incomeWarns := core.FilterByDateRange(income, start, end)
	for _, w := range expenseWarns {
		slog.WarnContext(ctx, "Expense skipped: invalid date", "date", w.Date, "error", w.Err)
	}
	for _, w := range incomeWarns {
		slog.WarnContext(ctx, "Income skipped: invalid date", "date", w.Date, "error", w.Err)
	}
	return expenses, income, nil
}

// FinancialSummary totals both record sets over the range. The profit
// margin is reported as 0 rather than dividing by zero income.
func (s *ReportsService) FinancialSummary(ctx context.Context, start, end string) (core.FinancialSummary, error) {
	expenses, income, err := s.fetch(ctx, start, end)
	if err != nil {
		return core.FinancialSummary{}, err
	}

	var sum core.FinancialSummary
	for _, e := range expenses {
		sum.TotalExpenses += e.Amount
	}
	for _, i := range income {
		sum.TotalIncome += i.Amount
	}
	sum.NetProfit = sum.TotalIncome - sum.TotalExpenses
	if sum.TotalIncome > 0 {
		sum.ProfitMargin = sum.NetProfit / sum.TotalIncome * 100
	}
	sum.ExpenseCount = len(expenses)
	sum.IncomeCount = len(income)
	return sum, nil
}

// MonthlyComparison groups both record sets by calendar month. A
// month present on either side gets a row; the missing side reads 0.
// Rows come back in chronological order.
func (s *ReportsService) MonthlyComparison(ctx context.Context, start, end string) ([]core.MonthlyRow, error) {
	expenses, income, err := s.fetch(ctx, start, end)
	if err != nil {
		return nil, err
	}

	months := map[string]*core.MonthlyRow{}
	row := func(key string) *core.MonthlyRow {
		if r, ok := months[key]; ok {
			return r
		}
		r := &core.MonthlyRow{Key: key, Label: core.MonthLabel(key)}
		months[key] = r
		return r
	}

	for _, e := range expenses {
		d, err := core.ParseDay(e.Date)
		if err != nil {
			continue
		}
		row(core.MonthKey(d)).Expenses += e.Amount
	}
	for _, i := range income {
		d, err := core.ParseDay(i.Date)
		if err != nil {
			continue
		}
		row(core.MonthKey(d)).Income += i.Amount
	}

	out := make([]core.MonthlyRow, 0, len(months))
	for _, r := range months {
		out = append(out, *r)
	}
	// The yyyy-MM key sorts lexicographically into date order.
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// ExpenseBreakdown totals expenses per category over the range.
// Unknown categories fold into Other; rows sort by amount, largest
// first.
func (s *ReportsService) ExpenseBreakdown(ctx context.Context, start, end string) ([]core.BreakdownRow, error) {
	expenses, _, err := s.fetch(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totals := map[string]*core.BreakdownRow{}
	for _, e := range expenses {
		name := string(e.Category)
		if !e.Category.Known() {
			name = string(core.CategoryOther)
		}
		r, ok := totals[name]
		if !ok {
			r = &core.BreakdownRow{Name: name}
			totals[name] = r
		}
		r.Amount += e.Amount
		r.Count++
	}
	return sortedBreakdown(totals), nil
}

// IncomeBreakdown totals income per source over the range, with the
// same Other fallback and ordering as the expense view.
func (s *ReportsService) IncomeBreakdown(ctx context.Context, start, end string) ([]core.BreakdownRow, error) {
	_, income, err := s.fetch(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totals := map[string]*core.BreakdownRow{}
	for _, i := range income {
		name := string(i.Source)
		if !i.Source.Known() {
			name = string(core.SourceOther)
		}
		r, ok := totals[name]
		if !ok {
			r = &core.BreakdownRow{Name: name}
			totals[name] = r
		}
		r.Amount += i.Amount
		r.Count++
	}
	return sortedBreakdown(totals), nil
}

func sortedBreakdown(totals map[string]*core.BreakdownRow) []core.BreakdownRow {
	out := make([]core.BreakdownRow, 0, len(totals))
	for _, r := range totals {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	return out
}
