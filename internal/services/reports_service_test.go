package services

import (
	"context"
	"errors"
	"testing"

	"farmbook/internal/core"
	"farmbook/internal/store"
	"farmbook/internal/store/memory"
)

func seedFinancials(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.New()

	expenses := []core.Expense{
		{FarmID: 1, Amount: 100, Category: core.CategorySeeds, Date: "2024-03-05"},
		{FarmID: 1, Amount: 50, Category: core.CategoryFuel, Date: "2024-03-20"},
		{FarmID: 1, Amount: 75, Category: core.CategorySeeds, Date: "2024-04-10"},
	}
	income := []core.Income{
		{Source: core.SourceCropSales, Amount: 300, Date: "2024-03-15"},
		{Source: core.SourceSubsidies, Amount: 120, Date: "2024-05-02"},
	}
	for _, e := range expenses {
		if _, err := s.CreateExpense(ctx, e); err != nil {
			t.Fatalf("seed expense: %v", err)
		}
	}
	for _, i := range income {
		if _, err := s.CreateIncome(ctx, i); err != nil {
			t.Fatalf("seed income: %v", err)
		}
	}
	return s
}

func TestFinancialSummary(t *testing.T) {
	svc := NewReportsService(seedFinancials(t), seedFinancials(t))
	ctx := context.Background()

	t.Run("march only", func(t *testing.T) {
		got, err := svc.FinancialSummary(ctx, "2024-03-01", "2024-03-31")
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if got.TotalExpenses != 150 || got.TotalIncome != 300 {
			t.Fatalf("totals: %+v", got)
		}
		if got.NetProfit != 150 {
			t.Fatalf("net profit = %v, want 150", got.NetProfit)
		}
		if got.ProfitMargin != 50.0 {
			t.Fatalf("profit margin = %v, want 50.0", got.ProfitMargin)
		}
		if got.ExpenseCount != 2 || got.IncomeCount != 1 {
			t.Fatalf("counts: %+v", got)
		}
	})

	t.Run("zero income reports zero margin", func(t *testing.T) {
		got, err := svc.FinancialSummary(ctx, "2024-04-01", "2024-04-30")
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if got.TotalIncome != 0 || got.ProfitMargin != 0 {
			t.Fatalf("expected zero income and margin, got %+v", got)
		}
		if got.NetProfit != -75 {
			t.Fatalf("net profit = %v, want -75", got.NetProfit)
		}
	})

	t.Run("empty collections", func(t *testing.T) {
		empty := memory.New()
		got, err := NewReportsService(empty, empty).FinancialSummary(ctx, "", "")
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if got != (core.FinancialSummary{}) {
			t.Fatalf("expected all zeros, got %+v", got)
		}
	})
}

func TestMonthlyComparison(t *testing.T) {
	svc := NewReportsService(seedFinancials(t), seedFinancials(t))

	rows, err := svc.MonthlyComparison(context.Background(), "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 months, got %d: %v", len(rows), rows)
	}

	want := []core.MonthlyRow{
		{Key: "2024-03", Label: "Mar 2024", Income: 300, Expenses: 150},
		{Key: "2024-04", Label: "Apr 2024", Income: 0, Expenses: 75},
		{Key: "2024-05", Label: "May 2024", Income: 120, Expenses: 0},
	}
	for i, w := range want {
		if rows[i] != w {
			t.Fatalf("row %d: got %+v, want %+v", i, rows[i], w)
		}
	}
}

func TestExpenseBreakdown(t *testing.T) {
	ctx := context.Background()
	s := seedFinancials(t)
	// An uncategorized record folds into Other.
	if _, err := s.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: 10, Category: "Giftshop", Date: "2024-03-08"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows, err := NewReportsService(s, s).ExpenseBreakdown(ctx, "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %v", rows)
	}
	if rows[0].Name != "Seeds" || rows[0].Amount != 100 || rows[0].Count != 1 {
		t.Fatalf("first row: %+v", rows[0])
	}
	if rows[1].Name != "Fuel" || rows[1].Amount != 50 {
		t.Fatalf("second row: %+v", rows[1])
	}
	if rows[2].Name != "Other" || rows[2].Amount != 10 {
		t.Fatalf("unknown category should fold into Other: %+v", rows[2])
	}
}

func TestIncomeBreakdown(t *testing.T) {
	s := seedFinancials(t)
	rows, err := NewReportsService(s, s).IncomeBreakdown(context.Background(), "", "")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "Crop Sales" || rows[0].Amount != 300 {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestReportsSkipBadDates(t *testing.T) {
	ctx := context.Background()
	s := seedFinancials(t)
	if _, err := s.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: 999, Category: core.CategorySeeds, Date: "bad-date"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := NewReportsService(s, s).FinancialSummary(ctx, "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("a malformed record date must not fail the report: %v", err)
	}
	if got.TotalExpenses != 225 {
		t.Fatalf("bad-dated record should be excluded, got %v", got.TotalExpenses)
	}
}

type failingExpenseStore struct {
	store.ExpenseStore
}

func (f failingExpenseStore) ListExpenses(context.Context) ([]core.Expense, error) {
	return nil, &store.TransportError{Op: "list expenses", Err: errors.New("connection refused")}
}

func TestReportsPropagateTransportErrors(t *testing.T) {
	s := seedFinancials(t)
	svc := NewReportsService(failingExpenseStore{s}, s)

	_, err := svc.FinancialSummary(context.Background(), "", "")
	var te *store.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}
