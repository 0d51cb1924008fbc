package core

// FinancialSummary aggregates expenses and income over a date range.
type FinancialSummary struct {
	TotalExpenses float64
	TotalIncome   float64
	NetProfit     float64
	ProfitMargin  float64 // percent of income; 0 when income is 0
	ExpenseCount  int
	IncomeCount   int
}

// MonthlyRow is one month of the income-versus-expenses comparison.
type MonthlyRow struct {
	Key      string // yyyy-MM, rows sort by this
	Label    string // e.g. "Mar 2024"
	Income   float64
	Expenses float64
}

// BreakdownRow is a per-category (or per-source) total.
type BreakdownRow struct {
	Name   string
	Amount float64
	Count  int
}
