package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/log"
)

// breakdownRow is a rendered category or source slice.
type breakdownRow struct {
	Name    string
	Tone    string
	Amount  string
	Percent string
	Width   int
	Count   int
}

// monthlyRow is one rendered month of the income/expense comparison.
type monthlyRow struct {
	Label         string
	Income        string
	Expenses      string
	IncomeWidth   int
	ExpensesWidth int
}

// reportView carries everything the report partial renders.
type reportView struct {
	Start string
	End   string

	TotalExpenses string
	TotalIncome   string
	NetProfit     string
	NetPositive   bool
	ProfitMargin  string
	ExpenseCount  int
	IncomeCount   int

	Monthly      []monthlyRow
	ExpenseRows  []breakdownRow
	IncomeRows   []breakdownRow
	HasFinancial bool
}

// handleReport renders the financial report partial for a date range.
// Requests carrying a sequence number older than the server's current
// one get 204 so HTMX drops the response instead of swapping stale data.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if v := strings.TrimSpace(r.URL.Query().Get("seq")); v != "" {
		if seq, err := strconv.ParseInt(v, 10, 64); err == nil && seq < s.reportSeq.Load() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	rng, err := ParseDateRange(r.URL.Query())
	if err != nil {
		BadRequestError("Invalid date range").Write(w)
		return
	}
	if rng.Start == "" && rng.End == "" {
		rng.Start, rng.End = core.DefaultReportRange(time.Now())
	}

	view, err := s.buildReport(r, rng)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Report build error",
			log.FieldError, err, log.FieldStartDate, rng.Start, log.FieldEndDate, rng.End)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Could not load report</div>`))
		return
	}

	s.render(w, r, "report.html", view)
}

// handleReportRange validates a new range, bumps the report sequence and
// tells the report partials to reload.
func (s *Server) handleReportRange(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	rng, err := ParseDateRange(r.Form)
	if err != nil {
		UnprocessableEntityError("Dates must be yyyy-MM-dd").Write(w)
		return
	}

	seq := s.reportSeq.Add(1)
	s.logger.InfoContext(r.Context(), "Report range changed",
		log.FieldStartDate, rng.Start, log.FieldEndDate, rng.End, "seq", seq)

	NewHTMXResponse().
		TriggerReportRefresh(rng.Start, rng.End, seq).
		Write(w)
}

func (s *Server) reportCacheKey(rng DateRange) string {
	return rng.Start + "|" + rng.End
}

func (s *Server) buildReport(r *http.Request, rng DateRange) (reportView, error) {
	key := s.reportCacheKey(rng)
	if view, found := s.reportCache.Get(key); found {
		s.logger.DebugContext(r.Context(), "Report cache hit",
			log.FieldStartDate, rng.Start, log.FieldEndDate, rng.End)
		return view, nil
	}

	ctx := r.Context()
	summary, err := s.reports.FinancialSummary(ctx, rng.Start, rng.End)
	if err != nil {
		return reportView{}, err
	}
	monthly, err := s.reports.MonthlyComparison(ctx, rng.Start, rng.End)
	if err != nil {
		return reportView{}, err
	}
	expenseRows, err := s.reports.ExpenseBreakdown(ctx, rng.Start, rng.End)
	if err != nil {
		return reportView{}, err
	}
	incomeRows, err := s.reports.IncomeBreakdown(ctx, rng.Start, rng.End)
	if err != nil {
		return reportView{}, err
	}

	view := reportView{
		Start:         rng.Start,
		End:           rng.End,
		TotalExpenses: core.FormatCurrency(summary.TotalExpenses),
		TotalIncome:   core.FormatCurrency(summary.TotalIncome),
		NetProfit:     core.FormatCurrency(summary.NetProfit),
		NetPositive:   summary.NetProfit >= 0,
		ProfitMargin:  core.FormatPercentage(summary.ProfitMargin),
		ExpenseCount:  summary.ExpenseCount,
		IncomeCount:   summary.IncomeCount,
		Monthly:       renderMonthly(monthly),
		ExpenseRows:   renderBreakdown(expenseRows, summary.TotalExpenses, expenseTone),
		IncomeRows:    renderBreakdown(incomeRows, summary.TotalIncome, incomeTone),
		HasFinancial:  summary.ExpenseCount > 0 || summary.IncomeCount > 0,
	}

	s.reportCache.Set(key, view)
	return view, nil
}

func expenseTone(name string) string {
	return string(core.ExpenseCategory(name).Tone())
}

func incomeTone(name string) string {
	return string(core.IncomeSource(name).Tone())
}

func renderBreakdown(rows []core.BreakdownRow, total float64, tone func(string) string) []breakdownRow {
	out := make([]breakdownRow, 0, len(rows))
	for _, row := range rows {
		pct := core.PercentOf(row.Amount, total)
		out = append(out, breakdownRow{
			Name:    row.Name,
			Tone:    tone(row.Name),
			Amount:  core.FormatCurrency(row.Amount),
			Percent: core.FormatPercentage(pct),
			Width:   barWidth(row.Amount, total),
			Count:   row.Count,
		})
	}
	return out
}

func renderMonthly(rows []core.MonthlyRow) []monthlyRow {
	var max float64
	for _, row := range rows {
		if row.Income > max {
			max = row.Income
		}
		if row.Expenses > max {
			max = row.Expenses
		}
	}

	out := make([]monthlyRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, monthlyRow{
			Label:         row.Label,
			Income:        core.FormatCurrency(row.Income),
			Expenses:      core.FormatCurrency(row.Expenses),
			IncomeWidth:   barWidth(row.Income, max),
			ExpensesWidth: barWidth(row.Expenses, max),
		})
	}
	return out
}

// barWidth converts an amount to a rounded percent of max for the CSS
// bars, keeping very small non-zero slices visible.
func barWidth(amount, max float64) int {
	if max <= 0 || amount <= 0 {
		return 0
	}
	width := int(amount/max*100 + 0.5)
	if width > 0 && width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}
