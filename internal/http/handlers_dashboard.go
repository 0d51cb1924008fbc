package http

import (
	"net/http"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/log"
	"farmbook/internal/weather"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	start, end := core.DefaultReportRange(time.Now())
	data := struct {
		Today             string
		ReportStart       string
		ReportEnd         string
		ExpenseCategories []core.ExpenseCategory
		IncomeSources     []core.IncomeSource
		Priorities        []core.TaskPriority
	}{
		Today:             time.Now().Format(core.DayLayout),
		ReportStart:       start,
		ReportEnd:         end,
		ExpenseCategories: core.ExpenseCategories,
		IncomeSources:     core.IncomeSources,
		Priorities:        []core.TaskPriority{core.PriorityHigh, core.PriorityMedium, core.PriorityLow},
	}

	s.render(w, r, "index.html", data)
}

// handleStats renders the dashboard stat cards partial.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, found := s.statsCache.Get("dashboard")
	if !found {
		var err error
		stats, err = s.dashboard.Stats(r.Context(), time.Now())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Dashboard stats error", log.FieldError, err)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<div class="error">Could not load farm stats</div>`))
			return
		}
		s.statsCache.Set("dashboard", stats)
	}

	data := struct {
		FarmCount       int
		CropCount       int
		PendingTasks    int
		MonthlyExpenses string
	}{
		FarmCount:       stats.FarmCount,
		CropCount:       stats.CropCount,
		PendingTasks:    stats.PendingTasks,
		MonthlyExpenses: core.FormatCurrency(stats.MonthlyExpenses),
	}

	s.render(w, r, "dashboard_stats.html", data)
}

// handleUpcomingTasks renders tasks due within the next week.
func (s *Server) handleUpcomingTasks(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	tasks, err := s.dashboard.UpcomingTasks(r.Context(), now)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Upcoming tasks error", log.FieldError, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Could not load tasks</div>`))
		return
	}

	type row struct {
		ID           int64
		Title        string
		DueDate      string
		Priority     string
		PriorityTone string
		Overdue      bool
	}
	rows := make([]row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, row{
			ID:           t.ID,
			Title:        t.Title,
			DueDate:      t.DueDate,
			Priority:     string(t.Priority),
			PriorityTone: string(t.Priority.Tone()),
			Overdue:      core.Overdue(t, now),
		})
	}

	s.render(w, r, "upcoming_tasks.html", struct{ Tasks []row }{rows})
}

// handleRecentExpenses renders the five newest expenses.
func (s *Server) handleRecentExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.dashboard.RecentExpenses(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Recent expenses error", log.FieldError, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Could not load expenses</div>`))
		return
	}

	type row struct {
		ID           int64
		Date         string
		Description  string
		Amount       string
		Category     string
		CategoryTone string
	}
	rows := make([]row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, row{
			ID:           e.ID,
			Date:         e.Date,
			Description:  e.Description,
			Amount:       core.FormatCurrency(e.Amount),
			Category:     string(e.Category),
			CategoryTone: string(e.Category.Tone()),
		})
	}

	s.render(w, r, "recent_expenses.html", struct{ Expenses []row }{rows})
}

// handleWeather renders the forecast with fieldwork advice per day.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	forecast := weather.DefaultForecast()
	if s.forecast != nil {
		f, err := s.forecast.Forecast(r.Context())
		if err != nil {
			s.logger.WarnContext(r.Context(), "Forecast unavailable, using builtin", log.FieldError, err)
		} else {
			forecast = f
		}
	}

	type adviceRow struct {
		Message string
		Tone    string
	}
	type dayRow struct {
		Date          string
		Condition     string
		High, Low     float64
		Precipitation float64
		WindSpeed     float64
		Advice        []adviceRow
	}

	days := make([]dayRow, 0, len(forecast.Days))
	for _, d := range forecast.Days {
		row := dayRow{
			Date:          d.Date,
			Condition:     d.Condition,
			High:          d.High,
			Low:           d.Low,
			Precipitation: d.Precipitation,
			WindSpeed:     d.WindSpeed,
		}
		for _, a := range weather.AdviceFor(d) {
			row.Advice = append(row.Advice, adviceRow{Message: a.Message, Tone: string(a.Tone)})
		}
		days = append(days, row)
	}

	s.render(w, r, "weather.html", struct {
		Location string
		Days     []dayRow
	}{forecast.Location, days})
}
