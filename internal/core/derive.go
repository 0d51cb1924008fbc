package core

import (
	"math"
	"sort"
	"time"
)

// GrowthProgress returns how far a crop is through its season as a
// whole percent, clamped to [0, 100] before rounding. Unparseable
// dates or a non-positive season length yield 0.
func GrowthProgress(c Crop, now time.Time) int {
	planted, err := ParseDay(c.PlantingDate)
	if err != nil {
		return 0
	}
	harvest, err := ParseDay(c.ExpectedHarvestDate)
	if err != nil {
		return 0
	}
	total := harvest.Sub(planted).Hours() / 24
	if total <= 0 {
		return 0
	}
	passed := now.Sub(planted).Hours() / 24
	pct := passed / total * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return int(math.Round(pct))
}

// Overdue reports whether an incomplete task's due date has passed.
// A completed task is never overdue, and a task whose due date does
// not parse is not flagged.
func Overdue(t Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, err := ParseDay(t.DueDate)
	if err != nil {
		return false
	}
	return due.Before(now)
}

// UpcomingTasks picks the incomplete tasks due between now and seven
// days out, bounds inclusive, sorted by due date ascending, capped at
// five. Tasks with unparseable due dates are skipped.
func UpcomingTasks(tasks []Task, now time.Time) []Task {
	horizon := now.AddDate(0, 0, 7)
	var out []Task
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		due, err := ParseDay(t.DueDate)
		if err != nil {
			continue
		}
		if due.Before(now) || due.After(horizon) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate < out[j].DueDate
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// RecentExpenses returns the latest n expenses by record date,
// newest first. Ties keep input order.
func RecentExpenses(expenses []Expense, n int) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
