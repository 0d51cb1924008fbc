package services

import (
	"context"
	"testing"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/store/memory"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	s.CreateFarm(ctx, core.Farm{Name: "A", SizeAcres: 10})
	s.CreateFarm(ctx, core.Farm{Name: "B", SizeAcres: 20})
	s.CreateCrop(ctx, core.Crop{FarmID: 1, CropType: "Corn"})
	s.CreateTask(ctx, core.Task{FarmID: 1, Title: "open", DueDate: "2024-06-12"})
	s.CreateTask(ctx, core.Task{FarmID: 1, Title: "done", DueDate: "2024-06-12", Completed: true})
	s.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: 40, Category: core.CategoryFuel, Date: "2024-06-05"})
	s.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: 99, Category: core.CategoryFuel, Date: "2024-05-05"})

	stats, err := NewDashboardService(s).Stats(ctx, now)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.FarmCount != 2 || stats.CropCount != 1 {
		t.Fatalf("counts: %+v", stats)
	}
	if stats.PendingTasks != 1 {
		t.Fatalf("pending tasks = %d, want 1", stats.PendingTasks)
	}
	if stats.MonthlyExpenses != 40 {
		t.Fatalf("monthly expenses should cover June only, got %v", stats.MonthlyExpenses)
	}
}

func TestDashboardUpcomingAndRecent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	s.CreateTask(ctx, core.Task{FarmID: 1, Title: "near", DueDate: "2024-06-11"})
	s.CreateTask(ctx, core.Task{FarmID: 1, Title: "far", DueDate: "2024-08-01"})
	for i := 0; i < 7; i++ {
		s.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: float64(i + 1), Category: core.CategorySeeds, Date: "2024-06-0" + string(rune('1'+i))})
	}

	svc := NewDashboardService(s)
	tasks, err := svc.UpcomingTasks(ctx, now)
	if err != nil || len(tasks) != 1 || tasks[0].Title != "near" {
		t.Fatalf("upcoming: %v %v", tasks, err)
	}

	recent, err := svc.RecentExpenses(ctx)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("expected 5 recent expenses, got %d", len(recent))
	}
	if recent[0].Date != "2024-06-07" {
		t.Fatalf("expected newest first, got %s", recent[0].Date)
	}
}
