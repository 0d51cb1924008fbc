package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

// DashboardStats is the stat-card row at the top of the dashboard.
type DashboardStats struct {
	FarmCount       int
	CropCount       int
	PendingTasks    int
	MonthlyExpenses float64
}

// DashboardService aggregates the landing-page numbers across all
// four record stores in one concurrent pass.
type DashboardService struct {
	stores store.Stores
}

func NewDashboardService(stores store.Stores) *DashboardService {
	return &DashboardService{stores: stores}
}

// Stats fans out over farms, crops, tasks and expenses. The expense
// total covers the current calendar month.
func (s *DashboardService) Stats(ctx context.Context, now time.Time) (DashboardStats, error) {
	var (
		farms    []core.Farm
		crops    []core.Crop
		tasks    []core.Task
		expenses []core.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		farms, err = s.stores.ListFarms(gctx)
		return err
	})
	g.Go(func() (err error) {
		crops, err = s.stores.ListCrops(gctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.stores.ListTasks(gctx)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.stores.ListExpenses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}

	stats := DashboardStats{
		FarmCount: len(farms),
		CropCount: len(crops),
	}
	for _, t := range tasks {
		if !t.Completed {
			stats.PendingTasks++
		}
	}

	monthStart := core.StartOfMonth(now).Format(core.DayLayout)
	monthEnd := core.EndOfMonth(now).Format(core.DayLayout)
	monthly, _ := core.FilterByDateRange(expenses, monthStart, monthEnd)
	for _, e := range monthly {
		stats.MonthlyExpenses += e.Amount
	}

	return stats, nil
}

// UpcomingTasks returns the next week's open tasks, at most five.
func (s *DashboardService) UpcomingTasks(ctx context.Context, now time.Time) ([]core.Task, error) {
	tasks, err := s.stores.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return core.UpcomingTasks(tasks, now), nil
}

// RecentExpenses returns the five most recent expenses by date.
func (s *DashboardService) RecentExpenses(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.stores.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return core.RecentExpenses(expenses, 5), nil
}
