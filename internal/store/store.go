// Package store defines the persistence contracts the rest of the
// application programs against, together with the error taxonomy the
// implementations share. Lookups by id return (nil, nil) for unknown
// ids; Update and Delete return ErrNotFound instead.
package store

import (
	"context"

	"farmbook/internal/core"
)

// Patch structs carry partial updates. A nil field leaves the stored
// value untouched, so a caller can never clear a field by accident.

type FarmPatch struct {
	Name      *string
	Location  *string
	SizeAcres *float64
}

type CropPatch struct {
	CropType            *string
	AreaAcres           *float64
	PlantingDate        *string
	ExpectedHarvestDate *string
	Status              *core.CropStatus
}

type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *core.TaskPriority
	DueDate     *string
	Completed   *bool
}

type ExpensePatch struct {
	Amount      *float64
	Category    *core.ExpenseCategory
	Date        *string
	Description *string
}

type IncomePatch struct {
	Amount      *float64
	Source      *core.IncomeSource
	Date        *string
	Description *string
}

type FarmStore interface {
	ListFarms(ctx context.Context) ([]core.Farm, error)
	GetFarm(ctx context.Context, id int64) (*core.Farm, error)
	CreateFarm(ctx context.Context, f core.Farm) (core.Farm, error)
	UpdateFarm(ctx context.Context, id int64, p FarmPatch) (core.Farm, error)
	DeleteFarm(ctx context.Context, id int64) error
}

type CropStore interface {
	ListCrops(ctx context.Context) ([]core.Crop, error)
	ListCropsByFarm(ctx context.Context, farmID int64) ([]core.Crop, error)
	GetCrop(ctx context.Context, id int64) (*core.Crop, error)
	CreateCrop(ctx context.Context, c core.Crop) (core.Crop, error)
	UpdateCrop(ctx context.Context, id int64, p CropPatch) (core.Crop, error)
	DeleteCrop(ctx context.Context, id int64) error
}

type TaskStore interface {
	ListTasks(ctx context.Context) ([]core.Task, error)
	ListTasksByFarm(ctx context.Context, farmID int64) ([]core.Task, error)
	GetTask(ctx context.Context, id int64) (*core.Task, error)
	CreateTask(ctx context.Context, t core.Task) (core.Task, error)
	UpdateTask(ctx context.Context, id int64, p TaskPatch) (core.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type ExpenseStore interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	ListExpensesByFarm(ctx context.Context, farmID int64) ([]core.Expense, error)
	GetExpense(ctx context.Context, id int64) (*core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, id int64, p ExpensePatch) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

type IncomeStore interface {
	ListIncome(ctx context.Context) ([]core.Income, error)
	GetIncome(ctx context.Context, id int64) (*core.Income, error)
	CreateIncome(ctx context.Context, i core.Income) (core.Income, error)
	UpdateIncome(ctx context.Context, id int64, p IncomePatch) (core.Income, error)
	DeleteIncome(ctx context.Context, id int64) error
}

// Stores bundles the per-entity contracts for wiring.
type Stores interface {
	FarmStore
	CropStore
	TaskStore
	ExpenseStore
	IncomeStore
}
