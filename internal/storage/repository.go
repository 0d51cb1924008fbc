// Package storage implements the store contracts on SQLite. The
// database file is the system of record; the expenses and income
// tables additionally track sync state for the ledger mirror.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Stores = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func transport(op string, err error) error {
	return &store.TransportError{Op: op, Err: err}
}

// Farms

func (r *SQLiteRepository) ListFarms(ctx context.Context) ([]core.Farm, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, size_acres, created_at FROM farms ORDER BY id`)
	if err != nil {
		return nil, transport("list farms", err)
	}
	defer rows.Close()

	var out []core.Farm
	for rows.Next() {
		var f core.Farm
		if err := rows.Scan(&f.ID, &f.Name, &f.Location, &f.SizeAcres, &f.CreatedAt); err != nil {
			return nil, transport("scan farm", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetFarm(ctx context.Context, id int64) (*core.Farm, error) {
	var f core.Farm
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, location, size_acres, created_at FROM farms WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.Location, &f.SizeAcres, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, transport("get farm", err)
	}
	return &f, nil
}

func (r *SQLiteRepository) CreateFarm(ctx context.Context, f core.Farm) (core.Farm, error) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO farms (name, location, size_acres, created_at) VALUES (?, ?, ?, ?)`,
		f.Name, f.Location, f.SizeAcres, f.CreatedAt)
	if err != nil {
		return core.Farm{}, transport("create farm", err)
	}
	f.ID, err = res.LastInsertId()
	if err != nil {
		return core.Farm{}, transport("create farm id", err)
	}
	return f, nil
}

func (r *SQLiteRepository) UpdateFarm(ctx context.Context, id int64, p store.FarmPatch) (core.Farm, error) {
	var sets []string
	var args []any
	if p.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *p.Name)
	}
	if p.Location != nil {
		sets, args = append(sets, "location = ?"), append(args, *p.Location)
	}
	if p.SizeAcres != nil {
		sets, args = append(sets, "size_acres = ?"), append(args, *p.SizeAcres)
	}
	if err := r.applyPatch(ctx, "farms", "update farm", id, sets, args); err != nil {
		return core.Farm{}, err
	}
	f, err := r.GetFarm(ctx, id)
	if err != nil {
		return core.Farm{}, err
	}
	if f == nil {
		return core.Farm{}, store.ErrNotFound
	}
	return *f, nil
}

func (r *SQLiteRepository) DeleteFarm(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "farms", "delete farm", id)
}

// Crops

const cropCols = `id, farm_id, crop_type, area_acres, planting_date, expected_harvest_date, status`

func (r *SQLiteRepository) ListCrops(ctx context.Context) ([]core.Crop, error) {
	return r.queryCrops(ctx, `SELECT `+cropCols+` FROM crops ORDER BY id`)
}

func (r *SQLiteRepository) ListCropsByFarm(ctx context.Context, farmID int64) ([]core.Crop, error) {
	return r.queryCrops(ctx, `SELECT `+cropCols+` FROM crops WHERE farm_id = ? ORDER BY id`, farmID)
}

func (r *SQLiteRepository) queryCrops(ctx context.Context, q string, args ...any) ([]core.Crop, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, transport("list crops", err)
	}
	defer rows.Close()

	var out []core.Crop
	for rows.Next() {
		var c core.Crop
		if err := rows.Scan(&c.ID, &c.FarmID, &c.CropType, &c.AreaAcres, &c.PlantingDate, &c.ExpectedHarvestDate, &c.Status); err != nil {
			return nil, transport("scan crop", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCrop(ctx context.Context, id int64) (*core.Crop, error) {
	var c core.Crop
	err := r.db.QueryRowContext(ctx,
		`SELECT `+cropCols+` FROM crops WHERE id = ?`, id).
		Scan(&c.ID, &c.FarmID, &c.CropType, &c.AreaAcres, &c.PlantingDate, &c.ExpectedHarvestDate, &c.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, transport("get crop", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) CreateCrop(ctx context.Context, c core.Crop) (core.Crop, error) {
	if c.Status == "" {
		c.Status = core.StatusPlanted
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO crops (farm_id, crop_type, area_acres, planting_date, expected_harvest_date, status) VALUES (?, ?, ?, ?, ?, ?)`,
		c.FarmID, c.CropType, c.AreaAcres, c.PlantingDate, c.ExpectedHarvestDate, c.Status)
	if err != nil {
		return core.Crop{}, transport("create crop", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Crop{}, transport("create crop id", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCrop(ctx context.Context, id int64, p store.CropPatch) (core.Crop, error) {
	var sets []string
	var args []any
	if p.CropType != nil {
		sets, args = append(sets, "crop_type = ?"), append(args, *p.CropType)
	}
	if p.AreaAcres != nil {
		sets, args = append(sets, "area_acres = ?"), append(args, *p.AreaAcres)
	}
	if p.PlantingDate != nil {
		sets, args = append(sets, "planting_date = ?"), append(args, *p.PlantingDate)
	}
	if p.ExpectedHarvestDate != nil {
		sets, args = append(sets, "expected_harvest_date = ?"), append(args, *p.ExpectedHarvestDate)
	}
	if p.Status != nil {
		sets, args = append(sets, "status = ?"), append(args, string(*p.Status))
	}
	if err := r.applyPatch(ctx, "crops", "update crop", id, sets, args); err != nil {
		return core.Crop{}, err
	}
	c, err := r.GetCrop(ctx, id)
	if err != nil {
		return core.Crop{}, err
	}
	if c == nil {
		return core.Crop{}, store.ErrNotFound
	}
	return *c, nil
}

func (r *SQLiteRepository) DeleteCrop(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "crops", "delete crop", id)
}

// Tasks

const taskCols = `id, farm_id, crop_id, title, description, priority, due_date, completed, created_at`

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]core.Task, error) {
	return r.queryTasks(ctx, `SELECT `+taskCols+` FROM tasks ORDER BY id`)
}

func (r *SQLiteRepository) ListTasksByFarm(ctx context.Context, farmID int64) ([]core.Task, error) {
	return r.queryTasks(ctx, `SELECT `+taskCols+` FROM tasks WHERE farm_id = ? ORDER BY id`, farmID)
}

func (r *SQLiteRepository) queryTasks(ctx context.Context, q string, args ...any) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, transport("list tasks", err)
	}
	defer rows.Close()

	var out []core.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, transport("scan task", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (core.Task, error) {
	var t core.Task
	var cropID sql.NullInt64
	err := row.Scan(&t.ID, &t.FarmID, &cropID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt)
	if err != nil {
		return core.Task{}, err
	}
	if cropID.Valid {
		t.CropID = &cropID.Int64
	}
	return t, nil
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*core.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, transport("get task", err)
	}
	return &t, nil
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	var cropID sql.NullInt64
	if t.CropID != nil {
		cropID = sql.NullInt64{Int64: *t.CropID, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (farm_id, crop_id, title, description, priority, due_date, completed, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.FarmID, cropID, t.Title, t.Description, t.Priority, t.DueDate, t.Completed, t.CreatedAt)
	if err != nil {
		return core.Task{}, transport("create task", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Task{}, transport("create task id", err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, id int64, p store.TaskPatch) (core.Task, error) {
	var sets []string
	var args []any
	if p.Title != nil {
		sets, args = append(sets, "title = ?"), append(args, *p.Title)
	}
	if p.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *p.Description)
	}
	if p.Priority != nil {
		sets, args = append(sets, "priority = ?"), append(args, string(*p.Priority))
	}
	if p.DueDate != nil {
		sets, args = append(sets, "due_date = ?"), append(args, *p.DueDate)
	}
	if p.Completed != nil {
		sets, args = append(sets, "completed = ?"), append(args, *p.Completed)
	}
	if err := r.applyPatch(ctx, "tasks", "update task", id, sets, args); err != nil {
		return core.Task{}, err
	}
	t, err := r.GetTask(ctx, id)
	if err != nil {
		return core.Task{}, err
	}
	if t == nil {
		return core.Task{}, store.ErrNotFound
	}
	return *t, nil
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "tasks", "delete task", id)
}

// Expenses

const expenseCols = `id, farm_id, amount, category, date, description`

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return r.queryExpenses(ctx, `SELECT `+expenseCols+` FROM expenses ORDER BY id`)
}

func (r *SQLiteRepository) ListExpensesByFarm(ctx context.Context, farmID int64) ([]core.Expense, error) {
	return r.queryExpenses(ctx, `SELECT `+expenseCols+` FROM expenses WHERE farm_id = ? ORDER BY id`, farmID)
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, q string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, transport("list expenses", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.FarmID, &e.Amount, &e.Category, &e.Date, &e.Description); err != nil {
			return nil, transport("scan expense", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.FarmID, &e.Amount, &e.Category, &e.Date, &e.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, transport("get expense", err)
	}
	return &e, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (farm_id, amount, category, date, description) VALUES (?, ?, ?, ?, ?)`,
		e.FarmID, e.Amount, e.Category, e.Date, e.Description)
	if err != nil {
		return core.Expense{}, transport("create expense", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expense{}, transport("create expense id", err)
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id int64, p store.ExpensePatch) (core.Expense, error) {
	// Updated rows re-enter the sync queue so the ledger converges on
	// the latest values.
	sets := []string{"sync_status = 'pending'", "version = version + 1"}
	var args []any
	if p.Amount != nil {
		sets, args = append(sets, "amount = ?"), append(args, *p.Amount)
	}
	if p.Category != nil {
		sets, args = append(sets, "category = ?"), append(args, string(*p.Category))
	}
	if p.Date != nil {
		sets, args = append(sets, "date = ?"), append(args, *p.Date)
	}
	if p.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *p.Description)
	}
	if err := r.applyPatch(ctx, "expenses", "update expense", id, sets, args); err != nil {
		return core.Expense{}, err
	}
	e, err := r.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}
	if e == nil {
		return core.Expense{}, store.ErrNotFound
	}
	return *e, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "expenses", "delete expense", id)
}

// Income

const incomeCols = `id, source, amount, date, description`

func (r *SQLiteRepository) ListIncome(ctx context.Context) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+incomeCols+` FROM income ORDER BY id`)
	if err != nil {
		return nil, transport("list income", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var i core.Income
		if err := rows.Scan(&i.ID, &i.Source, &i.Amount, &i.Date, &i.Description); err != nil {
			return nil, transport("scan income", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (*core.Income, error) {
	var i core.Income
	err := r.db.QueryRowContext(ctx,
		`SELECT `+incomeCols+` FROM income WHERE id = ?`, id).
		Scan(&i.ID, &i.Source, &i.Amount, &i.Date, &i.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, transport("get income", err)
	}
	return &i, nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO income (source, amount, date, description) VALUES (?, ?, ?, ?)`,
		i.Source, i.Amount, i.Date, i.Description)
	if err != nil {
		return core.Income{}, transport("create income", err)
	}
	i.ID, err = res.LastInsertId()
	if err != nil {
		return core.Income{}, transport("create income id", err)
	}
	return i, nil
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, id int64, p store.IncomePatch) (core.Income, error) {
	sets := []string{"sync_status = 'pending'", "version = version + 1"}
	var args []any
	if p.Amount != nil {
		sets, args = append(sets, "amount = ?"), append(args, *p.Amount)
	}
	if p.Source != nil {
		sets, args = append(sets, "source = ?"), append(args, string(*p.Source))
	}
	if p.Date != nil {
		sets, args = append(sets, "date = ?"), append(args, *p.Date)
	}
	if p.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *p.Description)
	}
	if err := r.applyPatch(ctx, "income", "update income", id, sets, args); err != nil {
		return core.Income{}, err
	}
	i, err := r.GetIncome(ctx, id)
	if err != nil {
		return core.Income{}, err
	}
	if i == nil {
		return core.Income{}, store.ErrNotFound
	}
	return *i, nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "income", "delete income", id)
}

// applyPatch runs a partial UPDATE. An empty patch is a no-op; the
// caller re-reads the row afterwards, which doubles as the existence
// check.
func (r *SQLiteRepository) applyPatch(ctx context.Context, table, op string, id int64, sets []string, args []any) error {
	if len(sets) == 0 {
		return nil
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return transport(op, err)
	}
	return nil
}

func (r *SQLiteRepository) deleteRow(ctx context.Context, table, op string, id int64) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return transport(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return transport(op, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
