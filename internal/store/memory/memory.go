// Package memory implements the store contracts in process memory.
// It backs local development runs and the service tests.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

type Store struct {
	mu       sync.Mutex
	farms    map[int64]core.Farm
	crops    map[int64]core.Crop
	tasks    map[int64]core.Task
	expenses map[int64]core.Expense
	income   map[int64]core.Income
	nextID   int64
}

var _ store.Stores = (*Store)(nil)

func New() *Store {
	return &Store{
		farms:    map[int64]core.Farm{},
		crops:    map[int64]core.Crop{},
		tasks:    map[int64]core.Task{},
		expenses: map[int64]core.Expense{},
		income:   map[int64]core.Income{},
		nextID:   1,
	}
}

// seedFile mirrors the record shapes with JSON tags for seed data.
type seedFile struct {
	Farms    []core.Farm    `json:"farms"`
	Crops    []core.Crop    `json:"crops"`
	Tasks    []core.Task    `json:"tasks"`
	Expenses []core.Expense `json:"expenses"`
	Income   []core.Income  `json:"income"`
}

// NewFromFiles builds a store seeded from base/seed.json when the
// file exists; a missing or malformed file yields an empty store.
func NewFromFiles(base string) *Store {
	s := New()
	raw, err := os.ReadFile(filepath.Join(base, "seed.json"))
	if err != nil {
		return s
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return s
	}
	ctx := context.Background()
	for _, f := range seed.Farms {
		s.CreateFarm(ctx, f)
	}
	for _, c := range seed.Crops {
		s.CreateCrop(ctx, c)
	}
	for _, t := range seed.Tasks {
		s.CreateTask(ctx, t)
	}
	for _, e := range seed.Expenses {
		s.CreateExpense(ctx, e)
	}
	for _, i := range seed.Income {
		s.CreateIncome(ctx, i)
	}
	return s
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) ListFarms(_ context.Context) ([]core.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Farm, 0, len(s.farms))
	for _, f := range s.farms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetFarm(_ context.Context, id int64) (*core.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.farms[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (s *Store) CreateFarm(_ context.Context, f core.Farm) (core.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = s.allocID()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	s.farms[f.ID] = f
	return f, nil
}

func (s *Store) UpdateFarm(_ context.Context, id int64, p store.FarmPatch) (core.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.farms[id]
	if !ok {
		return core.Farm{}, store.ErrNotFound
	}
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.SizeAcres != nil {
		f.SizeAcres = *p.SizeAcres
	}
	s.farms[id] = f
	return f, nil
}

func (s *Store) DeleteFarm(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.farms[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.farms, id)
	return nil
}

func (s *Store) ListCrops(_ context.Context) ([]core.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Crop, 0, len(s.crops))
	for _, c := range s.crops {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListCropsByFarm(ctx context.Context, farmID int64) ([]core.Crop, error) {
	all, _ := s.ListCrops(ctx)
	out := all[:0]
	for _, c := range all {
		if c.FarmID == farmID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) GetCrop(_ context.Context, id int64) (*core.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.crops[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) CreateCrop(_ context.Context, c core.Crop) (core.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.allocID()
	if c.Status == "" {
		c.Status = core.StatusPlanted
	}
	s.crops[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCrop(_ context.Context, id int64, p store.CropPatch) (core.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.crops[id]
	if !ok {
		return core.Crop{}, store.ErrNotFound
	}
	if p.CropType != nil {
		c.CropType = *p.CropType
	}
	if p.AreaAcres != nil {
		c.AreaAcres = *p.AreaAcres
	}
	if p.PlantingDate != nil {
		c.PlantingDate = *p.PlantingDate
	}
	if p.ExpectedHarvestDate != nil {
		c.ExpectedHarvestDate = *p.ExpectedHarvestDate
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	s.crops[id] = c
	return c, nil
}

func (s *Store) DeleteCrop(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.crops[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.crops, id)
	return nil
}

func (s *Store) ListTasks(_ context.Context) ([]core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListTasksByFarm(ctx context.Context, farmID int64) ([]core.Task, error) {
	all, _ := s.ListTasks(ctx)
	out := all[:0]
	for _, t := range all {
		if t.FarmID == farmID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) GetTask(_ context.Context, id int64) (*core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) CreateTask(_ context.Context, t core.Task) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTask(_ context.Context, id int64, p store.TaskPatch) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return core.Task{}, store.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	s.tasks[id] = t
	return t, nil
}

func (s *Store) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListExpensesByFarm(ctx context.Context, farmID int64) ([]core.Expense, error) {
	all, _ := s.ListExpenses(ctx)
	out := all[:0]
	for _, e := range all {
		if e.FarmID == farmID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.allocID()
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) UpdateExpense(_ context.Context, id int64, p store.ExpensePatch) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, store.ErrNotFound
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	s.expenses[id] = e
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) ListIncome(_ context.Context) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Income, 0, len(s.income))
	for _, i := range s.income {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetIncome(_ context.Context, id int64) (*core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.income[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (s *Store) CreateIncome(_ context.Context, i core.Income) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i.ID = s.allocID()
	s.income[i.ID] = i
	return i, nil
}

func (s *Store) UpdateIncome(_ context.Context, id int64, p store.IncomePatch) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.income[id]
	if !ok {
		return core.Income{}, store.ErrNotFound
	}
	if p.Amount != nil {
		i.Amount = *p.Amount
	}
	if p.Source != nil {
		i.Source = *p.Source
	}
	if p.Date != nil {
		i.Date = *p.Date
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	s.income[id] = i
	return i, nil
}

func (s *Store) DeleteIncome(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.income[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.income, id)
	return nil
}
