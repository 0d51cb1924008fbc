package services

import (
	"context"
	"fmt"
	"log/slog"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
	"farmbook/internal/store"
)

// SyncPublisher pushes record sync messages toward the ledger worker.
// A nil publisher disables mirroring; records still land locally.
type SyncPublisher interface {
	PublishSync(ctx context.Context, msg *amqp.SyncMessage) error
}

// ExpenseService handles expense CRUD plus ledger sync publishing.
type ExpenseService struct {
	store     store.ExpenseStore
	publisher SyncPublisher
}

func NewExpenseService(s store.ExpenseStore, publisher SyncPublisher) *ExpenseService {
	return &ExpenseService{store: s, publisher: publisher}
}

func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *ExpenseService) ListByFarm(ctx context.Context, farmID int64) ([]core.Expense, error) {
	return s.store.ListExpensesByFarm(ctx, farmID)
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (*core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// Create validates and saves the expense, then publishes a sync
// message. Publish failures are logged, not returned; the expense is
// already safe locally and the periodic sweep will catch up.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, &store.ValidationError{Err: err}
	}

	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, amqp.NewUpsertMessage(amqp.KindExpense, created.ID, 1))
	return created, nil
}

func (s *ExpenseService) Update(ctx context.Context, id int64, p store.ExpensePatch) (core.Expense, error) {
	if p.Amount != nil && *p.Amount <= 0 {
		return core.Expense{}, &store.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
	}
	if p.Date != nil {
		if _, err := core.ParseDay(*p.Date); err != nil {
			return core.Expense{}, &store.ValidationError{Field: "date", Err: core.ErrInvalidDate}
		}
	}

	updated, err := s.store.UpdateExpense(ctx, id, p)
	if err != nil {
		return core.Expense{}, err
	}

	s.publish(ctx, amqp.NewUpsertMessage(amqp.KindExpense, id, 0))
	return updated, nil
}

// Delete removes the expense and tells the worker to clear its ledger
// row. The row values travel in the message because the local row is
// gone once this returns.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return store.ErrNotFound
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.NewDeleteMessage(amqp.KindExpense, id, e.Date, e.Amount, string(e.Category)))
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, msg *amqp.SyncMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense sync message",
			"op", msg.Op, "id", msg.ID, "error", err)
	}
}
