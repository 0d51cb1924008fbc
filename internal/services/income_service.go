package services

import (
	"context"
	"fmt"
	"log/slog"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
	"farmbook/internal/store"
)

// IncomeService mirrors ExpenseService for income records.
type IncomeService struct {
	store     store.IncomeStore
	publisher SyncPublisher
}

func NewIncomeService(s store.IncomeStore, publisher SyncPublisher) *IncomeService {
	return &IncomeService{store: s, publisher: publisher}
}

func (s *IncomeService) List(ctx context.Context) ([]core.Income, error) {
	return s.store.ListIncome(ctx)
}

func (s *IncomeService) Get(ctx context.Context, id int64) (*core.Income, error) {
	return s.store.GetIncome(ctx, id)
}

func (s *IncomeService) Create(ctx context.Context, i core.Income) (core.Income, error) {
	if err := i.Validate(); err != nil {
		return core.Income{}, &store.ValidationError{Err: err}
	}

	created, err := s.store.CreateIncome(ctx, i)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}

	s.publish(ctx, amqp.NewUpsertMessage(amqp.KindIncome, created.ID, 1))
	return created, nil
}

func (s *IncomeService) Update(ctx context.Context, id int64, p store.IncomePatch) (core.Income, error) {
	if p.Amount != nil && *p.Amount <= 0 {
		return core.Income{}, &store.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
	}
	if p.Date != nil {
		if _, err := core.ParseDay(*p.Date); err != nil {
			return core.Income{}, &store.ValidationError{Field: "date", Err: core.ErrInvalidDate}
		}
	}

	updated, err := s.store.UpdateIncome(ctx, id, p)
	if err != nil {
		return core.Income{}, err
	}

	s.publish(ctx, amqp.NewUpsertMessage(amqp.KindIncome, id, 0))
	return updated, nil
}

func (s *IncomeService) Delete(ctx context.Context, id int64) error {
	i, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return err
	}
	if i == nil {
		return store.ErrNotFound
	}

	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.NewDeleteMessage(amqp.KindIncome, id, i.Date, i.Amount, string(i.Source)))
	return nil
}

func (s *IncomeService) publish(ctx context.Context, msg *amqp.SyncMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish income sync message",
			"op", msg.Op, "id", msg.ID, "error", err)
	}
}
