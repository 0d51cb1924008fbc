package services

import (
	"context"
	"errors"
	"testing"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
	"farmbook/internal/store"
	"farmbook/internal/store/memory"
)

type capturePublisher struct {
	messages []*amqp.SyncMessage
	fail     bool
}

func (p *capturePublisher) PublishSync(_ context.Context, msg *amqp.SyncMessage) error {
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

func TestExpenseServiceCreate(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	svc := NewExpenseService(memory.New(), pub)

	created, err := svc.Create(ctx, core.Expense{FarmID: 1, Amount: 42.5, Category: core.CategoryFuel, Date: "2024-05-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	if len(pub.messages) != 1 {
		t.Fatalf("expected one sync message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.Op != amqp.OpUpsert || msg.Kind != amqp.KindExpense || msg.ID != created.ID {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestExpenseServiceCreateRejectsInvalid(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	cases := []struct {
		name string
		e    core.Expense
	}{
		{"zero amount", core.Expense{FarmID: 1, Amount: 0, Date: "2024-05-01"}},
		{"bad date", core.Expense{FarmID: 1, Amount: 10, Date: "05/01/2024"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.e)
			if !store.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestExpenseServiceDeletePublishesRowData(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	svc := NewExpenseService(memory.New(), pub)

	created, err := svc.Create(ctx, core.Expense{FarmID: 1, Amount: 10, Category: core.CategorySeeds, Date: "2024-05-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	last := pub.messages[len(pub.messages)-1]
	if last.Op != amqp.OpDelete {
		t.Fatalf("expected delete message, got %+v", last)
	}
	if last.Date != "2024-05-01" || last.Amount != 10 || last.Label != "Seeds" {
		t.Fatalf("delete message missing row data: %+v", last)
	}

	if err := svc.Delete(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestExpenseServiceSurvivesPublishFailure(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(memory.New(), &capturePublisher{fail: true})

	created, err := svc.Create(ctx, core.Expense{FarmID: 1, Amount: 10, Category: core.CategorySeeds, Date: "2024-05-01"})
	if err != nil {
		t.Fatalf("a broker outage must not fail the save: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil || got == nil {
		t.Fatalf("expense should be stored locally: %v %v", got, err)
	}
}

func TestExpenseServiceNilPublisher(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)
	if _, err := svc.Create(context.Background(), core.Expense{FarmID: 1, Amount: 5, Category: core.CategoryOther, Date: "2024-05-01"}); err != nil {
		t.Fatalf("nil publisher should be allowed: %v", err)
	}
}
