package worker

import (
	"context"
	"path/filepath"
	"testing"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
	ledgermem "farmbook/internal/ledger/memory"
	"farmbook/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestHandleSyncMessageUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	led := ledgermem.New()
	w := NewSyncWorker(repo, led, 10)

	e, err := repo.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: 25, Category: core.CategorySeeds, Date: "2024-04-01", Description: "corn seed"})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if err := w.HandleSyncMessage(ctx, amqp.NewUpsertMessage(amqp.KindExpense, e.ID, 1)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	entries := led.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(entries))
	}
	if entries[0].ID != e.ID || entries[0].Amount != 25 || entries[0].Label != "Seeds" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}

	pending, err := repo.PendingExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("row should be marked synced, still pending: %v", pending)
	}
}

func TestHandleSyncMessageDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	led := ledgermem.New()
	w := NewSyncWorker(repo, led, 10)

	i, err := repo.CreateIncome(ctx, core.Income{Source: core.SourceCropSales, Amount: 500, Date: "2024-04-02"})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	if err := w.HandleSyncMessage(ctx, amqp.NewUpsertMessage(amqp.KindIncome, i.ID, 1)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	msg := amqp.NewDeleteMessage(amqp.KindIncome, i.ID, i.Date, i.Amount, string(i.Source))
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if entries := led.Entries(); len(entries) != 0 {
		t.Fatalf("ledger entry should be removed, got %v", entries)
	}
}

func TestHandleSyncMessageSkipsVanishedRecord(t *testing.T) {
	ctx := context.Background()
	w := NewSyncWorker(newTestRepo(t), ledgermem.New(), 10)

	// Record deleted between publish and consume.
	if err := w.HandleSyncMessage(ctx, amqp.NewUpsertMessage(amqp.KindExpense, 404, 1)); err != nil {
		t.Fatalf("vanished record should not error: %v", err)
	}
}

func TestProcessPending(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	led := ledgermem.New()
	w := NewSyncWorker(repo, led, 10)

	if _, err := repo.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: 10, Category: core.CategoryFuel, Date: "2024-04-03"}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := repo.CreateIncome(ctx, core.Income{Source: core.SourceOther, Amount: 99, Date: "2024-04-04"}); err != nil {
		t.Fatalf("create income: %v", err)
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if entries := led.Entries(); len(entries) != 2 {
		t.Fatalf("expected both records mirrored, got %v", entries)
	}

	// A second sweep finds nothing to do.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if entries := led.Entries(); len(entries) != 2 {
		t.Fatalf("second sweep must not duplicate entries, got %d", len(entries))
	}
}
