// Package worker reconciles local financial records with the remote
// ledger. It consumes sync messages from AMQP and periodically sweeps
// rows the messages missed.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
	"farmbook/internal/ledger"
	"farmbook/internal/storage"
)

// SyncWorker moves pending expense and income rows into the ledger.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	ledger    ledger.Ledger
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, l ledger.Ledger, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		ledger:    l,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one message from the queue. Upserts
// re-read the row so the ledger always receives the latest values;
// deletes clear the mirrored row using the data carried in the
// message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	switch msg.Op {
	case amqp.OpUpsert:
		return w.syncRecord(ctx, msg.Kind, msg.ID)
	case amqp.OpDelete:
		entry := ledger.Entry{
			Kind:   string(msg.Kind),
			ID:     msg.ID,
			Date:   msg.Date,
			Amount: msg.Amount,
			Label:  msg.Label,
		}
		if err := w.ledger.RemoveEntry(ctx, entry); err != nil {
			return fmt.Errorf("remove ledger entry: %w", err)
		}
		return nil
	}
	slog.WarnContext(ctx, "Dropping message with unknown op", "op", msg.Op, "id", msg.ID)
	return nil
}

func (w *SyncWorker) syncRecord(ctx context.Context, kind amqp.RecordKind, id int64) error {
	switch kind {
	case amqp.KindExpense:
		e, err := w.storage.GetExpense(ctx, id)
		if err != nil {
			return fmt.Errorf("get expense: %w", err)
		}
		if e == nil {
			// Deleted before the worker got here; nothing to mirror.
			slog.InfoContext(ctx, "Expense gone before sync, skipping", "id", id)
			return nil
		}
		return w.mirrorExpense(ctx, *e)
	case amqp.KindIncome:
		i, err := w.storage.GetIncome(ctx, id)
		if err != nil {
			return fmt.Errorf("get income: %w", err)
		}
		if i == nil {
			slog.InfoContext(ctx, "Income gone before sync, skipping", "id", id)
			return nil
		}
		return w.mirrorIncome(ctx, *i)
	}
	return fmt.Errorf("unknown record kind %q", kind)
}

func (w *SyncWorker) mirrorExpense(ctx context.Context, e core.Expense) error {
	entry := ledger.Entry{
		Kind:        string(amqp.KindExpense),
		ID:          e.ID,
		Date:        e.Date,
		Amount:      e.Amount,
		Label:       string(e.Category),
		Description: e.Description,
	}
	ref, err := w.ledger.AppendEntry(ctx, entry)
	if err != nil {
		if markErr := w.storage.MarkExpenseSyncError(ctx, e.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", e.ID, "error", markErr)
		}
		return fmt.Errorf("append expense to ledger: %w", err)
	}
	if err := w.storage.MarkExpenseSynced(ctx, e.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", e.ID, "error", err)
	}
	slog.InfoContext(ctx, "Expense mirrored to ledger", "id", e.ID, "ref", ref)
	return nil
}

func (w *SyncWorker) mirrorIncome(ctx context.Context, i core.Income) error {
	entry := ledger.Entry{
		Kind:        string(amqp.KindIncome),
		ID:          i.ID,
		Date:        i.Date,
		Amount:      i.Amount,
		Label:       string(i.Source),
		Description: i.Description,
	}
	ref, err := w.ledger.AppendEntry(ctx, entry)
	if err != nil {
		if markErr := w.storage.MarkIncomeSyncError(ctx, i.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", i.ID, "error", markErr)
		}
		return fmt.Errorf("append income to ledger: %w", err)
	}
	if err := w.storage.MarkIncomeSynced(ctx, i.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", i.ID, "error", err)
	}
	slog.InfoContext(ctx, "Income mirrored to ledger", "id", i.ID, "ref", ref)
	return nil
}

// ProcessPending sweeps rows still marked pending. It backs up the
// message path: a lost delivery only delays a row until the next
// sweep.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pendingExpenses, err := w.storage.PendingExpenses(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}
	pendingIncome, err := w.storage.PendingIncome(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending income: %w", err)
	}
	if len(pendingExpenses) == 0 && len(pendingIncome) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records",
		"expenses", len(pendingExpenses),
		"income", len(pendingIncome))

	for _, p := range pendingExpenses {
		if err := w.syncRecord(ctx, amqp.KindExpense, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense", "id", p.ID, "error", err)
		}
	}
	for _, p := range pendingIncome {
		if err := w.syncRecord(ctx, amqp.KindIncome, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync income", "id", p.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains the backlog with a larger batch before the
// consumer starts, recovering from worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	saved := w.batchSize
	w.batchSize = saved * 5
	defer func() { w.batchSize = saved }()

	if err := w.ProcessPending(ctx); err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	return nil
}
