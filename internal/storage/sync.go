package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// PendingRecord identifies a financial row awaiting a ledger mirror.
type PendingRecord struct {
	ID      int64
	Version int64
}

func (r *SQLiteRepository) pending(ctx context.Context, table string, limit int) ([]PendingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, version FROM %s WHERE sync_status = 'pending' ORDER BY id LIMIT ?`, table), limit)
	if err != nil {
		return nil, fmt.Errorf("get pending %s: %w", table, err)
	}
	defer rows.Close()

	var out []PendingRecord
	for rows.Next() {
		var p PendingRecord
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending %s: %w", table, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PendingExpenses returns expenses still waiting to reach the ledger.
func (r *SQLiteRepository) PendingExpenses(ctx context.Context, limit int) ([]PendingRecord, error) {
	return r.pending(ctx, "expenses", limit)
}

// PendingIncome returns income rows still waiting to reach the ledger.
func (r *SQLiteRepository) PendingIncome(ctx context.Context, limit int) ([]PendingRecord, error) {
	return r.pending(ctx, "income", limit)
}

func (r *SQLiteRepository) markSync(ctx context.Context, table, status string, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET sync_status = ? WHERE id = ?`, table), status, id); err != nil {
		return fmt.Errorf("mark %s %s: %w", table, status, err)
	}
	slog.InfoContext(ctx, "Sync status updated", "table", table, "id", id, "status", status)
	return nil
}

func (r *SQLiteRepository) MarkExpenseSynced(ctx context.Context, id int64) error {
	return r.markSync(ctx, "expenses", "synced", id)
}

func (r *SQLiteRepository) MarkExpenseSyncError(ctx context.Context, id int64) error {
	return r.markSync(ctx, "expenses", "error", id)
}

func (r *SQLiteRepository) MarkIncomeSynced(ctx context.Context, id int64) error {
	return r.markSync(ctx, "income", "synced", id)
}

func (r *SQLiteRepository) MarkIncomeSyncError(ctx context.Context, id int64) error {
	return r.markSync(ctx, "income", "error", id)
}
