// Package ledger defines the outbound ports for mirroring financial
// records to an external ledger spreadsheet.
package ledger

import "context"

// Entry is one financial row in the ledger: an expense or an income
// record flattened for spreadsheet storage. Kind selects the target
// sheet; Label holds the expense category or income source.
type Entry struct {
	Kind        string
	ID          int64
	Date        string
	Amount      float64
	Label       string
	Description string
}

type (
	EntryAppender interface {
		AppendEntry(ctx context.Context, e Entry) (rowRef string, err error)
	}

	EntryRemover interface {
		RemoveEntry(ctx context.Context, e Entry) error
	}

	// Ledger is the full mirror surface the sync worker drives.
	Ledger interface {
		EntryAppender
		EntryRemover
	}
)
