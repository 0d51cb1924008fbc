package amqp

import (
	"encoding/json"
	"time"
)

type RecordKind string

const (
	KindExpense RecordKind = "expense"
	KindIncome  RecordKind = "income"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// SyncMessage tells the worker to reconcile one financial record with
// the ledger. Upserts carry only the id and version; the worker reads
// the current row from the database. Deletes carry the row values,
// since the row is already gone by the time the worker runs.
type SyncMessage struct {
	Op        string     `json:"op"`
	Kind      RecordKind `json:"kind"`
	ID        int64      `json:"id"`
	Version   int64      `json:"version,omitempty"`
	Date      string     `json:"date,omitempty"`
	Amount    float64    `json:"amount,omitempty"`
	Label     string     `json:"label,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewUpsertMessage builds the message published after a create or
// update.
func NewUpsertMessage(kind RecordKind, id, version int64) *SyncMessage {
	return &SyncMessage{
		Op:        OpUpsert,
		Kind:      kind,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// NewDeleteMessage builds the message published after a delete. The
// date, amount and label let the worker locate the ledger row.
func NewDeleteMessage(kind RecordKind, id int64, date string, amount float64, label string) *SyncMessage {
	return &SyncMessage{
		Op:        OpDelete,
		Kind:      kind,
		ID:        id,
		Date:      date,
		Amount:    amount,
		Label:     label,
		Timestamp: time.Now(),
	}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
