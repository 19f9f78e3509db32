package amqp

import (
	"encoding/json"
	"time"
)

// Sync operations carried by TransactionSyncMessage.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// TransactionSyncMessage tells the sync worker that a transaction changed.
// It carries only identifiers; the worker reads the current row from the
// database, so a stale message after a later update is harmless.
type TransactionSyncMessage struct {
	TransactionID string    `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	Op            string    `json:"op"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(transactionID string, userID int64, op string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		TransactionID: transactionID,
		UserID:        userID,
		Op:            op,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
