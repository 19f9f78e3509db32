package amqp

import (
	"context"
	"testing"
	"time"
)

func TestNewTransactionSyncMessage(t *testing.T) {
	msg := NewTransactionSyncMessage("tx-123", 7, OpUpsert)

	if msg.TransactionID != "tx-123" {
		t.Errorf("TransactionID = %v, want tx-123", msg.TransactionID)
	}
	if msg.UserID != 7 {
		t.Errorf("UserID = %v, want 7", msg.UserID)
	}
	if msg.Op != OpUpsert {
		t.Errorf("Op = %v, want %v", msg.Op, OpUpsert)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

func TestTransactionSyncMessage_JSON(t *testing.T) {
	msg := &TransactionSyncMessage{
		TransactionID: "tx-123",
		UserID:        7,
		Op:            OpDelete,
		Timestamp:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := TransactionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("TransactionSyncMessageFromJSON() error = %v", err)
	}

	if parsed.TransactionID != msg.TransactionID {
		t.Errorf("TransactionID = %v, want %v", parsed.TransactionID, msg.TransactionID)
	}
	if parsed.Op != msg.Op {
		t.Errorf("Op = %v, want %v", parsed.Op, msg.Op)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestTransactionSyncMessage_InvalidJSON(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte(`{"user_id": "nope"}`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var c *Client
	if err := c.PublishTransactionSync(context.Background(), "tx-123", 7, OpUpsert); err != nil {
		t.Errorf("nil client publish err = %v, want nil", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil client close err = %v, want nil", err)
	}
}
