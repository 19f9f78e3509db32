// Package worker mirrors transaction changes announced over AMQP into the
// configured ledger backend.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"xpense/internal/amqp"
	"xpense/internal/core"
	"xpense/internal/ledger"
	"xpense/internal/storage"
)

type SyncWorker struct {
	storage *storage.SQLiteRepository
	ledger  ledger.Writer
}

func NewSyncWorker(storage *storage.SQLiteRepository, ledger ledger.Writer) *SyncWorker {
	return &SyncWorker{storage: storage, ledger: ledger}
}

// HandleMessage processes one sync message. The message carries only
// identifiers; the current row is read from storage, so a message that
// arrives after a later update simply mirrors the newest state. An upsert
// whose row has since been soft deleted degrades to a ledger delete.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"transaction_id", msg.TransactionID,
		"op", msg.Op)

	switch msg.Op {
	case amqp.OpDelete:
		if err := w.ledger.Delete(ctx, msg.TransactionID); err != nil {
			return fmt.Errorf("delete from ledger: %w", err)
		}
		return nil

	case amqp.OpUpsert:
		tx, err := w.storage.GetTransaction(ctx, msg.UserID, msg.TransactionID)
		if errors.Is(err, core.ErrNotFound) {
			slog.InfoContext(ctx, "Transaction gone, removing from ledger",
				"transaction_id", msg.TransactionID)
			return w.ledger.Delete(ctx, msg.TransactionID)
		}
		if err != nil {
			return fmt.Errorf("get transaction from storage: %w", err)
		}

		ref, err := w.ledger.Upsert(ctx, *tx)
		if err != nil {
			return fmt.Errorf("upsert to ledger: %w", err)
		}

		slog.InfoContext(ctx, "Synced transaction to ledger",
			"transaction_id", msg.TransactionID,
			"ledger_ref", ref)
		return nil

	default:
		// Drop unknown ops instead of requeueing them forever.
		slog.WarnContext(ctx, "Ignoring sync message with unknown op",
			"transaction_id", msg.TransactionID,
			"op", msg.Op)
		return nil
	}
}

// Resync pushes every active transaction through the ledger and clears
// mirrored rows for soft-deleted ones. Used at startup to recover from
// messages lost while the worker was down.
func (w *SyncWorker) Resync(ctx context.Context, userIDs []int64) error {
	const pageSize = 100

	for _, userID := range userIDs {
		skip := 0
		for {
			transactions, total, err := w.storage.ListTransactions(ctx, userID, core.TransactionFilter{}, skip, pageSize)
			if err != nil {
				return fmt.Errorf("list transactions for resync: %w", err)
			}
			for _, tx := range transactions {
				if _, err := w.ledger.Upsert(ctx, tx); err != nil {
					slog.ErrorContext(ctx, "Failed to resync transaction",
						"transaction_id", tx.ID, "error", err)
				}
			}
			skip += len(transactions)
			if int64(skip) >= total || len(transactions) == 0 {
				break
			}
		}

		// A delete message lost while the worker was down would otherwise
		// leave the row mirrored forever.
		deletedIDs, err := w.storage.ListDeletedTransactionIDs(ctx, userID)
		if err != nil {
			return fmt.Errorf("list deleted transactions for resync: %w", err)
		}
		for _, id := range deletedIDs {
			if err := w.ledger.Delete(ctx, id); err != nil {
				slog.ErrorContext(ctx, "Failed to clear deleted transaction from ledger",
					"transaction_id", id, "error", err)
			}
		}
	}

	slog.InfoContext(ctx, "Resync completed", "users", len(userIDs))
	return nil
}
