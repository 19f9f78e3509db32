package worker

import (
	"context"
	"path/filepath"
	"testing"

	"xpense/internal/amqp"
	"xpense/internal/core"
	"xpense/internal/ledger/memory"
	"xpense/internal/storage"
)

func setupWorker(t *testing.T) (*SyncWorker, *storage.SQLiteRepository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	store := memory.New()
	return NewSyncWorker(repo, store), repo, store
}

func seedTransaction(t *testing.T, repo *storage.SQLiteRepository) *core.Transaction {
	t.Helper()
	ctx := context.Background()

	user := &core.User{Username: "alice", Email: "alice@example.com", HashedPassword: "x", IsActive: true}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	account := &core.Account{
		UserID: user.ID, Number: "ACC-1", Name: "Checking",
		Type: string(core.AccountABA), Currency: "USD",
	}
	if err := repo.CreateAccount(ctx, account); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	category := &core.Category{UserID: user.ID, Name: "Food"}
	if err := repo.CreateCategory(ctx, category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	tx := &core.Transaction{
		UserID: user.ID, AccountID: account.ID, CategoryID: category.ID,
		Amount: 9.99, Currency: "USD",
	}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return tx
}

func TestHandleMessageUpsert(t *testing.T) {
	w, repo, store := setupWorker(t)
	tx := seedTransaction(t, repo)
	ctx := context.Background()

	msg := amqp.NewTransactionSyncMessage(tx.ID, tx.UserID, amqp.OpUpsert)
	if err := w.HandleMessage(ctx, msg); err != nil {
		t.Fatalf("handle upsert: %v", err)
	}

	rows := store.Snapshot()
	if got := rows[tx.ID]; got.Amount != 9.99 {
		t.Errorf("ledger amount = %v, want 9.99", got.Amount)
	}
}

func TestHandleMessageUpsertAfterSoftDelete(t *testing.T) {
	w, repo, store := setupWorker(t)
	tx := seedTransaction(t, repo)
	ctx := context.Background()

	if _, err := store.Upsert(ctx, *tx); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
	if err := repo.SoftDeleteTransaction(ctx, tx.UserID, tx.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// A late upsert for a row that no longer exists removes the ledger entry.
	msg := amqp.NewTransactionSyncMessage(tx.ID, tx.UserID, amqp.OpUpsert)
	if err := w.HandleMessage(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.Snapshot()) != 0 {
		t.Error("expected ledger entry removed")
	}
}

func TestHandleMessageDelete(t *testing.T) {
	w, repo, store := setupWorker(t)
	tx := seedTransaction(t, repo)
	ctx := context.Background()

	if _, err := store.Upsert(ctx, *tx); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	msg := amqp.NewTransactionSyncMessage(tx.ID, tx.UserID, amqp.OpDelete)
	if err := w.HandleMessage(ctx, msg); err != nil {
		t.Fatalf("handle delete: %v", err)
	}
	if len(store.Snapshot()) != 0 {
		t.Error("expected ledger entry removed")
	}
}

func TestHandleMessageUnknownOp(t *testing.T) {
	w, repo, _ := setupWorker(t)
	tx := seedTransaction(t, repo)

	msg := amqp.NewTransactionSyncMessage(tx.ID, tx.UserID, "rename")
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Errorf("unknown op err = %v, want nil", err)
	}
}

func TestResync(t *testing.T) {
	w, repo, store := setupWorker(t)
	tx := seedTransaction(t, repo)
	ctx := context.Background()

	ids, err := repo.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if err := w.Resync(ctx, ids); err != nil {
		t.Fatalf("resync: %v", err)
	}
	if _, ok := store.Snapshot()[tx.ID]; !ok {
		t.Error("expected transaction mirrored by resync")
	}
}

func TestResyncClearsSoftDeletedRows(t *testing.T) {
	w, repo, store := setupWorker(t)
	tx := seedTransaction(t, repo)
	ctx := context.Background()

	// Row mirrored, then soft-deleted while the worker was down.
	if _, err := store.Upsert(ctx, *tx); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
	if err := repo.SoftDeleteTransaction(ctx, tx.UserID, tx.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	ids, err := repo.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if err := w.Resync(ctx, ids); err != nil {
		t.Fatalf("resync: %v", err)
	}
	if _, ok := store.Snapshot()[tx.ID]; ok {
		t.Error("expected soft-deleted transaction cleared from ledger")
	}
}
