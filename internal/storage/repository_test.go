package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"xpense/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, username, email string) *core.User {
	t.Helper()
	user := &core.User{Username: username, Email: email, HashedPassword: "x", IsActive: true}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedAccount(t *testing.T, repo *SQLiteRepository, userID int64, number string) *core.Account {
	t.Helper()
	account := &core.Account{
		UserID:   userID,
		Number:   number,
		Name:     "Checking",
		Type:     string(core.AccountABA),
		Currency: "USD",
	}
	if err := repo.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("seed account %s: %v", number, err)
	}
	return account
}

func seedCategory(t *testing.T, repo *SQLiteRepository, userID int64, name string) *core.Category {
	t.Helper()
	category := &core.Category{UserID: userID, Name: name}
	if err := repo.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return category
}

func TestCreateUserDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "alice", "alice@example.com")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"duplicate email", "bob", "alice@example.com"},
		{"duplicate username", "alice", "bob@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &core.User{Username: tt.username, Email: tt.email, HashedPassword: "x", IsActive: true}
			err := repo.CreateUser(ctx, user)
			if !errors.Is(err, core.ErrDuplicate) {
				t.Errorf("expected ErrDuplicate, got %v", err)
			}
		})
	}
}

func TestTokenVersionRotation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "alice", "alice@example.com")

	if user.TokenVersion != 0 {
		t.Fatalf("new user token_version = %d, want 0", user.TokenVersion)
	}

	next, err := repo.RotateTokenVersion(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if next != 1 {
		t.Errorf("rotated version = %d, want 1", next)
	}

	// Rotating against a stale version must not advance the counter.
	if _, err := repo.RotateTokenVersion(ctx, user.ID, 0); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("stale rotation err = %v, want ErrNotFound", err)
	}

	bumped, err := repo.BumpTokenVersion(ctx, user.ID)
	if err != nil {
		t.Fatalf("bump: %v", err)
	}
	if bumped != 2 {
		t.Errorf("bumped version = %d, want 2", bumped)
	}
}

func TestAccountOwnershipScoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice", "alice@example.com")
	bob := seedUser(t, repo, "bob", "bob@example.com")
	account := seedAccount(t, repo, alice.ID, "ACC-1")

	if _, err := repo.GetAccount(ctx, bob.ID, account.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-user get err = %v, want ErrNotFound", err)
	}
	if err := repo.SoftDeleteAccount(ctx, bob.ID, account.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-user delete err = %v, want ErrNotFound", err)
	}

	got, err := repo.GetAccount(ctx, alice.ID, account.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Number != "ACC-1" {
		t.Errorf("account_number = %q, want ACC-1", got.Number)
	}
}

func TestAccountSoftDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice", "alice@example.com")
	account := seedAccount(t, repo, alice.ID, "ACC-1")

	if err := repo.SoftDeleteAccount(ctx, alice.ID, account.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetAccount(ctx, alice.ID, account.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
	// A second delete sees no active row.
	if err := repo.SoftDeleteAccount(ctx, alice.ID, account.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}

	// The unique index covers inactive rows too, so the number stays reserved.
	dup := &core.Account{
		UserID: alice.ID, Number: "ACC-1", Name: "Again",
		Type: string(core.AccountCash), Currency: "USD",
	}
	if err := repo.CreateAccount(ctx, dup); !errors.Is(err, core.ErrDuplicate) {
		t.Errorf("recreate err = %v, want ErrDuplicate", err)
	}
}

func TestListAccountsPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice", "alice@example.com")
	for _, n := range []string{"ACC-1", "ACC-2", "ACC-3"} {
		seedAccount(t, repo, alice.ID, n)
	}

	accounts, total, err := repo.ListAccounts(ctx, alice.ID, true, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(accounts) != 2 {
		t.Errorf("page size = %d, want 2", len(accounts))
	}
}

func TestCategoryDuplicateName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice", "alice@example.com")
	bob := seedUser(t, repo, "bob", "bob@example.com")
	seedCategory(t, repo, alice.ID, "Groceries")

	dup := &core.Category{UserID: alice.ID, Name: "Groceries"}
	if err := repo.CreateCategory(ctx, dup); !errors.Is(err, core.ErrDuplicate) {
		t.Errorf("same-user duplicate err = %v, want ErrDuplicate", err)
	}

	// The name constraint is per user, not global.
	other := &core.Category{UserID: bob.ID, Name: "Groceries"}
	if err := repo.CreateCategory(ctx, other); err != nil {
		t.Errorf("cross-user same name err = %v, want nil", err)
	}
}

func TestTransactionFiltersAndTotals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice", "alice@example.com")
	account := seedAccount(t, repo, alice.ID, "ACC-1")
	food := seedCategory(t, repo, alice.ID, "Food")
	rent := seedCategory(t, repo, alice.ID, "Rent")

	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		category string
		amount   float64
		currency string
		offset   time.Duration
	}{
		{food.ID, 12.50, "USD", 0},
		{food.ID, 7.25, "USD", 24 * time.Hour},
		{rent.ID, 400, "KHR", 48 * time.Hour},
	}
	for _, s := range seed {
		tx := &core.Transaction{
			UserID: alice.ID, AccountID: account.ID, CategoryID: s.category,
			Amount: s.amount, Currency: s.currency, Date: base.Add(s.offset),
		}
		if err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}

	tests := []struct {
		name      string
		filter    core.TransactionFilter
		wantTotal int64
	}{
		{"no filter", core.TransactionFilter{}, 3},
		{"by category", core.TransactionFilter{CategoryID: food.ID}, 2},
		{"by currency", core.TransactionFilter{Currency: "KHR"}, 1},
		{"date range", core.TransactionFilter{From: base, To: base.Add(25 * time.Hour)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := repo.ListTransactions(ctx, alice.ID, tt.filter, 0, 10)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
		})
	}

	totals, err := repo.TotalsByCurrency(ctx, alice.ID, core.TransactionFilter{})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if got := totals["USD"]; got != 19.75 {
		t.Errorf("USD total = %v, want 19.75", got)
	}
	if got := totals["KHR"]; got != 400 {
		t.Errorf("KHR total = %v, want 400", got)
	}
}

func TestDateFiltersIgnoreOffsetRepresentation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice", "alice@example.com")
	account := seedAccount(t, repo, alice.ID, "ACC-1")
	food := seedCategory(t, repo, alice.ID, "Food")

	phnomPenh := time.FixedZone("UTC+7", 7*3600)

	// Stored with an offset, must land as the same instant in UTC.
	tx := &core.Transaction{
		UserID: alice.ID, AccountID: account.ID, CategoryID: food.ID,
		Amount: 10, Currency: "USD",
		Date: time.Date(2026, 8, 25, 3, 0, 0, 0, phnomPenh),
	}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	instant := time.Date(2026, 8, 24, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		from time.Time
		to   time.Time
	}{
		{"utc bounds", instant.Add(-time.Hour), instant.Add(time.Hour)},
		{"offset bounds", instant.Add(-time.Hour).In(phnomPenh), instant.Add(time.Hour).In(phnomPenh)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := repo.ListTransactions(ctx, alice.ID, core.TransactionFilter{From: tt.from, To: tt.to}, 0, 10)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if total != 1 {
				t.Errorf("total = %d, want 1", total)
			}
		})
	}

	got, err := repo.GetTransaction(ctx, alice.ID, tx.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Date.Equal(instant) {
		t.Errorf("stored date = %v, want instant %v", got.Date, instant)
	}
}
