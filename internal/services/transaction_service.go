package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"xpense/internal/amqp"
	"xpense/internal/cache"
	"xpense/internal/core"
	"xpense/internal/storage"
)

// WeekReport lists a user's transactions for the current business week
// together with per-currency totals.
type WeekReport struct {
	WeekStart    time.Time          `json:"week_start"`
	WeekEnd      time.Time          `json:"week_end"`
	Transactions []core.Transaction `json:"transactions"`
	Totals       map[string]float64 `json:"totals"`
}

// TransactionService orchestrates transaction writes across storage and AMQP
// and serves the cached reports.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	loc        *time.Location

	weekCache   *cache.LRUCache[WeekReport]
	totalsCache *cache.LRUCache[map[string]float64]
}

// NewTransactionService builds the service. loc is the business timezone used
// for week boundaries; cacheTTL bounds report staleness between writes.
func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, loc *time.Location, cacheTTL time.Duration) *TransactionService {
	return &TransactionService{
		storage:     storage,
		amqpClient:  amqpClient,
		loc:         loc,
		weekCache:   cache.NewLRUCache[WeekReport](256, cacheTTL),
		totalsCache: cache.NewLRUCache[map[string]float64](256, cacheTTL),
	}
}

// RegisterCaches adds the report caches to the manager's cleanup cycle.
func (s *TransactionService) RegisterCaches(m *cache.Manager) {
	m.Register(s.weekCache)
	m.Register(s.totalsCache)
}

// Create validates that the referenced account and category belong to the
// user and are active before inserting.
func (s *TransactionService) Create(ctx context.Context, userID int64, input core.TransactionInput) (*core.Transaction, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.storage.GetAccount(ctx, userID, input.AccountID); err != nil {
		return nil, err
	}
	if _, err := s.storage.GetCategory(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx := &core.Transaction{
		UserID:     userID,
		AccountID:  input.AccountID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Currency:   input.Currency,
		Note:       input.Note,
		Date:       date,
	}
	if err := s.storage.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publishSync(ctx, tx.ID, userID, amqp.OpUpsert)
	s.invalidateReports(userID)
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, userID int64, id string) (*core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, id)
}

func (s *TransactionService) Update(ctx context.Context, userID int64, id string, patch core.TransactionPatch) (*core.Transaction, error) {
	tx, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(tx); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publishSync(ctx, tx.ID, userID, amqp.OpUpsert)
	s.invalidateReports(userID)
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID int64, id string) error {
	if err := s.storage.SoftDeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	s.publishSync(ctx, id, userID, amqp.OpDelete)
	s.invalidateReports(userID)
	return nil
}

func (s *TransactionService) List(ctx context.Context, userID int64, filter core.TransactionFilter, skip, limit int) ([]core.Transaction, int64, error) {
	return s.storage.ListTransactions(ctx, userID, filter, skip, limit)
}

// TotalExpenses sums active transaction amounts per currency, optionally
// within a date range.
func (s *TransactionService) TotalExpenses(ctx context.Context, userID int64, from, to time.Time) (map[string]float64, error) {
	key := fmt.Sprintf("user:%d:totals:%d:%d", userID, from.Unix(), to.Unix())
	if totals, ok := s.totalsCache.Get(key); ok {
		return totals, nil
	}

	totals, err := s.storage.TotalsByCurrency(ctx, userID, core.TransactionFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	s.totalsCache.Set(key, totals)
	return totals, nil
}

// CurrentWeek reports the user's transactions for the business week
// containing now: Monday 00:00:00 through Sunday 23:59:59.999999 in the
// configured timezone.
func (s *TransactionService) CurrentWeek(ctx context.Context, userID int64, currency string) (*WeekReport, error) {
	start, end := weekBounds(time.Now().In(s.loc))

	key := fmt.Sprintf("user:%d:week:%d:%s", userID, start.Unix(), currency)
	if report, ok := s.weekCache.Get(key); ok {
		return &report, nil
	}

	filter := core.TransactionFilter{From: start, To: end, Currency: currency}

	var transactions []core.Transaction
	const pageSize = 200
	skip := 0
	for {
		page, total, err := s.storage.ListTransactions(ctx, userID, filter, skip, pageSize)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, page...)
		skip += len(page)
		if int64(skip) >= total || len(page) == 0 {
			break
		}
	}

	totals := map[string]float64{}
	for _, tx := range transactions {
		totals[tx.Currency] += tx.Amount
	}

	report := WeekReport{
		WeekStart:    start,
		WeekEnd:      end,
		Transactions: transactions,
		Totals:       totals,
	}
	s.weekCache.Set(key, report)
	return &report, nil
}

// weekBounds returns Monday 00:00:00 and Sunday 23:59:59.999999 of the week
// containing now, in now's location.
func weekBounds(now time.Time) (time.Time, time.Time) {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-daysSinceMonday, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 7).Add(-time.Microsecond)
	return start, end
}

func (s *TransactionService) publishSync(ctx context.Context, transactionID string, userID int64, op string) {
	if err := s.amqpClient.PublishTransactionSync(ctx, transactionID, userID, op); err != nil {
		// The write already landed locally; the worker's resync covers gaps.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transaction_id", transactionID, "op", op, "error", err)
	}
}

func (s *TransactionService) invalidateReports(userID int64) {
	prefix := fmt.Sprintf("user:%d:", userID)
	s.weekCache.DeletePrefix(prefix)
	s.totalsCache.DeletePrefix(prefix)
}
