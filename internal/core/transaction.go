package core

import (
	"fmt"
	"strings"
	"time"
)

type (
	// Transaction records a movement of money against an account, optionally
	// labelled with a category. Both referenced entities must belong to the
	// same user as the transaction itself.
	Transaction struct {
		ID         string     `json:"transaction_id"`
		UserID     int64      `json:"-"`
		AccountID  string     `json:"account_id"`
		CategoryID string     `json:"category_id"`
		Amount     float64    `json:"amount"`
		Currency   string     `json:"currency"`
		Note       string     `json:"note,omitempty"`
		Date       time.Time  `json:"transaction_date"`
		IsActive   bool       `json:"is_active"`
		CreatedAt  time.Time  `json:"created_at"`
		UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	}

	TransactionInput struct {
		AccountID  string    `json:"account_id"`
		CategoryID string    `json:"category_id"`
		Amount     float64   `json:"amount"`
		Currency   string    `json:"currency"`
		Note       string    `json:"note"`
		Date       time.Time `json:"transaction_date"`
	}

	TransactionPatch struct {
		Amount   *float64   `json:"amount"`
		Currency *string    `json:"currency"`
		Note     *string    `json:"note"`
		Date     *time.Time `json:"transaction_date"`
	}

	// TransactionFilter narrows a listing. Zero values mean "no constraint";
	// the owner scope is always applied by the caller.
	TransactionFilter struct {
		AccountID  string
		CategoryID string
		Currency   string
		From       time.Time
		To         time.Time
	}
)

func (in TransactionInput) Validate() error {
	if strings.TrimSpace(in.AccountID) == "" {
		return fmt.Errorf("%w: account_id is required", ErrValidation)
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return fmt.Errorf("%w: category_id is required", ErrValidation)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !currencyPattern.MatchString(in.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter ISO 4217 code", ErrValidation)
	}
	if len(in.Note) > 500 {
		return fmt.Errorf("%w: note too long (max 500 characters)", ErrValidation)
	}
	return nil
}

func (p TransactionPatch) Apply(t *Transaction) error {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	applyString(p.Currency, &t.Currency)
	applyString(p.Note, &t.Note)
	if p.Date != nil {
		t.Date = *p.Date
	}

	if t.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !currencyPattern.MatchString(t.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter ISO 4217 code", ErrValidation)
	}
	if len(t.Note) > 500 {
		return fmt.Errorf("%w: note too long (max 500 characters)", ErrValidation)
	}
	return nil
}
