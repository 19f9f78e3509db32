package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Supported account types.
const (
	AccountABA        AccountType = "ABA"
	AccountWing       AccountType = "WING"
	AccountACLEDA     AccountType = "AC"
	AccountCash       AccountType = "CASH"
	AccountCredit     AccountType = "CREDIT"
	AccountInvestment AccountType = "INVESTMENT"
)

type (
	AccountType string

	// Account is a money source (bank account, cash wallet, card) owned by
	// exactly one user. AccountNumber is unique per owner.
	Account struct {
		ID        string     `json:"account_id"`
		UserID    int64      `json:"-"`
		Number    string     `json:"account_number"`
		Name      string     `json:"account_name"`
		Type      string     `json:"account_type"`
		Logo      string     `json:"account_logo,omitempty"`
		Currency  string     `json:"currency"`
		IsActive  bool       `json:"is_active"`
		CreatedAt time.Time  `json:"created_at"`
		UpdatedAt *time.Time `json:"updated_at,omitempty"`
	}

	// AccountInput is the payload accepted when creating an account.
	AccountInput struct {
		Number   string `json:"account_number"`
		Name     string `json:"account_name"`
		Type     string `json:"account_type"`
		Logo     string `json:"account_logo"`
		Currency string `json:"currency"`
	}

	// AccountPatch holds the optional fields of a partial update. Nil means
	// "leave unchanged".
	AccountPatch struct {
		Number   *string `json:"account_number"`
		Name     *string `json:"account_name"`
		Type     *string `json:"account_type"`
		Logo     *string `json:"account_logo"`
		Currency *string `json:"currency"`
	}
)

var (
	accountNumberPattern = regexp.MustCompile(`^[A-Z0-9\-]+$`)
	currencyPattern      = regexp.MustCompile(`^[A-Z]{3}$`)
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountABA, AccountWing, AccountACLEDA, AccountCash, AccountCredit, AccountInvestment:
		return true
	}
	return false
}

func (in AccountInput) Validate() error {
	number := strings.TrimSpace(in.Number)
	if number == "" || len(number) > 12 || !accountNumberPattern.MatchString(number) {
		return fmt.Errorf("%w: account_number must be 1-12 characters of A-Z, 0-9 or '-'", ErrValidation)
	}
	name := strings.TrimSpace(in.Name)
	if len(name) < 2 || len(name) > 50 {
		return fmt.Errorf("%w: account_name must be 2-50 characters", ErrValidation)
	}
	if !AccountType(in.Type).Valid() {
		return fmt.Errorf("%w: unknown account_type %q", ErrValidation, in.Type)
	}
	if !currencyPattern.MatchString(in.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter ISO 4217 code", ErrValidation)
	}
	if len(in.Logo) > 255 {
		return fmt.Errorf("%w: account_logo too long (max 255 characters)", ErrValidation)
	}
	return nil
}

// Apply copies the provided fields onto the account, leaving the rest alone.
func (p AccountPatch) Apply(a *Account) error {
	applyString(p.Number, &a.Number)
	applyString(p.Name, &a.Name)
	applyString(p.Type, &a.Type)
	applyString(p.Logo, &a.Logo)
	applyString(p.Currency, &a.Currency)

	in := AccountInput{Number: a.Number, Name: a.Name, Type: a.Type, Logo: a.Logo, Currency: a.Currency}
	return in.Validate()
}

func applyString(src *string, dst *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
