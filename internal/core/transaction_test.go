package core

import (
	"testing"
	"time"
)

func TestTransactionInputValidate(t *testing.T) {
	valid := TransactionInput{
		AccountID:  "acc-1",
		CategoryID: "cat-1",
		Amount:     12.5,
		Currency:   "USD",
		Date:       time.Now(),
	}

	tests := []struct {
		name    string
		mutate  func(*TransactionInput)
		wantErr bool
	}{
		{name: "valid input", mutate: func(in *TransactionInput) {}, wantErr: false},
		{name: "missing account", mutate: func(in *TransactionInput) { in.AccountID = " " }, wantErr: true},
		{name: "missing category", mutate: func(in *TransactionInput) { in.CategoryID = "" }, wantErr: true},
		{name: "zero amount", mutate: func(in *TransactionInput) { in.Amount = 0 }, wantErr: true},
		{name: "negative amount", mutate: func(in *TransactionInput) { in.Amount = -3 }, wantErr: true},
		{name: "bad currency", mutate: func(in *TransactionInput) { in.Currency = "US" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionPatchApply(t *testing.T) {
	tx := Transaction{Amount: 10, Currency: "USD", Note: "coffee"}

	amount := 42.0
	currency := "KHR"
	if err := (TransactionPatch{Amount: &amount, Currency: &currency}).Apply(&tx); err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}
	if tx.Amount != 42.0 || tx.Currency != "KHR" {
		t.Errorf("patched transaction = %+v", tx)
	}
	if tx.Note != "coffee" {
		t.Errorf("Note changed unexpectedly: %q", tx.Note)
	}

	bad := -1.0
	if err := (TransactionPatch{Amount: &bad}).Apply(&tx); err == nil {
		t.Error("Apply() with negative amount should fail")
	}
}

func TestRegisterInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantErr bool
	}{
		{name: "valid", input: RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}},
		{name: "empty username", input: RegisterInput{Email: "a@b.co", Password: "secret1"}, wantErr: true},
		{name: "bad email", input: RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}, wantErr: true},
		{name: "short password", input: RegisterInput{Username: "alice", Email: "a@b.co", Password: "pw1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
