package core

import "testing"

func TestAccountInputValidate(t *testing.T) {
	valid := AccountInput{
		Number:   "ACC-123",
		Name:     "Main ABA Account",
		Type:     "ABA",
		Currency: "USD",
	}

	tests := []struct {
		name    string
		mutate  func(*AccountInput)
		wantErr bool
	}{
		{name: "valid input", mutate: func(in *AccountInput) {}, wantErr: false},
		{name: "empty number", mutate: func(in *AccountInput) { in.Number = "" }, wantErr: true},
		{name: "lowercase number", mutate: func(in *AccountInput) { in.Number = "acc-123" }, wantErr: true},
		{name: "number too long", mutate: func(in *AccountInput) { in.Number = "1234567890123" }, wantErr: true},
		{name: "name too short", mutate: func(in *AccountInput) { in.Name = "A" }, wantErr: true},
		{name: "unknown type", mutate: func(in *AccountInput) { in.Type = "PAYPAL" }, wantErr: true},
		{name: "cash type", mutate: func(in *AccountInput) { in.Type = "CASH" }, wantErr: false},
		{name: "bad currency", mutate: func(in *AccountInput) { in.Currency = "usd" }, wantErr: true},
		{name: "currency too long", mutate: func(in *AccountInput) { in.Currency = "USDT" }, wantErr: true},
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

func TestAccountPatchApply(t *testing.T) {
	acc := Account{
		Number:   "ACC-1",
		Name:     "Cash Wallet",
		Type:     "CASH",
		Currency: "USD",
	}

	newName := "Spending Cash"
	if err := (AccountPatch{Name: &newName}).Apply(&acc); err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}
	if acc.Name != newName {
		t.Errorf("Name = %q, want %q", acc.Name, newName)
	}
	if acc.Number != "ACC-1" || acc.Type != "CASH" || acc.Currency != "USD" {
		t.Errorf("untouched fields changed: %+v", acc)
	}

	badCurrency := "x"
	if err := (AccountPatch{Currency: &badCurrency}).Apply(&acc); err == nil {
		t.Error("Apply() with invalid currency should fail")
	}
}
