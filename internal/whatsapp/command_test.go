package whatsapp

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCommandFullMessage(t *testing.T) {
	cmd, err := ParseCommand("Personal, income, 5000, Salary, Bank, Monthly salary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Book != "Personal" || cmd.Type != "income" || cmd.Category != "Salary" || cmd.Description != "Monthly salary" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
	if !cmd.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected amount: %s", cmd.Amount)
	}
	if cmd.PaymentMode == nil || *cmd.PaymentMode != "bank_transfer" {
		t.Fatalf("unexpected payment mode: %v", cmd.PaymentMode)
	}
}

func TestParseCommandMinimal(t *testing.T) {
	cmd, err := ParseCommand("  business ,EXPENSE, 200.5 , Food ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Book != "business" || cmd.Type != "expense" || cmd.PaymentMode != nil {
		t.Fatalf("unexpected command: %#v", cmd)
	}
	if cmd.Description != "Food" {
		t.Fatalf("description should fall back to the category, got %q", cmd.Description)
	}
	if !cmd.Amount.Equal(decimal.RequireFromString("200.50")) {
		t.Fatalf("unexpected amount: %s", cmd.Amount)
	}
}

func TestParseCommandDescriptionKeepsCommas(t *testing.T) {
	cmd, err := ParseCommand("Home, expense, 1500, Rent, UPI, January rent, flat 4B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Description != "January rent, flat 4B" {
		t.Fatalf("unexpected description: %q", cmd.Description)
	}
	if *cmd.PaymentMode != "upi" {
		t.Fatalf("unexpected payment mode: %s", *cmd.PaymentMode)
	}
}

func TestParseCommandEmptyOptionalSegments(t *testing.T) {
	cmd, err := ParseCommand("Home, expense, 10, Tea, , ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.PaymentMode != nil || cmd.Description != "Tea" {
		t.Fatalf("blank optional segments should be ignored: %#v", cmd)
	}
}

func TestParseCommandDropsTrailingEmptySegments(t *testing.T) {
	cmd, err := ParseCommand("Business, expense, 200, Food, Cash, Lunch, ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Description != "Lunch" {
		t.Fatalf("unexpected description: %q", cmd.Description)
	}
	cmd, err = ParseCommand("Business, expense, 200, Food, Cash, Lunch, with team, ,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Description != "Lunch, with team" {
		t.Fatalf("unexpected description: %q", cmd.Description)
	}
}

func TestParseCommandErrors(t *testing.T) {
	cases := []struct {
		body string
		want error
	}{
		{"Personal, income, 5000", ErrTooFewSegments},
		{"", ErrTooFewSegments},
		{"Personal, transfer, 5000, Salary", ErrInvalidType},
		{"Personal, income, -5, Salary", ErrInvalidAmount},
		{"Personal, income, abc, Salary", ErrInvalidAmount},
		{"Personal, income, 0, Salary", ErrInvalidAmount},
		{"Personal, income, 1.234, Salary", ErrInvalidAmount},
		{"Personal, income, 10000000000000, Salary", ErrInvalidAmount},
		{"Personal, income, 500, ", ErrMissingCategory},
		{"Personal, income, 500, , Cash, Bonus", ErrMissingCategory},
	}
	for _, tc := range cases {
		_, err := ParseCommand(tc.body)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.body, tc.want, err)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%q: expected *ParseError, got %T", tc.body, err)
		}
	}
}

func TestTypeCheckedBeforeAmount(t *testing.T) {
	_, err := ParseCommand("Personal, gift, abc, Salary")
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestNormalizePaymentMode(t *testing.T) {
	cases := map[string]string{
		"NEFT":          "bank_transfer",
		"imps":          "bank_transfer",
		"RTGS":          "bank_transfer",
		"Bank":          "bank_transfer",
		"bank transfer": "bank_transfer",
		"BankTransfer":  "bank_transfer",
		"Credit Card":   "card",
		"debitcard":     "card",
		"card":          "card",
		"Cash":          "cash",
		"UPI":           "upi",
		"cheque":        "other",
		"Other":         "other",
	}
	for token, want := range cases {
		got := NormalizePaymentMode(token)
		if got == nil || *got != want {
			t.Fatalf("%q: expected %s, got %v", token, want, got)
		}
	}
	if NormalizePaymentMode("  ") != nil {
		t.Fatal("blank token should yield nil")
	}
}
