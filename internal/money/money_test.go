package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount(" 0.12345678 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.Equal(decimal.RequireFromString("0.12345678")) {
		t.Fatalf("unexpected amount: %s", amount)
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "abc", "1,5", "--1"} {
		if _, err := ParseAmount(input); err != ErrInvalidAmount {
			t.Fatalf("input %q: expected ErrInvalidAmount, got %v", input, err)
		}
	}
}

func TestParseAmountScaleLimit(t *testing.T) {
	if _, err := ParseAmount("0.123456789"); err != ErrTooManyDecimals {
		t.Fatalf("expected ErrTooManyDecimals, got %v", err)
	}
}

func TestParsePositive(t *testing.T) {
	if _, err := ParsePositive("0"); err != ErrInvalidAmount {
		t.Fatalf("zero: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := ParsePositive("-1"); err != ErrInvalidAmount {
		t.Fatalf("negative: expected ErrInvalidAmount, got %v", err)
	}
	amount, err := ParsePositive("2.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected amount: %s", amount)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(decimal.RequireFromString("1.5")); got != "1.50000000" {
		t.Fatalf("unexpected format: %s", got)
	}
	if got := Format(decimal.Zero); got != "0.00000000" {
		t.Fatalf("unexpected format: %s", got)
	}
}
