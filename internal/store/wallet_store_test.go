package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestWalletStoreCreditUpserts(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "INSERT INTO wallets") || !strings.Contains(query, "ON CONFLICT (user_id, coin_id) DO UPDATE") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "wallets.balance + EXCLUDED.balance") {
				t.Fatalf("credit must increment in the statement: %s", query)
			}
			if len(args) != 6 || args[1] != "user-1" || args[2] != "bitcoin" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*decimal.Decimal) = decimal.RequireFromString("1.5")
			return nil
		},
	}
	store := NewWalletStore(stubDB{})
	balance, err := store.Credit(ctx, tx, CreditInput{
		ID:     "wal-1",
		UserID: "user-1",
		CoinID: "bitcoin",
		Symbol: "BTC",
		Name:   "Bitcoin",
		Amount: decimal.RequireFromString("0.5"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("unexpected balance: %s", balance)
	}
}

func TestWalletStoreDebitGuardsBalance(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "balance >= $1") {
				t.Fatalf("debit must be conditional: %s", query)
			}
			if len(args) != 3 || args[1] != "user-1" || args[2] != "ethereum" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*decimal.Decimal) = decimal.RequireFromString("0.25")
			return nil
		},
	}
	store := NewWalletStore(stubDB{})
	balance, err := store.Debit(ctx, tx, "user-1", "ethereum", decimal.RequireFromString("0.75"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("unexpected balance: %s", balance)
	}
}

func TestWalletStoreDebitInsufficient(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, _ any, _ string, _ ...any) error {
			return sql.ErrNoRows
		},
	}
	store := NewWalletStore(stubDB{})
	if _, err := store.Debit(ctx, tx, "user-1", "bitcoin", decimal.NewFromInt(1)); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestWalletStoreGetByUser(t *testing.T) {
	ctx := context.Background()
	store := NewWalletStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM wallets w") || !strings.Contains(query, "ledger_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]WalletBalanceSummary) = []WalletBalanceSummary{{ID: "wal-1", CoinID: "bitcoin"}}
			return nil
		},
	})
	rows, err := store.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].CoinID != "bitcoin" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestWalletStoreGetBalanceMissingWallet(t *testing.T) {
	ctx := context.Background()
	store := NewWalletStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "COALESCE") {
				t.Fatalf("missing wallet must read as zero: %s", query)
			}
			*dest.(*decimal.Decimal) = decimal.Zero
			return nil
		},
	})
	balance, err := store.GetBalance(ctx, "user-1", "solana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("unexpected balance: %s", balance)
	}
}
