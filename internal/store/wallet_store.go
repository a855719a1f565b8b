package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type WalletStore struct {
	db DB
}

type Wallet struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	CoinID    string          `db:"coin_id"`
	Symbol    string          `db:"symbol"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

type WalletBalanceSummary struct {
	ID                string          `db:"id"`
	UserID            string          `db:"user_id"`
	CoinID            string          `db:"coin_id"`
	Symbol            string          `db:"symbol"`
	Name              string          `db:"name"`
	StoredBalance     decimal.Decimal `db:"stored_balance"`
	CalculatedBalance decimal.Decimal `db:"calculated_balance"`
	Difference        decimal.Decimal `db:"difference"`
}

type CreditInput struct {
	ID     string
	UserID string
	CoinID string
	Symbol string
	Name   string
	Amount decimal.Decimal
}

func NewWalletStore(db DB) *WalletStore {
	return &WalletStore{db: db}
}

func (s *WalletStore) GetBalance(ctx context.Context, userID, coinID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.GetContext(ctx, &balance, `
		SELECT COALESCE((SELECT balance FROM wallets WHERE user_id = $1 AND coin_id = $2), 0)
	`, userID, coinID)
	return balance, err
}

func (s *WalletStore) GetByUserAndCoin(ctx context.Context, userID, coinID string) (Wallet, error) {
	var row Wallet
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, coin_id, symbol, name, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1 AND coin_id = $2
	`, userID, coinID)
	if err != nil {
		return Wallet{}, err
	}
	return row, nil
}

func (s *WalletStore) GetByUser(ctx context.Context, userID string) ([]WalletBalanceSummary, error) {
	var rows []WalletBalanceSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT w.id,
		       w.user_id,
		       w.coin_id,
		       w.symbol,
		       w.name,
		       w.balance AS stored_balance,
		       COALESCE(SUM(l.amount), 0) AS calculated_balance,
		       (w.balance - COALESCE(SUM(l.amount), 0)) AS difference
		FROM wallets w
		LEFT JOIN ledger_entries l ON l.user_id = w.user_id AND l.coin_id = w.coin_id
		WHERE w.user_id = $1
		GROUP BY w.id, w.user_id, w.coin_id, w.symbol, w.name, w.balance
		ORDER BY w.coin_id
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Credit creates the wallet row on first use and increments the balance in a
// single statement, so concurrent credits never lose an update.
func (s *WalletStore) Credit(ctx context.Context, tx Tx, input CreditInput) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, `
		INSERT INTO wallets (id, user_id, coin_id, symbol, name, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, coin_id) DO UPDATE
		SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()
		RETURNING balance
	`, input.ID, input.UserID, input.CoinID, input.Symbol, input.Name, input.Amount)
	return balance, err
}

// Debit decrements the balance only when the row exists and holds enough
// funds. A missing or underfunded wallet surfaces as sql.ErrNoRows.
func (s *WalletStore) Debit(ctx context.Context, tx Tx, userID, coinID string, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, `
		UPDATE wallets
		SET balance = balance - $1, updated_at = NOW()
		WHERE user_id = $2 AND coin_id = $3 AND balance >= $1
		RETURNING balance
	`, amount, userID, coinID)
	return balance, err
}

func (s *WalletStore) ListAll(ctx context.Context) ([]Wallet, error) {
	var rows []Wallet
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, coin_id, symbol, name, balance, created_at, updated_at
		FROM wallets
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
