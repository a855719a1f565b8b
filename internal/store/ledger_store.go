package store

import (
	"context"

	"github.com/shopspring/decimal"
)

type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) InsertEntries(ctx context.Context, tx Execer, entries []LedgerEntryInput) error {
	query := `
		INSERT INTO ledger_entries (id, transaction_id, user_id, coin_id, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query, entry.ID, entry.TransactionID, entry.UserID, entry.CoinID, entry.Amount, entry.Description); err != nil {
			return err
		}
	}
	return nil
}

func (s *LedgerStore) SumByWallet(ctx context.Context, userID, coinID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE user_id = $1 AND coin_id = $2
	`, userID, coinID)
	return sum, err
}

type LedgerEntryInput struct {
	ID            string
	TransactionID string
	UserID        string
	CoinID        string
	Amount        decimal.Decimal
	Description   string
}
