package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxSend    TxType = "send"
	TxReceive TxType = "receive"
	TxSwap    TxType = "swap"
)

type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxCompleted TxStatus = "completed"
	TxFailed    TxStatus = "failed"
)

type TransactionStore struct {
	db DB
}

type Transaction struct {
	ID                 string          `db:"id"`
	GroupID            *string         `db:"group_id"`
	UserID             string          `db:"user_id"`
	Type               TxType          `db:"type"`
	CoinID             string          `db:"coin_id"`
	Symbol             string          `db:"symbol"`
	Amount             decimal.Decimal `db:"amount"`
	ToAddress          *string         `db:"to_address"`
	FromAddress        *string         `db:"from_address"`
	Status             TxStatus        `db:"status"`
	TxHash             *string         `db:"tx_hash"`
	IsPlatformTransfer bool            `db:"is_platform_transfer"`
	CreatedAt          time.Time       `db:"created_at"`
}

type TransactionInput struct {
	ID                 string
	GroupID            *string
	UserID             string
	Type               TxType
	CoinID             string
	Symbol             string
	Amount             decimal.Decimal
	ToAddress          *string
	FromAddress        *string
	Status             TxStatus
	TxHash             *string
	IsPlatformTransfer bool
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Append(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, group_id, user_id, type, coin_id, symbol, amount, to_address, from_address, status, tx_hash, is_platform_transfer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.GroupID, input.UserID, input.Type, input.CoinID, input.Symbol,
		input.Amount, input.ToAddress, input.FromAddress, input.Status, input.TxHash, input.IsPlatformTransfer,
	)
	return err
}

func (s *TransactionStore) SetStatus(ctx context.Context, tx Execer, transactionID string, status TxStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, status, transactionID)
	return err
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID string, txType TxType, limit, offset int) ([]Transaction, error) {
	var rows []Transaction
	query := `
		SELECT id, group_id, user_id, type, coin_id, symbol, amount, to_address, from_address, status, tx_hash, is_platform_transfer, created_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}
	param := 2
	if txType != "" {
		query += " AND type = $2"
		args = append(args, txType)
		param = 3
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(param) + " OFFSET $" + itoa(param+1)
	args = append(args, limit, offset)
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListByGroup(ctx context.Context, groupID string) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, group_id, user_id, type, coin_id, symbol, amount, to_address, from_address, status, tx_hash, is_platform_transfer, created_at
		FROM transactions
		WHERE group_id = $1
		ORDER BY created_at ASC
	`, groupID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func itoa(value int) string {
	return fmt.Sprintf("%d", value)
}

func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, group_id, user_id, type, coin_id, symbol, amount, to_address, from_address, status, tx_hash, is_platform_transfer, created_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
