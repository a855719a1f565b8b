package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const feeSettingsKey = "transaction_fee"

type SettingsStore struct {
	db DB
}

type FeeSettings struct {
	Percentage decimal.Decimal `db:"percentage"`
	MinFeeUsd  decimal.Decimal `db:"min_fee_usd"`
	UpdatedAt  time.Time       `db:"updated_at"`
	UpdatedBy  *string         `db:"updated_by"`
}

func NewSettingsStore(db DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) GetTransactionFee(ctx context.Context) (FeeSettings, error) {
	var row FeeSettings
	err := s.db.GetContext(ctx, &row, `
		SELECT percentage, min_fee_usd, updated_at, updated_by
		FROM app_settings
		WHERE key = $1
	`, feeSettingsKey)
	if err != nil {
		return FeeSettings{}, err
	}
	return row, nil
}

// UpdateTransactionFee replaces the singleton row only when the caller saw
// the current version; zero affected rows means a concurrent edit won.
func (s *SettingsStore) UpdateTransactionFee(ctx context.Context, tx Execer, percentage, minFeeUsd decimal.Decimal, updatedBy string, expectedUpdatedAt time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE app_settings
		SET percentage = $1, min_fee_usd = $2, updated_at = NOW(), updated_by = $3
		WHERE key = $4 AND updated_at = $5
	`, percentage, minFeeUsd, updatedBy, feeSettingsKey, expectedUpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
