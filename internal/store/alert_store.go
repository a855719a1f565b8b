package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AlertStore struct {
	db DB
}

type PriceAlert struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	CoinID      string          `db:"coin_id"`
	Symbol      string          `db:"symbol"`
	TargetPrice decimal.Decimal `db:"target_price"`
	Direction   string          `db:"direction"`
	Triggered   bool            `db:"triggered"`
	CreatedAt   time.Time       `db:"created_at"`
}

func NewAlertStore(db DB) *AlertStore {
	return &AlertStore{db: db}
}

func (s *AlertStore) Create(ctx context.Context, alert PriceAlert) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO price_alerts (id, user_id, coin_id, symbol, target_price, direction)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, alert.ID, alert.UserID, alert.CoinID, alert.Symbol, alert.TargetPrice, alert.Direction)
	return err
}

func (s *AlertStore) ListByUser(ctx context.Context, userID string) ([]PriceAlert, error) {
	var rows []PriceAlert
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, coin_id, symbol, target_price, direction, triggered, created_at
		FROM price_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AlertStore) ListActive(ctx context.Context) ([]PriceAlert, error) {
	var rows []PriceAlert
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, coin_id, symbol, target_price, direction, triggered, created_at
		FROM price_alerts
		WHERE triggered = FALSE
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AlertStore) MarkTriggered(ctx context.Context, alertID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts SET triggered = TRUE WHERE id = $1
	`, alertID)
	return err
}

func (s *AlertStore) Delete(ctx context.Context, alertID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM price_alerts WHERE id = $1 AND user_id = $2
	`, alertID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
