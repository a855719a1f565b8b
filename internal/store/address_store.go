package store

import (
	"context"
	"time"
)

type AddressStore struct {
	db DB
}

type UserWalletAddress struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	CoinID        string    `db:"coin_id"`
	Symbol        string    `db:"symbol"`
	Network       string    `db:"network"`
	WalletAddress string    `db:"wallet_address"`
	CreatedAt     time.Time `db:"created_at"`
}

type AddressInput struct {
	ID            string
	UserID        string
	CoinID        string
	Symbol        string
	Network       string
	WalletAddress string
}

func NewAddressStore(db DB) *AddressStore {
	return &AddressStore{db: db}
}

// Insert provisions a new receiving address. An address already present for
// the (user, coin, network) key is left untouched, keeping first-write-wins
// semantics for concurrent provisioning.
func (s *AddressStore) Insert(ctx context.Context, tx Execer, input AddressInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_wallets (id, user_id, coin_id, symbol, network, wallet_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, coin_id, network) DO NOTHING
	`, input.ID, input.UserID, input.CoinID, input.Symbol, input.Network, input.WalletAddress)
	return err
}

// Upsert replaces the stored address for the key. Admin-only path.
func (s *AddressStore) Upsert(ctx context.Context, tx Execer, input AddressInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_wallets (id, user_id, coin_id, symbol, network, wallet_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, coin_id, network) DO UPDATE
		SET wallet_address = EXCLUDED.wallet_address, symbol = EXCLUDED.symbol
	`, input.ID, input.UserID, input.CoinID, input.Symbol, input.Network, input.WalletAddress)
	return err
}

func (s *AddressStore) GetByKey(ctx context.Context, userID, coinID, network string) (UserWalletAddress, error) {
	var row UserWalletAddress
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, coin_id, symbol, network, wallet_address, created_at
		FROM user_wallets
		WHERE user_id = $1 AND coin_id = $2 AND network = $3
	`, userID, coinID, network)
	if err != nil {
		return UserWalletAddress{}, err
	}
	return row, nil
}

func (s *AddressStore) ListByUser(ctx context.Context, userID string) ([]UserWalletAddress, error) {
	var rows []UserWalletAddress
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, coin_id, symbol, network, wallet_address, created_at
		FROM user_wallets
		WHERE user_id = $1
		ORDER BY coin_id, network
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByAddress is the reverse lookup that classifies a destination as
// platform-internal. sql.ErrNoRows means the address is external.
func (s *AddressStore) FindByAddress(ctx context.Context, address string) (UserWalletAddress, error) {
	var row UserWalletAddress
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, coin_id, symbol, network, wallet_address, created_at
		FROM user_wallets
		WHERE wallet_address = $1
	`, address)
	if err != nil {
		return UserWalletAddress{}, err
	}
	return row, nil
}

func (s *AddressStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM user_wallets
		WHERE user_id = $1
	`, userID)
	return count, err
}
