package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"walletd/internal/address"
	"walletd/internal/db"
	"walletd/internal/store"
)

// AddressService owns the per-user receiving-address registry. A user's
// first touch provisions the full default set across every supported coin
// and network.
type AddressService struct {
	txRunner  db.TxRunner
	addresses AddressStore
	logger    *logrus.Logger
}

func NewAddressService(txRunner db.TxRunner, addresses AddressStore, logger *logrus.Logger) *AddressService {
	return &AddressService{txRunner: txRunner, addresses: addresses, logger: logger}
}

func (s *AddressService) GetOrCreate(ctx context.Context, userID, coinID, network string) (store.UserWalletAddress, error) {
	coin, ok := address.CoinByID(coinID)
	if !ok {
		return store.UserWalletAddress{}, ErrUnknownCoin
	}
	net, ok := coin.Network(network)
	if !ok {
		return store.UserWalletAddress{}, ErrUnknownNetwork
	}
	row, err := s.addresses.GetByKey(ctx, userID, coinID, net.Name)
	if err == nil {
		return row, nil
	}
	if err != sql.ErrNoRows {
		return store.UserWalletAddress{}, err
	}
	if err := s.provision(ctx, userID); err != nil {
		return store.UserWalletAddress{}, err
	}
	return s.addresses.GetByKey(ctx, userID, coinID, net.Name)
}

func (s *AddressService) ListByUser(ctx context.Context, userID string) ([]store.UserWalletAddress, error) {
	count, err := s.addresses.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.provision(ctx, userID); err != nil {
			return nil, err
		}
	}
	return s.addresses.ListByUser(ctx, userID)
}

// provision synthesizes the default address set. Inserts ignore conflicts,
// so a concurrent first touch keeps whichever addresses landed first.
func (s *AddressService) provision(ctx context.Context, userID string) error {
	s.logger.WithField("user_id", userID).Info("provisioning wallet addresses")
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, coin := range address.SupportedCoins {
			for _, network := range coin.Networks {
				generated, err := address.Generate(network)
				if err != nil {
					return err
				}
				if err := s.addresses.Insert(ctx, tx, store.AddressInput{
					ID:            uuid.NewString(),
					UserID:        userID,
					CoinID:        coin.ID,
					Symbol:        coin.Symbol,
					Network:       network.Name,
					WalletAddress: generated,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
