package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"walletd/internal/prices"
	"walletd/internal/store"
	"walletd/internal/websocket"
)

type WalletStore interface {
	GetBalance(ctx context.Context, userID, coinID string) (decimal.Decimal, error)
	Credit(ctx context.Context, tx store.Tx, input store.CreditInput) (decimal.Decimal, error)
	Debit(ctx context.Context, tx store.Tx, userID, coinID string, amount decimal.Decimal) (decimal.Decimal, error)
}

type LedgerStore interface {
	InsertEntries(ctx context.Context, tx store.Execer, entries []store.LedgerEntryInput) error
}

type TransactionStore interface {
	Append(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

type AddressStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.AddressInput) error
	Upsert(ctx context.Context, tx store.Execer, input store.AddressInput) error
	GetByKey(ctx context.Context, userID, coinID, network string) (store.UserWalletAddress, error)
	ListByUser(ctx context.Context, userID string) ([]store.UserWalletAddress, error)
	FindByAddress(ctx context.Context, address string) (store.UserWalletAddress, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type ProfileStore interface {
	Get(ctx context.Context, userID string) (store.Profile, error)
	SetFrozen(ctx context.Context, tx store.Execer, userID string, frozen bool, reason *string) error
}

type SettingsStore interface {
	GetTransactionFee(ctx context.Context) (store.FeeSettings, error)
	UpdateTransactionFee(ctx context.Context, tx store.Execer, percentage, minFeeUsd decimal.Decimal, updatedBy string, expectedUpdatedAt time.Time) (int64, error)
}

type AdminStore interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	CreateAdmin(ctx context.Context, tx store.Execer, userID string, createdBy *string) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, adminID, actionType string, targetUserID *string, details string) error
}

// PriceOracle is the read-only market data collaborator. Failures here are
// surfaced before any ledger mutation is attempted.
type PriceOracle interface {
	GetPrices(ctx context.Context, coinIDs []string) ([]prices.CoinPrice, error)
	PriceUsd(ctx context.Context, coinID string) (decimal.Decimal, error)
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}
