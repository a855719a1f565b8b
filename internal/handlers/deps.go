package handlers

import (
	"context"

	"walletd/internal/prices"
	"walletd/internal/services"
	"walletd/internal/store"
)

type WalletStore interface {
	GetByUser(ctx context.Context, userID string) ([]store.WalletBalanceSummary, error)
	GetByUserAndCoin(ctx context.Context, userID, coinID string) (store.Wallet, error)
}

type TransactionStore interface {
	ListByUser(ctx context.Context, userID string, txType store.TxType, limit, offset int) ([]store.Transaction, error)
	ListAll(ctx context.Context, limit, offset int) ([]store.Transaction, error)
}

type AlertStore interface {
	Create(ctx context.Context, alert store.PriceAlert) error
	ListByUser(ctx context.Context, userID string) ([]store.PriceAlert, error)
	Delete(ctx context.Context, alertID, userID string) (int64, error)
}

type SettingsStore interface {
	GetTransactionFee(ctx context.Context) (store.FeeSettings, error)
}

type AuditStore interface {
	List(ctx context.Context, limit, offset int) ([]store.AdminAction, error)
}

type TransactionService interface {
	Send(ctx context.Context, req services.SendRequest) (services.SendReceipt, error)
	Swap(ctx context.Context, req services.SwapRequest) (services.SwapReceipt, error)
}

type AddressService interface {
	GetOrCreate(ctx context.Context, userID, coinID, network string) (store.UserWalletAddress, error)
	ListByUser(ctx context.Context, userID string) ([]store.UserWalletAddress, error)
}

type AdminService interface {
	FundAccount(ctx context.Context, req services.FundRequest) (services.FundReceipt, error)
	ToggleFreeze(ctx context.Context, req services.FreezeRequest) error
	UpdateFee(ctx context.Context, req services.UpdateFeeRequest) (store.FeeSettings, error)
	UpdateWalletAddress(ctx context.Context, req services.UpdateAddressRequest) error
	PromoteAdmin(ctx context.Context, adminID, targetUserID string) error
}

type PriceClient interface {
	GetPrices(ctx context.Context, coinIDs []string) ([]prices.CoinPrice, error)
	GetMarketChart(ctx context.Context, coinID string, days int) ([]prices.ChartPoint, error)
	GetCoinDetail(ctx context.Context, coinID string) (prices.CoinDetail, error)
	GetMarketsPage(ctx context.Context, page, perPage int) ([]prices.CoinPrice, error)
}
