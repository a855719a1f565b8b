package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// FeePolicy implements the configurable percentage+minimum transaction fee
// and the network-fee sufficiency gate. The percentage fee is advisory: it is
// reported on receipts but never deducted from transfers; only the
// network-fee gate blocks a send.
type FeePolicy struct {
	settings SettingsStore
	wallets  WalletStore
	oracle   PriceOracle
}

func NewFeePolicy(settings SettingsStore, wallets WalletStore, oracle PriceOracle) *FeePolicy {
	return &FeePolicy{settings: settings, wallets: wallets, oracle: oracle}
}

// RequiredFeeUsd is the minimum USD value of the network's native coin a
// sender must hold to authorize an outgoing transfer.
func (p *FeePolicy) RequiredFeeUsd(ctx context.Context) (decimal.Decimal, error) {
	settings, err := p.settings.GetTransactionFee(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return settings.MinFeeUsd, nil
}

func (p *FeePolicy) HasSufficientNetworkFee(ctx context.Context, userID, nativeCoinID string) (bool, error) {
	required, err := p.RequiredFeeUsd(ctx)
	if err != nil {
		return false, err
	}
	if required.IsZero() {
		return true, nil
	}
	balance, err := p.wallets.GetBalance(ctx, userID, nativeCoinID)
	if err != nil {
		return false, err
	}
	price, err := p.oracle.PriceUsd(ctx, nativeCoinID)
	if err != nil {
		return false, ErrPriceUnavailable
	}
	return balance.Mul(price).GreaterThanOrEqual(required), nil
}

// ComputeTransactionFee returns max(amountUsd * percentage, minFeeUsd).
func (p *FeePolicy) ComputeTransactionFee(ctx context.Context, amountUsd decimal.Decimal) (decimal.Decimal, error) {
	settings, err := p.settings.GetTransactionFee(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	fee := amountUsd.Mul(settings.Percentage)
	if fee.LessThan(settings.MinFeeUsd) {
		return settings.MinFeeUsd, nil
	}
	return fee, nil
}
