package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"walletd/internal/address"
	"walletd/internal/events"
	"walletd/internal/money"
	"walletd/internal/store"
	"walletd/internal/websocket"
)

// swapMarker is the reserved destination literal recorded on both legs of a
// swap.
const swapMarker = "swap"

const ratePrecision = 16

var (
	defaultSlippagePct = decimal.NewFromFloat(0.5)
	maxSlippagePct     = decimal.NewFromInt(50)
	hundred            = decimal.NewFromInt(100)
)

type SwapRequest struct {
	UserID     string
	FromCoinID string
	ToCoinID   string
	FromAmount decimal.Decimal
	// SlippagePct bounds the displayed minimum received; zero means the
	// 0.5% default. It does not gate execution.
	SlippagePct decimal.Decimal
}

type SwapReceipt struct {
	GroupID        string
	SendTxID       string
	ReceiveTxID    string
	Rate           decimal.Decimal
	ToAmount       decimal.Decimal
	PriceImpactPct decimal.Decimal
	MinReceived    decimal.Decimal
	FeeUsd         decimal.Decimal
	FromBalance    decimal.Decimal
	ToBalance      decimal.Decimal
}

// Swap converts FromAmount of one asset into another at the oracle's current
// price ratio. Both legs commit atomically and share a group id.
func (s *TransactionService) Swap(ctx context.Context, req SwapRequest) (SwapReceipt, error) {
	if !validAmount(req.FromAmount) {
		return SwapReceipt{}, ErrInvalidAmount
	}
	if req.FromCoinID == req.ToCoinID {
		return SwapReceipt{}, ErrSameCoinSwap
	}
	fromCoin, ok := address.CoinByID(req.FromCoinID)
	if !ok {
		return SwapReceipt{}, ErrUnknownCoin
	}
	toCoin, ok := address.CoinByID(req.ToCoinID)
	if !ok {
		return SwapReceipt{}, ErrUnknownCoin
	}
	slippage := req.SlippagePct
	if slippage.IsZero() {
		slippage = defaultSlippagePct
	}
	if slippage.LessThanOrEqual(decimal.Zero) || slippage.GreaterThan(maxSlippagePct) {
		return SwapReceipt{}, ErrInvalidSlippage
	}

	profile, err := s.profiles.Get(ctx, req.UserID)
	if err != nil {
		return SwapReceipt{}, err
	}
	if profile.IsFrozen {
		return SwapReceipt{}, ErrAccountFrozen
	}

	// The swap debits through the same path a send does, so the same
	// native-coin fee gate applies.
	network := fromCoin.Networks[0]
	hasFee, err := s.fees.HasSufficientNetworkFee(ctx, req.UserID, network.NativeCoinID)
	if err != nil {
		return SwapReceipt{}, err
	}
	if !hasFee {
		return SwapReceipt{}, ErrInsufficientNetworkFee
	}

	priced, err := s.oracle.GetPrices(ctx, []string{req.FromCoinID, req.ToCoinID})
	if err != nil {
		return SwapReceipt{}, ErrPriceUnavailable
	}
	var fromPrice, toPrice decimal.Decimal
	for _, price := range priced {
		switch price.ID {
		case req.FromCoinID:
			fromPrice = price.CurrentPriceUsd
		case req.ToCoinID:
			toPrice = price.CurrentPriceUsd
		}
	}
	if fromPrice.LessThanOrEqual(decimal.Zero) || toPrice.LessThanOrEqual(decimal.Zero) {
		return SwapReceipt{}, ErrPriceUnavailable
	}

	rate := fromPrice.DivRound(toPrice, ratePrecision)
	toAmount := req.FromAmount.Mul(rate).RoundBank(money.MaxScale)
	if toAmount.LessThanOrEqual(decimal.Zero) {
		return SwapReceipt{}, ErrInvalidAmount
	}
	usdNotional := req.FromAmount.Mul(fromPrice)
	feeUsd, err := s.fees.ComputeTransactionFee(ctx, usdNotional)
	if err != nil {
		return SwapReceipt{}, err
	}

	receipt := SwapReceipt{
		Rate:           rate,
		ToAmount:       toAmount,
		PriceImpactPct: PriceImpact(usdNotional),
		MinReceived:    toAmount.Mul(hundred.Sub(slippage)).DivRound(hundred, money.MaxScale),
		FeeUsd:         feeUsd,
	}

	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		fromBalance, err := s.wallets.Debit(ctx, tx, req.UserID, req.FromCoinID, req.FromAmount)
		if err == sql.ErrNoRows {
			return ErrInsufficientBalance
		}
		if err != nil {
			return err
		}
		receipt.FromBalance = fromBalance

		toBalance, err := s.wallets.Credit(ctx, tx, store.CreditInput{
			ID:     uuid.NewString(),
			UserID: req.UserID,
			CoinID: req.ToCoinID,
			Symbol: toCoin.Symbol,
			Name:   toCoin.Name,
			Amount: toAmount,
		})
		if err != nil {
			return err
		}
		receipt.ToBalance = toBalance

		groupID := uuid.NewString()
		receipt.GroupID = groupID
		receipt.SendTxID = uuid.NewString()
		receipt.ReceiveTxID = uuid.NewString()

		if err := s.txlog.Append(ctx, tx, store.TransactionInput{
			ID:        receipt.SendTxID,
			GroupID:   &groupID,
			UserID:    req.UserID,
			Type:      store.TxSend,
			CoinID:    req.FromCoinID,
			Symbol:    fromCoin.Symbol,
			Amount:    req.FromAmount,
			ToAddress: stringPtr(swapMarker),
			Status:    store.TxCompleted,
		}); err != nil {
			return err
		}
		if err := s.txlog.Append(ctx, tx, store.TransactionInput{
			ID:          receipt.ReceiveTxID,
			GroupID:     &groupID,
			UserID:      req.UserID,
			Type:        store.TxReceive,
			CoinID:      req.ToCoinID,
			Symbol:      toCoin.Symbol,
			Amount:      toAmount,
			FromAddress: stringPtr(swapMarker),
			Status:      store.TxCompleted,
		}); err != nil {
			return err
		}
		return s.ledger.InsertEntries(ctx, tx, []store.LedgerEntryInput{
			{
				ID:            uuid.NewString(),
				TransactionID: receipt.SendTxID,
				UserID:        req.UserID,
				CoinID:        req.FromCoinID,
				Amount:        req.FromAmount.Neg(),
				Description:   "Swap debit",
			},
			{
				ID:            uuid.NewString(),
				TransactionID: receipt.ReceiveTxID,
				UserID:        req.UserID,
				CoinID:        req.ToCoinID,
				Amount:        toAmount,
				Description:   "Swap credit",
			},
		})
	})
	if err != nil {
		return SwapReceipt{}, err
	}

	s.hub.BroadcastBalance(req.UserID, websocket.BalanceUpdate{
		CoinID:  req.FromCoinID,
		Symbol:  fromCoin.Symbol,
		Balance: money.Format(receipt.FromBalance),
	})
	s.hub.BroadcastBalance(req.UserID, websocket.BalanceUpdate{
		CoinID:  req.ToCoinID,
		Symbol:  toCoin.Symbol,
		Balance: money.Format(receipt.ToBalance),
	})
	s.publishTransaction(ctx, events.TransactionEvent{
		TransactionID: receipt.SendTxID,
		GroupID:       receipt.GroupID,
		UserID:        req.UserID,
		Type:          string(store.TxSwap),
		CoinID:        req.FromCoinID,
		Symbol:        fromCoin.Symbol,
		Amount:        money.Format(req.FromAmount),
		Status:        string(store.TxCompleted),
		OccurredAt:    time.Now().UTC(),
	})
	return receipt, nil
}

// PriceImpact estimates how far a trade of the given USD size would move the
// market. Advisory only; it never changes the executed amount.
func PriceImpact(usdNotional decimal.Decimal) decimal.Decimal {
	switch {
	case usdNotional.LessThan(decimal.NewFromInt(100)):
		return decimal.Zero
	case usdNotional.LessThan(decimal.NewFromInt(1000)):
		return decimal.NewFromFloat(0.1)
	case usdNotional.LessThan(decimal.NewFromInt(5000)):
		return decimal.NewFromFloat(0.5)
	case usdNotional.LessThan(decimal.NewFromInt(10000)):
		return decimal.NewFromFloat(1.5)
	case usdNotional.LessThan(decimal.NewFromInt(50000)):
		return decimal.NewFromInt(3)
	case usdNotional.LessThan(decimal.NewFromInt(100000)):
		return decimal.NewFromInt(5)
	default:
		return decimal.NewFromInt(15)
	}
}
