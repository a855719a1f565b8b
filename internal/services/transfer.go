package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"walletd/internal/address"
	"walletd/internal/events"
	"walletd/internal/money"
	"walletd/internal/store"
	"walletd/internal/websocket"
)

type SendRequest struct {
	UserID    string
	CoinID    string
	Network   string
	ToAddress string
	Amount    decimal.Decimal
}

type SendReceipt struct {
	TransactionID      string
	GroupID            string
	TxHash             string
	IsPlatformTransfer bool
	NewBalance         decimal.Decimal
	FeeUsd             decimal.Decimal
}

// Send moves Amount of CoinID from the sender to a destination address.
// Destinations owned by another user of the platform settle instantly by
// direct ledger credit; anything else is treated as having left the system
// and tagged with a synthetic hash.
func (s *TransactionService) Send(ctx context.Context, req SendRequest) (SendReceipt, error) {
	if !validAmount(req.Amount) {
		return SendReceipt{}, ErrInvalidAmount
	}
	toAddress := strings.TrimSpace(req.ToAddress)
	if toAddress == "" {
		return SendReceipt{}, ErrInvalidAddress
	}
	coin, ok := address.CoinByID(req.CoinID)
	if !ok {
		return SendReceipt{}, ErrUnknownCoin
	}
	network, ok := coin.Network(req.Network)
	if !ok {
		return SendReceipt{}, ErrUnknownNetwork
	}

	profile, err := s.profiles.Get(ctx, req.UserID)
	if err != nil {
		return SendReceipt{}, err
	}
	if profile.IsFrozen {
		return SendReceipt{}, ErrAccountFrozen
	}

	hasFee, err := s.fees.HasSufficientNetworkFee(ctx, req.UserID, network.NativeCoinID)
	if err != nil {
		return SendReceipt{}, err
	}
	if !hasFee {
		return SendReceipt{}, ErrInsufficientNetworkFee
	}

	coinPrice, err := s.oracle.PriceUsd(ctx, req.CoinID)
	if err != nil {
		return SendReceipt{}, ErrPriceUnavailable
	}
	feeUsd, err := s.fees.ComputeTransactionFee(ctx, req.Amount.Mul(coinPrice))
	if err != nil {
		return SendReceipt{}, err
	}

	receipt := SendReceipt{FeeUsd: feeUsd}
	var recipient store.UserWalletAddress
	var recipientBalance decimal.Decimal
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		newBalance, err := s.wallets.Debit(ctx, tx, req.UserID, req.CoinID, req.Amount)
		if err == sql.ErrNoRows {
			return ErrInsufficientBalance
		}
		if err != nil {
			return err
		}
		receipt.NewBalance = newBalance

		sendID := uuid.NewString()
		receipt.TransactionID = sendID
		entries := []store.LedgerEntryInput{{
			ID:            uuid.NewString(),
			TransactionID: sendID,
			UserID:        req.UserID,
			CoinID:        req.CoinID,
			Amount:        req.Amount.Neg(),
			Description:   "Send debit",
		}}

		recipient, err = s.addresses.FindByAddress(ctx, toAddress)
		internal := err == nil
		if err != nil && err != sql.ErrNoRows {
			return err
		}

		var groupID *string
		var txHash *string
		if internal {
			receipt.IsPlatformTransfer = true
			gid := uuid.NewString()
			groupID = &gid
			receipt.GroupID = gid

			recipientBalance, err = s.wallets.Credit(ctx, tx, store.CreditInput{
				ID:     uuid.NewString(),
				UserID: recipient.UserID,
				CoinID: req.CoinID,
				Symbol: coin.Symbol,
				Name:   coin.Name,
				Amount: req.Amount,
			})
			if err != nil {
				return err
			}

			fromAddress := "platform"
			if senderAddr, err := s.addresses.GetByKey(ctx, req.UserID, req.CoinID, network.Name); err == nil {
				fromAddress = senderAddr.WalletAddress
			}
			receiveID := uuid.NewString()
			if err := s.txlog.Append(ctx, tx, store.TransactionInput{
				ID:                 receiveID,
				GroupID:            groupID,
				UserID:             recipient.UserID,
				Type:               store.TxReceive,
				CoinID:             req.CoinID,
				Symbol:             coin.Symbol,
				Amount:             req.Amount,
				ToAddress:          &toAddress,
				FromAddress:        &fromAddress,
				Status:             store.TxCompleted,
				IsPlatformTransfer: true,
			}); err != nil {
				return err
			}
			entries = append(entries, store.LedgerEntryInput{
				ID:            uuid.NewString(),
				TransactionID: receiveID,
				UserID:        recipient.UserID,
				CoinID:        req.CoinID,
				Amount:        req.Amount,
				Description:   "Internal transfer credit",
			})
		} else {
			hash := syntheticTxHash()
			txHash = &hash
			receipt.TxHash = hash
		}

		if err := s.txlog.Append(ctx, tx, store.TransactionInput{
			ID:                 sendID,
			GroupID:            groupID,
			UserID:             req.UserID,
			Type:               store.TxSend,
			CoinID:             req.CoinID,
			Symbol:             coin.Symbol,
			Amount:             req.Amount,
			ToAddress:          &toAddress,
			Status:             store.TxCompleted,
			TxHash:             txHash,
			IsPlatformTransfer: internal,
		}); err != nil {
			return err
		}
		return s.ledger.InsertEntries(ctx, tx, entries)
	})
	if err != nil {
		return SendReceipt{}, err
	}

	s.hub.BroadcastBalance(req.UserID, websocket.BalanceUpdate{
		CoinID:  req.CoinID,
		Symbol:  coin.Symbol,
		Balance: money.Format(receipt.NewBalance),
	})
	if receipt.IsPlatformTransfer {
		s.hub.BroadcastBalance(recipient.UserID, websocket.BalanceUpdate{
			CoinID:  req.CoinID,
			Symbol:  coin.Symbol,
			Balance: money.Format(recipientBalance),
		})
	}
	s.publishTransaction(ctx, events.TransactionEvent{
		TransactionID:      receipt.TransactionID,
		GroupID:            receipt.GroupID,
		UserID:             req.UserID,
		Type:               string(store.TxSend),
		CoinID:             req.CoinID,
		Symbol:             coin.Symbol,
		Amount:             money.Format(req.Amount),
		Status:             string(store.TxCompleted),
		IsPlatformTransfer: receipt.IsPlatformTransfer,
		OccurredAt:         time.Now().UTC(),
	})
	return receipt, nil
}

func (s *TransactionService) publishTransaction(ctx context.Context, event events.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransaction(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"transaction_id": event.TransactionID,
			"type":           event.Type,
		}).Warn("transaction event publish failed")
	}
}
