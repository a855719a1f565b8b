package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"walletd/internal/address"
	"walletd/internal/db"
	"walletd/internal/events"
	"walletd/internal/money"
	"walletd/internal/store"
	"walletd/internal/websocket"
)

// AdminService is the privileged control plane. Every operation checks the
// caller's admin role first and writes an audit record in the same database
// transaction as the mutation it describes.
type AdminService struct {
	txRunner  db.TxRunner
	admins    AdminStore
	audit     AuditStore
	wallets   WalletStore
	ledger    LedgerStore
	txlog     TransactionStore
	profiles  ProfileStore
	settings  SettingsStore
	addresses AddressStore
	publisher events.Publisher
	hub       BalanceHub
	logger    *logrus.Logger
}

func NewAdminService(txRunner db.TxRunner, admins AdminStore, audit AuditStore, wallets WalletStore, ledger LedgerStore, txlog TransactionStore, profiles ProfileStore, settings SettingsStore, addresses AddressStore, publisher events.Publisher, hub BalanceHub, logger *logrus.Logger) *AdminService {
	return &AdminService{
		txRunner:  txRunner,
		admins:    admins,
		audit:     audit,
		wallets:   wallets,
		ledger:    ledger,
		txlog:     txlog,
		profiles:  profiles,
		settings:  settings,
		addresses: addresses,
		publisher: publisher,
		hub:       hub,
		logger:    logger,
	}
}

func (s *AdminService) requireAdmin(ctx context.Context, adminID string) error {
	isAdmin, err := s.admins.IsAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrUnauthorized
	}
	return nil
}

const fundingMarker = "funding"

type FundRequest struct {
	AdminID string
	UserID  string
	CoinID  string
	Symbol  string
	Name    string
	Amount  decimal.Decimal
}

type FundReceipt struct {
	TransactionID string
	NewBalance    decimal.Decimal
}

// FundAccount credits a balance directly, creating funds with no debit
// counterpart. Frozen accounts may still be funded.
func (s *AdminService) FundAccount(ctx context.Context, req FundRequest) (FundReceipt, error) {
	if err := s.requireAdmin(ctx, req.AdminID); err != nil {
		return FundReceipt{}, err
	}
	if !validAmount(req.Amount) {
		return FundReceipt{}, ErrInvalidAmount
	}
	symbol, name := req.Symbol, req.Name
	if coin, ok := address.CoinByID(req.CoinID); ok {
		if symbol == "" {
			symbol = coin.Symbol
		}
		if name == "" {
			name = coin.Name
		}
	}
	if symbol == "" {
		return FundReceipt{}, ErrUnknownCoin
	}

	var receipt FundReceipt
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		newBalance, err := s.wallets.Credit(ctx, tx, store.CreditInput{
			ID:     uuid.NewString(),
			UserID: req.UserID,
			CoinID: req.CoinID,
			Symbol: symbol,
			Name:   name,
			Amount: req.Amount,
		})
		if err != nil {
			return err
		}
		receipt.NewBalance = newBalance

		txID := uuid.NewString()
		receipt.TransactionID = txID
		if err := s.txlog.Append(ctx, tx, store.TransactionInput{
			ID:          txID,
			UserID:      req.UserID,
			Type:        store.TxReceive,
			CoinID:      req.CoinID,
			Symbol:      symbol,
			Amount:      req.Amount,
			FromAddress: stringPtr(fundingMarker),
			Status:      store.TxCompleted,
		}); err != nil {
			return err
		}
		if err := s.ledger.InsertEntries(ctx, tx, []store.LedgerEntryInput{{
			ID:            uuid.NewString(),
			TransactionID: txID,
			UserID:        req.UserID,
			CoinID:        req.CoinID,
			Amount:        req.Amount,
			Description:   "Admin funding",
		}}); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]string{
			"coin_id":        req.CoinID,
			"amount":         money.Format(req.Amount),
			"transaction_id": txID,
		})
		return s.audit.Log(ctx, tx, req.AdminID, "fund_account", &req.UserID, string(details))
	})
	if err != nil {
		return FundReceipt{}, err
	}

	s.hub.BroadcastBalance(req.UserID, websocket.BalanceUpdate{
		CoinID:  req.CoinID,
		Symbol:  symbol,
		Balance: money.Format(receipt.NewBalance),
	})
	if s.publisher != nil {
		event := events.TransactionEvent{
			TransactionID: receipt.TransactionID,
			UserID:        req.UserID,
			Type:          string(store.TxReceive),
			CoinID:        req.CoinID,
			Symbol:        symbol,
			Amount:        money.Format(req.Amount),
			Status:        string(store.TxCompleted),
			OccurredAt:    time.Now().UTC(),
		}
		if err := s.publisher.PublishTransaction(ctx, event); err != nil {
			s.logger.WithError(err).Warn("funding event publish failed")
		}
	}
	return receipt, nil
}

type FreezeRequest struct {
	AdminID string
	UserID  string
	Freeze  bool
	Reason  string
}

// ToggleFreeze moves an account between active and frozen. Freezing needs a
// reason; unfreezing clears it unconditionally.
func (s *AdminService) ToggleFreeze(ctx context.Context, req FreezeRequest) error {
	if err := s.requireAdmin(ctx, req.AdminID); err != nil {
		return err
	}
	reason := strings.TrimSpace(req.Reason)
	if req.Freeze && reason == "" {
		return ErrReasonRequired
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var reasonPtr *string
		actionType := "unfreeze_account"
		if req.Freeze {
			reasonPtr = &reason
			actionType = "freeze_account"
		}
		if err := s.profiles.SetFrozen(ctx, tx, req.UserID, req.Freeze, reasonPtr); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]string{"reason": reason})
		return s.audit.Log(ctx, tx, req.AdminID, actionType, &req.UserID, string(details))
	})
}

type UpdateFeeRequest struct {
	AdminID    string
	Percentage decimal.Decimal
	MinFeeUsd  decimal.Decimal
}

// UpdateFee replaces the fee-policy singleton. The write is guarded by the
// row's version so concurrent admin edits cannot silently overwrite each
// other.
func (s *AdminService) UpdateFee(ctx context.Context, req UpdateFeeRequest) (store.FeeSettings, error) {
	if err := s.requireAdmin(ctx, req.AdminID); err != nil {
		return store.FeeSettings{}, err
	}
	if req.Percentage.LessThan(decimal.Zero) || req.Percentage.GreaterThan(decimal.NewFromInt(1)) {
		return store.FeeSettings{}, ErrInvalidFeePolicy
	}
	if req.MinFeeUsd.LessThan(decimal.Zero) {
		return store.FeeSettings{}, ErrInvalidFeePolicy
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.settings.GetTransactionFee(ctx)
		if err != nil {
			return err
		}
		rows, err := s.settings.UpdateTransactionFee(ctx, tx, req.Percentage, req.MinFeeUsd, req.AdminID, current.UpdatedAt)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrSettingsConflict
		}
		details, _ := json.Marshal(map[string]string{
			"percentage":  req.Percentage.String(),
			"min_fee_usd": req.MinFeeUsd.String(),
		})
		return s.audit.Log(ctx, tx, req.AdminID, "update_fee", nil, string(details))
	})
	if err != nil {
		return store.FeeSettings{}, err
	}
	return s.settings.GetTransactionFee(ctx)
}

type UpdateAddressRequest struct {
	AdminID string
	UserID  string
	CoinID  string
	Network string
	Address string
}

// UpdateWalletAddress lets an admin overwrite a generated receiving address
// with a curated one.
func (s *AdminService) UpdateWalletAddress(ctx context.Context, req UpdateAddressRequest) error {
	if err := s.requireAdmin(ctx, req.AdminID); err != nil {
		return err
	}
	newAddress := strings.TrimSpace(req.Address)
	if newAddress == "" {
		return ErrInvalidAddress
	}
	coin, ok := address.CoinByID(req.CoinID)
	if !ok {
		return ErrUnknownCoin
	}
	network, ok := coin.Network(req.Network)
	if !ok {
		return ErrUnknownNetwork
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.addresses.Upsert(ctx, tx, store.AddressInput{
			ID:            uuid.NewString(),
			UserID:        req.UserID,
			CoinID:        coin.ID,
			Symbol:        coin.Symbol,
			Network:       network.Name,
			WalletAddress: newAddress,
		}); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]string{
			"coin_id": coin.ID,
			"network": network.Name,
			"address": newAddress,
		})
		return s.audit.Log(ctx, tx, req.AdminID, "update_wallet_address", &req.UserID, string(details))
	})
}

// PromoteAdmin grants the admin role to another user.
func (s *AdminService) PromoteAdmin(ctx context.Context, adminID, targetUserID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.admins.CreateAdmin(ctx, tx, targetUserID, &adminID); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]string{"target_user_id": targetUserID})
		return s.audit.Log(ctx, tx, adminID, "promote_admin", &targetUserID, string(details))
	})
}
