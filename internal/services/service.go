package services

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"walletd/internal/db"
	"walletd/internal/events"
	"walletd/internal/money"
)

// TransactionService orchestrates the balance-affecting operations: sends to
// internal and external destinations, and swaps between assets. Every
// accepted operation mutates the ledger, writes its ledger entries and
// appends its transaction-log rows inside one serializable database
// transaction.
type TransactionService struct {
	txRunner  db.TxRunner
	wallets   WalletStore
	ledger    LedgerStore
	txlog     TransactionStore
	addresses AddressStore
	profiles  ProfileStore
	fees      *FeePolicy
	oracle    PriceOracle
	publisher events.Publisher
	hub       BalanceHub
	logger    *logrus.Logger
}

func NewTransactionService(txRunner db.TxRunner, wallets WalletStore, ledger LedgerStore, txlog TransactionStore, addresses AddressStore, profiles ProfileStore, fees *FeePolicy, oracle PriceOracle, publisher events.Publisher, hub BalanceHub, logger *logrus.Logger) *TransactionService {
	return &TransactionService{
		txRunner:  txRunner,
		wallets:   wallets,
		ledger:    ledger,
		txlog:     txlog,
		addresses: addresses,
		profiles:  profiles,
		fees:      fees,
		oracle:    oracle,
		publisher: publisher,
		hub:       hub,
		logger:    logger,
	}
}

func validAmount(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero) && amount.Exponent() >= -money.MaxScale
}

// syntheticTxHash fabricates an on-chain-looking hash for display. No real
// broadcast ever happens.
func syntheticTxHash() string {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return ""
	}
	return "0x" + hex.EncodeToString(raw)
}

func stringPtr(value string) *string {
	return &value
}
