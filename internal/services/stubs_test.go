package services

import (
	"context"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"walletd/internal/events"
	"walletd/internal/prices"
	"walletd/internal/store"
	"walletd/internal/websocket"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubWalletStore struct {
	getBalanceFn func(ctx context.Context, userID, coinID string) (decimal.Decimal, error)
	creditFn     func(ctx context.Context, tx store.Tx, input store.CreditInput) (decimal.Decimal, error)
	debitFn      func(ctx context.Context, tx store.Tx, userID, coinID string, amount decimal.Decimal) (decimal.Decimal, error)
}

func (s stubWalletStore) GetBalance(ctx context.Context, userID, coinID string) (decimal.Decimal, error) {
	if s.getBalanceFn == nil {
		return decimal.Zero, nil
	}
	return s.getBalanceFn(ctx, userID, coinID)
}

func (s stubWalletStore) Credit(ctx context.Context, tx store.Tx, input store.CreditInput) (decimal.Decimal, error) {
	if s.creditFn == nil {
		return input.Amount, nil
	}
	return s.creditFn(ctx, tx, input)
}

func (s stubWalletStore) Debit(ctx context.Context, tx store.Tx, userID, coinID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if s.debitFn == nil {
		return decimal.Zero, nil
	}
	return s.debitFn(ctx, tx, userID, coinID, amount)
}

type stubLedgerStore struct {
	insertFn func(ctx context.Context, tx store.Execer, entries []store.LedgerEntryInput) error
}

func (s stubLedgerStore) InsertEntries(ctx context.Context, tx store.Execer, entries []store.LedgerEntryInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, entries)
}

type stubTransactionStore struct {
	appendFn func(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

func (s stubTransactionStore) Append(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.appendFn == nil {
		return nil
	}
	return s.appendFn(ctx, tx, input)
}

type stubAddressStore struct {
	insertFn        func(ctx context.Context, tx store.Execer, input store.AddressInput) error
	upsertFn        func(ctx context.Context, tx store.Execer, input store.AddressInput) error
	getByKeyFn      func(ctx context.Context, userID, coinID, network string) (store.UserWalletAddress, error)
	listByUserFn    func(ctx context.Context, userID string) ([]store.UserWalletAddress, error)
	findByAddressFn func(ctx context.Context, address string) (store.UserWalletAddress, error)
	countByUserFn   func(ctx context.Context, userID string) (int, error)
}

func (s stubAddressStore) Insert(ctx context.Context, tx store.Execer, input store.AddressInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

func (s stubAddressStore) Upsert(ctx context.Context, tx store.Execer, input store.AddressInput) error {
	if s.upsertFn == nil {
		return nil
	}
	return s.upsertFn(ctx, tx, input)
}

func (s stubAddressStore) GetByKey(ctx context.Context, userID, coinID, network string) (store.UserWalletAddress, error) {
	if s.getByKeyFn == nil {
		return store.UserWalletAddress{}, nil
	}
	return s.getByKeyFn(ctx, userID, coinID, network)
}

func (s stubAddressStore) ListByUser(ctx context.Context, userID string) ([]store.UserWalletAddress, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubAddressStore) FindByAddress(ctx context.Context, address string) (store.UserWalletAddress, error) {
	if s.findByAddressFn == nil {
		return store.UserWalletAddress{}, nil
	}
	return s.findByAddressFn(ctx, address)
}

func (s stubAddressStore) CountByUser(ctx context.Context, userID string) (int, error) {
	if s.countByUserFn == nil {
		return 0, nil
	}
	return s.countByUserFn(ctx, userID)
}

type stubProfileStore struct {
	getFn       func(ctx context.Context, userID string) (store.Profile, error)
	setFrozenFn func(ctx context.Context, tx store.Execer, userID string, frozen bool, reason *string) error
}

func (s stubProfileStore) Get(ctx context.Context, userID string) (store.Profile, error) {
	if s.getFn == nil {
		return store.Profile{UserID: userID}, nil
	}
	return s.getFn(ctx, userID)
}

func (s stubProfileStore) SetFrozen(ctx context.Context, tx store.Execer, userID string, frozen bool, reason *string) error {
	if s.setFrozenFn == nil {
		return nil
	}
	return s.setFrozenFn(ctx, tx, userID, frozen, reason)
}

type stubSettingsStore struct {
	getFn    func(ctx context.Context) (store.FeeSettings, error)
	updateFn func(ctx context.Context, tx store.Execer, percentage, minFeeUsd decimal.Decimal, updatedBy string, expectedUpdatedAt time.Time) (int64, error)
}

func (s stubSettingsStore) GetTransactionFee(ctx context.Context) (store.FeeSettings, error) {
	if s.getFn == nil {
		return store.FeeSettings{Percentage: decimal.RequireFromString("0.001"), MinFeeUsd: decimal.NewFromInt(1)}, nil
	}
	return s.getFn(ctx)
}

func (s stubSettingsStore) UpdateTransactionFee(ctx context.Context, tx store.Execer, percentage, minFeeUsd decimal.Decimal, updatedBy string, expectedUpdatedAt time.Time) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, percentage, minFeeUsd, updatedBy, expectedUpdatedAt)
}

type stubAdminStore struct {
	isAdminFn     func(ctx context.Context, userID string) (bool, error)
	createAdminFn func(ctx context.Context, tx store.Execer, userID string, createdBy *string) error
}

func (s stubAdminStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if s.isAdminFn == nil {
		return false, nil
	}
	return s.isAdminFn(ctx, userID)
}

func (s stubAdminStore) CreateAdmin(ctx context.Context, tx store.Execer, userID string, createdBy *string) error {
	if s.createAdminFn == nil {
		return nil
	}
	return s.createAdminFn(ctx, tx, userID, createdBy)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, adminID, actionType string, targetUserID *string, details string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, adminID, actionType string, targetUserID *string, details string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, adminID, actionType, targetUserID, details)
}

type stubOracle struct {
	priceFn     func(ctx context.Context, coinID string) (decimal.Decimal, error)
	getPricesFn func(ctx context.Context, coinIDs []string) ([]prices.CoinPrice, error)
}

func (s stubOracle) PriceUsd(ctx context.Context, coinID string) (decimal.Decimal, error) {
	if s.priceFn == nil {
		return decimal.NewFromInt(1), nil
	}
	return s.priceFn(ctx, coinID)
}

func (s stubOracle) GetPrices(ctx context.Context, coinIDs []string) ([]prices.CoinPrice, error) {
	if s.getPricesFn == nil {
		return nil, nil
	}
	return s.getPricesFn(ctx, coinIDs)
}

type stubHub struct {
	updates []websocket.BalanceUpdate
	users   []string
}

func (s *stubHub) BroadcastBalance(userID string, update websocket.BalanceUpdate) {
	s.users = append(s.users, userID)
	s.updates = append(s.updates, update)
}

type capturePublisher struct {
	events []events.TransactionEvent
}

func (p *capturePublisher) PublishTransaction(_ context.Context, event events.TransactionEvent) error {
	p.events = append(p.events, event)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
