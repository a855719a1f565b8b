package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"walletd/internal/config"
	"walletd/internal/prices"
	"walletd/internal/services"
	"walletd/internal/store"
	"walletd/internal/websocket"

	"github.com/golang-jwt/jwt/v5"
)

type stubReconcileDB struct {
	selectFn func(ctx context.Context, dest any, query string, args ...any) error
}

func (s stubReconcileDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.selectFn == nil {
		return nil
	}
	return s.selectFn(ctx, dest, query, args...)
}

type stubWalletStore struct {
	getByUserFn        func(ctx context.Context, userID string) ([]store.WalletBalanceSummary, error)
	getByUserAndCoinFn func(ctx context.Context, userID, coinID string) (store.Wallet, error)
}

func (s stubWalletStore) GetByUser(ctx context.Context, userID string) ([]store.WalletBalanceSummary, error) {
	if s.getByUserFn == nil {
		return nil, nil
	}
	return s.getByUserFn(ctx, userID)
}

func (s stubWalletStore) GetByUserAndCoin(ctx context.Context, userID, coinID string) (store.Wallet, error) {
	if s.getByUserAndCoinFn == nil {
		return store.Wallet{}, nil
	}
	return s.getByUserAndCoinFn(ctx, userID, coinID)
}

type stubTransactionStore struct {
	listByUserFn func(ctx context.Context, userID string, txType store.TxType, limit, offset int) ([]store.Transaction, error)
	listAllFn    func(ctx context.Context, limit, offset int) ([]store.Transaction, error)
}

func (s stubTransactionStore) ListByUser(ctx context.Context, userID string, txType store.TxType, limit, offset int) ([]store.Transaction, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, txType, limit, offset)
}

func (s stubTransactionStore) ListAll(ctx context.Context, limit, offset int) ([]store.Transaction, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubAlertStore struct {
	createFn     func(ctx context.Context, alert store.PriceAlert) error
	listByUserFn func(ctx context.Context, userID string) ([]store.PriceAlert, error)
	deleteFn     func(ctx context.Context, alertID, userID string) (int64, error)
}

func (s stubAlertStore) Create(ctx context.Context, alert store.PriceAlert) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, alert)
}

func (s stubAlertStore) ListByUser(ctx context.Context, userID string) ([]store.PriceAlert, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubAlertStore) Delete(ctx context.Context, alertID, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, alertID, userID)
}

type stubSettingsStore struct {
	getFn func(ctx context.Context) (store.FeeSettings, error)
}

func (s stubSettingsStore) GetTransactionFee(ctx context.Context) (store.FeeSettings, error) {
	if s.getFn == nil {
		return store.FeeSettings{}, nil
	}
	return s.getFn(ctx)
}

type stubAuditStore struct {
	listFn func(ctx context.Context, limit, offset int) ([]store.AdminAction, error)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]store.AdminAction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubRoles struct {
	hasRoleFn func(ctx context.Context, userID, role string) (bool, error)
}

func (s stubRoles) HasRole(ctx context.Context, userID, role string) (bool, error) {
	if s.hasRoleFn == nil {
		return false, nil
	}
	return s.hasRoleFn(ctx, userID, role)
}

type stubService struct {
	sendFn func(ctx context.Context, req services.SendRequest) (services.SendReceipt, error)
	swapFn func(ctx context.Context, req services.SwapRequest) (services.SwapReceipt, error)
}

func (s stubService) Send(ctx context.Context, req services.SendRequest) (services.SendReceipt, error) {
	if s.sendFn == nil {
		return services.SendReceipt{}, nil
	}
	return s.sendFn(ctx, req)
}

func (s stubService) Swap(ctx context.Context, req services.SwapRequest) (services.SwapReceipt, error) {
	if s.swapFn == nil {
		return services.SwapReceipt{}, nil
	}
	return s.swapFn(ctx, req)
}

type stubAddressService struct {
	getOrCreateFn func(ctx context.Context, userID, coinID, network string) (store.UserWalletAddress, error)
	listByUserFn  func(ctx context.Context, userID string) ([]store.UserWalletAddress, error)
}

func (s stubAddressService) GetOrCreate(ctx context.Context, userID, coinID, network string) (store.UserWalletAddress, error) {
	if s.getOrCreateFn == nil {
		return store.UserWalletAddress{}, nil
	}
	return s.getOrCreateFn(ctx, userID, coinID, network)
}

func (s stubAddressService) ListByUser(ctx context.Context, userID string) ([]store.UserWalletAddress, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubAdminService struct {
	fundFn          func(ctx context.Context, req services.FundRequest) (services.FundReceipt, error)
	freezeFn        func(ctx context.Context, req services.FreezeRequest) error
	updateFeeFn     func(ctx context.Context, req services.UpdateFeeRequest) (store.FeeSettings, error)
	updateAddressFn func(ctx context.Context, req services.UpdateAddressRequest) error
	promoteFn       func(ctx context.Context, adminID, targetUserID string) error
}

func (s stubAdminService) FundAccount(ctx context.Context, req services.FundRequest) (services.FundReceipt, error) {
	if s.fundFn == nil {
		return services.FundReceipt{}, nil
	}
	return s.fundFn(ctx, req)
}

func (s stubAdminService) ToggleFreeze(ctx context.Context, req services.FreezeRequest) error {
	if s.freezeFn == nil {
		return nil
	}
	return s.freezeFn(ctx, req)
}

func (s stubAdminService) UpdateFee(ctx context.Context, req services.UpdateFeeRequest) (store.FeeSettings, error) {
	if s.updateFeeFn == nil {
		return store.FeeSettings{}, nil
	}
	return s.updateFeeFn(ctx, req)
}

func (s stubAdminService) UpdateWalletAddress(ctx context.Context, req services.UpdateAddressRequest) error {
	if s.updateAddressFn == nil {
		return nil
	}
	return s.updateAddressFn(ctx, req)
}

func (s stubAdminService) PromoteAdmin(ctx context.Context, adminID, targetUserID string) error {
	if s.promoteFn == nil {
		return nil
	}
	return s.promoteFn(ctx, adminID, targetUserID)
}

type stubPriceClient struct {
	getPricesFn  func(ctx context.Context, coinIDs []string) ([]prices.CoinPrice, error)
	getChartFn   func(ctx context.Context, coinID string, days int) ([]prices.ChartPoint, error)
	getDetailFn  func(ctx context.Context, coinID string) (prices.CoinDetail, error)
	getMarketsFn func(ctx context.Context, page, perPage int) ([]prices.CoinPrice, error)
}

func (s stubPriceClient) GetPrices(ctx context.Context, coinIDs []string) ([]prices.CoinPrice, error) {
	if s.getPricesFn == nil {
		return nil, nil
	}
	return s.getPricesFn(ctx, coinIDs)
}

func (s stubPriceClient) GetMarketChart(ctx context.Context, coinID string, days int) ([]prices.ChartPoint, error) {
	if s.getChartFn == nil {
		return nil, nil
	}
	return s.getChartFn(ctx, coinID, days)
}

func (s stubPriceClient) GetCoinDetail(ctx context.Context, coinID string) (prices.CoinDetail, error) {
	if s.getDetailFn == nil {
		return prices.CoinDetail{}, nil
	}
	return s.getDetailFn(ctx, coinID)
}

func (s stubPriceClient) GetMarketsPage(ctx context.Context, page, perPage int) ([]prices.CoinPrice, error) {
	if s.getMarketsFn == nil {
		return nil, nil
	}
	return s.getMarketsFn(ctx, page, perPage)
}

func newTestHandler(reconcileDB store.Selecter, wallets WalletStore, transactions TransactionStore, alerts AlertStore, settings SettingsStore, audit AuditStore, roles stubRoles, service TransactionService, addresses AddressService, admin AdminService, priceClient PriceClient) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		AllowedOrigins: "*",
	}
	return New(reconcileDB, cfg, wallets, transactions, alerts, settings, audit, roles, service, addresses, admin, priceClient, websocket.NewHub())
}

func testToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func serveAuthed(t *testing.T, handler *Handler, method, target string, body []byte, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer "+testToken(t, userID))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	return rr
}
