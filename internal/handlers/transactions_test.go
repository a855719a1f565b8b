package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"walletd/internal/services"
	"walletd/internal/store"

	"github.com/shopspring/decimal"
)

func TestSendSuccess(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, stubRoles{}, stubService{
		sendFn: func(_ context.Context, req services.SendRequest) (services.SendReceipt, error) {
			if req.UserID != "user-1" || req.CoinID != "bitcoin" {
				t.Fatalf("unexpected request: %+v", req)
			}
			return services.SendReceipt{
				TransactionID: "tx-1",
				GroupID:       "group-1",
				TxHash:        "0xabc",
				NewBalance:    decimal.RequireFromString("0.5"),
				FeeUsd:        decimal.RequireFromString("1.25"),
			}, nil
		},
	}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	body := []byte(`{"coin_id":"bitcoin","to_address":"1BvBMSEYst","amount":"0.5","confirm":true}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/transactions/send", body, "user-1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["transaction_id"] != "tx-1" || payload["new_balance"] != "0.50000000" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if payload["fee_usd"] != "1.25" {
		t.Fatalf("unexpected fee: %#v", payload["fee_usd"])
	}
}

func TestSendRequiresConfirmation(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, stubRoles{}, stubService{
		sendFn: func(context.Context, services.SendRequest) (services.SendReceipt, error) {
			t.Fatal("service must not be called without confirmation")
			return services.SendReceipt{}, nil
		},
	}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	body := []byte(`{"coin_id":"bitcoin","to_address":"1BvBMSEYst","amount":"0.5"}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/transactions/send", body, "user-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSendInsufficientBalance(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, stubRoles{}, stubService{
		sendFn: func(context.Context, services.SendRequest) (services.SendReceipt, error) {
			return services.SendReceipt{}, services.ErrInsufficientBalance
		},
	}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	body := []byte(`{"coin_id":"bitcoin","to_address":"1BvBMSEYst","amount":"0.5","confirm":true}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/transactions/send", body, "user-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSendFrozenAccount(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, stubRoles{}, stubService{
		sendFn: func(context.Context, services.SendRequest) (services.SendReceipt, error) {
			return services.SendReceipt{}, services.ErrAccountFrozen
		},
	}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	body := []byte(`{"coin_id":"bitcoin","to_address":"1BvBMSEYst","amount":"0.5","confirm":true}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/transactions/send", body, "user-1")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestSwapSuccess(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, stubRoles{}, stubService{
		swapFn: func(_ context.Context, req services.SwapRequest) (services.SwapReceipt, error) {
			if !req.SlippagePct.Equal(decimal.RequireFromString("1.5")) {
				t.Fatalf("unexpected slippage: %s", req.SlippagePct)
			}
			return services.SwapReceipt{
				GroupID:     "group-1",
				SendTxID:    "tx-1",
				ReceiveTxID: "tx-2",
				Rate:        decimal.RequireFromString("0.0005"),
				ToAmount:    decimal.RequireFromString("0.05"),
				MinReceived: decimal.RequireFromString("0.04975"),
			}, nil
		},
	}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	body := []byte(`{"from_coin_id":"tether","to_coin_id":"ethereum","from_amount":"100","slippage_pct":"1.5","confirm":true}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/transactions/swap", body, "user-1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["rate"] != "0.0005" || payload["to_amount"] != "0.05000000" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestSwapPriceUnavailable(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, stubRoles{}, stubService{
		swapFn: func(context.Context, services.SwapRequest) (services.SwapReceipt, error) {
			return services.SwapReceipt{}, services.ErrPriceUnavailable
		},
	}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	body := []byte(`{"from_coin_id":"tether","to_coin_id":"ethereum","from_amount":"100","confirm":true}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/transactions/swap", body, "user-1")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestListTransactionsPassesFilter(t *testing.T) {
	var gotType store.TxType
	var gotLimit, gotOffset int
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{
		listByUserFn: func(_ context.Context, userID string, txType store.TxType, limit, offset int) ([]store.Transaction, error) {
			gotType, gotLimit, gotOffset = txType, limit, offset
			return []store.Transaction{{ID: "tx-1", Type: store.TxSwap}}, nil
		},
	}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, stubRoles{}, stubService{}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	rr := serveAuthed(t, handler, http.MethodGet, "/transactions?type=swap&page=3&limit=10", nil, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotType != store.TxSwap || gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("unexpected query: type=%s limit=%d offset=%d", gotType, gotLimit, gotOffset)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0]["id"] != "tx-1" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestGetFee(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{
		getFn: func(context.Context) (store.FeeSettings, error) {
			return store.FeeSettings{
				Percentage: decimal.RequireFromString("0.001"),
				MinFeeUsd:  decimal.RequireFromString("1"),
			}, nil
		},
	}, stubAuditStore{}, stubRoles{}, stubService{}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	rr := serveAuthed(t, handler, http.MethodGet, "/fees", nil, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["percentage"] != "0.001" || payload["min_fee_usd"] != "1" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestGetFeeComputesForAmount(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{
		getFn: func(context.Context) (store.FeeSettings, error) {
			return store.FeeSettings{
				Percentage: decimal.RequireFromString("0.001"),
				MinFeeUsd:  decimal.RequireFromString("1"),
			}, nil
		},
	}, stubAuditStore{}, stubRoles{}, stubService{}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	rr := serveAuthed(t, handler, http.MethodGet, "/fees?amount_usd=10000", nil, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["computed_fee_usd"] != "10.00" {
		t.Fatalf("unexpected computed fee: %#v", payload["computed_fee_usd"])
	}

	rr = serveAuthed(t, handler, http.MethodGet, "/fees?amount_usd=500", nil, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	payload = nil
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["computed_fee_usd"] != "1.00" {
		t.Fatalf("expected minimum fee floor, got %#v", payload["computed_fee_usd"])
	}
}
