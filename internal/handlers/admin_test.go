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

func adminRoles() stubRoles {
	return stubRoles{hasRoleFn: func(_ context.Context, _, role string) (bool, error) {
		return role == "admin", nil
	}}
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, stubRoles{}, stubService{}, stubAddressService{}, stubAdminService{
		fundFn: func(context.Context, services.FundRequest) (services.FundReceipt, error) {
			t.Fatal("service must not be reached without the admin role")
			return services.FundReceipt{}, nil
		},
	}, stubPriceClient{})

	body := []byte(`{"user_id":"user-2","coin_id":"bitcoin","amount":"1"}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/admin/fund", body, "user-1")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestAdminFundSuccess(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, adminRoles(), stubService{}, stubAddressService{}, stubAdminService{
		fundFn: func(_ context.Context, req services.FundRequest) (services.FundReceipt, error) {
			if req.AdminID != "admin-1" || req.UserID != "user-2" {
				t.Fatalf("unexpected request: %+v", req)
			}
			return services.FundReceipt{
				TransactionID: "tx-1",
				NewBalance:    decimal.RequireFromString("10"),
			}, nil
		},
	}, stubPriceClient{})

	body := []byte(`{"user_id":"user-2","coin_id":"bitcoin","amount":"10"}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/admin/fund", body, "admin-1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["new_balance"] != "10.00000000" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestAdminFreezeReasonRequired(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, adminRoles(), stubService{}, stubAddressService{}, stubAdminService{
		freezeFn: func(context.Context, services.FreezeRequest) error {
			return services.ErrReasonRequired
		},
	}, stubPriceClient{})

	body := []byte(`{"user_id":"user-2","freeze":true}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/admin/freeze", body, "admin-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAdminFreezeReportsStatus(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, adminRoles(), stubService{}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	body := []byte(`{"user_id":"user-2","freeze":true,"reason":"chargeback abuse"}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/admin/freeze", body, "admin-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["status"] != "frozen" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestAdminUpdateFeeConflict(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, adminRoles(), stubService{}, stubAddressService{}, stubAdminService{
		updateFeeFn: func(context.Context, services.UpdateFeeRequest) (store.FeeSettings, error) {
			return store.FeeSettings{}, services.ErrSettingsConflict
		},
	}, stubPriceClient{})

	body := []byte(`{"percentage":"0.002","min_fee_usd":"2"}`)
	rr := serveAuthed(t, handler, http.MethodPut, "/admin/fees", body, "admin-1")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestAdminUpdateAddressUnknownNetwork(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, adminRoles(), stubService{}, stubAddressService{}, stubAdminService{
		updateAddressFn: func(context.Context, services.UpdateAddressRequest) error {
			return services.ErrUnknownNetwork
		},
	}, stubPriceClient{})

	body := []byte(`{"user_id":"user-2","coin_id":"bitcoin","network":"bsc","address":"0xabc"}`)
	rr := serveAuthed(t, handler, http.MethodPut, "/admin/addresses", body, "admin-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAdminPromote(t *testing.T) {
	var promoted string
	handler := newTestHandler(stubReconcileDB{}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, adminRoles(), stubService{}, stubAddressService{}, stubAdminService{
		promoteFn: func(_ context.Context, adminID, targetUserID string) error {
			if adminID != "admin-1" {
				t.Fatalf("unexpected admin: %s", adminID)
			}
			promoted = targetUserID
			return nil
		},
	}, stubPriceClient{})

	body := []byte(`{"user_id":"user-2"}`)
	rr := serveAuthed(t, handler, http.MethodPost, "/admin/promote", body, "admin-1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if promoted != "user-2" {
		t.Fatalf("unexpected target: %s", promoted)
	}
}

func TestReconcileReportsRows(t *testing.T) {
	handler := newTestHandler(stubReconcileDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			return nil
		},
	}, stubWalletStore{}, stubTransactionStore{}, stubAlertStore{}, stubSettingsStore{}, stubAuditStore{}, adminRoles(), stubService{}, stubAddressService{}, stubAdminService{}, stubPriceClient{})

	rr := serveAuthed(t, handler, http.MethodGet, "/admin/reconcile", nil, "admin-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
