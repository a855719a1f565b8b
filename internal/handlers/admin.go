package handlers

import (
	"encoding/json"
	"net/http"

	"walletd/internal/middleware"
	"walletd/internal/money"
	"walletd/internal/services"

	"github.com/shopspring/decimal"
)

type fundRequest struct {
	UserID string `json:"user_id"`
	CoinID string `json:"coin_id"`
	Amount string `json:"amount"`
}

func (h *Handler) AdminFund(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	receipt, err := h.admin.FundAccount(r.Context(), services.FundRequest{
		AdminID: adminID,
		UserID:  req.UserID,
		CoinID:  req.CoinID,
		Amount:  amount,
	})
	if err != nil {
		respondServiceError(w, err, "unable to fund account")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction_id": receipt.TransactionID,
		"new_balance":    money.Format(receipt.NewBalance),
	})
}

type freezeRequest struct {
	UserID string `json:"user_id"`
	Freeze bool   `json:"freeze"`
	Reason string `json:"reason"`
}

func (h *Handler) AdminFreeze(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req freezeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.admin.ToggleFreeze(r.Context(), services.FreezeRequest{
		AdminID: adminID,
		UserID:  req.UserID,
		Freeze:  req.Freeze,
		Reason:  req.Reason,
	})
	if err != nil {
		respondServiceError(w, err, "unable to update account status")
		return
	}
	status := "active"
	if req.Freeze {
		status = "frozen"
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

type updateFeeRequest struct {
	Percentage string `json:"percentage"`
	MinFeeUsd  string `json:"min_fee_usd"`
}

func (h *Handler) AdminUpdateFee(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req updateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	percentage, err := decimal.NewFromString(req.Percentage)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_fee_policy")
		return
	}
	minFee, err := decimal.NewFromString(req.MinFeeUsd)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_fee_policy")
		return
	}
	settings, err := h.admin.UpdateFee(r.Context(), services.UpdateFeeRequest{
		AdminID:    adminID,
		Percentage: percentage,
		MinFeeUsd:  minFee,
	})
	if err != nil {
		respondServiceError(w, err, "unable to update fee settings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"percentage":  settings.Percentage.String(),
		"min_fee_usd": settings.MinFeeUsd.String(),
		"updated_at":  settings.UpdatedAt,
	})
}

type updateAddressRequest struct {
	UserID  string `json:"user_id"`
	CoinID  string `json:"coin_id"`
	Network string `json:"network"`
	Address string `json:"address"`
}

func (h *Handler) AdminUpdateAddress(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req updateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.admin.UpdateWalletAddress(r.Context(), services.UpdateAddressRequest{
		AdminID: adminID,
		UserID:  req.UserID,
		CoinID:  req.CoinID,
		Network: req.Network,
		Address: req.Address,
	})
	if err != nil {
		respondServiceError(w, err, "unable to update address")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type promoteRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) AdminPromote(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.admin.PromoteAdmin(r.Context(), adminID, req.UserID); err != nil {
		respondServiceError(w, err, "unable to promote admin")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "promoted"})
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.transactions.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, normalizeTransactions(rows))
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, map[string]any{
			"id":             row.ID,
			"admin_id":       row.AdminID,
			"action_type":    row.ActionType,
			"target_user_id": derefString(row.TargetUserID),
			"details":        row.Details,
			"created_at":     row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	type reconRow struct {
		UserID        string `db:"user_id"`
		CoinID        string `db:"coin_id"`
		WalletBalance string `db:"wallet_balance"`
		LedgerSum     string `db:"ledger_sum"`
		Difference    string `db:"difference"`
	}
	var rows []reconRow
	query := `
		SELECT w.user_id,
		       w.coin_id,
		       w.balance AS wallet_balance,
		       COALESCE(SUM(l.amount), 0) AS ledger_sum,
		       (w.balance - COALESCE(SUM(l.amount), 0)) AS difference
		FROM wallets w
		LEFT JOIN ledger_entries l ON l.user_id = w.user_id AND l.coin_id = w.coin_id
		GROUP BY w.user_id, w.coin_id, w.balance
		ORDER BY w.user_id, w.coin_id
	`
	if err := h.reconcileDB.SelectContext(r.Context(), &rows, query); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to reconcile balances")
		return
	}
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, map[string]any{
			"user_id":        row.UserID,
			"coin_id":        row.CoinID,
			"wallet_balance": row.WalletBalance,
			"ledger_sum":     row.LedgerSum,
			"difference":     row.Difference,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}
