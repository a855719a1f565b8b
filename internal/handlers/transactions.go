package handlers

import (
	"encoding/json"
	"net/http"

	"walletd/internal/middleware"
	"walletd/internal/money"
	"walletd/internal/services"
	"walletd/internal/store"

	"github.com/shopspring/decimal"
)

type sendRequest struct {
	CoinID    string `json:"coin_id"`
	Network   string `json:"network"`
	ToAddress string `json:"to_address"`
	Amount    string `json:"amount"`
	Confirm   bool   `json:"confirm"`
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !req.Confirm {
		respondError(w, http.StatusBadRequest, "confirmation_required")
		return
	}
	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	receipt, err := h.service.Send(r.Context(), services.SendRequest{
		UserID:    userID,
		CoinID:    req.CoinID,
		Network:   req.Network,
		ToAddress: req.ToAddress,
		Amount:    amount,
	})
	if err != nil {
		respondServiceError(w, err, "send_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction_id":       receipt.TransactionID,
		"group_id":             receipt.GroupID,
		"tx_hash":              receipt.TxHash,
		"is_platform_transfer": receipt.IsPlatformTransfer,
		"new_balance":          money.Format(receipt.NewBalance),
		"fee_usd":              receipt.FeeUsd.StringFixedBank(2),
	})
}

type swapRequest struct {
	FromCoinID  string `json:"from_coin_id"`
	ToCoinID    string `json:"to_coin_id"`
	FromAmount  string `json:"from_amount"`
	SlippagePct string `json:"slippage_pct"`
	Confirm     bool   `json:"confirm"`
}

func (h *Handler) Swap(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !req.Confirm {
		respondError(w, http.StatusBadRequest, "confirmation_required")
		return
	}
	amount, err := money.ParsePositive(req.FromAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	slippage, err := parseSlippage(req.SlippagePct)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_slippage")
		return
	}
	receipt, err := h.service.Swap(r.Context(), services.SwapRequest{
		UserID:      userID,
		FromCoinID:  req.FromCoinID,
		ToCoinID:    req.ToCoinID,
		FromAmount:  amount,
		SlippagePct: slippage,
	})
	if err != nil {
		respondServiceError(w, err, "swap_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"group_id":         receipt.GroupID,
		"send_tx_id":       receipt.SendTxID,
		"receive_tx_id":    receipt.ReceiveTxID,
		"rate":             receipt.Rate.String(),
		"to_amount":        money.Format(receipt.ToAmount),
		"price_impact_pct": receipt.PriceImpactPct.String(),
		"min_received":     money.Format(receipt.MinReceived),
		"fee_usd":          receipt.FeeUsd.StringFixedBank(2),
		"from_balance":     money.Format(receipt.FromBalance),
		"to_balance":       money.Format(receipt.ToBalance),
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	txType := store.TxType(query.Get("type"))
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	transactions, err := h.transactions.ListByUser(r.Context(), userID, txType, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, normalizeTransactions(transactions))
}

func (h *Handler) GetFee(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetTransactionFee(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load fee settings")
		return
	}
	payload := map[string]any{
		"percentage":  settings.Percentage.String(),
		"min_fee_usd": settings.MinFeeUsd.String(),
		"updated_at":  settings.UpdatedAt,
	}
	if raw := r.URL.Query().Get("amount_usd"); raw != "" {
		amountUsd, err := decimal.NewFromString(raw)
		if err != nil || amountUsd.IsNegative() {
			respondError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		fee := amountUsd.Mul(settings.Percentage)
		if fee.LessThan(settings.MinFeeUsd) {
			fee = settings.MinFeeUsd
		}
		payload["computed_fee_usd"] = fee.StringFixedBank(2)
	}
	respondJSON(w, http.StatusOK, payload)
}

func normalizeTransactions(transactions []store.Transaction) []map[string]any {
	normalized := make([]map[string]any, 0, len(transactions))
	for _, row := range transactions {
		normalized = append(normalized, map[string]any{
			"id":                   row.ID,
			"group_id":             derefString(row.GroupID),
			"user_id":              row.UserID,
			"type":                 string(row.Type),
			"coin_id":              row.CoinID,
			"symbol":               row.Symbol,
			"amount":               money.Format(row.Amount),
			"to_address":           derefString(row.ToAddress),
			"from_address":         derefString(row.FromAddress),
			"status":               string(row.Status),
			"tx_hash":              derefString(row.TxHash),
			"is_platform_transfer": row.IsPlatformTransfer,
			"created_at":           row.CreatedAt,
		})
	}
	return normalized
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
