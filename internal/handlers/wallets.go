package handlers

import (
	"net/http"

	"walletd/internal/middleware"
	"walletd/internal/money"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	wallets, err := h.wallets.GetByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load wallets")
		return
	}
	normalized := make([]map[string]any, 0, len(wallets))
	for _, wallet := range wallets {
		normalized = append(normalized, map[string]any{
			"id":             wallet.ID,
			"coin_id":        wallet.CoinID,
			"symbol":         wallet.Symbol,
			"name":           wallet.Name,
			"balance":        money.Format(wallet.CalculatedBalance),
			"stored_balance": money.Format(wallet.StoredBalance),
			"difference":     money.Format(wallet.Difference),
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	coinID := chi.URLParam(r, "coinID")
	wallet, err := h.wallets.GetByUserAndCoin(r.Context(), userID, coinID)
	if err != nil {
		respondError(w, http.StatusNotFound, "wallet not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"coin_id": wallet.CoinID,
		"symbol":  wallet.Symbol,
		"balance": money.Format(wallet.Balance),
	})
}

func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	type row struct {
		CoinID        string `db:"coin_id"`
		Symbol        string `db:"symbol"`
		WalletBalance string `db:"wallet_balance"`
		LedgerSum     string `db:"ledger_sum"`
		Difference    string `db:"difference"`
	}
	query := `
		SELECT w.coin_id,
		       w.symbol,
		       w.balance AS wallet_balance,
		       COALESCE(SUM(l.amount), 0) AS ledger_sum,
		       (w.balance - COALESCE(SUM(l.amount), 0)) AS difference
		FROM wallets w
		LEFT JOIN ledger_entries l ON l.user_id = w.user_id AND l.coin_id = w.coin_id
		WHERE w.user_id = $1
		GROUP BY w.coin_id, w.symbol, w.balance
		ORDER BY w.coin_id
	`
	var rows []row
	if err := h.reconcileDB.SelectContext(r.Context(), &rows, query, userID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to self_check")
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, item := range rows {
		response = append(response, map[string]any{
			"coin_id":        item.CoinID,
			"symbol":         item.Symbol,
			"wallet_balance": item.WalletBalance,
			"ledger_sum":     item.LedgerSum,
			"difference":     item.Difference,
		})
	}
	respondJSON(w, http.StatusOK, response)
}
