package handlers

import (
	"net/http"

	"walletd/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	addresses, err := h.addresses.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load addresses")
		return
	}
	normalized := make([]map[string]any, 0, len(addresses))
	for _, addr := range addresses {
		normalized = append(normalized, map[string]any{
			"coin_id": addr.CoinID,
			"symbol":  addr.Symbol,
			"network": addr.Network,
			"address": addr.WalletAddress,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	coinID := chi.URLParam(r, "coinID")
	network := r.URL.Query().Get("network")
	addr, err := h.addresses.GetOrCreate(r.Context(), userID, coinID, network)
	if err != nil {
		respondServiceError(w, err, "unable to load address")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"coin_id": addr.CoinID,
		"symbol":  addr.Symbol,
		"network": addr.Network,
		"address": addr.WalletAddress,
	})
}
