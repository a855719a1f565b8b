package handlers

import (
	"net/http"
	"strings"

	"walletd/internal/address"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	coinIDs := address.CoinIDs()
	if raw := r.URL.Query().Get("ids"); raw != "" {
		coinIDs = strings.Split(raw, ",")
	}
	quotes, err := h.prices.GetPrices(r.Context(), coinIDs)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "price_unavailable")
		return
	}
	respondJSON(w, http.StatusOK, quotes)
}

func (h *Handler) GetMarkets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	perPage := parseInt(query.Get("per_page"), 50)
	if perPage > 250 {
		perPage = 250
	}
	quotes, err := h.prices.GetMarketsPage(r.Context(), page, perPage)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "price_unavailable")
		return
	}
	respondJSON(w, http.StatusOK, quotes)
}

func (h *Handler) GetCoinDetail(w http.ResponseWriter, r *http.Request) {
	coinID := chi.URLParam(r, "coinID")
	detail, err := h.prices.GetCoinDetail(r.Context(), coinID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "price_unavailable")
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *Handler) GetMarketChart(w http.ResponseWriter, r *http.Request) {
	coinID := chi.URLParam(r, "coinID")
	days := parseInt(r.URL.Query().Get("days"), 7)
	points, err := h.prices.GetMarketChart(r.Context(), coinID, days)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "price_unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"coin_id": coinID,
		"days":    days,
		"prices":  points,
	})
}
