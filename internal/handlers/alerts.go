package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"walletd/internal/address"
	"walletd/internal/middleware"
	"walletd/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createAlertRequest struct {
	CoinID      string `json:"coin_id"`
	TargetPrice string `json:"target_price"`
	Direction   string `json:"direction"`
}

func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	coin, ok := address.CoinByID(req.CoinID)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown_coin")
		return
	}
	direction := strings.ToLower(strings.TrimSpace(req.Direction))
	if direction != "above" && direction != "below" {
		respondError(w, http.StatusBadRequest, "invalid_alert")
		return
	}
	target, err := decimal.NewFromString(req.TargetPrice)
	if err != nil || target.LessThanOrEqual(decimal.Zero) {
		respondError(w, http.StatusBadRequest, "invalid_alert")
		return
	}
	alert := store.PriceAlert{
		ID:          uuid.NewString(),
		UserID:      userID,
		CoinID:      coin.ID,
		Symbol:      coin.Symbol,
		TargetPrice: target,
		Direction:   direction,
	}
	if err := h.alerts.Create(r.Context(), alert); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create alert")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":           alert.ID,
		"coin_id":      alert.CoinID,
		"symbol":       alert.Symbol,
		"target_price": alert.TargetPrice.String(),
		"direction":    alert.Direction,
	})
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	alerts, err := h.alerts.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load alerts")
		return
	}
	normalized := make([]map[string]any, 0, len(alerts))
	for _, alert := range alerts {
		normalized = append(normalized, map[string]any{
			"id":           alert.ID,
			"coin_id":      alert.CoinID,
			"symbol":       alert.Symbol,
			"target_price": alert.TargetPrice.String(),
			"direction":    alert.Direction,
			"triggered":    alert.Triggered,
			"created_at":   alert.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	alertID := chi.URLParam(r, "id")
	rows, err := h.alerts.Delete(r.Context(), alertID, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete alert")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "alert_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
