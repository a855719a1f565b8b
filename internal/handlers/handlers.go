package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"walletd/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// respondServiceError maps the service sentinels onto HTTP statuses. Unknown
// errors collapse into the caller-supplied fallback message.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case services.ErrInvalidAmount:
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case services.ErrInvalidAddress:
		respondError(w, http.StatusBadRequest, "invalid_address")
	case services.ErrUnknownCoin:
		respondError(w, http.StatusBadRequest, "unknown_coin")
	case services.ErrUnknownNetwork:
		respondError(w, http.StatusBadRequest, "unknown_network")
	case services.ErrInsufficientBalance:
		respondError(w, http.StatusBadRequest, "insufficient_balance")
	case services.ErrInsufficientNetworkFee:
		respondError(w, http.StatusBadRequest, "insufficient_network_fee")
	case services.ErrAccountFrozen:
		respondError(w, http.StatusForbidden, "account_frozen")
	case services.ErrUnauthorized:
		respondError(w, http.StatusForbidden, "admin_required")
	case services.ErrSameCoinSwap:
		respondError(w, http.StatusBadRequest, "same_coin_swap")
	case services.ErrInvalidSlippage:
		respondError(w, http.StatusBadRequest, "invalid_slippage")
	case services.ErrPriceUnavailable:
		respondError(w, http.StatusServiceUnavailable, "price_unavailable")
	case services.ErrReasonRequired:
		respondError(w, http.StatusBadRequest, "reason_required")
	case services.ErrInvalidFeePolicy:
		respondError(w, http.StatusBadRequest, "invalid_fee_policy")
	case services.ErrSettingsConflict:
		respondError(w, http.StatusConflict, "settings_conflict")
	case services.ErrAlertNotFound:
		respondError(w, http.StatusNotFound, "alert_not_found")
	case services.ErrInvalidAlert:
		respondError(w, http.StatusBadRequest, "invalid_alert")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
