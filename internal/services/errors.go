package services

import "errors"

var (
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInsufficientNetworkFee = errors.New("insufficient network fee")
	ErrAccountFrozen          = errors.New("account frozen")
	ErrUnauthorized           = errors.New("admin privileges required")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidAddress         = errors.New("invalid destination address")
	ErrUnknownCoin            = errors.New("unsupported coin")
	ErrUnknownNetwork         = errors.New("unsupported network")
	ErrSameCoinSwap           = errors.New("cannot swap a coin for itself")
	ErrInvalidSlippage        = errors.New("slippage tolerance out of range")
	ErrPriceUnavailable       = errors.New("price feed unavailable")
	ErrReasonRequired         = errors.New("freeze reason required")
	ErrInvalidFeePolicy       = errors.New("invalid fee policy")
	ErrSettingsConflict       = errors.New("settings changed concurrently")
	ErrAlertNotFound          = errors.New("price alert not found")
	ErrInvalidAlert           = errors.New("invalid price alert")
)
