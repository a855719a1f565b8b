package handlers

import (
	"net/http"

	"walletd/internal/config"
	"walletd/internal/middleware"
	"walletd/internal/store"
	"walletd/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	reconcileDB  store.Selecter
	cfg          config.Config
	wallets      WalletStore
	transactions TransactionStore
	alerts       AlertStore
	settings     SettingsStore
	audit        AuditStore
	roles        middleware.RoleLookup
	service      TransactionService
	addresses    AddressService
	admin        AdminService
	prices       PriceClient
	hub          *websocket.Hub
}

func New(reconcileDB store.Selecter, cfg config.Config, wallets WalletStore, transactions TransactionStore, alerts AlertStore, settings SettingsStore, audit AuditStore, roles middleware.RoleLookup, service TransactionService, addresses AddressService, admin AdminService, prices PriceClient, hub *websocket.Hub) *Handler {
	return &Handler{
		reconcileDB:  reconcileDB,
		cfg:          cfg,
		wallets:      wallets,
		transactions: transactions,
		alerts:       alerts,
		settings:     settings,
		audit:        audit,
		roles:        roles,
		service:      service,
		addresses:    addresses,
		admin:        admin,
		prices:       prices,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/wallets", h.ListWallets)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/wallets/{coinID}/balance", h.GetBalance)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/wallets/self-check", h.SelfCheck)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/addresses", h.ListAddresses)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/addresses/{coinID}", h.GetAddress)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Post("/transactions/send", h.Send)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Post("/transactions/swap", h.Swap)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/transactions", h.ListTransactions)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/fees", h.GetFee)

	router.Route("/prices", func(r chi.Router) {
		r.Get("/", h.GetPrices)
		r.Get("/markets", h.GetMarkets)
		r.Get("/{coinID}", h.GetCoinDetail)
		r.Get("/{coinID}/chart", h.GetMarketChart)
	})

	router.Route("/alerts", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Post("/", h.CreateAlert)
		r.Get("/", h.ListAlerts)
		r.Delete("/{id}", h.DeleteAlert)
	})

	router.Get("/ws/updates", h.WSUpdates)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireAdmin(h.roles))
		r.Post("/fund", h.AdminFund)
		r.Post("/freeze", h.AdminFreeze)
		r.Get("/fees", h.GetFee)
		r.Put("/fees", h.AdminUpdateFee)
		r.Put("/addresses", h.AdminUpdateAddress)
		r.Post("/promote", h.AdminPromote)
		r.Get("/transactions", h.AdminListTransactions)
		r.Get("/audit", h.ListAuditLogs)
		r.Get("/reconcile", h.Reconcile)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
