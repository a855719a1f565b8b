package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"walletd/internal/address"
	"walletd/internal/config"
	"walletd/internal/db"
	"walletd/internal/events"
	"walletd/internal/handlers"
	"walletd/internal/prices"
	"walletd/internal/services"
	"walletd/internal/store"
	"walletd/internal/websocket"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	wallets := store.NewWalletStore(database)
	ledger := store.NewLedgerStore(database)
	transactions := store.NewTransactionStore(database)
	addresses := store.NewAddressStore(database)
	profiles := store.NewProfileStore(database)
	settings := store.NewSettingsStore(database)
	admins := store.NewAdminStore(database)
	audit := store.NewAuditStore(database)
	alerts := store.NewAlertStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	var priceCache prices.Cache
	if cfg.RedisAddr != "" {
		priceCache = prices.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-process price cache")
		priceCache = prices.NewMemoryCache()
	}
	oracle := prices.NewClient(cfg.PriceAPIURL, priceCache, cfg.PriceCacheTTL, logger)

	var publisher events.Publisher = events.NopPublisher{}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(brokers, cfg.KafkaTopic, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		logger.Warn("KAFKA_BROKERS not set, transaction events disabled")
	}

	feePolicy := services.NewFeePolicy(settings, wallets, oracle)
	service := services.NewTransactionService(txRunner, wallets, ledger, transactions, addresses, profiles, feePolicy, oracle, publisher, hub, logger)
	addressService := services.NewAddressService(txRunner, addresses, logger)
	adminService := services.NewAdminService(txRunner, admins, audit, wallets, ledger, transactions, profiles, settings, addresses, publisher, hub, logger)

	pollCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	poller := prices.NewPoller(oracle, alerts, hub, address.CoinIDs(), cfg.PollInterval, logger)
	go poller.Run(pollCtx)

	handler := handlers.New(database, cfg, wallets, transactions, alerts, settings, audit, admins, service, addressService, adminService, oracle, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("wallet API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	stopPoller()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("shutdown error")
	}
}
