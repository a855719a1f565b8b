package prices

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"walletd/internal/store"
)

type AlertStore interface {
	ListActive(ctx context.Context) ([]store.PriceAlert, error)
	MarkTriggered(ctx context.Context, alertID string) error
}

type AlertNotifier interface {
	BroadcastAlert(userID string, update AlertUpdate)
}

type AlertUpdate struct {
	AlertID     string `json:"alert_id"`
	CoinID      string `json:"coin_id"`
	Symbol      string `json:"symbol"`
	TargetPrice string `json:"target_price"`
	Direction   string `json:"direction"`
	PriceUsd    string `json:"price_usd"`
}

// Poller refreshes the tracked coin set on a fixed interval, independent of
// ledger mutations, and fires price alerts as they cross their targets.
type Poller struct {
	client   *Client
	alerts   AlertStore
	notifier AlertNotifier
	coinIDs  []string
	interval time.Duration
	logger   *logrus.Logger
}

func NewPoller(client *Client, alerts AlertStore, notifier AlertNotifier, coinIDs []string, interval time.Duration, logger *logrus.Logger) *Poller {
	return &Poller{
		client:   client,
		alerts:   alerts,
		notifier: notifier,
		coinIDs:  coinIDs,
		interval: interval,
		logger:   logger,
	}
}

func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("price poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	priced, err := p.client.GetPrices(ctx, p.coinIDs)
	if err != nil {
		p.logger.WithError(err).Warn("price refresh failed")
		return
	}
	byID := make(map[string]decimal.Decimal, len(priced))
	for _, price := range priced {
		byID[price.ID] = price.CurrentPriceUsd
	}
	p.evaluateAlerts(ctx, byID)
}

func (p *Poller) evaluateAlerts(ctx context.Context, pricesByID map[string]decimal.Decimal) {
	if p.alerts == nil {
		return
	}
	active, err := p.alerts.ListActive(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("price alert listing failed")
		return
	}
	for _, alert := range active {
		price, ok := pricesByID[alert.CoinID]
		if !ok {
			continue
		}
		crossed := false
		switch alert.Direction {
		case "above":
			crossed = price.GreaterThanOrEqual(alert.TargetPrice)
		case "below":
			crossed = price.LessThanOrEqual(alert.TargetPrice)
		}
		if !crossed {
			continue
		}
		if err := p.alerts.MarkTriggered(ctx, alert.ID); err != nil {
			p.logger.WithError(err).WithField("alert_id", alert.ID).Warn("marking alert failed")
			continue
		}
		if p.notifier != nil {
			p.notifier.BroadcastAlert(alert.UserID, AlertUpdate{
				AlertID:     alert.ID,
				CoinID:      alert.CoinID,
				Symbol:      alert.Symbol,
				TargetPrice: alert.TargetPrice.String(),
				Direction:   alert.Direction,
				PriceUsd:    price.String(),
			})
		}
	}
}
