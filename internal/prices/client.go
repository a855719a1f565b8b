package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Client reads market data from a CoinGecko-shaped HTTP API through a
// read-through cache. Ledger operations never write through it; a stale or
// unavailable feed surfaces as an error to the caller, not a mutation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
	logger     *logrus.Logger
}

const (
	fetchRetries = 2
	retryBackoff = 500 * time.Millisecond
)

func NewClient(baseURL string, cache Cache, ttl time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

func (c *Client) GetPrices(ctx context.Context, coinIDs []string) ([]CoinPrice, error) {
	if len(coinIDs) == 0 {
		return nil, nil
	}
	key := "markets:" + strings.Join(coinIDs, ",")
	var cached []CoinPrice
	if ok := c.fromCache(ctx, key, &cached); ok {
		return cached, nil
	}
	endpoint := fmt.Sprintf("%s/coins/markets?vs_currency=usd&sparkline=true&ids=%s",
		c.baseURL, url.QueryEscape(strings.Join(coinIDs, ",")))
	var out []CoinPrice
	if err := c.fetchJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	c.toCache(ctx, key, out)
	return out, nil
}

// PriceUsd resolves a single coin's spot price.
func (c *Client) PriceUsd(ctx context.Context, coinID string) (decimal.Decimal, error) {
	priced, err := c.GetPrices(ctx, []string{coinID})
	if err != nil {
		return decimal.Zero, err
	}
	for _, price := range priced {
		if price.ID == coinID {
			return price.CurrentPriceUsd, nil
		}
	}
	return decimal.Zero, fmt.Errorf("no price for coin %q", coinID)
}

func (c *Client) GetMarketChart(ctx context.Context, coinID string, days int) ([]ChartPoint, error) {
	key := fmt.Sprintf("chart:%s:%d", coinID, days)
	var cached []ChartPoint
	if ok := c.fromCache(ctx, key, &cached); ok {
		return cached, nil
	}
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d", c.baseURL, url.PathEscape(coinID), days)
	var raw struct {
		Prices []ChartPoint `json:"prices"`
	}
	if err := c.fetchJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	c.toCache(ctx, key, raw.Prices)
	return raw.Prices, nil
}

func (c *Client) GetCoinDetail(ctx context.Context, coinID string) (CoinDetail, error) {
	key := "detail:" + coinID
	var cached CoinDetail
	if ok := c.fromCache(ctx, key, &cached); ok {
		return cached, nil
	}
	endpoint := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&community_data=false&developer_data=false", c.baseURL, url.PathEscape(coinID))
	var raw struct {
		ID         string `json:"id"`
		Symbol     string `json:"symbol"`
		Name       string `json:"name"`
		MarketData struct {
			CurrentPrice      map[string]decimal.Decimal `json:"current_price"`
			MarketCap         map[string]decimal.Decimal `json:"market_cap"`
			TotalVolume       map[string]decimal.Decimal `json:"total_volume"`
			High24h           map[string]decimal.Decimal `json:"high_24h"`
			Low24h            map[string]decimal.Decimal `json:"low_24h"`
			PriceChange24h    decimal.Decimal            `json:"price_change_percentage_24h"`
			CirculatingSupply decimal.Decimal            `json:"circulating_supply"`
		} `json:"market_data"`
	}
	if err := c.fetchJSON(ctx, endpoint, &raw); err != nil {
		return CoinDetail{}, err
	}
	detail := CoinDetail{
		ID:                raw.ID,
		Symbol:            raw.Symbol,
		Name:              raw.Name,
		PriceUsd:          raw.MarketData.CurrentPrice["usd"],
		MarketCapUsd:      raw.MarketData.MarketCap["usd"],
		Volume24hUsd:      raw.MarketData.TotalVolume["usd"],
		High24hUsd:        raw.MarketData.High24h["usd"],
		Low24hUsd:         raw.MarketData.Low24h["usd"],
		Change24h:         raw.MarketData.PriceChange24h,
		CirculatingSupply: raw.MarketData.CirculatingSupply,
	}
	c.toCache(ctx, key, detail)
	return detail, nil
}

func (c *Client) GetMarketsPage(ctx context.Context, page, perPage int) ([]CoinPrice, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 250 {
		perPage = 50
	}
	key := fmt.Sprintf("page:%d:%d", page, perPage)
	var cached []CoinPrice
	if ok := c.fromCache(ctx, key, &cached); ok {
		return cached, nil
	}
	endpoint := fmt.Sprintf("%s/coins/markets?vs_currency=usd&order=market_cap_desc&sparkline=true&page=%d&per_page=%d",
		c.baseURL, page, perPage)
	var out []CoinPrice
	if err := c.fetchJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	c.toCache(ctx, key, out)
	return out, nil
}

// fetchJSON performs the request with two retries on fixed backoff before
// giving up.
func (c *Client) fetchJSON(ctx context.Context, endpoint string, dest any) error {
	var lastErr error
	for attempt := 0; attempt <= fetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff):
			}
			c.logger.WithFields(logrus.Fields{"attempt": attempt, "endpoint": endpoint}).Warn("retrying price fetch")
		}
		if err := c.fetchOnce(ctx, endpoint, dest); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("price api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) fromCache(ctx context.Context, key string, dest any) bool {
	if c.cache == nil {
		return false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if err != ErrCacheMiss {
			c.logger.WithError(err).Warn("price cache read failed")
		}
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (c *Client) toCache(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
		c.logger.WithError(err).Warn("price cache write failed")
	}
}
