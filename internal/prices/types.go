package prices

import "github.com/shopspring/decimal"

type CoinPrice struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	CurrentPriceUsd decimal.Decimal `json:"current_price"`
	Change24h       decimal.Decimal `json:"price_change_percentage_24h"`
	Sparkline7d     Sparkline       `json:"sparkline_in_7d"`
}

type Sparkline struct {
	Price []float64 `json:"price"`
}

type CoinDetail struct {
	ID                string          `json:"id"`
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	PriceUsd          decimal.Decimal `json:"price_usd"`
	MarketCapUsd      decimal.Decimal `json:"market_cap_usd"`
	Volume24hUsd      decimal.Decimal `json:"volume_24h_usd"`
	High24hUsd        decimal.Decimal `json:"high_24h_usd"`
	Low24hUsd         decimal.Decimal `json:"low_24h_usd"`
	Change24h         decimal.Decimal `json:"change_24h"`
	CirculatingSupply decimal.Decimal `json:"circulating_supply"`
}

// ChartPoint is [unix millis, price].
type ChartPoint [2]float64
