package address

// Format selects the cosmetic wire format a network's addresses use. No real
// keys back these addresses; only the shape matters.
type Format string

const (
	FormatHex    Format = "hex"
	FormatBase58 Format = "base58"
	FormatBech32 Format = "bech32"
)

type Network struct {
	Name         string
	Format       Format
	NativeCoinID string
	// HRP is the bech32 human-readable prefix; empty for other formats.
	HRP string
}

type Coin struct {
	ID       string
	Symbol   string
	Name     string
	Networks []Network
}

var (
	networkBitcoin  = Network{Name: "bitcoin", Format: FormatBase58, NativeCoinID: "bitcoin"}
	networkEthereum = Network{Name: "ethereum", Format: FormatHex, NativeCoinID: "ethereum"}
	networkBSC      = Network{Name: "bsc", Format: FormatHex, NativeCoinID: "binancecoin"}
	networkSolana   = Network{Name: "solana", Format: FormatBase58, NativeCoinID: "solana"}
	networkCosmos   = Network{Name: "cosmos", Format: FormatBech32, NativeCoinID: "cosmos", HRP: "cosmos"}
)

// SupportedCoins is the platform's asset catalog. Order is the provisioning
// order on first use.
var SupportedCoins = []Coin{
	{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Networks: []Network{networkBitcoin}},
	{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", Networks: []Network{networkEthereum}},
	{ID: "tether", Symbol: "USDT", Name: "Tether", Networks: []Network{networkEthereum, networkBSC}},
	{ID: "usd-coin", Symbol: "USDC", Name: "USD Coin", Networks: []Network{networkEthereum}},
	{ID: "binancecoin", Symbol: "BNB", Name: "BNB", Networks: []Network{networkBSC}},
	{ID: "solana", Symbol: "SOL", Name: "Solana", Networks: []Network{networkSolana}},
	{ID: "cosmos", Symbol: "ATOM", Name: "Cosmos Hub", Networks: []Network{networkCosmos}},
}

func CoinByID(coinID string) (Coin, bool) {
	for _, coin := range SupportedCoins {
		if coin.ID == coinID {
			return coin, true
		}
	}
	return Coin{}, false
}

func (c Coin) Network(name string) (Network, bool) {
	if name == "" {
		return c.Networks[0], true
	}
	for _, network := range c.Networks {
		if network.Name == name {
			return network, true
		}
	}
	return Network{}, false
}

func CoinIDs() []string {
	ids := make([]string, 0, len(SupportedCoins))
	for _, coin := range SupportedCoins {
		ids = append(ids, coin.ID)
	}
	return ids
}
