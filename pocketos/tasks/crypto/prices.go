package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
)

// URL asks CoinGecko for USD prices and 24 h change of the tracked coins.
const URL = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin,ethereum,solana&vs_currencies=usd&include_24hr_change=true"

var ErrParse = errors.New("crypto: bad response")

// Coin is one tracked asset.
type Coin struct {
	ID     string // CoinGecko id
	Symbol string
	// Decimals is how many fractional digits the price is shown with.
	Decimals int
}

var Coins = [...]Coin{
	{ID: "bitcoin", Symbol: "BTC"},
	{ID: "ethereum", Symbol: "ETH"},
	{ID: "solana", Symbol: "SOL", Decimals: 1},
}

// Quote is a price and its 24 h change in percent.
type Quote struct {
	USD    float64
	Change float64
}

// Parse returns one quote per entry of Coins. Coins missing from the
// response read as zero.
func Parse(body []byte) ([len(Coins)]Quote, error) {
	var out [len(Coins)]Quote
	var doc map[string]struct {
		USD    float64 `json:"usd"`
		Change float64 `json:"usd_24h_change"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return out, fmt.Errorf("%w: %v", ErrParse, err)
	}
	for i, c := range Coins {
		p := doc[c.ID]
		out[i] = Quote{USD: p.USD, Change: p.Change}
	}
	return out, nil
}

// Line formats a quote like "BTC $64210 +1.3%".
func Line(c Coin, q Quote) string {
	return fmt.Sprintf("%s $%.*f %+.1f%%", c.Symbol, c.Decimals, q.USD, q.Change)
}
