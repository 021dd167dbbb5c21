// Package market holds the domain model for daily crypto-market metrics.
package market

// Entry/exit regime labels for a coin's daily metric.
const (
	EntryExitEntry   = "entry"
	EntryExitExit    = "exit"
	EntryExitNeutral = "neutral"
)

// Coin represents a tracked coin. Coins are created on first reference
// by symbol during ingestion and only removed through the admin delete
// route.
type Coin struct {
	ID           int64   `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	LogoURL      string  `json:"logo_url,omitempty"`
}

// DailyMetric holds one coin's indicators for one calendar day.
// At most one row exists per (coin, date).
type DailyMetric struct {
	ID             int64   `json:"id"`
	CoinID         int64   `json:"coin_id"`
	Date           string  `json:"date"` // YYYY-MM-DD
	OTCIndex       float64 `json:"otc_index"`
	ExplosionIndex float64 `json:"explosion_index"`
	SchellingPoint float64 `json:"schelling_point"`
	EntryExitType  string  `json:"entry_exit_type"`
	EntryExitDay   int     `json:"entry_exit_day"`
	NearThreshold  bool    `json:"near_threshold"`
	Coin           *Coin   `json:"coin,omitempty"`
}

// LiquidityOverview holds one day's market-wide fund flows.
// Fund change units are hundred-million currency.
type LiquidityOverview struct {
	ID                    int64   `json:"id"`
	Date                  string  `json:"date"`
	BTCFundChange         float64 `json:"btc_fund_change"`
	ETHFundChange         float64 `json:"eth_fund_change"`
	SOLFundChange         float64 `json:"sol_fund_change"`
	TotalMarketFundChange float64 `json:"total_market_fund_change"`
	Comments              string  `json:"comments,omitempty"`
}

// TrendingCoin is a denormalized "hot coin" snapshot for a day, kept
// separate from DailyMetric and unique per (date, symbol).
type TrendingCoin struct {
	ID             int64   `json:"id"`
	Date           string  `json:"date"`
	Symbol         string  `json:"symbol"`
	OTCIndex       float64 `json:"otc_index"`
	ExplosionIndex float64 `json:"explosion_index"`
	EntryExitType  string  `json:"entry_exit_type"`
	EntryExitDay   int     `json:"entry_exit_day"`
	SchellingPoint float64 `json:"schelling_point"`
}
