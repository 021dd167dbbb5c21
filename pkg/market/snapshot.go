package market

// Snapshot is the structured candidate produced by the text extractor
// for one day's raw notes. Any service that can turn free-form text
// into this shape satisfies the extractor contract.
type Snapshot struct {
	Date          string          `json:"date,omitempty" description:"Trading date in YYYY-MM-DD format"`
	Coins         []CoinEntry     `json:"coins" validate:"required,dive" description:"Per-coin daily metrics"`
	Liquidity     *LiquidityEntry `json:"liquidity,omitempty" description:"Market-wide fund flow summary"`
	TrendingCoins []CoinEntry     `json:"trendingCoins,omitempty" description:"Hot coins ranked for the day"`
}

// CoinEntry carries one coin's extracted metrics. Only the symbol is
// required; field errors surface per item during reconciliation and do
// not abort the batch.
type CoinEntry struct {
	Symbol         string  `json:"symbol" description:"Coin ticker symbol, e.g. BTC"`
	OTCIndex       float64 `json:"otcIndex" description:"Over-the-counter trading activity score"`
	ExplosionIndex float64 `json:"explosionIndex" description:"Volatility/risk score; below 200 is a risk threshold"`
	SchellingPoint float64 `json:"schellingPoint" description:"Consensus price level"`
	EntryExitType  string  `json:"entryExitType" validate:"omitempty,oneof=entry exit neutral" description:"Regime label: entry, exit or neutral"`
	EntryExitDay   int     `json:"entryExitDay" validate:"omitempty,min=0" description:"Days since regime start"`
	NearThreshold  bool    `json:"nearThreshold" description:"True when the coin is close to a risk boundary"`
}

// LiquidityEntry carries extracted market-wide fund changes in
// hundred-million currency units.
type LiquidityEntry struct {
	BTCFundChange         float64 `json:"btcFundChange"`
	ETHFundChange         float64 `json:"ethFundChange"`
	SOLFundChange         float64 `json:"solFundChange"`
	TotalMarketFundChange float64 `json:"totalMarketFundChange"`
	Comments              string  `json:"comments,omitempty"`
}
