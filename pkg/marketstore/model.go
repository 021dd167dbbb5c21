package marketstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
)

// CoinDao is a data access object that maps directly to the 'coins' table in PostgreSQL.
type CoinDao struct {
	bun.BaseModel `bun:"table:coins,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Symbol        string    `bun:"symbol,unique,notnull,type:varchar(20)"`
	Name          string    `bun:"name,notnull,type:varchar(100)"`
	CurrentPrice  float64   `bun:"current_price,notnull,default:0"`
	LogoURL       *string   `bun:"logo_url,type:varchar(500)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// DailyMetricDao maps to the 'daily_metrics' table. The (coin_id, date)
// pair is unique at the schema level; the upsert path relies on it as a
// backstop for the find-then-write logic.
type DailyMetricDao struct {
	bun.BaseModel  `bun:"table:daily_metrics,alias:dm"`
	ID             int64     `bun:"id,pk,autoincrement"`
	CoinID         int64     `bun:"coin_id,notnull"`
	Date           string    `bun:"date,notnull,type:varchar(10)"`
	OTCIndex       float64   `bun:"otc_index,notnull,default:0"`
	ExplosionIndex float64   `bun:"explosion_index,notnull,default:0"`
	SchellingPoint float64   `bun:"schelling_point,notnull,default:0"`
	EntryExitType  string    `bun:"entry_exit_type,notnull,default:'neutral',type:varchar(10)"`
	EntryExitDay   int       `bun:"entry_exit_day,notnull,default:0"`
	NearThreshold  bool      `bun:"near_threshold,notnull,default:false"`
	CreatedAt      time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,default:current_timestamp"`

	Coin *CoinDao `bun:"rel:belongs-to,join:coin_id=id"`
}

// LiquidityOverviewDao maps to the 'liquidity_overviews' table, one row per date.
type LiquidityOverviewDao struct {
	bun.BaseModel         `bun:"table:liquidity_overviews,alias:lo"`
	ID                    int64     `bun:"id,pk,autoincrement"`
	Date                  string    `bun:"date,unique,notnull,type:varchar(10)"`
	BTCFundChange         float64   `bun:"btc_fund_change,notnull,default:0"`
	ETHFundChange         float64   `bun:"eth_fund_change,notnull,default:0"`
	SOLFundChange         float64   `bun:"sol_fund_change,notnull,default:0"`
	TotalMarketFundChange float64   `bun:"total_market_fund_change,notnull,default:0"`
	Comments              *string   `bun:"comments,type:text"`
	UpdatedAt             time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// TrendingCoinDao maps to the 'trending_coins' table, unique per (date, symbol).
type TrendingCoinDao struct {
	bun.BaseModel  `bun:"table:trending_coins,alias:tc"`
	ID             int64     `bun:"id,pk,autoincrement"`
	Date           string    `bun:"date,notnull,type:varchar(10)"`
	Symbol         string    `bun:"symbol,notnull,type:varchar(20)"`
	OTCIndex       float64   `bun:"otc_index,notnull,default:0"`
	ExplosionIndex float64   `bun:"explosion_index,notnull,default:0"`
	EntryExitType  string    `bun:"entry_exit_type,notnull,default:'neutral',type:varchar(10)"`
	EntryExitDay   int       `bun:"entry_exit_day,notnull,default:0"`
	SchellingPoint float64   `bun:"schelling_point,notnull,default:0"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

func toCoin(dao *CoinDao) *market.Coin {
	coin := &market.Coin{
		ID:           dao.ID,
		Symbol:       dao.Symbol,
		Name:         dao.Name,
		CurrentPrice: dao.CurrentPrice,
	}
	if dao.LogoURL != nil {
		coin.LogoURL = *dao.LogoURL
	}
	return coin
}

func toDailyMetric(dao *DailyMetricDao) *market.DailyMetric {
	metric := &market.DailyMetric{
		ID:             dao.ID,
		CoinID:         dao.CoinID,
		Date:           dao.Date,
		OTCIndex:       dao.OTCIndex,
		ExplosionIndex: dao.ExplosionIndex,
		SchellingPoint: dao.SchellingPoint,
		EntryExitType:  dao.EntryExitType,
		EntryExitDay:   dao.EntryExitDay,
		NearThreshold:  dao.NearThreshold,
	}
	if dao.Coin != nil {
		metric.Coin = toCoin(dao.Coin)
	}
	return metric
}

func toLiquidityOverview(dao *LiquidityOverviewDao) *market.LiquidityOverview {
	overview := &market.LiquidityOverview{
		ID:                    dao.ID,
		Date:                  dao.Date,
		BTCFundChange:         dao.BTCFundChange,
		ETHFundChange:         dao.ETHFundChange,
		SOLFundChange:         dao.SOLFundChange,
		TotalMarketFundChange: dao.TotalMarketFundChange,
	}
	if dao.Comments != nil {
		overview.Comments = *dao.Comments
	}
	return overview
}

func toTrendingCoin(dao *TrendingCoinDao) *market.TrendingCoin {
	return &market.TrendingCoin{
		ID:             dao.ID,
		Date:           dao.Date,
		Symbol:         dao.Symbol,
		OTCIndex:       dao.OTCIndex,
		ExplosionIndex: dao.ExplosionIndex,
		EntryExitType:  dao.EntryExitType,
		EntryExitDay:   dao.EntryExitDay,
		SchellingPoint: dao.SchellingPoint,
	}
}
