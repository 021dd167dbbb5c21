package marketstore

import (
	"context"
	"errors"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
)

// ErrNotFound is returned when a lookup finds no matching record.
var ErrNotFound = errors.New("record not found")

// MetricUpsert is the payload for a daily-metric find-or-create.
type MetricUpsert struct {
	OTCIndex       float64
	ExplosionIndex float64
	SchellingPoint float64
	EntryExitType  string
	EntryExitDay   int
	NearThreshold  bool
}

// UpsertResult reports the outcome of a single find-or-create.
type UpsertResult struct {
	ID      int64
	Created bool
}

// Store defines persistence for coins, daily metrics, liquidity
// overviews and trending coins.
type Store interface {
	// Write path (ingestion)
	FindOrCreateCoin(ctx context.Context, symbol string) (*market.Coin, bool, error)
	UpsertDailyMetric(ctx context.Context, coinID int64, date string, payload MetricUpsert) (UpsertResult, error)
	UpsertLiquidity(ctx context.Context, overview *market.LiquidityOverview) (bool, error)
	UpsertTrendingCoin(ctx context.Context, trending *market.TrendingCoin) (bool, error)

	// Read path (dashboard)
	LatestMetricDate(ctx context.Context) (string, error)
	MetricsByDate(ctx context.Context, date string) ([]*market.DailyMetric, error)
	MetricsMapByDate(ctx context.Context, date string) (map[int64]*market.DailyMetric, error)
	LiquidityByDate(ctx context.Context, date string) (*market.LiquidityOverview, error)
	TrendingByDate(ctx context.Context, date string) ([]*market.TrendingCoin, error)

	// Coin management
	ListCoins(ctx context.Context) ([]*market.Coin, error)
	CoinBySymbol(ctx context.Context, symbol string) (*market.Coin, error)
	MetricsForCoin(ctx context.Context, coinID int64, limit int) ([]*market.DailyMetric, error)
	DeleteCoin(ctx context.Context, symbol string) error
}
