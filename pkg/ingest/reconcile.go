package ingest

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/internal/metrics"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/marketstore"
)

// CoinOutcome reports the persistence result for one coin entry.
type CoinOutcome struct {
	Symbol   string `json:"symbol"`
	MetricID int64  `json:"metricId"`
	Created  bool   `json:"created"`
}

// TrendingOutcome reports the persistence result for one trending entry.
type TrendingOutcome struct {
	Symbol  string `json:"symbol"`
	Created bool   `json:"created"`
}

// BatchResult summarizes one reconciled snapshot. Coins that failed
// are absent from the Coins list; their errors are logged, not
// propagated.
type BatchResult struct {
	Coins            []CoinOutcome     `json:"coins"`
	LiquidityUpdated bool              `json:"liquidityUpdated"`
	TrendingCoins    []TrendingOutcome `json:"trendingCoins"`
}

// Reconciler persists a snapshot with per-item isolation: a failure on
// one coin never aborts the rest of the batch, the liquidity section,
// or the trending section. Each upsert commits independently; a crash
// mid-batch leaves partial data, which is accepted.
type Reconciler struct {
	store  marketstore.Store
	logger *zap.Logger
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(store marketstore.Store, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// Apply writes one snapshot for the given canonical date and collects
// per-item outcomes.
func (r *Reconciler) Apply(ctx context.Context, date string, snapshot *market.Snapshot) *BatchResult {
	result := &BatchResult{
		Coins:         make([]CoinOutcome, 0, len(snapshot.Coins)),
		TrendingCoins: make([]TrendingOutcome, 0, len(snapshot.TrendingCoins)),
	}

	for i := range snapshot.Coins {
		outcome, err := r.applyCoin(ctx, date, &snapshot.Coins[i])
		if err != nil {
			metrics.CoinUpserts.WithLabelValues("failed").Inc()
			r.logger.Warn("skipping coin entry",
				zap.String("date", date),
				zap.String("symbol", snapshot.Coins[i].Symbol),
				zap.Error(err),
			)
			continue
		}
		if outcome.Created {
			metrics.CoinUpserts.WithLabelValues("created").Inc()
		} else {
			metrics.CoinUpserts.WithLabelValues("updated").Inc()
		}
		result.Coins = append(result.Coins, outcome)
	}

	if snapshot.Liquidity != nil {
		if err := r.applyLiquidity(ctx, date, snapshot.Liquidity); err != nil {
			r.logger.Warn("skipping liquidity overview",
				zap.String("date", date),
				zap.Error(err),
			)
		} else {
			result.LiquidityUpdated = true
		}
	}

	for i := range snapshot.TrendingCoins {
		entry := &snapshot.TrendingCoins[i]
		outcome, err := r.applyTrending(ctx, date, entry)
		if err != nil {
			r.logger.Warn("skipping trending coin",
				zap.String("date", date),
				zap.String("symbol", entry.Symbol),
				zap.Error(err),
			)
			continue
		}
		result.TrendingCoins = append(result.TrendingCoins, outcome)
	}

	return result
}

func (r *Reconciler) applyCoin(ctx context.Context, date string, entry *market.CoinEntry) (CoinOutcome, error) {
	if err := ValidateCoinEntry(entry); err != nil {
		return CoinOutcome{}, err
	}

	coin, _, err := r.store.FindOrCreateCoin(ctx, entry.Symbol)
	if err != nil {
		return CoinOutcome{}, err
	}

	upsert, err := r.store.UpsertDailyMetric(ctx, coin.ID, date, marketstore.MetricUpsert{
		OTCIndex:       entry.OTCIndex,
		ExplosionIndex: entry.ExplosionIndex,
		SchellingPoint: entry.SchellingPoint,
		EntryExitType:  entry.EntryExitType,
		EntryExitDay:   entry.EntryExitDay,
		NearThreshold:  entry.NearThreshold,
	})
	if err != nil {
		return CoinOutcome{}, err
	}

	return CoinOutcome{
		Symbol:   coin.Symbol,
		MetricID: upsert.ID,
		Created:  upsert.Created,
	}, nil
}

func (r *Reconciler) applyLiquidity(ctx context.Context, date string, entry *market.LiquidityEntry) error {
	_, err := r.store.UpsertLiquidity(ctx, &market.LiquidityOverview{
		Date:                  date,
		BTCFundChange:         entry.BTCFundChange,
		ETHFundChange:         entry.ETHFundChange,
		SOLFundChange:         entry.SOLFundChange,
		TotalMarketFundChange: entry.TotalMarketFundChange,
		Comments:              entry.Comments,
	})
	return err
}

func (r *Reconciler) applyTrending(ctx context.Context, date string, entry *market.CoinEntry) (TrendingOutcome, error) {
	symbol := strings.ToUpper(strings.TrimSpace(entry.Symbol))
	if symbol == "" {
		return TrendingOutcome{}, errors.New("trending coin symbol is required")
	}

	created, err := r.store.UpsertTrendingCoin(ctx, &market.TrendingCoin{
		Date:           date,
		Symbol:         symbol,
		OTCIndex:       entry.OTCIndex,
		ExplosionIndex: entry.ExplosionIndex,
		EntryExitType:  entry.EntryExitType,
		EntryExitDay:   entry.EntryExitDay,
		SchellingPoint: entry.SchellingPoint,
	})
	if err != nil {
		return TrendingOutcome{}, err
	}

	return TrendingOutcome{Symbol: symbol, Created: created}, nil
}
