package marketstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the market store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

// FindOrCreateCoin looks up a coin by uppercased symbol and creates it
// on first reference. A newly created coin defaults its name to the
// symbol and its price to zero.
func (s *pgStore) FindOrCreateCoin(ctx context.Context, symbol string) (*market.Coin, bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, false, fmt.Errorf("coin symbol is empty")
	}

	dao := new(CoinDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("symbol = ?", symbol).
		Scan(ctx)
	if err == nil {
		return toCoin(dao), false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to look up coin %s: %w", symbol, err)
	}

	dao = &CoinDao{
		Symbol: symbol,
		Name:   symbol,
	}
	_, err = s.db.NewInsert().
		Model(dao).
		On("CONFLICT (symbol) DO UPDATE").
		Set("updated_at = NOW()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create coin %s: %w", symbol, err)
	}
	return toCoin(dao), true, nil
}

// UpsertDailyMetric finds the metric for (coinID, date) and updates it
// in place, or creates a new row. The schema-level unique index closes
// the race between the find and the write.
func (s *pgStore) UpsertDailyMetric(ctx context.Context, coinID int64, date string, payload MetricUpsert) (UpsertResult, error) {
	var result UpsertResult

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(DailyMetricDao)
		err := tx.NewSelect().
			Model(existing).
			Where("coin_id = ? AND date = ?", coinID, date).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to look up daily metric: %w", err)
		}

		dao := &DailyMetricDao{
			CoinID:         coinID,
			Date:           date,
			OTCIndex:       payload.OTCIndex,
			ExplosionIndex: payload.ExplosionIndex,
			SchellingPoint: payload.SchellingPoint,
			EntryExitType:  payload.EntryExitType,
			EntryExitDay:   payload.EntryExitDay,
			NearThreshold:  payload.NearThreshold,
		}
		if dao.EntryExitType == "" {
			dao.EntryExitType = market.EntryExitNeutral
		}

		if errors.Is(err, sql.ErrNoRows) {
			_, err = tx.NewInsert().
				Model(dao).
				On("CONFLICT (coin_id, date) DO UPDATE").
				Set("otc_index = EXCLUDED.otc_index").
				Set("explosion_index = EXCLUDED.explosion_index").
				Set("schelling_point = EXCLUDED.schelling_point").
				Set("entry_exit_type = EXCLUDED.entry_exit_type").
				Set("entry_exit_day = EXCLUDED.entry_exit_day").
				Set("near_threshold = EXCLUDED.near_threshold").
				Set("updated_at = NOW()").
				Returning("id").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create daily metric: %w", err)
			}
			result = UpsertResult{ID: dao.ID, Created: true}
			return nil
		}

		dao.ID = existing.ID
		_, err = tx.NewUpdate().
			Model(dao).
			Column("otc_index", "explosion_index", "schelling_point",
				"entry_exit_type", "entry_exit_day", "near_threshold").
			Set("updated_at = NOW()").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update daily metric: %w", err)
		}
		result = UpsertResult{ID: existing.ID, Created: false}
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}
	return result, nil
}

// UpsertLiquidity find-or-creates the overview row for the date and
// overwrites its fields unconditionally (last write wins).
func (s *pgStore) UpsertLiquidity(ctx context.Context, overview *market.LiquidityOverview) (bool, error) {
	var created bool

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*LiquidityOverviewDao)(nil)).
			Where("date = ?", overview.Date).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check liquidity overview: %w", err)
		}
		created = !exists

		dao := &LiquidityOverviewDao{
			Date:                  overview.Date,
			BTCFundChange:         overview.BTCFundChange,
			ETHFundChange:         overview.ETHFundChange,
			SOLFundChange:         overview.SOLFundChange,
			TotalMarketFundChange: overview.TotalMarketFundChange,
		}
		if overview.Comments != "" {
			dao.Comments = &overview.Comments
		}

		_, err = tx.NewInsert().
			Model(dao).
			On("CONFLICT (date) DO UPDATE").
			Set("btc_fund_change = EXCLUDED.btc_fund_change").
			Set("eth_fund_change = EXCLUDED.eth_fund_change").
			Set("sol_fund_change = EXCLUDED.sol_fund_change").
			Set("total_market_fund_change = EXCLUDED.total_market_fund_change").
			Set("comments = EXCLUDED.comments").
			Set("updated_at = NOW()").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert liquidity overview: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// UpsertTrendingCoin find-or-creates by (date, symbol) with the same
// last-write-wins policy as liquidity.
func (s *pgStore) UpsertTrendingCoin(ctx context.Context, trending *market.TrendingCoin) (bool, error) {
	symbol := strings.ToUpper(strings.TrimSpace(trending.Symbol))
	if symbol == "" {
		return false, fmt.Errorf("trending coin symbol is empty")
	}

	var created bool
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*TrendingCoinDao)(nil)).
			Where("date = ? AND symbol = ?", trending.Date, symbol).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check trending coin: %w", err)
		}
		created = !exists

		dao := &TrendingCoinDao{
			Date:           trending.Date,
			Symbol:         symbol,
			OTCIndex:       trending.OTCIndex,
			ExplosionIndex: trending.ExplosionIndex,
			EntryExitType:  trending.EntryExitType,
			EntryExitDay:   trending.EntryExitDay,
			SchellingPoint: trending.SchellingPoint,
		}
		if dao.EntryExitType == "" {
			dao.EntryExitType = market.EntryExitNeutral
		}

		_, err = tx.NewInsert().
			Model(dao).
			On("CONFLICT (date, symbol) DO UPDATE").
			Set("otc_index = EXCLUDED.otc_index").
			Set("explosion_index = EXCLUDED.explosion_index").
			Set("entry_exit_type = EXCLUDED.entry_exit_type").
			Set("entry_exit_day = EXCLUDED.entry_exit_day").
			Set("schelling_point = EXCLUDED.schelling_point").
			Set("updated_at = NOW()").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert trending coin: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// LatestMetricDate returns the maximum date present across daily
// metrics, or ErrNotFound when no metrics exist yet.
func (s *pgStore) LatestMetricDate(ctx context.Context) (string, error) {
	var date sql.NullString
	err := s.db.NewSelect().
		Model((*DailyMetricDao)(nil)).
		ColumnExpr("MAX(date)").
		Scan(ctx, &date)
	if err != nil {
		return "", fmt.Errorf("failed to get latest metric date: %w", err)
	}
	if !date.Valid || date.String == "" {
		return "", ErrNotFound
	}
	return date.String, nil
}

// MetricsByDate loads all metrics for a date joined with their coins.
func (s *pgStore) MetricsByDate(ctx context.Context, date string) ([]*market.DailyMetric, error) {
	var daos []DailyMetricDao
	err := s.db.NewSelect().
		Model(&daos).
		Relation("Coin").
		Where("dm.date = ?", date).
		Order("dm.coin_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics for %s: %w", date, err)
	}
	metrics := make([]*market.DailyMetric, len(daos))
	for i := range daos {
		metrics[i] = toDailyMetric(&daos[i])
	}
	return metrics, nil
}

// MetricsMapByDate loads the metrics for a date keyed by coin id. No
// coin join is performed; the caller only needs index values.
func (s *pgStore) MetricsMapByDate(ctx context.Context, date string) (map[int64]*market.DailyMetric, error) {
	var daos []DailyMetricDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("date = ?", date).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to map metrics for %s: %w", date, err)
	}
	byCoin := make(map[int64]*market.DailyMetric, len(daos))
	for i := range daos {
		byCoin[daos[i].CoinID] = toDailyMetric(&daos[i])
	}
	return byCoin, nil
}

func (s *pgStore) LiquidityByDate(ctx context.Context, date string) (*market.LiquidityOverview, error) {
	dao := new(LiquidityOverviewDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("date = ?", date).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get liquidity overview for %s: %w", date, err)
	}
	return toLiquidityOverview(dao), nil
}

func (s *pgStore) TrendingByDate(ctx context.Context, date string) ([]*market.TrendingCoin, error) {
	var daos []TrendingCoinDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("date = ?", date).
		Order("otc_index DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trending coins for %s: %w", date, err)
	}
	trending := make([]*market.TrendingCoin, len(daos))
	for i := range daos {
		trending[i] = toTrendingCoin(&daos[i])
	}
	return trending, nil
}

func (s *pgStore) ListCoins(ctx context.Context) ([]*market.Coin, error) {
	var daos []CoinDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("symbol ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coins: %w", err)
	}
	coins := make([]*market.Coin, len(daos))
	for i := range daos {
		coins[i] = toCoin(&daos[i])
	}
	return coins, nil
}

func (s *pgStore) CoinBySymbol(ctx context.Context, symbol string) (*market.Coin, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	dao := new(CoinDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("symbol = ?", symbol).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coin %s: %w", symbol, err)
	}
	return toCoin(dao), nil
}

func (s *pgStore) MetricsForCoin(ctx context.Context, coinID int64, limit int) ([]*market.DailyMetric, error) {
	if limit <= 0 {
		limit = 30
	}
	var daos []DailyMetricDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("coin_id = ?", coinID).
		Order("date DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics for coin %d: %w", coinID, err)
	}
	metrics := make([]*market.DailyMetric, len(daos))
	for i := range daos {
		metrics[i] = toDailyMetric(&daos[i])
	}
	return metrics, nil
}

// DeleteCoin removes a coin and its metrics. Only the explicit admin
// route reaches this; ingestion never deletes.
func (s *pgStore) DeleteCoin(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		dao := new(CoinDao)
		err := tx.NewSelect().
			Model(dao).
			Where("symbol = ?", symbol).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get coin %s: %w", symbol, err)
		}

		_, err = tx.NewDelete().
			Model((*DailyMetricDao)(nil)).
			Where("coin_id = ?", dao.ID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete metrics for %s: %w", symbol, err)
		}

		_, err = tx.NewDelete().
			Model((*CoinDao)(nil)).
			Where("id = ?", dao.ID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete coin %s: %w", symbol, err)
		}
		return nil
	})
}
