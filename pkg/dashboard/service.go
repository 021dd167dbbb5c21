package dashboard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/errors"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/marketstore"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DefaultHistoryDays bounds a coin-history query when the client does
// not ask for a specific window.
const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

// DayView is one day's dashboard payload: enriched per-coin metrics
// plus the day's liquidity overview and trending coins.
type DayView struct {
	Date          string                    `json:"date"`
	Metrics       []*EnrichedMetric         `json:"metrics"`
	Liquidity     *market.LiquidityOverview `json:"liquidity_overview"`
	TrendingCoins []*market.TrendingCoin    `json:"trending_coins"`
}

// CoinHistory is a single coin's recent metric rows, newest first.
type CoinHistory struct {
	Coin    *market.Coin          `json:"coin"`
	Metrics []*market.DailyMetric `json:"metrics"`
}

// Service assembles dashboard read views over the market store.
type Service struct {
	store  marketstore.Store
	logger *zap.Logger
}

func NewService(store marketstore.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Latest returns the view for the most recent date that has any metric
// row. Returns a not-found error when the store is empty.
func (s *Service) Latest(ctx context.Context) (*DayView, error) {
	date, err := s.store.LatestMetricDate(ctx)
	if err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "no metrics recorded yet")
		}
		return nil, apperrors.GeneralError(err)
	}
	return s.viewForDate(ctx, date)
}

// ByDate returns the view for one canonical YYYY-MM-DD date. A day
// with no data yields an empty view rather than an error, so the UI
// can render gaps.
func (s *Service) ByDate(ctx context.Context, date string) (*DayView, error) {
	if !dateRe.MatchString(date) {
		return nil, apperrors.BadRequestError(nil, "date must be YYYY-MM-DD")
	}
	return s.viewForDate(ctx, date)
}

func (s *Service) viewForDate(ctx context.Context, date string) (*DayView, error) {
	metrics, err := s.store.MetricsByDate(ctx, date)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}

	prevDate, err := PreviousCalendarDay(date)
	if err != nil {
		return nil, apperrors.BadRequestError(err, "date must be YYYY-MM-DD")
	}
	previous, err := s.store.MetricsMapByDate(ctx, prevDate)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}

	view := &DayView{
		Date:    date,
		Metrics: Enrich(metrics, previous),
	}

	liquidity, err := s.store.LiquidityByDate(ctx, date)
	if err != nil && !errors.Is(err, marketstore.ErrNotFound) {
		return nil, apperrors.GeneralError(err)
	}
	view.Liquidity = liquidity

	trending, err := s.store.TrendingByDate(ctx, date)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	view.TrendingCoins = trending

	return view, nil
}

// CoinHistory returns up to days recent metric rows for one coin,
// newest first. Unknown symbols are a not-found error.
func (s *Service) CoinHistory(ctx context.Context, symbol string, days int) (*CoinHistory, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.BadRequestError(nil, "coin symbol is required")
	}
	if days <= 0 {
		days = DefaultHistoryDays
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}

	coin, err := s.store.CoinBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, fmt.Sprintf("coin %s not found", symbol))
		}
		return nil, apperrors.GeneralError(err)
	}

	metrics, err := s.store.MetricsForCoin(ctx, coin.ID, days)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return &CoinHistory{Coin: coin, Metrics: metrics}, nil
}

// ListCoins returns every tracked coin ordered by symbol.
func (s *Service) ListCoins(ctx context.Context) ([]*market.Coin, error) {
	coins, err := s.store.ListCoins(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return coins, nil
}

// DeleteCoin removes a coin and all of its metric rows.
func (s *Service) DeleteCoin(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return apperrors.BadRequestError(nil, "coin symbol is required")
	}
	if err := s.store.DeleteCoin(ctx, symbol); err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			return apperrors.ResourceNotFoundError(err, fmt.Sprintf("coin %s not found", symbol))
		}
		return apperrors.GeneralError(err)
	}
	s.logger.Info("coin deleted", zap.String("symbol", symbol))
	return nil
}
