package marketstore

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/pgutil"
	mghelper "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/pgutil/migrations"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &CoinDao{}, &DailyMetricDao{}, &LiquidityOverviewDao{}, &TrendingCoinDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := mghelper.CreateCompositeUniqueIndex(ctx, db, "daily_metrics", "coin_id", "date"); err != nil {
		t.Fatalf("failed to create daily_metrics index: %v", err)
	}
	if err := mghelper.CreateCompositeUniqueIndex(ctx, db, "trending_coins", "date", "symbol"); err != nil {
		t.Fatalf("failed to create trending_coins index: %v", err)
	}

	return ctx, NewStore(db)
}

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed marketstore tests")
}

func TestFindOrCreateCoin(t *testing.T) {
	ctx, store := setupStore(t)

	coin, created, err := store.FindOrCreateCoin(ctx, "btc")
	if err != nil {
		t.Fatalf("failed to create coin: %v", err)
	}
	if !created {
		t.Fatal("expected first reference to create the coin")
	}
	if coin.Symbol != "BTC" {
		t.Fatalf("expected uppercased symbol BTC, got %s", coin.Symbol)
	}
	if coin.Name != "BTC" {
		t.Fatalf("expected name to default to symbol, got %s", coin.Name)
	}
	if coin.ID == 0 {
		t.Fatal("expected coin to be assigned an id")
	}

	again, created, err := store.FindOrCreateCoin(ctx, " BTC ")
	if err != nil {
		t.Fatalf("failed to find coin: %v", err)
	}
	if created {
		t.Fatal("expected second reference to find the existing coin")
	}
	if again.ID != coin.ID {
		t.Fatalf("expected same coin id %d, got %d", coin.ID, again.ID)
	}

	if _, _, err := store.FindOrCreateCoin(ctx, "  "); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}

func TestUpsertDailyMetric(t *testing.T) {
	ctx, store := setupStore(t)

	coin, _, err := store.FindOrCreateCoin(ctx, "BTC")
	if err != nil {
		t.Fatalf("failed to create coin: %v", err)
	}

	first, err := store.UpsertDailyMetric(ctx, coin.ID, "2025-05-09", MetricUpsert{
		OTCIndex:       1627,
		ExplosionIndex: 195,
		EntryExitType:  market.EntryExitEntry,
		EntryExitDay:   3,
	})
	if err != nil {
		t.Fatalf("failed to create daily metric: %v", err)
	}
	if !first.Created {
		t.Fatal("expected first upsert to create")
	}

	second, err := store.UpsertDailyMetric(ctx, coin.ID, "2025-05-09", MetricUpsert{
		OTCIndex:       1700,
		ExplosionIndex: 200,
	})
	if err != nil {
		t.Fatalf("failed to update daily metric: %v", err)
	}
	if second.Created {
		t.Fatal("expected second upsert to update in place")
	}
	if second.ID != first.ID {
		t.Fatalf("expected replay to hit row %d, got %d", first.ID, second.ID)
	}

	metrics, err := store.MetricsByDate(ctx, "2025-05-09")
	if err != nil {
		t.Fatalf("failed to list metrics: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected a single row for the (coin, date) pair, got %d", len(metrics))
	}
	got := metrics[0]
	if got.OTCIndex != 1700 || got.ExplosionIndex != 200 {
		t.Fatalf("expected last write to win, got otc=%v explosion=%v", got.OTCIndex, got.ExplosionIndex)
	}
	if got.EntryExitType != market.EntryExitNeutral {
		t.Fatalf("expected omitted entry/exit type to default to neutral, got %s", got.EntryExitType)
	}
	if got.Coin == nil || got.Coin.Symbol != "BTC" {
		t.Fatal("expected metric to carry its joined coin")
	}
}

func TestUpsertLiquidity(t *testing.T) {
	ctx, store := setupStore(t)

	created, err := store.UpsertLiquidity(ctx, &market.LiquidityOverview{
		Date:          "2025-05-09",
		BTCFundChange: 12.5,
		Comments:      "steady inflow",
	})
	if err != nil {
		t.Fatalf("failed to create liquidity overview: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create")
	}

	created, err = store.UpsertLiquidity(ctx, &market.LiquidityOverview{
		Date:          "2025-05-09",
		BTCFundChange: -3.2,
	})
	if err != nil {
		t.Fatalf("failed to update liquidity overview: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to update")
	}

	overview, err := store.LiquidityByDate(ctx, "2025-05-09")
	if err != nil {
		t.Fatalf("failed to get liquidity overview: %v", err)
	}
	if overview.BTCFundChange != -3.2 {
		t.Fatalf("expected last write to win, got %v", overview.BTCFundChange)
	}

	if _, err := store.LiquidityByDate(ctx, "2025-05-10"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an empty date, got %v", err)
	}
}

func TestUpsertTrendingCoin(t *testing.T) {
	ctx, store := setupStore(t)

	created, err := store.UpsertTrendingCoin(ctx, &market.TrendingCoin{
		Date:     "2025-05-09",
		Symbol:   "sol",
		OTCIndex: 900,
	})
	if err != nil {
		t.Fatalf("failed to create trending coin: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create")
	}

	created, err = store.UpsertTrendingCoin(ctx, &market.TrendingCoin{
		Date:     "2025-05-09",
		Symbol:   "SOL",
		OTCIndex: 950,
	})
	if err != nil {
		t.Fatalf("failed to update trending coin: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to update")
	}

	trending, err := store.TrendingByDate(ctx, "2025-05-09")
	if err != nil {
		t.Fatalf("failed to list trending coins: %v", err)
	}
	if len(trending) != 1 {
		t.Fatalf("expected a single trending row, got %d", len(trending))
	}
	if trending[0].Symbol != "SOL" {
		t.Fatalf("expected uppercased symbol SOL, got %s", trending[0].Symbol)
	}
	if trending[0].OTCIndex != 950 {
		t.Fatalf("expected last write to win, got %v", trending[0].OTCIndex)
	}
	if trending[0].EntryExitType != market.EntryExitNeutral {
		t.Fatalf("expected default entry/exit type, got %s", trending[0].EntryExitType)
	}
}

func TestLatestMetricDate(t *testing.T) {
	ctx, store := setupStore(t)

	if _, err := store.LatestMetricDate(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound with no metrics, got %v", err)
	}

	coin, _, err := store.FindOrCreateCoin(ctx, "ETH")
	if err != nil {
		t.Fatalf("failed to create coin: %v", err)
	}
	for _, date := range []string{"2025-05-07", "2025-05-09", "2025-05-08"} {
		if _, err := store.UpsertDailyMetric(ctx, coin.ID, date, MetricUpsert{OTCIndex: 1}); err != nil {
			t.Fatalf("failed to seed metric for %s: %v", date, err)
		}
	}

	latest, err := store.LatestMetricDate(ctx)
	if err != nil {
		t.Fatalf("failed to get latest date: %v", err)
	}
	if latest != "2025-05-09" {
		t.Fatalf("expected latest date 2025-05-09, got %s", latest)
	}
}

func TestMetricsMapByDate(t *testing.T) {
	ctx, store := setupStore(t)

	btc, _, err := store.FindOrCreateCoin(ctx, "BTC")
	if err != nil {
		t.Fatalf("failed to create coin: %v", err)
	}
	eth, _, err := store.FindOrCreateCoin(ctx, "ETH")
	if err != nil {
		t.Fatalf("failed to create coin: %v", err)
	}
	if _, err := store.UpsertDailyMetric(ctx, btc.ID, "2025-05-08", MetricUpsert{OTCIndex: 1500}); err != nil {
		t.Fatalf("failed to seed metric: %v", err)
	}
	if _, err := store.UpsertDailyMetric(ctx, eth.ID, "2025-05-08", MetricUpsert{OTCIndex: 800}); err != nil {
		t.Fatalf("failed to seed metric: %v", err)
	}

	byCoin, err := store.MetricsMapByDate(ctx, "2025-05-08")
	if err != nil {
		t.Fatalf("failed to map metrics: %v", err)
	}
	if len(byCoin) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(byCoin))
	}
	if byCoin[btc.ID].OTCIndex != 1500 {
		t.Fatalf("expected btc otc index 1500, got %v", byCoin[btc.ID].OTCIndex)
	}
	if byCoin[eth.ID].OTCIndex != 800 {
		t.Fatalf("expected eth otc index 800, got %v", byCoin[eth.ID].OTCIndex)
	}

	empty, err := store.MetricsMapByDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("failed to map metrics for empty date: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(empty))
	}
}

func TestCoinBySymbolAndList(t *testing.T) {
	ctx, store := setupStore(t)

	for _, symbol := range []string{"SOL", "BTC", "ETH"} {
		if _, _, err := store.FindOrCreateCoin(ctx, symbol); err != nil {
			t.Fatalf("failed to create coin %s: %v", symbol, err)
		}
	}

	coin, err := store.CoinBySymbol(ctx, "eth")
	if err != nil {
		t.Fatalf("failed to get coin: %v", err)
	}
	if coin.Symbol != "ETH" {
		t.Fatalf("expected ETH, got %s", coin.Symbol)
	}

	if _, err := store.CoinBySymbol(ctx, "DOGE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown symbol, got %v", err)
	}

	coins, err := store.ListCoins(ctx)
	if err != nil {
		t.Fatalf("failed to list coins: %v", err)
	}
	if len(coins) != 3 {
		t.Fatalf("expected 3 coins, got %d", len(coins))
	}
	for i, want := range []string{"BTC", "ETH", "SOL"} {
		if coins[i].Symbol != want {
			t.Fatalf("expected coins sorted by symbol, got %s at %d", coins[i].Symbol, i)
		}
	}
}

func TestMetricsForCoin(t *testing.T) {
	ctx, store := setupStore(t)

	coin, _, err := store.FindOrCreateCoin(ctx, "BTC")
	if err != nil {
		t.Fatalf("failed to create coin: %v", err)
	}
	dates := []string{"2025-05-05", "2025-05-06", "2025-05-07", "2025-05-08", "2025-05-09"}
	for _, date := range dates {
		if _, err := store.UpsertDailyMetric(ctx, coin.ID, date, MetricUpsert{OTCIndex: 1}); err != nil {
			t.Fatalf("failed to seed metric for %s: %v", date, err)
		}
	}

	metrics, err := store.MetricsForCoin(ctx, coin.ID, 3)
	if err != nil {
		t.Fatalf("failed to list metrics: %v", err)
	}
	if len(metrics) != 3 {
		t.Fatalf("expected 3 metrics, got %d", len(metrics))
	}
	if metrics[0].Date != "2025-05-09" || metrics[2].Date != "2025-05-07" {
		t.Fatalf("expected newest-first window, got %s..%s", metrics[0].Date, metrics[2].Date)
	}
}

func TestDeleteCoin(t *testing.T) {
	ctx, store := setupStore(t)

	coin, _, err := store.FindOrCreateCoin(ctx, "BTC")
	if err != nil {
		t.Fatalf("failed to create coin: %v", err)
	}
	if _, err := store.UpsertDailyMetric(ctx, coin.ID, "2025-05-09", MetricUpsert{OTCIndex: 1627}); err != nil {
		t.Fatalf("failed to seed metric: %v", err)
	}

	if err := store.DeleteCoin(ctx, "btc"); err != nil {
		t.Fatalf("failed to delete coin: %v", err)
	}

	if _, err := store.CoinBySymbol(ctx, "BTC"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected coin to be gone, got %v", err)
	}
	metrics, err := store.MetricsByDate(ctx, "2025-05-09")
	if err != nil {
		t.Fatalf("failed to list metrics: %v", err)
	}
	if len(metrics) != 0 {
		t.Fatalf("expected metrics to be deleted with the coin, got %d", len(metrics))
	}

	if err := store.DeleteCoin(ctx, "BTC"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a second delete, got %v", err)
	}
}
