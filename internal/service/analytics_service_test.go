package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/token-portfolio/internal/models"
)

func newAnalyticsFixture(t *testing.T, cache ValuationCache) (*AnalyticsService, *mockAssetRepo, *mockPriceRepo) {
	t.Helper()

	assetRepo := &mockAssetRepo{}
	priceRepo := newMockPriceRepo()
	valuation := NewValuationService(assetRepo, priceRepo, cache, quietLogger())
	analytics := NewAnalyticsService(valuation, priceRepo, cache, 10*time.Second, quietLogger())

	return analytics, assetRepo, priceRepo
}

func TestGetAnalytics_DailyPnL(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	today := models.DateOnly(now)
	yesterday := today.AddDate(0, 0, -1)

	analytics, assetRepo, priceRepo := newAnalyticsFixture(t, nil)

	assetRepo.assets = []*models.Asset{
		{ID: "a1", UserID: "user-1", Type: models.AssetTypeERC20, Quantity: decimalPtr(decimal.NewFromInt(10))},
	}
	priceRepo.setPrice(today, "a1", decimal.NewFromInt(110))
	priceRepo.totals = []*models.SeriesPoint{
		{Date: yesterday, Total: decimal.NewFromInt(1000)},
		{Date: today, Total: decimal.NewFromInt(1100)},
	}

	result, err := analytics.GetAnalytics(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}

	if want := decimal.NewFromInt(1100); !result.Current.Total.Equal(want) {
		t.Errorf("Current.Total = %s, want %s", result.Current.Total, want)
	}

	daily := result.PnL.Daily
	if want := decimal.NewFromInt(100); !daily.Value.Equal(want) {
		t.Errorf("Daily.Value = %s, want %s", daily.Value, want)
	}
	if daily.Percentage == nil {
		t.Fatal("Daily.Percentage = nil, want 10")
	}
	if want := decimal.NewFromInt(10); !daily.Percentage.Equal(want) {
		t.Errorf("Daily.Percentage = %s, want %s", daily.Percentage, want)
	}

	if len(result.Series) != 2 {
		t.Errorf("len(Series) = %d, want 2", len(result.Series))
	}
}

func TestGetAnalytics_ZeroBaselineOmitsPercentage(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	today := models.DateOnly(now)

	analytics, assetRepo, priceRepo := newAnalyticsFixture(t, nil)

	assetRepo.assets = []*models.Asset{
		{ID: "a1", UserID: "user-1", Type: models.AssetTypeERC20, Quantity: decimalPtr(decimal.NewFromInt(1))},
	}
	priceRepo.setPrice(today, "a1", decimal.NewFromInt(500))
	// No observations before today: both baselines are zero.
	priceRepo.totals = []*models.SeriesPoint{
		{Date: today, Total: decimal.NewFromInt(500)},
	}

	result, err := analytics.GetAnalytics(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}

	if result.PnL.Daily.Percentage != nil {
		t.Errorf("Daily.Percentage = %s, want nil for zero baseline", result.PnL.Daily.Percentage)
	}
	if want := decimal.NewFromInt(500); !result.PnL.Daily.Value.Equal(want) {
		t.Errorf("Daily.Value = %s, want %s", result.PnL.Daily.Value, want)
	}
	if result.PnL.ThirtyDay.Percentage != nil {
		t.Errorf("ThirtyDay.Percentage = %s, want nil for zero baseline", result.PnL.ThirtyDay.Percentage)
	}
}

func TestGetAnalytics_ThirtyDayPnL(t *testing.T) {
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	today := models.DateOnly(now)
	baseline := today.AddDate(0, 0, -30)

	analytics, assetRepo, priceRepo := newAnalyticsFixture(t, nil)

	assetRepo.assets = []*models.Asset{
		{ID: "a1", UserID: "user-1", Type: models.AssetTypeERC20, Quantity: decimalPtr(decimal.NewFromInt(1))},
	}
	priceRepo.setPrice(today, "a1", decimal.NewFromInt(750))
	priceRepo.totals = []*models.SeriesPoint{
		{Date: baseline, Total: decimal.NewFromInt(500)},
		{Date: today, Total: decimal.NewFromInt(750)},
	}

	result, err := analytics.GetAnalytics(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}

	thirty := result.PnL.ThirtyDay
	if want := decimal.NewFromInt(250); !thirty.Value.Equal(want) {
		t.Errorf("ThirtyDay.Value = %s, want %s", thirty.Value, want)
	}
	if thirty.Percentage == nil {
		t.Fatal("ThirtyDay.Percentage = nil, want 50")
	}
	if want := decimal.NewFromInt(50); !thirty.Percentage.Equal(want) {
		t.Errorf("ThirtyDay.Percentage = %s, want %s", thirty.Percentage, want)
	}
}

func TestGetAnalytics_Deterministic(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	today := models.DateOnly(now)

	analytics, assetRepo, priceRepo := newAnalyticsFixture(t, nil)

	assetRepo.assets = []*models.Asset{
		{ID: "a1", UserID: "user-1", Type: models.AssetTypeERC20, Quantity: decimalPtr(decimal.NewFromInt(3))},
	}
	priceRepo.setPrice(today, "a1", decimal.NewFromInt(40))
	priceRepo.totals = []*models.SeriesPoint{{Date: today, Total: decimal.NewFromInt(120)}}

	first, err := analytics.GetAnalytics(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}
	second, err := analytics.GetAnalytics(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}

	if !first.Current.Total.Equal(second.Current.Total) {
		t.Errorf("repeated calls diverged: %s vs %s", first.Current.Total, second.Current.Total)
	}
	if !first.PnL.Daily.Value.Equal(second.PnL.Daily.Value) {
		t.Errorf("repeated PnL diverged: %s vs %s", first.PnL.Daily.Value, second.PnL.Daily.Value)
	}
}

func TestGetAnalytics_CacheReadThrough(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	today := models.DateOnly(now)
	cache := newMockCache()

	analytics, assetRepo, priceRepo := newAnalyticsFixture(t, cache)

	assetRepo.assets = []*models.Asset{
		{ID: "a1", UserID: "user-1", Type: models.AssetTypeERC20, Quantity: decimalPtr(decimal.NewFromInt(1))},
	}
	priceRepo.setPrice(today, "a1", decimal.NewFromInt(100))
	priceRepo.totals = []*models.SeriesPoint{{Date: today, Total: decimal.NewFromInt(100)}}

	first, err := analytics.GetAnalytics(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}

	// Later price changes must not be visible until invalidation.
	priceRepo.setPrice(today, "a1", decimal.NewFromInt(999))
	priceRepo.totals = []*models.SeriesPoint{{Date: today, Total: decimal.NewFromInt(999)}}

	cached, err := analytics.GetAnalytics(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}
	if !cached.Current.Total.Equal(first.Current.Total) {
		t.Errorf("cached Total = %s, want %s", cached.Current.Total, first.Current.Total)
	}

	if err := cache.InvalidateUser(context.Background(), "user-1"); err != nil {
		t.Fatalf("InvalidateUser() error = %v", err)
	}

	fresh, err := analytics.GetAnalytics(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}
	if want := decimal.NewFromInt(999); !fresh.Current.Total.Equal(want) {
		t.Errorf("post-invalidation Total = %s, want %s", fresh.Current.Total, want)
	}
}
