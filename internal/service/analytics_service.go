package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/token-portfolio/internal/logging"
	"github.com/token-portfolio/internal/models"
)

const historyWindowDays = 30

// AnalyticsService aggregates the full analytics view for a user: current
// value, a 30-day value series, and PnL against the daily and 30-day
// baselines.
type AnalyticsService struct {
	valuationSvc *ValuationService
	priceRepo    PriceRepository
	cache        ValuationCache
	queryTimeout time.Duration
	logger       *logging.Logger
}

// NewAnalyticsService creates a new analytics service. cache may be nil.
func NewAnalyticsService(
	valuationSvc *ValuationService,
	priceRepo PriceRepository,
	cache ValuationCache,
	queryTimeout time.Duration,
	logger *logging.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		valuationSvc: valuationSvc,
		priceRepo:    priceRepo,
		cache:        cache,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// GetAnalytics computes the analytics view as of the calendar day of now.
// Results are cached per (user, day) until holdings or prices change.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, userID string, now time.Time) (*models.PortfolioAnalytics, error) {
	day := models.DateOnly(now)

	if s.cache != nil {
		key := s.cache.GenerateAnalyticsKey(userID, day)
		var cached models.PortfolioAnalytics
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Analytics cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	analytics, err := s.computeAnalytics(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		key := s.cache.GenerateAnalyticsKey(userID, day)
		if err := s.cache.Set(ctx, key, analytics); err != nil {
			s.logger.WithError(err).Warn("Analytics cache write failed")
		}
	}

	return analytics, nil
}

func (s *AnalyticsService) computeAnalytics(ctx context.Context, userID string, day time.Time) (*models.PortfolioAnalytics, error) {
	current, err := s.valuationSvc.ValueAt(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	from := day.AddDate(0, 0, -historyWindowDays)

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	totals, err := s.priceRepo.TotalsByDate(queryCtx, userID, from, day)
	if err != nil {
		return nil, err
	}

	series := make([]models.SeriesPoint, 0, len(totals))
	totalsByDay := make(map[string]decimal.Decimal, len(totals))
	for _, point := range totals {
		series = append(series, *point)
		totalsByDay[point.Date.Format("2006-01-02")] = point.Total
	}

	// A day with no observations has a zero baseline, which suppresses the
	// percentage but still yields an absolute PnL value.
	baselineFor := func(d time.Time) decimal.Decimal {
		if total, ok := totalsByDay[d.Format("2006-01-02")]; ok {
			return total
		}
		return decimal.Zero
	}

	return &models.PortfolioAnalytics{
		Current: *current,
		Series:  series,
		PnL: models.PnLSummary{
			Daily:     computePnL(current.Total, baselineFor(day.AddDate(0, 0, -1))),
			ThirtyDay: computePnL(current.Total, baselineFor(from)),
		},
	}, nil
}

// computePnL compares a current total against a baseline. The percentage is
// omitted when the baseline is zero, as there is no meaningful denominator.
func computePnL(current, baseline decimal.Decimal) models.PnL {
	delta := current.Sub(baseline)
	pnl := models.PnL{Value: delta}

	if !baseline.IsZero() {
		pct := delta.Div(baseline).Mul(decimal.NewFromInt(100))
		pnl.Percentage = &pct
	}

	return pnl
}
