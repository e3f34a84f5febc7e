package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/token-portfolio/internal/logging"
	"github.com/token-portfolio/internal/models"
	"github.com/token-portfolio/internal/retry"
)

// AssetLister lists every tracked asset across all users.
type AssetLister interface {
	ListAll(ctx context.Context) ([]*models.Asset, error)
}

// PriceWriter persists one daily observation per asset.
type PriceWriter interface {
	Upsert(ctx context.Context, assetID string, date time.Time, price decimal.Decimal) (*models.PricePoint, error)
}

// CacheInvalidator drops cached valuations after the price series changes.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// IngestionResult reports the outcome of one ingestion sweep.
type IngestionResult struct {
	Written int `json:"written"`
	Failed  int `json:"failed"`
}

// IngestionService runs the daily price sweep: one observation per tracked
// asset, keyed by calendar date. A failure on one asset never blocks the
// others; re-running for the same date overwrites that date's observations.
type IngestionService struct {
	assets      AssetLister
	prices      PriceWriter
	source      PriceSource
	perturbator Perturbator
	cache       CacheInvalidator
	retryConfig *retry.Config
	logger      *logging.Logger
}

// NewIngestionService creates an ingestion service. cache may be nil when no
// cache layer is configured.
func NewIngestionService(
	assets AssetLister,
	prices PriceWriter,
	source PriceSource,
	perturbator Perturbator,
	cache CacheInvalidator,
	logger *logging.Logger,
) *IngestionService {
	return &IngestionService{
		assets:      assets,
		prices:      prices,
		source:      source,
		perturbator: perturbator,
		cache:       cache,
		retryConfig: retry.DefaultConfig(),
		logger:      logger,
	}
}

// RunDailyIngestion writes one price observation for every tracked asset,
// dated to the calendar day of now (midnight UTC). Per-asset write failures
// are counted and logged but do not abort the sweep.
func (s *IngestionService) RunDailyIngestion(ctx context.Context, now time.Time) (*IngestionResult, error) {
	date := models.DateOnly(now)
	logger := s.logger.WithField("date", date.Format("2006-01-02"))

	assets, err := s.assets.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &IngestionResult{}
	for _, asset := range assets {
		price := s.perturbator.Perturb(s.source.BasePrice(asset.ContractAddress))

		err := retry.Do(ctx, s.retryConfig, func(ctx context.Context, attempt int) error {
			_, upsertErr := s.prices.Upsert(ctx, asset.ID, date, price)
			return upsertErr
		})
		if err != nil {
			result.Failed++
			logger.WithError(err).WithFields(map[string]interface{}{
				"assetId":  asset.ID,
				"contract": asset.ContractAddress,
			}).Error("Failed to write daily price")
			continue
		}
		result.Written++
	}

	if s.cache != nil && result.Written > 0 {
		// Stale valuations are tolerable; a failed invalidation must not
		// fail the sweep.
		if err := s.cache.InvalidateAll(ctx); err != nil {
			logger.WithError(err).Warn("Failed to invalidate valuation cache after ingestion")
		}
	}

	logger.WithFields(map[string]interface{}{
		"written": result.Written,
		"failed":  result.Failed,
	}).Info("Daily price ingestion completed")

	return result, nil
}
