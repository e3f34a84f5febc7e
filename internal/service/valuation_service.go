package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/token-portfolio/internal/logging"
	"github.com/token-portfolio/internal/models"
)

// Repository interfaces for dependency injection

// AssetRepository interface for asset data operations
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.Asset, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Asset, error)
	DeleteByIDAndUser(ctx context.Context, id, userID string) error
}

// PriceRepository interface for daily price series operations
type PriceRepository interface {
	PricesForUserAndDate(ctx context.Context, userID string, date time.Time) (map[string]decimal.Decimal, error)
	TotalsByDate(ctx context.Context, userID string, from, to time.Time) ([]*models.SeriesPoint, error)
	ListByAsset(ctx context.Context, assetID string) ([]*models.PricePoint, error)
}

// UserRepository interface for user data operations
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpsertByPrivyID(ctx context.Context, privyID string) (*models.User, error)
}

// ValuationCache caches computed valuations keyed by user and date
type ValuationCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	GenerateSnapshotKey(userID string, date time.Time) string
	GenerateAnalyticsKey(userID string, date time.Time) string
	InvalidateUser(ctx context.Context, userID string) error
}

// ValuationService computes point-in-time portfolio values. Valuation is a
// pure function of the stored holdings and the stored price series for the
// requested calendar day: a holding with no price on that exact day
// contributes zero, never a carried-forward price.
type ValuationService struct {
	assetRepo AssetRepository
	priceRepo PriceRepository
	cache     ValuationCache
	logger    *logging.Logger
}

// NewValuationService creates a new valuation service. cache may be nil.
func NewValuationService(assetRepo AssetRepository, priceRepo PriceRepository, cache ValuationCache, logger *logging.Logger) *ValuationService {
	return &ValuationService{
		assetRepo: assetRepo,
		priceRepo: priceRepo,
		cache:     cache,
		logger:    logger,
	}
}

// ValueAt computes the portfolio snapshot for a user on the calendar day
// of the given timestamp. Lines are ordered by asset creation time.
func (s *ValuationService) ValueAt(ctx context.Context, userID string, date time.Time) (*models.PortfolioSnapshot, error) {
	day := models.DateOnly(date)

	if s.cache != nil {
		key := s.cache.GenerateSnapshotKey(userID, day)
		var cached models.PortfolioSnapshot
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Snapshot cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	snapshot, err := s.computeSnapshot(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		key := s.cache.GenerateSnapshotKey(userID, day)
		if err := s.cache.Set(ctx, key, snapshot); err != nil {
			s.logger.WithError(err).Warn("Snapshot cache write failed")
		}
	}

	return snapshot, nil
}

func (s *ValuationService) computeSnapshot(ctx context.Context, userID string, day time.Time) (*models.PortfolioSnapshot, error) {
	assets, err := s.assetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	prices, err := s.priceRepo.PricesForUserAndDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	snapshot := &models.PortfolioSnapshot{
		UserID: userID,
		Date:   day,
		Lines:  make([]models.ValuationLine, 0, len(assets)),
		Total:  decimal.Zero,
	}

	for _, asset := range assets {
		line := models.ValuationLine{
			AssetID:    asset.ID,
			Name:       asset.Name,
			Type:       asset.Type,
			Multiplier: asset.Multiplier(),
			Value:      decimal.Zero,
		}

		if price, ok := prices[asset.ID]; ok {
			p := price
			line.Price = &p
			line.Value = price.Mul(line.Multiplier)
		}

		snapshot.Total = snapshot.Total.Add(line.Value)
		snapshot.Lines = append(snapshot.Lines, line)
	}

	return snapshot, nil
}
