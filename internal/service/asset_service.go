package service

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/token-portfolio/internal/logging"
	"github.com/token-portfolio/internal/models"
	"github.com/token-portfolio/internal/types"
)

// AssetService handles asset lifecycle and history queries. Every operation
// is scoped to the owning user; one user can never see or delete another
// user's holdings.
type AssetService struct {
	assetRepo AssetRepository
	priceRepo PriceRepository
	cache     ValuationCache
	logger    *logging.Logger
}

// NewAssetService creates a new asset service. cache may be nil.
func NewAssetService(assetRepo AssetRepository, priceRepo PriceRepository, cache ValuationCache, logger *logging.Logger) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		priceRepo: priceRepo,
		cache:     cache,
		logger:    logger,
	}
}

// CreateAssetInput represents input for tracking a new asset
type CreateAssetInput struct {
	Name            string           `json:"name"`
	Type            models.AssetType `json:"type"`
	Description     string           `json:"description,omitempty"`
	ContractAddress string           `json:"contractAddress"`
	Chain           models.Chain     `json:"chain"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	TokenID         *string          `json:"tokenId,omitempty"`
}

// CreateAsset validates and stores a new tracked asset for a user
func (s *AssetService) CreateAsset(ctx context.Context, userID string, input CreateAssetInput) (*models.Asset, error) {
	if err := validateCreateAssetInput(input); err != nil {
		return nil, err
	}

	asset := &models.Asset{
		UserID:          userID,
		Name:            strings.TrimSpace(input.Name),
		Type:            input.Type,
		Description:     input.Description,
		ContractAddress: strings.ToLower(input.ContractAddress),
		Chain:           input.Chain,
		Quantity:        input.Quantity,
		TokenID:         input.TokenID,
	}

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	s.invalidateUser(ctx, userID)

	s.logger.WithFields(map[string]interface{}{
		"assetId": asset.ID,
		"userId":  userID,
		"type":    asset.Type,
	}).Info("Asset created")

	return asset, nil
}

// ListAssets returns all assets tracked by a user, oldest first
func (s *AssetService) ListAssets(ctx context.Context, userID string) ([]*models.Asset, error) {
	return s.assetRepo.ListByUser(ctx, userID)
}

// GetAsset returns one asset owned by the user
func (s *AssetService) GetAsset(ctx context.Context, userID, assetID string) (*models.Asset, error) {
	return s.assetRepo.GetByIDAndUser(ctx, assetID, userID)
}

// DeleteAsset removes an asset owned by the user. Its price history is
// removed with it.
func (s *AssetService) DeleteAsset(ctx context.Context, userID, assetID string) error {
	if err := s.assetRepo.DeleteByIDAndUser(ctx, assetID, userID); err != nil {
		return err
	}

	s.invalidateUser(ctx, userID)

	s.logger.WithFields(map[string]interface{}{
		"assetId": assetID,
		"userId":  userID,
	}).Info("Asset deleted")

	return nil
}

// GetHistory returns an asset owned by the user together with its full
// daily price history, in chronological order.
func (s *AssetService) GetHistory(ctx context.Context, userID, assetID string) (*models.Asset, []*models.PricePoint, error) {
	asset, err := s.assetRepo.GetByIDAndUser(ctx, assetID, userID)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.priceRepo.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}

	return asset, history, nil
}

func (s *AssetService) invalidateUser(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.WithError(err).WithField("userId", userID).Warn("Failed to invalidate valuation cache")
	}
}

func validateCreateAssetInput(input CreateAssetInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return types.NewInvalidInputError("name is required")
	}

	if !common.IsHexAddress(input.ContractAddress) {
		return types.NewInvalidInputError("contractAddress must be a valid hex address")
	}

	switch input.Chain {
	case models.ChainEthereum, models.ChainPolygon:
	default:
		return types.NewInvalidInputError("chain must be one of ETHEREUM, POLYGON")
	}

	switch input.Type {
	case models.AssetTypeERC20:
		if input.TokenID != nil {
			return types.NewInvalidInputError("tokenId is not allowed for ERC20 assets")
		}
		if input.Quantity == nil {
			return types.NewInvalidInputError("quantity is required for ERC20 assets")
		}
		if !input.Quantity.IsPositive() {
			return types.NewInvalidInputError("quantity must be greater than zero")
		}
	case models.AssetTypeERC721:
		if input.Quantity != nil {
			return types.NewInvalidInputError("quantity is not allowed for ERC721 assets")
		}
		if input.TokenID == nil || strings.TrimSpace(*input.TokenID) == "" {
			return types.NewInvalidInputError("tokenId is required for ERC721 assets")
		}
	default:
		return types.NewInvalidInputError("type must be one of ERC20, ERC721")
	}

	return nil
}
