package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/token-portfolio/internal/models"
	"github.com/token-portfolio/internal/types"
)

// AssetRepository handles asset data persistence
type AssetRepository struct {
	db *PostgresDB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *PostgresDB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, user_id, name, type, description, contract_address, chain, quantity, token_id, created_at, updated_at`

// Create creates a new asset
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}

	now := time.Now()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	query := `
		INSERT INTO assets (id, user_id, name, type, description, contract_address, chain, quantity, token_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var quantity decimal.NullDecimal
	if asset.Quantity != nil {
		quantity = decimal.NullDecimal{Decimal: *asset.Quantity, Valid: true}
	}

	_, err := r.db.Pool().Exec(ctx, query,
		asset.ID,
		asset.UserID,
		asset.Name,
		asset.Type,
		asset.Description,
		asset.ContractAddress,
		asset.Chain,
		quantity,
		asset.TokenID,
		asset.CreatedAt,
		asset.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// GetByIDAndUser retrieves an asset owned by a specific user
func (r *AssetRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE id = $1 AND user_id = $2
	`

	asset, err := scanAsset(r.db.Pool().QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAssetNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return asset, nil
}

// ListByUser retrieves all assets owned by a user, oldest first
func (r *AssetRepository) ListByUser(ctx context.Context, userID string) ([]*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	return collectAssets(rows)
}

// ListAll retrieves every asset across all users. Used by the daily price
// ingestion sweep.
func (r *AssetRepository) ListAll(ctx context.Context) ([]*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all assets: %w", err)
	}
	defer rows.Close()

	return collectAssets(rows)
}

// DeleteByIDAndUser deletes an asset owned by a specific user
func (r *AssetRepository) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	query := `DELETE FROM assets WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool().Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return types.NewAssetNotFoundError(id)
	}

	return nil
}

// Count returns the total number of assets
func (r *AssetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM assets`

	err := r.db.Pool().QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}

	return count, nil
}

// scanAsset scans a single asset row
func scanAsset(row pgx.Row) (*models.Asset, error) {
	var asset models.Asset
	var quantity decimal.NullDecimal

	err := row.Scan(
		&asset.ID,
		&asset.UserID,
		&asset.Name,
		&asset.Type,
		&asset.Description,
		&asset.ContractAddress,
		&asset.Chain,
		&quantity,
		&asset.TokenID,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if quantity.Valid {
		asset.Quantity = &quantity.Decimal
	}

	return &asset, nil
}

// collectAssets scans all asset rows from a result set
func collectAssets(rows pgx.Rows) ([]*models.Asset, error) {
	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}
