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
)

// ErrPriceNotFound is returned when no price point exists for an
// (asset, date) key. A missing price is expected data, not a failure.
var ErrPriceNotFound = errors.New("price point not found")

// PriceRepository handles the daily price series
type PriceRepository struct {
	db *PostgresDB
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db *PostgresDB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Upsert writes the price observation for an (asset, date) key. A second
// write for the same key overwrites the previous one, keeping the series
// unique per day.
func (r *PriceRepository) Upsert(ctx context.Context, assetID string, date time.Time, price decimal.Decimal) (*models.PricePoint, error) {
	query := `
		INSERT INTO asset_daily_prices (id, asset_id, price, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (asset_id, date) DO UPDATE SET
			price = EXCLUDED.price,
			created_at = EXCLUDED.created_at
		RETURNING id, asset_id, price, date, created_at
	`

	var point models.PricePoint

	err := r.db.Pool().QueryRow(ctx, query,
		uuid.New().String(),
		assetID,
		price,
		models.DateOnly(date),
		time.Now(),
	).Scan(
		&point.ID,
		&point.AssetID,
		&point.Price,
		&point.Date,
		&point.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert price point: %w", err)
	}

	return &point, nil
}

// GetByAssetAndDate retrieves the price point for an asset on a calendar day
func (r *PriceRepository) GetByAssetAndDate(ctx context.Context, assetID string, date time.Time) (*models.PricePoint, error) {
	query := `
		SELECT id, asset_id, price, date, created_at
		FROM asset_daily_prices
		WHERE asset_id = $1 AND date = $2
	`

	var point models.PricePoint

	err := r.db.Pool().QueryRow(ctx, query, assetID, models.DateOnly(date)).Scan(
		&point.ID,
		&point.AssetID,
		&point.Price,
		&point.Date,
		&point.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPriceNotFound
		}
		return nil, fmt.Errorf("failed to get price point: %w", err)
	}

	return &point, nil
}

// ListByAsset retrieves the full price history for an asset in chronological order
func (r *PriceRepository) ListByAsset(ctx context.Context, assetID string) ([]*models.PricePoint, error) {
	query := `
		SELECT id, asset_id, price, date, created_at
		FROM asset_daily_prices
		WHERE asset_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list price history: %w", err)
	}
	defer rows.Close()

	var points []*models.PricePoint
	for rows.Next() {
		var point models.PricePoint
		err := rows.Scan(
			&point.ID,
			&point.AssetID,
			&point.Price,
			&point.Date,
			&point.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, &point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price points: %w", err)
	}

	return points, nil
}

// PricesForUserAndDate retrieves all price points for a user's assets on one
// calendar day, keyed by asset id.
func (r *PriceRepository) PricesForUserAndDate(ctx context.Context, userID string, date time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT p.asset_id, p.price
		FROM asset_daily_prices p
		INNER JOIN assets a ON a.id = p.asset_id
		WHERE a.user_id = $1 AND p.date = $2
	`

	rows, err := r.db.Pool().Query(ctx, query, userID, models.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for user: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]decimal.Decimal)
	for rows.Next() {
		var assetID string
		var price decimal.Decimal
		if err := rows.Scan(&assetID, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		prices[assetID] = price
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price rows: %w", err)
	}

	return prices, nil
}

// TotalsByDate computes the user's portfolio value per calendar day over a
// date range in a single grouped query. ERC721 rows count as one unit.
// Days with no price data for any of the user's assets produce no row.
func (r *PriceRepository) TotalsByDate(ctx context.Context, userID string, from, to time.Time) ([]*models.SeriesPoint, error) {
	query := `
		SELECT p.date, SUM(p.price * COALESCE(a.quantity, 1)) AS total_value
		FROM asset_daily_prices p
		INNER JOIN assets a ON a.id = p.asset_id
		WHERE a.user_id = $1 AND p.date >= $2 AND p.date <= $3
		GROUP BY p.date
		ORDER BY p.date ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID, models.DateOnly(from), models.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query totals by date: %w", err)
	}
	defer rows.Close()

	var series []*models.SeriesPoint
	for rows.Next() {
		var point models.SeriesPoint
		if err := rows.Scan(&point.Date, &point.Total); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}
		series = append(series, &point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series points: %w", err)
	}

	return series, nil
}
