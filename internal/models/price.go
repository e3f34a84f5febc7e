package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one daily price observation for an asset. At most one
// point exists per (asset, date); later writes for the same key overwrite.
type PricePoint struct {
	ID        string          `json:"id" db:"id"`
	AssetID   string          `json:"assetId" db:"asset_id"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Date      time.Time       `json:"date" db:"date"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// DateOnly truncates a timestamp to its calendar day at midnight UTC.
// All price series keys and valuation dates use this granularity.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
