package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationLine is one asset's contribution to a portfolio snapshot.
// Price is nil when no price point exists for the snapshot date; the line
// then contributes zero value.
type ValuationLine struct {
	AssetID    string           `json:"assetId"`
	Name       string           `json:"name"`
	Type       AssetType        `json:"type"`
	Multiplier decimal.Decimal  `json:"multiplier"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Value      decimal.Decimal  `json:"value"`
}

// PortfolioSnapshot is the point-in-time value of a user's holdings.
type PortfolioSnapshot struct {
	UserID string          `json:"userId"`
	Date   time.Time       `json:"date"`
	Lines  []ValuationLine `json:"assets"`
	Total  decimal.Decimal `json:"totalValue"`
}

// SeriesPoint is one aggregate portfolio value for a calendar day.
type SeriesPoint struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"totalValue"`
}

// PnL compares the portfolio value against a baseline date. Percentage is
// nil when the baseline total is zero.
type PnL struct {
	Value      decimal.Decimal  `json:"value"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// PnLSummary holds the two standard comparison windows.
type PnLSummary struct {
	Daily     PnL `json:"daily"`
	ThirtyDay PnL `json:"thirtyDay"`
}

// PortfolioAnalytics is the full analytics response for a user.
type PortfolioAnalytics struct {
	Current PortfolioSnapshot `json:"currentValue"`
	Series  []SeriesPoint     `json:"historicalValues"`
	PnL     PnLSummary        `json:"pnl"`
}
