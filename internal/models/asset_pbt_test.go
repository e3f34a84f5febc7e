package models

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestValuationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: an ERC721 holding always counts as exactly one unit, no
	// matter what quantity value is stored alongside it.
	properties.Property("ERC721 multiplier is always 1", prop.ForAll(
		func(qty float64) bool {
			quantity := decimal.NewFromFloat(qty)
			asset := &Asset{Type: AssetTypeERC721, Quantity: &quantity}
			return asset.Multiplier().Equal(decimal.NewFromInt(1))
		},
		gen.Float64Range(-1e9, 1e9),
	))

	// Property: an ERC20 multiplier is the stored quantity.
	properties.Property("ERC20 multiplier equals quantity", prop.ForAll(
		func(qty float64) bool {
			quantity := decimal.NewFromFloat(qty)
			asset := &Asset{Type: AssetTypeERC20, Quantity: &quantity}
			return asset.Multiplier().Equal(quantity)
		},
		gen.Float64Range(0.000001, 1e9),
	))

	properties.TestingRun(t)
}

func TestDateOnlyProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: truncation is idempotent and always lands on midnight UTC.
	properties.Property("DateOnly is idempotent midnight UTC", prop.ForAll(
		func(unixSec int64) bool {
			ts := time.Unix(unixSec, 0)
			day := DateOnly(ts)

			hour, min, sec := day.Clock()
			return day.Equal(DateOnly(day)) &&
				hour == 0 && min == 0 && sec == 0 &&
				day.Location() == time.UTC
		},
		gen.Int64Range(0, 4102444800), // 1970 through 2100
	))

	// Property: any two instants on the same UTC calendar day map to the
	// same price series key.
	properties.Property("same day maps to same key", prop.ForAll(
		func(unixSec int64, offsetSec int64) bool {
			a := time.Unix(unixSec, 0).UTC()
			day := DateOnly(a)
			b := day.Add(time.Duration(offsetSec) * time.Second)
			return DateOnly(b).Equal(day)
		},
		gen.Int64Range(0, 4102444800),
		gen.Int64Range(0, 86399),
	))

	properties.TestingRun(t)
}
