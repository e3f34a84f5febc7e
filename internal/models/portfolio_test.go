package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPnLJSON_OmitsPercentageOnZeroBaseline(t *testing.T) {
	data, err := json.Marshal(PnL{Value: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "percentage")

	pct := decimal.NewFromInt(10)
	data, err = json.Marshal(PnL{Value: decimal.NewFromInt(100), Percentage: &pct})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"percentage":"10"`)
}

func TestValuationLineJSON_OmitsMissingPrice(t *testing.T) {
	line := ValuationLine{
		AssetID:    "a1",
		Name:       "Wrapped BTC",
		Type:       AssetTypeERC20,
		Multiplier: decimal.NewFromInt(10),
		Value:      decimal.Zero,
	}

	data, err := json.Marshal(line)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"price"`)
}

func TestPortfolioSnapshotJSON_FieldNames(t *testing.T) {
	snapshot := PortfolioSnapshot{
		UserID: "user-1",
		Date:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines:  []ValuationLine{},
		Total:  decimal.NewFromInt(1100),
	}

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Contains(t, decoded, "assets")
	assert.Contains(t, decoded, "totalValue")
	assert.Equal(t, json.RawMessage(`[]`), decoded["assets"])
}
