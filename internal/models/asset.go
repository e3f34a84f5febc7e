package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType identifies the token standard of an asset
type AssetType string

const (
	// AssetTypeERC20 is a fungible token holding with a quantity
	AssetTypeERC20 AssetType = "ERC20"
	// AssetTypeERC721 is a non-fungible token identified by a token id
	AssetTypeERC721 AssetType = "ERC721"
)

// Chain identifies the blockchain network an asset lives on
type Chain string

const (
	ChainEthereum Chain = "ETHEREUM"
	ChainPolygon  Chain = "POLYGON"
)

// Asset represents a tracked on-chain holding owned by a user.
// Exactly one of Quantity (ERC20) or TokenID (ERC721) is set.
type Asset struct {
	ID              string           `json:"id" db:"id"`
	UserID          string           `json:"userId" db:"user_id"`
	Name            string           `json:"name" db:"name"`
	Type            AssetType        `json:"type" db:"type"`
	Description     string           `json:"description" db:"description"`
	ContractAddress string           `json:"contractAddress" db:"contract_address"`
	Chain           Chain            `json:"chain" db:"chain"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty" db:"quantity"`
	TokenID         *string          `json:"tokenId,omitempty" db:"token_id"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
}

// Multiplier returns the factor a price is scaled by when valuing this asset.
// ERC721 holdings always count as a single unit. An ERC20 with no stored
// quantity falls back to 1.
func (a *Asset) Multiplier() decimal.Decimal {
	if a.Type == AssetTypeERC721 {
		return decimal.NewFromInt(1)
	}
	if a.Quantity == nil {
		return decimal.NewFromInt(1)
	}
	return *a.Quantity
}
