// Package pricing implements the daily price ingestion pipeline: a mock
// price source with bounded perturbation, the ingestion sweep, and its
// scheduler. In production the source is replaced by a real feed; the rest
// of the pipeline is unchanged.
package pricing

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// PriceSource supplies the base reference price for a contract address.
type PriceSource interface {
	BasePrice(contractAddress string) decimal.Decimal
}

// Perturbator applies a bounded variation to a base price so successive
// observations differ.
type Perturbator interface {
	Perturb(base decimal.Decimal) decimal.Decimal
}

// StaticPriceSource resolves base prices from a fixed table of well-known
// contract addresses, falling back to a default for unknown contracts.
type StaticPriceSource struct {
	prices       map[string]decimal.Decimal
	defaultPrice decimal.Decimal
}

// NewStaticPriceSource creates a price source seeded with reference prices
// for a few well-known mainnet tokens.
func NewStaticPriceSource(defaultPrice decimal.Decimal) *StaticPriceSource {
	return &StaticPriceSource{
		prices: map[string]decimal.Decimal{
			// USDC
			"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": decimal.NewFromInt(1),
			// USDT
			"0xdac17f958d2ee523a2206206994597c13d831ec7": decimal.NewFromInt(1),
			// WBTC
			"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": decimal.NewFromInt(30000),
		},
		defaultPrice: defaultPrice,
	}
}

// BasePrice returns the reference price for a contract address. Lookup is
// case-insensitive; unknown addresses get the default price.
func (s *StaticPriceSource) BasePrice(contractAddress string) decimal.Decimal {
	if price, ok := s.prices[strings.ToLower(contractAddress)]; ok {
		return price
	}
	return s.defaultPrice
}

// RandomPerturbator produces prices within ±spread of the base price using
// a seeded RNG, so ingestion output is reproducible under test.
type RandomPerturbator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	spread float64
}

// NewRandomPerturbator creates a perturbator with the given seed and spread
// (0.1 = ±10%).
func NewRandomPerturbator(seed int64, spread float64) *RandomPerturbator {
	return &RandomPerturbator{
		rng:    rand.New(rand.NewSource(seed)),
		spread: spread,
	}
}

// Perturb applies a bounded random variation to the base price
func (p *RandomPerturbator) Perturb(base decimal.Decimal) decimal.Decimal {
	p.mu.Lock()
	offset := p.rng.Float64()*2 - 1
	p.mu.Unlock()

	factor := decimal.NewFromFloat(1 + offset*p.spread)
	return base.Mul(factor)
}
