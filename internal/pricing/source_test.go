package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStaticPriceSource_BasePrice(t *testing.T) {
	source := NewStaticPriceSource(decimal.NewFromInt(100))

	tests := []struct {
		name     string
		contract string
		want     decimal.Decimal
	}{
		{
			name:     "USDC pegged at 1",
			contract: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
			want:     decimal.NewFromInt(1),
		},
		{
			name:     "USDT pegged at 1",
			contract: "0xdac17f958d2ee523a2206206994597c13d831ec7",
			want:     decimal.NewFromInt(1),
		},
		{
			name:     "WBTC reference price",
			contract: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599",
			want:     decimal.NewFromInt(30000),
		},
		{
			name:     "lookup is case-insensitive",
			contract: "0xA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48",
			want:     decimal.NewFromInt(1),
		},
		{
			name:     "unknown contract gets the default price",
			contract: "0x1111111111111111111111111111111111111111",
			want:     decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := source.BasePrice(tt.contract)
			if !got.Equal(tt.want) {
				t.Errorf("BasePrice(%s) = %s, want %s", tt.contract, got, tt.want)
			}
		})
	}
}

func TestRandomPerturbator_Bounds(t *testing.T) {
	p := NewRandomPerturbator(42, 0.1)
	base := decimal.NewFromInt(100)
	lower := decimal.NewFromInt(90)
	upper := decimal.NewFromInt(110)

	for i := 0; i < 200; i++ {
		got := p.Perturb(base)
		if got.LessThan(lower) || got.GreaterThan(upper) {
			t.Fatalf("Perturb(100) = %s, want within [90, 110]", got)
		}
	}
}

func TestRandomPerturbator_Deterministic(t *testing.T) {
	p1 := NewRandomPerturbator(7, 0.1)
	p2 := NewRandomPerturbator(7, 0.1)
	base := decimal.NewFromInt(30000)

	for i := 0; i < 10; i++ {
		a := p1.Perturb(base)
		b := p2.Perturb(base)
		if !a.Equal(b) {
			t.Fatalf("iteration %d: perturbators with equal seeds diverged: %s vs %s", i, a, b)
		}
	}
}
