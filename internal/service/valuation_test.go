package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "whole token", in: "1", want: "1.000000"},
		{name: "large amount", in: "12345.6789", want: "12345.678900"},
		{name: "exactly one", in: "1.0000000001", want: "1.000000"},
		{name: "below one", in: "0.5", want: "0.50000000"},
		{name: "exactly a cent", in: "0.01", want: "0.01000000"},
		{name: "dust survives as scientific", in: "0.000001", want: "1.000000e-06"},
		{name: "zero", in: "0", want: "0.000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatAmount(d))
		})
	}
}

func TestFormatAmountFullPrecisionScaling(t *testing.T) {
	// 1e18 base units of an 18-decimals token is exactly one token.
	raw := decimal.RequireFromString("1000000000000000000")
	assert.Equal(t, "1.000000", FormatAmount(raw.Shift(-18)))

	// One base unit of the same token must not collapse to zero.
	assert.Equal(t, "1.000000e-18", FormatAmount(decimal.New(1, -18)))
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2_500_000_000, "$2.50B"},
		{1_234_567, "$1.23M"},
		{45_600, "$45.60K"},
		{1000, "$1.00K"},
		{999.99, "$999.99"},
		{0.01, "$0.01"},
		{0.004217, "$0.004217"},
		{0, "$0.00"},
		{-5, "$0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUSD(tt.in), "input %v", tt.in)
	}
}

func TestValue(t *testing.T) {
	held := entity.BalanceObservation{
		Wallet:     walletA,
		Token:      tokenT1,
		Scaled:     "100.000000",
		HasBalance: true,
	}

	t.Run("known price and balance", func(t *testing.T) {
		v := Value(held, entity.PriceQuote{Token: tokenT1, PriceUSD: floatPtr(2.5), Source: entity.PricePrimary})
		require.NotNil(t, v.USD)
		assert.InDelta(t, 250.0, *v.USD, 1e-9)
		assert.Equal(t, "$250.00", v.Display)
	})

	t.Run("missing price yields null valuation", func(t *testing.T) {
		v := Value(held, entity.NoPrice(tokenT1, "no pairs"))
		assert.Nil(t, v.USD)
		assert.Equal(t, "N/A", v.Display)
	})

	t.Run("no balance yields null valuation even with price", func(t *testing.T) {
		empty := entity.ZeroBalance(walletA, tokenT1, "")
		v := Value(empty, entity.PriceQuote{Token: tokenT1, PriceUSD: floatPtr(2.5)})
		assert.Nil(t, v.USD)
		assert.Equal(t, "N/A", v.Display)
	})

	t.Run("zero price is a known value of zero", func(t *testing.T) {
		v := Value(held, entity.PriceQuote{Token: tokenT1, PriceUSD: floatPtr(0)})
		require.NotNil(t, v.USD)
		assert.Equal(t, "$0.00", v.Display)
	})
}
