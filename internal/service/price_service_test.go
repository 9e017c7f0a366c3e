package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
	dexscreener_entity "github.com/Oskar181/ethereum-wallet-analyzer/internal/entity"
)

func newTestPriceResolver(t *testing.T, dex *fakeDexScreener, gecko *fakeCoinGecko) *PriceResolver {
	t.Helper()
	return NewPriceResolver(dex, gecko, testCaller(t), zap.NewNop())
}

func TestResolvePricePicksHighestVolumeBasePair(t *testing.T) {
	dex := &fakeDexScreener{
		pairs: func(chainID string, addresses []string) ([]dexscreener_entity.PairData, error) {
			quoteSide := basePair(tokenT2, "99.0", 9_999_999, 0)
			quoteSide.QuoteToken = dexscreener_entity.DEXToken{Address: tokenT1.String()}
			return []dexscreener_entity.PairData{
				basePair(tokenT1, "1.95", 10_000, -2.5),
				basePair(tokenT1, "2.00", 50_000, -2.1),
				basePair(tokenT1, "1.90", 1_000, -3.0),
				quoteSide, // must never be selected
			}, nil
		},
	}
	resolver := newTestPriceResolver(t, dex, &fakeCoinGecko{})

	quote := resolver.Resolve(context.Background(), NewSession(), testNetwork(), tokenT1)
	require.NotNil(t, quote.PriceUSD)
	assert.InDelta(t, 2.00, *quote.PriceUSD, 1e-9)
	require.NotNil(t, quote.Change24h)
	assert.InDelta(t, -2.1, *quote.Change24h, 1e-9)
	assert.Equal(t, entity.PricePrimary, quote.Source)
}

func TestResolvePriceVolumeTieKeepsFirstPair(t *testing.T) {
	dex := &fakeDexScreener{
		pairs: func(chainID string, addresses []string) ([]dexscreener_entity.PairData, error) {
			return []dexscreener_entity.PairData{
				basePair(tokenT1, "1.00", 5_000, 0),
				basePair(tokenT1, "2.00", 5_000, 0),
			}, nil
		},
	}
	resolver := newTestPriceResolver(t, dex, &fakeCoinGecko{})

	quote := resolver.Resolve(context.Background(), NewSession(), testNetwork(), tokenT1)
	require.NotNil(t, quote.PriceUSD)
	assert.InDelta(t, 1.00, *quote.PriceUSD, 1e-9)
}

func TestResolvePriceSkipsZeroPricedPairs(t *testing.T) {
	dex := &fakeDexScreener{
		pairs: func(chainID string, addresses []string) ([]dexscreener_entity.PairData, error) {
			return []dexscreener_entity.PairData{
				basePair(tokenT1, "0", 90_000, 0),
				basePair(tokenT1, "", 80_000, 0),
				basePair(tokenT1, "0.50", 100, 1.2),
			}, nil
		},
	}
	resolver := newTestPriceResolver(t, dex, &fakeCoinGecko{})

	quote := resolver.Resolve(context.Background(), NewSession(), testNetwork(), tokenT1)
	require.NotNil(t, quote.PriceUSD)
	assert.InDelta(t, 0.50, *quote.PriceUSD, 1e-9)
}

func TestResolvePriceFallsBackToCoinGecko(t *testing.T) {
	// USDC is in the curated mapping, so the backup source can serve it once
	// the primary returns nothing.
	usdc := entity.Address("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	dex := &fakeDexScreener{
		pairs: func(chainID string, addresses []string) ([]dexscreener_entity.PairData, error) {
			return nil, nil
		},
	}
	gecko := &fakeCoinGecko{
		prices: func(ids []string) (dexscreener_entity.SimplePriceResponse, error) {
			require.Equal(t, []string{"usd-coin"}, ids)
			return dexscreener_entity.SimplePriceResponse{
				"usd-coin": {USD: floatPtr(0.9998), USD24hChange: floatPtr(0.01)},
			}, nil
		},
	}
	resolver := newTestPriceResolver(t, dex, gecko)

	quote := resolver.Resolve(context.Background(), NewSession(), testNetwork(), usdc)
	require.NotNil(t, quote.PriceUSD)
	assert.InDelta(t, 0.9998, *quote.PriceUSD, 1e-9)
	assert.Equal(t, entity.PriceBackup, quote.Source)
}

func TestResolvePriceMissingEverywhereIsNotAnError(t *testing.T) {
	dex := &fakeDexScreener{
		pairs: func(chainID string, addresses []string) ([]dexscreener_entity.PairData, error) {
			return nil, errors.New("service unavailable")
		},
	}
	resolver := newTestPriceResolver(t, dex, &fakeCoinGecko{})

	// tokenT1 has no curated CoinGecko identifier either.
	quote := resolver.Resolve(context.Background(), NewSession(), testNetwork(), tokenT1)
	assert.Nil(t, quote.PriceUSD)
	assert.Equal(t, entity.PriceNone, quote.Source)
	assert.NotEmpty(t, quote.ErrReason)
}

func TestResolvePriceNativeUsesWrappedContract(t *testing.T) {
	network := testNetwork()
	var queried []string
	dex := &fakeDexScreener{
		pairs: func(chainID string, addresses []string) ([]dexscreener_entity.PairData, error) {
			queried = addresses
			return []dexscreener_entity.PairData{
				basePair(network.WrappedNativeAddress, "3500.00", 1_000_000, 1.5),
			}, nil
		},
	}
	resolver := newTestPriceResolver(t, dex, &fakeCoinGecko{})

	quote := resolver.Resolve(context.Background(), NewSession(), network, entity.ZeroAddress)
	assert.Equal(t, []string{network.WrappedNativeAddress.String()}, queried)
	require.NotNil(t, quote.PriceUSD)
	assert.InDelta(t, 3500.0, *quote.PriceUSD, 1e-9)
	assert.Equal(t, entity.ZeroAddress, quote.Token, "quote must be keyed by the requested address")
}

func TestResolvePriceMemoizesPerSession(t *testing.T) {
	dex := &fakeDexScreener{
		pairs: func(chainID string, addresses []string) ([]dexscreener_entity.PairData, error) {
			return []dexscreener_entity.PairData{basePair(tokenT1, "2.00", 100, 0)}, nil
		},
	}
	resolver := newTestPriceResolver(t, dex, &fakeCoinGecko{})
	sess := NewSession()

	first := resolver.Resolve(context.Background(), sess, testNetwork(), tokenT1)
	second := resolver.Resolve(context.Background(), sess, testNetwork(), tokenT1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, dex.calls)
}

func TestResolvePriceNetworkWithoutPrimaryCoverage(t *testing.T) {
	network := testNetwork()
	network.DexScreenerID = ""
	dex := &fakeDexScreener{}
	resolver := newTestPriceResolver(t, dex, &fakeCoinGecko{})

	quote := resolver.Resolve(context.Background(), NewSession(), network, tokenT1)
	assert.Nil(t, quote.PriceUSD)
	assert.Equal(t, 0, dex.calls, "primary source must be skipped entirely")
}
