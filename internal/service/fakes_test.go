package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
	dexscreener_entity "github.com/Oskar181/ethereum-wallet-analyzer/internal/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/ratelimit"
)

// Deterministic addresses for tests. walletA/walletB are arbitrary; the
// token addresses deliberately avoid the curated registry so tests control
// every resolution path explicitly.
const (
	walletA = entity.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	walletB = entity.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	tokenT1 = entity.Address("0x1111111111111111111111111111111111111111")
	tokenT2 = entity.Address("0x2222222222222222222222222222222222222222")
)

var errNoData = errors.New("no data")

type fakeExplorer struct {
	tokenBalance  func(wallet, token entity.Address) (string, error)
	nativeBalance func(wallet entity.Address) (string, error)
	call          func(to entity.Address, data []byte) ([]byte, error)
	calls         int
}

func (f *fakeExplorer) TokenBalance(_ context.Context, _ entity.NetworkDefinition, wallet, token entity.Address) (string, error) {
	f.calls++
	if f.tokenBalance == nil {
		return "", errNoData
	}
	return f.tokenBalance(wallet, token)
}

func (f *fakeExplorer) NativeBalance(_ context.Context, _ entity.NetworkDefinition, wallet entity.Address) (string, error) {
	f.calls++
	if f.nativeBalance == nil {
		return "", errNoData
	}
	return f.nativeBalance(wallet)
}

func (f *fakeExplorer) Call(_ context.Context, _ entity.NetworkDefinition, to entity.Address, data []byte) ([]byte, error) {
	f.calls++
	if f.call == nil {
		return nil, errNoData
	}
	return f.call(to, data)
}

type fakeDexScreener struct {
	pairs func(chainID string, addresses []string) ([]dexscreener_entity.PairData, error)
	calls int
}

func (f *fakeDexScreener) GetTokenPairsByAddresses(_ context.Context, chainID string, addresses []string) ([]dexscreener_entity.PairData, error) {
	f.calls++
	if f.pairs == nil {
		return nil, errNoData
	}
	return f.pairs(chainID, addresses)
}

type fakeCoinGecko struct {
	prices func(ids []string) (dexscreener_entity.SimplePriceResponse, error)
	calls  int
}

func (f *fakeCoinGecko) GetSimplePrices(_ context.Context, ids []string) (dexscreener_entity.SimplePriceResponse, error) {
	f.calls++
	if f.prices == nil {
		return nil, errNoData
	}
	return f.prices(ids)
}

func testNetwork() entity.NetworkDefinition {
	return entity.NetworkDefinition{
		ID:                   "ethereum",
		Name:                 "Ethereum",
		ChainID:              1,
		DexScreenerID:        "ethereum",
		NativeSymbol:         "ETH",
		WrappedNativeAddress: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		DelayMultiplier:      1.0,
	}
}

func testCaller(t *testing.T) *ratelimit.Caller {
	t.Helper()
	return ratelimit.New(ratelimit.Config{
		MaxRetries:  1,
		BaseDelay:   time.Millisecond,
		CallTimeout: time.Second,
	}, zap.NewNop())
}

// basePair builds a DEX Screener pair with the token on the base side.
func basePair(token entity.Address, priceUsd string, volumeH24, changeH24 float64) dexscreener_entity.PairData {
	return dexscreener_entity.PairData{
		ChainID:     "ethereum",
		PairAddress: "0xpair" + string(token[2:8]),
		BaseToken:   dexscreener_entity.DEXToken{Address: token.String(), Symbol: "BASE"},
		QuoteToken:  dexscreener_entity.DEXToken{Address: "0xdead000000000000000000000000000000000000", Symbol: "WETH"},
		PriceUsd:    priceUsd,
		Volume:      dexscreener_entity.PairVolume{H24: volumeH24},
		PriceChange: dexscreener_entity.PairPriceChange{H24: changeH24},
	}
}

func floatPtr(v float64) *float64 { return &v }
