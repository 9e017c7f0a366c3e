package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

func TestLookup(t *testing.T) {
	usdc := entity.Address("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")

	desc, ok := Lookup("ethereum", usdc)
	require.True(t, ok)
	assert.Equal(t, "USDC", desc.Symbol)
	assert.Equal(t, "USD Coin", desc.Name)
	assert.Equal(t, 6, desc.Decimals)
	assert.Equal(t, usdc, desc.Address)
	assert.Equal(t, entity.SourceRegistry, desc.Source)

	_, ok = Lookup("ethereum", "0x1111111111111111111111111111111111111111")
	assert.False(t, ok)

	_, ok = Lookup("unknown-network", usdc)
	assert.False(t, ok)
}

func TestCoinGeckoID(t *testing.T) {
	id, ok := CoinGeckoID("ethereum", "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	require.True(t, ok)
	assert.Equal(t, "usd-coin", id)

	_, ok = CoinGeckoID("ethereum", "0x1111111111111111111111111111111111111111")
	assert.False(t, ok)
}

func TestRegistryAddressesAreNormalized(t *testing.T) {
	// Registry keys are lower-cased addresses; a checksummed key would be
	// unreachable after input normalization.
	for networkID, tokens := range knownTokens {
		for addr := range tokens {
			assert.Equal(t, strings.ToLower(string(addr)), string(addr),
				"network %s: token address %s not lower-cased", networkID, addr)
		}
	}
	for networkID, ids := range coinGeckoIDs {
		for addr := range ids {
			assert.Equal(t, strings.ToLower(string(addr)), string(addr),
				"network %s: token address %s not lower-cased", networkID, addr)
		}
	}
}
