// Package registry holds the curated, build-time token knowledge used by the
// resolution fallback chains: well-known token descriptors per network and
// the address-to-identifier mapping for the backup price source.
package registry

import (
	"strings"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

// knownTokens maps network id to lower-cased contract address to descriptor.
var knownTokens = map[string]map[entity.Address]entity.TokenDescriptor{
	"ethereum": {
		"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
		"0xdac17f958d2ee523a2206206994597c13d831ec7": {Symbol: "USDT", Name: "Tether USD", Decimals: 6},
		"0x6b175474e89094c44da98b954eedeac495271d0f": {Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18},
		"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": {Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
		"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": {Symbol: "WBTC", Name: "Wrapped BTC", Decimals: 8},
		"0x514910771af9ca656af840dff83e8264ecf986ca": {Symbol: "LINK", Name: "ChainLink Token", Decimals: 18},
		"0x1f9840a85d5af5bf1d1762f925bdaddc4201f984": {Symbol: "UNI", Name: "Uniswap", Decimals: 18},
		"0x95ad61b0a150d79219dcf64e1e6cc01f0b64c4ce": {Symbol: "SHIB", Name: "Shiba Inu", Decimals: 18},
		"0x6982508145454ce325ddbe47a25d4ec3d2311933": {Symbol: "PEPE", Name: "Pepe", Decimals: 18},
		"0x7d1afa7b718fb893db30a3abc0cfc608aacfebb0": {Symbol: "MATIC", Name: "Matic Token", Decimals: 18},
	},
	"base": {
		"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913": {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
		"0x4200000000000000000000000000000000000006": {Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
		"0x50c5725949a6f0c72e6c4a641f24049a917db0cb": {Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18},
	},
	"arbitrum": {
		"0xaf88d065e77c8cc2239327c5edb3a432268e5831": {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
		"0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9": {Symbol: "USDT", Name: "Tether USD", Decimals: 6},
		"0x82af49447d8a07e3bd95bd0d56f35241523fbab1": {Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
		"0x912ce59144191c1204e64559fe8253a0e49e6548": {Symbol: "ARB", Name: "Arbitrum", Decimals: 18},
	},
}

// coinGeckoIDs maps network id to lower-cased contract address to the
// CoinGecko coin identifier used by the backup price source. Deliberately
// small: only assets whose DEX liquidity is too thin or too fragmented for
// the primary source to be reliable need an entry.
var coinGeckoIDs = map[string]map[entity.Address]string{
	"ethereum": {
		"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": "usd-coin",
		"0xdac17f958d2ee523a2206206994597c13d831ec7": "tether",
		"0x6b175474e89094c44da98b954eedeac495271d0f": "dai",
		"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": "weth",
		"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": "wrapped-bitcoin",
		"0x514910771af9ca656af840dff83e8264ecf986ca": "chainlink",
		"0x1f9840a85d5af5bf1d1762f925bdaddc4201f984": "uniswap",
	},
	"base": {
		"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913": "usd-coin",
		"0x4200000000000000000000000000000000000006": "weth",
	},
	"arbitrum": {
		"0xaf88d065e77c8cc2239327c5edb3a432268e5831": "usd-coin",
		"0x82af49447d8a07e3bd95bd0d56f35241523fbab1": "weth",
		"0x912ce59144191c1204e64559fe8253a0e49e6548": "arbitrum",
	},
}

// Lookup returns the curated descriptor for a token on a network, with the
// address and registry provenance filled in.
func Lookup(networkID string, token entity.Address) (entity.TokenDescriptor, bool) {
	tokens, ok := knownTokens[strings.ToLower(networkID)]
	if !ok {
		return entity.TokenDescriptor{}, false
	}
	desc, ok := tokens[token]
	if !ok {
		return entity.TokenDescriptor{}, false
	}
	desc.Address = token
	desc.Source = entity.SourceRegistry
	return desc, true
}

// CoinGeckoID returns the backup price identifier for a token, if curated.
func CoinGeckoID(networkID string, token entity.Address) (string, bool) {
	ids, ok := coinGeckoIDs[strings.ToLower(networkID)]
	if !ok {
		return "", false
	}
	id, ok := ids[token]
	return id, ok
}
