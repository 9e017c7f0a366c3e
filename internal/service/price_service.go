package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/client"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
	dexscreener_entity "github.com/Oskar181/ethereum-wallet-analyzer/internal/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/ratelimit"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/registry"
)

// PriceResolver resolves a token's USD price and 24h change through an
// ordered fallback chain: DEX Screener trading pairs, then the curated
// CoinGecko mapping, then no price at all. A missing price is a valid
// outcome, never an error.
type PriceResolver struct {
	dex    client.DEXScreenerClient
	gecko  client.CoinGeckoClient
	caller *ratelimit.Caller
	logger *zap.Logger
}

// NewPriceResolver creates a new PriceResolver.
func NewPriceResolver(dex client.DEXScreenerClient, gecko client.CoinGeckoClient, caller *ratelimit.Caller, logger *zap.Logger) *PriceResolver {
	return &PriceResolver{
		dex:    dex,
		gecko:  gecko,
		caller: caller,
		logger: logger.Named("PriceResolver"),
	}
}

// Resolve returns the price quote for a token on a network, memoized per
// session. The native coin is priced through the network's wrapped-native
// contract.
func (r *PriceResolver) Resolve(ctx context.Context, sess *Session, network entity.NetworkDefinition, token entity.Address) entity.PriceQuote {
	if quote, ok := sess.priceFor(token); ok {
		return quote
	}

	lookup := token
	if token.IsNative() && network.WrappedNativeAddress != "" {
		lookup = network.WrappedNativeAddress
	}

	quote := r.resolveUncached(ctx, network, lookup)
	quote.Token = token
	sess.storePrice(quote)
	return quote
}

func (r *PriceResolver) resolveUncached(ctx context.Context, network entity.NetworkDefinition, token entity.Address) entity.PriceQuote {
	var reasons []string

	if network.DexScreenerID == "" {
		reasons = append(reasons, "network not covered by primary source")
	} else {
		quote, reason := r.resolvePrimary(ctx, network, token)
		if quote != nil {
			return *quote
		}
		reasons = append(reasons, reason)
	}

	quote, reason := r.resolveBackup(ctx, network, token)
	if quote != nil {
		return *quote
	}
	reasons = append(reasons, reason)

	return entity.NoPrice(token, strings.Join(reasons, "; "))
}

// resolvePrimary queries DEX Screener for the token's trading pairs and
// keeps the pair with the highest 24h volume, first encountered winning
// ties. Only pairs where the token is the base side are considered: the
// quoted priceUsd of a pair denominates its base token, so a quote-side
// match carries the counterparty's price, not ours.
func (r *PriceResolver) resolvePrimary(ctx context.Context, network entity.NetworkDefinition, token entity.Address) (*entity.PriceQuote, string) {
	pairs, err := ratelimit.Do(ctx, r.caller, "dexscreener", func(ctx context.Context) ([]dexscreener_entity.PairData, error) {
		return r.dex.GetTokenPairsByAddresses(ctx, network.DexScreenerID, []string{token.String()})
	})
	if err != nil {
		r.logger.Warn("Primary price source failed",
			zap.String("token", token.String()),
			zap.String("network", network.ID),
			zap.Error(err))
		return nil, "primary source failed: " + err.Error()
	}

	best := selectBestPair(pairs, token)
	if best == nil {
		return nil, "no trading pairs found on primary source"
	}

	price, err := strconv.ParseFloat(best.PriceUsd, 64)
	if err != nil {
		r.logger.Warn("Failed to parse priceUsd from pair",
			zap.String("token", token.String()),
			zap.String("priceUsd", best.PriceUsd),
			zap.Error(err))
		return nil, "unparseable price on primary source"
	}

	change := best.PriceChange.H24
	r.logger.Debug("Resolved price from primary source",
		zap.String("token", token.String()),
		zap.String("pairAddress", best.PairAddress),
		zap.Float64("priceUsd", price),
		zap.Float64("volumeH24", best.Volume.H24))
	return &entity.PriceQuote{
		Token:     token,
		PriceUSD:  &price,
		Change24h: &change,
		Source:    entity.PricePrimary,
	}, ""
}

// selectBestPair picks the base-side pair with the highest 24h volume.
func selectBestPair(pairs []dexscreener_entity.PairData, token entity.Address) *dexscreener_entity.PairData {
	var best *dexscreener_entity.PairData
	for i := range pairs {
		pair := &pairs[i]
		if !strings.EqualFold(pair.BaseToken.Address, token.String()) {
			continue
		}
		if pair.PriceUsd == "" || pair.PriceUsd == "0" {
			continue
		}
		if best == nil || pair.Volume.H24 > best.Volume.H24 {
			best = pair
		}
	}
	return best
}

// resolveBackup queries CoinGecko through the curated address-to-identifier
// mapping. Used only when the primary source yields nothing for the network.
func (r *PriceResolver) resolveBackup(ctx context.Context, network entity.NetworkDefinition, token entity.Address) (*entity.PriceQuote, string) {
	id, ok := registry.CoinGeckoID(network.ID, token)
	if !ok {
		return nil, "token not covered by backup source"
	}

	prices, err := ratelimit.Do(ctx, r.caller, "coingecko", func(ctx context.Context) (dexscreener_entity.SimplePriceResponse, error) {
		return r.gecko.GetSimplePrices(ctx, []string{id})
	})
	if err != nil {
		r.logger.Warn("Backup price source failed",
			zap.String("token", token.String()),
			zap.String("id", id),
			zap.Error(err))
		return nil, "backup source failed: " + err.Error()
	}

	entry, found := prices[id]
	if !found || entry.USD == nil {
		return nil, "backup source has no USD quote for " + id
	}

	r.logger.Debug("Resolved price from backup source",
		zap.String("token", token.String()),
		zap.String("id", id),
		zap.Float64("priceUsd", *entry.USD))
	return &entity.PriceQuote{
		Token:     token,
		PriceUSD:  entry.USD,
		Change24h: entry.USD24hChange,
		Source:    entity.PriceBackup,
	}, ""
}
