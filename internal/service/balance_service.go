package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/client"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/ratelimit"
)

// BalanceFetcher reads raw wallet/token balances and scales them by the
// token's decimal precision into human-readable amounts.
type BalanceFetcher struct {
	explorer  client.ExplorerClient
	metadata  *MetadataResolver
	caller    *ratelimit.Caller
	threshold decimal.Decimal
	logger    *zap.Logger
}

// NewBalanceFetcher creates a new BalanceFetcher. threshold is the exclusive
// minimum scaled amount above which a balance counts as held.
func NewBalanceFetcher(explorer client.ExplorerClient, metadata *MetadataResolver, caller *ratelimit.Caller, threshold decimal.Decimal, logger *zap.Logger) *BalanceFetcher {
	return &BalanceFetcher{
		explorer:  explorer,
		metadata:  metadata,
		caller:    caller,
		threshold: threshold,
		logger:    logger.Named("BalanceFetcher"),
	}
}

// Fetch reads one wallet/token balance. Transient failures that exhaust the
// retry budget degrade to a zero observation carrying the error reason, so a
// single flaky token read never aborts the wallet. A returned error is
// terminal (bad credentials, malformed request) and fatal to the wallet:
// every later call through the same key would fail identically.
func (f *BalanceFetcher) Fetch(ctx context.Context, sess *Session, network entity.NetworkDefinition, wallet, token entity.Address) (entity.BalanceObservation, error) {
	raw, err := ratelimit.Do(ctx, f.caller, "explorer", func(ctx context.Context) (string, error) {
		if token.IsNative() {
			return f.explorer.NativeBalance(ctx, network, wallet)
		}
		return f.explorer.TokenBalance(ctx, network, wallet, token)
	})
	if err != nil {
		if ratelimit.IsTerminal(err) || ctx.Err() != nil {
			return entity.BalanceObservation{}, err
		}
		f.logger.Warn("Balance read failed after retries, reporting zero balance",
			zap.String("wallet", wallet.String()),
			zap.String("token", token.String()),
			zap.Error(err))
		return entity.ZeroBalance(wallet, token, err.Error()), nil
	}

	amount, err := parseRawAmount(raw)
	if err != nil {
		f.logger.Warn("Unparseable balance from explorer",
			zap.String("wallet", wallet.String()),
			zap.String("token", token.String()),
			zap.String("raw", raw),
			zap.Error(err))
		return entity.ZeroBalance(wallet, token, err.Error()), nil
	}

	if amount.IsZero() {
		// No need to resolve decimals for an empty balance.
		return entity.ZeroBalance(wallet, token, ""), nil
	}

	decimals := f.metadata.Resolve(ctx, sess, network, token).Decimals
	scaled := amount.Shift(int32(-decimals))

	return entity.BalanceObservation{
		Wallet:     wallet,
		Token:      token,
		Raw:        amount.String(),
		Scaled:     FormatAmount(scaled),
		HasBalance: scaled.GreaterThan(f.threshold),
	}, nil
}

// parseRawAmount accepts the provider's raw integer amount as either a
// base-10 decimal string or a 0x-prefixed hex string.
func parseRawAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty balance string")
	}
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		v, err := hexutil.DecodeBig(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("malformed hex balance %q: %w", raw, err)
		}
		return decimal.NewFromBigInt(v, 0), nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed balance %q: %w", raw, err)
	}
	return v, nil
}
