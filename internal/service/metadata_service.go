package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/client"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/ratelimit"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/registry"
)

// Minimal ERC-20 metadata ABI: the three read-only introspection views.
const erc20MetadataABI = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

var (
	parsedMetadataABI  abi.ABI
	parsedMetadataOnce sync.Once
)

func metadataABI() abi.ABI {
	parsedMetadataOnce.Do(func() {
		var err error
		parsedMetadataABI, err = abi.JSON(strings.NewReader(erc20MetadataABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 metadata ABI: %v", err))
		}
	})
	return parsedMetadataABI
}

// MetadataResolver resolves a token's symbol, name and decimal precision
// through an ordered fallback chain: curated registry, on-chain contract
// introspection, synthesized fallback. It never fails; every path yields a
// usable descriptor.
type MetadataResolver struct {
	explorer client.ExplorerClient
	caller   *ratelimit.Caller
	logger   *zap.Logger
}

// NewMetadataResolver creates a new MetadataResolver.
func NewMetadataResolver(explorer client.ExplorerClient, caller *ratelimit.Caller, logger *zap.Logger) *MetadataResolver {
	return &MetadataResolver{
		explorer: explorer,
		caller:   caller,
		logger:   logger.Named("MetadataResolver"),
	}
}

// Resolve returns the descriptor for a token on a network. Results are
// memoized in the session, so repeated resolutions within one run are free
// and identical.
func (r *MetadataResolver) Resolve(ctx context.Context, sess *Session, network entity.NetworkDefinition, token entity.Address) entity.TokenDescriptor {
	if desc, ok := sess.metadataFor(token); ok {
		return desc
	}

	desc := r.resolveUncached(ctx, network, token)
	sess.storeMetadata(desc)
	return desc
}

func (r *MetadataResolver) resolveUncached(ctx context.Context, network entity.NetworkDefinition, token entity.Address) entity.TokenDescriptor {
	if token.IsNative() {
		return entity.TokenDescriptor{
			Address:  token,
			Symbol:   network.NativeSymbol,
			Name:     network.Name + " native coin",
			Decimals: entity.DefaultDecimals,
			Source:   entity.SourceRegistry,
		}
	}

	if desc, ok := registry.Lookup(network.ID, token); ok {
		r.logger.Debug("Resolved token metadata from registry",
			zap.String("token", token.String()),
			zap.String("symbol", desc.Symbol))
		return desc
	}

	if desc, ok := r.resolveOnChain(ctx, network, token); ok {
		return desc
	}

	return fallbackDescriptor(token)
}

// resolveOnChain performs the three independent introspection reads. Each
// read is retried individually; a failed decimals read falls back to 18, a
// failed name or symbol read just leaves the field empty. The step counts as
// successful only if at least one of symbol or name resolved.
func (r *MetadataResolver) resolveOnChain(ctx context.Context, network entity.NetworkDefinition, token entity.Address) (entity.TokenDescriptor, bool) {
	desc := entity.TokenDescriptor{
		Address:  token,
		Decimals: entity.DefaultDecimals,
		Source:   entity.SourceOnChain,
	}

	if name, err := r.callString(ctx, network, token, "name"); err == nil {
		desc.Name = name
	} else {
		r.logger.Debug("On-chain name read failed", zap.String("token", token.String()), zap.Error(err))
	}
	if symbol, err := r.callString(ctx, network, token, "symbol"); err == nil {
		desc.Symbol = symbol
	} else {
		r.logger.Debug("On-chain symbol read failed", zap.String("token", token.String()), zap.Error(err))
	}
	if decimals, err := r.callDecimals(ctx, network, token); err == nil {
		desc.Decimals = decimals
	} else {
		r.logger.Debug("On-chain decimals read failed, defaulting to 18",
			zap.String("token", token.String()), zap.Error(err))
	}

	if desc.Symbol == "" && desc.Name == "" {
		return entity.TokenDescriptor{}, false
	}
	return desc, true
}

func (r *MetadataResolver) callString(ctx context.Context, network entity.NetworkDefinition, token entity.Address, method string) (string, error) {
	contractABI := metadataABI()
	data, err := contractABI.Pack(method)
	if err != nil {
		return "", err
	}
	raw, err := ratelimit.Do(ctx, r.caller, "explorer", func(ctx context.Context) ([]byte, error) {
		return r.explorer.Call(ctx, network, token, data)
	})
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("%s() returned no data", method)
	}
	unpacked, err := contractABI.Unpack(method, raw)
	if err != nil {
		return "", fmt.Errorf("failed to unpack %s(): %w", method, err)
	}
	value, ok := unpacked[0].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s() returned empty or non-string value", method)
	}
	return strings.TrimSpace(value), nil
}

func (r *MetadataResolver) callDecimals(ctx context.Context, network entity.NetworkDefinition, token entity.Address) (int, error) {
	contractABI := metadataABI()
	data, err := contractABI.Pack("decimals")
	if err != nil {
		return 0, err
	}
	raw, err := ratelimit.Do(ctx, r.caller, "explorer", func(ctx context.Context) ([]byte, error) {
		return r.explorer.Call(ctx, network, token, data)
	})
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, fmt.Errorf("decimals() returned no data")
	}
	unpacked, err := contractABI.Unpack("decimals", raw)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack decimals(): %w", err)
	}
	value, ok := unpacked[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals() returned unexpected type %T", unpacked[0])
	}
	return int(value), nil
}

// fallbackDescriptor synthesizes a descriptor for a token nothing else could
// identify: the symbol is derived from the leading hex characters of the
// address and the precision defaults to 18.
func fallbackDescriptor(token entity.Address) entity.TokenDescriptor {
	return entity.TokenDescriptor{
		Address:  token,
		Symbol:   "TKN-" + strings.ToUpper(string(token[2:8])),
		Name:     "Unknown Token (" + string(token[:10]) + "...)",
		Decimals: entity.DefaultDecimals,
		Source:   entity.SourceFallback,
	}
}
