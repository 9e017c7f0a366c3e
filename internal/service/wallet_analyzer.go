package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/config"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

// WalletAnalyzer runs the per-wallet pipeline: fetch balances for every
// target token, keep the held ones, resolve metadata and pricing for the
// survivors only, and aggregate the wallet total.
type WalletAnalyzer struct {
	balances *BalanceFetcher
	metadata *MetadataResolver
	prices   *PriceResolver
	cfg      config.AnalyzerConfig
	logger   *zap.Logger
}

// NewWalletAnalyzer creates a new WalletAnalyzer.
func NewWalletAnalyzer(balances *BalanceFetcher, metadata *MetadataResolver, prices *PriceResolver, cfg config.AnalyzerConfig, logger *zap.Logger) *WalletAnalyzer {
	return &WalletAnalyzer{
		balances: balances,
		metadata: metadata,
		prices:   prices,
		cfg:      cfg,
		logger:   logger.Named("WalletAnalyzer"),
	}
}

// Analyze produces the report for one wallet. Tokens are processed strictly
// one at a time with an inter-token delay; a fatal failure yields a report
// with empty holdings and the error recorded, never a panic or a batch-level
// abort.
func (a *WalletAnalyzer) Analyze(ctx context.Context, sess *Session, network entity.NetworkDefinition, wallet entity.Address, tokens []entity.Address) entity.WalletReport {
	report := entity.WalletReport{Wallet: wallet, Holdings: []entity.TokenHolding{}}

	observations := make([]entity.BalanceObservation, 0, len(tokens))
	for i, token := range tokens {
		if i > 0 {
			if err := sleepFor(ctx, a.cfg.InterTokenDelay()); err != nil {
				report.Err = err.Error()
				return report
			}
		}
		obs, err := a.balances.Fetch(ctx, sess, network, wallet, token)
		if err != nil {
			a.logger.Warn("Wallet analysis failed fatally",
				zap.String("wallet", wallet.String()),
				zap.String("token", token.String()),
				zap.Error(err))
			report.Err = err.Error()
			return report
		}
		if obs.HasBalance {
			observations = append(observations, obs)
		}
	}

	// Metadata and pricing only for tokens the wallet actually holds.
	var total float64
	for _, obs := range observations {
		desc := a.metadata.Resolve(ctx, sess, network, obs.Token)
		quote := a.prices.Resolve(ctx, sess, network, obs.Token)
		value := Value(obs, quote)
		if value.USD != nil {
			total += *value.USD
		}
		report.Holdings = append(report.Holdings, entity.TokenHolding{
			Token:   desc,
			Balance: obs,
			Price:   quote,
			Value:   value,
		})
	}
	report.TotalUSD = total

	a.logger.Debug("Wallet analyzed",
		zap.String("wallet", wallet.String()),
		zap.Int("matched", len(report.Holdings)),
		zap.Float64("totalUsd", report.TotalUSD))
	return report
}

func sleepFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
