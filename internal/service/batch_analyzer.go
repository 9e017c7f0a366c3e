package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/config"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/pkg/metrics"
)

// Analyzer is the interface the HTTP layer depends on.
type Analyzer interface {
	Run(ctx context.Context, network entity.NetworkDefinition, wallets, tokens []entity.Address) entity.BatchResult
}

// BatchAnalyzer iterates wallets strictly one at a time, inserting a
// network-scaled delay between them, and collects per-wallet reports
// regardless of individual failures. Rate-limited providers punish
// concurrency; the sequential pace is deliberate.
type BatchAnalyzer struct {
	wallets *WalletAnalyzer
	cfg     config.AnalyzerConfig
	logger  *zap.Logger
}

// NewBatchAnalyzer creates a new BatchAnalyzer.
func NewBatchAnalyzer(wallets *WalletAnalyzer, cfg config.AnalyzerConfig, logger *zap.Logger) *BatchAnalyzer {
	return &BatchAnalyzer{
		wallets: wallets,
		cfg:     cfg,
		logger:  logger.Named("BatchAnalyzer"),
	}
}

// Run analyzes every wallet against the target token set and partitions the
// reports by coverage. Cancelling the context stops the batch between units
// of work; reports for wallets already analyzed are kept.
func (b *BatchAnalyzer) Run(ctx context.Context, network entity.NetworkDefinition, wallets, tokens []entity.Address) entity.BatchResult {
	start := time.Now()
	sess := NewSession()

	interWallet := time.Duration(float64(b.cfg.InterWalletDelay()) * network.DelayMultiplier)
	b.logger.Info("Starting batch analysis",
		zap.String("network", network.ID),
		zap.Int("wallets", len(wallets)),
		zap.Int("tokens", len(tokens)))

	reports := make([]entity.WalletReport, 0, len(wallets))
	for i, wallet := range wallets {
		if i > 0 {
			if err := sleepFor(ctx, interWallet); err != nil {
				b.logger.Warn("Batch canceled, returning completed reports",
					zap.Int("completed", len(reports)),
					zap.Error(err))
				break
			}
		}
		reports = append(reports, b.wallets.Analyze(ctx, sess, network, wallet, tokens))
	}

	all, some, none := Partition(reports, tokens)
	metrics.WalletsAnalyzedTotal.WithLabelValues(string(entity.CategoryAll)).Add(float64(len(all)))
	metrics.WalletsAnalyzedTotal.WithLabelValues(string(entity.CategorySome)).Add(float64(len(some)))
	metrics.WalletsAnalyzedTotal.WithLabelValues(string(entity.CategoryNone)).Add(float64(len(none)))

	elapsed := time.Since(start)
	metrics.BatchDuration.Observe(elapsed.Seconds())
	b.logger.Info("Batch analysis complete",
		zap.Int("all", len(all)),
		zap.Int("some", len(some)),
		zap.Int("none", len(none)),
		zap.Duration("elapsed", elapsed))

	return entity.BatchResult{
		AllTokens:   all,
		SomeTokens:  some,
		NoTokens:    none,
		WalletCount: len(reports),
		TokenCount:  len(tokens),
		Elapsed:     elapsed,
	}
}
