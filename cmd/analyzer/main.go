package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/client"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/config"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/logger"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/ratelimit"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/restapi"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/service"
	"github.com/Oskar181/ethereum-wallet-analyzer/pkg/metrics"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		// Config loading logs through logrus before zap exists.
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		os.Exit(1)
	}
	defer zapLogger.Sync()

	metrics.MustRegisterMetrics()

	callerCfg := ratelimit.Config{
		MaxRetries:      cfg.RateLimit.MaxRetries,
		BaseDelay:       time.Duration(cfg.RateLimit.BaseDelayMs) * time.Millisecond,
		CallTimeout:     time.Duration(cfg.RateLimit.CallTimeoutMs) * time.Millisecond,
		MinCallInterval: time.Duration(cfg.RateLimit.MinCallIntervalMs) * time.Millisecond,
	}
	caller := ratelimit.New(callerCfg, zapLogger)

	explorerClient := client.NewExplorerClient(callerCfg.CallTimeout, zapLogger)
	dexScreenerClient := client.NewDEXScreenerClient(
		cfg.DexScreener.BaseURL,
		time.Duration(cfg.DexScreener.RequestTimeoutMs)*time.Millisecond,
		zapLogger,
		cfg.DexScreener.MaxTokensPerRequest,
	)
	coinGeckoClient := client.NewCoinGeckoClient(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.APIKey,
		time.Duration(cfg.CoinGecko.RequestTimeoutMs)*time.Millisecond,
		zapLogger,
	)
	zapLogger.Info("Provider clients initialized")

	threshold, err := decimal.NewFromString(cfg.Analyzer.MinBalanceThreshold)
	if err != nil {
		zapLogger.Fatal("Invalid minBalanceThreshold in config",
			zap.String("value", cfg.Analyzer.MinBalanceThreshold), zap.Error(err))
	}

	metadataResolver := service.NewMetadataResolver(explorerClient, caller, zapLogger)
	priceResolver := service.NewPriceResolver(dexScreenerClient, coinGeckoClient, caller, zapLogger)
	balanceFetcher := service.NewBalanceFetcher(explorerClient, metadataResolver, caller, threshold, zapLogger)
	walletAnalyzer := service.NewWalletAnalyzer(balanceFetcher, metadataResolver, priceResolver, cfg.Analyzer, zapLogger)
	batchAnalyzer := service.NewBatchAnalyzer(walletAnalyzer, cfg.Analyzer, zapLogger)
	zapLogger.Info("Analysis pipeline initialized",
		zap.Int("maxWallets", cfg.Analyzer.MaxWallets),
		zap.Int("maxTokens", cfg.Analyzer.MaxTokens))

	handler := restapi.NewAnalyzerHandler(batchAnalyzer, cfg, zapLogger)
	router := restapi.SetupRouter(handler, cfg, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		zapLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("Server exited with error", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
