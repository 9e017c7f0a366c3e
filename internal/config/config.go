package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server         ServerConfig               `yaml:"server"`
	Networks       []entity.NetworkDefinition `yaml:"networks"`
	DefaultNetwork string                     `yaml:"defaultNetwork"`
	Analyzer       AnalyzerConfig             `yaml:"analyzer"`
	RateLimit      RateLimitConfig            `yaml:"ratelimit"`
	DexScreener    DexScreenerConfig          `yaml:"dexscreener"`
	CoinGecko      CoinGeckoConfig            `yaml:"coingecko"`
	Logging        LoggingConfig              `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port              string `yaml:"port"`
	ReadTimeout       int    `yaml:"readTimeout"`
	WriteTimeout      int    `yaml:"writeTimeout"`
	IdleTimeout       int    `yaml:"idleTimeout"`
	MaxBodyBytes      int64  `yaml:"maxBodyBytes"`
	RequestsPerSecond int    `yaml:"requestsPerSecond"`
}

// AnalyzerConfig holds the pipeline pacing and limit configuration.
type AnalyzerConfig struct {
	MaxWallets          int    `yaml:"maxWallets"`
	MaxTokens           int    `yaml:"maxTokens"`
	InterTokenDelayMs   int64  `yaml:"interTokenDelayMs"`
	InterWalletDelayMs  int64  `yaml:"interWalletDelayMs"`
	MinBalanceThreshold string `yaml:"minBalanceThreshold"`
}

// RateLimitConfig holds the retry/backoff budget for external calls.
type RateLimitConfig struct {
	MaxRetries        int   `yaml:"maxRetries"`
	BaseDelayMs       int64 `yaml:"baseDelayMs"`
	CallTimeoutMs     int64 `yaml:"callTimeoutMs"`
	MinCallIntervalMs int64 `yaml:"minCallIntervalMs"`
}

// DexScreenerConfig holds the configuration for the DEX Screener client.
type DexScreenerConfig struct {
	BaseURL             string `yaml:"baseUrl"`
	RequestTimeoutMs    int64  `yaml:"requestTimeoutMs"`
	MaxTokensPerRequest int    `yaml:"maxTokensPerRequest"`
}

// CoinGeckoConfig holds the configuration for the CoinGecko backup client.
type CoinGeckoConfig struct {
	BaseURL          string `yaml:"baseUrl"`
	APIKey           string `yaml:"apiKey"`
	RequestTimeoutMs int64  `yaml:"requestTimeoutMs"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

func (c *AnalyzerConfig) InterTokenDelay() time.Duration {
	return time.Duration(c.InterTokenDelayMs) * time.Millisecond
}

func (c *AnalyzerConfig) InterWalletDelay() time.Duration {
	return time.Duration(c.InterWalletDelayMs) * time.Millisecond
}

// Network looks up a network definition by id. The empty id resolves to the
// configured default network.
func (c *Config) Network(id string) (entity.NetworkDefinition, bool) {
	if id == "" {
		id = c.DefaultNetwork
	}
	for _, n := range c.Networks {
		if n.ID == id {
			return n, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// LoadConfig loads configuration from a YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// API keys come in through the environment.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 64 << 10
	}
	if cfg.Server.RequestsPerSecond == 0 {
		cfg.Server.RequestsPerSecond = 5
	}
	if cfg.Analyzer.MaxWallets == 0 {
		cfg.Analyzer.MaxWallets = 50
	}
	if cfg.Analyzer.MaxTokens == 0 {
		cfg.Analyzer.MaxTokens = 20
	}
	if cfg.Analyzer.InterTokenDelayMs == 0 {
		cfg.Analyzer.InterTokenDelayMs = 200
		logrus.Infof("InterTokenDelayMs not set, defaulting to %d", cfg.Analyzer.InterTokenDelayMs)
	}
	if cfg.Analyzer.InterWalletDelayMs == 0 {
		cfg.Analyzer.InterWalletDelayMs = 500
		logrus.Infof("InterWalletDelayMs not set, defaulting to %d", cfg.Analyzer.InterWalletDelayMs)
	}
	if cfg.Analyzer.MinBalanceThreshold == "" {
		cfg.Analyzer.MinBalanceThreshold = "0.000001"
	}
	if cfg.RateLimit.MaxRetries == 0 {
		cfg.RateLimit.MaxRetries = 3
	}
	if cfg.RateLimit.BaseDelayMs == 0 {
		cfg.RateLimit.BaseDelayMs = 1000
	}
	if cfg.RateLimit.CallTimeoutMs == 0 {
		cfg.RateLimit.CallTimeoutMs = 10000
	}
	if cfg.RateLimit.MinCallIntervalMs == 0 {
		cfg.RateLimit.MinCallIntervalMs = 200
	}
	if cfg.DexScreener.BaseURL == "" {
		cfg.DexScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DexScreener.BaseURL not set, defaulting to %s", cfg.DexScreener.BaseURL)
	}
	if cfg.DexScreener.RequestTimeoutMs == 0 {
		cfg.DexScreener.RequestTimeoutMs = 10000
	}
	if cfg.DexScreener.MaxTokensPerRequest == 0 {
		cfg.DexScreener.MaxTokensPerRequest = 30
	}
	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com"
	}
	if cfg.CoinGecko.RequestTimeoutMs == 0 {
		cfg.CoinGecko.RequestTimeoutMs = 10000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	for i := range cfg.Networks {
		if cfg.Networks[i].DelayMultiplier == 0 {
			cfg.Networks[i].DelayMultiplier = 1.0
		}
	}
}

func validate(cfg *Config) error {
	if len(cfg.Networks) == 0 {
		return fmt.Errorf("config: at least one network must be defined")
	}
	seen := make(map[string]struct{}, len(cfg.Networks))
	for _, n := range cfg.Networks {
		if n.ID == "" {
			return fmt.Errorf("config: network with chainId %d is missing an id", n.ChainID)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("config: duplicate network id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.ExplorerAPIURL == "" {
			return fmt.Errorf("config: network %q is missing explorerApiUrl", n.ID)
		}
		if n.DexScreenerID == "" {
			logrus.Warnf("Network %q has no dexScreenerId; primary price resolution will be skipped for it.", n.ID)
		}
	}
	if cfg.DefaultNetwork == "" {
		cfg.DefaultNetwork = cfg.Networks[0].ID
		logrus.Infof("defaultNetwork not set, defaulting to %q", cfg.DefaultNetwork)
	}
	if _, ok := cfg.Network(cfg.DefaultNetwork); !ok {
		return fmt.Errorf("config: defaultNetwork %q is not a defined network", cfg.DefaultNetwork)
	}
	return nil
}
