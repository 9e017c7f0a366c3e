package restapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/config"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/service"
	"github.com/Oskar181/ethereum-wallet-analyzer/pkg/metrics"
)

// AnalyzeRequest is the inbound request body.
type AnalyzeRequest struct {
	Wallets []string `json:"wallets"`
	Tokens  []string `json:"tokens"`
	Network string   `json:"network"`
}

// AnalyzeResponse is the outbound response body: the tri-partitioned wallet
// reports plus request bookkeeping. Malformed input addresses are reported
// back rather than failing the request.
type AnalyzeResponse struct {
	Network        string                `json:"network"`
	AllTokens      []entity.WalletReport `json:"allTokens"`
	SomeTokens     []entity.WalletReport `json:"someTokens"`
	NoTokens       []entity.WalletReport `json:"noTokens"`
	WalletCount    int                   `json:"walletCount"`
	TokenCount     int                   `json:"tokenCount"`
	DurationMs     int64                 `json:"durationMs"`
	InvalidWallets []string              `json:"invalidWallets,omitempty"`
	InvalidTokens  []string              `json:"invalidTokens,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// AnalyzerHandler serves the analysis endpoints.
type AnalyzerHandler struct {
	analyzer service.Analyzer
	cfg      *config.Config
	logger   *zap.Logger
}

// NewAnalyzerHandler creates a new AnalyzerHandler.
func NewAnalyzerHandler(analyzer service.Analyzer, cfg *config.Config, logger *zap.Logger) *AnalyzerHandler {
	return &AnalyzerHandler{
		analyzer: analyzer,
		cfg:      cfg,
		logger:   logger.Named("AnalyzerHandler"),
	}
}

// AnalyzeHandler validates the request and runs the batch pipeline. All
// input validation happens before any network activity starts.
func (h *AnalyzerHandler) AnalyzeHandler(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if len(req.Wallets) == 0 || len(req.Tokens) == 0 {
		h.reject(c, http.StatusBadRequest, "wallets and tokens must be non-empty")
		return
	}
	if max := h.cfg.Analyzer.MaxWallets; len(req.Wallets) > max {
		h.reject(c, http.StatusBadRequest, fmt.Sprintf("too many wallets: %d (max %d)", len(req.Wallets), max))
		return
	}
	if max := h.cfg.Analyzer.MaxTokens; len(req.Tokens) > max {
		h.reject(c, http.StatusBadRequest, fmt.Sprintf("too many tokens: %d (max %d)", len(req.Tokens), max))
		return
	}

	network, ok := h.cfg.Network(req.Network)
	if !ok {
		h.reject(c, http.StatusBadRequest, fmt.Sprintf("unknown network %q", req.Network))
		return
	}

	wallets, invalidWallets := entity.PartitionAddresses(req.Wallets)
	tokens, invalidTokens := entity.PartitionAddresses(req.Tokens)
	if len(wallets) == 0 {
		h.reject(c, http.StatusBadRequest, "no valid wallet addresses in request")
		return
	}
	if len(tokens) == 0 {
		h.reject(c, http.StatusBadRequest, "no valid token addresses in request")
		return
	}

	result := h.analyzer.Run(c.Request.Context(), network, wallets, tokens)

	metrics.RequestsTotal.WithLabelValues("200").Inc()
	c.JSON(http.StatusOK, AnalyzeResponse{
		Network:        network.ID,
		AllTokens:      result.AllTokens,
		SomeTokens:     result.SomeTokens,
		NoTokens:       result.NoTokens,
		WalletCount:    result.WalletCount,
		TokenCount:     result.TokenCount,
		DurationMs:     result.Elapsed.Milliseconds(),
		InvalidWallets: invalidWallets,
		InvalidTokens:  invalidTokens,
	})
}

// NetworksHandler lists the supported network profiles. API keys never
// serialize.
func (h *AnalyzerHandler) NetworksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"networks": h.cfg.Networks, "default": h.cfg.DefaultNetwork})
}

// HealthHandler reports liveness.
func (h *AnalyzerHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AnalyzerHandler) reject(c *gin.Context, status int, msg string) {
	h.logger.Debug("Request rejected", zap.Int("status", status), zap.String("reason", msg))
	metrics.RequestsTotal.WithLabelValues(fmt.Sprintf("%d", status)).Inc()
	c.JSON(status, errorResponse{Error: msg})
}
