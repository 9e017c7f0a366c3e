package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/ratelimit"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DEXScreenerClient defines the interface for interacting with the DEX
// Screener API, the primary market-data source.
type DEXScreenerClient interface {
	GetTokenPairsByAddresses(ctx context.Context, dexscreenerChainID string, tokenAddresses []string) ([]entity.PairData, error)
}

// dexScreenerClientImpl is the implementation of DEXScreenerClient.
type dexScreenerClientImpl struct {
	client              *fasthttp.Client
	baseURL             string
	timeout             time.Duration
	logger              *zap.Logger
	maxTokensPerRequest int
}

// NewDEXScreenerClient creates a new instance of dexScreenerClientImpl.
func NewDEXScreenerClient(baseURL string, timeout time.Duration, logger *zap.Logger, maxTokensPerRequest int) DEXScreenerClient {
	return &dexScreenerClientImpl{
		client:              &fasthttp.Client{},
		baseURL:             strings.TrimRight(baseURL, "/"),
		timeout:             timeout,
		logger:              logger.Named("DEXScreenerClient"),
		maxTokensPerRequest: maxTokensPerRequest,
	}
}

// GetTokenPairsByAddresses fetches the trading pairs involving the given
// tokens on one chain. Up to maxTokensPerRequest addresses per call.
func (c *dexScreenerClientImpl) GetTokenPairsByAddresses(ctx context.Context, dexscreenerChainID string, tokenAddresses []string) ([]entity.PairData, error) {
	if len(tokenAddresses) == 0 {
		return nil, ratelimit.Terminal(fmt.Errorf("tokenAddresses cannot be empty"))
	}
	if len(tokenAddresses) > c.maxTokensPerRequest {
		return nil, ratelimit.Terminal(fmt.Errorf("number of token addresses (%d) exceeds max tokens per request (%d)",
			len(tokenAddresses), c.maxTokensPerRequest))
	}

	addresses := strings.Join(tokenAddresses, ",")
	requestURL := fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, dexscreenerChainID, addresses)

	c.logger.Debug("Requesting token pairs from DEX Screener", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, ratelimit.Retryable(fmt.Errorf("failed to execute request to %s: %w", requestURL, err))
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, ratelimit.Retryable(fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err))
		}
	}

	rawBody := resp.Body()

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusOK:
	case status == fasthttp.StatusTooManyRequests || status >= 500:
		return nil, ratelimit.Retryable(fmt.Errorf("DEX Screener API request failed with status %d", status))
	default:
		return nil, ratelimit.Terminal(fmt.Errorf("DEX Screener API request failed with status %d: %s", status, rawBody))
	}

	// The tokens endpoint answers with a bare array, but some deployments
	// wrap it in an object keyed by "pairs". Accept both.
	var wrapper entity.DEXTokenPair
	if err := json.Unmarshal(rawBody, &wrapper); err == nil && wrapper.Pairs != nil {
		c.logger.Debug("Unmarshalled DEX Screener response (wrapped object)",
			zap.String("chainId", dexscreenerChainID),
			zap.Int("pairCount", len(wrapper.Pairs)))
		return wrapper.Pairs, nil
	}

	var directPairs []entity.PairData
	if err := json.Unmarshal(rawBody, &directPairs); err != nil {
		return nil, ratelimit.Retryable(fmt.Errorf("failed to unmarshal DEX Screener response from %s: %w", requestURL, err))
	}

	if len(directPairs) == 0 {
		c.logger.Debug("DEX Screener returned no pairs",
			zap.String("chainId", dexscreenerChainID),
			zap.String("addresses", addresses))
	}
	return directPairs, nil
}
