package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/ratelimit"
)

// CoinGeckoClient is the backup price source, queried by curated coin
// identifiers rather than contract addresses.
type CoinGeckoClient interface {
	GetSimplePrices(ctx context.Context, ids []string) (entity.SimplePriceResponse, error)
}

type coinGeckoClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a new CoinGecko client. The API key is optional;
// without one the public rate limits apply.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) CoinGeckoClient {
	return &coinGeckoClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// GetSimplePrices fetches USD price and 24h change for the given coin ids.
func (c *coinGeckoClientImpl) GetSimplePrices(ctx context.Context, ids []string) (entity.SimplePriceResponse, error) {
	if len(ids) == 0 {
		return nil, ratelimit.Terminal(fmt.Errorf("ids cannot be empty"))
	}

	params := url.Values{
		"ids":                 {strings.Join(ids, ",")},
		"vs_currencies":       {"usd"},
		"include_24hr_change": {"true"},
	}
	requestURL := c.baseURL + "/api/v3/simple/price?" + params.Encode()

	c.logger.Debug("Requesting prices from CoinGecko", zap.Strings("ids", ids))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, ratelimit.Retryable(fmt.Errorf("failed to execute request to CoinGecko: %w", err))
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, ratelimit.Retryable(fmt.Errorf("failed to execute request to CoinGecko: %w", err))
		}
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusOK:
	case status == fasthttp.StatusTooManyRequests || status >= 500:
		return nil, ratelimit.Retryable(fmt.Errorf("CoinGecko API request failed with status %d", status))
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return nil, ratelimit.Terminal(fmt.Errorf("CoinGecko API rejected credentials (status %d)", status))
	default:
		return nil, ratelimit.Terminal(fmt.Errorf("CoinGecko API request failed with status %d: %s", status, resp.Body()))
	}

	var prices entity.SimplePriceResponse
	if err := json.Unmarshal(resp.Body(), &prices); err != nil {
		return nil, ratelimit.Retryable(fmt.Errorf("failed to unmarshal CoinGecko response: %w", err))
	}
	return prices, nil
}
