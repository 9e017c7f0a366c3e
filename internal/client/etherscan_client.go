package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	domain "github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/entity"
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/pkg/ratelimit"
)

// ExplorerClient talks to an Etherscan-style per-network API: the account
// module for balance reads and the proxy module for generic contract calls.
type ExplorerClient interface {
	TokenBalance(ctx context.Context, network domain.NetworkDefinition, wallet, token domain.Address) (string, error)
	NativeBalance(ctx context.Context, network domain.NetworkDefinition, wallet domain.Address) (string, error)
	Call(ctx context.Context, network domain.NetworkDefinition, to domain.Address, data []byte) ([]byte, error)
}

// explorerClientImpl is the fasthttp implementation of ExplorerClient.
type explorerClientImpl struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewExplorerClient creates a new explorer API client. The per-network
// endpoint and key come from the NetworkDefinition passed to each call.
func NewExplorerClient(timeout time.Duration, logger *zap.Logger) ExplorerClient {
	return &explorerClientImpl{
		client:  &fasthttp.Client{},
		timeout: timeout,
		logger:  logger.Named("ExplorerClient"),
	}
}

// TokenBalance reads one wallet/token raw balance. The result is a base-10
// integer string of arbitrary precision.
func (c *explorerClientImpl) TokenBalance(ctx context.Context, network domain.NetworkDefinition, wallet, token domain.Address) (string, error) {
	params := url.Values{
		"module":          {"account"},
		"action":          {"tokenbalance"},
		"contractaddress": {token.String()},
		"address":         {wallet.String()},
		"tag":             {"latest"},
	}
	return c.accountRequest(ctx, network, params)
}

// NativeBalance reads a wallet's native coin balance in wei.
func (c *explorerClientImpl) NativeBalance(ctx context.Context, network domain.NetworkDefinition, wallet domain.Address) (string, error) {
	params := url.Values{
		"module":  {"account"},
		"action":  {"balance"},
		"address": {wallet.String()},
		"tag":     {"latest"},
	}
	return c.accountRequest(ctx, network, params)
}

// Call performs a read-only contract call through the proxy module and
// returns the raw ABI-encoded result bytes.
func (c *explorerClientImpl) Call(ctx context.Context, network domain.NetworkDefinition, to domain.Address, data []byte) ([]byte, error) {
	params := url.Values{
		"module": {"proxy"},
		"action": {"eth_call"},
		"to":     {to.String()},
		"data":   {hexutil.Encode(data)},
		"tag":    {"latest"},
	}
	body, err := c.get(ctx, network, params)
	if err != nil {
		return nil, err
	}

	var resp entity.ProxyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, ratelimit.Retryable(fmt.Errorf("failed to unmarshal proxy response: %w", err))
	}
	if resp.Error != nil {
		// eth_call errors (reverts, bad params) do not get better on retry.
		return nil, ratelimit.Terminal(fmt.Errorf("proxy call failed: %s (code %d)", resp.Error.Message, resp.Error.Code))
	}
	if resp.Result == "" || resp.Result == "0x" {
		return nil, nil
	}
	decoded, err := hexutil.Decode(resp.Result)
	if err != nil {
		return nil, ratelimit.Terminal(fmt.Errorf("proxy call returned malformed hex: %w", err))
	}
	return decoded, nil
}

func (c *explorerClientImpl) accountRequest(ctx context.Context, network domain.NetworkDefinition, params url.Values) (string, error) {
	body, err := c.get(ctx, network, params)
	if err != nil {
		return "", err
	}

	var resp entity.AccountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", ratelimit.Retryable(fmt.Errorf("failed to unmarshal account response: %w", err))
	}
	if resp.Status != "1" {
		return "", classifyAccountError(resp)
	}
	return strings.TrimSpace(resp.Result), nil
}

func (c *explorerClientImpl) get(ctx context.Context, network domain.NetworkDefinition, params url.Values) ([]byte, error) {
	if network.ExplorerAPIKey != "" {
		params.Set("apikey", network.ExplorerAPIKey)
	}
	requestURL := network.ExplorerAPIURL + "?" + params.Encode()
	c.logger.Debug("Requesting explorer API",
		zap.String("network", network.ID),
		zap.String("action", params.Get("action")))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, ratelimit.Retryable(fmt.Errorf("explorer request failed: %w", err))
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, ratelimit.Retryable(fmt.Errorf("explorer request failed: %w", err))
		}
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusOK:
	case status == fasthttp.StatusTooManyRequests:
		return nil, ratelimit.Retryable(fmt.Errorf("explorer API rate limited (status %d)", status))
	case status >= 500:
		return nil, ratelimit.Retryable(fmt.Errorf("explorer API unavailable (status %d)", status))
	default:
		return nil, ratelimit.Terminal(fmt.Errorf("explorer API request rejected (status %d): %s", status, resp.Body()))
	}

	// Body is only valid until the response is released.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

// classifyAccountError maps provider-reported failures onto the retry
// taxonomy: throttling is transient, everything else (bad key, malformed
// request) wastes no retry budget.
func classifyAccountError(resp entity.AccountResponse) error {
	detail := resp.Message
	if resp.Result != "" {
		detail = resp.Message + ": " + resp.Result
	}
	lower := strings.ToLower(detail)
	if strings.Contains(lower, "rate limit") || strings.Contains(lower, "max calls per sec") {
		return ratelimit.Retryable(fmt.Errorf("explorer API throttled: %s", detail))
	}
	return ratelimit.Terminal(fmt.Errorf("explorer API error: %s", detail))
}
