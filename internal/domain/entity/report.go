package entity

import "time"

// Valuation is the USD worth of one holding. A nil USD means the value is
// unknown (no price); it is distinct from a known value of zero.
type Valuation struct {
	USD     *float64 `json:"usd"`
	Display string   `json:"display"`
}

// TokenHolding joins a token's descriptor, observed balance, price and
// valuation for one wallet.
type TokenHolding struct {
	Token   TokenDescriptor    `json:"token"`
	Balance BalanceObservation `json:"balance"`
	Price   PriceQuote         `json:"price"`
	Value   Valuation          `json:"value"`
}

// WalletReport aggregates the matched holdings of a single wallet.
// Err is set only when the wallet's analysis failed fatally; the holdings
// list is then empty and the wallet categorizes as NONE.
type WalletReport struct {
	Wallet   Address        `json:"wallet"`
	Holdings []TokenHolding `json:"holdings"`
	TotalUSD float64        `json:"totalUsd"`
	Err      string         `json:"error,omitempty"`
}

// Category describes how completely a wallet's holdings cover the requested
// target token set.
type Category string

const (
	CategoryAll  Category = "ALL"
	CategorySome Category = "SOME"
	CategoryNone Category = "NONE"
)

// BatchResult is the tri-partitioned outcome of one analysis run. The three
// lists are disjoint and together contain every analyzed wallet exactly once.
type BatchResult struct {
	AllTokens   []WalletReport `json:"allTokens"`
	SomeTokens  []WalletReport `json:"someTokens"`
	NoTokens    []WalletReport `json:"noTokens"`
	WalletCount int            `json:"walletCount"`
	TokenCount  int            `json:"tokenCount"`
	Elapsed     time.Duration  `json:"-"`
}
