package entity

// PriceSource records which fallback step produced a price quote.
type PriceSource string

const (
	PricePrimary PriceSource = "primary"
	PriceBackup  PriceSource = "backup"
	PriceNone    PriceSource = "none"
)

// PriceQuote carries the USD price of a token, or the absence of one.
// A nil PriceUSD is a valid outcome meaning "no price available"; it is
// never treated as a fatal condition by the pipeline.
type PriceQuote struct {
	Token     Address     `json:"token"`
	PriceUSD  *float64    `json:"priceUsd"`
	Change24h *float64    `json:"change24h"`
	Source    PriceSource `json:"source"`
	ErrReason string      `json:"errReason,omitempty"`
}

// NoPrice builds the quote returned when every price source came up empty.
func NoPrice(token Address, reason string) PriceQuote {
	return PriceQuote{Token: token, Source: PriceNone, ErrReason: reason}
}
