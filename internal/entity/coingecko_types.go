package entity

// CoinPrice is one entry of the CoinGecko simple price response. Pointers
// distinguish a missing field from a genuine zero.
type CoinPrice struct {
	USD          *float64 `json:"usd"`
	USD24hChange *float64 `json:"usd_24h_change"`
}

// SimplePriceResponse maps coin identifier to its quoted price.
type SimplePriceResponse map[string]CoinPrice
