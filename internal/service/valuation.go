package service

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

var (
	one  = decimal.NewFromInt(1)
	cent = decimal.NewFromFloat(0.01)
)

// nullValuation signals "value unknown", which is distinct from a known
// value of zero.
func nullValuation() entity.Valuation {
	return entity.Valuation{Display: "N/A"}
}

// Value combines a scaled balance with a resolved price into a USD amount.
// A nil price, a zero balance or a malformed amount all yield the null
// valuation; nothing in here can fail loudly.
func Value(balance entity.BalanceObservation, price entity.PriceQuote) entity.Valuation {
	if price.PriceUSD == nil || !balance.HasBalance {
		return nullValuation()
	}
	scaled, err := decimal.NewFromString(balance.Scaled)
	if err != nil || scaled.IsZero() {
		return nullValuation()
	}
	usd, _ := scaled.Mul(decimal.NewFromFloat(*price.PriceUSD)).Float64()
	return entity.Valuation{USD: &usd, Display: FormatUSD(usd)}
}

// FormatAmount renders a scaled token amount with variable precision: six
// decimal places for amounts of at least one, eight down to a cent, and
// scientific notation below that so dust balances survive rounding.
func FormatAmount(d decimal.Decimal) string {
	switch {
	case d.GreaterThanOrEqual(one):
		return d.StringFixed(6)
	case d.GreaterThanOrEqual(cent):
		return d.StringFixed(8)
	case d.IsPositive():
		f, _ := d.Float64()
		return strconv.FormatFloat(f, 'e', 6, 64)
	default:
		return d.StringFixed(6)
	}
}

// FormatUSD renders a USD amount for display, compressing thousands and up
// with K/M/B suffixes and widening precision for sub-cent values.
func FormatUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	case v >= 0.01:
		return fmt.Sprintf("$%.2f", v)
	case v > 0:
		return fmt.Sprintf("$%.6f", v)
	default:
		return "$0.00"
	}
}
