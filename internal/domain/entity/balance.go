package entity

// BalanceObservation is a point-in-time snapshot of one wallet/token balance.
// Raw is the unscaled integer amount as reported by the chain; Scaled is the
// human-readable amount after dividing by 10^decimals. Immutable once produced.
type BalanceObservation struct {
	Wallet     Address `json:"wallet"`
	Token      Address `json:"token"`
	Raw        string  `json:"raw"`
	Scaled     string  `json:"scaled"`
	HasBalance bool    `json:"hasBalance"`
	// ErrReason is set instead of failing the wallet when a single balance
	// read cannot complete; the observation then reports a zero balance.
	ErrReason string `json:"errReason,omitempty"`
}

// ZeroBalance builds the observation used when a balance read failed or the
// wallet holds nothing of the token.
func ZeroBalance(wallet, token Address, reason string) BalanceObservation {
	return BalanceObservation{
		Wallet:    wallet,
		Token:     token,
		Raw:       "0",
		Scaled:    "0.000000",
		ErrReason: reason,
	}
}
