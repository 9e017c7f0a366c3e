package entity

// NetworkDefinition holds the immutable configuration for a supported chain.
// Definitions are resolved once at startup from the closed set in the config
// file and never constructed ad hoc afterwards.
type NetworkDefinition struct {
	ID                   string  `json:"id" yaml:"id"`
	Name                 string  `json:"name" yaml:"name"`
	ChainID              int64   `json:"chainId" yaml:"chainId"`
	ExplorerAPIURL       string  `json:"-" yaml:"explorerApiUrl"`
	ExplorerAPIKey       string  `json:"-" yaml:"explorerApiKey"`
	DexScreenerID        string  `json:"dexScreenerId" yaml:"dexScreenerId"`
	NativeSymbol         string  `json:"nativeSymbol" yaml:"nativeSymbol"`
	WrappedNativeAddress Address `json:"wrappedNativeAddress" yaml:"wrappedNativeAddress"`
	// DelayMultiplier scales the inter-wallet delay; cheaper L2 endpoints
	// tolerate a tighter pace than Ethereum mainnet.
	DelayMultiplier float64 `json:"-" yaml:"delayMultiplier"`
}
