package entity

// DefaultDecimals is assumed whenever a token's precision cannot be resolved.
const DefaultDecimals = 18

// MetadataSource records which fallback step produced a token descriptor.
type MetadataSource string

const (
	SourceRegistry MetadataSource = "registry"
	SourceOnChain  MetadataSource = "on-chain"
	SourceFallback MetadataSource = "fallback"
)

// TokenDescriptor holds the resolved identity of a token. It is created once
// per token per analysis run and carries the provenance of its data.
type TokenDescriptor struct {
	Address  Address        `json:"address"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Decimals int            `json:"decimals"`
	Source   MetadataSource `json:"source"`
}
