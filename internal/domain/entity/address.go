package entity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is used as the canonical contract address for the native coin.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// NativeAlias is accepted in requests as a shorthand for the native coin.
const NativeAlias = "eth"

// Address is a validated, lower-cased 20-byte hex identifier.
// Two addresses refer to the same account iff their lower-cased forms match.
type Address string

// ParseAddress validates and normalizes a raw address string.
// A valid address is "0x" followed by exactly 40 hexadecimal characters.
// Validation is pure; no checksum or on-chain lookup is performed.
func ParseAddress(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "0x") && !strings.HasPrefix(trimmed, "0X") {
		return "", fmt.Errorf("invalid address %q: missing 0x prefix", raw)
	}
	if len(trimmed) != 42 || !common.IsHexAddress(trimmed) {
		return "", fmt.Errorf("invalid address %q: want 0x followed by 40 hex characters", raw)
	}
	return Address(strings.ToLower(trimmed)), nil
}

func (a Address) String() string { return string(a) }

// Hex returns the address as a go-ethereum common.Address.
func (a Address) Hex() common.Address { return common.HexToAddress(string(a)) }

// IsNative reports whether the address stands for the chain's native coin.
func (a Address) IsNative() bool { return a == ZeroAddress }

// PartitionAddresses splits raw inputs into deduplicated valid and invalid
// lists. Malformed entries never cause an error; they land in the invalid
// list verbatim. The special alias "eth" normalizes to the zero address.
func PartitionAddresses(raw []string) (valid []Address, invalid []string) {
	seenValid := make(map[Address]struct{}, len(raw))
	seenInvalid := make(map[string]struct{})
	for _, r := range raw {
		candidate := r
		if strings.EqualFold(strings.TrimSpace(candidate), NativeAlias) {
			candidate = string(ZeroAddress)
		}
		addr, err := ParseAddress(candidate)
		if err != nil {
			if _, dup := seenInvalid[r]; !dup {
				seenInvalid[r] = struct{}{}
				invalid = append(invalid, r)
			}
			continue
		}
		if _, dup := seenValid[addr]; !dup {
			seenValid[addr] = struct{}{}
			valid = append(valid, addr)
		}
	}
	return valid, invalid
}
