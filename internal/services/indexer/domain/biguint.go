package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// BigUint is an unsigned chain integer (token amounts and on-chain ids).
// Chain inputs are at most 256 bits; accumulated totals may grow past that.
// The zero value is 0. Values are immutable.
type BigUint struct {
	v *big.Int
}

// NewBigUint returns n as a BigUint.
func NewBigUint(n uint64) BigUint {
	return BigUint{v: new(big.Int).SetUint64(n)}
}

// MaxUintBits is the width of a chain integer.
const MaxUintBits = 256

// ParseBigUint parses a base-10 unsigned integer of at most 256 bits.
func ParseBigUint(value string) (BigUint, error) {
	n, err := parseUint(value)
	if err != nil {
		return BigUint{}, err
	}
	if !n.FitsChain() {
		return BigUint{}, fmt.Errorf("integer %q exceeds %d bits", value, MaxUintBits)
	}
	return n, nil
}

// parseUint parses a base-10 unsigned integer of any size.
func parseUint(value string) (BigUint, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return BigUint{}, nil
	}
	n, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return BigUint{}, fmt.Errorf("invalid integer %q", value)
	}
	if n.Sign() < 0 {
		return BigUint{}, fmt.Errorf("negative integer %q", value)
	}
	return BigUint{v: n}, nil
}

// MustBigUint parses value or panics. Intended for tests and constants.
func MustBigUint(value string) BigUint {
	n, err := ParseBigUint(value)
	if err != nil {
		panic(err)
	}
	return n
}

func (b BigUint) int() *big.Int {
	if b.v == nil {
		return new(big.Int)
	}
	return b.v
}

// IsZero reports whether the value is 0.
func (b BigUint) IsZero() bool {
	return b.v == nil || b.v.Sign() == 0
}

// FitsChain reports whether the value fits in a 256-bit chain integer.
func (b BigUint) FitsChain() bool {
	return b.int().BitLen() <= MaxUintBits
}

// Add returns b + other. The sum is not capped.
func (b BigUint) Add(other BigUint) BigUint {
	return BigUint{v: new(big.Int).Add(b.int(), other.int())}
}

// SubSaturating returns b - other, or 0 when other is larger.
func (b BigUint) SubSaturating(other BigUint) BigUint {
	if b.Cmp(other) <= 0 {
		return BigUint{}
	}
	return BigUint{v: new(big.Int).Sub(b.int(), other.int())}
}

// Cmp compares b and other like big.Int.Cmp.
func (b BigUint) Cmp(other BigUint) int {
	return b.int().Cmp(other.int())
}

// Uint64 returns the value truncated to 64 bits and whether it fit.
func (b BigUint) Uint64() (uint64, bool) {
	n := b.int()
	return n.Uint64(), n.IsUint64()
}

func (b BigUint) String() string {
	return b.int().String()
}

// MarshalJSON encodes the value as a decimal string.
func (b BigUint) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number of any size, so
// stored totals always decode. Payload validation enforces the chain width.
func (b *BigUint) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*b = BigUint{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode integer: %w", err)
		}
	}
	parsed, err := parseUint(raw)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
