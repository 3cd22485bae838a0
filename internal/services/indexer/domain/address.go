package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a lower-case, 0x-prefixed 20-byte hex account address.
type Address string

// ZeroAddress stands in for an organizer that is not known yet.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// ParseAddress validates and normalizes an address.
func ParseAddress(value string) (Address, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if len(trimmed) != 42 || !strings.HasPrefix(trimmed, "0x") {
		return "", fmt.Errorf("address %q is not 0x + 40 hex", value)
	}
	for _, c := range trimmed[2:] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return "", fmt.Errorf("address %q is not 0x + 40 hex", value)
		}
	}
	return Address(trimmed), nil
}

// IsZero reports whether the address is empty or the zero address.
func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

func (a Address) String() string {
	return string(a)
}

// UnmarshalJSON accepts any casing and rejects malformed addresses.
func (a *Address) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode address: %w", err)
	}
	if raw == "" {
		*a = ""
		return nil
	}
	parsed, err := ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
