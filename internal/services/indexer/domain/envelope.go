package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
)

// Envelope is the chain metadata attached to every event.
type Envelope struct {
	// TxHash is the hash of the transaction that emitted the log.
	TxHash string
	// TxIndex is the transaction position inside its block.
	TxIndex uint32
	// LogIndex is the log position used by occurrence-scoped ids.
	LogIndex uint32
	// BlockNumber is the block that included the transaction.
	BlockNumber uint64
	// BlockTimestamp is the block time in unix seconds.
	BlockTimestamp int64
	// Contract is the emitting contract address, when known.
	Contract Address
}

// Validate checks the fields every projector relies on.
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.TxHash) == "" {
		return apperrors.New(apperrors.CodeInvalidEnvelope, "transaction hash is required")
	}
	if e.BlockTimestamp <= 0 {
		return apperrors.New(apperrors.CodeInvalidEnvelope, "block timestamp is required")
	}
	return nil
}

// Position returns the chain-order position of the event.
func (e Envelope) Position() Position {
	return Position{Block: e.BlockNumber, TxIndex: e.TxIndex, LogIndex: e.LogIndex}
}

// Position orders events by block, then transaction index, then log index.
type Position struct {
	Block    uint64
	TxIndex  uint32
	LogIndex uint32
}

// Compare returns -1, 0 or 1 when p is before, equal to or after other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Block != other.Block:
		return compareUint(p.Block, other.Block)
	case p.TxIndex != other.TxIndex:
		return compareUint(uint64(p.TxIndex), uint64(other.TxIndex))
	default:
		return compareUint(uint64(p.LogIndex), uint64(other.LogIndex))
	}
}

// IsZero reports whether no position has been recorded.
func (p Position) IsZero() bool {
	return p == Position{}
}

func (p Position) String() string {
	return fmt.Sprintf("%d/%d/%d", p.Block, p.TxIndex, p.LogIndex)
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// DomainID is the identifier of a logical business entity, the decimal form
// of its on-chain id.
func DomainID(id BigUint) string {
	return id.String()
}

// OccurrenceID identifies an append-only record created by one event emission.
// The tag keeps different record kinds from the same log distinct.
func OccurrenceID(env Envelope, tag string) string {
	return strings.ToLower(strings.TrimSpace(env.TxHash)) + "||" + strconv.FormatUint(uint64(env.LogIndex), 10) + "||" + tag
}

// ParticipantID identifies a user's participation in an event.
func ParticipantID(eventID string, member Address) string {
	return eventID + "-" + string(member)
}

// PairID identifies a relationship between two addresses.
func PairID(a, b Address) string {
	return string(a) + "||" + string(b)
}
