// Package errors provides structured, coded errors shared by the indexer packages.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storage errors
	CodeNotFound         Code = "NOT_FOUND"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	// Ingestion errors
	CodeInvalidEnvelope Code = "INVALID_ENVELOPE"
	CodeInvalidPayload  Code = "INVALID_PAYLOAD"
	CodeUnhandledEvent  Code = "UNHANDLED_EVENT"
	CodeOutOfOrder      Code = "OUT_OF_ORDER"

	// Configuration errors
	CodeInvalidNetwork Code = "INVALID_NETWORK"
)

// Label returns a lower-case form of the code suitable for metric labels.
func (c Code) Label() string {
	switch c {
	case CodeNotFound:
		return "not_found"
	case CodeStoreUnavailable:
		return "store_unavailable"
	case CodeInvalidEnvelope:
		return "invalid_envelope"
	case CodeInvalidPayload:
		return "invalid_payload"
	case CodeUnhandledEvent:
		return "unhandled_event"
	case CodeOutOfOrder:
		return "out_of_order"
	case CodeInvalidNetwork:
		return "invalid_network"
	default:
		return "unknown"
	}
}
