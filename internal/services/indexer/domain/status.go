package domain

import (
	"fmt"
	"strings"
)

// EventStatus is the lifecycle status of a cleanup or impact event.
type EventStatus int

// Wire codes match the contract enum. Out-of-range codes map to EventStatusUnknown.
const (
	EventStatusUnknown     EventStatus = -1
	EventStatusUnpublished EventStatus = 0
	EventStatusOpen        EventStatus = 1
	EventStatusInProgress  EventStatus = 2
	EventStatusCompleted   EventStatus = 3
	EventStatusRewarded    EventStatus = 4
)

var eventStatusLabels = map[EventStatus]string{
	EventStatusUnpublished: "UNPUBLISHED",
	EventStatusOpen:        "OPEN",
	EventStatusInProgress:  "IN_PROGRESS",
	EventStatusCompleted:   "COMPLETED",
	EventStatusRewarded:    "REWARDED",
}

// EventStatusFromCode maps a contract enum code to a status.
func EventStatusFromCode(code int64) EventStatus {
	status := EventStatus(code)
	if _, ok := eventStatusLabels[status]; !ok || code != int64(status) {
		return EventStatusUnknown
	}
	return status
}

// IsTerminal reports whether no further status transition is accepted.
func (s EventStatus) IsTerminal() bool {
	return s == EventStatusRewarded
}

func (s EventStatus) String() string {
	if label, ok := eventStatusLabels[s]; ok {
		return label
	}
	return "UNKNOWN"
}

// MarshalText encodes the status label.
func (s EventStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status label.
func (s *EventStatus) UnmarshalText(text []byte) error {
	value, err := parseLabel(string(text), eventStatusLabels, EventStatusUnknown)
	if err != nil {
		return fmt.Errorf("event status: %w", err)
	}
	*s = value
	return nil
}

// ParticipantStatus is the application state of a participant.
type ParticipantStatus string

const (
	ParticipantApplied  ParticipantStatus = "applied"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantRejected ParticipantStatus = "rejected"
)

// IsDecided reports whether an organizer has accepted or rejected the application.
func (s ParticipantStatus) IsDecided() bool {
	return s == ParticipantAccepted || s == ParticipantRejected
}

// SubmissionStatus is the review state of a streak submission.
type SubmissionStatus int

const (
	SubmissionUnknown  SubmissionStatus = -1
	SubmissionPending  SubmissionStatus = 0
	SubmissionApproved SubmissionStatus = 1
	SubmissionRejected SubmissionStatus = 2
	SubmissionRewarded SubmissionStatus = 3
)

var submissionStatusLabels = map[SubmissionStatus]string{
	SubmissionPending:  "PENDING",
	SubmissionApproved: "APPROVED",
	SubmissionRejected: "REJECTED",
	SubmissionRewarded: "REWARDED",
}

func (s SubmissionStatus) String() string {
	if label, ok := submissionStatusLabels[s]; ok {
		return label
	}
	return "UNKNOWN"
}

// MarshalText encodes the status label.
func (s SubmissionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status label.
func (s *SubmissionStatus) UnmarshalText(text []byte) error {
	value, err := parseLabel(string(text), submissionStatusLabels, SubmissionUnknown)
	if err != nil {
		return fmt.Errorf("submission status: %w", err)
	}
	*s = value
	return nil
}

// KYCStatus is the identity verification state of a user.
type KYCStatus int

const (
	KYCUnknown    KYCStatus = -1
	KYCNotStarted KYCStatus = 0
	KYCPending    KYCStatus = 1
	KYCVerified   KYCStatus = 2
	KYCRejected   KYCStatus = 3
)

var kycStatusLabels = map[KYCStatus]string{
	KYCNotStarted: "NOT_STARTED",
	KYCPending:    "PENDING",
	KYCVerified:   "VERIFIED",
	KYCRejected:   "REJECTED",
}

// KYCStatusFromCode maps a contract enum code to a status.
func KYCStatusFromCode(code int64) KYCStatus {
	status := KYCStatus(code)
	if _, ok := kycStatusLabels[status]; !ok || code != int64(status) {
		return KYCUnknown
	}
	return status
}

func (s KYCStatus) String() string {
	if label, ok := kycStatusLabels[s]; ok {
		return label
	}
	return "UNKNOWN"
}

// MarshalText encodes the status label.
func (s KYCStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status label.
func (s *KYCStatus) UnmarshalText(text []byte) error {
	value, err := parseLabel(string(text), kycStatusLabels, KYCUnknown)
	if err != nil {
		return fmt.Errorf("kyc status: %w", err)
	}
	*s = value
	return nil
}

// RewardCategory groups reward types into the user's accumulators.
type RewardCategory string

const (
	RewardReferral      RewardCategory = "referral"
	RewardBonus         RewardCategory = "bonus"
	RewardOther         RewardCategory = "other"
	RewardUncategorized RewardCategory = "uncategorized"
)

// RewardCategoryFromCode maps the rewards manager type code to a category.
// Other codes, participation and streak payouts among them, are uncategorized.
func RewardCategoryFromCode(code int64) RewardCategory {
	switch code {
	case 0:
		return RewardReferral
	case 1:
		return RewardBonus
	case 4:
		return RewardOther
	default:
		return RewardUncategorized
	}
}

// TransactionType distinguishes earned rewards from claimed tokens.
type TransactionType string

const (
	TransactionReceive TransactionType = "RECEIVE"
	TransactionClaim   TransactionType = "CLAIM"
)

// Variant distinguishes the two contract families sharing the event model.
type Variant string

const (
	VariantCleanup Variant = "cleanup"
	VariantImpact  Variant = "impact"
)

// ParseVariant normalizes a variant name. Empty input means cleanup.
func ParseVariant(value string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(value))) {
	case "", VariantCleanup:
		return VariantCleanup, nil
	case VariantImpact:
		return VariantImpact, nil
	default:
		return "", fmt.Errorf("unknown event variant %q", value)
	}
}

// Title returns the variant name for notification titles.
func (v Variant) Title() string {
	if v == VariantImpact {
		return "Impact"
	}
	return "Cleanup"
}

// Noun returns the variant name for notification sentences.
func (v Variant) Noun() string {
	if v == VariantImpact {
		return "impact"
	}
	return "cleanup"
}

func parseLabel[T comparable](text string, labels map[T]string, unknown T) (T, error) {
	normalized := strings.ToUpper(strings.TrimSpace(text))
	if normalized == "UNKNOWN" {
		return unknown, nil
	}
	for value, label := range labels {
		if label == normalized {
			return value, nil
		}
	}
	return unknown, fmt.Errorf("unknown label %q", text)
}
