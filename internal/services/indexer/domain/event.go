// Package domain defines the decoded chain events consumed by the indexer and
// the identifiers, enums and value types derived from them.
package domain

import (
	"strings"
)

// Type identifies the type of a decoded contract event.
type Type string

// User registry events.
const (
	// TypeUserRegistered records a wallet registering with the user registry.
	TypeUserRegistered Type = "user.registered"
	// TypeEmailVerified records a verified email for a user.
	TypeEmailVerified Type = "user.email_verified"
	// TypeKYCStatusUpdated records a registry-side KYC status change.
	TypeKYCStatusUpdated Type = "user.kyc_status_updated"
	// TypeProfileUpdated records a profile metadata change.
	TypeProfileUpdated Type = "user.profile_updated"
	// TypeReferralCodeSet records the referral code chosen by a user.
	TypeReferralCodeSet Type = "user.referral_code_set"
	// TypeUserReferred links a user to the referrer whose code they used.
	TypeUserReferred Type = "user.referred"
	// TypeOrganizerStatusUpdated grants or revokes organizer rights.
	TypeOrganizerStatusUpdated Type = "user.organizer_status_updated"
)

// Team membership events.
const (
	TypeTeamMemberAdded              Type = "team.member_added"
	TypeTeamMemberRemoved            Type = "team.member_removed"
	TypeTeamMemberPermissionsUpdated Type = "team.member_permissions_updated"
)

// Cleanup and impact event lifecycle.
const (
	// TypeEventCreated records a new cleanup or impact event.
	TypeEventCreated Type = "event.created"
	// TypeEventPublished marks an event as published.
	TypeEventPublished Type = "event.published"
	// TypeEventUnpublished marks an event as unpublished.
	TypeEventUnpublished Type = "event.unpublished"
	// TypeEventStatusUpdated records an organizer or admin status change.
	TypeEventStatusUpdated Type = "event.status_updated"
	// TypeEventMadePublic turns a private event into a public one.
	TypeEventMadePublic Type = "event.made_public"
	// TypeEventUpdateAdded records an organizer-authored update.
	TypeEventUpdateAdded Type = "event.update_added"
	// TypeParticipantApplied records an application to join an event.
	TypeParticipantApplied Type = "event.participant_applied"
	// TypeParticipantAccepted records an accepted application.
	TypeParticipantAccepted Type = "event.participant_accepted"
	// TypeParticipantRejected records a rejected application.
	TypeParticipantRejected Type = "event.participant_rejected"
	// TypeProofOfWorkSubmitted records media proving the event took place.
	TypeProofOfWorkSubmitted Type = "event.proof_of_work_submitted"
	// TypeEventContractDeployed records a per-event contract created by the factory.
	TypeEventContractDeployed Type = "event.contract_deployed"
)

// Rewards manager events.
const (
	TypeRewardEarned       Type = "rewards.earned"
	TypeRewardsDistributed Type = "rewards.distributed"
	TypeTokenTransferred   Type = "rewards.token_transferred"
	TypeAppIDUpdated       Type = "rewards.app_id_updated"
	TypeRewardsPoolUpdated Type = "rewards.pool_updated"
)

// Streak events.
const (
	TypeStreakerJoined  Type = "streak.joined"
	TypeStreakSubmitted Type = "streak.submitted"
	TypeStreakApproved  Type = "streak.approved"
	TypeStreakRejected  Type = "streak.rejected"
)

// Passport and address registry events.
const (
	// TypePassportStatusUpdated records a native passport KYC decision.
	TypePassportStatusUpdated Type = "passport.status_updated"
	// TypeAddressUpdated records an addresses-provider pointer change.
	TypeAddressUpdated Type = "registry.address_updated"
)

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the prefix of the event type (e.g., "user", "event").
func (t Type) Domain() string {
	if i := strings.IndexByte(string(t), '.'); i >= 0 {
		return string(t[:i])
	}
	return string(t)
}

// Event is one decoded contract event as delivered by the ingester.
type Event struct {
	// Type selects the projector.
	Type Type
	// Envelope locates the event on chain.
	Envelope Envelope
	// PayloadJSON holds the event-specific fields as JSON.
	PayloadJSON []byte
}
