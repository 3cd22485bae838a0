package domain

import "fmt"

// UserRegisteredPayload is the payload for TypeUserRegistered.
type UserRegisteredPayload struct {
	User     Address `json:"user"`
	Metadata string  `json:"metadata"`
	Email    string  `json:"email,omitempty"`
}

// UserPayload is shared by events that only name a user (e.g. email verified).
type UserPayload struct {
	User Address `json:"user"`
}

// KYCStatusUpdatedPayload is the payload for TypeKYCStatusUpdated.
type KYCStatusUpdatedPayload struct {
	User      Address `json:"user"`
	NewStatus int64   `json:"new_status"`
}

// ProfileUpdatedPayload is the payload for TypeProfileUpdated.
type ProfileUpdatedPayload struct {
	User     Address `json:"user"`
	Metadata string  `json:"metadata"`
}

// ReferralCodeSetPayload is the payload for TypeReferralCodeSet.
type ReferralCodeSetPayload struct {
	User         Address `json:"user"`
	ReferralCode string  `json:"referral_code"`
}

// UserReferredPayload is the payload for TypeUserReferred.
type UserReferredPayload struct {
	User     Address `json:"user"`
	Referrer Address `json:"referrer"`
}

// OrganizerStatusUpdatedPayload is the payload for TypeOrganizerStatusUpdated.
type OrganizerStatusUpdatedPayload struct {
	User        Address `json:"user"`
	IsOrganizer bool    `json:"is_organizer"`
}

// TeamMemberPayload is shared by the team member added and permissions events.
type TeamMemberPayload struct {
	Organizer             Address `json:"organizer"`
	Member                Address `json:"member"`
	CanEditEvents         bool    `json:"can_edit_events"`
	CanManageParticipants bool    `json:"can_manage_participants"`
	CanSubmitProof        bool    `json:"can_submit_proof"`
}

// TeamMemberRemovedPayload is the payload for TypeTeamMemberRemoved.
type TeamMemberRemovedPayload struct {
	Organizer Address `json:"organizer"`
	Member    Address `json:"member"`
}

// EventCreatedPayload is the payload for TypeEventCreated.
type EventCreatedPayload struct {
	EventID         BigUint `json:"event_id"`
	Variant         string  `json:"variant,omitempty"`
	Organizer       Address `json:"organizer"`
	Metadata        string  `json:"metadata"`
	Category        string  `json:"category,omitempty"`
	Location        string  `json:"location,omitempty"`
	City            string  `json:"city,omitempty"`
	Country         string  `json:"country,omitempty"`
	Latitude        string  `json:"latitude,omitempty"`
	Longitude       string  `json:"longitude,omitempty"`
	Date            int64   `json:"date,omitempty"`
	StartTime       int64   `json:"start_time,omitempty"`
	EndTime         int64   `json:"end_time,omitempty"`
	MaxParticipants int64   `json:"max_participants,omitempty"`
	IsPrivate       bool    `json:"is_private"`
}

// EventRefPayload is shared by events that only name an event.
type EventRefPayload struct {
	EventID BigUint `json:"event_id"`
}

// EventStatusUpdatedPayload is the payload for TypeEventStatusUpdated.
type EventStatusUpdatedPayload struct {
	EventID   BigUint `json:"event_id"`
	OldStatus int64   `json:"old_status"`
	NewStatus int64   `json:"new_status"`
}

// EventUpdateAddedPayload is the payload for TypeEventUpdateAdded.
type EventUpdateAddedPayload struct {
	EventID   BigUint `json:"event_id"`
	Organizer Address `json:"organizer"`
	Metadata  string  `json:"metadata"`
	AddedAt   int64   `json:"added_at"`
}

// ParticipantPayload is shared by participant accepted and rejected events.
type ParticipantPayload struct {
	EventID     BigUint `json:"event_id"`
	Participant Address `json:"participant"`
}

// ParticipantAppliedPayload is the payload for TypeParticipantApplied.
type ParticipantAppliedPayload struct {
	EventID     BigUint `json:"event_id"`
	Participant Address `json:"participant"`
	AppliedAt   int64   `json:"applied_at"`
}

// ProofOfWorkSubmittedPayload is the payload for TypeProofOfWorkSubmitted.
type ProofOfWorkSubmittedPayload struct {
	EventID     BigUint  `json:"event_id"`
	Organizer   Address  `json:"organizer"`
	IPFSHashes  []string `json:"ipfs_hashes"`
	Mimetypes   []string `json:"mimetypes"`
	SubmittedAt int64    `json:"submitted_at"`
}

// EventContractDeployedPayload is the payload for TypeEventContractDeployed.
type EventContractDeployedPayload struct {
	Contract  Address `json:"contract"`
	Organizer Address `json:"organizer"`
	Metadata  string  `json:"metadata"`
	Date      int64   `json:"date,omitempty"`
}

// RewardEarnedPayload is the payload for TypeRewardEarned. A zero event id or
// streak submission id means the reward is not linked to one.
type RewardEarnedPayload struct {
	Participant        Address `json:"participant"`
	EventID            BigUint `json:"event_id"`
	StreakSubmissionID BigUint `json:"streak_submission_id"`
	Amount             BigUint `json:"amount"`
	RewardType         int64   `json:"reward_type"`
}

// RewardsDistributedPayload is the payload for TypeRewardsDistributed.
type RewardsDistributedPayload struct {
	EventID          BigUint `json:"event_id"`
	TotalAmount      BigUint `json:"total_amount"`
	ParticipantCount uint64  `json:"participant_count"`
}

// TokenTransferredPayload is the payload for TypeTokenTransferred.
type TokenTransferredPayload struct {
	User   Address `json:"user"`
	Amount BigUint `json:"amount"`
}

// AppIDUpdatedPayload is the payload for TypeAppIDUpdated.
type AppIDUpdatedPayload struct {
	OldAppID string `json:"old_app_id"`
	NewAppID string `json:"new_app_id"`
}

// RewardsPoolUpdatedPayload is the payload for TypeRewardsPoolUpdated.
type RewardsPoolUpdatedPayload struct {
	OldPool Address `json:"old_pool"`
	NewPool Address `json:"new_pool"`
}

// StreakerJoinedPayload is the payload for TypeStreakerJoined.
type StreakerJoinedPayload struct {
	User         Address `json:"user"`
	StreakerCode string  `json:"streaker_code"`
}

// StreakSubmittedPayload is the payload for TypeStreakSubmitted.
type StreakSubmittedPayload struct {
	User         Address  `json:"user"`
	SubmissionID BigUint  `json:"submission_id"`
	Metadata     string   `json:"metadata"`
	IPFSHashes   []string `json:"ipfs_hashes,omitempty"`
	Mimetypes    []string `json:"mimetypes,omitempty"`
}

// StreakApprovedPayload is the payload for TypeStreakApproved.
type StreakApprovedPayload struct {
	User         Address `json:"user"`
	SubmissionID BigUint `json:"submission_id"`
	Amount       BigUint `json:"amount"`
}

// StreakRejectedPayload is the payload for TypeStreakRejected.
type StreakRejectedPayload struct {
	User         Address `json:"user"`
	SubmissionID BigUint `json:"submission_id"`
	Reason       string  `json:"reason"`
}

// PassportStatusUpdatedPayload is the payload for TypePassportStatusUpdated.
type PassportStatusUpdatedPayload struct {
	User         Address `json:"user"`
	Status       int64   `json:"status"`
	Reason       string  `json:"reason"`
	DocumentType int64   `json:"document_type,omitempty"`
}

// AddressUpdatedPayload is the payload for TypeAddressUpdated.
type AddressUpdatedPayload struct {
	Key        string  `json:"key"`
	OldAddress Address `json:"old_address"`
	NewAddress Address `json:"new_address"`
}

// Validate checks the fields the identity projector keys on.
func (p UserRegisteredPayload) Validate() error { return requireAddress("user", p.User) }

// Validate checks the fields the identity projector keys on.
func (p UserPayload) Validate() error { return requireAddress("user", p.User) }

// Validate checks the fields the identity projector keys on.
func (p KYCStatusUpdatedPayload) Validate() error { return requireAddress("user", p.User) }

// Validate checks the fields the identity projector keys on.
func (p ProfileUpdatedPayload) Validate() error { return requireAddress("user", p.User) }

// Validate checks the fields the identity projector keys on.
func (p ReferralCodeSetPayload) Validate() error { return requireAddress("user", p.User) }

// Validate checks both sides of the referral.
func (p UserReferredPayload) Validate() error {
	if err := requireAddress("user", p.User); err != nil {
		return err
	}
	return requireAddress("referrer", p.Referrer)
}

// Validate checks the fields the identity projector keys on.
func (p OrganizerStatusUpdatedPayload) Validate() error { return requireAddress("user", p.User) }

// Validate checks both sides of the membership.
func (p TeamMemberPayload) Validate() error {
	if err := requireAddress("organizer", p.Organizer); err != nil {
		return err
	}
	return requireAddress("member", p.Member)
}

// Validate checks both sides of the membership.
func (p TeamMemberRemovedPayload) Validate() error {
	if err := requireAddress("organizer", p.Organizer); err != nil {
		return err
	}
	return requireAddress("member", p.Member)
}

// Validate checks the variant name.
func (p EventCreatedPayload) Validate() error {
	if err := requireUints("event_id", p.EventID); err != nil {
		return err
	}
	_, err := ParseVariant(p.Variant)
	return err
}

// Validate checks the event id width.
func (p EventRefPayload) Validate() error { return requireUints("event_id", p.EventID) }

// Validate checks the event id width.
func (p EventStatusUpdatedPayload) Validate() error { return requireUints("event_id", p.EventID) }

// Validate checks the event id width.
func (p EventUpdateAddedPayload) Validate() error { return requireUints("event_id", p.EventID) }

// Validate checks the event id width.
func (p ProofOfWorkSubmittedPayload) Validate() error { return requireUints("event_id", p.EventID) }

// Validate checks the event id and total widths.
func (p RewardsDistributedPayload) Validate() error {
	return requireUints("event_id/total_amount", p.EventID, p.TotalAmount)
}

// Validate checks the participant address.
func (p ParticipantPayload) Validate() error {
	if err := requireAddress("participant", p.Participant); err != nil {
		return err
	}
	return requireUints("event_id", p.EventID)
}

// Validate checks the participant address.
func (p ParticipantAppliedPayload) Validate() error {
	if err := requireAddress("participant", p.Participant); err != nil {
		return err
	}
	return requireUints("event_id", p.EventID)
}

// Validate checks the contract address.
func (p EventContractDeployedPayload) Validate() error {
	return requireAddress("contract", p.Contract)
}

// Validate checks the rewarded participant.
func (p RewardEarnedPayload) Validate() error {
	if err := requireAddress("participant", p.Participant); err != nil {
		return err
	}
	return requireUints("event_id/streak_submission_id/amount", p.EventID, p.StreakSubmissionID, p.Amount)
}

// Validate checks the claiming user.
func (p TokenTransferredPayload) Validate() error {
	if err := requireAddress("user", p.User); err != nil {
		return err
	}
	return requireUints("amount", p.Amount)
}

// Validate checks the joining user.
func (p StreakerJoinedPayload) Validate() error { return requireAddress("user", p.User) }

// Validate checks the submitting user.
func (p StreakSubmittedPayload) Validate() error {
	if err := requireAddress("user", p.User); err != nil {
		return err
	}
	return requireUints("submission_id", p.SubmissionID)
}

// Validate checks the submitting user.
func (p StreakApprovedPayload) Validate() error {
	if err := requireAddress("user", p.User); err != nil {
		return err
	}
	return requireUints("submission_id/amount", p.SubmissionID, p.Amount)
}

// Validate checks the submitting user.
func (p StreakRejectedPayload) Validate() error {
	if err := requireAddress("user", p.User); err != nil {
		return err
	}
	return requireUints("submission_id", p.SubmissionID)
}

// Validate checks the passport holder.
func (p PassportStatusUpdatedPayload) Validate() error { return requireAddress("user", p.User) }

func requireAddress(field string, value Address) error {
	if value == "" {
		return fmt.Errorf("%s address is required", field)
	}
	return nil
}

func requireUints(fields string, values ...BigUint) error {
	for _, v := range values {
		if !v.FitsChain() {
			return fmt.Errorf("%s exceeds %d bits", fields, MaxUintBits)
		}
	}
	return nil
}
