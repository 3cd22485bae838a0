package storage

import "github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"

// Timestamps in records are block times in unix seconds; zero means unset.

// UserRecord is a wallet identity with its reward accumulators.
type UserRecord struct {
	ID Address `json:"id"`
	// Placeholder is set while the user has only been referenced, not registered.
	Placeholder         bool             `json:"placeholder"`
	Metadata            string           `json:"metadata"`
	Email               string           `json:"email,omitempty"`
	EmailVerified       bool             `json:"email_verified"`
	EmailVerifiedAt     int64            `json:"email_verified_at,omitempty"`
	KYCStatus           domain.KYCStatus `json:"kyc_status"`
	PassportID          string           `json:"passport_id,omitempty"`
	IsOrganizer         bool             `json:"is_organizer"`
	ReferralCode        string           `json:"referral_code,omitempty"`
	Referrer            Address          `json:"referrer,omitempty"`
	ReferralCount       uint64           `json:"referral_count"`
	RegisteredAt        int64            `json:"registered_at"`
	LastProfileUpdateAt int64            `json:"last_profile_update_at,omitempty"`

	// Received is the gross amount earned; the category fields break it down.
	Received      domain.BigUint `json:"received"`
	Referral      domain.BigUint `json:"referral"`
	Bonus         domain.BigUint `json:"bonus"`
	Other         domain.BigUint `json:"other"`
	Uncategorized domain.BigUint `json:"uncategorized"`
	// Claimed is the amount transferred out to the user.
	Claimed domain.BigUint `json:"claimed"`
}

// Address aliases domain.Address for record fields.
type Address = domain.Address

// Pending returns earned rewards that have not been claimed.
func (u UserRecord) Pending() domain.BigUint {
	return u.Received.SubSaturating(u.Claimed)
}

// EventRecord is a cleanup or impact event.
type EventRecord struct {
	ID              string             `json:"id"`
	Variant         domain.Variant     `json:"variant"`
	Placeholder     bool               `json:"placeholder"`
	Organizer       Address            `json:"organizer"`
	Metadata        string             `json:"metadata"`
	Category        string             `json:"category,omitempty"`
	Location        string             `json:"location,omitempty"`
	City            string             `json:"city,omitempty"`
	Country         string             `json:"country,omitempty"`
	Latitude        string             `json:"latitude,omitempty"`
	Longitude       string             `json:"longitude,omitempty"`
	Date            int64              `json:"date"`
	StartTime       int64              `json:"start_time"`
	EndTime         int64              `json:"end_time"`
	MaxParticipants int64              `json:"max_participants,omitempty"`
	IsPrivate       bool               `json:"is_private"`
	Status          domain.EventStatus `json:"status"`

	Published     bool  `json:"published"`
	PublishedAt   int64 `json:"published_at,omitempty"`
	UnpublishedAt int64 `json:"unpublished_at,omitempty"`

	ProofOfWorkSubmitted   bool   `json:"proof_of_work_submitted"`
	ProofOfWorkSubmittedAt int64  `json:"proof_of_work_submitted_at,omitempty"`
	LastProofOfWorkID      string `json:"last_proof_of_work_id,omitempty"`

	RewardsDistributed      bool           `json:"rewards_distributed"`
	RewardsTotalAmount      domain.BigUint `json:"rewards_total_amount"`
	RewardsParticipantCount uint64         `json:"rewards_participant_count"`
	RewardsDistributedAt    int64          `json:"rewards_distributed_at,omitempty"`

	UpdatesCount uint64 `json:"updates_count"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// EventContractRecord is a per-event contract deployed by the factory.
type EventContractRecord struct {
	Address     Address `json:"address"`
	Organizer   Address `json:"organizer"`
	Metadata    string  `json:"metadata"`
	Date        int64   `json:"date,omitempty"`
	CreatedAt   int64   `json:"created_at"`
	BlockNumber uint64  `json:"block_number"`
	TxHash      string  `json:"tx_hash"`
}

// ParticipantRecord is a user's participation in an event.
type ParticipantRecord struct {
	ID             string                   `json:"id"`
	EventID        string                   `json:"event_id"`
	Participant    Address                  `json:"participant"`
	Status         domain.ParticipantStatus `json:"status,omitempty"`
	AppliedAt      int64                    `json:"applied_at"`
	AcceptedAt     int64                    `json:"accepted_at,omitempty"`
	RejectedAt     int64                    `json:"rejected_at,omitempty"`
	RewardEarned   domain.BigUint           `json:"reward_earned"`
	RewardEarnedAt int64                    `json:"reward_earned_at,omitempty"`
}

// ProofOfWorkRecord is one proof-of-work submission for an event.
type ProofOfWorkRecord struct {
	ID          string   `json:"id"`
	EventID     string   `json:"event_id"`
	IPFSHashes  []string `json:"ipfs_hashes"`
	Mimetypes   []string `json:"mimetypes"`
	SubmittedAt int64    `json:"submitted_at"`
	BlockNumber uint64   `json:"block_number"`
	TxHash      string   `json:"tx_hash"`
}

// UpdateRecord is one organizer-authored event update.
type UpdateRecord struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id"`
	Organizer   Address `json:"organizer"`
	Metadata    string  `json:"metadata"`
	AddedAt     int64   `json:"added_at"`
	BlockNumber uint64  `json:"block_number"`
	TxHash      string  `json:"tx_hash"`
}

// TransactionRecord is one ledger row: a reward received or tokens claimed.
type TransactionRecord struct {
	ID                 string                 `json:"id"`
	User               Address                `json:"user"`
	EventID            string                 `json:"event_id,omitempty"`
	StreakSubmissionID string                 `json:"streak_submission_id,omitempty"`
	Amount             domain.BigUint         `json:"amount"`
	Type               domain.TransactionType `json:"type"`
	// RewardType is the raw rewards manager code; nil for claims.
	RewardType  *int64                `json:"reward_type,omitempty"`
	Category    domain.RewardCategory `json:"category,omitempty"`
	Timestamp   int64                 `json:"timestamp"`
	BlockNumber uint64                `json:"block_number"`
	TxHash      string                `json:"tx_hash"`
}

// SubmissionRecord is a streak submission and its review outcome.
type SubmissionRecord struct {
	ID              string                  `json:"id"`
	User            Address                 `json:"user"`
	Placeholder     bool                    `json:"placeholder"`
	Metadata        string                  `json:"metadata"`
	IPFSHashes      []string                `json:"ipfs_hashes"`
	Mimetypes       []string                `json:"mimetypes"`
	Status          domain.SubmissionStatus `json:"status"`
	SubmittedAt     int64                   `json:"submitted_at"`
	ReviewedAt      int64                   `json:"reviewed_at,omitempty"`
	Amount          domain.BigUint          `json:"amount"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
	RewardEarned    domain.BigUint          `json:"reward_earned"`
	RewardedAt      int64                   `json:"rewarded_at,omitempty"`
	BlockNumber     uint64                  `json:"block_number"`
	TxHash          string                  `json:"tx_hash"`
}

// StreakStatsRecord aggregates a user's streak submissions.
// Approved + Rejected + Pending always equals Total.
type StreakStatsRecord struct {
	User             Address        `json:"user"`
	StreakerCode     string         `json:"streaker_code,omitempty"`
	Total            uint64         `json:"total_submissions"`
	Approved         uint64         `json:"approved_submissions"`
	Rejected         uint64         `json:"rejected_submissions"`
	Pending          uint64         `json:"pending_submissions"`
	TotalAmount      domain.BigUint `json:"total_amount"`
	LastSubmissionAt int64          `json:"last_submission_at,omitempty"`
}

// MembershipRecord is an organizer's team member and their permissions.
type MembershipRecord struct {
	ID                    string  `json:"id"`
	Organizer             Address `json:"organizer"`
	Member                Address `json:"member"`
	CanEditEvents         bool    `json:"can_edit_events"`
	CanManageParticipants bool    `json:"can_manage_participants"`
	CanSubmitProof        bool    `json:"can_submit_proof"`
	AddedAt               int64   `json:"added_at"`
	LastUpdatedAt         int64   `json:"last_updated_at"`
	Deleted               bool    `json:"deleted"`
	DeletedAt             int64   `json:"deleted_at,omitempty"`
}

// PassportRecord is the native passport verification state of a user.
type PassportRecord struct {
	User         Address          `json:"user"`
	Status       domain.KYCStatus `json:"status"`
	Reason       string           `json:"reason,omitempty"`
	DocumentType int64            `json:"document_type"`
	UpdatedAt    int64            `json:"updated_at"`
	BlockNumber  uint64           `json:"block_number"`
	TxHash       string           `json:"tx_hash"`
}

// NotificationRecord is a user-facing message derived from one event.
type NotificationRecord struct {
	ID                string  `json:"id"`
	User              Address `json:"user"`
	Type              string  `json:"type"`
	Title             string  `json:"title"`
	Message           string  `json:"message"`
	RelatedEntity     string  `json:"related_entity,omitempty"`
	RelatedEntityType string  `json:"related_entity_type,omitempty"`
	Read              bool    `json:"read"`
	CreatedAt         int64   `json:"created_at"`
	BlockNumber       uint64  `json:"block_number"`
	TxHash            string  `json:"tx_hash"`
}

// AddressUpdatedRecord audits an addresses-provider pointer change.
type AddressUpdatedRecord struct {
	ID             string  `json:"id"`
	Key            string  `json:"key"`
	OldAddress     Address `json:"old_address"`
	NewAddress     Address `json:"new_address"`
	BlockNumber    uint64  `json:"block_number"`
	BlockTimestamp int64   `json:"block_timestamp"`
	TxHash         string  `json:"tx_hash"`
}

// AppIDUpdatedRecord audits a rewards manager app id change.
type AppIDUpdatedRecord struct {
	ID             string `json:"id"`
	OldAppID       string `json:"old_app_id"`
	NewAppID       string `json:"new_app_id"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp int64  `json:"block_timestamp"`
	TxHash         string `json:"tx_hash"`
}

// RewardsPoolUpdatedRecord audits a rewards pool pointer change.
type RewardsPoolUpdatedRecord struct {
	ID             string  `json:"id"`
	OldPool        Address `json:"old_pool"`
	NewPool        Address `json:"new_pool"`
	BlockNumber    uint64  `json:"block_number"`
	BlockTimestamp int64   `json:"block_timestamp"`
	TxHash         string  `json:"tx_hash"`
}
