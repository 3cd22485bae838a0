package projection

import (
	"testing"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
)

// fullHistory covers every handler in chain order.
func fullHistory(t *testing.T) []domain.Event {
	t.Helper()
	var block uint64
	event := func(typ domain.Type, ts int64, payload any) domain.Event {
		block++
		return makeEvent(t, typ, envelopeAt(block, ts), payload)
	}
	return []domain.Event{
		event(domain.TypeUserRegistered, 10, domain.UserRegisteredPayload{User: organizer, Metadata: "ipfs://org"}),
		event(domain.TypeUserRegistered, 11, domain.UserRegisteredPayload{User: alice, Metadata: "ipfs://alice"}),
		event(domain.TypeUserRegistered, 12, domain.UserRegisteredPayload{User: bob, Metadata: "ipfs://bob"}),
		event(domain.TypeEmailVerified, 13, domain.UserPayload{User: alice}),
		event(domain.TypeKYCStatusUpdated, 14, domain.KYCStatusUpdatedPayload{User: alice, NewStatus: 1}),
		event(domain.TypeProfileUpdated, 15, domain.ProfileUpdatedPayload{User: alice, Metadata: "ipfs://alice-2"}),
		event(domain.TypeReferralCodeSet, 16, domain.ReferralCodeSetPayload{User: alice, ReferralCode: "ALICE"}),
		event(domain.TypeUserReferred, 17, domain.UserReferredPayload{User: bob, Referrer: alice}),
		event(domain.TypeOrganizerStatusUpdated, 18, domain.OrganizerStatusUpdatedPayload{User: organizer, IsOrganizer: true}),
		event(domain.TypeTeamMemberAdded, 19, domain.TeamMemberPayload{Organizer: organizer, Member: bob, CanEditEvents: true}),
		event(domain.TypeTeamMemberPermissionsUpdated, 20, domain.TeamMemberPayload{Organizer: organizer, Member: bob, CanSubmitProof: true}),
		event(domain.TypeTeamMemberRemoved, 21, domain.TeamMemberRemovedPayload{Organizer: organizer, Member: bob}),
		event(domain.TypeParticipantApplied, 22, domain.ParticipantAppliedPayload{EventID: amount(7), Participant: alice, AppliedAt: 22}),
		event(domain.TypeEventCreated, 23, domain.EventCreatedPayload{EventID: amount(7), Organizer: organizer, Metadata: "ipfs://7", StartTime: 100, EndTime: 160}),
		event(domain.TypeEventPublished, 24, domain.EventRefPayload{EventID: amount(7)}),
		event(domain.TypeEventStatusUpdated, 25, domain.EventStatusUpdatedPayload{EventID: amount(7), OldStatus: 0, NewStatus: 1}),
		event(domain.TypeEventUnpublished, 26, domain.EventRefPayload{EventID: amount(7)}),
		event(domain.TypeEventPublished, 27, domain.EventRefPayload{EventID: amount(7)}),
		event(domain.TypeEventUpdateAdded, 28, domain.EventUpdateAddedPayload{EventID: amount(7), Organizer: organizer, Metadata: "ipfs://u1", AddedAt: 28}),
		event(domain.TypeParticipantAccepted, 29, domain.ParticipantPayload{EventID: amount(7), Participant: alice}),
		event(domain.TypeParticipantRejected, 30, domain.ParticipantPayload{EventID: amount(7), Participant: bob}),
		event(domain.TypeEventStatusUpdated, 31, domain.EventStatusUpdatedPayload{EventID: amount(7), OldStatus: 1, NewStatus: 2}),
		event(domain.TypeEventStatusUpdated, 32, domain.EventStatusUpdatedPayload{EventID: amount(7), OldStatus: 2, NewStatus: 3}),
		event(domain.TypeProofOfWorkSubmitted, 33, domain.ProofOfWorkSubmittedPayload{EventID: amount(7), Organizer: organizer, IPFSHashes: []string{"Qm1"}, Mimetypes: []string{"image/png"}, SubmittedAt: 33}),
		event(domain.TypeRewardEarned, 34, domain.RewardEarnedPayload{Participant: alice, EventID: amount(7), Amount: amount(50), RewardType: 2}),
		event(domain.TypeRewardsDistributed, 35, domain.RewardsDistributedPayload{EventID: amount(7), TotalAmount: amount(50), ParticipantCount: 1}),
		event(domain.TypeEventCreated, 36, domain.EventCreatedPayload{EventID: amount(8), Organizer: organizer, Metadata: "ipfs://8", IsPrivate: true, Variant: "impact"}),
		event(domain.TypeEventMadePublic, 37, domain.EventRefPayload{EventID: amount(8)}),
		event(domain.TypeEventContractDeployed, 38, domain.EventContractDeployedPayload{Contract: carol, Organizer: organizer, Metadata: "ipfs://c"}),
		event(domain.TypeStreakerJoined, 39, domain.StreakerJoinedPayload{User: alice, StreakerCode: "GREEN"}),
		event(domain.TypeStreakSubmitted, 40, domain.StreakSubmittedPayload{User: alice, SubmissionID: amount(1), Metadata: "ipfs://s1"}),
		event(domain.TypeStreakSubmitted, 41, domain.StreakSubmittedPayload{User: alice, SubmissionID: amount(2), Metadata: "ipfs://s2"}),
		event(domain.TypeStreakApproved, 42, domain.StreakApprovedPayload{User: alice, SubmissionID: amount(1), Amount: amount(5)}),
		event(domain.TypeStreakRejected, 43, domain.StreakRejectedPayload{User: alice, SubmissionID: amount(2), Reason: "blurry"}),
		event(domain.TypeStreakApproved, 44, domain.StreakApprovedPayload{User: bob, SubmissionID: amount(3), Amount: amount(2)}),
		event(domain.TypeRewardEarned, 45, domain.RewardEarnedPayload{Participant: alice, StreakSubmissionID: amount(1), Amount: amount(5), RewardType: 3}),
		event(domain.TypeRewardEarned, 46, domain.RewardEarnedPayload{Participant: bob, Amount: amount(9), RewardType: 0}),
		event(domain.TypeTokenTransferred, 47, domain.TokenTransferredPayload{User: alice, Amount: amount(20)}),
		event(domain.TypePassportStatusUpdated, 48, domain.PassportStatusUpdatedPayload{User: alice, Status: 2, DocumentType: 1}),
		event(domain.TypeAddressUpdated, 49, domain.AddressUpdatedPayload{Key: "STREAK", OldAddress: domain.ZeroAddress, NewAddress: carol}),
		event(domain.TypeAppIDUpdated, 50, domain.AppIDUpdatedPayload{OldAppID: "0x01", NewAppID: "0x02"}),
		event(domain.TypeRewardsPoolUpdated, 51, domain.RewardsPoolUpdatedPayload{OldPool: domain.ZeroAddress, NewPool: bob}),
	}
}

func TestHistoryCoversEveryHandler(t *testing.T) {
	seen := make(map[domain.Type]bool)
	for _, evt := range fullHistory(t) {
		seen[evt.Type] = true
	}
	for _, typ := range DefaultRouter().HandledTypes() {
		if !seen[typ] {
			t.Errorf("history does not exercise %s", typ)
		}
	}
}

func TestReplayingEachEventIsIdempotent(t *testing.T) {
	history := fullHistory(t)

	once := newHarness(t)
	once.apply(history...)

	twice := newHarness(t)
	for _, evt := range history {
		twice.apply(evt, evt)
	}

	want := once.store.Snapshot()
	got := twice.store.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("replay stored %d records, want %d", len(got), len(want))
	}
	for key, body := range want {
		if got[key] != body {
			t.Errorf("%s differs after replay:\n got: %s\nwant: %s", key, got[key], body)
		}
	}
	if len(once.observer.failed) != 0 || len(twice.observer.failed) != 0 {
		t.Fatal("no event should fail")
	}
}

func TestReplayingHistoryTwiceIsIdempotent(t *testing.T) {
	history := fullHistory(t)

	once := newHarness(t)
	once.apply(history...)
	want := once.store.Snapshot()

	once.apply(history...)
	got := once.store.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("second pass stored %d records, want %d", len(got), len(want))
	}
	for key, body := range want {
		if got[key] != body {
			t.Errorf("%s differs after second pass:\n got: %s\nwant: %s", key, got[key], body)
		}
	}
}
