package projection

import (
	"testing"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
)

func TestTeamMembershipSoftRemoval(t *testing.T) {
	h := newHarness(t)
	registerUser(h, organizer, 1)
	registerUser(h, bob, 2)
	added := h.emit(domain.TypeTeamMemberAdded, 10, domain.TeamMemberPayload{Organizer: organizer, Member: bob, CanEditEvents: true})

	m, ok := h.membership(organizer, bob)
	if !ok || !m.CanEditEvents || m.AddedAt != 10 || m.Deleted {
		t.Fatalf("membership = %+v (found %v)", m, ok)
	}
	if _, ok := h.notification(added, "team_member_added", bob); !ok {
		t.Fatal("expected team notification to the member")
	}

	removed := h.emit(domain.TypeTeamMemberRemoved, 20, domain.TeamMemberRemovedPayload{Organizer: organizer, Member: bob})
	m, ok = h.membership(organizer, bob)
	if !ok || !m.Deleted || m.DeletedAt != 20 {
		t.Fatalf("removed membership = %+v (found %v)", m, ok)
	}
	if _, ok := h.notification(removed, "team_member_removed", bob); !ok {
		t.Fatal("expected removal notification")
	}

	h.emit(domain.TypeTeamMemberPermissionsUpdated, 25, domain.TeamMemberPayload{Organizer: organizer, Member: bob, CanSubmitProof: true})
	if m, _ := h.membership(organizer, bob); m.CanSubmitProof {
		t.Fatal("permissions must not change on a removed membership")
	}

	h.emit(domain.TypeTeamMemberAdded, 30, domain.TeamMemberPayload{Organizer: organizer, Member: bob, CanManageParticipants: true})
	m, _ = h.membership(organizer, bob)
	if m.Deleted || m.DeletedAt != 0 || m.AddedAt != 10 || m.LastUpdatedAt != 30 || m.CanEditEvents || !m.CanManageParticipants {
		t.Fatalf("restored membership = %+v", m)
	}
}

func TestTeamMembershipHardRemoval(t *testing.T) {
	h := newHarnessWith(t, EngineConfig{TeamRemoval: TeamRemovalHard})
	registerUser(h, bob, 1)
	h.emit(domain.TypeTeamMemberAdded, 10, domain.TeamMemberPayload{Organizer: organizer, Member: bob})
	removed := h.next(domain.TypeTeamMemberRemoved, 20, domain.TeamMemberRemovedPayload{Organizer: organizer, Member: bob})
	h.apply(removed, removed)

	if _, ok := h.membership(organizer, bob); ok {
		t.Fatal("membership should be deleted")
	}
	if h.skippedWith(skipMissingMembership) != 1 {
		t.Fatal("expected replayed removal to be skipped")
	}
	if _, ok := h.notification(removed, "team_member_removed", bob); !ok {
		t.Fatal("expected removal notification")
	}
}

func TestTeamPermissionsUpdated(t *testing.T) {
	h := newHarness(t)
	registerUser(h, carol, 1)
	h.emit(domain.TypeTeamMemberAdded, 10, domain.TeamMemberPayload{Organizer: organizer, Member: carol})
	h.emit(domain.TypeTeamMemberPermissionsUpdated, 20, domain.TeamMemberPayload{Organizer: organizer, Member: carol, CanEditEvents: true, CanSubmitProof: true})

	m, _ := h.membership(organizer, carol)
	if !m.CanEditEvents || !m.CanSubmitProof || m.CanManageParticipants || m.LastUpdatedAt != 20 || m.AddedAt != 10 {
		t.Fatalf("membership = %+v", m)
	}
}

func TestTeamMemberAddedForUnknownMember(t *testing.T) {
	h := newHarness(t)
	added := h.next(domain.TypeTeamMemberAdded, 10, domain.TeamMemberPayload{Organizer: organizer, Member: alice, CanSubmitProof: true})
	h.apply(added, added)

	m, ok := h.membership(organizer, alice)
	if !ok || !m.CanSubmitProof || m.AddedAt != 10 {
		t.Fatalf("membership = %+v (found %v)", m, ok)
	}
	u := h.user(alice)
	if !u.Placeholder || u.RegisteredAt != 0 {
		t.Fatalf("member = %+v, want placeholder", u)
	}
	if _, ok := h.notification(added, "team_member_added", alice); !ok {
		t.Fatal("expected team notification to the member")
	}

	registerUser(h, alice, 20)
	if u := h.user(alice); u.Placeholder || u.RegisteredAt != 20 {
		t.Fatalf("registered member = %+v", u)
	}
	if m, _ := h.membership(organizer, alice); !m.CanSubmitProof {
		t.Fatal("registration must keep the membership")
	}
}

func TestParseTeamRemoval(t *testing.T) {
	tests := map[string]TeamRemoval{"": TeamRemovalSoft, "SOFT": TeamRemovalSoft, " hard ": TeamRemovalHard}
	for input, want := range tests {
		got, err := ParseTeamRemoval(input)
		if err != nil || got != want {
			t.Fatalf("ParseTeamRemoval(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseTeamRemoval("archive"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
