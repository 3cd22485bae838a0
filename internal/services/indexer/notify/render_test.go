package notify

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestRenderFormatsTitleAndMessage(t *testing.T) {
	r := NewRenderer(language.English)

	tests := []struct {
		name      string
		msg       Message
		titleArgs []any
		args      []any
		kind      Kind
		title     string
		message   string
	}{
		{
			name:    "static copy",
			msg:     MessageUserRegistered,
			kind:    KindUserRegistered,
			title:   "Welcome to CleanMate!",
			message: "Your account has been successfully registered.",
		},
		{
			name:    "kyc status",
			msg:     MessageKYCStatusUpdated,
			args:    []any{"VERIFIED"},
			kind:    KindKYCStatusUpdated,
			title:   "KYC Status Updated",
			message: "Your KYC status has been updated to VERIFIED.",
		},
		{
			name:      "variant title",
			msg:       MessageEventMadePublic,
			titleArgs: []any{"Impact"},
			args:      []any{"impact"},
			kind:      KindEventMadePublic,
			title:     "Impact Made Public",
			message:   "Your private impact event has been made public and is now visible to everyone.",
		},
		{
			name:    "streaker code",
			msg:     MessageStreakerJoined,
			args:    []any{"STREAKER_0xabc"},
			kind:    KindStreakerJoined,
			title:   "Welcome to Streak!",
			message: "You've successfully joined the streak program! Your streaker code is: STREAKER_0xabc",
		},
		{
			name:    "organizer revoked shares kind",
			msg:     MessageOrganizerRevoked,
			kind:    KindOrganizerStatusUpdated,
			title:   "Organizer Status Updated",
			message: "Your organizer status has been revoked.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.msg, tt.titleArgs, tt.args...)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got.Kind != tt.kind {
				t.Fatalf("kind = %q, want %q", got.Kind, tt.kind)
			}
			if got.Title != tt.title {
				t.Fatalf("title = %q, want %q", got.Title, tt.title)
			}
			if got.Message != tt.message {
				t.Fatalf("message = %q, want %q", got.Message, tt.message)
			}
		})
	}
}

func TestRenderUnknownMessage(t *testing.T) {
	if _, err := NewRenderer(language.English).Render(Message("nope"), nil); err == nil {
		t.Fatal("expected error for unknown message")
	}
}

func TestRenderFallsBackToBaseLanguage(t *testing.T) {
	got, err := NewRenderer(language.BrazilianPortuguese).Render(MessageEmailVerified, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got.Title != "Email Verified" {
		t.Fatalf("title = %q, want base language copy", got.Title)
	}
}

func TestNilRendererUsesBaseLanguage(t *testing.T) {
	var r *Renderer
	got, err := r.Render(MessageStreakApproved, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got.Title != "Streak Approved" {
		t.Fatalf("title = %q", got.Title)
	}
}

func TestEveryMessageHasCopy(t *testing.T) {
	for _, msg := range Messages() {
		e := entries[msg]
		if msg.Kind() == "" {
			t.Fatalf("%s has no kind", msg)
		}
		if strings.TrimSpace(e.title) == "" || strings.TrimSpace(e.message) == "" {
			t.Fatalf("%s is missing copy", msg)
		}
	}
}
