// Package notify holds the user-facing copy of indexer notifications. Copy is
// registered with the x/text message catalog so it can be localized later
// without touching the projectors.
package notify

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind is the type tag stored on a notification record.
type Kind string

const (
	KindUserRegistered         Kind = "user_registered"
	KindEmailVerified          Kind = "email_verified"
	KindKYCStatusUpdated       Kind = "kyc_status_updated"
	KindProfileUpdated         Kind = "user_profile_updated"
	KindUserReferred           Kind = "user_referred"
	KindOrganizerStatusUpdated Kind = "organizer_status_updated"
	KindTeamMemberAdded        Kind = "team_member_added"
	KindTeamMemberRemoved      Kind = "team_member_removed"
	KindParticipantApplied     Kind = "participant_applied"
	KindParticipantAccepted    Kind = "participant_accepted"
	KindParticipantRejected    Kind = "participant_rejected"
	KindProofOfWorkSubmitted   Kind = "proof_of_work_submitted"
	KindEventUpdate            Kind = "event_update"
	KindEventMadePublic        Kind = "event_made_public"
	KindRewardEarned           Kind = "reward_earned"
	KindStreakerJoined         Kind = "streaker_joined"
	KindStreakSubmitted        Kind = "streak_submitted"
	KindStreakApproved         Kind = "streak_approved"
	KindStreakRejected         Kind = "streak_rejected"
)

// Message names one catalog entry. Several messages can share a Kind.
type Message string

const (
	MessageUserRegistered     Message = "user_registered"
	MessageEmailVerified      Message = "email_verified"
	MessageKYCStatusUpdated   Message = "kyc_status_updated"
	MessageProfileUpdated     Message = "profile_updated"
	MessageUserReferred       Message = "user_referred"
	MessageOrganizerGranted   Message = "organizer_granted"
	MessageOrganizerRevoked   Message = "organizer_revoked"
	MessageTeamMemberAdded    Message = "team_member_added"
	MessageTeamMemberRemoved  Message = "team_member_removed"
	MessageApplied            Message = "participant_applied"
	MessageAccepted           Message = "participant_accepted"
	MessageRejected           Message = "participant_rejected"
	MessageProofOfWork        Message = "proof_of_work_submitted"
	MessageEventUpdate        Message = "event_update"
	MessageEventMadePublic    Message = "event_made_public"
	MessageEventRewardEarned  Message = "event_reward_earned"
	MessageStreakRewardEarned Message = "streak_reward_earned"
	MessageRewardEarned       Message = "reward_earned"
	MessageStreakerJoined     Message = "streaker_joined"
	MessageStreakSubmitted    Message = "streak_submitted"
	MessageStreakApproved     Message = "streak_approved"
	MessageStreakRejected     Message = "streak_rejected"
)

type entry struct {
	kind    Kind
	title   string
	message string
}

// Titles and messages are fmt-style formats. Variant-scoped copy takes the
// variant title (e.g. "Cleanup") in the title and its noun in the message.
var entries = map[Message]entry{
	MessageUserRegistered:     {KindUserRegistered, "Welcome to CleanMate!", "Your account has been successfully registered."},
	MessageEmailVerified:      {KindEmailVerified, "Email Verified", "Your email has been successfully verified."},
	MessageKYCStatusUpdated:   {KindKYCStatusUpdated, "KYC Status Updated", "Your KYC status has been updated to %s."},
	MessageProfileUpdated:     {KindProfileUpdated, "Profile Updated", "Your profile has been successfully updated."},
	MessageUserReferred:       {KindUserReferred, "New Referral", "A new user has been referred using your referral code."},
	MessageOrganizerGranted:   {KindOrganizerStatusUpdated, "Organizer Status Updated", "You have been granted organizer status."},
	MessageOrganizerRevoked:   {KindOrganizerStatusUpdated, "Organizer Status Updated", "Your organizer status has been revoked."},
	MessageTeamMemberAdded:    {KindTeamMemberAdded, "Added to Team", "You have been added as a team member."},
	MessageTeamMemberRemoved:  {KindTeamMemberRemoved, "Removed from Team", "You have been removed from the team."},
	MessageApplied:            {KindParticipantApplied, "Application Submitted", "You have successfully applied to join the %s event."},
	MessageAccepted:           {KindParticipantAccepted, "Application Accepted", "Your application to join the %s event has been accepted."},
	MessageRejected:           {KindParticipantRejected, "Application Rejected", "Your application to join the %s event has been rejected."},
	MessageProofOfWork:        {KindProofOfWorkSubmitted, "Proof of Work Submitted", "Proof of work has been submitted for the %s event."},
	MessageEventUpdate:        {KindEventUpdate, "%s Update", "A new update has been added to the %s event."},
	MessageEventMadePublic:    {KindEventMadePublic, "%s Made Public", "Your private %s event has been made public and is now visible to everyone."},
	MessageEventRewardEarned:  {KindRewardEarned, "Reward Earned", "You have earned a reward for participating in a %s event."},
	MessageStreakRewardEarned: {KindRewardEarned, "Reward Earned", "You have earned a reward for your sustainable action."},
	MessageRewardEarned:       {KindRewardEarned, "Reward Earned", "You have earned a reward."},
	MessageStreakerJoined:     {KindStreakerJoined, "Welcome to Streak!", "You've successfully joined the streak program! Your streaker code is: %s"},
	MessageStreakSubmitted:    {KindStreakSubmitted, "Streak Submitted", "Your sustainable action submission has been received and is pending review."},
	MessageStreakApproved:     {KindStreakApproved, "Streak Approved", "Your sustainable action submission has been approved!"},
	MessageStreakRejected:     {KindStreakRejected, "Streak Rejected", "Your sustainable action submission has been rejected. Reason: %s"},
}

// BaseLanguage is the language the catalog is written in.
var BaseLanguage = language.English

func init() {
	for _, msg := range Messages() {
		e := entries[msg]
		if err := message.SetString(BaseLanguage, titleKey(msg), e.title); err != nil {
			panic(fmt.Sprintf("register %s title: %v", msg, err))
		}
		if err := message.SetString(BaseLanguage, messageKey(msg), e.message); err != nil {
			panic(fmt.Sprintf("register %s message: %v", msg, err))
		}
	}
}

// Messages returns every catalog entry in sorted order.
func Messages() []Message {
	out := make([]Message, 0, len(entries))
	for msg := range entries {
		out = append(out, msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Kind returns the notification type tag of the message.
func (m Message) Kind() Kind {
	return entries[m].kind
}

func titleKey(m Message) string {
	return "notify." + string(m) + ".title"
}

func messageKey(m Message) string {
	return "notify." + string(m) + ".message"
}
