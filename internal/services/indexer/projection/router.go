package projection

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
)

// Router dispatches events by type to typed projector handlers.
type Router struct {
	handlers map[domain.Type]func(Applier, context.Context, domain.Event) error
	types    []domain.Type
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{handlers: make(map[domain.Type]func(Applier, context.Context, domain.Event) error)}
}

// Route decodes the payload of evt and calls its handler.
func (r *Router) Route(a Applier, ctx context.Context, evt domain.Event) error {
	h, ok := r.handlers[evt.Type]
	if !ok {
		return apperrors.New(apperrors.CodeUnhandledEvent, fmt.Sprintf("unhandled projection event type: %s", evt.Type))
	}
	return h(a, ctx, evt)
}

// Handles reports whether t has a registered handler.
func (r *Router) Handles(t domain.Type) bool {
	_, ok := r.handlers[t]
	return ok
}

// HandledTypes returns all registered event types in registration order.
func (r *Router) HandledTypes() []domain.Type {
	return append([]domain.Type(nil), r.types...)
}

type validator interface {
	Validate() error
}

// HandleProjection registers a handler that receives the decoded payload.
// Payloads with a Validate method are validated before the handler runs.
func HandleProjection[P any](r *Router, t domain.Type, fn func(Applier, context.Context, domain.Event, P) error) {
	if _, exists := r.handlers[t]; exists {
		panic(fmt.Sprintf("projection handler for %s registered twice", t))
	}
	r.handlers[t] = func(a Applier, ctx context.Context, evt domain.Event) error {
		var payload P
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidPayload, fmt.Sprintf("decode %s payload", t), err)
		}
		if v, ok := any(payload).(validator); ok {
			if err := v.Validate(); err != nil {
				return apperrors.Wrap(apperrors.CodeInvalidPayload, fmt.Sprintf("validate %s payload", t), err)
			}
		}
		return fn(a, ctx, evt, payload)
	}
	r.types = append(r.types, t)
}

// DefaultRouter registers every projector.
func DefaultRouter() *Router {
	r := NewRouter()

	// identity
	HandleProjection(r, domain.TypeUserRegistered, Applier.applyUserRegistered)
	HandleProjection(r, domain.TypeEmailVerified, Applier.applyEmailVerified)
	HandleProjection(r, domain.TypeKYCStatusUpdated, Applier.applyKYCStatusUpdated)
	HandleProjection(r, domain.TypeProfileUpdated, Applier.applyProfileUpdated)
	HandleProjection(r, domain.TypeReferralCodeSet, Applier.applyReferralCodeSet)
	HandleProjection(r, domain.TypeUserReferred, Applier.applyUserReferred)
	HandleProjection(r, domain.TypeOrganizerStatusUpdated, Applier.applyOrganizerStatusUpdated)

	// team
	HandleProjection(r, domain.TypeTeamMemberAdded, Applier.applyTeamMemberAdded)
	HandleProjection(r, domain.TypeTeamMemberRemoved, Applier.applyTeamMemberRemoved)
	HandleProjection(r, domain.TypeTeamMemberPermissionsUpdated, Applier.applyTeamMemberPermissionsUpdated)

	// event lifecycle
	HandleProjection(r, domain.TypeEventCreated, Applier.applyEventCreated)
	HandleProjection(r, domain.TypeEventPublished, Applier.applyEventPublished)
	HandleProjection(r, domain.TypeEventUnpublished, Applier.applyEventUnpublished)
	HandleProjection(r, domain.TypeEventStatusUpdated, Applier.applyEventStatusUpdated)
	HandleProjection(r, domain.TypeEventMadePublic, Applier.applyEventMadePublic)
	HandleProjection(r, domain.TypeEventUpdateAdded, Applier.applyEventUpdateAdded)
	HandleProjection(r, domain.TypeProofOfWorkSubmitted, Applier.applyProofOfWorkSubmitted)
	HandleProjection(r, domain.TypeEventContractDeployed, Applier.applyEventContractDeployed)

	// participants
	HandleProjection(r, domain.TypeParticipantApplied, Applier.applyParticipantApplied)
	HandleProjection(r, domain.TypeParticipantAccepted, Applier.applyParticipantAccepted)
	HandleProjection(r, domain.TypeParticipantRejected, Applier.applyParticipantRejected)

	// rewards
	HandleProjection(r, domain.TypeRewardEarned, Applier.applyRewardEarned)
	HandleProjection(r, domain.TypeRewardsDistributed, Applier.applyRewardsDistributed)
	HandleProjection(r, domain.TypeTokenTransferred, Applier.applyTokenTransferred)

	// streak
	HandleProjection(r, domain.TypeStreakerJoined, Applier.applyStreakerJoined)
	HandleProjection(r, domain.TypeStreakSubmitted, Applier.applyStreakSubmitted)
	HandleProjection(r, domain.TypeStreakApproved, Applier.applyStreakApproved)
	HandleProjection(r, domain.TypeStreakRejected, Applier.applyStreakRejected)

	// passport
	HandleProjection(r, domain.TypePassportStatusUpdated, Applier.applyPassportStatusUpdated)

	// registry audit
	HandleProjection(r, domain.TypeAddressUpdated, Applier.applyAddressUpdated)
	HandleProjection(r, domain.TypeAppIDUpdated, Applier.applyAppIDUpdated)
	HandleProjection(r, domain.TypeRewardsPoolUpdated, Applier.applyRewardsPoolUpdated)

	return r
}
