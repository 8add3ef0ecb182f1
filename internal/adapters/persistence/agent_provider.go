// Package persistence adapts the user directory into the identity provider port.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ctxutil"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// ActorIdentityProvider resolves the actor id carried by the context against
// the users table. The role always comes from the directory, never the caller.
type ActorIdentityProvider struct {
	users secondary.UserRepository
}

// NewActorIdentityProvider creates a new ActorIdentityProvider.
func NewActorIdentityProvider(users secondary.UserRepository) *ActorIdentityProvider {
	return &ActorIdentityProvider{users: users}
}

// CurrentActor returns the active user named by the context's actor id.
func (p *ActorIdentityProvider) CurrentActor(ctx context.Context) (*secondary.Actor, error) {
	id := ctxutil.ActorFromContext(ctx)
	if id == "" {
		return nil, fault.Validation("no actor set (use --actor or LESSONBOOK_ACTOR_ID)")
	}

	user, err := p.users.GetByID(ctx, id)
	if errors.Is(err, fault.ErrNotFound) {
		return nil, fmt.Errorf("actor %s is not a registered user: %w", id, fault.ErrNotEligible)
	}
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("actor %s is deactivated: %w", id, fault.ErrNotEligible)
	}

	return &secondary.Actor{ID: user.ID, Role: user.Role}, nil
}

// Ensure ActorIdentityProvider implements the interface
var _ secondary.IdentityProvider = (*ActorIdentityProvider)(nil)
