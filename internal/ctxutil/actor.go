// Package ctxutil carries the acting user's id through context.Context.
// It imports nothing from this module so every layer can use it.
package ctxutil

import (
	"context"
	"strings"
)

type actorKey struct{}

// WithActorID attaches actorID to ctx. Surrounding whitespace is dropped and a
// blank id leaves ctx untouched, so an outer actor is never masked by an empty one.
func WithActorID(ctx context.Context, actorID string) context.Context {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor id, or "" for an anonymous context.
func ActorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}
