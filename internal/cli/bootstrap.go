// Package cli provides CLI commands for the lessonbook application.
package cli

import (
	gocontext "context"
	"strings"

	"github.com/example/lessonbook/internal/ctxutil"
	"github.com/example/lessonbook/internal/wire"
)

// globalActorID stores the actor for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor stores the acting user: the --actor flag wins, then the
// configured actor (LESSONBOOK_ACTOR_ID or config.json).
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor(flagValue string) {
	globalActorID = strings.TrimSpace(flagValue)
	if globalActorID == "" {
		globalActorID = wire.Config().ActorID
	}
}

// NewContext returns a background context carrying the invocation's actor.
func NewContext() gocontext.Context {
	return ctxutil.WithActorID(gocontext.Background(), globalActorID)
}
