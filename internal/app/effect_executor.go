// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/lessonbook/internal/core/effects"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// ExecutionReport summarises what an effect batch did.
type ExecutionReport struct {
	Notified  int
	Retracted int
	Failed    bool // notification effects were rolled back and audited
}

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place planner output touches I/O.
type EffectExecutor interface {
	Execute(ctx context.Context, repos secondary.Repositories, effs []effects.Effect) (ExecutionReport, error)
}

// DefaultEffectExecutor implements EffectExecutor with real I/O.
type DefaultEffectExecutor struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(notifier Notifier, logger *slog.Logger) *DefaultEffectExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultEffectExecutor{notifier: notifier, logger: logger}
}

// Execute runs notification effects inside one savepoint of the caller's unit of
// work. A notification failure rolls back only that savepoint: it is queued for
// the operation log and never returned, so business state still commits.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, repos secondary.Repositories, effs []effects.Effect) (ExecutionReport, error) {
	var (
		report  ExecutionReport
		notify  []effects.Effect
		logs    []effects.LogEffect
		flatErr error
	)
	flatten(effs, func(eff effects.Effect) {
		switch typed := eff.(type) {
		case effects.NotifyEffect, effects.RetractEffect:
			notify = append(notify, typed)
		case effects.LogEffect:
			logs = append(logs, typed)
		case effects.NoEffect:
		default:
			flatErr = fmt.Errorf("unknown effect type: %T", eff)
		}
	})
	if flatErr != nil {
		return report, flatErr
	}

	if len(notify) > 0 {
		var pending ExecutionReport
		err := repos.Savepoint(ctx, "notify_dispatch", func(ctx context.Context) error {
			for _, eff := range notify {
				if err := e.executeOne(ctx, repos, eff, &pending); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			report.Failed = true
			recordDispatchFailure(ctx, dispatchOperation(notify), err)
		} else {
			report = pending
		}
	}

	for _, l := range logs {
		e.logger.Log(ctx, ParseLogLevel(l.Level), l.Message, logAttrs(l.Fields)...)
	}
	return report, nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, repos secondary.Repositories, eff effects.Effect, report *ExecutionReport) error {
	switch typed := eff.(type) {
	case effects.NotifyEffect:
		n, err := e.notifier.Dispatch(ctx, repos, typed)
		if err != nil {
			return fmt.Errorf("failed to dispatch %s for %s: %w", typed.Event, typed.EntityID, err)
		}
		report.Notified += n
	case effects.RetractEffect:
		n, err := e.notifier.Retract(ctx, repos, typed)
		if err != nil {
			return fmt.Errorf("failed to retract %v for %s: %w", typed.Types, typed.EntityID, err)
		}
		report.Retracted += n
	}
	return nil
}

func flatten(effs []effects.Effect, visit func(effects.Effect)) {
	for _, eff := range effs {
		if c, ok := eff.(effects.CompositeEffect); ok {
			flatten(c.Effects, visit)
			continue
		}
		visit(eff)
	}
}

func dispatchOperation(effs []effects.Effect) string {
	for _, eff := range effs {
		if n, ok := eff.(effects.NotifyEffect); ok {
			return "notify:" + n.Event
		}
	}
	return "notify:retract"
}

func logAttrs(fields map[string]any) []any {
	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	return attrs
}
