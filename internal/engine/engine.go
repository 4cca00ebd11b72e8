// Package engine executes workflow plans one step at a time against the live
// repository. After every completed step the operation journal is re-persisted
// so a later --continue or --abort invocation, a brand-new process, can resume
// or roll back exactly where this run stopped.
package engine

import (
	"fmt"

	arborerrors "arbor.dev/arbor/internal/errors"
	"arbor.dev/arbor/internal/runstate"
	"arbor.dev/arbor/internal/steps"
)

// Outcome reports how a run ended
type Outcome int

const (
	// Done indicates every step completed and the journal is cleared
	Done Outcome = iota
	// Paused indicates a step needs manual conflict resolution; the journal
	// holds the remainder and the undo history
	Paused
	// Failed indicates a step failed for a reason the user cannot resolve in
	// the working tree; the journal is persisted the same way
	Failed
)

// Engine drives the fresh-run / continue / abort state machine
type Engine struct {
	exec *steps.Context
}

// New creates an Engine over the given execution context
func New(exec *steps.Context) *Engine {
	return &Engine{exec: exec}
}

// Run starts a fresh workflow. It is rejected while a journal exists: the
// pending operation must be continued or aborted first.
func (e *Engine) Run(plan []steps.Step, opts runstate.Options) (Outcome, error) {
	if runstate.Exists(e.exec.Store) {
		return Failed, fmt.Errorf("%w, resolve it with --continue or --abort first", arborerrors.ErrRunInProgress)
	}
	return e.execute(plan, nil, opts)
}

// Continue resumes a paused workflow. The condition that paused execution
// must actually be resolved: no merge may be in progress and no unmerged
// paths may remain.
func (e *Engine) Continue() (Outcome, error) {
	state, err := runstate.Load(e.exec.Store)
	if err != nil {
		return Failed, err
	}

	if e.exec.Git.IsMergeInProgress(e.exec.Ctx) {
		return Failed, fmt.Errorf("a merge is still in progress, resolve the conflicts and commit before running --continue")
	}
	if unmerged, err := e.exec.Git.HasUnmergedFiles(e.exec.Ctx); err != nil {
		return Failed, err
	} else if unmerged {
		return Failed, fmt.Errorf("the working tree still contains unresolved conflicts")
	}

	return e.execute(state.RemainingSteps, state.UndoSteps, state.Options)
}

// Abort rolls back a paused workflow: any in-progress merge is aborted, the
// undo steps run in order (most recent first by construction), the remaining
// steps are discarded and the journal is cleared. Restoration is best-effort;
// a failing undo step is reported but does not block the rest.
func (e *Engine) Abort() error {
	state, err := runstate.Load(e.exec.Store)
	if err != nil {
		return err
	}

	if e.exec.Git.IsMergeInProgress(e.exec.Ctx) {
		if err := e.exec.Git.MergeAbort(e.exec.Ctx); err != nil {
			e.exec.Log.Warn("failed to abort in-progress merge: %v", err)
		}
	}

	for _, step := range state.UndoSteps {
		if _, err := step.Execute(e.exec); err != nil {
			e.exec.Log.Warn("undo step %q failed: %v", steps.Serialize(step), err)
		}
	}

	if err := runstate.Clear(e.exec.Store); err != nil {
		return err
	}
	if state.Options.StashedChanges {
		if err := e.exec.Git.StashPop(e.exec.Ctx); err != nil {
			e.exec.Log.Warn("failed to restore stashed changes: %v", err)
		}
	}
	e.exec.Log.Info("operation aborted")
	return nil
}

// execute runs the remaining steps in order. Each step's undo is computed
// from the pre-execution state and prepended to the undo history, and the
// journal is re-persisted after every step. A step that pauses or fails stays
// in the journaled remainder; --continue re-executes it. On clean exhaustion
// the journal is cleared and stashed changes are restored.
func (e *Engine) execute(remaining []steps.Step, undo []steps.Step, opts runstate.Options) (Outcome, error) {
	for i, step := range remaining {
		undoStep, hasUndo := step.ComputeUndo(e.exec)
		outcome, err := step.Execute(e.exec)

		if hasUndo {
			undo = append([]steps.Step{undoStep}, undo...)
		}

		if err != nil {
			state := &runstate.RunState{RemainingSteps: remaining[i:], UndoSteps: undo, Options: opts}
			if saveErr := runstate.Save(e.exec.Store, state); saveErr != nil {
				return Failed, fmt.Errorf("step %q failed (%v), and the journal could not be persisted: %w", steps.Serialize(step), err, saveErr)
			}
			return Failed, fmt.Errorf("step %q failed: %w\nFix the problem and run --continue, or roll back with --abort", steps.Serialize(step), err)
		}
		if outcome == steps.NeedsResolution {
			state := &runstate.RunState{RemainingSteps: remaining[i:], UndoSteps: undo, Options: opts}
			if saveErr := runstate.Save(e.exec.Store, state); saveErr != nil {
				return Failed, fmt.Errorf("conflict in step %q, and the journal could not be persisted: %w", steps.Serialize(step), saveErr)
			}
			return Paused, fmt.Errorf("%w in step %q\nResolve the conflicts, commit, and run --continue, or roll back with --abort", arborerrors.ErrMergeConflict, steps.Serialize(step))
		}

		state := &runstate.RunState{RemainingSteps: remaining[i+1:], UndoSteps: undo, Options: opts}
		if err := runstate.Save(e.exec.Store, state); err != nil {
			return Failed, err
		}
	}

	if err := runstate.Clear(e.exec.Store); err != nil {
		return Failed, err
	}
	if opts.StashedChanges {
		if err := e.exec.Git.StashPop(e.exec.Ctx); err != nil {
			e.exec.Log.Warn("failed to restore stashed changes: %v", err)
		}
	}
	return Done, nil
}
