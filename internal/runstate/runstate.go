// Package runstate persists the journal of a paused workflow: the unexecuted
// remainder of the plan, the undo history of what already ran, and the
// options needed to resume identically. At most one journal exists at a time;
// its absence is the "no operation in progress" state.
package runstate

import (
	"encoding/json"
	"fmt"

	"arbor.dev/arbor/internal/config"
	arborerrors "arbor.dev/arbor/internal/errors"
	"arbor.dev/arbor/internal/steps"
)

// Journal keys in the key/value store
const (
	KeyRemainingSteps = "arbor-runstate.remaining-steps"
	KeyUndoSteps      = "arbor-runstate.undo-steps"
	KeyOptions        = "arbor-runstate.options"
)

// Options captures the execution context needed to resume a run identically
type Options struct {
	StashedChanges bool `json:"stashedChanges"`
}

// RunState is the journal of one in-flight workflow
type RunState struct {
	RemainingSteps []steps.Step
	UndoSteps      []steps.Step
	Options        Options
}

// Exists reports whether a journal is persisted
func Exists(store config.Store) bool {
	_, hasRemaining := store.Get(KeyRemainingSteps)
	_, hasUndo := store.Get(KeyUndoSteps)
	return hasRemaining || hasUndo
}

// Save persists the journal. Called once per completed step, never mid-step.
func Save(store config.Store, state *RunState) error {
	optionsJSON, err := json.Marshal(state.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal run options: %w", err)
	}
	if err := store.Set(KeyRemainingSteps, steps.SerializeList(state.RemainingSteps)); err != nil {
		return err
	}
	if err := store.Set(KeyUndoSteps, steps.SerializeList(state.UndoSteps)); err != nil {
		return err
	}
	return store.Set(KeyOptions, string(optionsJSON))
}

// Load reads the persisted journal, or ErrNoRunInProgress when none exists
func Load(store config.Store) (*RunState, error) {
	if !Exists(store) {
		return nil, arborerrors.ErrNoRunInProgress
	}

	state := &RunState{}
	if text, ok := store.Get(KeyRemainingSteps); ok {
		remaining, err := steps.ParseList(text)
		if err != nil {
			return nil, fmt.Errorf("corrupt journal: %w", err)
		}
		state.RemainingSteps = remaining
	}
	if text, ok := store.Get(KeyUndoSteps); ok {
		undo, err := steps.ParseList(text)
		if err != nil {
			return nil, fmt.Errorf("corrupt journal: %w", err)
		}
		state.UndoSteps = undo
	}
	if text, ok := store.Get(KeyOptions); ok && text != "" {
		if err := json.Unmarshal([]byte(text), &state.Options); err != nil {
			return nil, fmt.Errorf("corrupt run options: %w", err)
		}
	}
	return state, nil
}

// Clear removes the journal. Clearing an absent journal is a no-op.
func Clear(store config.Store) error {
	for _, key := range []string{KeyRemainingSteps, KeyUndoSteps, KeyOptions} {
		if err := store.Unset(key); err != nil {
			return err
		}
	}
	return nil
}
