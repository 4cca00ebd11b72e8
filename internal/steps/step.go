// Package steps defines the closed catalog of primitive, undoable workflow
// operations. Each step is a tagged variant serializable to a single line of
// text at the journal boundary; all in-process logic operates on the variant.
package steps

import (
	"context"
	"fmt"
	"strings"

	"arbor.dev/arbor/internal/config"
	"arbor.dev/arbor/internal/git"
	"arbor.dev/arbor/internal/hosting"
	"arbor.dev/arbor/internal/lineage"
	"arbor.dev/arbor/internal/output"
)

// Outcome distinguishes clean completion from a pause that needs the user to
// resolve conflicts in the working tree.
type Outcome int

const (
	// Done indicates the step completed
	Done Outcome = iota
	// NeedsResolution indicates the step stopped on a conflict that requires
	// manual resolution before the workflow can continue
	NeedsResolution
)

// Context carries the collaborators steps execute against
type Context struct {
	Ctx     context.Context
	Git     git.Runner
	Store   config.Store
	Options *config.Options
	Lineage *lineage.Lineage
	Driver  hosting.Driver
	Log     *output.Splog
}

// Step is one primitive, named operation with fixed arguments
type Step interface {
	// Kind returns the step's serialization tag
	Kind() string
	// Args returns the step's arguments in serialization order
	Args() []string
	// Execute performs the real action against the live repository. Expected
	// failure modes (a merge that hits a conflict) are reported through the
	// Outcome, not the error.
	Execute(c *Context) (Outcome, error)
	// ComputeUndo returns the inverse step, derived from the pre-execution
	// repository state, or false when the action is not reversible.
	ComputeUndo(c *Context) (Step, bool)
}

// noParent marks an absent parent in serialized set-parent and
// restore-branch steps.
const noParent = "-"

// Serialize renders a step as a single line: the kind tag followed by its
// space-separated arguments.
func Serialize(step Step) string {
	parts := append([]string{step.Kind()}, step.Args()...)
	return strings.Join(parts, " ")
}

// SerializeList renders steps one per line
func SerializeList(list []Step) string {
	lines := make([]string, len(list))
	for i, step := range list {
		lines[i] = Serialize(step)
	}
	return strings.Join(lines, "\n")
}

// Parse reconstructs a step from its serialized line
func Parse(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty step line")
	}
	kind, args := fields[0], fields[1:]

	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("step %s expects %d arguments, got %d", kind, n, len(args))
		}
		return nil
	}

	switch kind {
	case KindSyncBranch:
		if err := arity(1); err != nil {
			return nil, err
		}
		return &SyncBranch{Branch: args[0]}, nil
	case KindCreateAndCheckout:
		if err := arity(2); err != nil {
			return nil, err
		}
		return &CreateAndCheckout{Branch: args[0], Parent: args[1]}, nil
	case KindCreateTrackingBranch:
		if err := arity(1); err != nil {
			return nil, err
		}
		return &CreateTrackingBranch{Branch: args[0]}, nil
	case KindDeleteTrackingBranch:
		if err := arity(1); err != nil {
			return nil, err
		}
		return &DeleteTrackingBranch{Branch: args[0]}, nil
	case KindCreateReviewRequest:
		if err := arity(3); err != nil {
			return nil, err
		}
		return &CreateReviewRequest{Repository: args[0], Head: args[1], Base: args[2]}, nil
	case KindCheckout:
		if err := arity(1); err != nil {
			return nil, err
		}
		return &Checkout{Branch: args[0]}, nil
	case KindSetParent:
		if err := arity(2); err != nil {
			return nil, err
		}
		return &SetParent{Branch: args[0], Parent: unmarshalParent(args[1])}, nil
	case KindResetBranch:
		if err := arity(2); err != nil {
			return nil, err
		}
		return &ResetBranch{Branch: args[0], Sha: args[1]}, nil
	case KindDiscardBranch:
		if err := arity(2); err != nil {
			return nil, err
		}
		return &DiscardBranch{Branch: args[0], Checkout: args[1]}, nil
	case KindDeleteLocalBranch:
		if err := arity(1); err != nil {
			return nil, err
		}
		return &DeleteLocalBranch{Branch: args[0]}, nil
	case KindRestoreBranch:
		if err := arity(3); err != nil {
			return nil, err
		}
		return &RestoreBranch{Branch: args[0], Sha: args[1], Parent: unmarshalParent(args[2])}, nil
	default:
		return nil, fmt.Errorf("unknown step kind %q", kind)
	}
}

// ParseList reconstructs steps from one-per-line text
func ParseList(text string) ([]Step, error) {
	var list []Step
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		step, err := Parse(line)
		if err != nil {
			return nil, err
		}
		list = append(list, step)
	}
	return list, nil
}

func marshalParent(parent string) string {
	if parent == "" {
		return noParent
	}
	return parent
}

func unmarshalParent(arg string) string {
	if arg == noParent {
		return ""
	}
	return arg
}
