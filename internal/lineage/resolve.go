package lineage

import (
	"fmt"
	"strconv"
	"strings"
)

// Prompt is the blocking interactive collaborator used during ancestry
// resolution. The decision logic itself lives in ChooseParent so it can be
// tested without a terminal.
type Prompt interface {
	Print(message string)
	ReadLine(prompt string) (string, error)
}

// ChooseParent interprets one answer of the parent-resolution protocol.
// options is the numbered candidate list, main branch first; input may be a
// 1-based number or a branch name; empty input selects the main branch.
func ChooseParent(input, branch string, options []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return options[0], nil
	}

	if number, err := strconv.Atoi(input); err == nil {
		if number < 1 || number > len(options) {
			return "", fmt.Errorf("invalid choice %d, expected 1-%d", number, len(options))
		}
		return options[number-1], nil
	}

	if input == branch {
		return "", fmt.Errorf("branch %q cannot be its own parent", branch)
	}
	for _, option := range options {
		if option == input {
			return input, nil
		}
	}
	return "", fmt.Errorf("there is no branch named %q", input)
}

// parentOptions builds the candidate list for resolving branch: the main
// branch first, then the remaining local branches except branch itself.
func parentOptions(branch, main string, localBranches []string) []string {
	options := []string{main}
	for _, local := range localBranches {
		if local == main || local == branch {
			continue
		}
		options = append(options, local)
	}
	return options
}

// EnsureKnownAncestry walks each given branch up to the main branch, asking
// the prompt for any missing parent link and writing each answer immediately.
// Main and perennial branches are skipped. Once a branch's chain is complete
// its ancestors cache is computed and stored.
func (l *Lineage) EnsureKnownAncestry(branches, localBranches []string, prompt Prompt) error {
	for _, branch := range branches {
		if branch == "" {
			// Empty names reach here on a detached HEAD; prompting would
			// persist a record for branch ""
			return fmt.Errorf("not on a branch, check out a branch first")
		}
		if l.opts.IsMainOrPerennial(branch) {
			continue
		}

		current := branch
		for !l.opts.IsMainOrPerennial(current) {
			parent := l.ParentOf(current)
			if parent == "" {
				resolved, err := l.ResolveParent(current, localBranches, prompt)
				if err != nil {
					return err
				}
				if err := l.SetParent(current, resolved); err != nil {
					return err
				}
				parent = resolved
			}
			current = parent
		}

		if err := l.CacheAncestors(branch); err != nil {
			return err
		}
	}
	return nil
}

// ResolveParent runs the interactive resolution protocol for one branch,
// re-prompting until a valid parent is chosen.
func (l *Lineage) ResolveParent(branch string, localBranches []string, prompt Prompt) (string, error) {
	main := l.opts.MainBranch()
	options := parentOptions(branch, main, localBranches)

	var listing strings.Builder
	fmt.Fprintf(&listing, "Please specify the parent branch of %q:\n", branch)
	for i, option := range options {
		fmt.Fprintf(&listing, "  %d: %s\n", i+1, option)
	}
	prompt.Print(listing.String())

	for {
		input, err := prompt.ReadLine(fmt.Sprintf("parent branch (default: %s): ", main))
		if err != nil {
			return "", err
		}

		choice, err := ChooseParent(input, branch, options)
		if err != nil {
			prompt.Print(err.Error())
			continue
		}
		if l.HasAncestor(choice, branch) {
			prompt.Print(fmt.Sprintf("making %q the parent of %q would create a cycle", choice, branch))
			continue
		}
		return choice, nil
	}
}
