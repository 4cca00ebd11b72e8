package tui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/tui"
)

func TestPromptConfirm(t *testing.T) {
	t.Run("refuses when interactive prompts are disabled", func(t *testing.T) {
		t.Setenv("ARBOR_NO_INTERACTIVE", "1")

		_, err := tui.PromptConfirm("Remove branch \"feature\"?", false)
		require.ErrorIs(t, err, tui.ErrInteractiveDisabled)
	})
}

func TestPromptTextInput(t *testing.T) {
	t.Run("refuses when interactive prompts are disabled", func(t *testing.T) {
		t.Setenv("ARBOR_NO_INTERACTIVE", "1")

		_, err := tui.PromptTextInput("Name for the new branch", "")
		require.ErrorIs(t, err, tui.ErrInteractiveDisabled)
	})
}

func TestTerminalPrompt(t *testing.T) {
	t.Run("print writes a line of dialog", func(t *testing.T) {
		var out bytes.Buffer
		prompt := &tui.TerminalPrompt{Out: &out}

		prompt.Print("Please specify the parent branch of \"feature\":")
		require.Equal(t, "Please specify the parent branch of \"feature\":\n", out.String())
	})

	t.Run("read refuses when interactive prompts are disabled", func(t *testing.T) {
		t.Setenv("ARBOR_NO_INTERACTIVE", "1")

		var out bytes.Buffer
		prompt := &tui.TerminalPrompt{In: bytes.NewBufferString("main\n"), Out: &out}
		_, err := prompt.ReadLine("parent branch: ")
		require.ErrorIs(t, err, tui.ErrInteractiveDisabled)
	})
}
