package output_test

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/output"
)

func newTestSplog(t *testing.T, debug bool) (*output.Splog, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("ARBOR_LOG_FILE", filepath.Join(t.TempDir(), "arbor.log"))

	var out, errOut bytes.Buffer
	return output.NewSplogWithOptions(&out, &errOut, debug), &out, &errOut
}

func TestSplog(t *testing.T) {
	t.Run("info writes bare messages", func(t *testing.T) {
		splog, out, _ := newTestSplog(t, false)

		splog.Info("synced branch %s", "feature")
		require.Equal(t, "synced branch feature\n", out.String())
	})

	t.Run("debug is hidden unless enabled", func(t *testing.T) {
		splog, out, _ := newTestSplog(t, false)
		splog.Debug("internal detail")
		require.Empty(t, out.String())

		splog, out, _ = newTestSplog(t, true)
		splog.Debug("internal detail")
		require.Contains(t, out.String(), "internal detail")
	})

	t.Run("errors go to the error stream with a header", func(t *testing.T) {
		splog, out, errOut := newTestSplog(t, false)

		splog.Error(fmt.Errorf("something broke"))
		require.Empty(t, out.String())
		require.Contains(t, errOut.String(), "Error")
		require.Contains(t, errOut.String(), "something broke")
	})
}
