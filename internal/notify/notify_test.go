package notify

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		rec  ir.ScanRecord
		want string
		ok   bool
	}{
		{ir.ScanRecord{Outcome: ir.OutcomeTyped}, "", false},
		{ir.ScanRecord{Outcome: ir.OutcomeCancelled}, "", false},
		{ir.ScanRecord{Outcome: ir.OutcomeNone}, "No content detected!", true},
		{ir.ScanRecord{Outcome: ir.OutcomeAmbiguous}, "Multiple contents found, which one should I use?", true},
		{ir.ScanRecord{Outcome: ir.OutcomeNotUnderstood}, "Failed to parse code! Is the keyboard layout incomplete?", true},
		{ir.ScanRecord{Outcome: ir.OutcomeInjectionFailed, Error: "device gone"}, "Failed to type code: device gone", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.rec.Outcome), func(t *testing.T) {
			got, ok := Message(tt.rec)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCommandRejectsEmptyArgv(t *testing.T) {
	_, err := NewCommand(nil)
	assert.Error(t, err)
}

func TestCommandPassesTitleAndMessage(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out := filepath.Join(t.TempDir(), "notified")
	cmd, err := NewCommand([]string{"sh", "-c", `printf '%s|%s' "$0" "$1" > "` + out + `"`})
	require.NoError(t, err)

	require.NoError(t, cmd.Notify(context.Background(), "No content detected!"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, Title+"|No content detected!", string(data))
}

func TestCommandReportsFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	cmd, err := NewCommand([]string{"false"})
	require.NoError(t, err)
	assert.Error(t, cmd.Notify(context.Background(), "x"))
}
