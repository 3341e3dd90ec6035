package cli

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewServeCommand(newTestRootOptions("text"))
	cmd.SetContext(ctx)

	_, err := execute(cmd, "--addr", "127.0.0.1:0")
	require.NoError(t, err)
}

func TestServeAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	out, err := execute(NewServeCommand(newTestRootOptions("text")), "--addr", ln.Addr().String())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E001]")
	assert.Contains(t, out, "listen on")
}

func TestServeBadAffix(t *testing.T) {
	dir := t.TempDir()
	opts := newTestRootOptions("text")
	opts.ConfigPath = writeFile(t, dir, "vscan.yaml", "prefix: \"a(\"\n")

	out, err := execute(NewServeCommand(opts))
	require.Error(t, err)
	assert.Contains(t, out, "Error [E002]")
}
