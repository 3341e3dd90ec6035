package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "vscan", cmd.Use)
	assert.Contains(t, cmd.Long, "keystrokes")
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(NewRootCommand(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "vscan version "+ir.Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "type", "watch", "layout", "history", "serve", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestLayoutSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"convert", "check", "show"} {
		subCmd, _, err := cmd.Find([]string{"layout", name})
		require.NoError(t, err)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, DefaultConfigPath, configFlag.DefValue)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		command  string
		flag     string
		defValue string
	}{
		{"compile", "direct", "false"},
		{"compile", "envelope", ""},
		{"compile", "no-nesting", "false"},
		{"compile", "no-special", "false"},
		{"type", "dry-run", "false"},
		{"type", "direct", "false"},
		{"watch", "source", "clipboard"},
		{"watch", "metrics-addr", ""},
		{"history", "db", ""},
		{"history", "limit", "20"},
		{"history", "content", ""},
		{"serve", "addr", "127.0.0.1:8080"},
		{"test", "update", "false"},
		{"test", "filter", ""},
	}

	cmd := NewRootCommand()
	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)
			f := subCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.defValue, f.DefValue)
		})
	}

	history, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)
	assert.Equal(t, "n", history.Flags().Lookup("limit").Shorthand)
}

func TestInvalidFormatRejected(t *testing.T) {
	cmd := NewRootCommand()
	_, err := execute(cmd, "--format", "xml", "compile", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}
