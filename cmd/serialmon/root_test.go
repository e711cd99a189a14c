package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttylab/serialmon/config"
	"github.com/ttylab/serialmon/logging"
)

// testEnv points the XDG trees at temp dirs so tests never touch the real
// user config or state.
func testEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestApplyFlagOverrides(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"-p", "/dev/ttyACM1",
		"-b", "115200",
		"--parity", "even",
		"--stop-bits", "2",
		"-t", "500ms",
		"-f", "%i ",
		"-f", "%h ",
		"-e", "#",
		"--byte-order", "little",
		"-o", "one.txt",
		"--history-limit", "64",
		"--rtscts",
	}))

	cfg, err := config.Default()
	require.NoError(t, err)
	applyFlagOverrides(cmd, &cfg)

	assert.Equal(t, "/dev/ttyACM1", cfg.Port.Device)
	assert.Equal(t, 115200, cfg.Port.BaudRate)
	assert.Equal(t, "even", cfg.Port.Parity)
	assert.Equal(t, "2", cfg.Port.StopBits)
	assert.Equal(t, "500ms", cfg.Port.ReadTimeout)
	assert.True(t, cfg.Port.RTSCTS)
	assert.Equal(t, []string{"%i ", "%h "}, cfg.Format.Templates)
	assert.Equal(t, "#", cfg.Format.Escape)
	assert.Equal(t, "little", cfg.Format.ByteOrder)
	assert.Equal(t, []string{"one.txt"}, cfg.Output.Files)
	assert.Equal(t, 64, cfg.Output.HistoryLimit)
}

func TestApplyFlagOverrides_UntouchedDefaults(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-p", "/dev/ttyUSB0"}))

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Port.BaudRate = 230400 // pretend the config file set this
	applyFlagOverrides(cmd, &cfg)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Port.Device)
	assert.Equal(t, 230400, cfg.Port.BaudRate)
}

func TestBuildRenderer_DefaultTemplate(t *testing.T) {
	r, err := buildRenderer(config.FormatConfig{Escape: "%", ByteOrder: "big"}, logging.GetLogger("test"))
	require.NoError(t, err)
	assert.Equal(t, "A", r.Feed('A'))
}

func TestBuildRenderer_BadEscape(t *testing.T) {
	_, err := buildRenderer(config.FormatConfig{Escape: "##"}, logging.GetLogger("test"))
	require.Error(t, err)
}

func TestEscapesCommand(t *testing.T) {
	testEnv(t)
	out, err := runCommand(t, "escapes")
	require.NoError(t, err)
	assert.Contains(t, out, "%a")
	assert.Contains(t, out, "print next byte as ascii char")
	assert.Contains(t, out, "%d")
	assert.Contains(t, out, "print next word as decimal integer")
}

func TestVersionCommand(t *testing.T) {
	testEnv(t)
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "serialmon version")
}

func TestGenconfigCommand(t *testing.T) {
	testEnv(t)
	out, err := runCommand(t, "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[port]")
	assert.Contains(t, out, "baud_rate = 9600")
	assert.Contains(t, out, "[format]")
	assert.Contains(t, out, "[output]")
}

func TestGenconfigWrite(t *testing.T) {
	testEnv(t)
	out, err := runCommand(t, "genconfig", "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote ")

	data, err := os.ReadFile(config.DefaultPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[format]")

	// refuses to clobber an existing file
	_, err = runCommand(t, "genconfig", "--write")
	require.Error(t, err)
}

func TestPortsCommand(t *testing.T) {
	testEnv(t)
	out, err := runCommand(t, "ports")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestMonitorRequiresDevice(t *testing.T) {
	testEnv(t)
	_, err := runCommand(t)
	require.Error(t, err)
	assert.ErrorContains(t, err, "no serial device")
}
