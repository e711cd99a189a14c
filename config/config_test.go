package config

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttylab/serialmon/serial"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 9600, cfg.Port.BaudRate)
	assert.Equal(t, 8, cfg.Port.DataBits)
	assert.Equal(t, "none", cfg.Port.Parity)
	assert.Equal(t, "1", cfg.Port.StopBits)
	assert.Equal(t, "1s", cfg.Port.ReadTimeout)
	assert.Empty(t, cfg.Format.Templates)
	assert.Equal(t, "%", cfg.Format.Escape)
	assert.Equal(t, "big", cfg.Format.ByteOrder)
	assert.Equal(t, 65535, cfg.Output.HistoryLimit)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serialmon.toml")
	content := `
[port]
device = "/dev/ttyUSB3"
baud_rate = 115200
parity = "even"

[format]
templates = ["%i ", "%h "]
byte_order = "little"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB3", cfg.Port.Device)
	assert.Equal(t, 115200, cfg.Port.BaudRate)
	assert.Equal(t, "even", cfg.Port.Parity)
	assert.Equal(t, 8, cfg.Port.DataBits)
	assert.Equal(t, []string{"%i ", "%h "}, cfg.Format.Templates)
	assert.Equal(t, "little", cfg.Format.ByteOrder)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Setenv("SERIALMON_PORT_BAUD_RATE", "57600")
	t.Setenv("SERIALMON_FORMAT_BYTE_ORDER", "little")
	t.Setenv("SERIALMON_OUTPUT_HISTORY_LIMIT", "128")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 57600, cfg.Port.BaudRate)
	assert.Equal(t, "little", cfg.Format.ByteOrder)
	assert.Equal(t, 128, cfg.Output.HistoryLimit)
}

func TestPortConfig_SerialConfig(t *testing.T) {
	p := PortConfig{
		Device:      "/dev/ttyUSB0",
		BaudRate:    19200,
		DataBits:    7,
		Parity:      "odd",
		StopBits:    "2",
		ReadTimeout: "250ms",
		RTSCTS:      true,
	}
	sc, err := p.SerialConfig()
	require.NoError(t, err)
	assert.Equal(t, serial.Config{
		Device:      "/dev/ttyUSB0",
		BaudRate:    19200,
		DataBits:    7,
		Parity:      serial.ParityOdd,
		StopBits:    serial.StopBitsTwo,
		ReadTimeout: 250 * time.Millisecond,
		RTSCTS:      true,
	}, sc)
}

func TestPortConfig_SerialConfigErrors(t *testing.T) {
	_, err := PortConfig{Parity: "sometimes"}.SerialConfig()
	require.Error(t, err)
	_, err = PortConfig{StopBits: "3"}.SerialConfig()
	require.Error(t, err)
	_, err = PortConfig{ReadTimeout: "soon"}.SerialConfig()
	require.Error(t, err)
}

func TestFormatConfig_EscapeByte(t *testing.T) {
	esc, err := FormatConfig{Escape: "#"}.EscapeByte()
	require.NoError(t, err)
	assert.Equal(t, byte('#'), esc)

	_, err = FormatConfig{Escape: ""}.EscapeByte()
	require.Error(t, err)
	_, err = FormatConfig{Escape: "%%"}.EscapeByte()
	require.Error(t, err)
}

func TestFormatConfig_WordOrder(t *testing.T) {
	order, err := FormatConfig{ByteOrder: "big"}.WordOrder()
	require.NoError(t, err)
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), order)

	order, err = FormatConfig{ByteOrder: "little"}.WordOrder()
	require.NoError(t, err)
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), order)

	_, err = FormatConfig{ByteOrder: "middle"}.WordOrder()
	require.Error(t, err)
}
