// Package config merges the monitor's configuration from embedded defaults,
// an optional TOML file, and SERIALMON_ environment variables. Command-line
// flags override on top of the result, in the cmd layer.
package config

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/ttylab/serialmon/serial"
)

// Config is the full tool configuration.
type Config struct {
	Port   PortConfig   `koanf:"port" toml:"port"`
	Format FormatConfig `koanf:"format" toml:"format"`
	Output OutputConfig `koanf:"output" toml:"output"`
}

// PortConfig describes the serial line settings.
type PortConfig struct {
	Device              string `koanf:"device" toml:"device"`
	BaudRate            int    `koanf:"baud_rate" toml:"baud_rate"`
	DataBits            int    `koanf:"data_bits" toml:"data_bits"`
	Parity              string `koanf:"parity" toml:"parity"`
	StopBits            string `koanf:"stop_bits" toml:"stop_bits"`
	ReadTimeout         string `koanf:"read_timeout" toml:"read_timeout"`
	SoftwareFlowControl bool   `koanf:"software_flow_control" toml:"software_flow_control"`
	RTSCTS              bool   `koanf:"rtscts" toml:"rtscts"`
}

// FormatConfig describes how received bytes are rendered.
type FormatConfig struct {
	Templates []string `koanf:"templates" toml:"templates"`
	Escape    string   `koanf:"escape" toml:"escape"`
	ByteOrder string   `koanf:"byte_order" toml:"byte_order"`
}

// OutputConfig describes where the rendered stream is captured.
type OutputConfig struct {
	Files        []string `koanf:"files" toml:"files"`
	HistoryLimit int      `koanf:"history_limit" toml:"history_limit"`
}

// DefaultPath returns the XDG location of the user config file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "serialmon", "serialmon.toml")
}

// SerialConfig converts the port section into the serial package's Config.
// An empty read_timeout disables the timeout entirely.
func (p PortConfig) SerialConfig() (serial.Config, error) {
	parity, err := ParseParity(p.Parity)
	if err != nil {
		return serial.Config{}, err
	}
	stop, err := ParseStopBits(p.StopBits)
	if err != nil {
		return serial.Config{}, err
	}
	var timeout time.Duration
	if p.ReadTimeout != "" {
		timeout, err = time.ParseDuration(p.ReadTimeout)
		if err != nil {
			return serial.Config{}, fmt.Errorf("read_timeout: %w", err)
		}
	}
	return serial.Config{
		Device:              p.Device,
		BaudRate:            p.BaudRate,
		DataBits:            p.DataBits,
		Parity:              parity,
		StopBits:            stop,
		ReadTimeout:         timeout,
		SoftwareFlowControl: p.SoftwareFlowControl,
		RTSCTS:              p.RTSCTS,
	}, nil
}

// ParseParity maps a config string to a parity mode. The empty string means
// no parity.
func ParseParity(s string) (serial.Parity, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return serial.ParityNone, nil
	case "odd":
		return serial.ParityOdd, nil
	case "even":
		return serial.ParityEven, nil
	case "mark":
		return serial.ParityMark, nil
	case "space":
		return serial.ParitySpace, nil
	default:
		return 0, fmt.Errorf("unknown parity %q", s)
	}
}

// ParseStopBits maps a config string to a stop bits mode. The empty string
// means one stop bit.
func ParseStopBits(s string) (serial.StopBits, error) {
	switch s {
	case "", "1":
		return serial.StopBitsOne, nil
	case "1.5":
		return serial.StopBitsOnePointFive, nil
	case "2":
		return serial.StopBitsTwo, nil
	default:
		return 0, fmt.Errorf("unknown stop bits %q", s)
	}
}

// EscapeByte validates the configured escape character.
func (f FormatConfig) EscapeByte() (byte, error) {
	if len(f.Escape) != 1 {
		return 0, fmt.Errorf("escape must be a single character, got %q", f.Escape)
	}
	return f.Escape[0], nil
}

// WordOrder maps the byte_order setting to the byte order used by the word
// directive.
func (f FormatConfig) WordOrder() (binary.ByteOrder, error) {
	switch strings.ToLower(f.ByteOrder) {
	case "", "big":
		return binary.BigEndian, nil
	case "little":
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", f.ByteOrder)
	}
}
