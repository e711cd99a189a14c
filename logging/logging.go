// Package logging configures the process-wide zerolog logger.
//
// Diagnostics always go to stderr: the rendered serial stream owns stdout so
// it stays pipeable. A copy of every record is appended to the XDG state log
// file on a best-effort basis.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger for the given verbosity: 0 shows
// warnings and errors only, 1 adds info, 2 debug, 3 and above trace. Colors
// are used only when stderr is a terminal.
func Setup(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}

	writers := []io.Writer{console}
	logPath := filepath.Join(xdg.StateHome, "serialmon", "serialmon.log")
	logFile, fileErr := openLogFile(logPath)
	if fileErr == nil {
		writers = append(writers, logFile)
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}
	if fileErr != nil {
		log.Debug().Err(fileErr).Str("path", logPath).Msg("log file unavailable, console only")
	}
}

// GetLogger returns a logger tagged with the component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
