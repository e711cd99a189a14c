// Package monitor hosts the read-render-write loop of a monitoring session
// and the output capture it feeds.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ttylab/serialmon/format"
	"github.com/ttylab/serialmon/logging"
	"github.com/ttylab/serialmon/serial"
)

// Session pumps one serial port through a format renderer into an output
// writer. Bytes are fed to the renderer strictly in arrival order and every
// non-empty expansion is written out immediately.
type Session struct {
	port     *serial.Port
	renderer *format.Renderer
	out      io.Writer
	log      zerolog.Logger
}

// NewSession wires a session. out receives every rendered expansion; callers
// tee it across console and history as needed.
func NewSession(port *serial.Port, renderer *format.Renderer, out io.Writer) *Session {
	return &Session{
		port:     port,
		renderer: renderer,
		out:      out,
		log:      logging.GetLogger("monitor.session"),
	}
}

// Run reads until ctx is canceled, the port is closed, or a read fails.
// Cancellation closes the port to unblock the pending read and counts as a
// clean shutdown. A half-fed word directive left over at shutdown is
// discarded.
func (s *Session) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		s.port.Close()
	})
	defer stop()

	buf := make([]byte, 4096)
	for {
		n, err := s.port.Read(buf)
		switch {
		case errors.Is(err, serial.ErrTimeout):
			continue
		case errors.Is(err, serial.ErrClosed):
			s.finish()
			return nil
		case err != nil:
			if ctx.Err() != nil {
				s.finish()
				return nil
			}
			return fmt.Errorf("serial read: %w", err)
		}
		s.log.Trace().Int("bytes", n).Msg("chunk received")
		for _, b := range buf[:n] {
			text := s.renderer.Feed(b)
			if text == "" {
				continue
			}
			if _, err := io.WriteString(s.out, text); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
}

// finish logs carry state discarded at shutdown.
func (s *Session) finish() {
	if s.renderer.NeedsMoreData() {
		s.log.Debug().Msg("discarding half-fed directive state")
	}
}
