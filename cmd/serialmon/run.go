package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ttylab/serialmon/config"
	"github.com/ttylab/serialmon/format"
	"github.com/ttylab/serialmon/internal/version"
	"github.com/ttylab/serialmon/logging"
	"github.com/ttylab/serialmon/monitor"
	"github.com/ttylab/serialmon/serial"
)

// runMonitor opens the configured port and pumps it through the format cycle
// until interrupted. The first interrupt shuts down cleanly and flushes the
// output files; a second one falls through to the default handler and kills
// the process.
func runMonitor(ctx context.Context, cfg config.Config) error {
	log := logging.GetLogger("cli")

	if cfg.Port.Device == "" {
		return errors.New("no serial device: set --port or the port.device config key ('serialmon ports' lists candidates)")
	}

	renderer, err := buildRenderer(cfg.Format, log)
	if err != nil {
		return err
	}
	serialCfg, err := cfg.Port.SerialConfig()
	if err != nil {
		return err
	}

	warnIfUnlisted(log, cfg.Port.Device)

	files, err := monitor.OpenOutputFiles(cfg.Output.Files, cfg.Output.HistoryLimit)
	if err != nil {
		return err
	}

	port, err := serial.Open(serialCfg)
	if err != nil {
		files.Close()
		return fmt.Errorf("port %s: %w", cfg.Port.Device, err)
	}

	banner := fmt.Sprintf("serialmon %s reading %s at %d baud", version.Version, cfg.Port.Device, serialCfg.BaudRate)
	fmt.Fprintln(os.Stderr, headingStyle.Render(banner))
	log.Info().
		Str("device", cfg.Port.Device).
		Int("baud", serialCfg.BaudRate).
		Stringer("parity", serialCfg.Parity).
		Stringer("stop_bits", serialCfg.StopBits).
		Msg("port opened")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// restore default handling so a second interrupt kills the process
		// instead of waiting for the flush
		stop()
	}()

	out := io.Writer(os.Stdout)
	if h := files.History(); h != nil {
		out = io.MultiWriter(out, h)
	}

	sess := monitor.NewSession(port, renderer, out)
	runErr := sess.Run(ctx)

	if err := port.Close(); err != nil {
		log.Warn().Err(err).Msg("port close failed")
	}
	log.Info().Str("device", cfg.Port.Device).Msg("session ended")

	if err := files.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// buildRenderer compiles the configured templates into a renderer. An empty
// template list falls back to a single ascii template.
func buildRenderer(fc config.FormatConfig, log zerolog.Logger) (*format.Renderer, error) {
	esc, err := fc.EscapeByte()
	if err != nil {
		return nil, err
	}
	order, err := fc.WordOrder()
	if err != nil {
		return nil, err
	}
	raws := fc.Templates
	if len(raws) == 0 {
		raws = []string{string(esc) + "a"}
	}
	templates := make([]format.Template, 0, len(raws))
	for _, raw := range raws {
		log.Debug().Str("template", raw).Msg("compiling template")
		templates = append(templates, format.CompileEscape(esc, raw))
	}
	cycle, err := format.NewCycle(templates...)
	if err != nil {
		return nil, err
	}
	return format.NewRenderer(cycle, format.WithWordOrder(order)), nil
}

// warnIfUnlisted checks the device against the enumerated system ports.
// Virtual pty and socat devices never enumerate, so a miss is a warning, not
// an error.
func warnIfUnlisted(log zerolog.Logger, device string) {
	ports, err := serial.List()
	if err != nil {
		log.Debug().Err(err).Msg("port enumeration failed")
		return
	}
	for _, p := range ports {
		if p == device {
			return
		}
	}
	log.Warn().Str("device", device).Msg("device not among enumerated serial ports")
}
