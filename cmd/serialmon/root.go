package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ttylab/serialmon/config"
	"github.com/ttylab/serialmon/internal/version"
	"github.com/ttylab/serialmon/logging"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true)
)

// newRootCmd builds the serialmon command tree.
func newRootCmd() *cobra.Command {
	var (
		verbosity  int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serialmon",
		Short: "Render a serial byte stream through format templates",
		Long: `serialmon connects to a serial port and renders every received byte
through format templates. Escape directives pick the rendering: ascii chars,
decimal, hex or binary bytes, two-byte words, and more ('serialmon escapes'
lists them all). Repeated -f templates cycle round-robin, one full expansion
per pass.

Rendered data goes to stdout so it can be piped; diagnostics go to stderr.
Output files receive the tail of the rendered stream when the session ends.
The first Ctrl-C shuts down cleanly and flushes the output files, a second
one kills the process.`,
		Example: `  serialmon -p /dev/ttyUSB0 -b 115200
  serialmon -p /dev/ttyACM0 -f "byte %i (%h)%n"
  serialmon -p /dev/ttyUSB0 -f "%i " -f "%h " -o capture.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, &cfg)
			return runMonitor(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v info, -vv debug, -vvv trace)")
	pf.StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	f := cmd.Flags()
	f.StringP("port", "p", "", "serial device to monitor ('serialmon ports' lists them)")
	f.IntP("baud", "b", 9600, "baud rate")
	f.Int("data-bits", 8, "data bits, 5 to 8")
	f.String("parity", "none", "parity: none, odd, even, mark, space")
	f.String("stop-bits", "1", "stop bits: 1, 1.5, 2")
	f.DurationP("timeout", "t", time.Second, "serial read timeout, 0 blocks indefinitely")
	f.Bool("xonxoff", false, "enable XON/XOFF software flow control")
	f.Bool("rtscts", false, "enable RTS/CTS hardware flow control")
	f.StringArrayP("format", "f", nil, "format template, repeatable")
	f.StringP("escape", "e", "%", "escape character used in templates")
	f.String("byte-order", "big", "word directive byte order: big or little")
	f.StringArrayP("output-file", "o", nil, "file receiving the rendered tail at exit, repeatable")
	f.Int("history-limit", 65535, "bytes of rendered output kept for output files, 0 keeps all")

	cmd.AddCommand(newPortsCmd(), newEscapesCmd(), newGenconfigCmd(), newVersionCmd())
	return cmd
}

// applyFlagOverrides lays explicitly set flags over the merged file and env
// configuration. Unset flags leave the merged values alone, so flag defaults
// never mask a config file setting.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("port") {
		cfg.Port.Device, _ = f.GetString("port")
	}
	if f.Changed("baud") {
		cfg.Port.BaudRate, _ = f.GetInt("baud")
	}
	if f.Changed("data-bits") {
		cfg.Port.DataBits, _ = f.GetInt("data-bits")
	}
	if f.Changed("parity") {
		cfg.Port.Parity, _ = f.GetString("parity")
	}
	if f.Changed("stop-bits") {
		cfg.Port.StopBits, _ = f.GetString("stop-bits")
	}
	if f.Changed("timeout") {
		d, _ := f.GetDuration("timeout")
		cfg.Port.ReadTimeout = d.String()
	}
	if f.Changed("xonxoff") {
		cfg.Port.SoftwareFlowControl, _ = f.GetBool("xonxoff")
	}
	if f.Changed("rtscts") {
		cfg.Port.RTSCTS, _ = f.GetBool("rtscts")
	}
	if f.Changed("format") {
		cfg.Format.Templates, _ = f.GetStringArray("format")
	}
	if f.Changed("escape") {
		cfg.Format.Escape, _ = f.GetString("escape")
	}
	if f.Changed("byte-order") {
		cfg.Format.ByteOrder, _ = f.GetString("byte-order")
	}
	if f.Changed("output-file") {
		cfg.Output.Files, _ = f.GetStringArray("output-file")
	}
	if f.Changed("history-limit") {
		cfg.Output.HistoryLimit, _ = f.GetInt("history-limit")
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "serialmon version %s\n", version.Version)
			fmt.Fprintf(w, "  commit: %s\n", version.Commit)
			fmt.Fprintf(w, "  built:  %s\n", version.Date)
		},
	}
}
