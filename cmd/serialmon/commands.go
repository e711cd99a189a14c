package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/ttylab/serialmon/config"
	"github.com/ttylab/serialmon/format"
	"github.com/ttylab/serialmon/serial"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports present on this system",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := serial.List()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(w, "no serial ports found")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(w, p)
			}
			return nil
		},
	}
}

func newEscapesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "escapes",
		Short: "List the escape directives of the format language",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headingStyle.Render("format escapes"))
			for _, e := range format.Escapes() {
				fmt.Fprintf(w, "  %%%c  %s\n", e.Char, e.Description)
			}
		},
	}
}

func newGenconfigCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "genconfig",
		Short: "Print the default configuration as TOML",
		Long: `Print the default configuration as TOML, or write it to the default
config location with --write. An existing config file is never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Default()
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if !write {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			path := config.DefaultPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, remove it first", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote "+path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write to the default config path instead of stdout")
	return cmd
}
