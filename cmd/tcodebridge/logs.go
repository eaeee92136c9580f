package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/five82/tcodebridge/internal/config"
	"github.com/five82/tcodebridge/internal/logtail"
)

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var (
		lines   int
		follow  bool
		bridge  bool
		raw     bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tcode-player log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(flags.envFile); err != nil {
				return err
			}
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			path := cfg.PlayerLog
			if bridge {
				path = cfg.LogFile
			}

			out := cmd.OutOrStdout()
			color := !noColor && termenv.NewOutput(out).ColorProfile() != termenv.Ascii
			format := logtail.NewFormatter(color).Line
			if raw {
				format = func(s string) string { return s }
			}

			offset := logtail.Size(path)
			tail, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			printLines(out, tail, format)

			if !follow {
				return nil
			}
			return logtail.Follow(cmd.Context(), path, offset, func(line string) {
				fmt.Fprintln(out, format(line))
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new lines")
	cmd.Flags().BoolVar(&bridge, "bridge", false, "show the bridge log instead of tcode-player's")
	cmd.Flags().BoolVar(&raw, "raw", false, "print records unformatted")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors (default: auto-detect from the terminal)")
	return cmd
}

func printLines(w io.Writer, lines []string, format func(string) string) {
	for _, l := range lines {
		fmt.Fprintln(w, format(l))
	}
}
