// Package main provides the crewlog CLI for analyzing crew execution logs.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"crewlog/internal/format"
	"crewlog/internal/ingest"
	"crewlog/internal/view"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "crewlog",
	Short:   "Analyze crew execution logs: agents, timeline, statistics, handoffs",
	Version: version,
}

func init() {
	rootCmd.AddCommand(newAgentsCmd())
	rootCmd.AddCommand(newTimelineCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newReportCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "crewlog: %v\n", err)
		os.Exit(1)
	}
}

// resolveInputPath picks the log path from the positional argument or the
// CREWLOG_FILE environment variable. "-" selects stdin.
func resolveInputPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if path := os.Getenv("CREWLOG_FILE"); path != "" {
		return path, nil
	}
	return "", errors.New("no log file given (pass a path, '-' for stdin, or set CREWLOG_FILE)")
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read log file: %w", err)
	}
	return string(data), nil
}

// loadIngestor reads and parses the log named by args, surfacing
// per-entry problems as warnings on stderr.
func loadIngestor(cmd *cobra.Command, args []string) (*ingest.Ingestor, error) {
	path, err := resolveInputPath(args)
	if err != nil {
		return nil, err
	}

	raw, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}

	in := ingest.New()
	ok := in.Parse(raw)
	if !ok {
		return nil, fmt.Errorf("parse log: %s", strings.Join(in.Errors(), "; "))
	}

	errs := cmd.ErrOrStderr()
	for _, warn := range in.Errors() {
		fmt.Fprintf(errs, "warning: %s\n", warn) //nolint:errcheck
	}

	return in, nil
}

func newAgentsCmd() *cobra.Command {
	var (
		formatFlag string
		noHeader   bool
		detail     string
	)

	cmd := &cobra.Command{
		Use:   "agents [log-file]",
		Short: "List per-agent summaries in first-seen order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadIngestor(cmd, args)
			if err != nil {
				return err
			}

			includeHeader := !noHeader
			out := cmd.OutOrStdout()

			if detail != "" {
				agent, ok := in.AgentByName(detail)
				if !ok {
					return fmt.Errorf("unknown agent: %s", detail)
				}
				return format.WriteAgentHistory(out, agent, includeHeader, formatFlag)
			}

			return format.WriteAgents(out, in.Agents(), includeHeader, formatFlag)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "table", "output format: table, plain, json, or jsonl")
	flags.BoolVar(&noHeader, "no-header", false, "omit header row for plain output")
	flags.StringVar(&detail, "detail", "", "show the task history of a single agent by clean name")

	return cmd
}

func newTimelineCmd() *cobra.Command {
	var (
		formatFlag string
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "timeline [log-file]",
		Short: "Show all entries in chronological order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadIngestor(cmd, args)
			if err != nil {
				return err
			}
			return format.WriteTimeline(cmd.OutOrStdout(), in.Timeline(), !noHeader, formatFlag)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "table", "output format: table, plain, json, or jsonl")
	flags.BoolVar(&noHeader, "no-header", false, "omit header row for plain output")

	return cmd
}

func newStatsCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "stats [log-file]",
		Short: "Show overall log statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadIngestor(cmd, args)
			if err != nil {
				return err
			}
			stats, ok := in.Statistics()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no entries ingested")
				return nil
			}
			return format.WriteStats(cmd.OutOrStdout(), stats, formatFlag)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "table", "output format: table, plain, or json")

	return cmd
}

func newGraphCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "graph [log-file]",
		Short: "Show agent-to-agent handoffs derived from the timeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadIngestor(cmd, args)
			if err != nil {
				return err
			}
			graph, order := in.InteractionGraph()
			return format.WriteGraph(cmd.OutOrStdout(), graph, order, formatFlag)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "table", "output format: table, plain, or json")

	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		wrap         int
		forceColor   bool
		forceNoColor bool
	)

	cmd := &cobra.Command{
		Use:   "report [log-file]",
		Short: "Render a full dashboard-style report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if forceColor && forceNoColor {
				return errors.New("--color and --no-color cannot be used together")
			}

			in, err := loadIngestor(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			outFile, _ := out.(*os.File)
			return view.Run(in, view.Options{
				Wrap:         wrap,
				ForceColor:   forceColor,
				ForceNoColor: forceNoColor,
				Out:          out,
				OutFile:      outFile,
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&wrap, "wrap", 0, "wrap text at the given column width (default: terminal width)")
	flags.BoolVar(&forceColor, "color", false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.BoolVar(&forceNoColor, "no-color", false, "disable ANSI colors regardless of terminal detection")

	return cmd
}
