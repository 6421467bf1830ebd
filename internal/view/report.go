// Package view renders a full text report over a parsed crew log.
package view

import (
	"fmt"
	"io"
	"os"
	"strings"

	"crewlog/internal/format"
	"crewlog/internal/ingest"
	"crewlog/internal/model"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	ansiReset  = "\x1b[0m"
	ansiHeader = "\x1b[1;36m"
	ansiAgent  = "\x1b[1;33m"
	ansiMuted  = "\x1b[90m"
)

const defaultWrap = 100

// Options defines the configurable parameters for rendering a report.
type Options struct {
	Wrap         int
	ForceColor   bool
	ForceNoColor bool
	Out          io.Writer
	OutFile      *os.File
}

// Run renders a dashboard-style report of the ingested log: summary
// header, per-agent cards, chronological timeline, and handoffs.
func Run(in *ingest.Ingestor, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	useColor := resolveColorChoice(opts)
	wrap := resolveWrap(opts)

	stats, ok := in.Statistics()
	if !ok {
		fmt.Fprintln(opts.Out, "no entries ingested")
		return nil
	}

	printHeading(opts.Out, "Crew Execution Report", '=', useColor)
	printStats(opts.Out, stats, useColor)

	printHeading(opts.Out, "Agents", '-', useColor)
	for _, agent := range in.Agents() {
		printAgent(opts.Out, agent, wrap, useColor)
	}

	printHeading(opts.Out, "Timeline", '-', useColor)
	for _, entry := range in.Timeline() {
		printTimelineEntry(opts.Out, entry, wrap, useColor)
	}

	graph, order := in.InteractionGraph()
	if len(order) > 0 {
		printHeading(opts.Out, "Handoffs", '-', useColor)
		for _, source := range order {
			fmt.Fprintf(opts.Out, "%s -> %s\n",
				colorize(useColor, ansiAgent, source),
				strings.Join(graph[source], ", "))
		}
	}

	return nil
}

func printHeading(w io.Writer, title string, underline rune, useColor bool) {
	fmt.Fprintln(w, colorize(useColor, ansiHeader, title))
	fmt.Fprintln(w, strings.Repeat(string(underline), runewidth.StringWidth(title)))
}

func printStats(w io.Writer, stats ingest.Stats, useColor bool) {
	fmt.Fprintf(w, "Entries: %d   Agents: %d   Unique tasks: %d\n",
		stats.TotalEntries, stats.TotalAgents, stats.UniqueTasks)
	fmt.Fprintf(w, "Completed: %d   Started: %d\n",
		stats.CompletedTasks, stats.StartedTasks)
	if stats.HasDuration {
		fmt.Fprintf(w, "Duration: %s\n", format.FormatDuration(stats.Duration))
	}
	fmt.Fprintf(w, "From: %s\n", colorize(useColor, ansiMuted, stats.FirstTimestamp))
	fmt.Fprintf(w, "To:   %s\n", colorize(useColor, ansiMuted, stats.LastTimestamp))
	fmt.Fprintln(w)
}

func printAgent(w io.Writer, agent *model.AgentSummary, wrap int, useColor bool) {
	fmt.Fprintf(w, "%s - %s\n", colorize(useColor, ansiAgent, agent.Name), agent.Role)
	fmt.Fprintf(w, "  tasks: %d (%d completed, %d started, %.1f%% completion)\n",
		agent.TotalTasks, agent.CompletedTasks, agent.StartedTasks, agent.CompletionRate())
	if len(agent.TaskTypes) > 0 {
		fmt.Fprintf(w, "  task types: %s\n", strings.Join(agent.TaskTypes, ", "))
	}
	if len(agent.KeyContributions) > 0 {
		fmt.Fprintln(w, "  key contributions:")
		for _, contribution := range agent.KeyContributions {
			for idx, line := range wrapText(contribution, wrap-6) {
				prefix := "    - "
				if idx > 0 {
					prefix = "      "
				}
				fmt.Fprintf(w, "%s%s\n", prefix, line)
			}
		}
	}
	fmt.Fprintln(w)
}

func printTimelineEntry(w io.Writer, entry model.Entry, wrap int, useColor bool) {
	fmt.Fprintf(w, "%s %s  %s  %s\n",
		model.StatusGlyph(entry.Status),
		colorize(useColor, ansiMuted, entry.FormattedTime()),
		colorize(useColor, ansiAgent, entry.AgentName()),
		entry.TaskName)
	for _, line := range wrapText(entry.TaskSummary(model.DefaultSummaryLength), wrap-3) {
		fmt.Fprintf(w, "   %s\n", line)
	}
}

func resolveWrap(opts Options) int {
	if opts.Wrap > 0 {
		return opts.Wrap
	}
	if opts.OutFile != nil {
		if width, _, err := term.GetSize(int(opts.OutFile.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWrap
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	text = strings.TrimRight(text, " ")
	if text == "" {
		return []string{""}
	}
	var out []string
	var current strings.Builder
	currentWidth := 0

	for _, r := range text {
		if r == '\n' {
			out = append(out, current.String())
			current.Reset()
			currentWidth = 0
			continue
		}
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
			currentWidth = 0
		}
		current.WriteRune(r)
		currentWidth += rw
	}
	if currentWidth > 0 || current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func colorize(enabled bool, code string, text string) string {
	if !enabled {
		return text
	}
	return code + text + ansiReset
}

func resolveColorChoice(opts Options) bool {
	if opts.ForceColor {
		return true
	}
	if opts.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(opts.Out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
