// Package format provides formatting and rendering functions for parsed
// crew log data.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"crewlog/internal/ingest"
	"crewlog/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// taskColumnWidth caps the task column in tabular output.
const taskColumnWidth = 60

// WriteAgents writes agent summaries to w in the requested format.
func WriteAgents(w io.Writer, agents []*model.AgentSummary, includeHeader bool, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeAgentsTable(w, agents, includeHeader)
	case "plain":
		return writeAgentsPlain(w, agents, includeHeader)
	case "json":
		return writeJSON(w, agents)
	case "jsonl":
		return writeAgentsJSONL(w, agents)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeAgentsPlain(w io.Writer, agents []*model.AgentSummary, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "name\trole\ttotal_tasks\tcompleted\tstarted\tcompletion_rate\ttask_types"); err != nil {
			return err
		}
	}

	for _, agent := range agents {
		line := fmt.Sprintf(
			"%s\t%s\t%d\t%d\t%d\t%.1f\t%s",
			agent.Name,
			agent.Role,
			agent.TotalTasks,
			agent.CompletedTasks,
			agent.StartedTasks,
			agent.CompletionRate(),
			strings.Join(agent.TaskTypes, ","),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeAgentsTable(w io.Writer, agents []*model.AgentSummary, includeHeader bool) error {
	tw := newTableWriter(w)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 40},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 7, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 40},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"Agent", "Role", "Tasks", "Completed", "Started", "Rate", "Task Types"})
	}

	for _, agent := range agents {
		tw.AppendRow(table.Row{
			agent.Name,
			agent.Role,
			agent.TotalTasks,
			agent.CompletedTasks,
			agent.StartedTasks,
			fmt.Sprintf("%.1f%%", agent.CompletionRate()),
			strings.Join(agent.TaskTypes, ", "),
		})
	}

	if len(agents) == 0 {
		tw.AppendRow(table.Row{"(no agents)", "-", 0, 0, 0, "0.0%", "-"})
	}

	_ = tw.Render()
	return nil
}

func writeAgentsJSONL(w io.Writer, agents []*model.AgentSummary) error {
	enc := json.NewEncoder(w)
	for _, agent := range agents {
		if err := enc.Encode(agent); err != nil {
			return err
		}
	}
	return nil
}

// WriteAgentHistory writes one agent's task history to w in the requested
// format.
func WriteAgentHistory(w io.Writer, agent *model.AgentSummary, includeHeader bool, format string) error {
	switch strings.ToLower(format) {
	case "", "table", "plain":
		return WriteTimeline(w, agent.Entries, includeHeader, format)
	case "json":
		return writeJSON(w, agent)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteTimeline writes entries in chronological display order to w in the
// requested format. The caller is responsible for sorting.
func WriteTimeline(w io.Writer, entries []model.Entry, includeHeader bool, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeTimelineTable(w, entries, includeHeader)
	case "plain":
		return writeTimelinePlain(w, entries, includeHeader)
	case "json":
		return writeJSON(w, entries)
	case "jsonl":
		return writeTimelineJSONL(w, entries)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeTimelinePlain(w io.Writer, entries []model.Entry, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "timestamp\tstatus\tagent\ttask_name\ttask"); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		line := fmt.Sprintf(
			"%s\t%s %s\t%s\t%s\t%s",
			entry.FormattedTime(),
			model.StatusGlyph(entry.Status),
			entry.Status,
			entry.AgentName(),
			entry.TaskName,
			escapeNewlines(entry.TaskSummary(taskColumnWidth)),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeTimelineTable(w io.Writer, entries []model.Entry, includeHeader bool) error {
	tw := newTableWriter(w)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: taskColumnWidth},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"Timestamp", "Status", "Agent", "Task Name", "Task"})
	}

	for _, entry := range entries {
		tw.AppendRow(table.Row{
			entry.FormattedTime(),
			fmt.Sprintf("%s %s", model.StatusGlyph(entry.Status), entry.Status),
			entry.AgentName(),
			entry.TaskName,
			escapeNewlines(entry.TaskSummary(taskColumnWidth)),
		})
	}

	if len(entries) == 0 {
		tw.AppendRow(table.Row{"-", "(no entries)", "-", "-", "-"})
	}

	_ = tw.Render()
	return nil
}

func writeTimelineJSONL(w io.Writer, entries []model.Entry) error {
	enc := json.NewEncoder(w)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return nil
}

// WriteStats writes overall log statistics to w in the requested format.
func WriteStats(w io.Writer, stats ingest.Stats, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeStatsTable(w, stats)
	case "plain":
		return writeStatsPlain(w, stats)
	case "json":
		return writeJSON(w, stats)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// statsRows flattens stats into ordered label/value pairs shared by the
// plain and table writers.
func statsRows(stats ingest.Stats) [][2]string {
	duration := "-"
	if stats.HasDuration {
		duration = FormatDuration(stats.Duration)
	}
	return [][2]string{
		{"total_entries", fmt.Sprintf("%d", stats.TotalEntries)},
		{"total_agents", fmt.Sprintf("%d", stats.TotalAgents)},
		{"unique_tasks", fmt.Sprintf("%d", stats.UniqueTasks)},
		{"completed_tasks", fmt.Sprintf("%d", stats.CompletedTasks)},
		{"started_tasks", fmt.Sprintf("%d", stats.StartedTasks)},
		{"total_duration", duration},
		{"first_timestamp", stats.FirstTimestamp},
		{"last_timestamp", stats.LastTimestamp},
	}
}

func writeStatsPlain(w io.Writer, stats ingest.Stats) error {
	for _, row := range statsRows(stats) {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeStatsTable(w io.Writer, stats ingest.Stats) error {
	tw := newTableWriter(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Metric", "Value"})
	for _, row := range statsRows(stats) {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	_ = tw.Render()
	return nil
}

// WriteGraph writes the interaction graph to w in the requested format.
// Sources are emitted in the order given by order.
func WriteGraph(w io.Writer, graph map[string][]string, order []string, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeGraphTable(w, graph, order)
	case "plain":
		return writeGraphPlain(w, graph, order)
	case "json":
		return writeJSON(w, graph)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeGraphPlain(w io.Writer, graph map[string][]string, order []string) error {
	for _, source := range order {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", source, strings.Join(graph[source], ", ")); err != nil {
			return err
		}
	}
	return nil
}

func writeGraphTable(w io.Writer, graph map[string][]string, order []string) error {
	tw := newTableWriter(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Agent", "Hands Off To"})
	for _, source := range order {
		tw.AppendRow(table.Row{source, strings.Join(graph[source], ", ")})
	}
	if len(order) == 0 {
		tw.AppendRow(table.Row{"(no handoffs)", "-"})
	}
	_ = tw.Render()
	return nil
}

func newTableWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	return tw
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatDuration renders a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds <= 0 {
		return "00:00:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func escapeNewlines(text string) string {
	return strings.ReplaceAll(text, "\n", "\\n")
}
