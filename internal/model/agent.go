package model

import "strings"

// AgentSummary accumulates statistics for a single agent across an
// ingested log. Name and Role are fixed by the first record that
// introduces the agent; the remaining fields grow as records arrive.
type AgentSummary struct {
	Name             string
	Role             string
	TotalTasks       int
	CompletedTasks   int
	StartedTasks     int
	TaskTypes        []string
	Entries          []Entry
	KeyContributions []string
}

// CompletionRate returns the percentage of the agent's tasks with status
// "completed", or 0 when the agent has no tasks.
func (a *AgentSummary) CompletionRate() float64 {
	if a.TotalTasks == 0 {
		return 0.0
	}
	return float64(a.CompletedTasks) / float64(a.TotalTasks) * 100
}

var statusGlyphs = map[string]string{
	"completed": "✅",
	"started":   "🔄",
	"failed":    "❌",
	"pending":   "⏳",
}

// StatusGlyph maps a status label to its display glyph. The lookup is
// case-insensitive; unknown statuses map to a question mark.
func StatusGlyph(status string) string {
	if glyph, ok := statusGlyphs[strings.ToLower(status)]; ok {
		return glyph
	}
	return "❓"
}
