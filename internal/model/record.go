// Package model provides types for crew execution log records and
// per-agent aggregates.
package model

import (
	"strings"
	"time"
)

// TimestampLayout is the wire format for record timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// displayLayout renders timestamps for human-facing output,
// e.g. "Dec 27, 2025 at 11:49:05 AM".
const displayLayout = "Jan 02, 2006 at 03:04:05 PM"

// DefaultSummaryLength caps TaskSummary output when no explicit limit is
// given.
const DefaultSummaryLength = 200

// fallbackRole is returned when the agent descriptor carries no role.
const fallbackRole = "AI Agent"

// Entry represents a single record from a crew execution log. Fields are
// decoded as-is; every derived accessor below is a pure function of them
// and recomputes on each call.
type Entry struct {
	Timestamp string `json:"timestamp"`
	TaskName  string `json:"task_name"`
	Task      string `json:"task"`
	Agent     string `json:"agent"`
	Status    string `json:"status"`
	Output    string `json:"output,omitempty"`
}

// TaskSummary returns the task description truncated to maxLength
// characters with an ellipsis marker. A non-positive maxLength falls back
// to DefaultSummaryLength. The cut ignores word boundaries.
func (e Entry) TaskSummary(maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}
	runes := []rune(e.Task)
	if len(runes) <= maxLength {
		return e.Task
	}
	return string(runes[:maxLength]) + "..."
}

// AgentName extracts the clean agent name from the Agent field, which
// usually reads "<Name> who <role description>". The presence check for
// the separator is case-insensitive while the split is on the literal
// lowercase token, so a descriptor like "Bob WHO codes" is detected but
// not split and comes back whole.
func (e Entry) AgentName() string {
	clean := collapseWhitespace(e.Agent)
	if strings.Contains(strings.ToLower(clean), "who") {
		parts := strings.Split(clean, "who")
		return strings.TrimSpace(parts[0])
	}
	return clean
}

// AgentRole extracts the role description following the "who" separator,
// lowercased. When the descriptor has no separator the role defaults to
// "AI Agent". With multiple separators the role is the text between the
// first two.
func (e Entry) AgentRole() string {
	clean := strings.ToLower(collapseWhitespace(e.Agent))
	if strings.Contains(clean, "who") {
		parts := strings.Split(clean, "who")
		if len(parts) > 1 {
			return strings.TrimSpace(parts[1])
		}
	}
	return fallbackRole
}

// Time parses the record timestamp. It reports false instead of an error
// when the timestamp does not match TimestampLayout.
func (e Entry) Time() (time.Time, bool) {
	ts, err := time.Parse(TimestampLayout, e.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// FormattedTime renders the timestamp for display, falling back to the
// raw string when it does not parse.
func (e Entry) FormattedTime() string {
	ts, ok := e.Time()
	if !ok {
		return e.Timestamp
	}
	return ts.Format(displayLayout)
}

// collapseWhitespace folds whitespace runs, including newlines, into
// single spaces and trims the ends.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
