package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"crewlog/internal/ingest"
	"crewlog/internal/model"
)

func sampleAgents() []*model.AgentSummary {
	return []*model.AgentSummary{
		{
			Name:           "Bob",
			Role:           "codes",
			TotalTasks:     2,
			CompletedTasks: 1,
			StartedTasks:   1,
			TaskTypes:      []string{"t1"},
		},
		{
			Name:           "Alice",
			Role:           "reviews",
			TotalTasks:     1,
			CompletedTasks: 1,
			TaskTypes:      []string{"t2", "t3"},
		},
	}
}

func TestWriteAgentsPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAgents(&buf, sampleAgents(), true, "plain"); err != nil {
		t.Fatalf("WriteAgents plain returned error: %v", err)
	}

	expected := strings.Join([]string{
		"name\trole\ttotal_tasks\tcompleted\tstarted\tcompletion_rate\ttask_types",
		"Bob\tcodes\t2\t1\t1\t50.0\tt1",
		"Alice\treviews\t1\t1\t0\t100.0\tt2,t3",
	}, "\n") + "\n"

	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestWriteAgentsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAgents(&buf, sampleAgents(), true, "table"); err != nil {
		t.Fatalf("WriteAgents table returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "COMPLETED") || !strings.Contains(out, "TASK TYPES") {
		t.Fatalf("table header missing expected columns:\n%s", out)
	}
	if !strings.Contains(out, "Bob") || !strings.Contains(out, "50.0%") {
		t.Fatalf("table rows missing expected cells:\n%s", out)
	}
}

func TestWriteAgentsJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAgents(&buf, sampleAgents(), false, "jsonl"); err != nil {
		t.Fatalf("WriteAgents jsonl returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "\"Name\":\"Bob\"") || !strings.Contains(lines[0], "\"TotalTasks\":2") {
		t.Fatalf("first jsonl line unexpected: %s", lines[0])
	}
}

func TestWriteAgentsInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAgents(&buf, sampleAgents(), true, "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWriteTimelinePlain(t *testing.T) {
	entries := []model.Entry{
		{
			Timestamp: "2025-01-01 10:00:00",
			TaskName:  "t1",
			Task:      "do the thing",
			Agent:     "Bob who codes",
			Status:    "started",
		},
	}

	var buf bytes.Buffer
	if err := WriteTimeline(&buf, entries, false, "plain"); err != nil {
		t.Fatalf("WriteTimeline plain returned error: %v", err)
	}

	expected := "Jan 01, 2025 at 10:00:00 AM\t🔄 started\tBob\tt1\tdo the thing\n"
	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestWriteStatsPlain(t *testing.T) {
	stats := ingest.Stats{
		TotalEntries:   2,
		TotalAgents:    1,
		UniqueTasks:    1,
		CompletedTasks: 1,
		StartedTasks:   1,
		Duration:       5 * time.Minute,
		HasDuration:    true,
		FirstTimestamp: "Jan 01, 2025 at 10:00:00 AM",
		LastTimestamp:  "Jan 01, 2025 at 10:05:00 AM",
	}

	var buf bytes.Buffer
	if err := WriteStats(&buf, stats, "plain"); err != nil {
		t.Fatalf("WriteStats plain returned error: %v", err)
	}

	expected := strings.Join([]string{
		"total_entries\t2",
		"total_agents\t1",
		"unique_tasks\t1",
		"completed_tasks\t1",
		"started_tasks\t1",
		"total_duration\t00:05:00",
		"first_timestamp\tJan 01, 2025 at 10:00:00 AM",
		"last_timestamp\tJan 01, 2025 at 10:05:00 AM",
	}, "\n") + "\n"

	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestWriteStatsPlainWithoutDuration(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStats(&buf, ingest.Stats{TotalEntries: 1}, "plain"); err != nil {
		t.Fatalf("WriteStats plain returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "total_duration\t-\n") {
		t.Fatalf("absent duration should render as a dash:\n%s", buf.String())
	}
}

func TestWriteGraphPlain(t *testing.T) {
	graph := map[string][]string{
		"A": {"B", "C"},
		"B": {"A"},
	}
	order := []string{"A", "B"}

	var buf bytes.Buffer
	if err := WriteGraph(&buf, graph, order, "plain"); err != nil {
		t.Fatalf("WriteGraph plain returned error: %v", err)
	}

	expected := "A -> B, C\nB -> A\n"
	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                            "00:00:00",
		90 * time.Second:             "00:01:30",
		3725 * time.Second:           "01:02:05",
		-time.Minute:                 "00:00:00",
		25*time.Hour + 1*time.Second: "25:00:01",
	}
	for d, want := range cases {
		if got := FormatDuration(d); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}
