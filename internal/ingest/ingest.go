// Package ingest turns raw crew execution log payloads into per-agent
// aggregates and serves timeline, statistics, and interaction queries
// over the parsed state.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"crewlog/internal/model"
)

// Ingestor parses one log payload at a time and answers read queries over
// the result. It is not safe for concurrent use; one instance serves one
// logical session (one upload in, queries out).
type Ingestor struct {
	entries     []model.Entry
	agents      map[string]*model.AgentSummary
	agentOrder  []string
	parseErrors []string
}

// New returns an empty Ingestor.
func New() *Ingestor {
	return &Ingestor{agents: make(map[string]*model.AgentSummary)}
}

// Errors returns the parse errors accumulated across all Parse calls.
func (in *Ingestor) Errors() []string {
	return in.parseErrors
}

// Parse ingests a raw JSON payload. It returns false when the payload is
// not valid JSON or its top level is not an array; in that case no
// entries are added. Failures on individual array elements are recorded
// in Errors and the element is skipped without failing the call. A parse
// that reaches the array fully replaces state from earlier parses.
func (in *Ingestor) Parse(raw string) bool {
	trimmed := strings.TrimSpace(raw)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			in.parseErrors = append(in.parseErrors, "expected JSON array but got: "+typeErr.Value)
		} else {
			in.parseErrors = append(in.parseErrors, fmt.Sprintf("JSON parsing error: %v", err))
		}
		return false
	}
	if items == nil && trimmed == "null" {
		// A bare null decodes into a nil slice without an error.
		in.parseErrors = append(in.parseErrors, "expected JSON array but got: null")
		return false
	}

	in.entries = nil
	in.agents = make(map[string]*model.AgentSummary)
	in.agentOrder = nil

	for idx, item := range items {
		entry, err := decodeEntry(item)
		if err != nil {
			in.parseErrors = append(in.parseErrors, fmt.Sprintf("error parsing entry %d: %v", idx, err))
			continue
		}
		in.ingest(entry)
	}

	return true
}

var entryFieldNames = []string{"timestamp", "task_name", "task", "agent", "status", "output"}

// decodeEntry builds one record from an array element. Missing fields
// default to empty strings, but a null element or a null-valued field is
// an element error: encoding/json decodes null as a no-op for structs and
// strings, so both have to be rejected explicitly.
func decodeEntry(raw json.RawMessage) (model.Entry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.Entry{}, err
	}
	if fields == nil {
		return model.Entry{}, errors.New("expected object but got null")
	}

	var entry model.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return model.Entry{}, err
	}

	for _, name := range entryFieldNames {
		if value, ok := fields[name]; ok && string(bytes.TrimSpace(value)) == "null" {
			return model.Entry{}, fmt.Errorf("field %q is null", name)
		}
	}

	return entry, nil
}

// ingest appends one record to the flat sequence and folds it into its
// agent's aggregate.
func (in *Ingestor) ingest(entry model.Entry) {
	in.entries = append(in.entries, entry)

	name := entry.AgentName()
	agent, ok := in.agents[name]
	if !ok {
		agent = &model.AgentSummary{Name: name, Role: entry.AgentRole()}
		in.agents[name] = agent
		in.agentOrder = append(in.agentOrder, name)
	}

	agent.Entries = append(agent.Entries, entry)
	agent.TotalTasks++

	switch strings.ToLower(entry.Status) {
	case "completed":
		agent.CompletedTasks++
	case "started":
		agent.StartedTasks++
	}

	if !slices.Contains(agent.TaskTypes, entry.TaskName) {
		agent.TaskTypes = append(agent.TaskTypes, entry.TaskName)
	}

	for _, action := range entry.KeyActions() {
		if !slices.Contains(agent.KeyContributions, action) {
			agent.KeyContributions = append(agent.KeyContributions, action)
		}
	}
}

// Agents returns all agent summaries in first-seen order.
func (in *Ingestor) Agents() []*model.AgentSummary {
	agents := make([]*model.AgentSummary, 0, len(in.agentOrder))
	for _, name := range in.agentOrder {
		agents = append(agents, in.agents[name])
	}
	return agents
}

// AgentByName looks up a single agent by its clean name.
func (in *Ingestor) AgentByName(name string) (*model.AgentSummary, bool) {
	agent, ok := in.agents[name]
	return agent, ok
}

// Timeline returns all entries sorted ascending by parsed timestamp.
// Entries whose timestamp does not parse carry the zero time and so sort
// before all others. The sort is stable: equal keys keep their ingestion
// order.
func (in *Ingestor) Timeline() []model.Entry {
	timeline := make([]model.Entry, len(in.entries))
	copy(timeline, in.entries)
	sort.SliceStable(timeline, func(i, j int) bool {
		ti, _ := timeline[i].Time()
		tj, _ := timeline[j].Time()
		return ti.Before(tj)
	})
	return timeline
}

// InteractionGraph walks the timeline pairwise and records a directed
// edge whenever the agent changes between consecutive entries.
// Self-transitions produce no edge and successors are deduplicated per
// source. The second return value lists source agents in first-edge
// order so callers can walk the map deterministically.
func (in *Ingestor) InteractionGraph() (map[string][]string, []string) {
	interactions := make(map[string][]string)
	var order []string

	timeline := in.Timeline()
	for i := 0; i+1 < len(timeline); i++ {
		current := timeline[i].AgentName()
		next := timeline[i+1].AgentName()
		if current == next {
			continue
		}
		if _, ok := interactions[current]; !ok {
			order = append(order, current)
		}
		if !slices.Contains(interactions[current], next) {
			interactions[current] = append(interactions[current], next)
		}
	}

	return interactions, order
}

// Stats summarizes an entire parsed log.
type Stats struct {
	TotalEntries   int
	TotalAgents    int
	UniqueTasks    int
	CompletedTasks int
	StartedTasks   int
	Duration       time.Duration
	HasDuration    bool
	FirstTimestamp string
	LastTimestamp  string
}

// Statistics computes overall statistics for the parsed log. It reports
// false when nothing has been ingested. Duration is only populated when
// both timeline endpoints carry parseable timestamps.
func (in *Ingestor) Statistics() (Stats, bool) {
	if len(in.entries) == 0 {
		return Stats{}, false
	}

	timeline := in.Timeline()
	first := timeline[0]
	last := timeline[len(timeline)-1]

	stats := Stats{
		TotalEntries:   len(in.entries),
		TotalAgents:    len(in.agents),
		FirstTimestamp: first.FormattedTime(),
		LastTimestamp:  last.FormattedTime(),
	}

	taskNames := make(map[string]struct{})
	for _, entry := range in.entries {
		taskNames[entry.TaskName] = struct{}{}
		switch strings.ToLower(entry.Status) {
		case "completed":
			stats.CompletedTasks++
		case "started":
			stats.StartedTasks++
		}
	}
	stats.UniqueTasks = len(taskNames)

	if start, ok := first.Time(); ok {
		if end, ok := last.Time(); ok {
			stats.Duration = end.Sub(start)
			stats.HasDuration = true
		}
	}

	return stats, true
}
