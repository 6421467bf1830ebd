package model

import "testing"

func TestCompletionRate(t *testing.T) {
	agent := &AgentSummary{TotalTasks: 2, CompletedTasks: 1}
	if got := agent.CompletionRate(); got != 50.0 {
		t.Fatalf("unexpected completion rate: %v", got)
	}
}

func TestCompletionRateNoTasks(t *testing.T) {
	agent := &AgentSummary{}
	if got := agent.CompletionRate(); got != 0.0 {
		t.Fatalf("empty agent should have 0 completion rate: %v", got)
	}
}

func TestCompletionRateAllCompleted(t *testing.T) {
	agent := &AgentSummary{TotalTasks: 3, CompletedTasks: 3}
	if got := agent.CompletionRate(); got != 100.0 {
		t.Fatalf("unexpected completion rate: %v", got)
	}
}

func TestStatusGlyph(t *testing.T) {
	cases := map[string]string{
		"completed": "✅",
		"Completed": "✅",
		"STARTED":   "🔄",
		"failed":    "❌",
		"pending":   "⏳",
		"unknown":   "❓",
		"":          "❓",
	}
	for status, want := range cases {
		if got := StatusGlyph(status); got != want {
			t.Fatalf("StatusGlyph(%q) = %q, want %q", status, got, want)
		}
	}
}
