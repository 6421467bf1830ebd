package model

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Heuristic patterns for spotting action phrases in free text. Each
// pattern contributes at most matchesPerPattern captures.
var actionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`- ([A-Z][^\n.]+)`),                           // bullet points
	regexp.MustCompile(`\d+\. ([A-Z][^\n.]+)`),                       // numbered lists
	regexp.MustCompile(`(?:must|should|will|need to) ([a-z]+[^.]+)`), // obligation cues
}

const (
	matchesPerPattern = 3
	minActionLength   = 10
	maxActionLength   = 100
	maxActions        = 5
)

// KeyActions extracts up to five key action phrases from the task
// description and output. Matches are trimmed, filtered to lengths
// strictly between 10 and 100, and deduplicated preserving first-seen
// order.
func (e Entry) KeyActions() []string {
	text := e.Task + "\n" + e.Output

	var actions []string
	for _, pattern := range actionPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, matchesPerPattern) {
			actions = append(actions, match[1])
		}
	}

	var clean []string
	for _, action := range actions {
		action = strings.TrimSpace(action)
		length := utf8.RuneCountInString(action)
		if length <= minActionLength || length >= maxActionLength {
			continue
		}
		if slices.Contains(clean, action) {
			continue
		}
		clean = append(clean, action)
	}

	if len(clean) > maxActions {
		clean = clean[:maxActions]
	}
	return clean
}
