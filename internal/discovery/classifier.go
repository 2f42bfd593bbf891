package discovery

import (
	"sort"
	"strings"
)

// Classifier decides whether an assistant message is a discovery question and,
// if so, which one. It holds only immutable configuration, so a single
// instance serves any number of concurrent callers.
type Classifier struct {
	exclusions []ExclusionRule
	patterns   []Pattern // sorted by priority, table order on ties
}

// NewClassifier builds a classifier over the canonical pattern table.
func NewClassifier() *Classifier {
	return NewClassifierWithTable(defaultPatterns(), defaultExclusions())
}

// NewClassifierWithTable builds a classifier over a custom table. The table is
// copied and pre-sorted once; ties keep their original table order.
func NewClassifierWithTable(patterns []Pattern, exclusions []ExclusionRule) *Classifier {
	sorted := make([]Pattern, len(patterns))
	copy(sorted, patterns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return &Classifier{
		exclusions: exclusions,
		patterns:   sorted,
	}
}

// Classify returns the matching discovery pattern for an assistant message,
// or nil when no question is detected. nil is a legitimate, frequent outcome,
// not an error. The message is lower-cased internally; empty or
// whitespace-only input never matches.
func (c *Classifier) Classify(message string) *Match {
	if strings.TrimSpace(message) == "" {
		return nil
	}
	lower := strings.ToLower(message)

	// Exclusions always win over pattern matches.
	for _, rule := range c.exclusions {
		if rule.Match.Match(lower) {
			return nil
		}
	}

	for _, p := range c.patterns {
		if p.Match.Match(lower) {
			return &Match{
				ID:      p.ID,
				Label:   p.Label,
				Options: p.Options,
			}
		}
	}
	return nil
}

// Excluded reports which exclusion rule, if any, fires for a message. Used by
// the metrics layer; classification itself only needs the boolean.
func (c *Classifier) Excluded(message string) (string, bool) {
	if strings.TrimSpace(message) == "" {
		return "", false
	}
	lower := strings.ToLower(message)
	for _, rule := range c.exclusions {
		if rule.Match.Match(lower) {
			return rule.Name, true
		}
	}
	return "", false
}

// Patterns exposes the sorted table for introspection and admin tooling.
func (c *Classifier) Patterns() []Pattern {
	out := make([]Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}
