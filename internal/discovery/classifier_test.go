package discovery

import (
	"reflect"
	"testing"
)

func TestClassifyScenarios(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		message string
		wantID  string // "" means no match
	}{
		{
			"package type question",
			"Would you like Training only or the Full Athlete Package?",
			"package-type",
		},
		{
			"check-in frequency",
			"How often would you like check-ins — weekly or fortnightly?",
			"check-in-frequency",
		},
		{
			"check-in frequency hyphenless",
			"How often would you like checkins? Weekly or fortnightly?",
			"check-in-frequency",
		},
		{
			"goal classification",
			"Welcome! What's your main goal right now?",
			"goal-classification",
		},
		{
			"coaching mode",
			"Would you prefer online coaching or in-person sessions at the club?",
			"coaching-mode",
		},
		{
			"experience level",
			"How would you describe your experience level?",
			"experience-level",
		},
		{
			"nutrition goal",
			"What's your nutrition goal — fat loss, muscle gain or performance?",
			"nutrition-goal",
		},
		{
			"nutrition structure follow-up",
			"For your nutrition, what kind of support would help you most? A structured meal plan or flexible macros?",
			"nutrition-structure-checkins",
		},
		{
			"nutrition guidance follow-up",
			"For your nutrition, would full guidance or general direction help you most?",
			"nutrition-guidance-preference",
		},
		{
			"strength support follow-up",
			"What kind of support would help you most with your training?",
			"strength-support-type",
		},
		{
			"training days",
			"How many days a week can you train?",
			"training-days",
		},
		{
			"ready to start",
			"Sounds good — ready to get started?",
			"ready-to-start",
		},
		{
			"handover summary suppressed",
			"Name: Jo\nMobile: 555-1234\nGoal: Build strength\nPlan: Online coaching",
			"",
		},
		{
			"recommendation suppressed despite coaching-mode keywords",
			"Based on this, I recommend our Online Coaching at $50 per week — this would be a perfect fit.",
			"",
		},
		{
			"personal info suppressed",
			"Great! What's your name and the best email address to reach you?",
			"",
		},
		{
			"plain statement no match",
			"We offer strength and nutrition coaching out of our Brisbane club.",
			"",
		},
		{
			"empty input",
			"",
			"",
		},
		{
			"whitespace input",
			"   \n\t ",
			"",
		},
		{
			"chip value resubmitted as user turn",
			"Training only",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.message)
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("Classify(%q) = %q, want nil", tt.message, got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("Classify(%q) = nil, want %q", tt.message, tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("Classify(%q) = %q, want %q", tt.message, got.ID, tt.wantID)
			}
		})
	}
}

func TestClassifyPackageTypeOptions(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("Would you like Training only or the Full Athlete Package?")
	if got == nil {
		t.Fatal("expected a match")
	}

	values := map[string]bool{}
	for _, o := range got.Options {
		if o.Value == "" {
			t.Errorf("option %q has empty value", o.Text)
		}
		values[o.Value] = true
	}
	for _, want := range []string{"Training only", "Full Athlete Package (training + nutrition)", SomethingElse} {
		if !values[want] {
			t.Errorf("missing option value %q in %v", want, got.Options)
		}
	}
}

func TestClassifyDeterminism(t *testing.T) {
	c := NewClassifier()
	messages := []string{
		"Would you like Training only or the Full Athlete Package?",
		"How often would you like check-ins — weekly or fortnightly?",
		"hello there",
		"",
	}
	for _, msg := range messages {
		first := c.Classify(msg)
		second := c.Classify(msg)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Classify(%q) not deterministic: %+v vs %+v", msg, first, second)
		}
	}
}

func TestClassifyPriorityOrdering(t *testing.T) {
	always := Contains("") // matches any message

	patterns := []Pattern{
		{ID: "late", Priority: 30, Match: always, Options: []Option{opt("a", "a")}},
		{ID: "early", Priority: 10, Match: always, Options: []Option{opt("a", "a")}},
		{ID: "tie-first", Priority: 20, Match: always, Options: []Option{opt("a", "a")}},
		{ID: "tie-second", Priority: 20, Match: always, Options: []Option{opt("a", "a")}},
	}

	c := NewClassifierWithTable(patterns, nil)
	if got := c.Classify("anything"); got == nil || got.ID != "early" {
		t.Fatalf("expected lowest priority to win, got %+v", got)
	}

	// Remove the lowest; ties must resolve by table order.
	c = NewClassifierWithTable([]Pattern{patterns[0], patterns[2], patterns[3]}, nil)
	if got := c.Classify("anything"); got == nil || got.ID != "tie-first" {
		t.Fatalf("expected first-defined pattern to win the tie, got %+v", got)
	}
}

func TestExclusionPrecedence(t *testing.T) {
	// A pattern that would match the handover fingerprint must still lose to
	// the exclusion rule.
	patterns := []Pattern{
		{ID: "greedy", Priority: 1, Match: Contains("goal:"), Options: []Option{opt("a", "a")}},
	}
	c := NewClassifierWithTable(patterns, defaultExclusions())

	msg := "Name: Jo\nMobile: 555\nGoal: Build strength\nPlan: Training only"
	if got := c.Classify(msg); got != nil {
		t.Fatalf("exclusion should override the pattern match, got %+v", got)
	}

	name, excluded := c.Excluded(msg)
	if !excluded || name != "handover-summary" {
		t.Fatalf("Excluded() = %q, %v; want handover-summary, true", name, excluded)
	}
}

func TestExcludedRuleNames(t *testing.T) {
	c := NewClassifier()
	tests := []struct {
		message string
		want    string
	}{
		{"Name: A\nMobile: 1\nGoal: g\nPlan: p", "handover-summary"},
		{"I recommend the Full Athlete Package for you", "recommendation"},
		{"Our pricing starts at $50 per week", "recommendation"},
		{"What's the best email address for you?", "personal-info"},
		{"What's your main goal right now?", ""},
	}
	for _, tt := range tests {
		name, _ := c.Excluded(tt.message)
		if name != tt.want {
			t.Errorf("Excluded(%q) = %q, want %q", tt.message, name, tt.want)
		}
	}
}

func TestTableIsWellFormed(t *testing.T) {
	c := NewClassifier()
	seen := map[string]bool{}
	lastPriority := -1
	for _, p := range c.Patterns() {
		if p.ID == "" {
			t.Error("pattern with empty id")
		}
		if seen[p.ID] {
			t.Errorf("duplicate pattern id %q", p.ID)
		}
		seen[p.ID] = true

		if p.Priority < lastPriority {
			t.Errorf("patterns not sorted: %q at priority %d after %d", p.ID, p.Priority, lastPriority)
		}
		lastPriority = p.Priority

		if len(p.Options) == 0 {
			t.Errorf("pattern %q has no options", p.ID)
		}
		somethingElse := 0
		for _, o := range p.Options {
			if o.Value == "" {
				t.Errorf("pattern %q has an option with empty value", p.ID)
			}
			if o.Value == SomethingElse {
				somethingElse++
			}
		}
		if somethingElse != 1 {
			t.Errorf("pattern %q has %d %q options, want exactly 1", p.ID, somethingElse, SomethingElse)
		}
		if p.Match == nil {
			t.Errorf("pattern %q has nil predicate", p.ID)
		}
	}
}
