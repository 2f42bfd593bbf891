package discovery

import "testing"

func TestPredicateCombinators(t *testing.T) {
	tests := []struct {
		name  string
		pred  Predicate
		input string
		want  bool
	}{
		{"contains hit", Contains("check-in"), "how often would you like check-ins?", true},
		{"contains miss", Contains("check-in"), "hello", false},
		{"contains is case-folded at build", Contains("Check-In"), "weekly check-ins", true},
		{"regex synonyms", Matches(`check[\s-]?ins?\b`), "checkin cadence", true},
		{"regex synonyms spaced", Matches(`check[\s-]?ins?\b`), "check in every week", true},
		{"all requires every child", All(Contains("a"), Contains("b")), "only a here", false},
		{"all hit", All(Contains("a"), Contains("b")), "a and b", true},
		{"empty all matches", All(), "anything", true},
		{"any hit", Any(Contains("x"), Contains("b")), "a and b", true},
		{"any miss", Any(Contains("x"), Contains("y")), "a and b", false},
		{"not inverts", Not(Contains("a")), "b only", true},
		{"contains any", ContainsAny("weekly", "fortnightly"), "fortnightly works", true},
		{"question mark guard", IsQuestion(), "ready?", true},
		{"question phrase guard", IsQuestion(), "would you like that", true},
		{"statement fails guard", IsQuestion(), "we offer coaching.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPredicatesAreReferentiallyTransparent(t *testing.T) {
	pred := All(
		IsQuestion(),
		ContainsAny("training only", "full athlete"),
		Not(Contains("main goal")),
	)
	input := "would you like training only or the full athlete package?"
	for i := 0; i < 100; i++ {
		if !pred.Match(input) {
			t.Fatalf("iteration %d: predicate changed its answer", i)
		}
	}
}
