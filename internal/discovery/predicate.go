package discovery

import (
	"regexp"
	"strings"
)

// Predicate is a pure test over a lower-cased message. Predicates are built
// once at table load and are safe for concurrent use: identical input always
// yields identical output.
type Predicate interface {
	Match(lower string) bool
}

type containsPredicate struct {
	substr string
}

func (p containsPredicate) Match(lower string) bool {
	return strings.Contains(lower, p.substr)
}

// Contains matches when the message contains the given substring
// (case-insensitive; the substring is lowered at construction).
func Contains(substr string) Predicate {
	return containsPredicate{substr: strings.ToLower(substr)}
}

type regexPredicate struct {
	re *regexp.Regexp
}

func (p regexPredicate) Match(lower string) bool {
	return p.re.MatchString(lower)
}

// Matches compiles expr once and matches it against the message. Used for
// multi-synonym tests a substring cannot express, e.g. one expression
// covering "check in" / "check-in" / "checkin".
func Matches(expr string) Predicate {
	return regexPredicate{re: regexp.MustCompile(expr)}
}

type allPredicate []Predicate

func (p allPredicate) Match(lower string) bool {
	for _, child := range p {
		if !child.Match(lower) {
			return false
		}
	}
	return true
}

// All matches when every child matches. All() with no children matches
// everything.
func All(children ...Predicate) Predicate {
	return allPredicate(children)
}

type anyPredicate []Predicate

func (p anyPredicate) Match(lower string) bool {
	for _, child := range p {
		if child.Match(lower) {
			return true
		}
	}
	return false
}

// Any matches when at least one child matches.
func Any(children ...Predicate) Predicate {
	return anyPredicate(children)
}

type notPredicate struct {
	child Predicate
}

func (p notPredicate) Match(lower string) bool {
	return !p.child.Match(lower)
}

// Not inverts a predicate. Used to rule out a textually similar question's
// defining phrases before testing the pattern's own keywords.
func Not(child Predicate) Predicate {
	return notPredicate{child: child}
}

// ContainsAny matches when any of the given substrings is present.
func ContainsAny(substrs ...string) Predicate {
	children := make([]Predicate, 0, len(substrs))
	for _, s := range substrs {
		children = append(children, Contains(s))
	}
	return Any(children...)
}

// IsQuestion guards against purely informational sentences that share
// keywords with a question template. A message counts as a question when it
// carries a question mark or a common asking phrase.
func IsQuestion() Predicate {
	return ContainsAny("?", "would you", "do you", "prefer", "how often", "what kind", "which", "how many")
}
