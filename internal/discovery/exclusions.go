package discovery

// ExclusionRule suppresses chip rendering regardless of pattern matches.
// The three rules catch phases where the bot is summarizing, selling, or
// collecting contact details rather than asking a discovery question; their
// keyword sets overlap with several patterns, so they are always evaluated
// before the table.
type ExclusionRule struct {
	Name  string
	Match Predicate
}

// defaultExclusions returns the exclusion rules in their fixed evaluation
// order.
func defaultExclusions() []ExclusionRule {
	return []ExclusionRule{
		{
			// Structural fingerprint of the bot's own handover confirmation:
			// all four labeled fields present at once. Terminal message of the
			// flow, never a prompt.
			Name: "handover-summary",
			Match: All(
				Contains("name:"),
				Contains("mobile:"),
				Contains("goal:"),
				Contains("plan:"),
			),
		},
		{
			// The bot is proposing a concrete paid plan. Chips would be
			// misleading once an offer is on the table, even though these
			// messages often still mention "online coaching" or "check-ins".
			Name: "recommendation",
			Match: Any(
				ContainsAny(
					"i recommend", "i'd recommend", "we recommend",
					"pricing", "per week", "per month",
					"perfect fit", "great fit", "next step", "sign up",
				),
				Matches(`recommend\b.{0,80}\bfor you`),
			),
		},
		{
			// Collecting name/phone/email expects free-text input.
			Name: "personal-info",
			Match: ContainsAny(
				"what is your name", "what's your name", "your full name",
				"your first name", "may i have your name",
				"phone number", "mobile number", "best number",
				"email address", "your email", "best email",
				"how can we reach you", "how do we reach you",
				"contact details",
			),
		},
	}
}
