package discovery

// Priority bands: coarse steps (10, 20, 30, ...) for the primary discovery
// questions, and a congested 22-25 band for the nutrition/strength follow-up
// sub-questions. The follow-ups reuse the same sentence template ("What kind
// of support would help you most?") across branches, so each one keys on a
// branch-specific fragment; on a true overlap the first-defined pattern wins.
//
// Option wording follows the latest iteration of the widget: the experience
// chip reads "Advanced or Competitive" and nutrition-goal includes a
// "Competition preparation" option.

// defaultPatterns is the canonical discovery question table. The slice order
// is the tie-break for equal priorities and must not be reordered.
func defaultPatterns() []Pattern {
	return []Pattern{
		{
			ID:       "goal-classification",
			Label:    "What's your main goal right now?",
			Priority: 10,
			Options: []Option{
				opt("Build strength", "Build strength"),
				opt("Competition prep", "Competition prep"),
				opt("Nutrition Coaching", "Nutrition coaching"),
				somethingElseOpt(),
			},
			Match: All(
				IsQuestion(),
				ContainsAny("main goal", "primary goal", "biggest goal", "goal right now", "what brings you"),
			),
		},
		{
			ID:       "package-type",
			Label:    "Would you like Training only or the Full Athlete Package?",
			Priority: 20,
			Options: []Option{
				opt("Training only", "Training only"),
				opt("Full Athlete Package (training + nutrition)", "Full Athlete Package"),
				somethingElseOpt(),
			},
			// Rules out goal-classification phrasing first: a goal question can
			// mention packages in passing without being the package question.
			Match: All(
				Not(ContainsAny("main goal", "primary goal")),
				IsQuestion(),
				Contains("training only"),
				ContainsAny("full athlete", "package"),
			),
		},
		{
			ID:       "nutrition-goal",
			Label:    "What's your nutrition goal?",
			Priority: 22,
			Options: []Option{
				opt("Fat loss", "Fat loss"),
				opt("Muscle gain", "Muscle gain"),
				opt("Performance nutrition", "Performance nutrition"),
				opt("Competition preparation", "Competition preparation"),
				somethingElseOpt(),
			},
			Match: All(
				Contains("nutrition"),
				IsQuestion(),
				ContainsAny("nutrition goal", "fat loss", "muscle gain", "performance"),
			),
		},
		{
			ID:       "nutrition-structure-checkins",
			Label:    "What kind of support would help you most?",
			Priority: 22,
			Options: []Option{
				opt("A structured meal plan", "Structured meal plan"),
				opt("Flexible macros with check-ins", "Flexible macros + check-ins"),
				somethingElseOpt(),
			},
			Match: All(
				ContainsAny("nutrition", "meal", "macros"),
				IsQuestion(),
				ContainsAny("structure", "meal plan", "macros"),
			),
		},
		{
			ID:       "nutrition-guidance-preference",
			Label:    "What kind of support would help you most?",
			Priority: 22,
			Options: []Option{
				opt("Full guidance on what to eat", "Full guidance"),
				opt("General direction with flexibility", "General direction"),
				somethingElseOpt(),
			},
			Match: All(
				Contains("nutrition"),
				IsQuestion(),
				Contains("guidance"),
			),
		},
		{
			ID:       "nutrition-consistency-checkins",
			Label:    "What kind of support would help you most?",
			Priority: 23,
			Options: []Option{
				opt("Weekly accountability check-ins", "Weekly accountability"),
				opt("Occasional check-ins when I need them", "Occasional check-ins"),
				somethingElseOpt(),
			},
			Match: All(
				ContainsAny("consistency", "consistent", "accountab"),
				IsQuestion(),
				Matches(`check[\s-]?ins?\b`),
			),
		},
		{
			ID:       "strength-support-type",
			Label:    "What kind of support would help you most?",
			Priority: 24,
			Options: []Option{
				opt("Programming only", "Programming only"),
				opt("Coaching with technique feedback", "Coaching + technique"),
				opt("Competition day support", "Competition day support"),
				somethingElseOpt(),
			},
			// The strength branch is the same template minus the nutrition
			// context words; the absence of those words is the discriminator.
			Match: All(
				Not(ContainsAny("nutrition", "meal", "macros")),
				IsQuestion(),
				Contains("support"),
				ContainsAny("help you most", "would help", "kind of support"),
			),
		},
		{
			ID:       "experience-level",
			Label:    "How would you describe your experience level?",
			Priority: 25,
			Options: []Option{
				opt("Beginner", "Beginner"),
				opt("Intermediate", "Intermediate"),
				opt("Advanced or Competitive", "Advanced or Competitive"),
				somethingElseOpt(),
			},
			Match: All(
				IsQuestion(),
				ContainsAny("experience level", "how experienced", "describe your experience", "beginner, intermediate"),
			),
		},
		{
			ID:       "coaching-mode",
			Label:    "Would you prefer online coaching or in-person?",
			Priority: 30,
			Options: []Option{
				opt("Online coaching", "Online coaching"),
				opt("In-person coaching", "In-person coaching"),
				opt("Club membership", "Club membership"),
				somethingElseOpt(),
			},
			Match: All(
				IsQuestion(),
				Contains("online"),
				ContainsAny("in-person", "in person", "club"),
			),
		},
		{
			ID:       "check-in-frequency",
			Label:    "How often would you like check-ins?",
			Priority: 40,
			Options: []Option{
				opt("Weekly", "Weekly"),
				opt("Fortnightly", "Fortnightly"),
				somethingElseOpt(),
			},
			Match: All(
				IsQuestion(),
				Matches(`check[\s-]?ins?\b`),
				ContainsAny("weekly", "fortnightly", "how often"),
			),
		},
		{
			ID:       "training-days",
			Label:    "How many days a week can you train?",
			Priority: 50,
			Options: []Option{
				opt("2-3 days", "2-3 days"),
				opt("4-5 days", "4-5 days"),
				opt("6+ days", "6+ days"),
				somethingElseOpt(),
			},
			// Keyed on "how many days" rather than "per week": the latter is a
			// recommendation-exclusion phrase and would suppress the question.
			Match: All(
				IsQuestion(),
				Contains("how many days"),
				ContainsAny("train", "lift", "gym", "session"),
			),
		},
		{
			ID:       "ready-to-start",
			Label:    "Ready to get started?",
			Priority: 90,
			Options: []Option{
				opt("Yes, let's do it", "Yes, let's do it"),
				opt("I have a few more questions", "More questions first"),
				somethingElseOpt(),
			},
			Match: All(
				IsQuestion(),
				ContainsAny("ready to get started", "ready to start", "shall we get started", "want to get started", "get you started"),
			),
		},
	}
}
