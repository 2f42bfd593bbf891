package discovery

import (
	"regexp"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// Sentinel defaults. Returned when the transcript carries no signal;
	// they are legitimate values, not errors.
	DefaultGoal = "General Inquiry"
	DefaultPlan = "Not specified"
)

// Turn is one exchanged message, as accumulated by the chat controller.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Profile is the best-effort structured summary mined from a transcript when
// escalation is requested. It is recomputed on demand and never stored.
type Profile struct {
	Goal string `json:"goal"`
	Plan string `json:"plan"`
}

// handoverGoalRE recovers the assistant-stated "Goal:" field from a handover
// confirmation. Assistant turns are space-joined before scanning, so the
// capture stops at the following "Plan:" label as well as at line breaks.
var handoverGoalRE = regexp.MustCompile(`(?i)goal:\s*(.+?)\s*(?:\n|plan:|$)`)

// goalKeywords maps user-text keywords to goal labels, in precedence order.
var goalKeywords = []struct {
	keywords []string
	goal     string
}{
	{[]string{"compete", "competition"}, "Competition prep"},
	{[]string{"stronger", "strength", "powerlifting"}, "Build strength"},
	{[]string{"nutrition", "fat loss", "muscle gain"}, "Nutrition Coaching"},
}

var experienceLevels = []string{"beginner", "intermediate", "advanced", "competitive"}

// modeLabels maps a detected coaching mode to its standalone plan label, used
// when no package type was mentioned.
var modeLabels = map[string]string{
	"online":    "Online coaching",
	"in-person": "In-person coaching",
	"club":      "Club membership",
}

// assistantProducts is the fallback scan over assistant text for a named
// coaching product, checked in order of specificity.
var assistantProducts = []struct {
	keyword string
	plan    string
}{
	{"full athlete package", "Full Athlete Package"},
	{"training only", "Training only"},
	{"online coaching", "Online coaching"},
	{"in-person coaching", "In-person coaching"},
	{"club membership", "Club membership"},
}

// ExtractProfile mines a transcript for the customer's goal and chosen plan.
// It is total: any input, including nil, yields a Profile with at worst the
// sentinel defaults.
func ExtractProfile(turns []Turn) Profile {
	userText, assistantText := partitionTurns(turns)
	lowerUser := strings.ToLower(userText)

	return Profile{
		Goal: inferGoal(lowerUser, assistantText),
		Plan: inferPlan(lowerUser, strings.ToLower(assistantText)),
	}
}

// partitionTurns splits a transcript into user-authored and assistant-authored
// text, order-preserving and space-joined.
func partitionTurns(turns []Turn) (userText, assistantText string) {
	var user, assistant strings.Builder
	for _, turn := range turns {
		switch turn.Role {
		case RoleUser:
			user.WriteString(turn.Content)
			user.WriteString(" ")
		case RoleAssistant:
			assistant.WriteString(turn.Content)
			assistant.WriteString(" ")
		}
	}
	return user.String(), assistant.String()
}

func inferGoal(lowerUser, assistantText string) string {
	// An assistant-confirmed handover line is the most authoritative source.
	if m := handoverGoalRE.FindStringSubmatch(assistantText); len(m) == 2 {
		if goal := strings.TrimSpace(m[1]); goal != "" {
			return goal
		}
	}

	for _, entry := range goalKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lowerUser, kw) {
				if level := experienceLevel(lowerUser); level != "" {
					return entry.goal + " (" + level + ")"
				}
				return entry.goal
			}
		}
	}
	return DefaultGoal
}

func experienceLevel(lowerUser string) string {
	for _, level := range experienceLevels {
		if strings.Contains(lowerUser, level) {
			return level
		}
	}
	return ""
}

func inferPlan(lowerUser, lowerAssistant string) string {
	// "full athlete" wins even when "training only" is also present, e.g.
	// "I'd like the full athlete package, not training only".
	var pkg string
	switch {
	case strings.Contains(lowerUser, "full athlete"):
		pkg = "Full Athlete Package"
	case strings.Contains(lowerUser, "training only"):
		pkg = "Training only"
	}

	mode := coachingMode(lowerUser)
	cadence := checkInCadence(lowerUser)

	if pkg != "" {
		detail := joinNonEmpty(mode, cadence)
		if detail == "" {
			return pkg
		}
		return pkg + " (" + detail + ")"
	}

	if mode != "" {
		label := modeLabels[mode]
		if cadence != "" {
			return label + " (" + cadence + ")"
		}
		return label
	}

	// No plan signal from the user; fall back to products the assistant named.
	for _, product := range assistantProducts {
		if strings.Contains(lowerAssistant, product.keyword) {
			return product.plan
		}
	}
	return DefaultPlan
}

func coachingMode(lowerUser string) string {
	switch {
	case strings.Contains(lowerUser, "online"):
		return "online"
	case strings.Contains(lowerUser, "in-person"), strings.Contains(lowerUser, "in person"):
		return "in-person"
	case strings.Contains(lowerUser, "club"):
		return "club"
	}
	return ""
}

func checkInCadence(lowerUser string) string {
	switch {
	case strings.Contains(lowerUser, "fortnightly"):
		return "fortnightly"
	case strings.Contains(lowerUser, "weekly"):
		return "weekly"
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
