package escalation

import (
	"regexp"
	"strings"
)

// The assistant confirms a handover in a fixed block:
//
//	Name: [visitor's name]
//	Mobile: [contact number]
//	Email: [email address]
//	Goal: [primary goal]
//	Plan: [coaching option of interest]
//
// These patterns tolerate variations in spacing and field order.
var (
	handoverNameRE   = regexp.MustCompile(`(?im)name:\s*(.+?)\s*(?:\n|mobile:|$)`)
	handoverMobileRE = regexp.MustCompile(`(?im)mobile:\s*(.+?)\s*(?:\n|email:|goal:|$)`)
	handoverEmailRE  = regexp.MustCompile(`(?im)email:\s*(.+?)\s*(?:\n|goal:|$)`)
	handoverGoalRE   = regexp.MustCompile(`(?im)goal:\s*(.+?)\s*(?:\n|plan:|$)`)
	handoverPlanRE   = regexp.MustCompile(`(?im)plan:\s*(.+?)\s*(?:\n|$)`)

	hasNameRE   = regexp.MustCompile(`(?i)name:\s*.+`)
	hasMobileRE = regexp.MustCompile(`(?i)mobile:\s*.+`)

	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// ExtractHandoverInfo parses the handover confirmation block from an
// assistant message. It returns nil unless at least name and mobile were
// found; the remaining fields are optional.
func ExtractHandoverInfo(message string) *ContactInfo {
	if strings.TrimSpace(message) == "" {
		return nil
	}

	info := &ContactInfo{
		Name:   firstGroup(handoverNameRE, message),
		Mobile: firstGroup(handoverMobileRE, message),
		Email:  firstGroup(handoverEmailRE, message),
		Goal:   firstGroup(handoverGoalRE, message),
		Plan:   firstGroup(handoverPlanRE, message),
	}
	if info.Name == "" || info.Mobile == "" {
		return nil
	}
	return info
}

// IsHandoverConfirmation reports whether the message looks like a handover
// confirmation. Name and mobile are the required fields.
func IsHandoverConfirmation(message string) bool {
	if strings.TrimSpace(message) == "" {
		return false
	}
	return hasNameRE.MatchString(message) && hasMobileRE.MatchString(message)
}

// ExtractEmailFromText pulls the first email address out of free text.
func ExtractEmailFromText(text string) string {
	return emailRE.FindString(text)
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
