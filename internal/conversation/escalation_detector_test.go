package conversation

import "testing"

func TestIsEscalationRequest(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"explicit escalate", "Please escalate this to your manager", true},
		{"speak to a human", "Can I speak to a human?", true},
		{"talk to a person", "I'd rather talk to a person about this", true},
		{"connect me with support", "connect me with support", true},
		{"assistant cannot help", "I cannot help with medical advice.", true},
		{"assistant unable", "I'm unable to help with that request.", true},
		{"need a coach", "I think I need a coach for this", true},
		{"want to speak with an agent", "I want to speak with an agent", true},
		{"plain question", "What are your opening hours?", false},
		{"mentions coaching", "Tell me about your coaching packages", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEscalationRequest(tc.message); got != tc.want {
				t.Fatalf("IsEscalationRequest(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}
