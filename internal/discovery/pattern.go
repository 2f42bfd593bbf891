package discovery

// SomethingElse is the reserved option value that tells the widget to collect
// free text instead of submitting the chip value directly. The widget sends
// the captured text back as "Something else: <free text>".
const SomethingElse = "Something else"

// Option is one selectable chip. Value is resubmitted verbatim as the user's
// next message when the chip is chosen; Text is the display label.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Pattern associates a detection predicate with a discovery question and its
// selectable options. Patterns are static configuration: built once at
// startup, never mutated, identified externally only by ID.
type Pattern struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Options  []Option `json:"options"`
	Priority int      `json:"priority"`
	Match    Predicate
}

// Match is the classifier result handed to the chat controller: the matched
// pattern's identity plus the chips to render.
type Match struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

func opt(value, text string) Option {
	return Option{Value: value, Text: text}
}

// somethingElseOpt is appended to every pattern so the customer is never
// boxed in by the chip set.
func somethingElseOpt() Option {
	return Option{Value: SomethingElse, Text: "Something else"}
}
