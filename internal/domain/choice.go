package domain

import "fmt"

// MaxChoices is the most choices a command interface accepts per response.
const MaxChoices = 25

// MoreChoicesValue is the value of the sentinel choice that stands in for
// the results cut by TruncateChoices.
const MoreChoicesValue = "more_count"

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewChoice returns a choice whose name and value are the same string.
func NewChoice(s string) Choice {
	return Choice{Name: s, Value: s}
}

// TruncateChoices caps choices at MaxChoices. When the cap is hit, the
// last slot is replaced by a sentinel counting the omitted entries.
func TruncateChoices(choices []Choice) []Choice {
	if len(choices) < MaxChoices {
		return choices
	}
	out := make([]Choice, 0, MaxChoices)
	out = append(out, choices[:MaxChoices-1]...)
	return append(out, Choice{
		Name:  fmt.Sprintf("(And %d More)", len(choices)-(MaxChoices-1)),
		Value: MoreChoicesValue,
	})
}
