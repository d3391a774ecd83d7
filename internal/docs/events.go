package docs

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	eventsInterfacePattern = regexp.MustCompile(`^(?:[A-Z][a-z]*)+Events$`)
	tupleNamePattern       = regexp.MustCompile(`^(?:\.\.\.)?[A-Za-z_$][\w$]*\??$`)
	whitespacePattern      = regexp.MustCompile(`\s+`)
)

// synthesizeEvents attaches one event per property of every <Class>Events
// interface to the matching class. Interfaces without a class, and
// properties whose type text cannot be parsed, are reported and skipped.
func synthesizeEvents(root *Root, report func(string)) {
	for _, iface := range root.Interfaces {
		if !eventsInterfacePattern.MatchString(iface.Name) {
			continue
		}
		className := strings.TrimSuffix(iface.Name, "Events")
		idx := slices.IndexFunc(root.Classes, func(c Class) bool { return c.Name == className })
		if idx == -1 {
			report(fmt.Sprintf("Failed to find class %q for events interface %q", className, iface.Name))
			continue
		}

		class := &root.Classes[idx]
		for _, prop := range iface.Properties {
			overloads, err := parseEventOverloads(prop.Text)
			if err != nil {
				report(fmt.Sprintf("Skipping event %s.%s: %v", className, prop.Name, err))
				continue
			}
			class.Events = append(class.Events, Event{
				Comment:   prop.Comment,
				Interface: iface.Name,
				Module:    iface.Module,
				Name:      prop.Name,
				Overloads: overloads,
			})
		}
	}
}

// parseEventOverloads reads overloads back out of rendered listener type
// text such as "[a: string, b?: number] | [c: Guild]". The input is what
// Renderer emits for a union of named tuples; changes to tuple rendering
// must keep this parser in step. Separators only count outside brackets
// and string literals, so parameter types keep their own commas, colons
// and pipes.
func parseEventOverloads(text string) ([]Overload, error) {
	groups, err := splitTopLevel(text, '|')
	if err != nil {
		return nil, errors.Wrapf(err, "listener type %q", text)
	}

	overloads := make([]Overload, 0, len(groups))
	for _, group := range groups {
		if len(group) < 2 || group[0] != '[' || group[len(group)-1] != ']' {
			return nil, errors.Newf("no tuple signature in %q", text)
		}
		inner := strings.TrimSpace(group[1 : len(group)-1])
		if inner == "" {
			overloads = append(overloads, newOverload(nil))
			continue
		}
		// an error here also catches groups like "[a] [b]" whose first
		// bracket closes early
		elements, err := splitTopLevel(inner, ',')
		if err != nil {
			return nil, errors.Wrapf(err, "listener type %q", text)
		}
		params := make([]Parameter, 0, len(elements))
		for _, element := range elements {
			param, err := parseTupleMember(element)
			if err != nil {
				return nil, errors.Wrapf(err, "listener type %q", text)
			}
			params = append(params, param)
		}
		overloads = append(overloads, newOverload(params))
	}
	return overloads, nil
}

// parseTupleMember splits "name?: type" at its first top-level colon.
func parseTupleMember(element string) (Parameter, error) {
	idx := indexTopLevel(element, ':')
	if idx == -1 {
		return Parameter{}, errors.Newf("malformed parameter %q", element)
	}
	name := strings.TrimSpace(element[:idx])
	typeText := whitespacePattern.ReplaceAllString(strings.TrimSpace(element[idx+1:]), " ")
	if !tupleNamePattern.MatchString(name) || typeText == "" {
		return Parameter{}, errors.Newf("malformed parameter %q", element)
	}
	name, optional := strings.CutSuffix(name, "?")
	return Parameter{Name: name, Optional: optional, Text: typeText}, nil
}

// splitTopLevel splits s at every sep outside brackets and string
// literals and trims the parts. Empty parts and unbalanced brackets are
// errors.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var parts []string
	last := 0
	err := scanTopLevel(s, func(i int) {
		if s[i] == sep {
			parts = append(parts, s[last:i])
			last = i + 1
		}
	})
	if err != nil {
		return nil, err
	}
	parts = append(parts, s[last:])
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
		if parts[i] == "" {
			return nil, errors.Newf("empty element around %q", string(sep))
		}
	}
	return parts, nil
}

// indexTopLevel returns the index of the first sep outside brackets and
// string literals, or -1.
func indexTopLevel(s string, sep byte) int {
	found := -1
	_ = scanTopLevel(s, func(i int) {
		if found == -1 && s[i] == sep {
			found = i
		}
	})
	return found
}

// scanTopLevel calls visit with the index of every byte of s that is
// outside brackets and string literals. The arrow of a function type does
// not close an angle bracket.
func scanTopLevel(s string, visit func(i int)) error {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i == 0 || s[i-1] != '=' {
				depth--
			}
		default:
			if depth == 0 {
				visit(i)
			}
		}
		if depth < 0 {
			return errors.Newf("unbalanced %q", string(c))
		}
	}
	if quote != 0 {
		return errors.New("unterminated string literal")
	}
	if depth != 0 {
		return errors.New("unbalanced brackets")
	}
	return nil
}

func newOverload(params []Parameter) Overload {
	if params == nil {
		params = []Parameter{}
	}
	return Overload{
		Parameters:     params,
		TypeParameters: []TypeParameter{},
	}
}
