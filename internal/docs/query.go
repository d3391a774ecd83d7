package docs

import (
	"strings"

	"github.com/OceanicJS/Bot/internal/domain"
)

// Lookups compare names case-insensitively and return the first match.

func findByName[T any](items []T, name string, nameOf func(*T) string) (*T, bool) {
	for i := range items {
		if strings.EqualFold(nameOf(&items[i]), name) {
			return &items[i], true
		}
	}
	return nil, false
}

func (r *Root) FindClass(name string) (*Class, bool) {
	return findByName(r.Classes, name, func(c *Class) string { return c.Name })
}

func (r *Root) FindInterface(name string) (*Interface, bool) {
	return findByName(r.Interfaces, name, func(i *Interface) string { return i.Name })
}

func (r *Root) FindEnum(name string) (*Enum, bool) {
	return findByName(r.Enums, name, func(e *Enum) string { return e.Name })
}

func (r *Root) FindTypeAlias(name string) (*TypeAlias, bool) {
	return findByName(r.TypeAliases, name, func(a *TypeAlias) string { return a.Name })
}

func (r *Root) FindVariable(name string) (*Variable, bool) {
	return findByName(r.Variables, name, func(v *Variable) string { return v.Name })
}

func (r *Root) FindFunction(name string) (*Function, bool) {
	return findByName(r.Functions, name, func(f *Function) string { return f.Name })
}

func (r *Root) FindReference(name string) (*Reference, bool) {
	return findByName(r.References, name, func(ref *Reference) string { return ref.Name })
}

// Match is the result of a lookup across collections.
type Match struct {
	Kind  domain.Kind
	Value any
}

// Find searches classes, then enums, then interfaces, then type aliases.
func (r *Root) Find(name string) (Match, bool) {
	if c, ok := r.FindClass(name); ok {
		return Match{Kind: domain.KindClass, Value: c}, true
	}
	if e, ok := r.FindEnum(name); ok {
		return Match{Kind: domain.KindEnum, Value: e}, true
	}
	if i, ok := r.FindInterface(name); ok {
		return Match{Kind: domain.KindInterface, Value: i}, true
	}
	if a, ok := r.FindTypeAlias(name); ok {
		return Match{Kind: domain.KindTypeAlias, Value: a}, true
	}
	return Match{}, false
}

// FindKind looks name up in the collection named by kind.
func (r *Root) FindKind(kind domain.Kind, name string) (any, bool) {
	switch kind {
	case domain.KindClass:
		if v, ok := r.FindClass(name); ok {
			return v, true
		}
	case domain.KindInterface:
		if v, ok := r.FindInterface(name); ok {
			return v, true
		}
	case domain.KindEnum:
		if v, ok := r.FindEnum(name); ok {
			return v, true
		}
	case domain.KindTypeAlias:
		if v, ok := r.FindTypeAlias(name); ok {
			return v, true
		}
	case domain.KindVariable:
		if v, ok := r.FindVariable(name); ok {
			return v, true
		}
	case domain.KindFunction:
		if v, ok := r.FindFunction(name); ok {
			return v, true
		}
	case domain.KindReference:
		if v, ok := r.FindReference(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Class) FindProperty(name string) (*Property, bool) {
	return findByName(c.Properties, name, func(p *Property) string { return p.Name })
}

func (c *Class) FindAccessor(name string) (*Accessor, bool) {
	return findByName(c.Accessors, name, func(a *Accessor) string { return a.Name })
}

func (c *Class) FindMethod(name string) (*Method, bool) {
	return findByName(c.Methods, name, func(m *Method) string { return m.Name })
}

func (c *Class) FindEvent(name string) (*Event, bool) {
	return findByName(c.Events, name, func(e *Event) string { return e.Name })
}

func (i *Interface) FindProperty(name string) (*Property, bool) {
	return findByName(i.Properties, name, func(p *Property) string { return p.Name })
}

// Signature renders the first overload as name(a, ?b, c?): a leading ?
// marks a nullable parameter, a trailing one an optional parameter.
func Signature(name string, overloads []Overload) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	if len(overloads) > 0 {
		for i, p := range overloads[0].Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			if strings.Contains(p.Text, "null") {
				b.WriteByte('?')
			}
			b.WriteString(p.Name)
			if p.Optional {
				b.WriteByte('?')
			}
		}
	}
	b.WriteByte(')')
	return b.String()
}
