package domain

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind names a collection of the docs Root.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
	KindTypeAlias Kind = "typeAlias"
	KindVariable  Kind = "variable"
	KindFunction  Kind = "function"
	KindReference Kind = "reference"
)

// MemberKind names a member collection of a class or interface.
type MemberKind string

const (
	MemberProperty MemberKind = "property"
	MemberAccessor MemberKind = "accessor"
	MemberMethod   MemberKind = "method"
	MemberEvent    MemberKind = "event"
)

// Field paths searched by the fuzzy index. Paths into member collections
// match any element of the collection.
const (
	FieldName         = "name"
	FieldPropertyName = "properties.name"
	FieldAccessorName = "accessors.name"
	FieldMethodName   = "methods.name"
)

var kindAliases = map[string]Kind{
	"class":     KindClass,
	"interface": KindInterface,
	"enum":      KindEnum,
	"typealias": KindTypeAlias,
	"type":      KindTypeAlias,
	"variable":  KindVariable,
	"function":  KindFunction,
	"reference": KindReference,
}

// ParseKind accepts a kind name case-insensitively; "type" is an alias for
// typeAlias.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", errors.WithHint(
		errors.Newf("unknown kind %q", s),
		"Kind must be one of class, interface, enum, typeAlias, variable, function, reference.",
	)
}

// ParseMemberKind accepts a member kind name case-insensitively.
func ParseMemberKind(s string) (MemberKind, error) {
	switch MemberKind(strings.ToLower(strings.TrimSpace(s))) {
	case MemberProperty:
		return MemberProperty, nil
	case MemberAccessor:
		return MemberAccessor, nil
	case MemberMethod:
		return MemberMethod, nil
	case MemberEvent:
		return MemberEvent, nil
	}
	return "", errors.WithHint(
		errors.Newf("unknown member kind %q", s),
		"Member kind must be one of property, accessor, method, event.",
	)
}
