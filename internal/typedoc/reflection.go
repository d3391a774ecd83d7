// Package typedoc models the JSON export produced by the TypeDoc
// documentation generator. Only the fields consumed by the docs engine are
// decoded; everything else in the export is ignored.
package typedoc

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Project is the root node of a TypeDoc export.
type Project struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Kind     ReflectionKind `json:"kind"`
	Children []*Declaration `json:"children"`
}

// Flags carries the boolean modifiers of a reflection.
type Flags struct {
	IsStatic    bool `json:"isStatic"`
	IsOptional  bool `json:"isOptional"`
	IsReadonly  bool `json:"isReadonly"`
	IsAbstract  bool `json:"isAbstract"`
	IsConst     bool `json:"isConst"`
	IsRest      bool `json:"isRest"`
	IsPrivate   bool `json:"isPrivate"`
	IsProtected bool `json:"isProtected"`
	IsExternal  bool `json:"isExternal"`
}

// CommentPart is one fragment of a comment summary.
type CommentPart struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Comment is a doc comment. ShortText and Text are the pre-0.23 layout.
type Comment struct {
	Summary   []CommentPart `json:"summary"`
	ShortText string        `json:"shortText"`
	Text      string        `json:"text"`
}

// String concatenates the summary fragments.
func (c *Comment) String() string {
	if c == nil {
		return ""
	}
	if len(c.Summary) == 0 {
		return c.ShortText
	}
	var sb strings.Builder
	for _, part := range c.Summary {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Declaration is a named declaration reflection: module, class, property,
// method, enum member and so on.
type Declaration struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Kind           ReflectionKind   `json:"kind"`
	Flags          Flags            `json:"flags"`
	Comment        *Comment         `json:"comment"`
	Children       []*Declaration   `json:"children"`
	Signatures     []*Signature     `json:"signatures"`
	GetSignature   *Signature       `json:"getSignature"`
	SetSignature   *Signature       `json:"setSignature"`
	Type           *SomeType        `json:"type"`
	ExtendedTypes  []*SomeType      `json:"extendedTypes"`
	TypeParameters []*TypeParameter `json:"typeParameters"`
	// TypeParameter is the pre-0.23 spelling of TypeParameters.
	TypeParameter []*TypeParameter `json:"typeParameter"`
	// Target is the referenced reflection ID of a Reference declaration.
	Target *int `json:"target"`
}

// TypeParams returns the declared type parameters in either spelling.
func (d *Declaration) TypeParams() []*TypeParameter {
	if len(d.TypeParameters) > 0 {
		return d.TypeParameters
	}
	return d.TypeParameter
}

// Signature is a call, constructor, get or set signature.
type Signature struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Kind           ReflectionKind   `json:"kind"`
	Flags          Flags            `json:"flags"`
	Comment        *Comment         `json:"comment"`
	Parameters     []*Parameter     `json:"parameters"`
	Type           *SomeType        `json:"type"`
	TypeParameters []*TypeParameter `json:"typeParameters"`
	TypeParameter  []*TypeParameter `json:"typeParameter"`
}

// TypeParams returns the declared type parameters in either spelling.
func (s *Signature) TypeParams() []*TypeParameter {
	if len(s.TypeParameters) > 0 {
		return s.TypeParameters
	}
	return s.TypeParameter
}

// Parameter is a signature parameter.
type Parameter struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Kind         ReflectionKind `json:"kind"`
	Flags        Flags          `json:"flags"`
	Comment      *Comment       `json:"comment"`
	Type         *SomeType      `json:"type"`
	DefaultValue string         `json:"defaultValue"`
}

// TypeParameter is a generic parameter; Type holds its constraint.
type TypeParameter struct {
	ID      int            `json:"id"`
	Name    string         `json:"name"`
	Kind    ReflectionKind `json:"kind"`
	Type    *SomeType      `json:"type"`
	Default *SomeType      `json:"default"`
}

// Describe formats a reflection for diagnostics.
func Describe(kind ReflectionKind, name string, id int) string {
	return fmt.Sprintf("%s (%d) for %s (%d)", kind, int(kind), name, id)
}

// Decode reads a TypeDoc export.
func Decode(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "failed to decode typedoc project")
	}
	return &p, nil
}
