package typedoc

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// TypeKind is the "type" discriminator of a type node.
type TypeKind string

// Type node discriminators.
const (
	TypeArray            TypeKind = "array"
	TypeConditional      TypeKind = "conditional"
	TypeIndexedAccess    TypeKind = "indexedAccess"
	TypeInferred         TypeKind = "inferred"
	TypeIntersection     TypeKind = "intersection"
	TypeIntrinsic        TypeKind = "intrinsic"
	TypeLiteral          TypeKind = "literal"
	TypeMapped           TypeKind = "mapped"
	TypeNamedTupleMember TypeKind = "namedTupleMember"
	TypeOptional         TypeKind = "optional"
	TypePredicate        TypeKind = "predicate"
	TypeQuery            TypeKind = "query"
	TypeReference        TypeKind = "reference"
	TypeReflection       TypeKind = "reflection"
	TypeRest             TypeKind = "rest"
	TypeTemplateLiteral  TypeKind = "templateLiteral"
	TypeTuple            TypeKind = "tuple"
	TypeTypeOperator     TypeKind = "typeOperator"
	TypeUnion            TypeKind = "union"
	TypeUnknown          TypeKind = "unknown"
)

// KnownTypeKinds lists every discriminator with a concrete node type.
var KnownTypeKinds = []TypeKind{
	TypeArray, TypeConditional, TypeIndexedAccess, TypeInferred, TypeIntersection,
	TypeIntrinsic, TypeLiteral, TypeMapped, TypeNamedTupleMember, TypeOptional,
	TypePredicate, TypeQuery, TypeReference, TypeReflection, TypeRest,
	TypeTemplateLiteral, TypeTuple, TypeTypeOperator, TypeUnion, TypeUnknown,
}

// Type is one node of a type expression. The set of implementations is
// closed; anything TypeDoc emits that is not modelled decodes to
// *UnsupportedType.
type Type interface {
	Kind() TypeKind
	sealed()
}

// SomeType holds a decoded Type. It exists so struct fields can be decoded
// from the discriminated JSON form.
type SomeType struct {
	Type
}

// UnmarshalJSON picks the concrete node from the "type" discriminator.
func (t *SomeType) UnmarshalJSON(data []byte) error {
	var head struct {
		Type TypeKind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return errors.Wrap(err, "failed to read type discriminator")
	}

	var node Type
	switch head.Type {
	case TypeArray:
		node = &ArrayType{}
	case TypeConditional:
		node = &ConditionalType{}
	case TypeIndexedAccess:
		node = &IndexedAccessType{}
	case TypeInferred:
		node = &InferredType{}
	case TypeIntersection:
		node = &IntersectionType{}
	case TypeIntrinsic:
		node = &IntrinsicType{}
	case TypeLiteral:
		node = &LiteralType{}
	case TypeMapped:
		node = &MappedType{}
	case TypeNamedTupleMember:
		node = &NamedTupleMemberType{}
	case TypeOptional:
		node = &OptionalType{}
	case TypePredicate:
		node = &PredicateType{}
	case TypeQuery:
		node = &QueryType{}
	case TypeReference:
		node = &ReferenceType{}
	case TypeReflection:
		node = &ReflectionType{}
	case TypeRest:
		node = &RestType{}
	case TypeTemplateLiteral:
		node = &TemplateLiteralType{}
	case TypeTuple:
		node = &TupleType{}
	case TypeTypeOperator:
		node = &TypeOperatorType{}
	case TypeUnion:
		node = &UnionType{}
	case TypeUnknown:
		node = &UnknownType{}
	default:
		t.Type = &UnsupportedType{Tag: string(head.Type), Raw: bytes.Clone(data)}
		return nil
	}

	if err := json.Unmarshal(data, node); err != nil {
		return errors.Wrapf(err, "failed to decode %s type", head.Type)
	}
	t.Type = node
	return nil
}

type ArrayType struct {
	ElementType *SomeType `json:"elementType"`
}

type ConditionalType struct {
	CheckType   *SomeType `json:"checkType"`
	ExtendsType *SomeType `json:"extendsType"`
	TrueType    *SomeType `json:"trueType"`
	FalseType   *SomeType `json:"falseType"`
}

type IndexedAccessType struct {
	ObjectType *SomeType `json:"objectType"`
	IndexType  *SomeType `json:"indexType"`
}

type InferredType struct {
	Name       string    `json:"name"`
	Constraint *SomeType `json:"constraint"`
}

type IntersectionType struct {
	Types []*SomeType `json:"types"`
}

type IntrinsicType struct {
	Name string `json:"name"`
}

// LiteralType holds a literal value: string, number, boolean, null, or a
// bigint object of the form {"negative": bool, "value": string}.
type LiteralType struct {
	Value json.RawMessage `json:"value"`
}

// Text renders the literal value.
func (l *LiteralType) Text() string {
	raw := bytes.TrimSpace(l.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "null"
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return `"` + s + `"`
		}
	case '{':
		var big struct {
			Negative bool   `json:"negative"`
			Value    string `json:"value"`
		}
		if err := json.Unmarshal(raw, &big); err == nil {
			if big.Negative {
				return "-" + big.Value
			}
			return big.Value
		}
	}
	return string(raw)
}

// MappedType is `{ [K in C]: T }`. Modifiers are "+", "-" or empty.
type MappedType struct {
	Parameter        string    `json:"parameter"`
	ParameterType    *SomeType `json:"parameterType"`
	TemplateType     *SomeType `json:"templateType"`
	ReadonlyModifier string    `json:"readonlyModifier"`
	OptionalModifier string    `json:"optionalModifier"`
	NameType         *SomeType `json:"nameType"`
}

type NamedTupleMemberType struct {
	Name       string    `json:"name"`
	IsOptional bool      `json:"isOptional"`
	Element    *SomeType `json:"element"`
}

type OptionalType struct {
	ElementType *SomeType `json:"elementType"`
}

type PredicateType struct {
	Name       string    `json:"name"`
	Asserts    bool      `json:"asserts"`
	TargetType *SomeType `json:"targetType"`
}

type QueryType struct {
	QueryType *SomeType `json:"queryType"`
}

// ReferenceType names another declaration. Target is either a reflection ID
// or an object describing a symbol outside the project.
type ReferenceType struct {
	Name          string          `json:"name"`
	ID            *int            `json:"id"`
	Target        json.RawMessage `json:"target"`
	TypeArguments []*SomeType     `json:"typeArguments"`
	QualifiedName string          `json:"qualifiedName"`
	Package       string          `json:"package"`
}

// TargetID returns the numeric target, if the target is a reflection ID.
func (r *ReferenceType) TargetID() (int, bool) {
	raw := bytes.TrimSpace(r.Target)
	if len(raw) == 0 || raw[0] == '{' {
		return 0, false
	}
	var id int
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, false
	}
	return id, true
}

// TargetQualifiedName returns the qualified name of an object target.
func (r *ReferenceType) TargetQualifiedName() (string, bool) {
	raw := bytes.TrimSpace(r.Target)
	if len(raw) == 0 || raw[0] != '{' {
		return "", false
	}
	var obj struct {
		QualifiedName string `json:"qualifiedName"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.QualifiedName == "" {
		return "", false
	}
	return obj.QualifiedName, true
}

type ReflectionType struct {
	Declaration *Declaration `json:"declaration"`
}

type RestType struct {
	ElementType *SomeType `json:"elementType"`
}

// TemplateSpan is one `${Type}text` segment of a template literal.
type TemplateSpan struct {
	Type *SomeType
	Text string
}

// UnmarshalJSON decodes the [type, text] tuple form.
func (s *TemplateSpan) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "template span is not a tuple")
	}
	if len(pair) != 2 {
		return errors.Newf("template span has %d elements, want 2", len(pair))
	}
	s.Type = &SomeType{}
	if err := json.Unmarshal(pair[0], s.Type); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &s.Text)
}

type TemplateLiteralType struct {
	Head string         `json:"head"`
	Tail []TemplateSpan `json:"tail"`
}

type TupleType struct {
	Elements []*SomeType `json:"elements"`
}

type TypeOperatorType struct {
	Operator string    `json:"operator"`
	Target   *SomeType `json:"target"`
}

type UnionType struct {
	Types []*SomeType `json:"types"`
}

// UnknownType carries type text TypeDoc could not convert.
type UnknownType struct {
	Name string `json:"name"`
}

// UnsupportedType is any node whose discriminator is not modelled.
type UnsupportedType struct {
	Tag string
	Raw json.RawMessage
}

func (*ArrayType) Kind() TypeKind            { return TypeArray }
func (*ConditionalType) Kind() TypeKind      { return TypeConditional }
func (*IndexedAccessType) Kind() TypeKind    { return TypeIndexedAccess }
func (*InferredType) Kind() TypeKind         { return TypeInferred }
func (*IntersectionType) Kind() TypeKind     { return TypeIntersection }
func (*IntrinsicType) Kind() TypeKind        { return TypeIntrinsic }
func (*LiteralType) Kind() TypeKind          { return TypeLiteral }
func (*MappedType) Kind() TypeKind           { return TypeMapped }
func (*NamedTupleMemberType) Kind() TypeKind { return TypeNamedTupleMember }
func (*OptionalType) Kind() TypeKind         { return TypeOptional }
func (*PredicateType) Kind() TypeKind        { return TypePredicate }
func (*QueryType) Kind() TypeKind            { return TypeQuery }
func (*ReferenceType) Kind() TypeKind        { return TypeReference }
func (*ReflectionType) Kind() TypeKind       { return TypeReflection }
func (*RestType) Kind() TypeKind             { return TypeRest }
func (*TemplateLiteralType) Kind() TypeKind  { return TypeTemplateLiteral }
func (*TupleType) Kind() TypeKind            { return TypeTuple }
func (*TypeOperatorType) Kind() TypeKind     { return TypeTypeOperator }
func (*UnionType) Kind() TypeKind            { return TypeUnion }
func (*UnknownType) Kind() TypeKind          { return TypeUnknown }
func (u *UnsupportedType) Kind() TypeKind    { return TypeKind(u.Tag) }

func (*ArrayType) sealed()            {}
func (*ConditionalType) sealed()      {}
func (*IndexedAccessType) sealed()    {}
func (*InferredType) sealed()         {}
func (*IntersectionType) sealed()     {}
func (*IntrinsicType) sealed()        {}
func (*LiteralType) sealed()          {}
func (*MappedType) sealed()           {}
func (*NamedTupleMemberType) sealed() {}
func (*OptionalType) sealed()         {}
func (*PredicateType) sealed()        {}
func (*QueryType) sealed()            {}
func (*ReferenceType) sealed()        {}
func (*ReflectionType) sealed()       {}
func (*RestType) sealed()             {}
func (*TemplateLiteralType) sealed()  {}
func (*TupleType) sealed()            {}
func (*TypeOperatorType) sealed()     {}
func (*UnionType) sealed()            {}
func (*UnknownType) sealed()          {}
func (*UnsupportedType) sealed()      {}
