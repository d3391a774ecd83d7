package docs

import (
	"log/slog"
	"strings"

	"github.com/OceanicJS/Bot/internal/typedoc"
)

// Renderer turns type nodes back into TypeScript-like type text.
// Rendering never fails: unsupported nodes render as "TODO: <kind>" and
// are reported.
type Renderer struct {
	names  *NameTable
	report func(string)
}

// NewRenderer returns a renderer resolving "default" references through
// names. A nil report logs instead.
func NewRenderer(names *NameTable, report func(string)) *Renderer {
	if report == nil {
		report = func(msg string) { slog.Warn(msg) }
	}
	return &Renderer{names: names, report: report}
}

// Render returns the text of t, or "" when t is absent.
func (r *Renderer) Render(t *typedoc.SomeType) string {
	if t == nil || t.Type == nil {
		return ""
	}
	return r.render(t.Type)
}

func (r *Renderer) render(node typedoc.Type) string {
	switch n := node.(type) {
	case *typedoc.ArrayType:
		depth := 1
		elem := n.ElementType
		for elem != nil {
			inner, ok := elem.Type.(*typedoc.ArrayType)
			if !ok {
				break
			}
			depth++
			elem = inner.ElementType
		}
		return r.arrayElement(elem) + strings.Repeat("[]", depth)
	case *typedoc.ConditionalType:
		return r.Render(n.CheckType) + " extends " + r.Render(n.ExtendsType) +
			" ? " + r.Render(n.TrueType) + " : " + r.Render(n.FalseType)
	case *typedoc.IndexedAccessType:
		return r.Render(n.ObjectType) + "[" + r.Render(n.IndexType) + "]"
	case *typedoc.InferredType:
		if n.Constraint != nil {
			return "infer " + n.Name + " extends " + r.Render(n.Constraint)
		}
		return "infer " + n.Name
	case *typedoc.IntersectionType:
		return r.join(n.Types, " & ")
	case *typedoc.IntrinsicType:
		return n.Name
	case *typedoc.LiteralType:
		return n.Text()
	case *typedoc.MappedType:
		return r.mapped(n)
	case *typedoc.NamedTupleMemberType:
		if n.IsOptional {
			return n.Name + "?: " + r.Render(n.Element)
		}
		return n.Name + ": " + r.Render(n.Element)
	case *typedoc.OptionalType:
		return r.Render(n.ElementType) + "?"
	case *typedoc.PredicateType:
		switch {
		case n.Asserts && n.TargetType != nil:
			return "asserts " + n.Name + " is " + r.Render(n.TargetType)
		case n.Asserts:
			return "asserts " + n.Name
		case n.TargetType != nil:
			return n.Name + " is " + r.Render(n.TargetType)
		}
		return n.Name
	case *typedoc.QueryType:
		return "typeof " + r.Render(n.QueryType)
	case *typedoc.ReferenceType:
		return r.reference(n)
	case *typedoc.ReflectionType:
		return r.declaration(n.Declaration)
	case *typedoc.RestType:
		return "..." + r.Render(n.ElementType)
	case *typedoc.TemplateLiteralType:
		var sb strings.Builder
		sb.WriteString("`")
		sb.WriteString(n.Head)
		for _, span := range n.Tail {
			sb.WriteString("${")
			sb.WriteString(r.Render(span.Type))
			sb.WriteString("}")
			sb.WriteString(span.Text)
		}
		sb.WriteString("`")
		return sb.String()
	case *typedoc.TupleType:
		return "[" + r.join(n.Elements, ", ") + "]"
	case *typedoc.TypeOperatorType:
		return n.Operator + " " + r.Render(n.Target)
	case *typedoc.UnionType:
		return r.join(n.Types, " | ")
	case *typedoc.UnknownType:
		if n.Name != "" {
			return n.Name
		}
		return "unknown"
	case *typedoc.UnsupportedType:
		r.report("Unsupported type kind: " + n.Tag)
		return "TODO: " + n.Tag
	default:
		r.report("Unhandled type kind: " + string(node.Kind()))
		return "TODO: " + string(node.Kind())
	}
}

// arrayElement parenthesizes element types that would otherwise bind
// looser than the [] suffix.
func (r *Renderer) arrayElement(elem *typedoc.SomeType) string {
	text := r.Render(elem)
	if elem == nil {
		return text
	}
	switch elem.Type.(type) {
	case *typedoc.UnionType, *typedoc.IntersectionType, *typedoc.ConditionalType, *typedoc.TypeOperatorType:
		return "(" + text + ")"
	}
	return text
}

func (r *Renderer) join(types []*typedoc.SomeType, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = r.Render(t)
	}
	return strings.Join(parts, sep)
}

func (r *Renderer) reference(n *typedoc.ReferenceType) string {
	name := n.Name
	if name == "default" {
		if n.ID != nil {
			name = r.names.Get(*n.ID)
		} else if qualified, ok := n.TargetQualifiedName(); ok {
			name = qualified
		} else if id, ok := n.TargetID(); ok {
			name = r.names.Get(id)
		}
	}
	if len(n.TypeArguments) == 0 {
		return name
	}
	return name + "<" + r.join(n.TypeArguments, ", ") + ">"
}

func (r *Renderer) mapped(n *typedoc.MappedType) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	switch n.ReadonlyModifier {
	case "+":
		sb.WriteString("readonly ")
	case "-":
		sb.WriteString("-readonly ")
	}
	sb.WriteString("[")
	sb.WriteString(n.Parameter)
	sb.WriteString(" in ")
	sb.WriteString(r.Render(n.ParameterType))
	if n.NameType != nil {
		sb.WriteString(" as ")
		sb.WriteString(r.Render(n.NameType))
	}
	sb.WriteString("]")
	switch n.OptionalModifier {
	case "+":
		sb.WriteString("?")
	case "-":
		sb.WriteString("-?")
	}
	// the template is the value type; there is no trailing extends clause
	if n.TemplateType != nil {
		sb.WriteString(": ")
		sb.WriteString(r.Render(n.TemplateType))
	}
	sb.WriteString(" }")
	return sb.String()
}

// declaration renders an anonymous object type from its members. A type
// literal with call signatures and no members renders as a function type.
func (r *Renderer) declaration(decl *typedoc.Declaration) string {
	if decl == nil {
		return "{ }"
	}
	if len(decl.Children) == 0 && len(decl.Signatures) > 0 {
		parts := make([]string, len(decl.Signatures))
		for i, sig := range decl.Signatures {
			parts[i] = r.signature(sig)
		}
		return strings.Join(parts, " & ")
	}

	var sb strings.Builder
	sb.WriteString("{ ")
	for _, child := range decl.Children {
		sb.WriteString(child.Name)
		if child.Flags.IsOptional {
			sb.WriteString("?")
		}
		sb.WriteString(": ")
		switch {
		case child.Type != nil:
			sb.WriteString(r.Render(child.Type))
		case len(child.Children) == 0 && len(child.Signatures) > 0:
			sb.WriteString(r.signature(child.Signatures[0]))
		default:
			sb.WriteString(r.declaration(child))
		}
		sb.WriteString("; ")
	}
	sb.WriteString("}")
	return sb.String()
}

func (r *Renderer) signature(sig *typedoc.Signature) string {
	params := make([]string, len(sig.Parameters))
	for i, p := range sig.Parameters {
		var sb strings.Builder
		if p.Flags.IsRest {
			sb.WriteString("...")
		}
		sb.WriteString(p.Name)
		if p.Flags.IsOptional {
			sb.WriteString("?")
		}
		sb.WriteString(": ")
		sb.WriteString(r.Render(p.Type))
		params[i] = sb.String()
	}
	ret := r.Render(sig.Type)
	if ret == "" {
		ret = "void"
	}
	return "(" + strings.Join(params, ", ") + ") => " + ret
}
