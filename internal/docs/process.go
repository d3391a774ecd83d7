package docs

import (
	"fmt"

	"github.com/OceanicJS/Bot/internal/typedoc"
	"github.com/cockroachdb/errors"
)

// Processors convert one reflection into one record. Structurally
// incomplete reflections are reported and return ok=false; the caller omits
// them and carries on.

func (r *ingestRun) skip(kind typedoc.ReflectionKind, name string, id int, reason string) {
	r.report(fmt.Sprintf("Skipping %s: %s", typedoc.Describe(kind, name, id), reason))
}

func newClass(name, module string) Class {
	return Class{
		Accessors:      []Accessor{},
		Constructor:    Constructor{Parameters: []Parameter{}},
		Events:         []Event{},
		Methods:        []Method{},
		Module:         module,
		Name:           name,
		Properties:     []Property{},
		TypeParameters: []TypeParameter{},
	}
}

func (r *ingestRun) class(decl *typedoc.Declaration, module string) Class {
	class := newClass(decl.Name, module)
	class.Abstract = decl.Flags.IsAbstract
	class.Comment = decl.Comment.String()
	if len(decl.ExtendedTypes) > 0 {
		class.Extends = r.renderer.Render(decl.ExtendedTypes[0])
	}
	class.TypeParameters = r.typeParameters(decl.TypeParams())

	for _, child := range decl.Children {
		switch child.Kind {
		case typedoc.KindConstructor:
			if ctor, ok := r.constructor(child); ok {
				class.Constructor = ctor
			}
		case typedoc.KindProperty:
			if prop, ok := r.property(child); ok {
				class.Properties = append(class.Properties, prop)
			}
		case typedoc.KindAccessor:
			if acc, ok := r.accessor(child); ok {
				class.Accessors = append(class.Accessors, acc)
			}
		case typedoc.KindMethod:
			if method, ok := r.method(child); ok {
				class.Methods = append(class.Methods, method)
			}
		default:
			r.report(fmt.Sprintf("Unexpected child %s in class %s", typedoc.Describe(child.Kind, child.Name, child.ID), decl.Name))
		}
	}
	return class
}

// constructor uses the last constructor signature.
func (r *ingestRun) constructor(decl *typedoc.Declaration) (Constructor, bool) {
	sig := lastSignature(decl.Signatures, typedoc.KindConstructorSignature)
	if sig == nil {
		r.skip(decl.Kind, decl.Name, decl.ID, "no constructor signatures")
		return Constructor{}, false
	}
	return Constructor{Parameters: r.parameters(sig.Parameters)}, true
}

func (r *ingestRun) property(decl *typedoc.Declaration) (Property, bool) {
	if decl.Type == nil {
		r.skip(decl.Kind, decl.Name, decl.ID, "no type")
		return Property{}, false
	}
	return Property{
		Comment:  decl.Comment.String(),
		Name:     decl.Name,
		Optional: decl.Flags.IsOptional,
		Readonly: decl.Flags.IsReadonly,
		Static:   decl.Flags.IsStatic,
		Text:     r.renderer.Render(decl.Type),
	}, true
}

func (r *ingestRun) accessor(decl *typedoc.Declaration) (Accessor, bool) {
	if decl.GetSignature == nil || decl.GetSignature.Type == nil {
		r.skip(decl.Kind, decl.Name, decl.ID, "no getter with a return type")
		return Accessor{}, false
	}
	comment := decl.Comment.String()
	if comment == "" {
		comment = decl.GetSignature.Comment.String()
	}
	return Accessor{
		Comment: comment,
		Name:    decl.Name,
		Static:  decl.Flags.IsStatic,
		Text:    r.renderer.Render(decl.GetSignature.Type),
	}, true
}

// method keeps every call signature as an overload. The method comment is
// the first signature comment found.
func (r *ingestRun) method(decl *typedoc.Declaration) (Method, bool) {
	method := Method{
		Name:      decl.Name,
		Overloads: []Overload{},
		Static:    decl.Flags.IsStatic,
	}
	for _, sig := range decl.Signatures {
		if sig.Kind != typedoc.KindCallSignature {
			continue
		}
		if method.Comment == "" {
			method.Comment = sig.Comment.String()
		}
		method.Overloads = append(method.Overloads, Overload{
			Parameters:     r.parameters(sig.Parameters),
			Return:         r.renderer.Render(sig.Type),
			TypeParameters: r.typeParameters(sig.TypeParams()),
		})
	}
	if len(method.Overloads) == 0 {
		r.skip(decl.Kind, decl.Name, decl.ID, "no call signatures")
		return Method{}, false
	}
	if method.Comment == "" {
		method.Comment = decl.Comment.String()
	}
	return method, true
}

func (r *ingestRun) interfaceDecl(decl *typedoc.Declaration, module string) Interface {
	iface := Interface{
		Comment:    decl.Comment.String(),
		Module:     module,
		Name:       decl.Name,
		Properties: []Property{},
	}
	if len(decl.ExtendedTypes) > 0 {
		iface.Extends = r.renderer.Render(decl.ExtendedTypes[0])
	}
	for _, child := range decl.Children {
		switch child.Kind {
		case typedoc.KindProperty:
			if prop, ok := r.property(child); ok {
				iface.Properties = append(iface.Properties, prop)
			}
		case typedoc.KindMethod:
			// interfaces only document properties
		default:
			r.report(fmt.Sprintf("Unexpected child %s in interface %s", typedoc.Describe(child.Kind, child.Name, child.ID), decl.Name))
		}
	}
	return iface
}

func (r *ingestRun) enum(decl *typedoc.Declaration, module string) Enum {
	enum := Enum{
		Comment: decl.Comment.String(),
		Members: []EnumMember{},
		Module:  module,
		Name:    decl.Name,
	}
	for _, child := range decl.Children {
		if child.Kind != typedoc.KindEnumMember {
			r.report(fmt.Sprintf("Unexpected child %s in enum %s", typedoc.Describe(child.Kind, child.Name, child.ID), decl.Name))
			continue
		}
		if child.Type == nil {
			r.skip(child.Kind, child.Name, child.ID, "no value")
			continue
		}
		enum.Members = append(enum.Members, EnumMember{
			Comment: child.Comment.String(),
			Name:    child.Name,
			Text:    r.renderer.Render(child.Type),
		})
	}
	return enum
}

func (r *ingestRun) typeAlias(decl *typedoc.Declaration, module string) (TypeAlias, bool) {
	if decl.Type == nil {
		r.skip(decl.Kind, decl.Name, decl.ID, "no type")
		return TypeAlias{}, false
	}
	return TypeAlias{
		Comment: decl.Comment.String(),
		Module:  module,
		Name:    decl.Name,
		Text:    r.renderer.Render(decl.Type),
	}, true
}

func (r *ingestRun) variable(decl *typedoc.Declaration, module string) (Variable, bool) {
	if decl.Type == nil {
		r.skip(decl.Kind, decl.Name, decl.ID, "no type")
		return Variable{}, false
	}
	return Variable{
		Comment: decl.Comment.String(),
		Const:   decl.Flags.IsConst,
		Module:  module,
		Name:    decl.Name,
		Text:    r.renderer.Render(decl.Type),
	}, true
}

// function uses the last call signature. A function reflection without any
// call signature means the export is malformed and fails the run.
func (r *ingestRun) function(decl *typedoc.Declaration, module string) (Function, error) {
	sig := lastSignature(decl.Signatures, typedoc.KindCallSignature)
	if sig == nil {
		return Function{}, errors.Wrapf(ErrMalformedProject, "%s has no call signatures",
			typedoc.Describe(decl.Kind, decl.Name, decl.ID))
	}
	comment := decl.Comment.String()
	if comment == "" {
		comment = sig.Comment.String()
	}
	return Function{
		Comment:        comment,
		Module:         module,
		Name:           decl.Name,
		Parameters:     r.parameters(sig.Parameters),
		TypeParameters: r.typeParameters(sig.TypeParams()),
	}, nil
}

func (r *ingestRun) reference(decl *typedoc.Declaration) (Reference, bool) {
	if decl.Target == nil {
		r.skip(decl.Kind, decl.Name, decl.ID, "no target")
		return Reference{}, false
	}
	return Reference{
		Comment: decl.Comment.String(),
		Name:    decl.Name,
		Text:    r.names.Get(*decl.Target),
	}, true
}

// parameters drops untyped parameters.
func (r *ingestRun) parameters(params []*typedoc.Parameter) []Parameter {
	out := make([]Parameter, 0, len(params))
	for _, p := range params {
		if p.Type == nil {
			r.skip(p.Kind, p.Name, p.ID, "no type")
			continue
		}
		out = append(out, Parameter{
			Comment:  p.Comment.String(),
			Name:     p.Name,
			Optional: p.Flags.IsOptional,
			Text:     r.renderer.Render(p.Type),
		})
	}
	return out
}

func (r *ingestRun) typeParameters(params []*typedoc.TypeParameter) []TypeParameter {
	out := make([]TypeParameter, 0, len(params))
	for _, p := range params {
		out = append(out, TypeParameter{
			Default: r.renderer.Render(p.Default),
			Extends: r.renderer.Render(p.Type),
			Name:    p.Name,
		})
	}
	return out
}

func lastSignature(sigs []*typedoc.Signature, kind typedoc.ReflectionKind) *typedoc.Signature {
	for i := len(sigs) - 1; i >= 0; i-- {
		if sigs[i].Kind == kind {
			return sigs[i]
		}
	}
	return nil
}
