package docs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/cockroachdb/errors"
)

// Scope selects what an autocomplete request completes.
type Scope string

const (
	ScopeVersions   Scope = "versions"
	ScopeClasses    Scope = "classes"
	ScopeInterfaces Scope = "interfaces"
	ScopeEnums      Scope = "enums"
	ScopeTypes      Scope = "types"
	ScopeEvents     Scope = "events"
	ScopeProperties Scope = "properties"
	ScopeMethods    Scope = "methods"
)

var scopes = []Scope{
	ScopeVersions, ScopeClasses, ScopeInterfaces, ScopeEnums,
	ScopeTypes, ScopeEvents, ScopeProperties, ScopeMethods,
}

// ParseScope accepts a scope name case-insensitively.
func ParseScope(s string) (Scope, error) {
	want := Scope(strings.ToLower(strings.TrimSpace(s)))
	for _, scope := range scopes {
		if scope == want {
			return scope, nil
		}
	}
	names := make([]string, len(scopes))
	for i, scope := range scopes {
		names[i] = string(scope)
	}
	return "", errors.WithHint(
		errors.Newf("unknown scope %q", s),
		"Scope must be one of "+strings.Join(names, ", ")+".",
	)
}

// AutocompleteRequest describes one partial input to complete.
type AutocompleteRequest struct {
	Version string
	Scope   Scope
	Query   string
	// Parent names the class (or, for properties, the interface) whose
	// members are completed.
	Parent     string
	ParentKind domain.Kind
	// Filter limits class completions to classes with members of a kind.
	Filter domain.MemberKind
}

// Autocomplete ranks the candidates of req against its query. The result
// never holds more than domain.MaxChoices entries.
func (s *Service) Autocomplete(ctx context.Context, req AutocompleteRequest) ([]domain.Choice, error) {
	if req.Scope == ScopeVersions {
		versions := s.catalog.Versions()
		return completeCached(s, string(ScopeVersions), strings.Join(versions, ","), req.Query, func() (*Searcher[domain.Choice], error) {
			return newChoiceSearcher(toChoices(versions))
		})
	}

	version := s.ResolveVersion(req.Version)
	root, err := s.Load(ctx, version)
	if err != nil {
		return nil, err
	}

	key := strings.Join([]string{version, string(req.Scope), string(req.Filter), string(req.ParentKind), strings.ToLower(req.Parent)}, "|")
	return completeCached(s, key, "", req.Query, func() (*Searcher[domain.Choice], error) {
		candidates, err := candidates(root, version, req)
		if err != nil {
			return nil, err
		}
		return newChoiceSearcher(candidates)
	})
}

// completeCached ranks the choices of the searcher cached under key. When a
// concurrent replacement closes that searcher first, the query runs against a
// freshly built one that is not cached.
func completeCached(s *Service, key, stamp, query string, build func() (*Searcher[domain.Choice], error)) ([]domain.Choice, error) {
	searcher, err := cachedSearcher(s, key, stamp, build)
	if err != nil {
		return nil, err
	}
	choices, err := SearchChoices(searcher, query, identity)
	if !errors.Is(err, ErrSearcherClosed) {
		return choices, err
	}

	searcher, err = build()
	if err != nil {
		return nil, err
	}
	defer func() { _ = searcher.Close() }()
	return SearchChoices(searcher, query, identity)
}

func candidates(root *Root, version string, req AutocompleteRequest) ([]domain.Choice, error) {
	switch req.Scope {
	case ScopeClasses:
		out := make([]domain.Choice, 0, len(root.Classes))
		for _, c := range root.Classes {
			if hasMembers(&c, req.Filter) {
				out = append(out, domain.NewChoice(c.Name))
			}
		}
		return out, nil

	case ScopeInterfaces:
		out := make([]domain.Choice, 0, len(root.Interfaces))
		for _, i := range root.Interfaces {
			out = append(out, domain.NewChoice(i.Name))
		}
		return out, nil

	case ScopeEnums:
		out := make([]domain.Choice, 0, len(root.Enums))
		for _, e := range root.Enums {
			out = append(out, domain.NewChoice(e.Name))
		}
		return out, nil

	case ScopeTypes:
		out := make([]domain.Choice, 0, len(root.Interfaces)+len(root.TypeAliases))
		for _, i := range root.Interfaces {
			out = append(out, domain.NewChoice(i.Name))
		}
		for _, a := range root.TypeAliases {
			out = append(out, domain.NewChoice(a.Name))
		}
		return out, nil

	case ScopeEvents:
		class, err := parentClass(root, version, req.Parent)
		if err != nil {
			return nil, err
		}
		if len(class.Events) == 0 {
			return nil, noMembers(version, "events", class.Name)
		}
		out := make([]domain.Choice, 0, len(class.Events))
		for _, e := range class.Events {
			out = append(out, domain.Choice{Name: Signature(e.Name, e.Overloads), Value: e.Name})
		}
		return out, nil

	case ScopeMethods:
		class, err := parentClass(root, version, req.Parent)
		if err != nil {
			return nil, err
		}
		if len(class.Methods) == 0 {
			return nil, noMembers(version, "methods", class.Name)
		}
		out := make([]domain.Choice, 0, len(class.Methods))
		for _, m := range class.Methods {
			out = append(out, domain.Choice{Name: Signature(m.Name, m.Overloads), Value: m.Name})
		}
		return out, nil

	case ScopeProperties:
		props, owner, err := parentProperties(root, version, req)
		if err != nil {
			return nil, err
		}
		if len(props) == 0 {
			return nil, noMembers(version, "properties", owner)
		}
		out := make([]domain.Choice, 0, len(props))
		for _, p := range props {
			out = append(out, domain.NewChoice(p.Name))
		}
		return out, nil
	}
	return nil, errors.WithHint(
		errors.Newf("unsupported scope %q", req.Scope),
		"That kind of completion is not supported.",
	)
}

func hasMembers(c *Class, filter domain.MemberKind) bool {
	switch filter {
	case domain.MemberEvent:
		return len(c.Events) > 0
	case domain.MemberProperty:
		return len(c.Properties) > 0
	case domain.MemberMethod:
		return len(c.Methods) > 0
	case domain.MemberAccessor:
		return len(c.Accessors) > 0
	}
	return true
}

func parentClass(root *Root, version, name string) (*Class, error) {
	class, ok := root.FindClass(name)
	if !ok {
		return nil, notFound(version, "class %s", name)
	}
	return class, nil
}

// parentProperties resolves the property owner. Without an explicit parent
// kind classes are tried before interfaces.
func parentProperties(root *Root, version string, req AutocompleteRequest) ([]Property, string, error) {
	if req.ParentKind != domain.KindInterface {
		if class, ok := root.FindClass(req.Parent); ok {
			return class.Properties, class.Name, nil
		}
		if req.ParentKind == domain.KindClass {
			return nil, "", notFound(version, "class %s", req.Parent)
		}
	}
	iface, ok := root.FindInterface(req.Parent)
	if !ok {
		return nil, "", notFound(version, "class or interface %s", req.Parent)
	}
	return iface.Properties, iface.Name, nil
}

func noMembers(version, what, owner string) error {
	return errors.WithHint(
		errors.Wrapf(domain.ErrNotFound, "%s has no %s in %s", owner, what, version),
		fmt.Sprintf("%s has no %s.", owner, what),
	)
}

func newChoiceSearcher(choices []domain.Choice) (*Searcher[domain.Choice], error) {
	return NewSearcher(choices, Field[domain.Choice]{
		Path:   domain.FieldName,
		Values: func(c domain.Choice) []string { return []string{c.Value} },
	})
}

func toChoices(names []string) []domain.Choice {
	out := make([]domain.Choice, len(names))
	for i, name := range names {
		out[i] = domain.NewChoice(name)
	}
	return out
}

func identity(c domain.Choice) domain.Choice { return c }

// cachedSearch is a searcher together with the stamp of the inputs it was
// built from.
type cachedSearch struct {
	stamp    string
	searcher io.Closer
}

// cachedSearcher returns the searcher stored under key. A missing entry, or
// one built for another stamp, is built without holding the service lock and
// replaces the stored one, which is closed. When two builds for the same
// stamp race, the first one stored wins.
func cachedSearcher[T any](s *Service, key, stamp string, build func() (*Searcher[T], error)) (*Searcher[T], error) {
	s.mu.Lock()
	searcher, ok := storedSearcher[T](s.searchers[key], stamp)
	s.mu.Unlock()
	if ok {
		return searcher, nil
	}

	built, err := build()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if searcher, ok := storedSearcher[T](s.searchers[key], stamp); ok {
		s.mu.Unlock()
		_ = built.Close()
		return searcher, nil
	}
	old := s.searchers[key].searcher
	s.searchers[key] = cachedSearch{stamp: stamp, searcher: built}
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return built, nil
}

func storedSearcher[T any](entry cachedSearch, stamp string) (*Searcher[T], bool) {
	if entry.stamp != stamp {
		return nil, false
	}
	searcher, ok := entry.searcher.(*Searcher[T])
	return searcher, ok
}

// SearchResult holds the classes and members matching a search.
type SearchResult struct {
	Classes []domain.Choice `json:"classes"`
	Members []domain.Choice `json:"members"`
}

type memberRef struct {
	Class string
	Kind  domain.MemberKind
	Name  string
}

// Search matches q against class names and the names of class members.
func (s *Service) Search(ctx context.Context, version, q string) (SearchResult, error) {
	version = s.ResolveVersion(version)
	root, err := s.Load(ctx, version)
	if err != nil {
		return SearchResult{}, err
	}

	classes, err := cachedSearcher(s, version+"|search|classes", "", func() (*Searcher[Class], error) {
		return NewSearcher(root.Classes, classSearchFields()...)
	})
	if err != nil {
		return SearchResult{}, err
	}
	members, err := cachedSearcher(s, version+"|search|members", "", func() (*Searcher[memberRef], error) {
		return NewSearcher(classMembers(root), Field[memberRef]{
			Path:   domain.FieldName,
			Values: func(m memberRef) []string { return []string{m.Name} },
		})
	})
	if err != nil {
		return SearchResult{}, err
	}

	var result SearchResult
	result.Classes, err = SearchChoices(classes, q, func(c Class) domain.Choice { return domain.NewChoice(c.Name) })
	if err != nil {
		return SearchResult{}, err
	}
	result.Members, err = SearchChoices(members, q, func(m memberRef) domain.Choice {
		return domain.Choice{
			Name:  fmt.Sprintf("%s#%s (%s)", m.Class, m.Name, m.Kind),
			Value: m.Class + "#" + m.Name,
		}
	})
	if err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

func classSearchFields() []Field[Class] {
	names := func(n int, name func(int) string) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = name(i)
		}
		return out
	}
	return []Field[Class]{
		{Path: domain.FieldName, Values: func(c Class) []string { return []string{c.Name} }},
		{Path: domain.FieldPropertyName, Values: func(c Class) []string {
			return names(len(c.Properties), func(i int) string { return c.Properties[i].Name })
		}},
		{Path: domain.FieldAccessorName, Values: func(c Class) []string {
			return names(len(c.Accessors), func(i int) string { return c.Accessors[i].Name })
		}},
		{Path: domain.FieldMethodName, Values: func(c Class) []string {
			return names(len(c.Methods), func(i int) string { return c.Methods[i].Name })
		}},
	}
}

func classMembers(root *Root) []memberRef {
	var out []memberRef
	for _, c := range root.Classes {
		for _, p := range c.Properties {
			out = append(out, memberRef{Class: c.Name, Kind: domain.MemberProperty, Name: p.Name})
		}
		for _, a := range c.Accessors {
			out = append(out, memberRef{Class: c.Name, Kind: domain.MemberAccessor, Name: a.Name})
		}
		for _, m := range c.Methods {
			out = append(out, memberRef{Class: c.Name, Kind: domain.MemberMethod, Name: m.Name})
		}
	}
	return out
}
