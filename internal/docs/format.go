package docs

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// maxListed caps member name lists in declaration summaries.
const maxListed = 20

// Describe renders a lookup result as markdown with linked types.
func (s *Service) Describe(ctx context.Context, result LookupResult) (string, error) {
	linker, err := s.linker(ctx, result.Version)
	if err != nil {
		return "", err
	}
	f := formatter{link: linker.Link}

	var b strings.Builder
	switch v := result.Record.(type) {
	case *Class:
		f.class(&b, v, result.URL)
	case *Interface:
		f.header(&b, v.Name, result.URL, v.Comment)
		if v.Extends != "" {
			fmt.Fprintf(&b, "**Extends**: %s\n", f.link(v.Extends))
		}
		f.properties(&b, v.Properties)
	case *Enum:
		f.header(&b, v.Name, result.URL, v.Comment)
		for _, m := range v.Members {
			fmt.Fprintf(&b, "- `%s` = `%s`\n", m.Name, m.Text)
		}
	case *TypeAlias:
		f.header(&b, v.Name, result.URL, v.Comment)
		fmt.Fprintf(&b, "**Type**: %s\n", f.link(v.Text))
	case *Variable:
		f.header(&b, v.Name, result.URL, v.Comment)
		fmt.Fprintf(&b, "**Type**: %s\n", f.link(v.Text))
		if v.Const {
			b.WriteString("*constant*\n")
		}
	case *Function:
		f.header(&b, v.Name, result.URL, v.Comment)
		f.parameters(&b, v.Parameters)
	case *Reference:
		f.header(&b, v.Name, result.URL, v.Comment)
		fmt.Fprintf(&b, "Re-export of %s\n", f.link(v.Text))
	case *Property:
		f.header(&b, v.Name, result.URL, v.Comment)
		fmt.Fprintf(&b, "**Type**: %s\n", f.link(v.Text))
		f.flags(&b, v.Static, v.Readonly, v.Optional)
	case *Accessor:
		f.header(&b, v.Name, result.URL, v.Comment)
		fmt.Fprintf(&b, "**Type**: %s\n", f.link(v.Text))
		f.flags(&b, v.Static, false, false)
	case *Method:
		f.header(&b, Signature(v.Name, v.Overloads), result.URL, v.Comment)
		f.flags(&b, v.Static, false, false)
		f.overloads(&b, v.Overloads)
	case *Event:
		f.header(&b, Signature(v.Name, v.Overloads), result.URL, v.Comment)
		f.overloads(&b, v.Overloads)
	default:
		return "", errors.Newf("cannot describe %T", result.Record)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type formatter struct {
	link func(string) string
}

func (f formatter) header(b *strings.Builder, title, url, comment string) {
	fmt.Fprintf(b, "## [%s](%s)\n", title, url)
	if comment != "" {
		b.WriteString(comment)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

func (f formatter) class(b *strings.Builder, c *Class, url string) {
	title := c.Name
	if c.Abstract {
		title = "abstract " + title
	}
	f.header(b, title, url, c.Comment)
	if c.Extends != "" {
		fmt.Fprintf(b, "**Extends**: %s\n", f.link(c.Extends))
	}

	params := make([]string, len(c.Constructor.Parameters))
	for i, p := range c.Constructor.Parameters {
		params[i] = p.Name
		if p.Optional {
			params[i] += "?"
		}
	}
	fmt.Fprintf(b, "**Constructor**: `new %s(%s)`\n", c.Name, strings.Join(params, ", "))

	names := func(n int, name func(int) string) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = name(i)
		}
		return out
	}
	listNames(b, "Properties", names(len(c.Properties), func(i int) string { return c.Properties[i].Name }))
	listNames(b, "Accessors", names(len(c.Accessors), func(i int) string { return c.Accessors[i].Name }))
	listNames(b, "Methods", names(len(c.Methods), func(i int) string { return c.Methods[i].Name }))
	listNames(b, "Events", names(len(c.Events), func(i int) string { return c.Events[i].Name }))
}

func listNames(b *strings.Builder, label string, names []string) {
	if len(names) == 0 {
		return
	}
	shown := names
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	fmt.Fprintf(b, "**%s** (%d): `%s`", label, len(names), strings.Join(shown, "`, `"))
	if rest := len(names) - len(shown); rest > 0 {
		fmt.Fprintf(b, " and %d more", rest)
	}
	b.WriteByte('\n')
}

func (f formatter) properties(b *strings.Builder, props []Property) {
	for _, p := range props {
		name := p.Name
		if p.Optional {
			name += "?"
		}
		fmt.Fprintf(b, "- `%s`: %s\n", name, f.link(p.Text))
	}
}

func (f formatter) parameters(b *strings.Builder, params []Parameter) {
	for _, p := range params {
		name := p.Name
		if p.Optional {
			name += "?"
		}
		fmt.Fprintf(b, "- `%s`: %s", name, f.link(p.Text))
		if p.Comment != "" {
			b.WriteString(" - ")
			b.WriteString(p.Comment)
		}
		b.WriteByte('\n')
	}
}

func (f formatter) overloads(b *strings.Builder, overloads []Overload) {
	for i, o := range overloads {
		if len(overloads) > 1 {
			fmt.Fprintf(b, "**Overload %d**\n", i+1)
		}
		f.parameters(b, o.Parameters)
		if o.Return != "" {
			fmt.Fprintf(b, "**Returns**: %s\n", f.link(o.Return))
		}
	}
}

func (f formatter) flags(b *strings.Builder, static, readonly, optional bool) {
	var flags []string
	if static {
		flags = append(flags, "static")
	}
	if readonly {
		flags = append(flags, "readonly")
	}
	if optional {
		flags = append(flags, "optional")
	}
	if len(flags) > 0 {
		fmt.Fprintf(b, "*%s*\n", strings.Join(flags, ", "))
	}
}
