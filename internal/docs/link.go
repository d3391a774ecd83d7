package docs

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/OceanicJS/Bot/internal/domain"
)

// From this version on the docs site drops the module prefix from page
// names when the module and declaration share a name.
var flatLayoutSince = semver.MustParse("1.8.0")

var pageDirs = map[domain.Kind]string{
	domain.KindClass:     "classes",
	domain.KindInterface: "interfaces",
	domain.KindEnum:      "enums",
	domain.KindTypeAlias: "types",
}

// DocsURL returns the docs site page for a declaration, optionally pointing
// at anchor (a member name). Kinds without pages of their own link to the
// version index.
func DocsURL(site, version string, kind domain.Kind, module, name, anchor string) string {
	site = strings.TrimSuffix(site, "/")
	dir, ok := pageDirs[kind]
	if !ok {
		return fmt.Sprintf("%s/v%s#type=%s&module=%s&name=%s&otherName=%s", site, version, kind, module, name, anchor)
	}

	includeModule := true
	if v, err := semver.NewVersion(version); err == nil && !v.LessThan(flatLayoutSince) {
		includeModule = module != name
	}

	var page strings.Builder
	fmt.Fprintf(&page, "%s/v%s/%s/", site, version, dir)
	if includeModule {
		page.WriteString(strings.ReplaceAll(module, "/", "_"))
		page.WriteByte('.')
	}
	page.WriteString(strings.ReplaceAll(name, "/", "_"))
	page.WriteString(".html")
	if anchor != "" {
		page.WriteByte('#')
		page.WriteString(anchor)
	}
	return page.String()
}

var intrinsicLinks = map[string]string{
	"string":    "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/String",
	"number":    "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Number",
	"boolean":   "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Boolean",
	"any":       "https://www.typescriptlang.org/docs/handbook/2/functions.html#any",
	"void":      "https://www.typescriptlang.org/docs/handbook/2/functions.html#void",
	"undefined": "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/undefined",
	"null":      "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/null",
	"never":     "https://www.typescriptlang.org/docs/handbook/2/functions.html#never",
	"unknown":   "https://www.typescriptlang.org/docs/handbook/2/functions.html#unknown",
	"object":    "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Object",
	"symbol":    "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Symbol",
	"Buffer":    "https://nodejs.org/api/buffer.html",
	"BigInt":    "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/BigInt",
	"Date":      "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Date",
	"Promise":   "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Promise",
	"Error":     "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Error",
	"Array":     "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Array",
	"Map":       "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Map",
	"Set":       "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Set",
	"Function":  "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Function",
}

// Linker turns rendered type text into markdown with links to the pages of
// known declarations and to references for intrinsic types.
type Linker struct {
	links   map[string]string
	pattern *regexp.Regexp
}

// NewLinker indexes root. When names collide, classes win over enums,
// enums over interfaces, interfaces over type aliases, and declarations
// over intrinsics.
func NewLinker(site, version string, root *Root) *Linker {
	links := make(map[string]string)
	add := func(kind domain.Kind, module, name string) {
		if _, ok := links[name]; !ok && name != "" {
			links[name] = DocsURL(site, version, kind, module, name, "")
		}
	}
	for _, c := range root.Classes {
		add(domain.KindClass, c.Module, c.Name)
	}
	for _, e := range root.Enums {
		add(domain.KindEnum, e.Module, e.Name)
	}
	for _, i := range root.Interfaces {
		add(domain.KindInterface, i.Module, i.Name)
	}
	for _, a := range root.TypeAliases {
		add(domain.KindTypeAlias, a.Module, a.Name)
	}
	for name, url := range intrinsicLinks {
		if _, ok := links[name]; !ok {
			links[name] = url
		}
	}

	names := make([]string, 0, len(links))
	for name := range links {
		names = append(names, regexp.QuoteMeta(name))
	}
	// Longest first, so a name never shadows a longer one it prefixes.
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), cmp.Compare(a, b))
	})

	return &Linker{
		links:   links,
		pattern: regexp.MustCompile(`\b(?:` + strings.Join(names, "|") + `)\b`),
	}
}

// Link rewrites every known name in text as a markdown link in one pass and
// escapes angle brackets.
func (l *Linker) Link(text string) string {
	linked := l.pattern.ReplaceAllStringFunc(text, func(name string) string {
		return "[" + name + "](" + l.links[name] + ")"
	})
	return angleEscaper.Replace(linked)
}

var angleEscaper = strings.NewReplacer("<", `\<`, ">", `\>`)
