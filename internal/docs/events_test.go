package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventOverloads(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Overload
	}{
		{
			name: "empty tuple",
			text: "[]",
			want: []Overload{newOverload(nil)},
		},
		{
			name: "required and optional",
			text: "[a: string, b?: number]",
			want: []Overload{newOverload([]Parameter{
				{Name: "a", Text: "string"},
				{Name: "b", Optional: true, Text: "number"},
			})},
		},
		{
			name: "union of tuples",
			text: "[guild: Guild] | [guild: Uncached, reason: string | null]",
			want: []Overload{
				newOverload([]Parameter{{Name: "guild", Text: "Guild"}}),
				newOverload([]Parameter{
					{Name: "guild", Text: "Uncached"},
					{Name: "reason", Text: "string | null"},
				}),
			},
		},
		{
			name: "generic arguments keep their commas",
			text: "[messages: Map<string, Message>]",
			want: []Overload{newOverload([]Parameter{{Name: "messages", Text: "Map<string, Message>"}})},
		},
		{
			name: "generic union keeps its pipes",
			text: "[channel: Promise<Text | Voice>, count: number]",
			want: []Overload{newOverload([]Parameter{
				{Name: "channel", Text: "Promise<Text | Voice>"},
				{Name: "count", Text: "number"},
			})},
		},
		{
			name: "array parameter",
			text: "[members: Member[], chunk: number]",
			want: []Overload{newOverload([]Parameter{
				{Name: "members", Text: "Member[]"},
				{Name: "chunk", Text: "number"},
			})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEventOverloads(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEventOverloads_Malformed(t *testing.T) {
	for _, text := range []string{
		"string",
		"[noColon]",
		"() => void",
		"[a] [b]",
		"[a: string,]",
		"[: string]",
		"[a b: string]",
		"[a: Map<string, number]",
		"[a: string] |",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := parseEventOverloads(text)
			assert.Error(t, err)
		})
	}
}

func TestParseEventOverloads_RenderedTuples(t *testing.T) {
	fnType := `{"type":"reflection","declaration":{"id":1,"name":"__type","kind":65536,"signatures":[{"id":2,"name":"__type","kind":4096,"parameters":[{"id":3,"name":"a","kind":32768,"flags":{},"type":` + strType + `},{"id":4,"name":"b","kind":32768,"flags":{},"type":` + numType + `}],"type":{"type":"intrinsic","name":"void"}}]}}`
	objType := `{"type":"reflection","declaration":{"id":5,"name":"__type","kind":65536,"children":[{"id":6,"name":"id","kind":1024,"flags":{},"type":` + strType + `},{"id":7,"name":"n","kind":1024,"flags":{"isOptional":true},"type":` + numType + `}]}}`
	keyofType := `{"type":"typeOperator","operator":"keyof","target":{"type":"reference","name":"Guild"}}`
	mapType := `{"type":"reference","name":"Map","typeArguments":[` + strType + `,{"type":"union","types":[` + strType + `,` + numType + `]}]}`
	literalType := `{"type":"literal","value":"a, b: c"}`

	member := func(name string, optional bool, element string) string {
		opt := "false"
		if optional {
			opt = "true"
		}
		return `{"type":"namedTupleMember","name":"` + name + `","isOptional":` + opt + `,"element":` + element + `}`
	}

	r, reported := newTestRenderer(nil)
	elementTypes := []string{fnType, objType, keyofType, mapType, literalType}
	names := []string{"listener", "info", "key", "cache", "label"}

	members := make([]string, len(elementTypes))
	want := make([]Parameter, len(elementTypes))
	for i, src := range elementTypes {
		members[i] = member(names[i], i == 1, src)
		want[i] = Parameter{Name: names[i], Optional: i == 1, Text: r.Render(mustType(t, src))}
	}
	tuple := `{"type":"union","types":[{"type":"tuple","elements":[` + strings.Join(members, ",") + `]},{"type":"tuple","elements":[` + member("k", false, keyofType) + `]}]}`

	text := r.Render(mustType(t, tuple))
	require.Empty(t, *reported)

	got, err := parseEventOverloads(text)
	require.NoError(t, err, text)
	require.Len(t, got, 2)
	assert.Equal(t, want, got[0].Parameters)
	assert.Equal(t, []Parameter{{Name: "k", Text: "keyof Guild"}}, got[1].Parameters)

	assert.Equal(t, "(a: string, b: number) => void", want[0].Text)
	assert.Equal(t, "{ id: string; n?: number; }", want[1].Text)
	assert.Equal(t, "keyof Guild", want[2].Text)
}

func TestSynthesizeEvents_SkipsUnparsableProperty(t *testing.T) {
	root := NewRoot()
	root.Classes = append(root.Classes, newClass("Foo", "Foo"))
	root.Interfaces = append(root.Interfaces, Interface{Name: "FooEvents", Module: "Foo", Properties: []Property{
		{Name: "broken", Text: "[a: Map<string, number]"},
		{Name: "fine", Text: "[cb: (x: string) => void]"},
	}})

	var reported []string
	synthesizeEvents(root, func(msg string) { reported = append(reported, msg) })

	events := root.Classes[0].Events
	require.Len(t, events, 1)
	assert.Equal(t, "fine", events[0].Name)
	assert.Equal(t, []Parameter{{Name: "cb", Text: "(x: string) => void"}}, events[0].Overloads[0].Parameters)
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0], "Skipping event Foo.broken")
}

func TestSynthesizeEvents(t *testing.T) {
	root := NewRoot()
	root.Classes = append(root.Classes, newClass("Foo", "Foo"))
	root.Interfaces = append(root.Interfaces,
		Interface{Name: "FooEvents", Module: "Foo", Properties: []Property{
			{Name: "bar", Comment: "Emitted on bar.", Text: "[a: string, b?: number]"},
			{Name: "ready", Text: "[]"},
			{Name: "broken", Text: "oops"},
		}},
		Interface{Name: "MissingEvents", Module: "Missing", Properties: []Property{{Name: "x", Text: "[]"}}},
		Interface{Name: "FooOptions", Module: "Foo", Properties: []Property{{Name: "y", Text: "[]"}}},
	)

	var reported []string
	synthesizeEvents(root, func(msg string) { reported = append(reported, msg) })

	events := root.Classes[0].Events
	require.Len(t, events, 2)

	bar := events[0]
	assert.Equal(t, "bar", bar.Name)
	assert.Equal(t, "FooEvents", bar.Interface)
	assert.Equal(t, "Foo", bar.Module)
	assert.Equal(t, "Emitted on bar.", bar.Comment)
	require.Len(t, bar.Overloads, 1)
	require.Len(t, bar.Overloads[0].Parameters, 2)
	assert.Equal(t, Parameter{Name: "a", Text: "string"}, bar.Overloads[0].Parameters[0])
	assert.Equal(t, Parameter{Name: "b", Optional: true, Text: "number"}, bar.Overloads[0].Parameters[1])

	ready := events[1]
	require.Len(t, ready.Overloads, 1)
	assert.Empty(t, ready.Overloads[0].Parameters)

	assert.Len(t, reported, 2)
}
