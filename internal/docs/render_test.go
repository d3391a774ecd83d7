package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/OceanicJS/Bot/internal/typedoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, src string) *typedoc.SomeType {
	t.Helper()
	var st typedoc.SomeType
	require.NoError(t, json.Unmarshal([]byte(src), &st))
	return &st
}

func newTestRenderer(names map[int]string) (*Renderer, *[]string) {
	var reported []string
	report := func(msg string) { reported = append(reported, msg) }
	table := NewNameTable(report)
	for id, name := range names {
		table.Set(id, name)
	}
	return NewRenderer(table, report), &reported
}

const (
	strType = `{"type":"intrinsic","name":"string"}`
	numType = `{"type":"intrinsic","name":"number"}`
)

func TestRender_Kinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"intrinsic", strType, "string"},
		{"array", `{"type":"array","elementType":` + strType + `}`, "string[]"},
		{"nested array", `{"type":"array","elementType":{"type":"array","elementType":{"type":"reference","name":"T"}}}`, "T[][]"},
		{"triple array", `{"type":"array","elementType":{"type":"array","elementType":{"type":"array","elementType":` + numType + `}}}`, "number[][][]"},
		{"union array", `{"type":"array","elementType":{"type":"union","types":[` + strType + `,` + numType + `]}}`, "(string | number)[]"},
		{"conditional", `{"type":"conditional","checkType":{"type":"reference","name":"T"},"extendsType":` + strType + `,"trueType":{"type":"literal","value":true},"falseType":{"type":"literal","value":false}}`, "T extends string ? true : false"},
		{"indexed access", `{"type":"indexedAccess","objectType":{"type":"reference","name":"O"},"indexType":{"type":"literal","value":"id"}}`, `O["id"]`},
		{"inferred", `{"type":"inferred","name":"U"}`, "infer U"},
		{"inferred constrained", `{"type":"inferred","name":"U","constraint":` + strType + `}`, "infer U extends string"},
		{"intersection", `{"type":"intersection","types":[{"type":"reference","name":"A"},{"type":"reference","name":"B"}]}`, "A & B"},
		{"literal null", `{"type":"literal","value":null}`, "null"},
		{"literal negative bigint", `{"type":"literal","value":{"negative":true,"value":"5"}}`, "-5"},
		{"literal string", `{"type":"literal","value":"GUILD_TEXT"}`, `"GUILD_TEXT"`},
		{"literal number", `{"type":"literal","value":3}`, "3"},
		{"mapped", `{"type":"mapped","parameter":"K","parameterType":{"type":"typeOperator","operator":"keyof","target":{"type":"reference","name":"T"}},"templateType":` + strType + `}`, "{ [K in keyof T]: string }"},
		{"mapped modifiers", `{"type":"mapped","parameter":"K","parameterType":{"type":"reference","name":"Keys"},"templateType":` + numType + `,"readonlyModifier":"+","optionalModifier":"-"}`, "{ readonly [K in Keys]-?: number }"},
		{"mapped as", `{"type":"mapped","parameter":"K","parameterType":{"type":"reference","name":"Keys"},"templateType":` + numType + `,"nameType":{"type":"reference","name":"Upper"}}`, "{ [K in Keys as Upper]: number }"},
		{"named tuple member", `{"type":"namedTupleMember","name":"a","isOptional":true,"element":` + strType + `}`, "a?: string"},
		{"optional", `{"type":"optional","elementType":` + strType + `}`, "string?"},
		{"predicate", `{"type":"predicate","name":"x","asserts":false,"targetType":` + strType + `}`, "x is string"},
		{"asserts predicate", `{"type":"predicate","name":"x","asserts":true}`, "asserts x"},
		{"query", `{"type":"query","queryType":{"type":"reference","name":"Constants"}}`, "typeof Constants"},
		{"generic reference", `{"type":"reference","name":"Map","typeArguments":[` + strType + `,` + numType + `]}`, "Map<string, number>"},
		{"rest", `{"type":"rest","elementType":{"type":"array","elementType":` + strType + `}}`, "...string[]"},
		{"template literal", `{"type":"templateLiteral","head":"<@","tail":[[` + strType + `,">"]]}`, "`<@${string}>`"},
		{"tuple", `{"type":"tuple","elements":[{"type":"namedTupleMember","name":"a","isOptional":false,"element":` + strType + `},{"type":"namedTupleMember","name":"b","isOptional":true,"element":` + numType + `}]}`, "[a: string, b?: number]"},
		{"empty tuple", `{"type":"tuple","elements":[]}`, "[]"},
		{"type operator", `{"type":"typeOperator","operator":"readonly","target":{"type":"array","elementType":` + strType + `}}`, "readonly string[]"},
		{"union", `{"type":"union","types":[` + strType + `,{"type":"literal","value":null}]}`, "string | null"},
		{"unknown with text", `{"type":"unknown","name":"import(\"x\")"}`, `import("x")`},
		{"unknown bare", `{"type":"unknown"}`, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, reported := newTestRenderer(nil)
			assert.Equal(t, tt.want, r.Render(mustType(t, tt.src)))
			assert.Empty(t, *reported)
		})
	}
}

func TestRender_MappedClauseOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "every modifier",
			src:  `{"type":"mapped","parameter":"K","parameterType":{"type":"typeOperator","operator":"keyof","target":{"type":"reference","name":"T"}},"nameType":{"type":"reference","name":"Upper"},"readonlyModifier":"-","optionalModifier":"+","templateType":{"type":"indexedAccess","objectType":{"type":"reference","name":"T"},"indexType":{"type":"reference","name":"K"}}}`,
			want: "{ -readonly [K in keyof T as Upper]?: T[K] }",
		},
		{
			name: "template is the value, not an extends clause",
			src:  `{"type":"mapped","parameter":"K","parameterType":{"type":"reference","name":"Keys"},"templateType":` + strType + `}`,
			want: "{ [K in Keys]: string }",
		},
		{
			name: "no template",
			src:  `{"type":"mapped","parameter":"K","parameterType":{"type":"reference","name":"Keys"}}`,
			want: "{ [K in Keys] }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRenderer(nil)
			out := r.Render(mustType(t, tt.src))
			assert.Equal(t, tt.want, out)
			assert.NotContains(t, out, "extends")
		})
	}
}

func TestRender_Reflection(t *testing.T) {
	r, _ := newTestRenderer(nil)

	object := `{"type":"reflection","declaration":{"id":1,"name":"__type","kind":65536,"children":[
		{"id":2,"name":"id","kind":1024,"type":` + strType + `},
		{"id":3,"name":"count","kind":1024,"flags":{"isOptional":true},"type":` + numType + `},
		{"id":4,"name":"nested","kind":1024,"children":[{"id":5,"name":"x","kind":1024,"type":` + strType + `}]}
	]}}`
	assert.Equal(t, "{ id: string; count?: number; nested: { x: string; }; }", r.Render(mustType(t, object)))

	fn := `{"type":"reflection","declaration":{"id":1,"name":"__type","kind":65536,"signatures":[
		{"id":2,"name":"__type","kind":4096,"parameters":[{"id":3,"name":"args","kind":32768,"flags":{"isRest":true},"type":{"type":"array","elementType":` + strType + `}}],"type":{"type":"intrinsic","name":"void"}}
	]}}`
	assert.Equal(t, "(...args: string[]) => void", r.Render(mustType(t, fn)))

	assert.Equal(t, "{ }", r.Render(mustType(t, `{"type":"reflection","declaration":{"id":1,"name":"__type","kind":65536}}`)))
}

func TestRender_DefaultReferenceRepair(t *testing.T) {
	r, reported := newTestRenderer(map[int]string{42: "Guild"})

	assert.Equal(t, "Guild", r.Render(mustType(t, `{"type":"reference","name":"default","target":42}`)))
	assert.Equal(t, "Guild", r.Render(mustType(t, `{"type":"reference","name":"default","id":42}`)))
	assert.Equal(t, "EventEmitter", r.Render(mustType(t, `{"type":"reference","name":"default","target":{"sourceFileName":"events.d.ts","qualifiedName":"EventEmitter"}}`)))
	assert.Empty(t, *reported)

	assert.Equal(t, "default[7]", r.Render(mustType(t, `{"type":"reference","name":"default","target":7}`)))
	assert.Len(t, *reported, 1)
}

func TestRender_UnsupportedKind(t *testing.T) {
	r, reported := newTestRenderer(nil)

	got := r.Render(mustType(t, `{"type":"brandNew","x":1}`))

	assert.Equal(t, "TODO: brandNew", got)
	require.Len(t, *reported, 1)
	assert.Contains(t, (*reported)[0], "brandNew")
}

func TestRender_NilType(t *testing.T) {
	r, _ := newTestRenderer(nil)
	assert.Equal(t, "", r.Render(nil))
	assert.Equal(t, "", r.Render(&typedoc.SomeType{}))
}

func TestRender_OutputIsBalanced(t *testing.T) {
	sources := []string{
		`{"type":"reference","name":"Promise","typeArguments":[{"type":"reference","name":"Map","typeArguments":[` + strType + `,{"type":"union","types":[` + strType + `,` + numType + `]}]}]}`,
		`{"type":"array","elementType":{"type":"reference","name":"Collection","typeArguments":[` + strType + `,{"type":"array","elementType":` + numType + `}]}}`,
		`{"type":"union","types":[{"type":"tuple","elements":[{"type":"namedTupleMember","name":"m","isOptional":false,"element":{"type":"reference","name":"Record","typeArguments":[` + strType + `,` + numType + `]}}]},{"type":"tuple","elements":[]}]}`,
		`{"type":"conditional","checkType":{"type":"reference","name":"T"},"extendsType":{"type":"reference","name":"Array","typeArguments":[{"type":"inferred","name":"U"}]},"trueType":{"type":"reference","name":"U"},"falseType":{"type":"intrinsic","name":"never"}}`,
	}

	for _, src := range sources {
		r, _ := newTestRenderer(nil)
		out := r.Render(mustType(t, src))
		assert.Equal(t, strings.Count(out, "<"), strings.Count(out, ">"), out)
		assert.Equal(t, strings.Count(out, "["), strings.Count(out, "]"), out)
	}
}
