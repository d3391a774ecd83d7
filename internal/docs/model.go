package docs

// Root is the normalized documentation of one library version. It is
// written once per version and shared read-only afterwards.
type Root struct {
	Classes     []Class     `json:"classes"`
	Enums       []Enum      `json:"enums"`
	Functions   []Function  `json:"functions"`
	Interfaces  []Interface `json:"interfaces"`
	References  []Reference `json:"references"`
	TypeAliases []TypeAlias `json:"typeAliases"`
	Variables   []Variable  `json:"variables"`
}

// NewRoot returns a Root with every collection allocated, so an empty
// collection encodes as [] rather than null.
func NewRoot() *Root {
	return &Root{
		Classes:     []Class{},
		Enums:       []Enum{},
		Functions:   []Function{},
		Interfaces:  []Interface{},
		References:  []Reference{},
		TypeAliases: []TypeAlias{},
		Variables:   []Variable{},
	}
}

type Parameter struct {
	Comment  string `json:"comment,omitempty"`
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
	Text     string `json:"text"`
}

type Constructor struct {
	Parameters []Parameter `json:"parameters"`
}

type Property struct {
	Comment  string `json:"comment,omitempty"`
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
	Readonly bool   `json:"readonly"`
	Static   bool   `json:"static"`
	Text     string `json:"text"`
}

type Accessor struct {
	Comment string `json:"comment,omitempty"`
	Name    string `json:"name"`
	Static  bool   `json:"static"`
	Text    string `json:"text"`
}

type TypeParameter struct {
	Default string `json:"default,omitempty"`
	Extends string `json:"extends,omitempty"`
	Name    string `json:"name"`
}

// Overload is one call signature of a method, function or event.
type Overload struct {
	Parameters     []Parameter     `json:"parameters"`
	Return         string          `json:"return,omitempty"`
	TypeParameters []TypeParameter `json:"typeParameters"`
}

type Method struct {
	Comment   string     `json:"comment,omitempty"`
	Name      string     `json:"name"`
	Overloads []Overload `json:"overloads"`
	Static    bool       `json:"static"`
}

type Function struct {
	Comment        string          `json:"comment,omitempty"`
	Module         string          `json:"module"`
	Name           string          `json:"name"`
	Parameters     []Parameter     `json:"parameters"`
	TypeParameters []TypeParameter `json:"typeParameters"`
}

type Class struct {
	Abstract       bool            `json:"abstract"`
	Accessors      []Accessor      `json:"accessors"`
	Comment        string          `json:"comment,omitempty"`
	Constructor    Constructor     `json:"constructor"`
	Events         []Event         `json:"events"`
	Extends        string          `json:"extends,omitempty"`
	Methods        []Method        `json:"methods"`
	Module         string          `json:"module"`
	Name           string          `json:"name"`
	Properties     []Property      `json:"properties"`
	TypeParameters []TypeParameter `json:"typeParameters"`
}

// Event is synthesized from a <Class>Events interface property.
type Event struct {
	Comment   string     `json:"comment,omitempty"`
	Interface string     `json:"interface"`
	Module    string     `json:"module"`
	Name      string     `json:"name"`
	Overloads []Overload `json:"overloads"`
}

type Interface struct {
	Comment    string     `json:"comment,omitempty"`
	Extends    string     `json:"extends,omitempty"`
	Module     string     `json:"module"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

type EnumMember struct {
	Comment string `json:"comment,omitempty"`
	Name    string `json:"name"`
	Text    string `json:"text"`
}

type Enum struct {
	Comment string       `json:"comment,omitempty"`
	Members []EnumMember `json:"members"`
	Module  string       `json:"module"`
	Name    string       `json:"name"`
}

type TypeAlias struct {
	Comment string `json:"comment,omitempty"`
	Module  string `json:"module"`
	Name    string `json:"name"`
	Text    string `json:"text"`
}

type Variable struct {
	Comment string `json:"comment,omitempty"`
	Const   bool   `json:"const"`
	Module  string `json:"module"`
	Name    string `json:"name"`
	Text    string `json:"text"`
}

// Reference is a re-export: Name is the alias, Text the target name.
type Reference struct {
	Comment string `json:"comment,omitempty"`
	Name    string `json:"name"`
	Text    string `json:"text"`
}

// Counts summarizes the collection sizes of a Root.
type Counts struct {
	Classes     int `json:"classes"`
	Enums       int `json:"enums"`
	Functions   int `json:"functions"`
	Interfaces  int `json:"interfaces"`
	References  int `json:"references"`
	TypeAliases int `json:"typeAliases"`
	Variables   int `json:"variables"`
	Events      int `json:"events"`
}

func (r *Root) Counts() Counts {
	c := Counts{
		Classes:     len(r.Classes),
		Enums:       len(r.Enums),
		Functions:   len(r.Functions),
		Interfaces:  len(r.Interfaces),
		References:  len(r.References),
		TypeAliases: len(r.TypeAliases),
		Variables:   len(r.Variables),
	}
	for _, class := range r.Classes {
		c.Events += len(class.Events)
	}
	return c
}
