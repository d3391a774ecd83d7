package typedoc

import "strconv"

// ReflectionKind is the bit-flag kind TypeDoc assigns to every reflection.
type ReflectionKind int

// Reflection kinds as emitted by TypeDoc 0.23 and later.
const (
	KindProject              ReflectionKind = 0x1
	KindModule               ReflectionKind = 0x2
	KindNamespace            ReflectionKind = 0x4
	KindEnum                 ReflectionKind = 0x8
	KindEnumMember           ReflectionKind = 0x10
	KindVariable             ReflectionKind = 0x20
	KindFunction             ReflectionKind = 0x40
	KindClass                ReflectionKind = 0x80
	KindInterface            ReflectionKind = 0x100
	KindConstructor          ReflectionKind = 0x200
	KindProperty             ReflectionKind = 0x400
	KindMethod               ReflectionKind = 0x800
	KindCallSignature        ReflectionKind = 0x1000
	KindIndexSignature       ReflectionKind = 0x2000
	KindConstructorSignature ReflectionKind = 0x4000
	KindParameter            ReflectionKind = 0x8000
	KindTypeLiteral          ReflectionKind = 0x10000
	KindTypeParameter        ReflectionKind = 0x20000
	KindAccessor             ReflectionKind = 0x40000
	KindGetSignature         ReflectionKind = 0x80000
	KindSetSignature         ReflectionKind = 0x100000
	KindTypeAlias            ReflectionKind = 0x200000
	KindReference            ReflectionKind = 0x400000
)

var kindNames = map[ReflectionKind]string{
	KindProject:              "Project",
	KindModule:               "Module",
	KindNamespace:            "Namespace",
	KindEnum:                 "Enum",
	KindEnumMember:           "EnumMember",
	KindVariable:             "Variable",
	KindFunction:             "Function",
	KindClass:                "Class",
	KindInterface:            "Interface",
	KindConstructor:          "Constructor",
	KindProperty:             "Property",
	KindMethod:               "Method",
	KindCallSignature:        "CallSignature",
	KindIndexSignature:       "IndexSignature",
	KindConstructorSignature: "ConstructorSignature",
	KindParameter:            "Parameter",
	KindTypeLiteral:          "TypeLiteral",
	KindTypeParameter:        "TypeParameter",
	KindAccessor:             "Accessor",
	KindGetSignature:         "GetSignature",
	KindSetSignature:         "SetSignature",
	KindTypeAlias:            "TypeAlias",
	KindReference:            "Reference",
}

func (k ReflectionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown(" + strconv.Itoa(int(k)) + ")"
}
