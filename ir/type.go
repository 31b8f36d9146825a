package ir

import (
	"fmt"

	"github.com/PermanChronicles/json-lsp-og/parse"
)

type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	ObjectType
	ArrayType
	PropertyType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		ObjectType:   "object",
		ArrayType:    "array",
		PropertyType: "property",
		StringType:   "string",
		NumberType:   "number",
		BoolType:     "boolean",
		NullType:     "null",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"null":     NullType,
		"boolean":  BoolType,
		"number":   NumberType,
		"string":   StringType,
		"array":    ArrayType,
		"object":   ObjectType,
		"property": PropertyType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func (t Type) IsLeaf() bool {
	switch t {
	case ObjectType, ArrayType, PropertyType:
		return false
	default:
		return true
	}
}

func typeOf(st parse.Type) (Type, error) {
	switch st {
	case parse.ObjectType:
		return ObjectType, nil
	case parse.ArrayType:
		return ArrayType, nil
	case parse.PropertyType:
		return PropertyType, nil
	case parse.StringType:
		return StringType, nil
	case parse.NumberType:
		return NumberType, nil
	case parse.BoolType:
		return BoolType, nil
	case parse.NullType:
		return NullType, nil
	default:
		return NullType, fmt.Errorf("syntax node of type %s has no schema node type", st)
	}
}
