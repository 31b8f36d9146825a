package dialect

import (
	"context"
)

// Canonical keyword identifiers. Dialects name these keywords
// differently; KeywordName maps an identifier to the token a dialect uses.
const (
	KeywordID       = "https://json-schema.org/keyword/id"
	KeywordAnchor   = "https://json-schema.org/keyword/anchor"
	KeywordLegacyID = "https://json-schema.org/keyword/draft-04/id"
	KeywordSchema   = "https://json-schema.org/keyword/schema"

	keywordBase = "https://json-schema.org/keyword/"
)

// Built in dialects.
const (
	Draft04     = "http://json-schema.org/draft-04/schema"
	Draft06     = "http://json-schema.org/draft-06/schema"
	Draft07     = "http://json-schema.org/draft-07/schema"
	Draft201909 = "https://json-schema.org/draft/2019-09/schema"
	Draft202012 = "https://json-schema.org/draft/2020-12/schema"
)

// Registry knows the dialects a document may be written in and how to
// validate a schema against its dialect.
type Registry interface {
	HasDialect(uri string) bool

	// KeywordName returns the token dialectURI uses for keywordID, or ""
	// when the dialect has no such keyword. It fails with
	// ErrUnknownDialect for a dialect the registry does not know.
	KeywordName(dialectURI, keywordID string) (string, error)

	// Schema looks up a schema by URI. A fragment is a JSON Pointer into
	// the document.
	Schema(ctx context.Context, uri string) (*Schema, error)

	Compile(ctx context.Context, s *Schema) (Validator, error)
}

// Schema is a (sub)schema located by URI.
type Schema struct {
	URI        string
	Pointer    string
	DialectURI string
	Value      any
}

// Validator interprets instances against one compiled schema.
type Validator interface {
	Interpret(instance any, mode OutputMode) (*Output, error)
}

type OutputMode int

const (
	// OutputFlag only reports validity.
	OutputFlag OutputMode = iota
	// OutputBasic reports every failure as a flat list.
	OutputBasic
)

func (m OutputMode) String() string {
	switch m {
	case OutputFlag:
		return "FLAG"
	case OutputBasic:
		return "BASIC"
	default:
		return "<unknown output mode>"
	}
}

type Output struct {
	Valid       bool
	Errors      []OutputUnit
	Annotations []Annotation
}

// OutputUnit is one failure. Keyword is a canonical keyword identifier.
type OutputUnit struct {
	Keyword                 string
	AbsoluteKeywordLocation string
	InstanceLocation        string
	Message                 string
}

// Annotation is a value a schema keyword attached to an instance
// location. Keyword is the keyword's token, e.g. "description".
type Annotation struct {
	Keyword          string
	DialectURI       string
	InstanceLocation string
	Value            any
}
