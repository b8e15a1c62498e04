package ontology

import (
	"fmt"

	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

// LiteralKind classifies the lexical form of an annotation value.
type LiteralKind int

const (
	// KindPlain is an untyped literal, possibly language tagged.
	KindPlain LiteralKind = iota
	// KindString is an xsd:string typed literal.
	KindString
	// KindXMLLiteral is an rdf:XMLLiteral, used for compound values.
	KindXMLLiteral
	// KindAnyURI is an xsd:anyURI literal referencing another entity.
	KindAnyURI
	// KindOther is any other datatype; the datatype IRI is kept on the literal.
	KindOther
)

// String returns the short name of the kind.
func (k LiteralKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindString:
		return "string"
	case KindXMLLiteral:
		return "xmlLiteral"
	case KindAnyURI:
		return "anyURI"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Literal is the value side of an annotation axiom.
type Literal struct {
	Value    string
	Kind     LiteralKind
	Lang     string
	Datatype IRI // only meaningful for KindOther
}

// NewLiteral creates a literal of the given kind.
func NewLiteral(value string, kind LiteralKind) Literal {
	return Literal{Value: value, Kind: kind}
}

// NewLangLiteral creates a language tagged plain literal.
func NewLangLiteral(value, lang string) Literal {
	return Literal{Value: value, Kind: KindPlain, Lang: lang}
}

// NewTypedLiteral creates a literal from its datatype IRI.
func NewTypedLiteral(value string, datatype IRI) Literal {
	kind := KindForDatatype(datatype)
	lit := Literal{Value: value, Kind: kind}
	if kind == KindOther {
		lit.Datatype = datatype
	}
	return lit
}

// KindForDatatype maps a datatype IRI to a literal kind.
func KindForDatatype(datatype IRI) LiteralKind {
	switch string(datatype) {
	case "":
		return KindPlain
	case owl.XSDString:
		return KindString
	case owl.RDFXMLLiteral:
		return KindXMLLiteral
	case owl.XSDAnyURI:
		return KindAnyURI
	case owl.RDFLangString:
		return KindPlain
	default:
		return KindOther
	}
}

// DatatypeIRI returns the datatype IRI of the literal, or "" for plain
// literals.
func (l Literal) DatatypeIRI() IRI {
	switch l.Kind {
	case KindString:
		return owl.XSDString
	case KindXMLLiteral:
		return owl.RDFXMLLiteral
	case KindAnyURI:
		return owl.XSDAnyURI
	case KindOther:
		return l.Datatype
	default:
		return ""
	}
}

// String renders the literal in a compact N-Triples like form, used in logs.
func (l Literal) String() string {
	switch {
	case l.Lang != "":
		return fmt.Sprintf("%q@%s", l.Value, l.Lang)
	case l.Kind == KindPlain:
		return fmt.Sprintf("%q", l.Value)
	default:
		return fmt.Sprintf("%q^^%s", l.Value, l.Kind)
	}
}
