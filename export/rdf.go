// Package export serializes a scrubbed ontology graph as RDF/XML, Turtle,
// or N-Triples.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/knakk/rdf"

	"github.com/c360studio/owlscrubber/ontology"
	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

// declarationTypes maps entity kinds to the OWL type asserted for them.
var declarationTypes = map[ontology.EntityKind]ontology.IRI{
	ontology.KindClass:              owl.Class,
	ontology.KindObjectProperty:     owl.ObjectProperty,
	ontology.KindDataProperty:       owl.DatatypeProperty,
	ontology.KindAnnotationProperty: owl.AnnotationProperty,
	ontology.KindIndividual:         owl.NamedIndividual,
}

var declarationOrder = []ontology.EntityKind{
	ontology.KindAnnotationProperty,
	ontology.KindObjectProperty,
	ontology.KindDataProperty,
	ontology.KindClass,
	ontology.KindIndividual,
}

// Prefixes returns the namespace bindings written with an ontology, keyed by
// prefix. The W3C namespaces are always present. When tagPrefix (the
// compound-literal tag prefix) names ncicp, the complex-properties namespace
// is bound so XML literals stay well formed. extra overrides both.
func Prefixes(tagPrefix string, extra map[string]string) map[string]string {
	out := owl.DefaultPrefixes()
	if strings.Contains(tagPrefix, owl.ComplexPropertiesPrefix) {
		out[owl.ComplexPropertiesPrefix] = owl.ComplexPropertiesNamespace
	}
	for p, ns := range extra {
		out[p] = ns
	}
	return out
}

// Store writes g to w in the given format. prefixes maps prefix to
// namespace; nil selects the W3C defaults.
func Store(w io.Writer, g *ontology.Graph, format Format, prefixes map[string]string) error {
	if prefixes == nil {
		prefixes = owl.DefaultPrefixes()
	}

	switch format {
	case FormatRDFXML, "":
		return writeRDFXML(w, g, prefixes)
	case FormatTurtle, FormatNTriples:
		triples, err := Triples(g)
		if err != nil {
			return err
		}
		enc := rdf.NewTripleEncoder(w, format.Codec())
		if format == FormatTurtle {
			enc.Namespaces = invert(prefixes)
		}
		if err := enc.EncodeAll(triples); err != nil {
			return fmt.Errorf("encode %s: %w", format, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flush %s: %w", format, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Statements returns everything Store writes for g, as axioms: the ontology
// header, one rdf:type declaration per declared entity, then every axiom in
// insertion order. Declarations already asserted as axioms are not repeated.
func Statements(g *ontology.Graph) []ontology.Axiom {
	axioms := g.Axioms()
	out := make([]ontology.Axiom, 0, len(axioms)+g.EntityCount()+1)

	if g.IRI != "" {
		out = append(out, ontology.Axiom{Subject: g.IRI, Property: owl.RDFType, Object: owl.Ontology})
	}

	typed := make(map[ontology.IRI]map[ontology.IRI]struct{})
	for _, a := range g.AxiomsWithProperty(owl.RDFType) {
		if a.Literal != nil {
			continue
		}
		if typed[a.Subject] == nil {
			typed[a.Subject] = make(map[ontology.IRI]struct{})
		}
		typed[a.Subject][a.Object] = struct{}{}
	}

	for _, kind := range declarationOrder {
		t := declarationTypes[kind]
		for _, iri := range g.Entities(kind) {
			if _, done := typed[iri][t]; done {
				continue
			}
			out = append(out, ontology.Axiom{Subject: iri, Property: owl.RDFType, Object: t})
		}
	}

	for _, a := range axioms {
		out = append(out, *a)
	}
	return out
}

// Triples converts the statements of g into knakk/rdf triples.
func Triples(g *ontology.Graph) ([]rdf.Triple, error) {
	stmts := Statements(g)
	out := make([]rdf.Triple, 0, len(stmts))
	for _, a := range stmts {
		t, err := triple(a)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func triple(a ontology.Axiom) (rdf.Triple, error) {
	subj, err := subjectTerm(a.Subject)
	if err != nil {
		return rdf.Triple{}, err
	}
	pred, err := rdf.NewIRI(string(a.Property))
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("predicate %s: %w", a.Property, err)
	}

	var obj rdf.Object
	if a.Literal != nil {
		obj, err = literalTerm(*a.Literal)
	} else {
		obj, err = objectTerm(a.Object)
	}
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subj: subj, Pred: pred, Obj: obj}, nil
}

func subjectTerm(iri ontology.IRI) (rdf.Subject, error) {
	if iri.IsBlank() {
		b, err := rdf.NewBlank(strings.TrimPrefix(string(iri), "_:"))
		if err != nil {
			return nil, fmt.Errorf("blank node %s: %w", iri, err)
		}
		return b, nil
	}
	i, err := rdf.NewIRI(string(iri))
	if err != nil {
		return nil, fmt.Errorf("iri %s: %w", iri, err)
	}
	return i, nil
}

func objectTerm(iri ontology.IRI) (rdf.Object, error) {
	if iri.IsBlank() {
		b, err := rdf.NewBlank(strings.TrimPrefix(string(iri), "_:"))
		if err != nil {
			return nil, fmt.Errorf("blank node %s: %w", iri, err)
		}
		return b, nil
	}
	i, err := rdf.NewIRI(string(iri))
	if err != nil {
		return nil, fmt.Errorf("iri %s: %w", iri, err)
	}
	return i, nil
}

func literalTerm(l ontology.Literal) (rdf.Object, error) {
	if l.Lang != "" {
		lit, err := rdf.NewLangLiteral(l.Value, l.Lang)
		if err != nil {
			return nil, fmt.Errorf("literal %s: %w", l, err)
		}
		return lit, nil
	}
	dt := l.DatatypeIRI()
	if dt == "" {
		dt = owl.XSDString
	}
	dtIRI, err := rdf.NewIRI(string(dt))
	if err != nil {
		return nil, fmt.Errorf("datatype %s: %w", dt, err)
	}
	return rdf.NewTypedLiteral(l.Value, dtIRI), nil
}

// invert turns prefix->namespace bindings into the namespace->prefix form
// the Turtle encoder expects.
func invert(prefixes map[string]string) map[string]string {
	out := make(map[string]string, len(prefixes))
	for p, ns := range prefixes {
		out[ns] = p
	}
	return out
}
