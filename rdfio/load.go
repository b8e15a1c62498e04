// Package rdfio loads an ontology graph from RDF/XML, Turtle, or N-Triples.
package rdfio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/knakk/rdf"

	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/export"
	"github.com/c360studio/owlscrubber/ontology"
	"github.com/c360studio/owlscrubber/storage"
	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

// checkEvery is the number of triples decoded between context checks.
const checkEvery = 4096

var declarationKinds = map[ontology.IRI]ontology.EntityKind{
	owl.Class:              ontology.KindClass,
	owl.RDFSClass:          ontology.KindClass,
	owl.ObjectProperty:     ontology.KindObjectProperty,
	owl.DatatypeProperty:   ontology.KindDataProperty,
	owl.AnnotationProperty: ontology.KindAnnotationProperty,
	owl.NamedIndividual:    ontology.KindIndividual,
}

// Load decodes an ontology from r. Type assertions naming an OWL entity
// kind become declarations; owl:Ontology sets the graph IRI; every other
// triple becomes an axiom. Subjects typed with a non-W3C class and declared
// nowhere else are declared as individuals. Namespace declarations inside
// XML literals are recorded in g.Namespaces. RDF/XML sources are read into
// memory and normalized before decoding.
func Load(ctx context.Context, r io.Reader, format export.Format) (*ontology.Graph, error) {
	if format.Codec() == rdf.RDFXML {
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, errs.WrapFatal(err, "rdfio", "Load", "read ontology")
		}
		r = bytes.NewReader(normalizeRDFXML(src))
	}

	g := ontology.NewGraph("")
	dec := rdf.NewTripleDecoder(r, format.Codec())

	memberships := make([]ontology.IRI, 0)
	for n := 1; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errs.WrapFatal(err, "rdfio", "Load", "decode ontology")
			}
		}

		tr, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.WrapFatal(fmt.Errorf("triple %d: %w", n, err), "rdfio", "Load", "decode ontology")
		}

		a, err := axiom(tr)
		if err != nil {
			return nil, errs.WrapFatal(fmt.Errorf("triple %d: %w", n, err), "rdfio", "Load", "decode ontology")
		}
		if a.Literal != nil && a.Literal.Kind == ontology.KindXMLLiteral {
			a.Literal.Value = liftNamespaces(g, a.Literal.Value)
		}

		if a.Property == owl.RDFType && a.Literal == nil {
			if a.Object == owl.Ontology {
				if g.IRI == "" {
					g.IRI = a.Subject
				}
				continue
			}
			if kind, ok := declarationKinds[a.Object]; ok {
				if !a.Subject.IsBlank() {
					g.Declare(a.Subject, kind)
					continue
				}
			} else if !a.Subject.IsBlank() && !isVocabulary(a.Object) {
				memberships = append(memberships, a.Subject)
			}
		}
		g.AddAxiom(a)
	}

	for _, s := range memberships {
		if !g.Has(s) {
			g.Declare(s, ontology.KindIndividual)
		}
	}
	return g, nil
}

// LoadLocation opens loc and loads it. An empty format is chosen from the
// location's extension.
func LoadLocation(ctx context.Context, loc storage.Location, format export.Format, store storage.ObjectStore) (*ontology.Graph, error) {
	if format == "" {
		format = export.FormatForPath(loc.Name())
	}
	r, err := storage.Open(ctx, loc, store)
	if err != nil {
		return nil, errs.WrapFatal(err, "rdfio", "LoadLocation", "open source")
	}
	defer r.Close()
	return Load(ctx, r, format)
}

func axiom(tr rdf.Triple) (ontology.Axiom, error) {
	subject, err := resource(tr.Subj)
	if err != nil {
		return ontology.Axiom{}, err
	}
	a := ontology.Axiom{Subject: subject, Property: ontology.IRI(tr.Pred.String())}

	if lit, ok := tr.Obj.(rdf.Literal); ok {
		l := literal(lit)
		a.Literal = &l
		return a, nil
	}
	a.Object, err = resource(tr.Obj)
	return a, err
}

func resource(t rdf.Term) (ontology.IRI, error) {
	switch t.Type() {
	case rdf.TermIRI:
		return ontology.IRI(t.String()), nil
	case rdf.TermBlank:
		return ontology.IRI("_:" + strings.TrimPrefix(t.String(), "_:")), nil
	default:
		return "", fmt.Errorf("unexpected literal in resource position: %s", t.String())
	}
}

// literal converts a decoded literal. An explicit datatype other than
// rdf:langString wins over a language tag.
func literal(l rdf.Literal) ontology.Literal {
	dt := ontology.IRI(l.DataType.String())
	if lang := l.Lang(); lang != "" && (dt == "" || dt == owl.RDFLangString) {
		value := l.String()
		if value == emptyMarker {
			value = ""
		}
		return ontology.NewLangLiteral(value, lang)
	}
	return ontology.NewTypedLiteral(l.String(), dt)
}

// liftNamespaces moves the namespace declarations of XML literal markup onto
// the graph. Markup whose declarations conflict with an earlier binding is
// kept as is.
func liftNamespaces(g *ontology.Graph, markup string) string {
	bare, bindings := annotation.SplitNamespaces(markup)
	for p, ns := range bindings {
		if bound, ok := g.Namespaces[p]; ok && bound != ns {
			return markup
		}
	}
	for p, ns := range bindings {
		g.BindNamespace(p, ns)
	}
	return bare
}

func isVocabulary(iri ontology.IRI) bool {
	for _, ns := range []string{owl.RDFNamespace, owl.RDFSNamespace, owl.OWLNamespace, owl.XSDNamespace} {
		if strings.HasPrefix(string(iri), ns) {
			return true
		}
	}
	return false
}
