package export

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/ontology"
	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

// rdfXMLWriter streams statements as RDF/XML, one rdf:Description per
// subject in first-appearance order.
type rdfXMLWriter struct {
	w        *bufio.Writer
	prefixes map[string]string // namespace -> prefix used for property names
	bound    map[string]string // prefix -> namespace declared on rdf:RDF
	qnames   map[ontology.IRI]string
	nodeIDs  map[ontology.IRI]string
	literals map[string]string // XML literal value -> value without xmlns declarations
	err      error
}

func writeRDFXML(w io.Writer, g *ontology.Graph, prefixes map[string]string) error {
	stmts := Statements(g)

	xw := &rdfXMLWriter{
		w:        bufio.NewWriter(w),
		prefixes: invert(prefixes),
		bound:    make(map[string]string, len(prefixes)+1),
		qnames:   make(map[ontology.IRI]string),
		nodeIDs:  make(map[ontology.IRI]string),
		literals: make(map[string]string),
	}
	for p, ns := range prefixes {
		xw.bound[p] = ns
	}
	xw.prefixes[owl.RDFNamespace] = "rdf"
	xw.bound["rdf"] = owl.RDFNamespace
	for p, ns := range g.Namespaces {
		if _, ok := xw.bound[p]; !ok {
			xw.bound[p] = ns
		}
	}

	subjects := make([]ontology.IRI, 0)
	bySubject := make(map[ontology.IRI][]ontology.Axiom)
	for _, a := range stmts {
		if _, ok := bySubject[a.Subject]; !ok {
			subjects = append(subjects, a.Subject)
		}
		bySubject[a.Subject] = append(bySubject[a.Subject], a)
		if _, err := xw.qname(a.Property); err != nil {
			return err
		}
		if a.Literal != nil && a.Literal.Kind == ontology.KindXMLLiteral {
			if err := xw.xmlLiteral(a.Literal.Value); err != nil {
				return err
			}
		}
	}

	xw.header(g.IRI)
	for _, s := range subjects {
		xw.description(s, bySubject[s])
	}
	xw.printf("</rdf:RDF>\n")

	if xw.err != nil {
		return fmt.Errorf("write rdf/xml: %w", xw.err)
	}
	if err := xw.w.Flush(); err != nil {
		return fmt.Errorf("flush rdf/xml: %w", err)
	}
	return nil
}

func (xw *rdfXMLWriter) header(base ontology.IRI) {
	names := make([]string, 0, len(xw.bound))
	for p := range xw.bound {
		names = append(names, p)
	}
	sort.Strings(names)

	xw.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rdf:RDF")
	for _, p := range names {
		ns := xw.bound[p]
		if p == "" {
			xw.printf("\n    xmlns=\"%s\"", escape(ns))
			continue
		}
		xw.printf("\n    xmlns:%s=\"%s\"", p, escape(ns))
	}
	if base != "" {
		xw.printf("\n    xml:base=\"%s\"", escape(string(base)))
	}
	xw.printf(">\n")
}

func (xw *rdfXMLWriter) description(subject ontology.IRI, stmts []ontology.Axiom) {
	xw.printf("  <rdf:Description %s>\n", xw.ref("rdf:about", subject))
	for _, a := range stmts {
		name := xw.qnames[a.Property]
		if a.Literal == nil {
			xw.printf("    <%s %s/>\n", name, xw.ref("rdf:resource", a.Object))
			continue
		}
		l := a.Literal
		switch {
		case l.Lang != "":
			xw.printf("    <%s xml:lang=\"%s\">%s</%s>\n", name, escape(l.Lang), escape(l.Value), name)
		case l.Kind == ontology.KindXMLLiteral:
			xw.printf("    <%s rdf:parseType=\"Literal\">%s</%s>\n", name, xw.literals[l.Value], name)
		case l.Kind == ontology.KindPlain:
			xw.printf("    <%s>%s</%s>\n", name, escape(l.Value), name)
		default:
			xw.printf("    <%s rdf:datatype=\"%s\">%s</%s>\n", name, escape(string(l.DatatypeIRI())), escape(l.Value), name)
		}
	}
	xw.printf("  </rdf:Description>\n")
}

// ref renders the attribute naming iri: attr for named resources,
// rdf:nodeID for blank nodes.
func (xw *rdfXMLWriter) ref(attr string, iri ontology.IRI) string {
	if iri.IsBlank() {
		return fmt.Sprintf("rdf:nodeID=\"%s\"", xw.nodeID(iri))
	}
	return fmt.Sprintf("%s=\"%s\"", attr, escape(string(iri)))
}

func (xw *rdfXMLWriter) nodeID(iri ontology.IRI) string {
	if id, ok := xw.nodeIDs[iri]; ok {
		return id
	}
	id := strings.TrimPrefix(string(iri), "_:")
	if !isNCName(id) {
		id = "genid" + strconv.Itoa(len(xw.nodeIDs)+1)
	}
	xw.nodeIDs[iri] = id
	return id
}

// qname splits a predicate into a bound prefix and local name, binding a
// generated prefix for unknown namespaces.
func (xw *rdfXMLWriter) qname(property ontology.IRI) (string, error) {
	if q, ok := xw.qnames[property]; ok {
		return q, nil
	}
	s := string(property)

	best := ""
	for ns := range xw.prefixes {
		if len(ns) > len(best) && strings.HasPrefix(s, ns) && isNCName(s[len(ns):]) {
			best = ns
		}
	}
	if best == "" {
		cut := strings.LastIndexAny(s, "#/")
		if cut < 0 || !isNCName(s[cut+1:]) {
			return "", fmt.Errorf("property %s has no XML local name", property)
		}
		best = s[:cut+1]
		p := xw.freshPrefix()
		xw.prefixes[best] = p
		xw.bound[p] = best
	}

	q := s[len(best):]
	if p := xw.prefixes[best]; p != "" {
		q = p + ":" + q
	}
	xw.qnames[property] = q
	return q, nil
}

func (xw *rdfXMLWriter) freshPrefix() string {
	for i := 1; ; i++ {
		p := "ns" + strconv.Itoa(i)
		if _, taken := xw.bound[p]; !taken {
			return p
		}
	}
}

// xmlLiteral moves the prefixed namespace declarations of an XML literal
// value to the root element. The RDF/XML decoder rejects declarations
// inside parseType="Literal" content.
func (xw *rdfXMLWriter) xmlLiteral(value string) error {
	if _, done := xw.literals[value]; done {
		return nil
	}
	bare, bindings := annotation.SplitNamespaces(value)
	for p, ns := range bindings {
		if bound, ok := xw.bound[p]; ok && bound != ns {
			return fmt.Errorf("xml literal binds prefix %s to %s, already bound to %s", p, ns, bound)
		}
	}
	for p, ns := range bindings {
		xw.bound[p] = ns
	}
	xw.literals[value] = bare
	return nil
}

func (xw *rdfXMLWriter) printf(format string, args ...any) {
	if xw.err != nil {
		return
	}
	_, xw.err = fmt.Fprintf(xw.w, format, args...)
}

func escape(s string) string {
	var sb strings.Builder
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// isNCName reports whether s is a non-colonized XML name.
func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
