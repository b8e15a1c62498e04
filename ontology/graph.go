package ontology

import (
	"sort"

	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

// EntityKind is the declared type of a named entity.
type EntityKind int

const (
	KindClass EntityKind = iota
	KindObjectProperty
	KindDataProperty
	KindAnnotationProperty
	KindIndividual
)

// String returns the OWL name of the entity kind.
func (k EntityKind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindObjectProperty:
		return "ObjectProperty"
	case KindDataProperty:
		return "DataProperty"
	case KindAnnotationProperty:
		return "AnnotationProperty"
	case KindIndividual:
		return "Individual"
	default:
		return "Unknown"
	}
}

// IsProperty reports whether the kind is one of the property kinds.
func (k EntityKind) IsProperty() bool {
	return k == KindObjectProperty || k == KindDataProperty || k == KindAnnotationProperty
}

type idSet map[uint64]struct{}

// Graph is a mutable ontology: declared entities plus a set of axioms.
// Axioms are deduplicated on (subject, property, value) and iterate in
// insertion order. Graph is not safe for concurrent use; the scrubber has
// exactly one writer.
type Graph struct {
	// IRI is the ontology IRI, empty when the source declared none.
	IRI IRI

	// Namespaces holds the prefix bindings used by markup inside XML
	// literals, keyed by prefix.
	Namespaces map[string]string

	entities map[IRI]EntityKind
	axioms   map[uint64]*Axiom
	keys     map[string]uint64
	nextID   uint64

	bySubject  map[IRI]idSet
	byProperty map[IRI]idSet
	byObject   map[IRI]idSet
}

// NewGraph creates an empty graph for the ontology iri.
func NewGraph(iri IRI) *Graph {
	return &Graph{
		IRI:        iri,
		Namespaces: make(map[string]string),
		entities:   make(map[IRI]EntityKind),
		axioms:     make(map[uint64]*Axiom),
		keys:       make(map[string]uint64),
		bySubject:  make(map[IRI]idSet),
		byProperty: make(map[IRI]idSet),
		byObject:   make(map[IRI]idSet),
	}
}

// BindNamespace records a literal markup prefix. The first binding of a
// prefix wins; it reports whether ns is the namespace now bound to prefix.
func (g *Graph) BindNamespace(prefix, ns string) bool {
	if bound, ok := g.Namespaces[prefix]; ok {
		return bound == ns
	}
	g.Namespaces[prefix] = ns
	return true
}

// Declare records iri as an entity of the given kind. A later declaration
// replaces an earlier one.
func (g *Graph) Declare(iri IRI, kind EntityKind) {
	g.entities[iri] = kind
}

// Kind returns the declared kind of iri.
func (g *Graph) Kind(iri IRI) (EntityKind, bool) {
	k, ok := g.entities[iri]
	return k, ok
}

// Has reports whether iri is a declared entity.
func (g *Graph) Has(iri IRI) bool {
	_, ok := g.entities[iri]
	return ok
}

// IsClass reports whether iri is a declared class.
func (g *Graph) IsClass(iri IRI) bool {
	k, ok := g.entities[iri]
	return ok && k == KindClass
}

// Entities returns the declared entities of the given kind, sorted.
func (g *Graph) Entities(kind EntityKind) []IRI {
	out := make([]IRI, 0)
	for iri, k := range g.entities {
		if k == kind {
			out = append(out, iri)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Classes returns every declared class, sorted.
func (g *Graph) Classes() []IRI {
	return g.Entities(KindClass)
}

// Individuals returns every declared individual, sorted.
func (g *Graph) Individuals() []IRI {
	return g.Entities(KindIndividual)
}

// EntityCount returns the number of declared entities.
func (g *Graph) EntityCount() int {
	return len(g.entities)
}

// Len returns the number of axioms in the graph.
func (g *Graph) Len() int {
	return len(g.axioms)
}

// AddAxiom inserts a copy of a and returns the stored axiom. When an equal
// axiom already exists it is returned with added=false.
func (g *Graph) AddAxiom(a Axiom) (*Axiom, bool) {
	if a.Literal != nil {
		lit := *a.Literal
		a.Literal = &lit
	}
	k := a.key()
	if id, ok := g.keys[k]; ok {
		return g.axioms[id], false
	}
	g.nextID++
	a.ID = g.nextID
	stored := &a
	g.axioms[a.ID] = stored
	g.keys[k] = a.ID
	index(g.bySubject, a.Subject, a.ID)
	index(g.byProperty, a.Property, a.ID)
	if a.Literal == nil {
		index(g.byObject, a.Object, a.ID)
	}
	return stored, true
}

// AddAnnotation asserts property=lit on subject.
func (g *Graph) AddAnnotation(subject, property IRI, lit Literal) (*Axiom, bool) {
	return g.AddAxiom(Axiom{Subject: subject, Property: property, Literal: &lit})
}

// AddRelation asserts a structural axiom subject property object.
func (g *Graph) AddRelation(subject, property, object IRI) (*Axiom, bool) {
	return g.AddAxiom(Axiom{Subject: subject, Property: property, Object: object})
}

// Axiom returns the axiom with the given id.
func (g *Graph) Axiom(id uint64) (*Axiom, bool) {
	a, ok := g.axioms[id]
	return a, ok
}

// RemoveAxiom deletes the axiom with the given id. It returns false when no
// such axiom exists.
func (g *Graph) RemoveAxiom(id uint64) bool {
	a, ok := g.axioms[id]
	if !ok {
		return false
	}
	delete(g.axioms, id)
	delete(g.keys, a.key())
	unindex(g.bySubject, a.Subject, id)
	unindex(g.byProperty, a.Property, id)
	if a.Literal == nil {
		unindex(g.byObject, a.Object, id)
	}
	return true
}

// ReplaceLiteral removes the axiom id and asserts the same subject and
// property with lit. It returns the resulting axiom and whether it was
// newly added; when an equal axiom already exists the two merge and added
// is false. A nil axiom means id is unknown.
func (g *Graph) ReplaceLiteral(id uint64, lit Literal) (*Axiom, bool) {
	old, ok := g.axioms[id]
	if !ok {
		return nil, false
	}
	subject, property := old.Subject, old.Property
	g.RemoveAxiom(id)
	return g.AddAnnotation(subject, property, lit)
}

// RemoveEntity deletes the declaration of iri together with every axiom
// that has iri as subject, as property, or as IRI object. Literal values
// mentioning iri are left alone. It returns the number of axioms removed.
func (g *Graph) RemoveEntity(iri IRI) int {
	delete(g.entities, iri)
	ids := make(idSet)
	for _, m := range []map[IRI]idSet{g.bySubject, g.byProperty, g.byObject} {
		for id := range m[iri] {
			ids[id] = struct{}{}
		}
	}
	n := 0
	for _, id := range sortedIDs(ids) {
		if g.RemoveAxiom(id) {
			n++
		}
	}
	return n
}

// Axioms returns every axiom in insertion order.
func (g *Graph) Axioms() []*Axiom {
	ids := make([]uint64, 0, len(g.axioms))
	for id := range g.axioms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return g.collect(ids)
}

// AxiomsOf returns the axioms whose subject is iri, in insertion order.
func (g *Graph) AxiomsOf(subject IRI) []*Axiom {
	return g.collect(sortedIDs(g.bySubject[subject]))
}

// AnnotationsOf returns the annotation axioms of subject, in insertion order.
func (g *Graph) AnnotationsOf(subject IRI) []*Axiom {
	return filterAnnotations(g.AxiomsOf(subject))
}

// AxiomsWithProperty returns the axioms asserting property, in insertion
// order.
func (g *Graph) AxiomsWithProperty(property IRI) []*Axiom {
	return g.collect(sortedIDs(g.byProperty[property]))
}

// ReferencesTo returns the structural axioms whose object is iri.
func (g *Graph) ReferencesTo(iri IRI) []*Axiom {
	return g.collect(sortedIDs(g.byObject[iri]))
}

// Values returns the literal values of property on subject, in insertion
// order.
func (g *Graph) Values(subject, property IRI) []Literal {
	out := make([]Literal, 0)
	for _, a := range g.AnnotationsOf(subject) {
		if a.Property == property {
			out = append(out, *a.Literal)
		}
	}
	return out
}

// SuperClassesOf returns the named classes asserted as direct super classes
// of class through rdfs:subClassOf, in insertion order.
func (g *Graph) SuperClassesOf(class IRI) []IRI {
	out := make([]IRI, 0)
	for _, a := range g.AxiomsOf(class) {
		if a.Property == owl.RDFSSubClassOf && a.Literal == nil && !a.Object.IsBlank() {
			out = append(out, a.Object)
		}
	}
	return out
}

// SubClassEdges returns every named (child, parent) pair asserted with
// rdfs:subClassOf, in insertion order.
func (g *Graph) SubClassEdges() [][2]IRI {
	edges := make([][2]IRI, 0)
	for _, a := range g.AxiomsWithProperty(owl.RDFSSubClassOf) {
		if a.Literal != nil || a.Subject.IsBlank() || a.Object.IsBlank() {
			continue
		}
		edges = append(edges, [2]IRI{a.Subject, a.Object})
	}
	return edges
}

func (g *Graph) collect(ids []uint64) []*Axiom {
	out := make([]*Axiom, 0, len(ids))
	for _, id := range ids {
		if a, ok := g.axioms[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

func filterAnnotations(axioms []*Axiom) []*Axiom {
	out := axioms[:0]
	for _, a := range axioms {
		if a.Literal != nil {
			out = append(out, a)
		}
	}
	return out
}

func index(m map[IRI]idSet, key IRI, id uint64) {
	s, ok := m[key]
	if !ok {
		s = make(idSet)
		m[key] = s
	}
	s[id] = struct{}{}
}

func unindex(m map[IRI]idSet, key IRI, id uint64) {
	s, ok := m[key]
	if !ok {
		return
	}
	delete(s, id)
	if len(s) == 0 {
		delete(m, key)
	}
}

func sortedIDs(s idSet) []uint64 {
	ids := make([]uint64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
