package ontology

// Axiom is a single assertion about a subject. Annotation axioms carry a
// Literal; structural axioms (rdfs:subClassOf, rdf:type, rdfs:domain, ...)
// carry an IRI Object.
type Axiom struct {
	ID       uint64
	Subject  IRI
	Property IRI
	Object   IRI
	Literal  *Literal
}

// IsAnnotation reports whether the axiom's value is a literal.
func (a *Axiom) IsAnnotation() bool {
	return a.Literal != nil
}

// key identifies axioms that are equal as assertions, ignoring the ID.
func (a *Axiom) key() string {
	if a.Literal == nil {
		return string(a.Subject) + "\x00" + string(a.Property) + "\x00<" + string(a.Object)
	}
	l := a.Literal
	return string(a.Subject) + "\x00" + string(a.Property) + "\x00\"" + l.Value +
		"\x00" + l.Kind.String() + "\x00" + l.Lang + "\x00" + string(l.Datatype)
}
