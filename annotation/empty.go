package annotation

import "github.com/c360studio/owlscrubber/ontology"

// IsEmpty reports whether a literal has an empty lexical value. The check
// holds for every literal kind, language tagged or not.
func IsEmpty(lit ontology.Literal) bool {
	return lit.Value == ""
}

// IsEmptyAxiom reports whether a is an annotation axiom with an empty value.
// Structural axioms are never empty.
func IsEmptyAxiom(a *ontology.Axiom) bool {
	return a.Literal != nil && IsEmpty(*a.Literal)
}
