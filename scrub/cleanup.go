package scrub

import (
	"strings"

	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/ontology"
)

// FixDanglingReferences removes the xsd:anyURI annotations of remaining
// classes whose value names a class in removed. Values are resolved against
// namespace, so both full IRIs and bare codes match. It returns copies of
// the removed axioms.
func FixDanglingReferences(g *ontology.Graph, removed *ontology.RemovedSet, namespace string) []ontology.Axiom {
	out := make([]ontology.Axiom, 0)
	if removed.Len() == 0 {
		return out
	}
	for _, class := range g.Classes() {
		for _, a := range g.AnnotationsOf(class) {
			if a.Literal.Kind != ontology.KindAnyURI {
				continue
			}
			target := ontology.Resolve(namespace, strings.TrimSpace(a.Literal.Value))
			if !removed.Contains(target) {
				continue
			}
			dropped := *a
			if g.RemoveAxiom(a.ID) {
				out = append(out, dropped)
			}
		}
	}
	return out
}

// RemoveAllIndividuals deletes every declared individual and its axioms.
func RemoveAllIndividuals(g *ontology.Graph) Change {
	var change Change
	for _, ind := range g.Individuals() {
		change.Removed += g.RemoveEntity(ind)
		change.Entities++
	}
	return change
}

// RemoveEmptyAxioms deletes every annotation axiom with an empty value.
// Running it twice is the same as running it once.
func RemoveEmptyAxioms(g *ontology.Graph) Change {
	var change Change
	for _, a := range g.Axioms() {
		if annotation.IsEmptyAxiom(a) && g.RemoveAxiom(a.ID) {
			change.Removed++
		}
	}
	return change
}
