package scrub

import (
	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/ontology"
)

// RemoveProperty deletes axioms asserting e.Property.
//
// Without qualifiers every axiom of the property goes, on any subject, and
// the property entity is removed together with its own axioms. With
// qualifiers only annotation axioms whose literal contains every
// <tag>value</tag> pair are removed and the entity stays.
func RemoveProperty(g *ontology.Graph, e PropertyEntry, prefix string) Change {
	var change Change
	if !e.Qualified() {
		if g.Has(e.Property) {
			change.Entities++
		}
		change.Removed = g.RemoveEntity(e.Property)
		return change
	}

	for _, a := range g.AxiomsWithProperty(e.Property) {
		if a.Literal == nil {
			continue
		}
		if annotation.ContainsAll(a.Literal.Value, prefix, e.Qualifiers) && g.RemoveAxiom(a.ID) {
			change.Removed++
		}
	}
	return change
}
