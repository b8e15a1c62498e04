// Package reasoner computes the class hierarchy consumed by the flat-file
// export.
package reasoner

import (
	"github.com/c360studio/owlscrubber/ontology"
	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

// Reasoner computes super classes for every class in a graph. Each class
// maps to a list of groups; classes within a group are equivalent.
type Reasoner interface {
	SuperClasses(g *ontology.Graph) map[ontology.IRI][][]ontology.IRI
}

// Told answers from asserted rdfs:subClassOf axioms only: the direct named
// super classes of each class, one singleton group per parent. Asserted
// owl:equivalentClass links between named parents merge their groups.
type Told struct{}

// NewTold creates a told-hierarchy reasoner.
func NewTold() *Told {
	return &Told{}
}

// SuperClasses implements Reasoner.
func (Told) SuperClasses(g *ontology.Graph) map[ontology.IRI][][]ontology.IRI {
	equiv := equivalents(g)
	out := make(map[ontology.IRI][][]ontology.IRI)
	for _, c := range g.Classes() {
		parents := g.SuperClassesOf(c)
		groups := make([][]ontology.IRI, 0, len(parents))
		placed := make(map[ontology.IRI]int)
		for _, p := range parents {
			if _, dup := placed[p]; dup {
				continue
			}
			gi := -1
			for _, e := range equiv[p] {
				if idx, ok := placed[e]; ok {
					gi = idx
					break
				}
			}
			if gi < 0 {
				groups = append(groups, []ontology.IRI{p})
				gi = len(groups) - 1
			} else {
				groups[gi] = append(groups[gi], p)
			}
			placed[p] = gi
		}
		out[c] = groups
	}
	return out
}

func equivalents(g *ontology.Graph) map[ontology.IRI][]ontology.IRI {
	out := make(map[ontology.IRI][]ontology.IRI)
	for _, a := range g.AxiomsWithProperty(owl.EquivalentClass) {
		if a.Literal != nil || a.Subject.IsBlank() || a.Object.IsBlank() {
			continue
		}
		out[a.Subject] = append(out[a.Subject], a.Object)
		out[a.Object] = append(out[a.Object], a.Subject)
	}
	return out
}
