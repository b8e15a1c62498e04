package scrub

import (
	"github.com/c360studio/owlscrubber/ontology"
)

// RemoveBranch deletes root and every class reachable from it through
// rdfs:subClassOf edges. Each class is added to removed before it is
// detached. Classes already in removed are skipped, so overlapping
// branches remove shared descendants once. A root that is not a declared
// class is a no-op.
//
// Axioms of other classes that mention a removed class as IRI object go
// with it; annotation values pointing at removed classes are left for
// FixDanglingReferences.
func RemoveBranch(g *ontology.Graph, idx *ontology.ReferenceIndex, removed *ontology.RemovedSet, root ontology.IRI) ([]ontology.IRI, Change) {
	var change Change
	if !g.IsClass(root) || removed.Contains(root) {
		return nil, change
	}

	ids := make([]ontology.IRI, 0)
	for _, id := range idx.Descendants(root) {
		if !removed.Add(id) {
			continue
		}
		change.Removed += g.RemoveEntity(id)
		change.Entities++
		ids = append(ids, id)
	}
	return ids, change
}
