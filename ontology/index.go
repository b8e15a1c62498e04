package ontology

import "sort"

// ReferenceIndex maps each class to its direct subclasses. It is built once
// per run from the graph's rdfs:subClassOf axioms.
type ReferenceIndex struct {
	children map[IRI][]IRI
}

// NewReferenceIndex builds the child index of g.
func NewReferenceIndex(g *Graph) *ReferenceIndex {
	children := make(map[IRI][]IRI)
	seen := make(map[[2]IRI]struct{})
	for _, e := range g.SubClassEdges() {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		children[e[1]] = append(children[e[1]], e[0])
	}
	for parent := range children {
		c := children[parent]
		sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	}
	return &ReferenceIndex{children: children}
}

// Children returns the direct subclasses of id, sorted.
func (x *ReferenceIndex) Children(id IRI) []IRI {
	return x.children[id]
}

// Descendants returns root followed by every class reachable from it over
// subclass edges. The traversal is depth first in sorted child order and
// visits each class once, so cycles terminate.
func (x *ReferenceIndex) Descendants(root IRI) []IRI {
	visited := map[IRI]struct{}{root: {}}
	out := []IRI{root}
	stack := reversed(x.children[root])
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[next]; ok {
			continue
		}
		visited[next] = struct{}{}
		out = append(out, next)
		stack = append(stack, reversed(x.children[next])...)
	}
	return out
}

func reversed(in []IRI) []IRI {
	out := make([]IRI, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
