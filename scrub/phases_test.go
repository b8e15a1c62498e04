package scrub

import (
	"testing"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/ontology"
	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

const testNS = "http://example.org/onto"

func iri(id string) ontology.IRI {
	return ontology.Resolve(testNS, id)
}

// fixture builds
//
//	A
//	├── B
//	│   └── D
//	│       └── E
//	└── C
//	X (unrelated, holds associations)
func fixture() *ontology.Graph {
	g := ontology.NewGraph(ontology.IRI(testNS))
	for _, c := range []string{"A", "B", "C", "D", "E", "X"} {
		g.Declare(iri(c), ontology.KindClass)
		g.AddAnnotation(iri(c), iri("code"), ontology.NewLiteral(c, ontology.KindString))
	}
	sub := func(child, parent string) {
		g.AddRelation(iri(child), owl.RDFSSubClassOf, iri(parent))
	}
	sub("B", "A")
	sub("C", "A")
	sub("D", "B")
	sub("E", "D")

	g.Declare(iri("related"), ontology.KindAnnotationProperty)
	g.AddAnnotation(iri("X"), iri("related"), ontology.NewLiteral(string(iri("B")), ontology.KindAnyURI))
	g.AddAnnotation(iri("X"), iri("related"), ontology.NewLiteral("D", ontology.KindAnyURI))
	g.AddAnnotation(iri("X"), iri("related"), ontology.NewLiteral("C", ontology.KindAnyURI))
	g.AddAnnotation(iri("X"), iri("note"), ontology.NewLiteral(string(iri("B")), ontology.KindString))
	return g
}

func literalsOf(g *ontology.Graph, subject, property ontology.IRI) []string {
	out := make([]string, 0)
	for _, l := range g.Values(subject, property) {
		out = append(out, l.Value)
	}
	return out
}

func TestRemoveBranch(t *testing.T) {
	g := fixture()
	removed := ontology.NewRemovedSet()

	ids, change := RemoveBranch(g, ontology.NewReferenceIndex(g), removed, iri("B"))

	assert.Equal(t, []ontology.IRI{iri("B"), iri("D"), iri("E")}, ids)
	assert.Equal(t, 3, change.Entities)
	assert.Equal(t, ids, removed.List())
	for _, id := range ids {
		assert.False(t, g.Has(id), "%s should be gone", id)
		assert.Empty(t, g.AxiomsOf(id))
	}
	assert.True(t, g.IsClass(iri("A")))
	assert.True(t, g.IsClass(iri("C")))

	// Association annotations are left for the reference fixer.
	assert.Len(t, g.Values(iri("X"), iri("related")), 3)
}

func TestRemoveBranchLeaf(t *testing.T) {
	g := fixture()
	removed := ontology.NewRemovedSet()

	ids, change := RemoveBranch(g, ontology.NewReferenceIndex(g), removed, iri("C"))

	assert.Equal(t, []ontology.IRI{iri("C")}, ids)
	assert.Equal(t, 1, change.Entities)
	assert.Equal(t, 1, removed.Len())
	assert.False(t, g.Has(iri("C")))
}

func TestRemoveBranchMissingRoot(t *testing.T) {
	g := fixture()
	before := g.Len()
	removed := ontology.NewRemovedSet()

	ids, change := RemoveBranch(g, ontology.NewReferenceIndex(g), removed, iri("Nope"))

	assert.Empty(t, ids)
	assert.Equal(t, Change{}, change)
	assert.Equal(t, before, g.Len())
	assert.Equal(t, 0, removed.Len())
}

func TestRemoveBranchOverlapping(t *testing.T) {
	g := fixture()
	// E also sits under C
	g.AddRelation(iri("E"), owl.RDFSSubClassOf, iri("C"))
	idx := ontology.NewReferenceIndex(g)
	removed := ontology.NewRemovedSet()

	_, first := RemoveBranch(g, idx, removed, iri("B"))
	ids, second := RemoveBranch(g, idx, removed, iri("C"))

	assert.Equal(t, 3, first.Entities)
	assert.Equal(t, []ontology.IRI{iri("C")}, ids)
	assert.Equal(t, 1, second.Entities)
	assert.Equal(t, 4, removed.Len())
}

func TestStripSubTag(t *testing.T) {
	g := ontology.NewGraph("")
	p := iri("FULL_SYN")
	g.AddAnnotation(iri("A"), p, ontology.NewLiteral("<T>X</T><U>Y</U>", ontology.KindString))
	g.AddAnnotation(iri("B"), p, ontology.NewLiteral("<U>Z</U>", ontology.KindString))
	g.AddAnnotation(iri("C"), p, ontology.NewLangLiteral("<T>X</T>rest", "en"))

	change, err := StripSubTag(g, ComplexEntry{Property: p, Tag: "T"}, "")
	require.NoError(t, err)

	assert.Equal(t, 2, change.Removed)
	assert.Equal(t, 2, change.Added)
	assert.Equal(t, []string{"<U>Y</U>"}, literalsOf(g, iri("A"), p))
	assert.Equal(t, []string{"<U>Z</U>"}, literalsOf(g, iri("B"), p))

	rewritten := g.Values(iri("C"), p)
	require.Len(t, rewritten, 1)
	assert.Equal(t, "rest", rewritten[0].Value)
	assert.Equal(t, "en", rewritten[0].Lang, "language is kept")
}

func TestStripSubTagMergesIntoExistingValue(t *testing.T) {
	g := ontology.NewGraph("")
	p := iri("FULL_SYN")
	g.AddAnnotation(iri("A"), p, ontology.NewLiteral("<T>X</T><U>Y</U>", ontology.KindString))
	g.AddAnnotation(iri("A"), p, ontology.NewLiteral("<U>Y</U>", ontology.KindString))

	change, err := StripSubTag(g, ComplexEntry{Property: p, Tag: "T"}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, change.Removed)
	assert.Equal(t, 0, change.Added, "the rewritten value already existed")
	assert.Equal(t, []string{"<U>Y</U>"}, literalsOf(g, iri("A"), p))
	assert.Equal(t, 1, g.Len())
}

func TestStripSubTagQualified(t *testing.T) {
	g := ontology.NewGraph("")
	p := iri("FULL_SYN")
	g.AddAnnotation(iri("A"), p, ontology.NewLiteral("<name>Alpha</name><source>NCI</source>", ontology.KindString))
	g.AddAnnotation(iri("B"), p, ontology.NewLiteral("<name>Beta</name><source>FDA</source>", ontology.KindString))

	entry := ComplexEntry{
		Property:   p,
		Tag:        "name",
		Qualifiers: []annotation.Qualifier{{Tag: "source", Value: "NCI"}},
	}
	change, err := StripSubTag(g, entry, "")
	require.NoError(t, err)

	assert.Equal(t, 1, change.Removed)
	assert.Equal(t, []string{"<source>NCI</source>"}, literalsOf(g, iri("A"), p))
	assert.Equal(t, []string{"<name>Beta</name><source>FDA</source>"}, literalsOf(g, iri("B"), p))
}

func TestStripSubTagXMLLiteralPrefix(t *testing.T) {
	g := ontology.NewGraph("")
	p := iri("FULL_SYN")
	lit := "<ncicp:term-name>Alpha</ncicp:term-name><ncicp:term-source>NCI</ncicp:term-source>"
	g.AddAnnotation(iri("A"), p, ontology.NewLiteral(lit, ontology.KindXMLLiteral))

	_, err := StripSubTag(g, ComplexEntry{Property: p, Tag: "term-source"}, "ncicp")
	require.NoError(t, err)

	values := g.Values(iri("A"), p)
	require.Len(t, values, 1)
	assert.Equal(t, "<ncicp:term-name>Alpha</ncicp:term-name>", values[0].Value)
	assert.Equal(t, ontology.KindXMLLiteral, values[0].Kind)
}

func TestStripSubTagMalformed(t *testing.T) {
	g := ontology.NewGraph("")
	p := iri("FULL_SYN")
	g.AddAnnotation(iri("A"), p, ontology.NewLiteral("<T>never closed", ontology.KindString))
	g.AddAnnotation(iri("B"), p, ontology.NewLiteral("<T>X</T>", ontology.KindString))

	change, err := StripSubTag(g, ComplexEntry{Property: p, Tag: "T"}, "")

	require.Error(t, err)
	assert.True(t, errs.IsInvalid(err))
	assert.ErrorIs(t, err, annotation.ErrMalformedSpan)
	assert.Contains(t, err.Error(), string(iri("A")))
	assert.Equal(t, 1, change.Skipped)
	assert.Equal(t, []string{"<T>never closed"}, literalsOf(g, iri("A"), p))
	assert.Equal(t, []string{""}, literalsOf(g, iri("B"), p))
}

func TestDeriveCleanProperty(t *testing.T) {
	g := ontology.NewGraph("")
	src := iri("FULL_SYN")
	target := iri("Synonym")
	g.AddAnnotation(iri("A"), src, ontology.NewLiteral("<ncicp:term-name>A &amp; B</ncicp:term-name>", ontology.KindXMLLiteral))
	g.AddAnnotation(iri("A"), src, ontology.NewLiteral("<ncicp:term-name>A &amp; B</ncicp:term-name><ncicp:term-group>SY</ncicp:term-group>", ontology.KindXMLLiteral))
	g.AddAnnotation(iri("B"), src, ontology.NewLiteral("<ncicp:term-group>PT</ncicp:term-group>", ontology.KindXMLLiteral))

	change, err := DeriveCleanProperty(g, target, SimplifyEntry{Property: src, Tag: "term-name"}, "ncicp")
	require.NoError(t, err)

	assert.Equal(t, 1, change.Added, "duplicate values are asserted once")
	values := g.Values(iri("A"), target)
	require.Len(t, values, 1)
	assert.Equal(t, "A & B", values[0].Value)
	assert.Equal(t, ontology.KindString, values[0].Kind)
	assert.Len(t, g.Values(iri("A"), src), 2, "source axioms are kept")
	assert.Empty(t, g.Values(iri("B"), target))

	kind, ok := g.Kind(target)
	require.True(t, ok)
	assert.Equal(t, ontology.KindAnnotationProperty, kind)
}

func TestRemovePropertyQualified(t *testing.T) {
	p := iri("FULL_SYN")
	qualifiedGraph := func() *ontology.Graph {
		g := ontology.NewGraph("")
		g.Declare(p, ontology.KindAnnotationProperty)
		g.AddAnnotation(iri("A"), p, ontology.NewLiteral("<T>V</T><S>NCI</S>", ontology.KindString))
		g.AddAnnotation(iri("B"), p, ontology.NewLiteral("<T>W</T><S>NCI</S>", ontology.KindString))
		g.AddAnnotation(iri("C"), p, ontology.NewLiteral("<T>V</T><S>FDA</S>", ontology.KindString))
		return g
	}

	t.Run("single qualifier", func(t *testing.T) {
		g := qualifiedGraph()
		change := RemoveProperty(g, PropertyEntry{
			Property:   p,
			Qualifiers: []annotation.Qualifier{{Tag: "T", Value: "V"}},
		}, "")
		assert.Equal(t, 2, change.Removed)
		assert.Equal(t, 0, change.Entities)
		assert.Empty(t, g.Values(iri("A"), p))
		assert.Len(t, g.Values(iri("B"), p), 1, "<T>W</T> survives")
		assert.Empty(t, g.Values(iri("C"), p))
		assert.True(t, g.Has(p), "entity is kept")
	})

	t.Run("all qualifiers must match", func(t *testing.T) {
		g := qualifiedGraph()
		change := RemoveProperty(g, PropertyEntry{
			Property: p,
			Qualifiers: []annotation.Qualifier{
				{Tag: "T", Value: "V"},
				{Tag: "S", Value: "NCI"},
			},
		}, "")
		assert.Equal(t, 1, change.Removed)
		assert.Empty(t, g.Values(iri("A"), p))
		assert.Len(t, g.Values(iri("C"), p), 1)
	})
}

func TestRemovePropertyUnqualified(t *testing.T) {
	g := ontology.NewGraph("")
	p := iri("P90")
	g.Declare(p, ontology.KindDataProperty)
	g.AddAnnotation(p, owl.RDFSLabel, ontology.NewLiteral("FULL_SYN", ontology.KindPlain))
	g.AddAnnotation(iri("A"), p, ontology.NewLiteral("a", ontology.KindString))
	g.AddAnnotation(iri("B"), p, ontology.NewLiteral("b", ontology.KindString))
	g.AddAnnotation(iri("B"), iri("other"), ontology.NewLiteral("b", ontology.KindString))

	change := RemoveProperty(g, PropertyEntry{Property: p}, "")

	assert.Equal(t, 1, change.Entities)
	assert.Equal(t, 3, change.Removed)
	assert.False(t, g.Has(p))
	assert.Empty(t, g.AxiomsWithProperty(p))
	assert.Len(t, g.Values(iri("B"), iri("other")), 1)
}

func TestFixDanglingReferences(t *testing.T) {
	g := fixture()
	removed := ontology.NewRemovedSet()
	RemoveBranch(g, ontology.NewReferenceIndex(g), removed, iri("B"))
	removed.Freeze()

	dropped := FixDanglingReferences(g, removed, testNS)

	require.Len(t, dropped, 2)
	assert.Equal(t, string(iri("B")), dropped[0].Literal.Value)
	assert.Equal(t, "D", dropped[1].Literal.Value)

	for _, l := range g.Values(iri("X"), iri("related")) {
		assert.False(t, removed.Contains(ontology.Resolve(testNS, l.Value)))
	}
	assert.Equal(t, []string{"C"}, literalsOf(g, iri("X"), iri("related")))
	assert.Len(t, g.Values(iri("X"), iri("note")), 1, "non-URI literals are untouched")
}

func TestFixDanglingReferencesNothingRemoved(t *testing.T) {
	g := fixture()
	before := g.Len()
	assert.Empty(t, FixDanglingReferences(g, ontology.NewRemovedSet(), testNS))
	assert.Equal(t, before, g.Len())
}

func TestRemoveAllIndividuals(t *testing.T) {
	g := fixture()
	g.Declare(iri("i1"), ontology.KindIndividual)
	g.AddRelation(iri("i1"), owl.RDFType, iri("A"))
	g.AddAnnotation(iri("i1"), owl.RDFSLabel, ontology.NewLiteral("one", ontology.KindPlain))
	before := g.Len()

	change := RemoveAllIndividuals(g)

	assert.Equal(t, 1, change.Entities)
	assert.Equal(t, 2, change.Removed)
	assert.Equal(t, before-2, g.Len())
	assert.Empty(t, g.Individuals())
}

func TestRemoveEmptyAxiomsIdempotent(t *testing.T) {
	g := fixture()
	g.AddAnnotation(iri("A"), owl.RDFSComment, ontology.NewLangLiteral("", "en"))
	g.AddAnnotation(iri("A"), iri("P"), ontology.NewLiteral("", ontology.KindString))
	g.AddAnnotation(iri("B"), iri("P"), ontology.NewLiteral("", ontology.KindXMLLiteral))
	g.AddAnnotation(iri("B"), iri("P"), ontology.NewLiteral("x", ontology.KindString))
	before := g.Len()

	first := RemoveEmptyAxioms(g)
	after := g.Len()
	second := RemoveEmptyAxioms(g)

	assert.Equal(t, 3, first.Removed)
	assert.Equal(t, before-3, after)
	assert.Equal(t, 0, second.Removed)
	assert.Equal(t, after, g.Len())
	assert.Equal(t, []string{"x"}, literalsOf(g, iri("B"), iri("P")))
}
