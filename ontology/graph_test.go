package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

const ns = "http://example.org/onto"

func TestIRIFragment(t *testing.T) {
	tests := []struct {
		iri  IRI
		want string
	}{
		{IRI(ns + "#C123"), "C123"},
		{IRI("http://example.org/path/Thing"), "Thing"},
		{IRI("plain"), "plain"},
		{IRI(owl.Thing), "Thing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.iri.Fragment(), "fragment of %s", tt.iri)
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, IRI(ns+"#C1"), Resolve(ns, "C1"))
	assert.Equal(t, IRI(ns+"#C1"), Resolve(ns+"#", "C1"))
	assert.Equal(t, IRI("http://other.org/x#Y"), Resolve(ns, "http://other.org/x#Y"))
}

func TestGraph_AddAxiomDeduplicates(t *testing.T) {
	g := NewGraph(IRI(ns))
	c := IRI(ns + "#C1")
	p := IRI(ns + "#Preferred_Name")

	a1, added := g.AddAnnotation(c, p, NewLiteral("Alpha", KindString))
	require.True(t, added)
	a2, added := g.AddAnnotation(c, p, NewLiteral("Alpha", KindString))
	assert.False(t, added)
	assert.Equal(t, a1.ID, a2.ID)

	_, added = g.AddAnnotation(c, p, NewLiteral("Alpha", KindXMLLiteral))
	assert.True(t, added, "different literal kind is a different axiom")
	assert.Equal(t, 2, g.Len())
}

func TestGraph_RemoveEntity(t *testing.T) {
	g := NewGraph(IRI(ns))
	parent := IRI(ns + "#P")
	child := IRI(ns + "#C")
	other := IRI(ns + "#O")
	label := IRI(owl.RDFSLabel)
	g.Declare(parent, KindClass)
	g.Declare(child, KindClass)
	g.Declare(other, KindClass)
	g.AddRelation(child, owl.RDFSSubClassOf, parent)
	g.AddAnnotation(parent, label, NewLiteral("parent", KindPlain))
	g.AddAnnotation(other, label, NewLiteral(string(parent), KindAnyURI))

	removed := g.RemoveEntity(parent)

	assert.Equal(t, 2, removed, "subclass edge and own label")
	assert.False(t, g.Has(parent))
	assert.Empty(t, g.SuperClassesOf(child))
	assert.Len(t, g.AnnotationsOf(other), 1, "literal references survive entity removal")
}

func TestGraph_ReplaceLiteral(t *testing.T) {
	g := NewGraph(IRI(ns))
	c := IRI(ns + "#C")
	p := IRI(ns + "#FULL_SYN")
	a, _ := g.AddAnnotation(c, p, NewLiteral("<term-name>x</term-name>", KindXMLLiteral))

	b, added := g.ReplaceLiteral(a.ID, NewLiteral("", KindXMLLiteral))

	require.NotNil(t, b)
	assert.True(t, added)
	assert.NotEqual(t, a.ID, b.ID)
	_, ok := g.Axiom(a.ID)
	assert.False(t, ok)
	assert.Equal(t, []Literal{NewLiteral("", KindXMLLiteral)}, g.Values(c, p))

	missing, added := g.ReplaceLiteral(a.ID, NewLiteral("y", KindString))
	assert.Nil(t, missing)
	assert.False(t, added)
}

func TestGraph_ReplaceLiteralMerges(t *testing.T) {
	g := NewGraph(IRI(ns))
	c := IRI(ns + "#C")
	p := IRI(ns + "#FULL_SYN")
	a, _ := g.AddAnnotation(c, p, NewLiteral("<T>x</T>y", KindString))
	existing, _ := g.AddAnnotation(c, p, NewLiteral("y", KindString))

	b, added := g.ReplaceLiteral(a.ID, NewLiteral("y", KindString))

	assert.False(t, added)
	assert.Equal(t, existing.ID, b.ID)
	assert.Equal(t, 1, g.Len())
}

func TestGraph_BindNamespace(t *testing.T) {
	g := NewGraph(IRI(ns))

	assert.True(t, g.BindNamespace("ncicp", "urn:cp#"))
	assert.True(t, g.BindNamespace("ncicp", "urn:cp#"))
	assert.False(t, g.BindNamespace("ncicp", "urn:other#"))
	assert.Equal(t, map[string]string{"ncicp": "urn:cp#"}, g.Namespaces)
}

func TestGraph_AxiomsInsertionOrder(t *testing.T) {
	g := NewGraph(IRI(ns))
	c := IRI(ns + "#C")
	p := IRI(ns + "#Display_Name")
	for _, v := range []string{"zeta", "alpha", "mu"} {
		g.AddAnnotation(c, p, NewLiteral(v, KindString))
	}
	var got []string
	for _, l := range g.Values(c, p) {
		got = append(got, l.Value)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mu"}, got)
}
