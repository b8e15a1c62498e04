package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/owlscrubber/ontology"
)

func TestParse(t *testing.T) {
	c := Parse("lead<term-name>Aspirin</term-name>mid<term-group>PT</term-group>tail", "")

	require.Len(t, c.Spans, 2)
	assert.Equal(t, "term-name", c.Spans[0].Tag)
	assert.Equal(t, "Aspirin", c.Spans[0].Value)
	assert.Equal(t, "term-group", c.Spans[1].Tag)
	assert.Equal(t, "PT", c.Spans[1].Value)
	assert.Equal(t, "leadmidtail", c.Remainder)
	assert.Empty(t, c.Malformed)
}

func TestParse_Malformed(t *testing.T) {
	c := Parse("<term-name>Aspirin<term-group>PT</term-group>", "")

	require.Len(t, c.Spans, 1)
	assert.Equal(t, "term-group", c.Spans[0].Tag)
	assert.Equal(t, []string{"term-name"}, c.Malformed)
	assert.Equal(t, "<term-name>Aspirin", c.Remainder)
}

func TestParse_Prefix(t *testing.T) {
	literal := "<ncicp:term-name>Aspirin</ncicp:term-name><other:x>1</other:x>"

	c := Parse(literal, "ncicp:")

	require.Len(t, c.Spans, 1)
	assert.Equal(t, "term-name", c.Spans[0].Tag)
	assert.Equal(t, "Aspirin", c.Spans[0].Value)
	assert.Equal(t, "<other:x>1</other:x>", c.Remainder)
}

func TestParse_StrayAngleBrackets(t *testing.T) {
	c := Parse("a < b </x> c", "")

	assert.Empty(t, c.Spans)
	assert.Empty(t, c.Malformed)
	assert.Equal(t, "a < b </x> c", c.Remainder)
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name      string
		literal   string
		prefix    string
		tag       string
		want      string
		wantFound bool
		wantErr   error
	}{
		{
			name:      "removes only the named span",
			literal:   "<T>X</T><U>Y</U>",
			tag:       "T",
			want:      "<U>Y</U>",
			wantFound: true,
		},
		{
			name:    "absent tag leaves literal unchanged",
			literal: "<U>Y</U>",
			tag:     "T",
			want:    "<U>Y</U>",
		},
		{
			name:    "unclosed tag is malformed",
			literal: "<T>X<U>Y</U>",
			tag:     "T",
			want:    "<T>X<U>Y</U>",
			wantErr: ErrMalformedSpan,
		},
		{
			name:      "middle span with prefix",
			literal:   "<p:a>1</p:a><p:b>2</p:b><p:c>3</p:c>",
			prefix:    "p",
			tag:       "b",
			want:      "<p:a>1</p:a><p:c>3</p:c>",
			wantFound: true,
		},
		{
			name:      "only first occurrence",
			literal:   "<T>1</T><T>2</T>",
			tag:       "T",
			want:      "<T>2</T>",
			wantFound: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := Strip(tt.literal, tt.prefix, tt.tag)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue(t *testing.T) {
	v, found, err := Value("<term-name>A &amp; B</term-name>", "", "term-name")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "A &amp; B", v)
	assert.Equal(t, "A & B", Unescape(v))

	_, found, err = Value("<x>1</x>", "", "term-name")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestContainsAll(t *testing.T) {
	literal := "<term-name>Aspirin</term-name><term-source>NCI</term-source><term-group>PT</term-group>"

	assert.True(t, ContainsAll(literal, "", nil))
	assert.True(t, ContainsAll(literal, "", []Qualifier{{Tag: "term-source", Value: "NCI"}}))
	assert.True(t, ContainsAll(literal, "", []Qualifier{
		{Tag: "term-source", Value: "NCI"},
		{Tag: "term-group", Value: "PT"},
	}))
	assert.False(t, ContainsAll(literal, "", []Qualifier{
		{Tag: "term-source", Value: "NCI"},
		{Tag: "term-group", Value: "SY"},
	}))
	assert.False(t, ContainsAll(literal, "", []Qualifier{{Tag: "term-source", Value: "NC"}}))
}

func TestPairQualifiers(t *testing.T) {
	qs, err := PairQualifiers([]string{"term-source", "NCI", "term-group", "PT"})
	require.NoError(t, err)
	assert.Equal(t, []Qualifier{{"term-source", "NCI"}, {"term-group", "PT"}}, qs)
	assert.Equal(t, "<term-group>PT</term-group>", qs[1].String())

	_, err = PairQualifiers([]string{"term-source"})
	assert.ErrorIs(t, err, ErrOddQualifiers)
}

func TestIsEmpty(t *testing.T) {
	kinds := []ontology.LiteralKind{
		ontology.KindPlain, ontology.KindString, ontology.KindXMLLiteral, ontology.KindAnyURI,
	}
	for _, k := range kinds {
		assert.True(t, IsEmpty(ontology.NewLiteral("", k)), k.String())
		assert.False(t, IsEmpty(ontology.NewLiteral("x", k)), k.String())
	}
	assert.True(t, IsEmpty(ontology.NewLangLiteral("", "en")))

	structural := &ontology.Axiom{Subject: "a", Property: "p", Object: "b"}
	assert.False(t, IsEmptyAxiom(structural))
}
