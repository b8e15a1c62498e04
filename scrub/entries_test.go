package scrub

import (
	"testing"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/config"
)

func line(text string) config.ListLine {
	return config.ListLine{Text: text, Source: "list.txt", Number: 7}
}

func TestParseProperty(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      PropertyEntry
		wantErr   bool
		qualified bool
	}{
		{
			name: "whole property",
			text: "P90",
			want: PropertyEntry{Property: iri("P90"), Qualifiers: []annotation.Qualifier{}},
		},
		{
			name: "full IRI",
			text: "http://other.org/x#P1",
			want: PropertyEntry{Property: "http://other.org/x#P1", Qualifiers: []annotation.Qualifier{}},
		},
		{
			name:      "one qualifier",
			text:      "FULL_SYN\tterm-source\tFDA",
			want:      PropertyEntry{Property: iri("FULL_SYN"), Qualifiers: []annotation.Qualifier{{Tag: "term-source", Value: "FDA"}}},
			qualified: true,
		},
		{
			name: "two qualifiers",
			text: "FULL_SYN\tterm-source\tFDA\tterm-group\tSY",
			want: PropertyEntry{Property: iri("FULL_SYN"), Qualifiers: []annotation.Qualifier{
				{Tag: "term-source", Value: "FDA"},
				{Tag: "term-group", Value: "SY"},
			}},
			qualified: true,
		},
		{
			name:      "qualifier value keeps trailing space",
			text:      "FULL_SYN\t term-source \tNCI ",
			want:      PropertyEntry{Property: iri("FULL_SYN"), Qualifiers: []annotation.Qualifier{{Tag: "term-source", Value: "NCI "}}},
			qualified: true,
		},
		{
			name:      "trailing tab is an empty qualifier value",
			text:      "DEFINITION\tdef-source\t",
			want:      PropertyEntry{Property: iri("DEFINITION"), Qualifiers: []annotation.Qualifier{{Tag: "def-source", Value: ""}}},
			qualified: true,
		},
		{name: "even token count", text: "FULL_SYN\tterm-source", wantErr: true},
		{name: "empty property", text: "\tterm-source\tFDA", wantErr: true},
		{name: "empty qualifier tag", text: "FULL_SYN\t\tFDA", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProperty(testNS, line(tt.text))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedEntry)
				assert.True(t, errs.IsInvalid(err))
				assert.Contains(t, err.Error(), "list.txt:7")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.qualified, got.Qualified())
		})
	}
}

func TestParseComplex(t *testing.T) {
	entry, err := ParseComplex(testNS, line("FULL_SYN\tterm-source"))
	require.NoError(t, err)
	assert.Equal(t, iri("FULL_SYN"), entry.Property)
	assert.Equal(t, "term-source", entry.Tag)
	assert.Empty(t, entry.Qualifiers)

	entry, err = ParseComplex(testNS, line("FULL_SYN\tterm-source\tterm-group\tAB"))
	require.NoError(t, err)
	assert.Equal(t, []annotation.Qualifier{{Tag: "term-group", Value: "AB"}}, entry.Qualifiers)

	for _, bad := range []string{"FULL_SYN", "FULL_SYN\tterm-source\tterm-group", "FULL_SYN\t"} {
		_, err := ParseComplex(testNS, line(bad))
		assert.ErrorIs(t, err, ErrMalformedEntry, bad)
	}
}

func TestParseSimplify(t *testing.T) {
	entry, err := ParseSimplify(testNS, line("FULL_SYN\tterm-name"))
	require.NoError(t, err)
	assert.Equal(t, SimplifyEntry{Property: iri("FULL_SYN"), Tag: "term-name"}, entry)

	entry, err = ParseSimplify(testNS, line("FULL_SYN\tterm-name\t "))
	require.NoError(t, err, "trailing whitespace after the sub-tag")
	assert.Equal(t, "term-name", entry.Tag)

	_, err = ParseSimplify(testNS, line("FULL_SYN"))
	assert.ErrorIs(t, err, ErrMalformedEntry)
}

func TestParseBranch(t *testing.T) {
	root, err := ParseBranch(testNS, line("C12345"))
	require.NoError(t, err)
	assert.Equal(t, iri("C12345"), root)

	root, err = ParseBranch(testNS, line("  C12345\t"))
	require.NoError(t, err)
	assert.Equal(t, iri("C12345"), root)

	_, err = ParseBranch(testNS, line("C1\tC2"))
	assert.ErrorIs(t, err, ErrMalformedEntry)
}
