package flatfile

import (
	"strings"

	"github.com/c360studio/owlscrubber/ontology"
)

// Record is the flattened view of one class.
type Record struct {
	Key           ontology.IRI
	Code          string
	Parents       []string
	Terms         []string
	Definition    string
	DisplayNames  []string
	Statuses      []string
	SemanticTypes []string
	Retired       bool
}

// Fields returns the seven record fields in output order.
func (r Record) Fields() []string {
	return []string{
		r.Code,
		join(r.Parents),
		join(r.Terms),
		r.Definition,
		join(r.DisplayNames),
		join(r.Statuses),
		join(r.SemanticTypes),
	}
}

// Line renders the record as written to the flat file: the code, the
// angle-bracketed class IRI, then the remaining six fields, tab separated.
func (r Record) Line() string {
	fields := r.Fields()
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, fields[0], "<"+string(r.Key)+">")
	cols = append(cols, fields[1:]...)
	return strings.Join(cols, "\t")
}

func join(values []string) string {
	return strings.Join(values, "|")
}
