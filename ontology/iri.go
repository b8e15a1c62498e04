// Package ontology provides the in-memory ontology graph mutated by the
// scrubbing phases: declared entities, annotation and structural axioms,
// and the indexes built over them.
package ontology

import "strings"

// IRI identifies an entity, a property, or a blank node ("_:" prefix).
type IRI string

// String returns the IRI as a plain string.
func (i IRI) String() string {
	return string(i)
}

// IsBlank reports whether the IRI names a blank node.
func (i IRI) IsBlank() bool {
	return strings.HasPrefix(string(i), "_:")
}

// Fragment returns the local name of the IRI: the text after the last '#',
// or after the last '/' when the IRI has no fragment.
func (i IRI) Fragment() string {
	s := string(i)
	if idx := strings.LastIndexByte(s, '#'); idx >= 0 {
		return s[idx+1:]
	}
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// Resolve turns a configuration identifier into an IRI. Full IRIs are
// returned unchanged; bare names are joined to namespace with '#'.
func Resolve(namespace, id string) IRI {
	if strings.Contains(id, "://") || strings.HasPrefix(id, "urn:") || strings.HasPrefix(id, "_:") {
		return IRI(id)
	}
	ns := strings.TrimSuffix(namespace, "#")
	return IRI(ns + "#" + id)
}
