package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knakk/rdf"
)

// Format specifies an ontology serialization.
type Format string

const (
	// FormatRDFXML produces RDF/XML (.owl) output.
	FormatRDFXML Format = "rdfxml"

	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about a serialization format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extensions lists the file extensions (with dot), preferred first.
	Extensions []string

	// Description describes the format.
	Description string

	codec rdf.Format
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extensions:  []string{".owl", ".rdf", ".xml"},
		Description: "RDF/XML - the OWL exchange syntax",
		codec:       rdf.RDFXML,
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extensions:  []string{".ttl"},
		Description: "Turtle - Terse RDF Triple Language",
		codec:       rdf.Turtle,
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extensions:  []string{".nt"},
		Description: "N-Triples - Line-based RDF format",
		codec:       rdf.NTriples,
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat validates a format name. The empty string selects RDF/XML.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatRDFXML, nil
	}
	f := Format(strings.ToLower(name))
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported format: %s (valid: %s)", name, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// FormatNames returns the registered format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// FormatForPath picks a format from the extension of path, falling back to
// RDF/XML.
func FormatForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	for f, info := range FormatRegistry {
		for _, e := range info.Extensions {
			if e == ext {
				return f
			}
		}
	}
	return FormatRDFXML
}

// Codec returns the knakk/rdf format used to decode f.
func (f Format) Codec() rdf.Format {
	if info, ok := FormatRegistry[f]; ok {
		return info.codec
	}
	return rdf.RDFXML
}
