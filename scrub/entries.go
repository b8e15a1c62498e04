package scrub

import (
	"errors"
	"fmt"
	"strings"

	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/config"
	"github.com/c360studio/owlscrubber/ontology"
)

// ErrMalformedEntry marks a deletion list line that cannot be interpreted.
// Such entries are reported and skipped.
var ErrMalformedEntry = errors.New("malformed configuration entry")

// PropertyEntry is one line of the property-delete list.
type PropertyEntry struct {
	Property   ontology.IRI
	Qualifiers []annotation.Qualifier
}

// Qualified reports whether only matching axiom instances are removed.
func (e PropertyEntry) Qualified() bool {
	return len(e.Qualifiers) > 0
}

// ComplexEntry is one line of the complex-delete list.
type ComplexEntry struct {
	Property   ontology.IRI
	Tag        string
	Qualifiers []annotation.Qualifier
}

// SimplifyEntry is one line of the complex-simplify list.
type SimplifyEntry struct {
	Property ontology.IRI
	Tag      string
}

func splitTabs(text string) []string {
	return strings.Split(text, "\t")
}

func malformed(line config.ListLine, format string, args ...any) error {
	err := fmt.Errorf("%w: %s: %q: %s", ErrMalformedEntry, line, line.Text, fmt.Sprintf(format, args...))
	return errs.WrapInvalid(err, "scrub", "parse", "parse list entry")
}

// ParseBranch resolves a branch-delete line to a class IRI.
func ParseBranch(namespace string, line config.ListLine) (ontology.IRI, error) {
	tokens := splitTabs(strings.TrimRight(line.Text, " \t"))
	if len(tokens) != 1 || strings.TrimSpace(tokens[0]) == "" {
		return "", malformed(line, "expected a single class id")
	}
	return ontology.Resolve(namespace, strings.TrimSpace(tokens[0])), nil
}

// ParseProperty parses "property" or "property\t(tag\tvalue)+". An even
// token count cannot pair up and is rejected.
func ParseProperty(namespace string, line config.ListLine) (PropertyEntry, error) {
	tokens := splitTabs(line.Text)
	if strings.TrimSpace(tokens[0]) == "" {
		return PropertyEntry{}, malformed(line, "empty property")
	}
	if len(tokens)%2 == 0 {
		return PropertyEntry{}, malformed(line, "qualifiers must come in tag/value pairs, got %d tokens", len(tokens))
	}
	qs, err := qualifiers(line, tokens[1:])
	if err != nil {
		return PropertyEntry{}, err
	}
	return PropertyEntry{
		Property:   ontology.Resolve(namespace, strings.TrimSpace(tokens[0])),
		Qualifiers: qs,
	}, nil
}

// ParseComplex parses "property\tsubTag" followed by optional qualifier
// pairs.
func ParseComplex(namespace string, line config.ListLine) (ComplexEntry, error) {
	tokens := splitTabs(line.Text)
	if len(tokens) < 2 || strings.TrimSpace(tokens[0]) == "" {
		return ComplexEntry{}, malformed(line, "expected property and sub-tag")
	}
	if len(tokens)%2 != 0 {
		return ComplexEntry{}, malformed(line, "qualifiers must come in tag/value pairs, got %d tokens", len(tokens))
	}
	tag := strings.TrimSpace(tokens[1])
	if tag == "" {
		return ComplexEntry{}, malformed(line, "empty sub-tag")
	}
	qs, err := qualifiers(line, tokens[2:])
	if err != nil {
		return ComplexEntry{}, err
	}
	return ComplexEntry{
		Property:   ontology.Resolve(namespace, strings.TrimSpace(tokens[0])),
		Tag:        tag,
		Qualifiers: qs,
	}, nil
}

// ParseSimplify parses "property\tsubTag".
func ParseSimplify(namespace string, line config.ListLine) (SimplifyEntry, error) {
	tokens := splitTabs(strings.TrimRight(line.Text, " \t"))
	if len(tokens) != 2 || strings.TrimSpace(tokens[0]) == "" || strings.TrimSpace(tokens[1]) == "" {
		return SimplifyEntry{}, malformed(line, "expected property and sub-tag")
	}
	return SimplifyEntry{
		Property: ontology.Resolve(namespace, strings.TrimSpace(tokens[0])),
		Tag:      strings.TrimSpace(tokens[1]),
	}, nil
}

func qualifiers(line config.ListLine, tokens []string) ([]annotation.Qualifier, error) {
	qs, err := annotation.PairQualifiers(tokens)
	if err != nil {
		return nil, malformed(line, "%v", err)
	}
	for i := range qs {
		qs[i].Tag = strings.TrimSpace(qs[i].Tag)
		if qs[i].Tag == "" {
			return nil, malformed(line, "empty qualifier tag")
		}
	}
	return qs, nil
}
