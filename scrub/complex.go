package scrub

import (
	"fmt"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/hashicorp/go-multierror"

	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/ontology"
)

// StripSubTag removes the first <tag> span from every annotation of
// e.Property whose literal also holds every qualifier span. The rewritten
// axiom keeps subject, property, literal kind and language. Literals without
// the tag are untouched. Malformed spans are skipped and returned as
// recoverable errors.
func StripSubTag(g *ontology.Graph, e ComplexEntry, prefix string) (Change, error) {
	var (
		change Change
		result *multierror.Error
	)
	for _, a := range g.AxiomsWithProperty(e.Property) {
		if a.Literal == nil {
			continue
		}
		if !annotation.ContainsAll(a.Literal.Value, prefix, e.Qualifiers) {
			continue
		}
		reduced, found, err := annotation.Strip(a.Literal.Value, prefix, e.Tag)
		if err != nil {
			change.Skipped++
			result = multierror.Append(result, spanError(a, err, "StripSubTag"))
			continue
		}
		if !found {
			continue
		}
		lit := *a.Literal
		lit.Value = reduced
		change.Removed++
		if _, added := g.ReplaceLiteral(a.ID, lit); added {
			change.Added++
		}
	}
	return change, result.ErrorOrNil()
}

// DeriveCleanProperty asserts target=value (xsd:string) on every subject
// that has an e.Property literal holding a <e.Tag> span. The source axiom is
// kept. XML literal values are entity-decoded. Duplicates and empty values
// are not asserted.
func DeriveCleanProperty(g *ontology.Graph, target ontology.IRI, e SimplifyEntry, prefix string) (Change, error) {
	var (
		change Change
		result *multierror.Error
	)
	for _, a := range g.AxiomsWithProperty(e.Property) {
		if a.Literal == nil {
			continue
		}
		value, found, err := annotation.Value(a.Literal.Value, prefix, e.Tag)
		if err != nil {
			change.Skipped++
			result = multierror.Append(result, spanError(a, err, "DeriveCleanProperty"))
			continue
		}
		if !found || value == "" {
			continue
		}
		if a.Literal.Kind == ontology.KindXMLLiteral {
			value = annotation.Unescape(value)
		}
		if _, added := g.AddAnnotation(a.Subject, target, ontology.NewLiteral(value, ontology.KindString)); added {
			change.Added++
		}
	}
	if change.Added > 0 && !g.Has(target) {
		g.Declare(target, ontology.KindAnnotationProperty)
	}
	return change, result.ErrorOrNil()
}

func spanError(a *ontology.Axiom, err error, method string) error {
	return errs.WrapInvalid(
		fmt.Errorf("subject %s property %s literal %q: %w", a.Subject, a.Property.Fragment(), a.Literal.Value, err),
		"scrub", method, "parse compound literal")
}
