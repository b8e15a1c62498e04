// Package annotation decodes the flat tag markup embedded in compound
// annotation literals, such as
//
//	<ncicp:term-name>Aspirin</ncicp:term-name><ncicp:term-group>PT</ncicp:term-group>
//
// Tags are not nested: a span runs from <tag> to the first following </tag>.
// When a prefix is configured only prefix-qualified tags are recognised, and
// span tags are reported without the prefix.
package annotation

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrMalformedSpan is returned when a tag is opened but never closed.
	ErrMalformedSpan = errors.New("malformed tag span")

	// ErrOddQualifiers is returned when qualifier tokens do not pair up.
	ErrOddQualifiers = errors.New("qualifier tokens must come in tag/value pairs")
)

// Span is one well-formed <tag>value</tag> occurrence. Start and End are
// byte offsets of the whole span, including both tags.
type Span struct {
	Tag   string
	Value string
	Start int
	End   int
}

// Compound is the parsed form of a literal.
type Compound struct {
	Spans []Span
	// Remainder is the literal text outside every well-formed span.
	Remainder string
	// Malformed lists tags that were opened without a matching close.
	Malformed []string
}

// Qualifier is a (tag, exact value) filter on a compound literal.
type Qualifier struct {
	Tag   string
	Value string
}

// String renders the qualifier as the span it matches.
func (q Qualifier) String() string {
	return fmt.Sprintf("<%s>%s</%s>", q.Tag, q.Value, q.Tag)
}

// NormalizePrefix strips a trailing ':' so "ncicp" and "ncicp:" are equal.
func NormalizePrefix(prefix string) string {
	return strings.TrimSuffix(strings.TrimSpace(prefix), ":")
}

// Parse splits literal into spans, remainder text, and malformed tags.
func Parse(literal, prefix string) Compound {
	prefix = NormalizePrefix(prefix)
	var c Compound
	var rest strings.Builder
	i := 0
	for i < len(literal) {
		lt := strings.IndexByte(literal[i:], '<')
		if lt < 0 {
			rest.WriteString(literal[i:])
			break
		}
		open := i + lt
		rest.WriteString(literal[i:open])

		name, after, ok := openTag(literal, open)
		if !ok {
			rest.WriteByte('<')
			i = open + 1
			continue
		}
		tag, ok := localTag(name, prefix)
		if !ok {
			rest.WriteString(literal[open:after])
			i = after
			continue
		}
		closing := "</" + name + ">"
		end := strings.Index(literal[after:], closing)
		if end < 0 {
			c.Malformed = append(c.Malformed, tag)
			rest.WriteString(literal[open:after])
			i = after
			continue
		}
		valueEnd := after + end
		spanEnd := valueEnd + len(closing)
		c.Spans = append(c.Spans, Span{
			Tag:   tag,
			Value: literal[after:valueEnd],
			Start: open,
			End:   spanEnd,
		})
		i = spanEnd
	}
	c.Remainder = rest.String()
	return c
}

// openTag reads "<name>" at pos and returns the name and the offset just
// past '>'.
func openTag(s string, pos int) (string, int, bool) {
	j := pos + 1
	for j < len(s) && isNameByte(s[j]) {
		j++
	}
	if j == pos+1 || j >= len(s) || s[j] != '>' {
		return "", 0, false
	}
	return s[pos+1 : j], j + 1, true
}

func isNameByte(b byte) bool {
	return b == '-' || b == '_' || b == '.' || b == ':' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func localTag(name, prefix string) (string, bool) {
	if prefix == "" {
		return name, true
	}
	if !strings.HasPrefix(name, prefix+":") {
		return "", false
	}
	return name[len(prefix)+1:], true
}

// Find returns the first span of tag. It reports ErrMalformedSpan when tag
// occurs only as an unclosed open tag.
func (c Compound) Find(tag string) (Span, bool, error) {
	for _, s := range c.Spans {
		if s.Tag == tag {
			return s, true, nil
		}
	}
	for _, m := range c.Malformed {
		if m == tag {
			return Span{}, false, fmt.Errorf("%w: <%s> not closed", ErrMalformedSpan, tag)
		}
	}
	return Span{}, false, nil
}

// Values returns every value of tag, in literal order.
func (c Compound) Values(tag string) []string {
	out := make([]string, 0)
	for _, s := range c.Spans {
		if s.Tag == tag {
			out = append(out, s.Value)
		}
	}
	return out
}

// Has reports whether the literal holds a span <tag>value</tag>.
func (c Compound) Has(q Qualifier) bool {
	for _, s := range c.Spans {
		if s.Tag == q.Tag && s.Value == q.Value {
			return true
		}
	}
	return false
}

// Strip removes the first well-formed span of tag from literal and returns
// the reduced literal. Every other span is preserved verbatim. found is
// false, and literal is returned unchanged, when the tag is absent; err is
// ErrMalformedSpan when the tag is present but unclosed.
func Strip(literal, prefix, tag string) (string, bool, error) {
	s, found, err := Parse(literal, prefix).Find(tag)
	if err != nil || !found {
		return literal, false, err
	}
	return literal[:s.Start] + literal[s.End:], true, nil
}

// Value extracts the first value of tag from literal.
func Value(literal, prefix, tag string) (string, bool, error) {
	s, found, err := Parse(literal, prefix).Find(tag)
	if err != nil || !found {
		return "", false, err
	}
	return s.Value, true, nil
}

// ContainsAll reports whether literal contains a span for every qualifier.
// An empty qualifier list always matches.
func ContainsAll(literal, prefix string, qs []Qualifier) bool {
	if len(qs) == 0 {
		return true
	}
	c := Parse(literal, prefix)
	for _, q := range qs {
		if !c.Has(q) {
			return false
		}
	}
	return true
}

// PairQualifiers turns tag, value, tag, value, ... tokens into qualifiers.
func PairQualifiers(tokens []string) ([]Qualifier, error) {
	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d tokens", ErrOddQualifiers, len(tokens))
	}
	qs := make([]Qualifier, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		qs = append(qs, Qualifier{Tag: tokens[i], Value: tokens[i+1]})
	}
	return qs, nil
}

// Unescape decodes XML character entities in a span value.
func Unescape(value string) string {
	return html.UnescapeString(value)
}
