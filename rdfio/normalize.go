package rdfio

import (
	"bytes"
	"strings"

	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

// emptyMarker fills empty xml:lang property elements while decoding
// RDF/XML and is mapped back to "" by the loader. The decoder otherwise
// keeps the xml:lang of an empty property element in scope and stamps it
// on the following literals of the same subject.
const emptyMarker = "\uE000"

// normalizeRDFXML rewrites an RDF/XML document into a form the decoder
// reads faithfully:
//   - namespace declarations inside rdf:parseType="Literal" content move
//     to the root element (the decoder cannot resolve them in place);
//   - empty property elements carrying only xml attributes get emptyMarker
//     as content.
//
// Everything else is copied byte for byte.
func normalizeRDFXML(src []byte) []byte {
	n := &normalizer{
		src:     src,
		rootEnd: -1,
		root:    make(map[string]string),
	}
	n.out.Grow(len(src) + 256)
	n.run()
	return n.result()
}

type normalizer struct {
	src []byte
	out bytes.Buffer

	depth        int
	literalDepth int // depth of the open parseType="Literal" element, 0 outside

	rootEnd int               // offset in out where root declarations are inserted
	root    map[string]string // prefix -> raw namespace declared on the root
	hoisted []string          // raw xmlns attributes to add to the root
}

type xmlAttr struct {
	name  string
	value string
	raw   string
}

type startTag struct {
	name        string
	attrs       []xmlAttr
	selfClosing bool
}

func (n *normalizer) run() {
	src := n.src
	i := 0
	for i < len(src) {
		lt := bytes.IndexByte(src[i:], '<')
		if lt < 0 {
			n.out.Write(src[i:])
			return
		}
		n.out.Write(src[i : i+lt])
		i += lt
		rest := src[i:]

		var size int
		switch {
		case bytes.HasPrefix(rest, []byte("<!--")):
			size = through(rest, "-->")
		case bytes.HasPrefix(rest, []byte("<![CDATA[")):
			size = through(rest, "]]>")
		case bytes.HasPrefix(rest, []byte("<?")):
			size = through(rest, "?>")
		case bytes.HasPrefix(rest, []byte("<!")):
			size = declarationEnd(rest)
		case bytes.HasPrefix(rest, []byte("</")):
			size = tagEnd(rest)
			if n.literalDepth > 0 && n.depth == n.literalDepth {
				n.literalDepth = 0
			}
			n.depth--
		default:
			size = tagEnd(rest)
			n.startTag(rest[:size], rest[size:])
			i += size
			continue
		}
		n.out.Write(rest[:size])
		i += size
	}
}

func (n *normalizer) startTag(raw, after []byte) {
	tag, ok := parseStartTag(raw)
	if !ok {
		n.out.Write(raw)
		if !bytes.HasSuffix(raw, []byte("/>")) {
			n.depth++
		}
		return
	}
	if !tag.selfClosing {
		n.depth++
	}

	switch {
	case n.rootEnd < 0:
		n.openRoot(raw, tag)
	case n.literalDepth > 0:
		n.literalTag(raw, tag)
	case n.isLiteralProperty(tag) && !tag.selfClosing:
		n.literalDepth = n.depth
		n.out.Write(raw)
	case isEmptyLangElement(tag, after):
		n.writeTag(tag.name, tag.attrs, false)
		n.out.WriteString(emptyMarker)
		if tag.selfClosing {
			n.out.WriteString("</" + tag.name + ">")
		}
	default:
		n.out.Write(raw)
	}
}

func (n *normalizer) openRoot(raw []byte, tag startTag) {
	for _, a := range tag.attrs {
		if p, ok := strings.CutPrefix(a.name, "xmlns:"); ok {
			n.root[p] = a.value
		}
	}
	n.out.Write(raw)
	end := len(">")
	if tag.selfClosing {
		end = len("/>")
	}
	n.rootEnd = n.out.Len() - end
}

// literalTag drops prefixed namespace declarations from a tag inside XML
// literal content, hoisting unknown ones to the root. A prefix the root
// binds to a different namespace is left in place.
func (n *normalizer) literalTag(raw []byte, tag startTag) {
	kept := make([]xmlAttr, 0, len(tag.attrs))
	for _, a := range tag.attrs {
		p, ok := strings.CutPrefix(a.name, "xmlns:")
		if !ok {
			kept = append(kept, a)
			continue
		}
		bound, exists := n.root[p]
		switch {
		case !exists:
			n.root[p] = a.value
			n.hoisted = append(n.hoisted, a.raw)
		case bound != a.value:
			kept = append(kept, a)
		}
	}
	if len(kept) == len(tag.attrs) {
		n.out.Write(raw)
		return
	}
	n.writeTag(tag.name, kept, tag.selfClosing)
}

func (n *normalizer) writeTag(name string, attrs []xmlAttr, selfClosing bool) {
	n.out.WriteString("<" + name)
	for _, a := range attrs {
		n.out.WriteString(" " + a.raw)
	}
	if selfClosing {
		n.out.WriteString("/>")
		return
	}
	n.out.WriteByte('>')
}

func (n *normalizer) isLiteralProperty(tag startTag) bool {
	for _, a := range tag.attrs {
		if n.isRDF(a.name, "parseType") {
			return a.value != "Resource" && a.value != "Collection"
		}
	}
	return false
}

func (n *normalizer) isRDF(name, local string) bool {
	p, l, ok := strings.Cut(name, ":")
	if !ok || l != local {
		return false
	}
	return p == "rdf" || n.root[p] == owl.RDFNamespace
}

func (n *normalizer) result() []byte {
	if len(n.hoisted) == 0 || n.rootEnd < 0 {
		return n.out.Bytes()
	}
	b := n.out.Bytes()
	var decl strings.Builder
	for _, raw := range n.hoisted {
		decl.WriteString(" " + raw)
	}
	out := make([]byte, 0, len(b)+decl.Len())
	out = append(out, b[:n.rootEnd]...)
	out = append(out, decl.String()...)
	return append(out, b[n.rootEnd:]...)
}

// isEmptyLangElement reports whether tag is an empty element whose only
// attributes are xml:* or namespace declarations, one of them xml:lang.
func isEmptyLangElement(tag startTag, after []byte) bool {
	lang := false
	for _, a := range tag.attrs {
		switch {
		case a.name == "xml:lang":
			lang = true
		case strings.HasPrefix(a.name, "xml:"), a.name == "xmlns", strings.HasPrefix(a.name, "xmlns:"):
		default:
			return false
		}
	}
	if !lang {
		return false
	}
	return tag.selfClosing || bytes.HasPrefix(after, []byte("</"+tag.name+">"))
}

// parseStartTag splits a raw start tag into its name and attributes.
func parseStartTag(raw []byte) (startTag, bool) {
	s := string(raw)
	if len(s) < 3 || s[0] != '<' || s[len(s)-1] != '>' {
		return startTag{}, false
	}
	var tag startTag
	s = s[1 : len(s)-1]
	if strings.HasSuffix(s, "/") {
		tag.selfClosing = true
		s = s[:len(s)-1]
	}

	end := strings.IndexAny(s, " \t\r\n")
	if end < 0 {
		end = len(s)
	}
	tag.name = s[:end]
	if tag.name == "" {
		return startTag{}, false
	}

	s = s[end:]
	for {
		s = strings.TrimLeft(s, " \t\r\n")
		if s == "" {
			return tag, true
		}
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return startTag{}, false
		}
		name := strings.TrimRight(s[:eq], " \t\r\n")
		v := strings.TrimLeft(s[eq+1:], " \t\r\n")
		if v == "" || (v[0] != '"' && v[0] != '\'') {
			return startTag{}, false
		}
		closing := strings.IndexByte(v[1:], v[0])
		if closing < 0 {
			return startTag{}, false
		}
		value := v[1 : closing+1]
		consumed := len(s) - len(v) + closing + 2
		tag.attrs = append(tag.attrs, xmlAttr{name: name, value: value, raw: s[:consumed]})
		s = s[consumed:]
	}
}

// through returns the length of rest up to and including term.
func through(rest []byte, term string) int {
	idx := bytes.Index(rest, []byte(term))
	if idx < 0 {
		return len(rest)
	}
	return idx + len(term)
}

// tagEnd returns the length of the tag at the start of rest, honouring
// quoted attribute values.
func tagEnd(rest []byte) int {
	var quote byte
	for i := 1; i < len(rest); i++ {
		c := rest[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i + 1
		}
	}
	return len(rest)
}

// declarationEnd returns the length of a <!DOCTYPE ...> style declaration,
// including any internal subset.
func declarationEnd(rest []byte) int {
	var quote byte
	brackets := 0
	for i := 2; i < len(rest); i++ {
		c := rest[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			brackets++
		case c == ']':
			brackets--
		case c == '>' && brackets <= 0:
			return i + 1
		}
	}
	return len(rest)
}
