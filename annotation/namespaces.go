package annotation

import (
	"regexp"
)

var namespaceDecl = regexp.MustCompile(`\s+xmlns:([A-Za-z_][-A-Za-z0-9_.]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// SplitNamespaces removes the prefixed namespace declarations from XML
// literal markup. It returns the bare markup and the declared bindings,
// keyed by prefix. When a prefix is declared twice the first binding wins
// and conflicting later declarations are left in the markup.
func SplitNamespaces(markup string) (string, map[string]string) {
	bindings := make(map[string]string)
	bare := namespaceDecl.ReplaceAllStringFunc(markup, func(decl string) string {
		m := namespaceDecl.FindStringSubmatch(decl)
		prefix, ns := m[1], m[2]+m[3]
		if bound, ok := bindings[prefix]; ok && bound != ns {
			return decl
		}
		bindings[prefix] = ns
		return ""
	})
	return bare, bindings
}
