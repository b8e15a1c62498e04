// Package flatfile produces the denormalized, one line per class,
// tab-separated export of a scrubbed ontology.
package flatfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/c360studio/owlscrubber/annotation"
	"github.com/c360studio/owlscrubber/config"
	"github.com/c360studio/owlscrubber/ontology"
	"github.com/c360studio/owlscrubber/reasoner"
	"github.com/c360studio/owlscrubber/vocabulary/owl"
)

// RootToken replaces owl:Thing in the parent column.
const RootToken = "root_node"

const defaultCacheSize = 4096

// Fields names the annotation properties read for each record.
type Fields struct {
	Code          ontology.IRI
	PreferredName ontology.IRI
	Synonym       ontology.IRI
	SynonymTag    string
	Definition    ontology.IRI
	DefinitionTag string
	DisplayName   ontology.IRI
	Status        ontology.IRI
	SemanticType  ontology.IRI
	// RetiredMarker is the status prefix that moves a class to the retired
	// block.
	RetiredMarker string
}

// FieldsFromConfig resolves the configured property names against the
// ontology namespace.
func FieldsFromConfig(cfg *config.Config) Fields {
	ns := cfg.Namespace
	f := cfg.Flat
	return Fields{
		Code:          ontology.Resolve(ns, f.Code),
		PreferredName: ontology.Resolve(ns, f.PreferredName),
		Synonym:       ontology.Resolve(ns, f.Synonym),
		SynonymTag:    f.SynonymTag,
		Definition:    ontology.Resolve(ns, f.Definition),
		DefinitionTag: f.DefinitionTag,
		DisplayName:   ontology.Resolve(ns, f.DisplayName),
		Status:        ontology.Resolve(ns, f.Status),
		SemanticType:  ontology.Resolve(ns, f.SemanticType),
		RetiredMarker: f.RetiredMarker,
	}
}

// Generator builds flat records from a graph and a super-class relation.
type Generator struct {
	graph  *ontology.Graph
	supers map[ontology.IRI][][]ontology.IRI
	fields Fields
	prefix string
	codes  *lru.Cache[ontology.IRI, string]
	logger *slog.Logger
}

// NewGenerator computes the super-class relation of g with r and prepares a
// generator. prefix is the compound-literal tag prefix, empty outside XML
// literal mode. A cacheSize of zero selects the default.
func NewGenerator(g *ontology.Graph, r reasoner.Reasoner, fields Fields, prefix string, cacheSize int, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	codes, err := lru.New[ontology.IRI, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create parent code cache: %w", err)
	}
	return &Generator{
		graph:  g,
		supers: r.SuperClasses(g),
		fields: fields,
		prefix: prefix,
		codes:  codes,
		logger: logger,
	}, nil
}

// Generate returns one record per class: active records sorted by key,
// then retired records sorted by key.
func (gen *Generator) Generate() []Record {
	active := make([]Record, 0)
	retired := make([]Record, 0)
	for _, class := range gen.graph.Classes() {
		if class.IsBlank() {
			continue
		}
		rec := gen.Record(class)
		if rec.Retired {
			retired = append(retired, rec)
		} else {
			active = append(active, rec)
		}
	}
	sortByKey(active)
	sortByKey(retired)
	gen.logger.Debug("Generated flat records",
		slog.Int("active", len(active)),
		slog.Int("retired", len(retired)))
	return append(active, retired...)
}

// WriteTo writes every record as one line, flushing after each.
func (gen *Generator) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, rec := range gen.Generate() {
		written, err := bw.WriteString(rec.Line() + "\n")
		n += int64(written)
		if err != nil {
			return n, fmt.Errorf("write record %s: %w", rec.Key, err)
		}
		if err := bw.Flush(); err != nil {
			return n, fmt.Errorf("flush record %s: %w", rec.Key, err)
		}
	}
	return n, nil
}

// Record builds the record of one class.
func (gen *Generator) Record(class ontology.IRI) Record {
	f := gen.fields
	rec := Record{
		Key:           class,
		Code:          gen.first(class, f.Code),
		Parents:       gen.parentCodes(class),
		DisplayNames:  gen.values(class, f.DisplayName),
		Statuses:      gen.values(class, f.Status),
		SemanticTypes: gen.values(class, f.SemanticType),
	}

	preferred := gen.first(class, f.PreferredName)
	if preferred == "" {
		preferred = class.Fragment()
	}
	rec.Terms = terms(preferred, gen.tagValues(class, f.Synonym, f.SynonymTag))

	if defs := gen.tagValues(class, f.Definition, f.DefinitionTag); len(defs) > 0 {
		rec.Definition = defs[0]
	}

	for _, s := range rec.Statuses {
		if f.RetiredMarker != "" && strings.HasPrefix(s, f.RetiredMarker) {
			rec.Retired = true
			break
		}
	}
	return rec
}

// parentCodes returns the sorted, distinct codes of the direct super
// classes. A parent without a code contributes its fragment.
func (gen *Generator) parentCodes(class ontology.IRI) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, group := range gen.supers[class] {
		for _, p := range group {
			code := gen.parentCode(p)
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

func (gen *Generator) parentCode(p ontology.IRI) string {
	if code, ok := gen.codes.Get(p); ok {
		return code
	}
	code := gen.first(p, gen.fields.Code)
	if code == "" {
		code = p.Fragment()
		if p == owl.Thing || code == owl.ThingFragment {
			code = RootToken
		}
	}
	gen.codes.Add(p, code)
	return code
}

func (gen *Generator) first(subject, property ontology.IRI) string {
	values := gen.graph.Values(subject, property)
	if len(values) == 0 {
		return ""
	}
	return values[0].Value
}

func (gen *Generator) values(subject, property ontology.IRI) []string {
	lits := gen.graph.Values(subject, property)
	out := make([]string, 0, len(lits))
	for _, l := range lits {
		out = append(out, l.Value)
	}
	return out
}

// tagValues returns the distinct, entity-decoded values of tag found in the
// property's compound literals, in literal order.
func (gen *Generator) tagValues(subject, property ontology.IRI, tag string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, l := range gen.graph.Values(subject, property) {
		v, found, err := annotation.Value(l.Value, gen.prefix, tag)
		if err != nil {
			gen.logger.Warn("Could not parse qualifier value",
				slog.String("class", subject.String()),
				slog.String("literal", l.Value),
				slog.String("error", err.Error()))
			continue
		}
		if !found {
			continue
		}
		v = annotation.Unescape(v)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// terms puts preferred first, followed by the sorted synonyms other than
// preferred.
func terms(preferred string, synonyms []string) []string {
	rest := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		if s != preferred {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append([]string{preferred}, rest...)
}

func sortByKey(records []Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
}
