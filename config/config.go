// Package config provides configuration loading and management for the
// ontology scrubber.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported serialization formats.
const (
	FormatRDFXML   = "rdfxml"
	FormatTurtle   = "turtle"
	FormatNTriples = "ntriples"
)

// Config represents the complete scrubber configuration
type Config struct {
	// Namespace is the ontology namespace used to resolve bare identifiers
	// from the configuration lists (namespace#id).
	Namespace string `yaml:"namespace"`
	// Input is the ontology source location (path, file:// or s3:// URI).
	Input string `yaml:"input"`
	// InputFormat overrides format detection from the input extension.
	InputFormat string `yaml:"input_format"`
	// Output is the scrubbed ontology destination.
	Output string `yaml:"output"`
	// Format is the output serialization (rdfxml, turtle, ntriples).
	Format string `yaml:"format"`

	Lists    ListsConfig       `yaml:"lists"`
	Scrub    ScrubConfig       `yaml:"scrub"`
	Simplify SimplifyConfig    `yaml:"simplify"`
	Flat     FlatConfig        `yaml:"flat"`
	Prefixes map[string]string `yaml:"prefixes"`
	S3       S3Config          `yaml:"s3"`
}

// ListsConfig points at the four deletion lists. Each entry may be a
// doublestar glob.
type ListsConfig struct {
	BranchDelete    string `yaml:"branch_delete"`
	PropsDelete     string `yaml:"props_delete"`
	ComplexDelete   string `yaml:"complex_delete"`
	ComplexSimplify string `yaml:"complex_simplify"`
}

// ScrubConfig toggles the optional phases
type ScrubConfig struct {
	// Empty removes annotation axioms with empty values.
	Empty bool `yaml:"empty"`
	// KeepIndividuals disables individual suppression.
	KeepIndividuals bool `yaml:"keep_individuals"`
	// Literals declares that compound values are XML literals whose tags
	// carry Prefix.
	Literals bool   `yaml:"literals"`
	Prefix   string `yaml:"prefix"`
	// Pretty skips every scrubbing phase and only re-serializes.
	Pretty bool `yaml:"pretty"`
	// ConstructSynonyms derives simple properties from the simplify list.
	ConstructSynonyms bool `yaml:"construct_synonyms"`
}

// SimplifyConfig configures clean-property construction
type SimplifyConfig struct {
	// TargetProperty is the property asserted with extracted values.
	TargetProperty string `yaml:"target_property"`
}

// FlatConfig configures the flat-file export. Property values are resolved
// against Namespace.
type FlatConfig struct {
	// Output enables the export when set.
	Output string `yaml:"output"`

	Code          string `yaml:"code"`
	PreferredName string `yaml:"preferred_name"`
	Synonym       string `yaml:"synonym"`
	SynonymTag    string `yaml:"synonym_tag"`
	Definition    string `yaml:"definition"`
	DefinitionTag string `yaml:"definition_tag"`
	DisplayName   string `yaml:"display_name"`
	Status        string `yaml:"status"`
	SemanticType  string `yaml:"semantic_type"`
	RetiredMarker string `yaml:"retired_marker"`
	// CacheSize bounds the parent-code lookup cache.
	CacheSize int `yaml:"cache_size"`
}

// S3Config holds credentials for s3:// locations
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Format: FormatRDFXML,
		Simplify: SimplifyConfig{
			TargetProperty: "Synonym",
		},
		Flat: FlatConfig{
			Code:          "code",
			PreferredName: "Preferred_Name",
			Synonym:       "FULL_SYN",
			SynonymTag:    "term-name",
			Definition:    "DEFINITION",
			DefinitionTag: "def-definition",
			DisplayName:   "Display_Name",
			Status:        "Concept_Status",
			SemanticType:  "Semantic_Type",
			RetiredMarker: "Retired_Concept",
			CacheSize:     4096,
		},
		Prefixes: map[string]string{},
		S3: S3Config{
			Region: "us-east-1",
			UseSSL: true,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if !ValidFormat(c.Format) {
		return fmt.Errorf("unsupported format: %s (valid: rdfxml, turtle, ntriples)", c.Format)
	}
	if c.InputFormat != "" && !ValidFormat(c.InputFormat) {
		return fmt.Errorf("unsupported input_format: %s (valid: rdfxml, turtle, ntriples)", c.InputFormat)
	}
	if c.Scrub.Literals && c.Scrub.Prefix == "" {
		return fmt.Errorf("scrub.prefix is required when scrub.literals is set")
	}
	if c.Scrub.ConstructSynonyms && c.Simplify.TargetProperty == "" {
		return fmt.Errorf("simplify.target_property is required when scrub.construct_synonyms is set")
	}
	if c.Flat.CacheSize < 0 {
		return fmt.Errorf("flat.cache_size must not be negative")
	}
	return nil
}

// ValidFormat reports whether f names a supported serialization.
func ValidFormat(f string) bool {
	switch strings.ToLower(f) {
	case FormatRDFXML, FormatTurtle, FormatNTriples:
		return true
	default:
		return false
	}
}

// TagPrefix returns the compound-literal tag prefix, empty unless XML
// literal mode is on.
func (c *Config) TagPrefix() string {
	if !c.Scrub.Literals {
		return ""
	}
	return strings.TrimSuffix(c.Scrub.Prefix, ":")
}

// LoadFromFile loads configuration from a YAML or Java properties file.
// Files ending in .properties use the flat key=value layout (namespace,
// inputURI, saveURI, branch_delete, ...).
func LoadFromFile(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".properties") {
		return loadProperties(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	resolveRelative(config, filepath.Dir(path))

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Namespace != "" {
		c.Namespace = other.Namespace
	}
	if other.Input != "" {
		c.Input = other.Input
	}
	if other.InputFormat != "" {
		c.InputFormat = other.InputFormat
	}
	if other.Output != "" {
		c.Output = other.Output
	}
	if other.Format != "" {
		c.Format = other.Format
	}

	// Lists
	if other.Lists.BranchDelete != "" {
		c.Lists.BranchDelete = other.Lists.BranchDelete
	}
	if other.Lists.PropsDelete != "" {
		c.Lists.PropsDelete = other.Lists.PropsDelete
	}
	if other.Lists.ComplexDelete != "" {
		c.Lists.ComplexDelete = other.Lists.ComplexDelete
	}
	if other.Lists.ComplexSimplify != "" {
		c.Lists.ComplexSimplify = other.Lists.ComplexSimplify
	}

	// Scrub toggles only ever switch on
	c.Scrub.Empty = c.Scrub.Empty || other.Scrub.Empty
	c.Scrub.KeepIndividuals = c.Scrub.KeepIndividuals || other.Scrub.KeepIndividuals
	c.Scrub.Pretty = c.Scrub.Pretty || other.Scrub.Pretty
	c.Scrub.ConstructSynonyms = c.Scrub.ConstructSynonyms || other.Scrub.ConstructSynonyms
	if other.Scrub.Literals {
		c.Scrub.Literals = true
		c.Scrub.Prefix = other.Scrub.Prefix
	}

	if other.Simplify.TargetProperty != "" {
		c.Simplify.TargetProperty = other.Simplify.TargetProperty
	}

	if other.Flat.Output != "" {
		c.Flat.Output = other.Flat.Output
	}

	for k, v := range other.Prefixes {
		if c.Prefixes == nil {
			c.Prefixes = make(map[string]string)
		}
		c.Prefixes[k] = v
	}

	// S3
	if other.S3.Endpoint != "" {
		c.S3.Endpoint = other.S3.Endpoint
	}
	if other.S3.Region != "" {
		c.S3.Region = other.S3.Region
	}
	if other.S3.AccessKey != "" {
		c.S3.AccessKey = other.S3.AccessKey
	}
	if other.S3.SecretKey != "" {
		c.S3.SecretKey = other.S3.SecretKey
	}
}

// resolveRelative makes relative list paths relative to the config file
// directory.
func resolveRelative(c *Config, dir string) {
	for _, p := range []*string{
		&c.Lists.BranchDelete,
		&c.Lists.PropsDelete,
		&c.Lists.ComplexDelete,
		&c.Lists.ComplexSimplify,
	} {
		if *p != "" && !filepath.IsAbs(*p) && !strings.Contains(*p, "://") {
			if _, err := os.Stat(*p); err == nil {
				continue
			}
			*p = filepath.Join(dir, *p)
		}
	}
}
