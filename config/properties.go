package config

import (
	"fmt"
	"strings"

	"github.com/magiconair/properties"
)

// Keys recognized in a .properties configuration file.
const (
	PropNamespace       = "namespace"
	PropInputURI        = "inputURI"
	PropSaveURI         = "saveURI"
	PropBranchDelete    = "branch_delete"
	PropPropsDelete     = "props_delete"
	PropComplexDelete   = "complex_delete"
	PropComplexSimplify = "complex_simplify"
)

// loadProperties reads the key=value layout used by older scrubber
// deployments. The remaining settings use dotted keys named after their
// yaml paths (scrub.empty, flat.code, s3.endpoint, prefix.<name>, ...).
// Unknown keys are ignored.
func loadProperties(path string) (*Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	config.Namespace = p.GetString(PropNamespace, "")
	config.Input = trimFileScheme(p.GetString(PropInputURI, ""))
	config.Output = trimFileScheme(p.GetString(PropSaveURI, ""))
	config.Lists = ListsConfig{
		BranchDelete:    p.GetString(PropBranchDelete, ""),
		PropsDelete:     p.GetString(PropPropsDelete, ""),
		ComplexDelete:   p.GetString(PropComplexDelete, ""),
		ComplexSimplify: p.GetString(PropComplexSimplify, ""),
	}
	for _, p := range []*string{
		&config.Lists.BranchDelete,
		&config.Lists.PropsDelete,
		&config.Lists.ComplexDelete,
		&config.Lists.ComplexSimplify,
	} {
		*p = trimFileScheme(*p)
	}

	config.InputFormat = p.GetString("input_format", config.InputFormat)
	config.Format = p.GetString("format", config.Format)

	config.Scrub.Empty = p.GetBool("scrub.empty", config.Scrub.Empty)
	config.Scrub.KeepIndividuals = p.GetBool("scrub.keep_individuals", config.Scrub.KeepIndividuals)
	config.Scrub.Literals = p.GetBool("scrub.literals", config.Scrub.Literals)
	config.Scrub.Prefix = p.GetString("scrub.prefix", config.Scrub.Prefix)
	config.Scrub.Pretty = p.GetBool("scrub.pretty", config.Scrub.Pretty)
	config.Scrub.ConstructSynonyms = p.GetBool("scrub.construct_synonyms", config.Scrub.ConstructSynonyms)
	config.Simplify.TargetProperty = p.GetString("simplify.target_property", config.Simplify.TargetProperty)

	f := &config.Flat
	f.Output = trimFileScheme(p.GetString("flat.output", f.Output))
	f.Code = p.GetString("flat.code", f.Code)
	f.PreferredName = p.GetString("flat.preferred_name", f.PreferredName)
	f.Synonym = p.GetString("flat.synonym", f.Synonym)
	f.SynonymTag = p.GetString("flat.synonym_tag", f.SynonymTag)
	f.Definition = p.GetString("flat.definition", f.Definition)
	f.DefinitionTag = p.GetString("flat.definition_tag", f.DefinitionTag)
	f.DisplayName = p.GetString("flat.display_name", f.DisplayName)
	f.Status = p.GetString("flat.status", f.Status)
	f.SemanticType = p.GetString("flat.semantic_type", f.SemanticType)
	f.RetiredMarker = p.GetString("flat.retired_marker", f.RetiredMarker)
	f.CacheSize = p.GetInt("flat.cache_size", f.CacheSize)

	config.S3.Endpoint = p.GetString("s3.endpoint", config.S3.Endpoint)
	config.S3.Region = p.GetString("s3.region", config.S3.Region)
	config.S3.AccessKey = p.GetString("s3.access_key", config.S3.AccessKey)
	config.S3.SecretKey = p.GetString("s3.secret_key", config.S3.SecretKey)
	config.S3.UseSSL = p.GetBool("s3.use_ssl", config.S3.UseSSL)

	for _, key := range p.FilterStripPrefix("prefix.").Keys() {
		config.Prefixes[key] = p.GetString("prefix."+key, "")
	}
	return config, nil
}

// trimFileScheme turns file:// URIs into plain paths and leaves every other
// location untouched.
func trimFileScheme(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "file://") {
		return strings.TrimPrefix(s, "file://")
	}
	return s
}
