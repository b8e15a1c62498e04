package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/joho/godotenv"
)

const (
	// DefaultConfigFile is used when no --config flag is given
	DefaultConfigFile = "./config/owlscrubber.properties"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "OWLSCRUB_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	// DotEnv is the optional .env file consulted before the environment.
	DotEnv string
	lookup func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, DotEnv: ".env", lookup: os.LookupEnv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Config file (.yaml or .properties)
// 3. .env file and OWLSCRUB_* environment variables
//
// Command-line overrides are merged by the caller, which validates the
// result. A missing or unreadable config file is fatal.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	// File configs start from DefaultConfig
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, errs.WrapFatal(err, "config", "Load", "read "+path)
	}
	l.logger.Debug("Loaded config file", slog.String("path", path))

	if l.DotEnv != "" {
		if err := godotenv.Load(l.DotEnv); err == nil {
			l.logger.Debug("Loaded env file", slog.String("path", l.DotEnv))
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load env file", slog.String("path", l.DotEnv), slog.String("error", err.Error()))
		}
	}
	l.applyEnv(config)

	return config, nil
}

// applyEnv overlays OWLSCRUB_* variables onto config.
func (l *Loader) applyEnv(config *Config) {
	strs := map[string]*string{
		"NAMESPACE":         &config.Namespace,
		"INPUT":             &config.Input,
		"INPUT_FORMAT":      &config.InputFormat,
		"OUTPUT":            &config.Output,
		"FORMAT":            &config.Format,
		"BRANCH_DELETE":     &config.Lists.BranchDelete,
		"PROPS_DELETE":      &config.Lists.PropsDelete,
		"COMPLEX_DELETE":    &config.Lists.ComplexDelete,
		"COMPLEX_SIMPLIFY":  &config.Lists.ComplexSimplify,
		"FLAT_OUTPUT":       &config.Flat.Output,
		"S3_ENDPOINT":       &config.S3.Endpoint,
		"S3_REGION":         &config.S3.Region,
		"S3_ACCESS_KEY":     &config.S3.AccessKey,
		"S3_SECRET_KEY":     &config.S3.SecretKey,
		"SIMPLIFY_PROPERTY": &config.Simplify.TargetProperty,
	}
	for name, dst := range strs {
		if v, ok := l.lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
			l.logger.Debug("Applied env override", slog.String("var", EnvPrefix+name))
		}
	}

	bools := map[string]*bool{
		"EMPTY":      &config.Scrub.Empty,
		"PRETTY":     &config.Scrub.Pretty,
		"S3_USE_SSL": &config.S3.UseSSL,
	}
	for name, dst := range bools {
		v, ok := l.lookup(EnvPrefix + name)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			l.logger.Warn("Ignoring invalid env override", slog.String("var", EnvPrefix+name), slog.String("value", v))
			continue
		}
		*dst = b
	}
}
