// Package config loads objhash options files.
//
// An options file is YAML (.objhash.yaml, .objhash.yml) or TOML
// (.objhash.toml) and sets the defaults used by the objhash command:
//
//	sort_arrays: false
//	ignore_undefined_properties: true
//	seed: 0
//	format: auto
//
// Unknown keys are rejected so that typos do not silently change
// fingerprints.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/zero-day-ai/objhash"
	"github.com/zero-day-ai/objhash/input"
	"gopkg.in/yaml.v3"
)

// FileNames lists the options file names searched for in a directory, in
// order of preference.
var FileNames = []string{".objhash.yaml", ".objhash.yml", ".objhash.toml"}

// ErrNotFound is returned when no options file exists where one was
// searched for.
var ErrNotFound = errors.New("no options file found")

// Config is the content of an options file.
type Config struct {
	// SortArrays treats arrays as unordered.
	SortArrays bool `yaml:"sort_arrays" toml:"sort_arrays"`

	// IgnoreUndefinedProperties drops absent record entries. Default true.
	IgnoreUndefinedProperties bool `yaml:"ignore_undefined_properties" toml:"ignore_undefined_properties"`

	// Seed seeds the mixer.
	Seed uint32 `yaml:"seed" toml:"seed"`

	// Format is the default input format: auto, json, yaml or toml.
	Format string `yaml:"format" toml:"format"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-" toml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		IgnoreUndefinedProperties: true,
		Format:                    string(input.FormatAuto),
	}
}

// Load reads and parses an options file. If path is a directory, the names
// in FileNames are tried in order.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, objhash.NewIOError("config.Load", err).
			WithContext(map[string]any{"path": path})
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range FileNames {
			candidate := filepath.Join(path, name)
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, objhash.NewConfigurationError("config.Load",
				fmt.Errorf("%w in %s", ErrNotFound, path))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, objhash.NewIOError("config.Load", err).
			WithContext(map[string]any{"path": configPath})
	}

	cfg, err := Parse(data, formatOf(configPath))
	if err != nil {
		return nil, withPath(err, configPath)
	}
	cfg.Path = configPath
	return cfg, nil
}

// LoadFromDir searches for an options file starting from dir and walking up
// to parent directories until one is found or the root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, objhash.NewIOError("config.LoadFromDir", err)
	}

	for {
		cfg, err := Load(absDir)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, objhash.NewConfigurationError("config.LoadFromDir",
				fmt.Errorf("%w in %s or parent directories", ErrNotFound, dir))
		}
		absDir = parent
	}
}

// Parse decodes an options file body in the given format (yaml or toml) on
// top of Default and validates the result.
func Parse(data []byte, format input.Format) (*Config, error) {
	cfg := Default()

	var err error
	switch format {
	case input.FormatYAML:
		err = decodeYAML(data, &cfg)
	case input.FormatTOML:
		err = decodeTOML(data, &cfg)
	default:
		return nil, objhash.NewConfigurationError("config.Parse",
			fmt.Errorf("%w: options files must be yaml or toml, got %q", objhash.ErrUnsupportedFormat, format))
	}
	if err != nil {
		return nil, objhash.NewConfigurationError("config.Parse",
			fmt.Errorf("%w: %w", objhash.ErrInvalidConfig, err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Validate checks the field values.
func (c *Config) Validate() error {
	if _, err := input.ParseFormat(c.Format); err != nil {
		return objhash.NewConfigurationError("config.Validate",
			fmt.Errorf("%w: format: %w", objhash.ErrInvalidConfig, err))
	}
	return nil
}

// InputFormat returns the configured input format.
func (c *Config) InputFormat() input.Format {
	f, err := input.ParseFormat(c.Format)
	if err != nil {
		return input.FormatAuto
	}
	return f
}

// Options converts the configuration into objhash options.
func (c *Config) Options() []objhash.Option {
	return []objhash.Option{
		objhash.WithSortArrays(c.SortArrays),
		objhash.WithIgnoreUndefinedProperties(c.IgnoreUndefinedProperties),
		objhash.WithSeed(c.Seed),
	}
}

func formatOf(path string) input.Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return input.FormatTOML
	}
	return input.FormatYAML
}

func withPath(err error, path string) error {
	var oerr *objhash.Error
	if errors.As(err, &oerr) {
		return oerr.WithContext(map[string]any{"path": path})
	}
	return err
}
