// Package config loads polymesh settings from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/chazu/polymesh/pkg/csvmesh"
	"github.com/chazu/polymesh/pkg/mesh"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is looked up in the mesh directory when no -config flag
// is given.
const DefaultFilename = "polymesh.yaml"

// Progress modes.
const (
	ProgressAuto   = "auto"
	ProgressAlways = "always"
	ProgressNever  = "never"
)

// Precisions in which machine ε is computed.
const (
	EpsilonFloat64 = "float64"
	EpsilonFloat32 = "float32"
)

// Config is the on-disk configuration.
type Config struct {
	Files      FilesConfig `yaml:"files"`
	Separator  string      `yaml:"separator"`
	Tolerance  float64     `yaml:"tolerance"`
	Epsilon    string      `yaml:"epsilon"`    // float64 | float32
	Duplicates string      `yaml:"duplicates"` // reject | overwrite
	LogLevel   string      `yaml:"logLevel"`   // debug | info | warn | error
	Progress   string      `yaml:"progress"`   // auto | always | never
}

// FilesConfig names the three tables inside the mesh directory.
type FilesConfig struct {
	Vertices string `yaml:"vertices"`
	Edges    string `yaml:"edges"`
	Faces    string `yaml:"faces"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.normalize()
	return c
}

func (c *Config) normalize() {
	def := csvmesh.DefaultFiles()
	if c.Files.Vertices == "" {
		c.Files.Vertices = def.Vertices
	}
	if c.Files.Edges == "" {
		c.Files.Edges = def.Edges
	}
	if c.Files.Faces == "" {
		c.Files.Faces = def.Faces
	}
	if c.Separator == "" {
		c.Separator = string(csvmesh.DefaultSeparator)
	}
	if c.Tolerance == 0 {
		c.Tolerance = mesh.DefaultTolerance
	}
	if c.Epsilon == "" {
		c.Epsilon = EpsilonFloat64
	}
	if c.Duplicates == "" {
		c.Duplicates = mesh.DuplicateReject.String()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Progress == "" {
		c.Progress = ProgressNever
	}
}

// Load reads and validates the YAML file at path. Missing keys take their
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOptional is Load, except that a missing file yields Default().
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes YAML config data.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the importer cannot use.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Separator) != 1 {
		return fmt.Errorf("config: separator must be a single character, got %q", c.Separator)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("config: tolerance must not be negative, got %g", c.Tolerance)
	}
	if _, err := c.MachineEpsilon(); err != nil {
		return err
	}
	if _, err := c.DuplicatePolicy(); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	switch c.Progress {
	case ProgressAuto, ProgressAlways, ProgressNever:
	default:
		return fmt.Errorf("config: unknown progress mode %q", c.Progress)
	}
	return nil
}

// SeparatorRune returns the separator as a rune.
func (c Config) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r
}

// MachineEpsilon returns ε in the configured precision. float32 reproduces
// the coarser floors of single-precision tools (ε = 2^-24).
func (c Config) MachineEpsilon() (float64, error) {
	switch c.Epsilon {
	case EpsilonFloat64:
		return mesh.MachineEpsilon(), nil
	case EpsilonFloat32:
		return mesh.MachineEpsilon32(), nil
	default:
		return 0, fmt.Errorf("config: unknown epsilon precision %q (want float64 or float32)", c.Epsilon)
	}
}

// DuplicatePolicy maps the duplicates setting to a mesh policy.
func (c Config) DuplicatePolicy() (mesh.DuplicatePolicy, error) {
	switch c.Duplicates {
	case "reject":
		return mesh.DuplicateReject, nil
	case "overwrite":
		return mesh.DuplicateOverwrite, nil
	default:
		return 0, fmt.Errorf("config: unknown duplicates policy %q (want reject or overwrite)", c.Duplicates)
	}
}

// Importer builds a csvmesh.Importer from the configuration.
func (c Config) Importer() (*csvmesh.Importer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	policy, _ := c.DuplicatePolicy()
	eps, _ := c.MachineEpsilon()
	return &csvmesh.Importer{
		Files: csvmesh.Files{
			Vertices: c.Files.Vertices,
			Edges:    c.Files.Edges,
			Faces:    c.Files.Faces,
		},
		Separator:  c.SeparatorRune(),
		Duplicates: policy,
		Validate: mesh.ValidateOptions{
			Tolerances: mesh.TolerancesWithEpsilon(c.Tolerance, eps),
		},
	}, nil
}

// Write encodes c as YAML to path.
func Write(path string, c Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return enc.Close()
}
