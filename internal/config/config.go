package config

import (
	"fmt"
	"os"

	"github.com/san-kum/kepler/internal/kepler"
	"gopkg.in/yaml.v3"
)

const (
	DefaultName     = "binary"
	DefaultOutDir   = "runs"
	DefaultFilter   = "*_settings.yaml"
	DefaultLogLevel = "info"
	DefaultSemi     = 1.0
	DefaultMass     = 1.0
	DefaultStarMode = "ptype"
)

// Config drives binary initialisation and catalog scans.
type Config struct {
	Name     string        `yaml:"name"`
	OutDir   string        `yaml:"out_dir"`
	LogLevel string        `yaml:"log_level"`
	StarMode string        `yaml:"star_mode"`
	Binary   BinaryConfig  `yaml:"binary"`
	Catalog  CatalogConfig `yaml:"catalog"`
}

// BinaryConfig holds the orbital elements of a binary. Angles are in
// degrees, a in AU and masses in solar masses.
type BinaryConfig struct {
	Ecc      float64 `yaml:"e"`
	Semi     float64 `yaml:"a"`
	Inc      float64 `yaml:"i"`
	Node     float64 `yaml:"omega"`
	ArgPeri  float64 `yaml:"w"`
	MeanAnom float64 `yaml:"mean_anomaly"`
	M1       float64 `yaml:"m1"`
	M2       float64 `yaml:"m2"`
}

type CatalogConfig struct {
	Filter    string   `yaml:"filter"`
	Dirs      []string `yaml:"dirs"`
	ExactDirs bool     `yaml:"exact_dirs"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     DefaultName,
		OutDir:   DefaultOutDir,
		LogLevel: DefaultLogLevel,
		StarMode: DefaultStarMode,
		Binary: BinaryConfig{
			Semi: DefaultSemi,
			M1:   DefaultMass,
			M2:   DefaultMass,
		},
		Catalog: CatalogConfig{
			Filter: DefaultFilter,
			Dirs:   []string{"."},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations that cannot produce a bound binary.
func (c *Config) Validate() error {
	if c.StarMode != "ptype" && c.StarMode != "stype" {
		return fmt.Errorf("star_mode must be ptype or stype, got %q", c.StarMode)
	}
	_, err := c.Binary.Binary()
	return err
}

// Elements returns the configured binary as a single-row element batch.
func (b BinaryConfig) Elements() []kepler.Elements {
	return []kepler.Elements{{
		Ecc:      b.Ecc,
		Semi:     b.Semi,
		Inc:      b.Inc,
		Node:     b.Node,
		ArgPeri:  b.ArgPeri,
		MeanAnom: b.MeanAnom,
	}}
}

// Binary converts the configuration into a validated kepler.Binary. The
// mean anomaly is converted to the true anomaly the record carries.
func (b BinaryConfig) Binary() (*kepler.Binary, error) {
	if !(b.Ecc >= 0 && b.Ecc < 1) {
		return nil, fmt.Errorf("%w: e=%g", kepler.ErrUnbound, b.Ecc)
	}
	nu, err := kepler.MeanToTrue(b.MeanAnom, b.Ecc)
	if err != nil {
		return nil, err
	}
	return kepler.NewBinary([6]float64{b.Ecc, b.Semi, b.Inc, b.Node, b.ArgPeri, nu}, b.M1, b.M2)
}
