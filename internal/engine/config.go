package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
	"github.com/NoahDarveau/MarkovMario/pkg/generator"
)

// Config holds the service settings, loaded from YAML and overridden by flags.
type Config struct {
	// Seed is the master seed. Level n is generated with Seed + n.
	Seed       int64           `yaml:"seed"`
	CorpusDir  string          `yaml:"corpus_dir"`
	Height     int             `yaml:"height"`
	Port       string          `yaml:"port"`
	ArchiveDir string          `yaml:"archive_dir"` // empty disables archiving
	Generator  GeneratorConfig `yaml:"generator"`
}

// GeneratorConfig mirrors generator.Config in file form. Zero values take the defaults.
type GeneratorConfig struct {
	Width         int    `yaml:"width"`
	Policy        string `yaml:"policy"`
	MaxRetries    int    `yaml:"max_retries"`
	JumpThreshold int    `yaml:"jump_threshold"`
	SpawnZone     int    `yaml:"spawn_zone"`
}

// NewConfig returns the default config with a random master seed.
func NewConfig() Config {
	cfg := Config{}
	cfg.defaults()
	return cfg
}

func (c *Config) defaults() {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.CorpusDir == "" {
		c.CorpusDir = "levels"
	}
	if c.Height == 0 {
		c.Height = corpus.DefaultHeight
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	g := &c.Generator
	if g.Width == 0 {
		g.Width = generator.DefaultWidth
	}
	if g.Policy == "" {
		g.Policy = generator.PolicyStrict.Name
	}
	if g.MaxRetries == 0 {
		g.MaxRetries = generator.DefaultMaxRetries
	}
	if g.JumpThreshold == 0 {
		g.JumpThreshold = generator.DefaultJumpThreshold
	}
	if g.SpawnZone == 0 {
		g.SpawnZone = generator.DefaultSpawnZone
	}
}

// LoadConfigFile reads a YAML config file and fills in defaults.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}

// GeneratorSettings converts the file form into a validated generator.Config.
func (c Config) GeneratorSettings() (generator.Config, error) {
	policy, err := generator.ParsePolicy(c.Generator.Policy)
	if err != nil {
		return generator.Config{}, err
	}
	gc := generator.DefaultConfig()
	gc.Policy = policy
	if c.Generator.Width != 0 {
		gc.Width = c.Generator.Width
	}
	if c.Generator.MaxRetries != 0 {
		gc.MaxRetries = c.Generator.MaxRetries
	}
	if c.Generator.JumpThreshold != 0 {
		gc.JumpThreshold = c.Generator.JumpThreshold
	}
	if c.Generator.SpawnZone != 0 {
		gc.SpawnZone = c.Generator.SpawnZone
	}
	if err := gc.Validate(); err != nil {
		return generator.Config{}, err
	}
	return gc, nil
}
