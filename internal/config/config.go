// Package config loads a match configuration from YAML: the two engines,
// their time controls, adjudication thresholds, the sampling policy, and
// the concurrency and output settings for a chessmatch run.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/herohde/chessmatch/internal/clock"
	"github.com/herohde/chessmatch/internal/match"
	"github.com/herohde/chessmatch/internal/sample"
	"github.com/seekerror/stdlib/pkg/lang"
	"gopkg.in/yaml.v3"
)

// Engine describes one contestant: how to launch it and the clock it plays
// under.
type Engine struct {
	Name    string            `yaml:"name"`
	Path    string            `yaml:"path"`
	Args    []string          `yaml:"args"`
	Options map[string]string `yaml:"options"`

	TimeMS      int64 `yaml:"time_ms"`
	IncrementMS int64 `yaml:"increment_ms"`
	MovetimeMS  int64 `yaml:"movetime_ms"`
	MovesToGo   int   `yaml:"moves_to_go"`
	Depth       int   `yaml:"depth"`
	Nodes       int64 `yaml:"nodes"`
}

// Adjudication mirrors match.Adjudication in YAML-friendly form.
type Adjudication struct {
	DrawCount    int `yaml:"draw_count"`
	DrawNumber   int `yaml:"draw_number"`
	DrawScore    int `yaml:"draw_score"`
	ResignCount  int `yaml:"resign_count"`
	ResignNumber int `yaml:"resign_number"`
	ResignScore  int `yaml:"resign_score"`
}

// Sampling mirrors sample.Policy in YAML-friendly form.
type Sampling struct {
	Freq    float64 `yaml:"freq"`
	Decay   float64 `yaml:"decay"`
	Resolve bool    `yaml:"resolve"`
}

// Config is the top-level match configuration file.
type Config struct {
	Workers  int    `yaml:"workers"`
	Games    int    `yaml:"games"`
	Chess960 bool   `yaml:"chess960"`
	BaseSeed int64  `yaml:"base_seed"`
	Book     string `yaml:"book"`
	Random   bool   `yaml:"random_book_order"`
	GraceMS  int64  `yaml:"grace_ms"`

	Engines [2]Engine `yaml:"engines"`

	Adjudication Adjudication `yaml:"adjudication"`
	Sampling     Sampling     `yaml:"sampling"`

	PGNPath          string `yaml:"pgn_path"`
	PGNVerbosity     int    `yaml:"pgn_verbosity"`
	SampleCSVPath    string `yaml:"sample_csv_path"`
	SampleBinaryPath string `yaml:"sample_binary_path"`
}

// Load reads and parses a Config from path, applying defaults for anything
// left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %v: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %v: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %v: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Games <= 0 {
		c.Games = 1
	}
	if c.PGNVerbosity <= 0 {
		c.PGNVerbosity = 1
	}
	if c.Sampling.Freq == 0 {
		c.Sampling.Freq = 1
	}
}

func (c *Config) validate() error {
	if c.Book == "" {
		return fmt.Errorf("book is required")
	}
	for i, e := range c.Engines {
		if e.Path == "" {
			return fmt.Errorf("engines[%d].path is required", i)
		}
	}
	return nil
}

// ToEngineConfig converts an Engine's YAML clock fields into a
// match.EngineConfig. The engine's display Name is left for the orchestrator
// to fill in from the engine's own "id name" if empty, and Chess960 support
// is detected from the options the engine advertises at handshake.
func (e Engine) ToEngineConfig() match.EngineConfig {
	ec := match.EngineConfig{
		Name: e.Name,
		Limits: clock.Limits{
			Time:      time.Duration(e.TimeMS) * time.Millisecond,
			Increment: time.Duration(e.IncrementMS) * time.Millisecond,
			Movetime:  time.Duration(e.MovetimeMS) * time.Millisecond,
			MovesToGo: e.MovesToGo,
		},
	}
	if e.Depth > 0 {
		ec.Depth = lang.Some(e.Depth)
	}
	if e.Nodes > 0 {
		ec.Nodes = lang.Some(e.Nodes)
	}
	return ec
}

// ToAdjudication converts the YAML adjudication block into match.Adjudication.
func (c *Config) ToAdjudication() match.Adjudication {
	a := c.Adjudication
	return match.Adjudication{
		DrawCount:    a.DrawCount,
		DrawNumber:   a.DrawNumber,
		DrawScore:    int32(a.DrawScore),
		ResignCount:  a.ResignCount,
		ResignNumber: a.ResignNumber,
		ResignScore:  int32(a.ResignScore),
	}
}

// ToSamplingPolicy converts the YAML sampling block into sample.Policy.
func (c *Config) ToSamplingPolicy() sample.Policy {
	return sample.Policy{
		Freq:    c.Sampling.Freq,
		Decay:   c.Sampling.Decay,
		Resolve: c.Sampling.Resolve,
	}
}
