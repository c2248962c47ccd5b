package recommend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights are the per-factor contributions of the contextual strategy.
type Weights struct {
	Season  int `yaml:"season"`
	Rain    int `yaml:"rain"`
	Time    int `yaml:"time"`
	People  int `yaml:"people"`
	Alcohol int `yaml:"alcohol"`
}

// Limits are the per-strategy result caps, enforced after sorting.
type Limits struct {
	Tag           int `yaml:"tag"`
	Collaborative int `yaml:"collaborative"`
	Contextual    int `yaml:"contextual"`
	Popularity    int `yaml:"popularity"`
}

type Config struct {
	Weights Weights `yaml:"weights"`
	Limits  Limits  `yaml:"limits"`

	// LegacyPresenceScoring restores the source system's behavior where a
	// factor contributes whenever the request field is present, regardless
	// of whether a matching graph edge exists. Off by default; the fixed
	// behavior only scores factors that actually match.
	LegacyPresenceScoring bool `yaml:"legacy_presence_scoring"`
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{Season: 2, Rain: 3, Time: 2, People: 1, Alcohol: 5},
		Limits:  Limits{Tag: 3, Collaborative: 5, Contextual: 3, Popularity: 3},
	}
}

// LoadConfig reads a YAML override file on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("recommend: read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("recommend: parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	for name, limit := range map[string]int{
		"tag":           c.Limits.Tag,
		"collaborative": c.Limits.Collaborative,
		"contextual":    c.Limits.Contextual,
		"popularity":    c.Limits.Popularity,
	} {
		if limit <= 0 {
			return fmt.Errorf("recommend: limit %q must be positive", name)
		}
	}
	return nil
}
