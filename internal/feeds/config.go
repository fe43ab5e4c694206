package feeds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// feedConfig is the YAML shape of one feed override.
type feedConfig struct {
	Seeds        []string `yaml:"seeds"`
	MinLiquidity *float64 `yaml:"min_liquidity_usd"`
	MaxResults   *int     `yaml:"max_results"`
}

// configFile is the YAML shape of a feeds definitions file.
//
//	feeds:
//	  new:
//	    seeds: [pepe, doge, inu]
//	    min_liquidity_usd: 1000
//	    max_results: 50
type configFile struct {
	Feeds map[string]feedConfig `yaml:"feeds"`
}

// LoadDefinitions reads a YAML overrides file on top of the built-in
// definitions. Ordering and change filters are fixed per feed kind and
// cannot be overridden; only seeds, thresholds and caps are tunable.
func LoadDefinitions(path string) (map[Kind]Definition, error) {
	defs := DefaultDefinitions()
	if path == "" {
		return defs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds config: %w", err)
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse feeds config: %w", err)
	}

	for name, fc := range cfg.Feeds {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("feeds config: %w", err)
		}
		def := defs[kind]
		if len(fc.Seeds) > 0 {
			def.Seeds = fc.Seeds
		}
		if fc.MinLiquidity != nil {
			def.MinLiquidity = *fc.MinLiquidity
		}
		if fc.MaxResults != nil {
			def.MaxResults = *fc.MaxResults
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("feeds config: %w", err)
		}
		defs[kind] = def
	}
	return defs, nil
}
