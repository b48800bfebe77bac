package engine

import (
	"fmt"

	"github.com/sanonone/kektorgraph/pkg/query"
)

// Config is the YAML form of Options, the "engine" section of the
// kektorgraph configuration file.
//
//	data_file: ./family.json
//	strict: false
//	max_results: 1000
//	aliases:
//	  parents:
//	    - name: in
//	      args: [parent]
type Config struct {
	DataFile   string                   `yaml:"data_file"`
	Strict     bool                     `yaml:"strict"`
	MaxResults int                      `yaml:"max_results"`
	Aliases    map[string]query.Program `yaml:"aliases"`
}

// DefaultConfig returns the configuration matching DefaultOptions.
func DefaultConfig() Config {
	return Config{}
}

// Validate checks the values that YAML decoding cannot.
func (c Config) Validate() error {
	if c.MaxResults < 0 {
		return fmt.Errorf("max_results must not be negative, got %d", c.MaxResults)
	}
	for name := range c.Aliases {
		if query.IsBuiltin(name) {
			return fmt.Errorf("alias %q shadows a built-in stage", name)
		}
	}
	return nil
}

// Options converts the configuration to engine options.
func (c Config) Options() Options {
	opts := DefaultOptions()
	opts.DataFile = c.DataFile
	opts.Strict = c.Strict
	opts.MaxResults = c.MaxResults
	opts.Aliases = c.Aliases
	return opts
}
