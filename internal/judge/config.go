package judge

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/nughm3/gojudge/internal/sandbox"
)

// Language is one entry in the judge configuration: the language's name,
// the filename its source is written to inside the sandbox, an optional
// build command, and its run command.
type Language struct {
	Name     string           `toml:"name"`
	Filename string           `toml:"filename"`
	Build    *sandbox.Command `toml:"build"`
	Run      sandbox.Command  `toml:"run"`
}

// Config is the judge's static configuration: the set of languages it
// knows how to build and run, loaded once per process and passed by
// reference into every Run call.
type Config struct {
	Languages []Language `toml:"languages"`
}

// Lookup finds a language by name. Identity is by name.
func (c *Config) Lookup(name string) (*Language, bool) {
	for i := range c.Languages {
		if c.Languages[i].Name == name {
			return &c.Languages[i], true
		}
	}
	return nil, false
}

// LoadConfig reads a TOML judge configuration file. Unknown keys, at any
// level, are rejected, matching the contest loader's strict front-matter
// parsing.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("load judge config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load judge config %s: unknown keys %v", path, undecoded)
	}
	return &cfg, nil
}
