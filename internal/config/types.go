package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config represents the full mason.yaml document.
type Config struct {
	Version     string                `yaml:"version" validate:"required"`
	Name        string                `yaml:"name" validate:"required,min=1,max=100"`
	Environment string                `yaml:"environment,omitempty" validate:"omitempty,oneof=development staging production"`
	Paths       Paths                 `yaml:"paths"`
	Server      Server                `yaml:"server,omitempty"`
	Units       map[string]UnitConfig `yaml:"units" validate:"required,min=1"`
}

// Paths locates the source tree units read from and the destination tree they
// write into. Units exchange data only through these trees.
type Paths struct {
	Source string `yaml:"source" validate:"required"`
	Dest   string `yaml:"dest" validate:"required,nefield=Source"`
}

// Server holds settings for the development HTTP server plugin.
type Server struct {
	Port int `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

// UnitConfig is the declarative configuration for one unit: its hook aliases,
// its entry glob patterns, and an opaque options block the unit decodes itself.
type UnitConfig struct {
	Hook    HookList          `yaml:"hook,omitempty"`
	Entry   map[string]string `yaml:"entry,omitempty"`
	Options yaml.Node         `yaml:"options,omitempty"`
}

// DecodeOptions unmarshals the unit's options block into out. A missing
// options block leaves out untouched.
func (u UnitConfig) DecodeOptions(out any) error {
	if u.Options.IsZero() {
		return nil
	}
	if err := u.Options.Decode(out); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}

// HookList accepts either a single scalar hook or a sequence of hooks.
type HookList []string

// UnmarshalYAML customises decoding so `hook: css` and `hook: [css, styles]`
// both work.
func (h *HookList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*h = HookList{single}
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*h = HookList(many)
	default:
		return fmt.Errorf("hook must be a string or a list of strings")
	}
	return nil
}

// Unit returns the configuration block for the named unit, if present.
func (c *Config) Unit(name string) (UnitConfig, bool) {
	if c == nil {
		return UnitConfig{}, false
	}
	uc, ok := c.Units[name]
	return uc, ok
}
