package metadata

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the display and normalization configuration: the convention
// timezone, room typo fixes, the featured tournament list and the category
// color palette.
type Config struct {
	Timezone string            `yaml:"timezone"`
	Rooms    map[string]string `yaml:"rooms"`
	Featured []string          `yaml:"featured"`
	Colors   map[string]string `yaml:"colors"`
}

// DefaultConfig matches the convention's standing arrangements: Eastern
// clock, the historical room typo, no featured events.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills zero values so partially filled configs still behave.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.Rooms == nil {
		c.Rooms = map[string]string{"Marieta": "Marietta"}
	}
	if c.Colors == nil {
		c.Colors = map[string]string{
			"demo":         "128:128:128",
			"qualifier":    "51:102:204",
			"elimination":  "204:102:51",
			"championship": "204:51:51",
			"featured":     "204:153:0",
			"other":        "102:102:102",
		}
	}
}

// LoadConfig reads the YAML configuration and applies defaults.
func LoadConfig(r io.Reader) (*Config, error) {
	c := &Config{}
	if err := yaml.NewDecoder(r).Decode(c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	c.Normalize()
	return c, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
