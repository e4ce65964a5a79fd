package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vortexlabs/talaria/internal/reactor"
)

// Run holds the driver-side settings: how long to run, how often to
// sample, and the noise seed. The physics lives in reactor.Config.
type Run struct {
	Duration    float64 `yaml:"duration"`     // s
	SampleEvery int     `yaml:"sample_every"` // steps between history samples
	Seed        int64   `yaml:"seed"`
}

// Settings is the on-disk run description: a profile name plus
// optional overrides of the reactor constants and run settings.
type Settings struct {
	Profile string         `yaml:"profile"`
	Reactor reactor.Config `yaml:"reactor"`
	Run     Run            `yaml:"run"`
}

// Load reads a settings file, layering it over the named profile (or
// the default profile when the file names none).
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var named struct {
		Profile string `yaml:"profile"`
	}
	if err := yaml.Unmarshal(data, &named); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	name := named.Profile
	if name == "" {
		name = DefaultProfile
	}

	s, err := Profile(name)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Save writes the settings as yaml.
func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the driver-side settings and the reactor config.
func (s *Settings) Validate() error {
	if s.Run.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", s.Run.Duration)
	}
	if s.Run.SampleEvery <= 0 {
		return fmt.Errorf("sample_every must be positive, got %d", s.Run.SampleEvery)
	}
	return s.Reactor.Validate()
}
