// Package config loads the optional .jarcheck.yaml file that extends the
// platform classifier and lists entry points for batch checks.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1homsi/jarcheck/internal/checker"
	"github.com/1homsi/jarcheck/internal/platform"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = ".jarcheck.yaml"

type Config struct {
	Platform Platform `yaml:"platform"`

	// Entries are the entry classes checked by "jarcheck batch" when no
	// --entries flag is given.
	Entries []string `yaml:"entries,omitempty"`

	// Jobs bounds concurrent checks in batch mode. Zero means one per CPU.
	Jobs int `yaml:"jobs,omitempty"`
}

// Platform configures which classes count as provided by the runtime.
type Platform struct {
	// Profile names an embedded runtime profile. Defaults to "jdk".
	Profile string `yaml:"profile,omitempty"`

	// Prefixes and Names extend the profile.
	Prefixes []string `yaml:"prefixes,omitempty"`
	Names    []string `yaml:"names,omitempty"`

	// ReplaceDefaults drops the profile so that only Prefixes and Names
	// (and primitive keywords) are platform.
	ReplaceDefaults bool `yaml:"replace_defaults,omitempty"`
}

// Load reads the config at path. An empty path means DefaultFile, which may
// be absent; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes config content. Unknown keys are rejected. The path argument
// is used only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.Jobs < 0 {
		return fmt.Errorf("%s: jobs must not be negative", path)
	}
	if c.Platform.ReplaceDefaults && c.Platform.Profile != "" {
		return fmt.Errorf("%s: platform.profile and platform.replace_defaults are mutually exclusive", path)
	}
	if c.Platform.Profile != "" {
		if _, err := platform.LoadProfile(c.Platform.Profile); err != nil {
			return fmt.Errorf("%s: platform.profile: %w", path, err)
		}
	}
	for i, p := range c.Platform.Prefixes {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%s: platform.prefixes[%d] is empty", path, i)
		}
		if !strings.HasSuffix(strings.TrimSpace(p), ".") {
			return fmt.Errorf("%s: platform.prefixes[%d]: %q must end in '.'", path, i, p)
		}
	}
	for i, e := range c.Entries {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("%s: entries[%d] is empty", path, i)
		}
	}
	return nil
}

// Classifier builds the platform classifier the config describes.
func (c *Config) Classifier() (platform.Classifier, error) {
	if c.Platform.ReplaceDefaults {
		return platform.New(c.Platform.Prefixes, c.Platform.Names), nil
	}
	profile := c.Platform.Profile
	if profile == "" {
		profile = platform.DefaultProfile
	}
	base, err := platform.LoadProfile(profile)
	if err != nil {
		return platform.Classifier{}, err
	}
	if len(c.Platform.Prefixes) == 0 && len(c.Platform.Names) == 0 {
		return base, nil
	}
	return base.With(c.Platform.Prefixes, c.Platform.Names), nil
}

// CheckerOptions returns the checker options for this config. A positive
// jobs overrides Jobs.
func (c *Config) CheckerOptions(jobs int) (checker.Options, error) {
	classifier, err := c.Classifier()
	if err != nil {
		return checker.Options{}, err
	}
	if jobs <= 0 {
		jobs = c.Jobs
	}
	return checker.Options{Classifier: classifier, Concurrency: jobs}, nil
}
