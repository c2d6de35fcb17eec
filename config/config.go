// Package config loads the driver settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	interp "github.com/havrydotdev/golox/interpreter"
)

const (
	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = ".golox.yaml"
	// EnvVar names the environment variable that may point at a config file.
	EnvVar = "GOLOX_CONFIG"

	DefaultPrompt = "> "
)

type Config struct {
	// Prompt is printed before every REPL line.
	Prompt string `yaml:"prompt"`
	// Banner enables the REPL greeting.
	Banner *bool `yaml:"banner"`
	// DumpAST prints every parsed statement before it runs.
	DumpAST bool `yaml:"dump_ast"`
	// MaxCallDepth limits call nesting; zero keeps the interpreter default.
	// Values above interp.MaxCallDepthLimit are rejected.
	MaxCallDepth int `yaml:"max_call_depth"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	banner := true
	return Config{Prompt: DefaultPrompt, Banner: &banner}
}

// ShowBanner reports whether the REPL greeting is enabled.
func (c Config) ShowBanner() bool {
	return c.Banner == nil || *c.Banner
}

// Parse decodes a YAML document on top of the defaults.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("config: max_call_depth must not be negative, got %d", c.MaxCallDepth)
	}

	if c.MaxCallDepth > interp.MaxCallDepthLimit {
		return fmt.Errorf("config: max_call_depth must not exceed %d, got %d", interp.MaxCallDepthLimit, c.MaxCallDepth)
	}

	return nil
}

// Load reads the config from path. With an empty path it falls back to
// $GOLOX_CONFIG and then to DefaultFile; a missing default file yields
// the defaults, while a missing explicit file is an error.
func Load(path string) (Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvVar)
	}

	if path == "" {
		path = DefaultFile
		explicit = false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
