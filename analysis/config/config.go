// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config manages the configuration of the analyses: the precision
// and size bounds of the reaching-definitions computation and the logging
// settings. Configurations are loaded from yaml files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config holds the user-provided settings of the analyses. If some field is
// not defined in the config file, it keeps its default from NewDefault.
// Private fields are not populated from a yaml file, but computed after
// initialization.
type Config struct {
	Options `yaml:"options"`

	sourceFile string
}

// Options are the tunable parameters of the reaching-definitions analysis.
type Options struct {
	// LogLevel controls the verbosity of the analyses (see LogGroup levels).
	LogLevel int `yaml:"log-level"`

	// MaxSetSize is the number of explicit writers tracked for one byte
	// range before the set is collapsed to "unknown". Larger values keep
	// more precision at the cost of memory.
	MaxSetSize int `yaml:"max-set-size"`

	// MergeUnknown folds concrete-offset definitions of a target into the
	// target's unknown-offset definition once one exists.
	MergeUnknown bool `yaml:"merge-unknown"`

	// StrongUpdateUnknown allows a single full-object local write to kill
	// incoming unknown-offset definitions of targets with a known size.
	StrongUpdateUnknown bool `yaml:"strong-update-unknown"`
}

// NewDefault returns a config with the default options.
func NewDefault() *Config {
	return &Config{
		Options: Options{
			LogLevel:            int(InfoLevel),
			MaxSetSize:          5,
			MergeUnknown:        true,
			StrongUpdateUnknown: true,
		},
	}
}

// Load reads a config from the yaml file at filename.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", filename, err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %w", filename, err)
	}
	cfg.sourceFile = filename
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks that the option values are usable.
func (c *Config) Validate() error {
	if c.MaxSetSize <= 0 {
		return fmt.Errorf("max-set-size must be positive, got %d", c.MaxSetSize)
	}
	if c.LogLevel < int(ErrLevel) || c.LogLevel > int(TraceLevel) {
		return fmt.Errorf("log-level must be between %d and %d, got %d",
			ErrLevel, TraceLevel, c.LogLevel)
	}
	return nil
}

// SourceFile returns the file this config was loaded from, empty for a
// default config.
func (c *Config) SourceFile() string {
	return c.sourceFile
}
