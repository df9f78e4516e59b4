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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
options:
  log-level: 4
  max-set-size: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != 4 {
		t.Errorf("LogLevel = %d, want 4", cfg.LogLevel)
	}
	if cfg.MaxSetSize != 10 {
		t.Errorf("MaxSetSize = %d, want 10", cfg.MaxSetSize)
	}
	// fields absent from the file keep their defaults
	if !cfg.MergeUnknown {
		t.Errorf("MergeUnknown = false, want the default true")
	}
	if !cfg.StrongUpdateUnknown {
		t.Errorf("StrongUpdateUnknown = false, want the default true")
	}
	if cfg.SourceFile() != path {
		t.Errorf("SourceFile() = %q, want %q", cfg.SourceFile(), path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "bad max-set-size", contents: "options:\n  max-set-size: 0\n"},
		{name: "bad log-level", contents: "options:\n  log-level: 9\n"},
		{name: "not yaml", contents: "options: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.contents)); err == nil {
				t.Errorf("Load() accepted %q", tt.contents)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load() of a missing file succeeded")
	}
}

func TestGlobalConfig(t *testing.T) {
	path := writeConfig(t, "options:\n  max-set-size: 3\n")
	SetGlobalConfig(path)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal() error: %v", err)
	}
	if cfg.MaxSetSize != 3 {
		t.Errorf("MaxSetSize = %d, want 3", cfg.MaxSetSize)
	}
}

func TestValidateDefault(t *testing.T) {
	if err := NewDefault().Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}
