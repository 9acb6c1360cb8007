// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the API server configuration from YAML, with
// SANIPASSE_ environment variables overriding file values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LGFdev/sanipasse/internal/validity"
)

const DefaultListenAddr = ":8080"

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	// APIKeys is the allow-list of keys accepted by /api/validate. An empty
	// list rejects every request.
	APIKeys  []string       `yaml:"api_keys"`
	LogLevel string         `yaml:"log_level"`
	Trust    Trust          `yaml:"trust"`
	Rules    validity.Rules `yaml:"rules"`
}

// Trust points at files replacing the bundled data. Empty means bundled.
type Trust struct {
	DGC    string `yaml:"dgc"`
	DDoc   string `yaml:"ddoc"`
	Schema string `yaml:"schema"`
}

func Default() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		LogLevel:   "info",
		Rules:      validity.DefaultRules(),
	}
}

// Load reads path on top of Default and applies environment overrides.
// An empty path yields the defaults plus environment.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config unmarshal: %w", err)
		}
	}
	applyEnvOverrides(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("SANIPASSE_API_KEYS"); v != "" {
		c.APIKeys = splitList(v)
	}
	if v := os.Getenv("SANIPASSE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("SANIPASSE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr is empty")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Rules.VaccinationDelay < 0 || c.Rules.TestValidity <= 0 {
		return fmt.Errorf("config: rules must be positive durations")
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}
