package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds project-level settings loaded from crategraph.yml.
// Environment variables (optionally from a .env file) override file values.
type Config struct {
	Project      string   `yaml:"project,omitempty"`
	DatabasePath string   `yaml:"databasePath,omitempty"`
	ExcludeDirs  []string `yaml:"excludeDirs,omitempty"`
	Verbose      bool     `yaml:"verbose,omitempty"`
}

// Load reads crategraph.yml or crategraph.yaml from the given directory.
// A missing config file yields a zero-value config, not an error. A .env
// file in the working directory is loaded first, then CRATEGRAPH_PROJECT
// and CRATEGRAPH_DB override whatever the file set.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	for _, name := range []string{"crategraph.yml", "crategraph.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		break
	}

	if v := os.Getenv("CRATEGRAPH_PROJECT"); v != "" {
		cfg.Project = v
	}
	if v := os.Getenv("CRATEGRAPH_DB"); v != "" {
		cfg.DatabasePath = v
	}

	return &cfg, nil
}
