// Package config handles the project configuration file: the publication
// target, the bundle file list, and the study output locations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600
)

// Publish describes the GitHub repository and release the bundle is
// published to.
type Publish struct {
	Owner        string   `yaml:"owner"`
	Repo         string   `yaml:"repo"`
	Branch       string   `yaml:"branch"`
	Tag          string   `yaml:"tag"`
	ReleaseTitle string   `yaml:"release_title"`
	ReleaseNotes string   `yaml:"release_notes"`
	Files        []string `yaml:"files"`
}

// Config is the app configuration persisted as yaml.
type Config struct {
	Publish   Publish `yaml:"publish"`
	CorpusCSV string  `yaml:"corpus_csv,omitempty"`
	OutputDir string  `yaml:"output_dir"`
}

func getDefaultConfig() *Config {
	return &Config{
		Publish: Publish{
			Branch:       "main",
			Tag:          "v1.0.0",
			ReleaseTitle: "Reproducibility package",
			ReleaseNotes: "Code and data bundle for the forecasting-validation literature audit.",
			Files: []string{
				"audit_dataset.csv",
				"audit_form.xlsx",
				"screening_results.csv",
				"prevalence_summary.txt",
				"hstar_results.csv",
				"figure4_hstar_comparison.png",
			},
		},
		OutputDir: ".",
	}
}

// Save writes the config into dirPath.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads the config from dirPath, writing the default first if
// none exists.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			return nil, fmt.Errorf("creating dir %s: %w", dirPath, err)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file %s: %w", path, err)
	}
	return &c, nil
}

// Validate checks the fields the publication pipeline depends on.
func (c *Config) Validate() error {
	if c.Publish.Owner == "" || c.Publish.Repo == "" {
		return errors.New("publish.owner and publish.repo are required")
	}
	if c.Publish.Tag == "" {
		return errors.New("publish.tag is required")
	}
	if len(c.Publish.Files) == 0 {
		return errors.New("publish.files must list at least one bundle file")
	}
	return nil
}

// GetOrCreateHomeDir returns the app's home directory, creating it on
// first use.
func GetOrCreateHomeDir(name string) (string, error) {
	if name == "" {
		return "", errors.New("name cannot be empty")
	}
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home dir: %w", err)
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", fmt.Errorf("creating dir %s: %w", dir, err)
		}
	}
	return dir, nil
}
