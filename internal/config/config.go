package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from docpipe.yml.
// Every field has a command-line flag counterpart; flags win over the file.
type ProjectConfig struct {
	Workflow      string `yaml:"workflow,omitempty"`
	OutputDir     string `yaml:"outputDir,omitempty"`
	AssetsDir     string `yaml:"assetsDir,omitempty"`
	AgentEndpoint string `yaml:"agentEndpoint,omitempty"`
	Verbose       bool   `yaml:"verbose,omitempty"`
}

// Load attempts to read docpipe.yml or docpipe.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"docpipe.yml", "docpipe.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
