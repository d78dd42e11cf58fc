package extract

import (
	"encoding/json"
	"os"

	"github.com/agentstation/intentmap/pkg/errors"
)

// Source describes one configured repository source.
type Source struct {
	Type    string `json:"type"`    // Only "local" sources are scanned
	Path    string `json:"path"`    // Repository root path
	Name    string `json:"name"`    // Optional display name
	Enabled *bool  `json:"enabled"` // Defaults to true when omitted
}

// SourcesConfig is the on-disk repository sources configuration.
type SourcesConfig struct {
	Sources []Source `json:"sources"`
}

// LoadSources reads a sources configuration file and returns the repo paths
// of enabled local sources.
func LoadSources(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var config SourcesConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	var repos []string
	for _, source := range config.Sources {
		if source.Type != "local" {
			continue
		}
		if source.Enabled != nil && !*source.Enabled {
			continue
		}
		repos = append(repos, source.Path)
	}
	return repos, nil
}
