package extract

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/intentmap/pkg/catalog"
)

// pluginManifest is the subset of plugin.json fields the extractor reads.
type pluginManifest struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// nestedManifestDir is the nested-convention directory holding plugin.json.
const nestedManifestDir = ".claude-plugin"

// findPlugins locates every plugin.json manifest in the repo, including the
// nested .claude-plugin convention, de-duplicated by plugin id (first seen
// in lexical walk order wins).
func findPlugins(repoPath, repoName, commit string, warnings *[]catalog.Warning) []catalog.Plugin {
	var plugins []catalog.Plugin
	seen := make(map[string]bool)

	walkFiles(repoPath, func(path string, d fs.DirEntry) {
		if d.Name() != "plugin.json" {
			return
		}

		plugin, err := extractPlugin(path, repoPath, repoName, commit)
		if err != nil {
			*warnings = append(*warnings, catalog.Warning{
				Path:     relPath(repoPath, path),
				Message:  fmt.Sprintf("Failed to parse plugin: %v", err),
				Severity: catalog.SeverityError,
			})
			return
		}

		if seen[plugin.ID] {
			return
		}
		seen[plugin.ID] = true
		plugins = append(plugins, plugin)
	})

	return plugins
}

// extractPlugin reads a plugin manifest and derives the plugin entity.
func extractPlugin(manifestPath, repoPath, repoName, commit string) (catalog.Plugin, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return catalog.Plugin{}, err
	}

	var manifest pluginManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return catalog.Plugin{}, err
	}

	// The nested convention keeps the manifest one level below the plugin
	// directory itself.
	pluginDir := filepath.Dir(manifestPath)
	if filepath.Base(pluginDir) == nestedManifestDir {
		pluginDir = filepath.Dir(pluginDir)
	}

	dirName := filepath.Base(pluginDir)
	id := ToKebabCase(manifest.Name)
	if id == "" {
		id = ToKebabCase(dirName)
	}

	name := manifest.DisplayName
	if name == "" {
		name = manifest.Name
	}
	if name == "" {
		name = dirName
	}

	rel := relPath(repoPath, pluginDir)

	return catalog.Plugin{
		ID:           id,
		Name:         name,
		Description:  manifest.Description,
		Version:      manifest.Version,
		Path:         rel,
		SourceRepo:   repoName,
		SourceCommit: commit,
		Status:       inferStatus(rel),
		HasMCP:       fileExists(filepath.Join(pluginDir, ".mcp.json")),
		Commands:     markdownStems(filepath.Join(pluginDir, "commands")),
		Agents:       markdownStems(filepath.Join(pluginDir, "agents")),
	}, nil
}

// inferStatus derives plugin status from path segments. A recognized
// production segment wins over archive.
func inferStatus(rel string) catalog.PluginStatus {
	lower := strings.ToLower(rel)
	switch {
	case strings.Contains(rel, "005-plugins") || strings.Contains(lower, "production"):
		return catalog.PluginStatusProduction
	case strings.Contains(lower, "archive"):
		return catalog.PluginStatusArchived
	default:
		return catalog.PluginStatusDevelopment
	}
}

// markdownStems returns the sorted stems of *.md files directly inside dir.
func markdownStems(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}

	var stems []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		stems = append(stems, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(stems)
	if stems == nil {
		stems = []string{}
	}
	return stems
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// relPath returns path relative to root with forward slashes, so snapshots
// are identical across platforms.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// walkFiles walks the repository tree in lexical order, calling fn for each
// regular file. Git internals are skipped.
func walkFiles(root string, fn func(path string, d fs.DirEntry)) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree: skip, not fatal
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		fn(path, d)
		return nil
	})
}
