package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/intentmap/pkg/catalog"
)

// findSkills locates every SKILL.md manifest in the repo. Skills nested
// under a discovered plugin path produce a ships_with relationship with
// inferred confidence.
func findSkills(repoPath, repoName, commit string, plugins []catalog.Plugin, warnings *[]catalog.Warning) ([]catalog.Skill, []catalog.Relationship) {
	var skills []catalog.Skill
	var relationships []catalog.Relationship

	// Longest plugin path wins when skills are nested under nested plugins.
	pluginPaths := make([]catalog.Plugin, len(plugins))
	copy(pluginPaths, plugins)
	sort.Slice(pluginPaths, func(i, j int) bool { return len(pluginPaths[i].Path) > len(pluginPaths[j].Path) })

	walkFiles(repoPath, func(path string, d fs.DirEntry) {
		if d.Name() != "SKILL.md" {
			return
		}

		skill, rel, err := extractSkill(path, repoPath, repoName, commit, pluginPaths, warnings)
		if err != nil {
			*warnings = append(*warnings, catalog.Warning{
				Path:     relPath(repoPath, path),
				Message:  fmt.Sprintf("Failed to parse skill: %v", err),
				Severity: catalog.SeverityError,
			})
			return
		}

		skills = append(skills, skill)
		if rel != nil {
			relationships = append(relationships, *rel)
		}
	})

	return skills, relationships
}

// extractSkill reads a SKILL.md manifest and derives the skill entity and,
// when the skill ships inside a plugin, its ships_with relationship.
func extractSkill(skillPath, repoPath, repoName, commit string, plugins []catalog.Plugin, warnings *[]catalog.Warning) (catalog.Skill, *catalog.Relationship, error) {
	data, err := os.ReadFile(skillPath)
	if err != nil {
		return catalog.Skill{}, nil, err
	}

	rel := relPath(repoPath, skillPath)

	fm, _, ok := parseFrontmatter(string(data))
	if !ok {
		// Malformed or absent frontmatter is not fatal; the skill is still
		// cataloged from directory conventions.
		*warnings = append(*warnings, catalog.Warning{
			Path:     rel,
			Message:  "Missing YAML frontmatter",
			Severity: catalog.SeverityWarning,
		})
	}

	skillDir := filepath.Dir(skillPath)
	dirName := filepath.Base(skillDir)

	id := ToKebabCase(fm.Name)
	if id == "" {
		id = ToKebabCase(dirName)
	}

	name := fm.Name
	if name == "" {
		name = dirName
	}

	// A skill is standalone unless its path falls under a plugin's path.
	isStandalone := true
	var parentPlugin string
	for _, p := range plugins {
		if p.Path != "" && strings.HasPrefix(rel, p.Path+"/") {
			isStandalone = false
			parentPlugin = p.ID
			break
		}
	}

	skill := catalog.Skill{
		ID:             id,
		Name:           name,
		Description:    fm.Description,
		Version:        fm.Version,
		Path:           rel,
		SourceRepo:     repoName,
		SourceCommit:   commit,
		AllowedTools:   fm.AllowedTools,
		Author:         fm.Author,
		License:        fm.License,
		TriggerPhrases: ExtractTriggerPhrases(fm.Description),
		IsStandalone:   isStandalone,
		HasReferences:  dirExists(filepath.Join(skillDir, "references")),
		HasAssets:      dirExists(filepath.Join(skillDir, "assets")),
		HasScripts:     dirExists(filepath.Join(skillDir, "scripts")),
	}

	var relationship *catalog.Relationship
	if parentPlugin != "" {
		relationship = &catalog.Relationship{
			SourceType: catalog.EntityTypePlugin,
			SourceID:   parentPlugin,
			TargetType: catalog.EntityTypeSkill,
			TargetID:   id,
			Relation:   catalog.RelationShipsWith,
			Confidence: catalog.ConfidenceInferred,
		}
	}

	return skill, relationship, nil
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
