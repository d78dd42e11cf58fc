package catalog

import (
	"sort"

	"github.com/agentstation/utc"
)

// RepoMeta describes one source repository scanned during extraction.
type RepoMeta struct {
	Path   string `json:"path" yaml:"path"`     // Absolute path of the repo root
	Name   string `json:"name" yaml:"name"`     // Repo directory name
	Commit string `json:"commit" yaml:"commit"` // Short commit hash, or "unknown"
}

// Meta holds snapshot-level metadata.
type Meta struct {
	Version     string     `json:"version" yaml:"version"`           // Snapshot schema version
	ExtractedAt utc.Time   `json:"extracted_at" yaml:"extracted_at"` // When the extraction ran
	Repos       []RepoMeta `json:"repos" yaml:"repos"`               // Scanned source repos, in input order
}

// Catalog is the immutable, versioned output of one extraction run.
// Two runs over byte-identical repo content produce byte-identical catalogs
// apart from Meta.ExtractedAt — the load-bearing property for idempotent sync.
type Catalog struct {
	Meta          Meta           `json:"meta" yaml:"meta"`
	Plugins       []Plugin       `json:"plugins" yaml:"plugins"`
	Skills        []Skill        `json:"skills" yaml:"skills"`
	Documents     []Document     `json:"documents" yaml:"documents"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
	Warnings      []Warning      `json:"warnings" yaml:"warnings"`
}

// Sort puts the catalog into canonical form: entities ordered by id,
// relationships by (source_id, target_id, relation_type), warnings by path.
// Sort order, not discovery order, is part of the snapshot's canonical form.
func (c *Catalog) Sort() {
	sort.Slice(c.Plugins, func(i, j int) bool { return c.Plugins[i].ID < c.Plugins[j].ID })
	sort.Slice(c.Skills, func(i, j int) bool { return c.Skills[i].ID < c.Skills[j].ID })
	sort.Slice(c.Documents, func(i, j int) bool { return c.Documents[i].ID < c.Documents[j].ID })
	sort.Slice(c.Relationships, func(i, j int) bool {
		a, b := c.Relationships[i], c.Relationships[j]
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		if a.TargetID != b.TargetID {
			return a.TargetID < b.TargetID
		}
		return a.Relation < b.Relation
	})
	sort.Slice(c.Warnings, func(i, j int) bool { return c.Warnings[i].Path < c.Warnings[j].Path })
}

// PluginIDs returns the set of plugin ids in the catalog.
func (c *Catalog) PluginIDs() map[string]bool {
	ids := make(map[string]bool, len(c.Plugins))
	for _, p := range c.Plugins {
		ids[p.ID] = true
	}
	return ids
}

// SkillIDs returns the set of skill ids in the catalog.
func (c *Catalog) SkillIDs() map[string]bool {
	ids := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		ids[s.ID] = true
	}
	return ids
}

// DocumentIDs returns the set of document ids in the catalog.
func (c *Catalog) DocumentIDs() map[string]bool {
	ids := make(map[string]bool, len(c.Documents))
	for _, d := range c.Documents {
		ids[d.ID] = true
	}
	return ids
}

// RelationshipsBetween returns relationships matching the given source and
// target entity types.
func (c *Catalog) RelationshipsBetween(source, target EntityType) []Relationship {
	var out []Relationship
	for _, r := range c.Relationships {
		if r.SourceType == source && r.TargetType == target {
			out = append(out, r)
		}
	}
	return out
}

// RelationshipsTo returns relationships whose target is the given entity type.
func (c *Catalog) RelationshipsTo(target EntityType) []Relationship {
	var out []Relationship
	for _, r := range c.Relationships {
		if r.TargetType == target {
			out = append(out, r)
		}
	}
	return out
}
