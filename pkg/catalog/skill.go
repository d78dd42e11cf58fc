package catalog

// Skill represents a skill discovered from a SKILL.md manifest.
type Skill struct {
	ID             string   `json:"skill_id" yaml:"skill_id"`             // Stable kebab-case identifier
	Name           string   `json:"name" yaml:"name"`                     // Display name from frontmatter
	Description    string   `json:"description" yaml:"description"`       // Frontmatter description
	Version        string   `json:"version" yaml:"version"`               // Frontmatter version string
	Path           string   `json:"path" yaml:"path"`                     // SKILL.md path, relative to the repo root
	SourceRepo     string   `json:"source_repo" yaml:"source_repo"`       // Name of the repo the skill came from
	SourceCommit   string   `json:"source_commit" yaml:"source_commit"`   // Short commit hash at extraction time
	AllowedTools   string   `json:"allowed_tools" yaml:"allowed_tools"`   // Raw allowed-tools frontmatter value
	Author         string   `json:"author" yaml:"author"`                 // Frontmatter author
	License        string   `json:"license" yaml:"license"`               // Frontmatter license
	TriggerPhrases []string `json:"trigger_phrases" yaml:"trigger_phrases"` // Sorted, deduplicated cue phrases
	IsStandalone   bool     `json:"is_standalone" yaml:"is_standalone"`   // True when not nested under any plugin
	HasReferences  bool     `json:"has_references" yaml:"has_references"` // references/ subtree present
	HasAssets      bool     `json:"has_assets" yaml:"has_assets"`         // assets/ subtree present
	HasScripts     bool     `json:"has_scripts" yaml:"has_scripts"`       // scripts/ subtree present
}

// Identity implements the Entity interface.
func (s Skill) Identity() string { return s.ID }

// EntityType implements the Entity interface.
func (s Skill) EntityType() EntityType { return EntityTypeSkill }

// Repo implements the Entity interface.
func (s Skill) Repo() string { return s.SourceRepo }
