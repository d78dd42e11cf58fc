package catalog

// PluginStatus represents the lifecycle stage of a plugin.
type PluginStatus string

// Plugin status constants.
const (
	PluginStatusDevelopment PluginStatus = "development"
	PluginStatusProduction  PluginStatus = "production"
	PluginStatusArchived    PluginStatus = "archived"
)

// Plugin represents a plugin discovered from a plugin.json manifest.
type Plugin struct {
	ID           string       `json:"plugin_id" yaml:"plugin_id"`         // Stable kebab-case identifier
	Name         string       `json:"name" yaml:"name"`                   // Display name from the manifest
	Description  string       `json:"description" yaml:"description"`     // Manifest description
	Version      string       `json:"version" yaml:"version"`             // Manifest version string
	Path         string       `json:"path" yaml:"path"`                   // Plugin directory, relative to the repo root
	SourceRepo   string       `json:"source_repo" yaml:"source_repo"`     // Name of the repo the plugin came from
	SourceCommit string       `json:"source_commit" yaml:"source_commit"` // Short commit hash at extraction time
	Status       PluginStatus `json:"status" yaml:"status"`               // Inferred from path segments
	HasMCP       bool         `json:"has_mcp" yaml:"has_mcp"`             // Whether the plugin ships a .mcp.json
	Commands     []string     `json:"commands" yaml:"commands"`           // Sorted command names (commands/*.md stems)
	Agents       []string     `json:"agents" yaml:"agents"`               // Sorted agent names (agents/*.md stems)
}

// Identity implements the Entity interface.
func (p Plugin) Identity() string { return p.ID }

// EntityType implements the Entity interface.
func (p Plugin) EntityType() EntityType { return EntityTypePlugin }

// Repo implements the Entity interface.
func (p Plugin) Repo() string { return p.SourceRepo }
