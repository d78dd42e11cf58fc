// Package catalog defines the intent catalog data model: plugins, skills,
// documents, the relationships between them, and the immutable snapshot
// aggregate produced by one extraction run.
//
// A snapshot is canonical only after Sort() — entity lists ordered by id,
// relationships by (source_id, target_id, relation_type), warnings by path.
// Snapshots are never mutated after creation; each extraction run produces a
// new snapshot that supersedes the previous one.
package catalog

// EntityType identifies the kind of a catalog entity.
type EntityType string

// Entity type constants.
const (
	EntityTypePlugin   EntityType = "plugin"
	EntityTypeSkill    EntityType = "skill"
	EntityTypeDocument EntityType = "document"
)

// Entity is the common capability shared by plugins, skills, and documents:
// a stable kebab-case identifier and a type tag, enabling exhaustive
// handling over the closed set of variants.
type Entity interface {
	// Identity returns the stable kebab-case id of the entity.
	Identity() string

	// EntityType returns the variant tag.
	EntityType() EntityType

	// Repo returns the name of the source repository the entity came from.
	Repo() string
}

// Compile-time checks that all variants implement Entity.
var (
	_ Entity = Plugin{}
	_ Entity = Skill{}
	_ Entity = Document{}
)
