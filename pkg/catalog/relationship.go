package catalog

import "strings"

// Confidence indicates how a relationship was established.
type Confidence string

// Confidence constants.
const (
	ConfidenceInferred Confidence = "inferred" // Derived from repo structure
	ConfidenceDeclared Confidence = "declared" // Explicitly declared in a manifest
)

// Relation names the type of a directed edge between two entities.
type Relation string

// Relation constants.
const (
	RelationShipsWith Relation = "ships_with" // Plugin bundles a skill
	RelationDocuments Relation = "documents"  // Document describes an entity
)

// LinkSeparator joins the components of a composite link key. The composite
// key is the upsert key for relationship records, so two relationships with
// identical (source, target, relation) collapse into one remote record.
const LinkSeparator = "::"

// Relationship is a directed, typed edge between two catalog entities.
// Edges are many-to-many and not required to be acyclic.
type Relationship struct {
	SourceType EntityType `json:"source_type" yaml:"source_type"` // Variant of the source entity
	SourceID   string     `json:"source_id" yaml:"source_id"`     // Id of the source entity
	TargetType EntityType `json:"target_type" yaml:"target_type"` // Variant of the target entity
	TargetID   string     `json:"target_id" yaml:"target_id"`     // Id of the target entity
	Relation   Relation   `json:"relation_type" yaml:"relation_type"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// LinkID returns the composite upsert key for the relationship:
// source_id::target_id::relation_type.
func (r Relationship) LinkID() string {
	return strings.Join([]string{r.SourceID, r.TargetID, string(r.Relation)}, LinkSeparator)
}
