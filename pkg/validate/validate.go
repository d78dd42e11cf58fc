// Package validate checks catalog snapshots for structural conformance and
// referential integrity before they are allowed anywhere near a sync run.
// Validation errors are fatal and block all remote writes; cross-repo id
// collisions are advisory and reported separately by DetectCollisions.
package validate

import (
	"fmt"
	"regexp"

	"github.com/agentstation/intentmap/pkg/catalog"
)

// kebabPattern is the required id format for plugins and skills.
var kebabPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$|^[a-z0-9]$`)

// Error represents a fatal validation finding.
type Error struct {
	EntityType catalog.EntityType
	EntityID   string
	Field      string
	Message    string
}

// String renders the error with its offending identifier.
func (e Error) String() string {
	if e.EntityID != "" {
		return fmt.Sprintf("%s %s: %s", e.EntityType, e.EntityID, e.Message)
	}
	return e.Message
}

// Result is the outcome of validating a snapshot.
type Result struct {
	Errors   []Error
	Warnings []catalog.Warning
}

// IsValid returns true if validation passed.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// String returns a one-line summary of the result.
func (r *Result) String() string {
	if r.IsValid() {
		if len(r.Warnings) > 0 {
			return fmt.Sprintf("Validation passed with %d warnings", len(r.Warnings))
		}
		return "Validation passed"
	}
	return fmt.Sprintf("Validation failed with %d errors", len(r.Errors))
}

// Validate checks a snapshot for structural shape violations, dangling
// relationship references, and malformed ids. Extraction warnings carried
// by the snapshot are surfaced on the result for strict-mode gating.
func Validate(c *catalog.Catalog) *Result {
	r := &Result{Warnings: c.Warnings}

	r.Errors = append(r.Errors, checkStructure(c)...)
	r.Errors = append(r.Errors, checkIDFormats(c)...)
	r.Errors = append(r.Errors, checkRelationships(c)...)

	return r
}

// checkStructure verifies the snapshot's required shape.
func checkStructure(c *catalog.Catalog) []Error {
	var errs []Error

	if c.Meta.Version == "" {
		errs = append(errs, Error{Field: "meta.version", Message: "missing schema version"})
	}

	for _, p := range c.Plugins {
		if p.ID == "" {
			errs = append(errs, Error{EntityType: catalog.EntityTypePlugin, Field: "plugin_id",
				Message: fmt.Sprintf("plugin at %q has empty id", p.Path)})
		}
		if p.SourceRepo == "" {
			errs = append(errs, Error{EntityType: catalog.EntityTypePlugin, EntityID: p.ID,
				Field: "source_repo", Message: "missing source_repo"})
		}
	}
	for _, s := range c.Skills {
		if s.ID == "" {
			errs = append(errs, Error{EntityType: catalog.EntityTypeSkill, Field: "skill_id",
				Message: fmt.Sprintf("skill at %q has empty id", s.Path)})
		}
		if s.SourceRepo == "" {
			errs = append(errs, Error{EntityType: catalog.EntityTypeSkill, EntityID: s.ID,
				Field: "source_repo", Message: "missing source_repo"})
		}
	}
	for _, d := range c.Documents {
		if d.ID == "" {
			errs = append(errs, Error{EntityType: catalog.EntityTypeDocument, Field: "doc_id",
				Message: fmt.Sprintf("document at %q has empty id", d.Path)})
		}
	}

	return errs
}

// checkIDFormats verifies plugin and skill ids are kebab-case.
func checkIDFormats(c *catalog.Catalog) []Error {
	var errs []Error

	for _, p := range c.Plugins {
		if p.ID != "" && !kebabPattern.MatchString(p.ID) {
			errs = append(errs, Error{EntityType: catalog.EntityTypePlugin, EntityID: p.ID,
				Field: "plugin_id", Message: fmt.Sprintf("invalid plugin_id format: %s", p.ID)})
		}
	}
	for _, s := range c.Skills {
		if s.ID != "" && !kebabPattern.MatchString(s.ID) {
			errs = append(errs, Error{EntityType: catalog.EntityTypeSkill, EntityID: s.ID,
				Field: "skill_id", Message: fmt.Sprintf("invalid skill_id format: %s", s.ID)})
		}
	}

	return errs
}

// checkRelationships verifies every relationship endpoint resolves to an
// existing entity of the matching type within the snapshot.
func checkRelationships(c *catalog.Catalog) []Error {
	idSets := map[catalog.EntityType]map[string]bool{
		catalog.EntityTypePlugin:   c.PluginIDs(),
		catalog.EntityTypeSkill:    c.SkillIDs(),
		catalog.EntityTypeDocument: c.DocumentIDs(),
	}

	var errs []Error
	for _, rel := range c.Relationships {
		if ids, ok := idSets[rel.SourceType]; ok && !ids[rel.SourceID] {
			errs = append(errs, Error{EntityType: rel.SourceType, EntityID: rel.SourceID,
				Message: fmt.Sprintf("relationship references unknown %s: %s", rel.SourceType, rel.SourceID)})
		}
		if ids, ok := idSets[rel.TargetType]; ok && !ids[rel.TargetID] {
			errs = append(errs, Error{EntityType: rel.TargetType, EntityID: rel.TargetID,
				Message: fmt.Sprintf("relationship references unknown %s: %s", rel.TargetType, rel.TargetID)})
		}
	}

	return errs
}
