package catalog

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortCanonicalOrder(t *testing.T) {
	c := &Catalog{
		Plugins: []Plugin{{ID: "zeta"}, {ID: "alpha"}},
		Skills:  []Skill{{ID: "skill-b"}, {ID: "skill-a"}},
		Documents: []Document{
			{ID: "002-pp-plan-roadmap"},
			{ID: "001-od-arch-overview"},
		},
		Relationships: []Relationship{
			{SourceID: "alpha", TargetID: "skill-b", Relation: RelationShipsWith},
			{SourceID: "alpha", TargetID: "skill-a", Relation: RelationShipsWith},
			{SourceID: "alpha", TargetID: "skill-a", Relation: RelationDocuments},
		},
		Warnings: []Warning{{Path: "b.md"}, {Path: "a.md"}},
	}

	c.Sort()

	assert.Equal(t, "alpha", c.Plugins[0].ID)
	assert.Equal(t, "skill-a", c.Skills[0].ID)
	assert.Equal(t, "001-od-arch-overview", c.Documents[0].ID)
	assert.Equal(t, "a.md", c.Warnings[0].Path)

	// Relationships tie-break on relation type after source and target.
	assert.Equal(t, RelationDocuments, c.Relationships[0].Relation)
	assert.Equal(t, "skill-b", c.Relationships[2].TargetID)
}

func TestSortIsIdempotent(t *testing.T) {
	c := &Catalog{
		Plugins: []Plugin{{ID: "b"}, {ID: "a"}},
	}
	c.Sort()
	first := append([]Plugin(nil), c.Plugins...)
	c.Sort()
	assert.Empty(t, cmp.Diff(first, c.Plugins))
}

func TestLinkID(t *testing.T) {
	r := Relationship{
		SourceType: EntityTypePlugin,
		SourceID:   "my-plugin",
		TargetType: EntityTypeSkill,
		TargetID:   "my-skill",
		Relation:   RelationShipsWith,
	}
	assert.Equal(t, "my-plugin::my-skill::ships_with", r.LinkID())
}

func TestDocTypeForCategory(t *testing.T) {
	tests := []struct {
		code     string
		expected DocType
	}{
		{"OD-ARCH", DocTypeArchitecture},
		{"PP-PLAN", DocTypePlanning},
		{"PP-PRD", DocTypeSpec},
		{"DR-STND", DocTypeSpec},
		{"AA-AUDT", DocTypeAudit},
		{"UC-CASE", DocTypeUseCase},
		{"XX-NOPE", DocTypeUnknown},
		{"", DocTypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DocTypeForCategory(tt.code), "code %q", tt.code)
	}
}

func TestIDSets(t *testing.T) {
	c := &Catalog{
		Plugins:   []Plugin{{ID: "p1"}},
		Skills:    []Skill{{ID: "s1"}, {ID: "s2"}},
		Documents: []Document{{ID: "d1"}},
	}

	assert.True(t, c.PluginIDs()["p1"])
	assert.Len(t, c.SkillIDs(), 2)
	assert.True(t, c.DocumentIDs()["d1"])
	assert.False(t, c.PluginIDs()["s1"])
}

func TestRelationshipFilters(t *testing.T) {
	c := &Catalog{
		Relationships: []Relationship{
			{SourceType: EntityTypePlugin, TargetType: EntityTypeSkill, SourceID: "p1", TargetID: "s1"},
			{SourceType: EntityTypeSkill, TargetType: EntityTypeDocument, SourceID: "s1", TargetID: "d1"},
		},
	}

	assert.Len(t, c.RelationshipsBetween(EntityTypePlugin, EntityTypeSkill), 1)
	assert.Len(t, c.RelationshipsTo(EntityTypeDocument), 1)
	assert.Empty(t, c.RelationshipsBetween(EntityTypeDocument, EntityTypePlugin))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	c := &Catalog{
		Meta: Meta{Version: "1.0.0"},
		Plugins: []Plugin{{
			ID:       "my-plugin",
			Name:     "My Plugin",
			Status:   PluginStatusProduction,
			Commands: []string{"deploy"},
		}},
		Warnings: []Warning{{Path: "bad.md", Message: "unreadable", Severity: SeverityWarning}},
	}

	require.NoError(t, Save(c, path, nil))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(c, loaded))

	// Warnings sidecar always written, collisions only when present.
	assert.FileExists(t, filepath.Join(dir, "catalog.warnings.json"))
	assert.NoFileExists(t, filepath.Join(dir, "catalog.collisions.json"))

	require.NoError(t, Save(c, path, []Collision{{Type: EntityTypePlugin, ID: "my-plugin", Repos: []string{"a", "b"}}}))
	assert.FileExists(t, filepath.Join(dir, "catalog.collisions.json"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
