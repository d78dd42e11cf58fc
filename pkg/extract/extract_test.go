package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/intentmap/pkg/catalog"
)

// writeFile creates a file under root, making parent directories as needed.
func writeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// fixtureRepo builds a repo tree covering plugins, skills, and documents.
func fixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	// Plugin using the nested manifest convention, with MCP and commands.
	writeFile(t, root, "tools/my-plugin/.claude-plugin/plugin.json",
		`{"name": "My Plugin", "description": "Does things", "version": "1.2.0"}`)
	writeFile(t, root, "tools/my-plugin/.mcp.json", `{}`)
	writeFile(t, root, "tools/my-plugin/commands/deploy.md", "# deploy")
	writeFile(t, root, "tools/my-plugin/commands/audit.md", "# audit")
	writeFile(t, root, "tools/my-plugin/agents/reviewer.md", "# reviewer")

	// Production plugin by path heuristic.
	writeFile(t, root, "005-plugins/prod-plugin/plugin.json",
		`{"name": "prod-plugin", "displayName": "Prod Plugin"}`)

	// Skill shipped inside my-plugin.
	writeFile(t, root, "tools/my-plugin/skills/formatter/SKILL.md",
		"---\nname: Formatter\ndescription: Formats code. Trigger with \"format code, tidy up or cleanup\"\nversion: 0.1.0\nallowed-tools: Bash, Edit\nauthor: Jo\nlicense: MIT\n---\n\nBody.")
	writeFile(t, root, "tools/my-plugin/skills/formatter/references/notes.md", "notes")

	// Standalone skill without frontmatter.
	writeFile(t, root, "skills/solo/SKILL.md", "# Solo skill, no frontmatter")

	// Documents: conventional dir, patterned elsewhere, unpatterned inside.
	writeFile(t, root, "000-docs/007-OD-ARCH-system-overview.md",
		"# System Overview\n\nBody.")
	writeFile(t, root, "000-docs/meeting-notes.md", "no heading here")
	writeFile(t, root, "notes/042-PP-PLAN-roadmap.md", "body without heading")

	return root
}

func TestRunExtractsFixtureRepo(t *testing.T) {
	root := fixtureRepo(t)
	extractor := New(Config{Repos: []string{root}})

	c, err := extractor.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, c.Plugins, 2)
	// Sorted by id: my-plugin < prod-plugin.
	p := c.Plugins[0]
	assert.Equal(t, "my-plugin", p.ID)
	assert.Equal(t, "My Plugin", p.Name)
	assert.Equal(t, "tools/my-plugin", p.Path)
	assert.True(t, p.HasMCP)
	assert.Equal(t, []string{"audit", "deploy"}, p.Commands)
	assert.Equal(t, []string{"reviewer"}, p.Agents)
	assert.Equal(t, catalog.PluginStatusDevelopment, p.Status)

	prod := c.Plugins[1]
	assert.Equal(t, "prod-plugin", prod.ID)
	assert.Equal(t, "Prod Plugin", prod.Name)
	assert.Equal(t, catalog.PluginStatusProduction, prod.Status)
	assert.False(t, prod.HasMCP)
	assert.Empty(t, prod.Commands)

	require.Len(t, c.Skills, 2)
	formatter := c.Skills[0]
	assert.Equal(t, "formatter", formatter.ID)
	assert.False(t, formatter.IsStandalone)
	assert.True(t, formatter.HasReferences)
	assert.False(t, formatter.HasAssets)
	assert.Equal(t, "Bash, Edit", formatter.AllowedTools)
	assert.Equal(t, []string{"cleanup", "format code", "tidy up"}, formatter.TriggerPhrases)

	solo := c.Skills[1]
	assert.Equal(t, "solo", solo.ID)
	assert.True(t, solo.IsStandalone)

	require.Len(t, c.Relationships, 1)
	rel := c.Relationships[0]
	assert.Equal(t, catalog.EntityTypePlugin, rel.SourceType)
	assert.Equal(t, "my-plugin", rel.SourceID)
	assert.Equal(t, "formatter", rel.TargetID)
	assert.Equal(t, catalog.RelationShipsWith, rel.Relation)
	assert.Equal(t, catalog.ConfidenceInferred, rel.Confidence)

	require.Len(t, c.Documents, 3)
	assert.Equal(t, "007-OD-ARCH-system-overview", c.Documents[0].ID)
	assert.Equal(t, catalog.DocTypeArchitecture, c.Documents[0].DocType)
	assert.Equal(t, "OD-ARCH", c.Documents[0].CategoryCode)
	assert.Equal(t, "System Overview", c.Documents[0].Title)

	assert.Equal(t, "042-PP-PLAN-roadmap", c.Documents[1].ID)
	assert.Equal(t, catalog.DocTypePlanning, c.Documents[1].DocType)

	notes := c.Documents[2]
	assert.Equal(t, "meeting-notes", notes.ID)
	assert.Equal(t, catalog.DocTypeUnknown, notes.DocType)
	assert.Equal(t, "Meeting Notes", notes.Title)

	// The frontmatter-less skill produced a warning, not an error.
	require.Len(t, c.Warnings, 1)
	assert.Equal(t, "skills/solo/SKILL.md", c.Warnings[0].Path)
	assert.Equal(t, catalog.SeverityWarning, c.Warnings[0].Severity)

	// No .git in the fixture.
	assert.Equal(t, "unknown", c.Meta.Repos[0].Commit)
}

func TestRunIsDeterministic(t *testing.T) {
	root := fixtureRepo(t)
	extractor := New(Config{Repos: []string{root}})

	first, err := extractor.Run(context.Background())
	require.NoError(t, err)
	second, err := extractor.Run(context.Background())
	require.NoError(t, err)

	// Equal in every field except the extraction timestamp.
	assert.Equal(t, first.Plugins, second.Plugins)
	assert.Equal(t, first.Skills, second.Skills)
	assert.Equal(t, first.Documents, second.Documents)
	assert.Equal(t, first.Relationships, second.Relationships)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.Meta.Repos, second.Meta.Repos)
	assert.Equal(t, first.Meta.Version, second.Meta.Version)
}

func TestRunNoValidRepos(t *testing.T) {
	extractor := New(Config{Repos: []string{"/nonexistent/path/one", "/nonexistent/path/two"}})
	_, err := extractor.Run(context.Background())
	require.Error(t, err)
}

func TestRunSkipsMissingRepoButContinues(t *testing.T) {
	root := fixtureRepo(t)
	extractor := New(Config{Repos: []string{"/nonexistent", root}})

	c, err := extractor.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Meta.Repos, 1)
	assert.Equal(t, filepath.Base(root), c.Meta.Repos[0].Name)
}

func TestMalformedPluginManifestYieldsWarning(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken/plugin.json", "{not json")

	extractor := New(Config{Repos: []string{root}})
	c, err := extractor.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, c.Plugins)
	require.Len(t, c.Warnings, 1)
	assert.Equal(t, catalog.SeverityError, c.Warnings[0].Severity)
	assert.Contains(t, c.Warnings[0].Message, "Failed to parse plugin")
}

func TestToKebabCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My Plugin", "my-plugin"},
		{"already-kebab", "already-kebab"},
		{"Under_Score Mix", "under-score-mix"},
		{"Dots.and!chars?", "dotsandchars"},
		{"  spaced  ", "spaced"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ToKebabCase(tt.input), "input %q", tt.input)
	}
}

func TestExtractTriggerPhrases(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    []string
	}{
		{
			name:        "comma separated",
			description: `Trigger with "lint code, check style"`,
			expected:    []string{"check style", "lint code"},
		},
		{
			name:        "or separated",
			description: "trigger on deploy or release",
			expected:    []string{"deploy", "release"},
		},
		{
			name:        "quote stops the capture",
			description: `Trigger with "lint code", "check style"`,
			expected:    []string{"lint code"},
		},
		{
			name:        "short fragments dropped",
			description: `Trigger using "go, run tests"`,
			expected:    []string{"run tests"},
		},
		{
			name:        "no cue phrase",
			description: "Formats source files.",
			expected:    []string{},
		},
		{
			name:        "deduplicated",
			description: `Trigger with "fmt it, fmt it"`,
			expected:    []string{"fmt it"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractTriggerPhrases(tt.description))
		})
	}
}

func TestParseFrontmatter(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fm, body, ok := parseFrontmatter("---\nname: X\nversion: \"2.0\"\n---\nBody text")
		assert.True(t, ok)
		assert.Equal(t, "X", fm.Name)
		assert.Equal(t, "2.0", fm.Version)
		assert.Equal(t, "Body text", body)
	})

	t.Run("no fence", func(t *testing.T) {
		_, body, ok := parseFrontmatter("# Just markdown")
		assert.False(t, ok)
		assert.Equal(t, "# Just markdown", body)
	})

	t.Run("unterminated fence", func(t *testing.T) {
		_, _, ok := parseFrontmatter("---\nname: X\nno closing fence")
		assert.False(t, ok)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, _, ok := parseFrontmatter("---\n: : :\n\t-bad\n---\nbody")
		assert.False(t, ok)
	})
}

func TestInferStatus(t *testing.T) {
	assert.Equal(t, catalog.PluginStatusProduction, inferStatus("005-plugins/x"))
	assert.Equal(t, catalog.PluginStatusProduction, inferStatus("Production/x"))
	assert.Equal(t, catalog.PluginStatusArchived, inferStatus("old/Archive/x"))
	assert.Equal(t, catalog.PluginStatusDevelopment, inferStatus("tools/x"))
}

func TestStableIDIsStable(t *testing.T) {
	a := stableID("some/path/doc.md")
	b := stableID("some/path/doc.md")
	assert.Equal(t, a, b)
	assert.Regexp(t, `^doc-\d{4}$`, a)
	assert.NotEqual(t, a, stableID("other/path.md"))
}

func TestShortCommit(t *testing.T) {
	t.Run("loose ref", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")
		writeFile(t, root, ".git/refs/heads/main", "0123456789abcdef0123456789abcdef01234567\n")
		assert.Equal(t, "01234567", shortCommit(root))
	})

	t.Run("detached head", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".git/HEAD", "fedcba9876543210fedcba9876543210fedcba98\n")
		assert.Equal(t, "fedcba98", shortCommit(root))
	})

	t.Run("packed refs", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")
		writeFile(t, root, ".git/packed-refs",
			"# pack-refs with: peeled fully-peeled sorted\nabcdef0123456789abcdef0123456789abcdef01 refs/heads/main\n")
		assert.Equal(t, "abcdef01", shortCommit(root))
	})

	t.Run("no git dir", func(t *testing.T) {
		assert.Equal(t, "unknown", shortCommit(t.TempDir()))
	})
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.sources.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"sources": [
			{"type": "local", "path": "/repos/a"},
			{"type": "local", "path": "/repos/b", "enabled": false},
			{"type": "remote", "path": "https://example.com/c.git"}
		]
	}`), 0o644))

	repos, err := LoadSources(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/repos/a"}, repos)
}
