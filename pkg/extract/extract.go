// Package extract implements the catalog extraction engine: it scans source
// repositories for plugin manifests, skill manifests, and documents, and
// produces a deterministic catalog snapshot. Two runs over byte-identical
// repository content produce byte-identical snapshots apart from the
// extraction timestamp.
package extract

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/utc"

	"github.com/agentstation/intentmap/pkg/catalog"
	"github.com/agentstation/intentmap/pkg/constants"
	"github.com/agentstation/intentmap/pkg/errors"
	"github.com/agentstation/intentmap/pkg/logging"
)

// Config holds the explicit configuration for an extraction run. It is
// constructed once by the caller and passed in; the extractor reads no
// ambient process state.
type Config struct {
	// Repos are the repository root paths to scan.
	Repos []string

	// SchemaVersion overrides the snapshot schema version. Defaults to
	// constants.SchemaVersion.
	SchemaVersion string
}

// Extractor scans source repositories and builds catalog snapshots.
type Extractor struct {
	config Config
}

// New creates an extractor with the given configuration.
func New(config Config) *Extractor {
	if config.SchemaVersion == "" {
		config.SchemaVersion = constants.SchemaVersion
	}
	return &Extractor{config: config}
}

// repoResult is the isolated partial result of scanning one repository.
type repoResult struct {
	meta          catalog.RepoMeta
	plugins       []catalog.Plugin
	skills        []catalog.Skill
	documents     []catalog.Document
	relationships []catalog.Relationship
	warnings      []catalog.Warning
}

// Run extracts a catalog snapshot from the configured repositories.
// Repositories whose path does not exist are skipped with a log warning;
// the run fails only when no repository path resolves at all. Repository
// scans are independent and run concurrently; results are merged in input
// order and then sorted into canonical form.
func (e *Extractor) Run(ctx context.Context) (*catalog.Catalog, error) {
	log := logging.FromContext(ctx)

	var valid []string
	for _, repo := range e.config.Repos {
		abs, err := filepath.Abs(repo)
		if err != nil {
			abs = repo
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			log.Warn().Str("repo", repo).Msg("Repo path does not exist, skipping")
			continue
		}
		valid = append(valid, abs)
	}

	if len(valid) == 0 {
		return nil, errors.NewConfigError("extract", "no valid repositories found", nil)
	}

	// Scan repositories concurrently; each scan only reads filesystem
	// state and produces an isolated partial result.
	results := make([]*repoResult, len(valid))
	var wg sync.WaitGroup
	for i, repoPath := range valid {
		wg.Add(1)
		go func(i int, repoPath string) {
			defer wg.Done()
			results[i] = e.scanRepo(ctx, repoPath)
		}(i, repoPath)
	}
	wg.Wait()

	c := &catalog.Catalog{
		Meta: catalog.Meta{
			Version:     e.config.SchemaVersion,
			ExtractedAt: utc.Now(),
		},
		Plugins:       []catalog.Plugin{},
		Skills:        []catalog.Skill{},
		Documents:     []catalog.Document{},
		Relationships: []catalog.Relationship{},
		Warnings:      []catalog.Warning{},
	}

	// Merge partial results in input order, then canonicalize.
	for _, r := range results {
		c.Meta.Repos = append(c.Meta.Repos, r.meta)
		c.Plugins = append(c.Plugins, r.plugins...)
		c.Skills = append(c.Skills, r.skills...)
		c.Documents = append(c.Documents, r.documents...)
		c.Relationships = append(c.Relationships, r.relationships...)
		c.Warnings = append(c.Warnings, r.warnings...)
	}
	c.Sort()

	log.Info().
		Int("plugins", len(c.Plugins)).
		Int("skills", len(c.Skills)).
		Int("documents", len(c.Documents)).
		Int("relationships", len(c.Relationships)).
		Int("warnings", len(c.Warnings)).
		Msg("Extraction complete")

	return c, nil
}

// scanRepo extracts all entities from a single repository.
func (e *Extractor) scanRepo(ctx context.Context, repoPath string) *repoResult {
	log := logging.FromContext(ctx)

	repoName := filepath.Base(repoPath)
	commit := shortCommit(repoPath)

	r := &repoResult{
		meta: catalog.RepoMeta{
			Path:   repoPath,
			Name:   repoName,
			Commit: commit,
		},
	}

	log.Debug().Str("repo", repoName).Str("commit", commit).Msg("Scanning repo")

	r.plugins = findPlugins(repoPath, repoName, commit, &r.warnings)
	r.skills, r.relationships = findSkills(repoPath, repoName, commit, r.plugins, &r.warnings)
	r.documents = findDocuments(repoPath, repoName, commit)

	return r
}
