package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/intentmap/pkg/catalog"
	"github.com/agentstation/intentmap/pkg/extract"
	"github.com/agentstation/intentmap/pkg/logging"
	"github.com/agentstation/intentmap/pkg/validate"
)

var (
	extractRepos      []string
	extractSources    string
	extractOut        string
	checkCollisions   bool
	extractSkipSave   bool
	extractSchemaVers string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a catalog snapshot from source repositories",
	Long: `Extract scans the given repositories for plugins, skills, and
documents, infers their relationships, and writes a sorted, deterministic
catalog snapshot. Warnings are written to a sidecar file alongside the
snapshot; cross-repo id collisions to another, when any are found.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringArrayVar(&extractRepos, "repo", nil, "repository root to scan (repeatable)")
	extractCmd.Flags().StringVar(&extractSources, "sources", "", "sources config file listing repositories")
	extractCmd.Flags().StringVar(&extractOut, "out", "dist/catalog.json", "output path for the catalog snapshot")
	extractCmd.Flags().BoolVar(&checkCollisions, "check-collisions", false, "fail when entities from different repos share an id")
	extractCmd.Flags().BoolVar(&extractSkipSave, "no-save", false, "extract and report without writing the snapshot")
	extractCmd.Flags().StringVar(&extractSchemaVers, "schema-version", "", "override the snapshot schema version")
}

func runExtract(cmd *cobra.Command, _ []string) error {
	log := logging.Default()

	repos := extractRepos
	if extractSources != "" {
		fromConfig, err := extract.LoadSources(extractSources)
		if err != nil {
			return err
		}
		repos = append(repos, fromConfig...)
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repositories given, use --repo or --sources")
	}

	extractor := extract.New(extract.Config{
		Repos:         repos,
		SchemaVersion: extractSchemaVers,
	})
	c, err := extractor.Run(cmd.Context())
	if err != nil {
		return err
	}

	collisions := validate.DetectCollisions(c)
	for _, collision := range collisions {
		log.Warn().
			Str("type", string(collision.Type)).
			Str("id", collision.ID).
			Strs("repos", collision.Repos).
			Msg("cross-repo id collision")
	}

	if !extractSkipSave {
		if err := catalog.Save(c, extractOut, collisions); err != nil {
			return err
		}
		log.Info().Str("path", extractOut).Msg("catalog snapshot written")
	}

	fmt.Fprintf(os.Stdout, "Extracted %d plugins, %d skills, %d documents, %d relationships (%d warnings)\n",
		len(c.Plugins), len(c.Skills), len(c.Documents), len(c.Relationships), len(c.Warnings))

	if checkCollisions && len(collisions) > 0 {
		return fmt.Errorf("%d cross-repo id collisions found", len(collisions))
	}
	return nil
}
