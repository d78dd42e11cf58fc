package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/intentmap/pkg/airtable"
	"github.com/agentstation/intentmap/pkg/catalog"
	"github.com/agentstation/intentmap/pkg/errors"
	"github.com/agentstation/intentmap/pkg/logging"
	"github.com/agentstation/intentmap/pkg/ownership"
	"github.com/agentstation/intentmap/pkg/syncer"
	"github.com/agentstation/intentmap/pkg/validate"
)

var (
	syncDryRun   bool
	syncCatalog  string
	syncBaseID   string
	syncSchema   string
	syncMappings string
	syncSummary  string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile a catalog snapshot against Airtable",
	Long: `Sync validates the catalog snapshot, then reconciles it against
the Airtable base: new entities are created, changed entities updated,
and entities absent from the snapshot marked inactive. Protected fields
are preserved from the remote side and records are never deleted.

Credentials come from AIRTABLE_TOKEN and AIRTABLE_BASE_ID (or --base-id);
both are checked before any other work begins.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "compute and report the write plan without making changes")
	syncCmd.Flags().StringVar(&syncCatalog, "catalog", "dist/catalog.json", "path to the catalog snapshot")
	syncCmd.Flags().StringVar(&syncBaseID, "base-id", "", "Airtable base ID (overrides AIRTABLE_BASE_ID)")
	syncCmd.Flags().StringVar(&syncSchema, "schema", "schema/airtable.base.json", "path to the field-ownership schema")
	syncCmd.Flags().StringVar(&syncMappings, "mappings", "mappings/airtable_ids.json", "path to the provisioner's table/field id mappings")
	syncCmd.Flags().StringVar(&syncSummary, "summary", "dist/sync_summary.json", "output path for the sync summary")
}

func runSync(cmd *cobra.Command, _ []string) error {
	log := logging.Default()

	// Preflight: credentials first, before touching any artifact.
	token := viper.GetString("AIRTABLE_TOKEN")
	if token == "" {
		return errors.NewConfigError("credentials", "AIRTABLE_TOKEN is not set", errors.ErrTokenRequired)
	}
	baseID := syncBaseID
	if baseID == "" {
		baseID = viper.GetString("AIRTABLE_BASE_ID")
	}
	if baseID == "" {
		return errors.NewConfigError("credentials", "AIRTABLE_BASE_ID is not set (use --base-id or env var)", nil)
	}

	schema, err := ownership.Load(syncSchema)
	if err != nil {
		return err
	}
	mappings, err := airtable.LoadMappings(syncMappings)
	if err != nil {
		return err
	}

	c, err := catalog.Load(syncCatalog)
	if err != nil {
		return err
	}

	// Validate before any remote write. A broken snapshot never syncs.
	if result := validate.Validate(c); !result.IsValid() {
		fmt.Fprint(os.Stderr, result.String())
		return fmt.Errorf("catalog failed validation with %d errors, refusing to sync", len(result.Errors))
	}

	client, err := airtable.NewClient(token, baseID)
	if err != nil {
		return err
	}

	log.Info().
		Str("base", baseID).
		Str("version", c.Meta.Version).
		Bool("dry_run", syncDryRun).
		Int("plugins", len(c.Plugins)).
		Int("skills", len(c.Skills)).
		Int("documents", len(c.Documents)).
		Msg("starting sync")

	s := syncer.New(client, schema, mappings,
		syncer.WithDryRun(syncDryRun),
		syncer.WithLogger(*log),
	)

	summary, runErr := s.Run(cmd.Context(), c)

	// The summary is written even on partial failure, so operators can
	// see what committed before the run halted.
	if summary != nil {
		if err := summary.WriteFile(syncSummary); err != nil {
			log.Error().Err(err).Str("path", syncSummary).Msg("failed to write sync summary")
		} else {
			log.Info().Str("path", syncSummary).Msg("sync summary written")
		}
		if err := summary.Render(os.Stdout); err != nil {
			log.Error().Err(err).Msg("failed to render summary table")
		}
	}

	if runErr != nil {
		return runErr
	}
	if summary.HasErrors() {
		return fmt.Errorf("sync completed with %d record errors", len(summary.Totals.Errors))
	}
	return nil
}
