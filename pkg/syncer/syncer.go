// Package syncer reconciles a validated catalog snapshot against remote
// Airtable tables. Field writes follow the per-field ownership policy:
// repo-owned values come from the snapshot, remote-owned (protected)
// values are preserved from the existing record, and sync-managed fields
// are stamped by the reconciler. Records absent from the snapshot are
// marked inactive, never deleted.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/intentmap/pkg/airtable"
	"github.com/agentstation/intentmap/pkg/catalog"
	"github.com/agentstation/intentmap/pkg/constants"
	"github.com/agentstation/intentmap/pkg/errors"
	"github.com/agentstation/intentmap/pkg/logging"
	"github.com/agentstation/intentmap/pkg/ownership"
)

// Client is the remote surface the reconciler needs. *airtable.Client
// satisfies it.
type Client interface {
	ListRecords(ctx context.Context, tableID string) ([]airtable.Record, error)
	UpsertBatch(ctx context.Context, tableID string, records []airtable.Record) ([]airtable.Record, error)
}

// Syncer applies a catalog snapshot to a set of remote tables.
type Syncer struct {
	client   Client
	schema   *ownership.Schema
	mappings *airtable.Mappings
	logger   zerolog.Logger
	dryRun   bool
	now      func() utc.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithDryRun computes the write plan without executing any remote write.
func WithDryRun(dryRun bool) Option {
	return func(s *Syncer) {
		s.dryRun = dryRun
	}
}

// WithLogger sets the logger used for progress output.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithNow overrides the clock used for last_synced stamps.
func WithNow(now func() utc.Time) Option {
	return func(s *Syncer) {
		s.now = now
	}
}

// New creates a Syncer. The schema and mappings are hard preconditions
// and must already be loaded and validated.
func New(client Client, schema *ownership.Schema, mappings *airtable.Mappings, opts ...Option) *Syncer {
	s := &Syncer{
		client:   client,
		schema:   schema,
		mappings: mappings,
		logger:   *logging.Default(),
		now:      utc.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reconciles the catalog against the remote base. Entity tables sync
// first so relationship tables can link against their record IDs. A
// remote failure halts further tables but already-committed batches
// stand; the returned summary reflects whatever completed.
func (s *Syncer) Run(ctx context.Context, c *catalog.Catalog) (*Summary, error) {
	summary := newSummary(s.dryRun, s.now())
	defer summary.finalize()

	plugins, err := entityMaps(c.Plugins)
	if err != nil {
		return summary, err
	}
	skills, err := entityMaps(c.Skills)
	if err != nil {
		return summary, err
	}
	documents, err := entityMaps(c.Documents)
	if err != nil {
		return summary, err
	}

	pluginIDs, err := s.syncEntities(ctx, plugins, "Plugins", summary.Stats["plugins"])
	if err != nil {
		return summary, err
	}
	skillIDs, err := s.syncEntities(ctx, skills, "Skills", summary.Stats["skills"])
	if err != nil {
		return summary, err
	}
	docIDs, err := s.syncEntities(ctx, documents, "Documents", summary.Stats["documents"])
	if err != nil {
		return summary, err
	}

	if err := s.syncPluginSkillLinks(ctx, c.Relationships, pluginIDs, skillIDs, summary.Stats["plugin_skill_links"]); err != nil {
		return summary, err
	}
	if err := s.syncEntityDocLinks(ctx, c.Relationships, docIDs, summary.Stats["entity_doc_links"]); err != nil {
		return summary, err
	}

	return summary, nil
}

// entityMaps converts typed entities to field maps through their JSON
// form, so field names match the snapshot keys the schema refers to.
func entityMaps[T any](items []T) ([]map[string]any, error) {
	maps := make([]map[string]any, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// fetchExisting lists a table's records keyed by their primary field
// value. Records without a primary value are ignored.
func (s *Syncer) fetchExisting(ctx context.Context, tableID, primaryField string) (map[string]airtable.Record, error) {
	records, err := s.client.ListRecords(ctx, tableID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]airtable.Record, len(records))
	for _, record := range records {
		key, ok := record.Fields[primaryField].(string)
		if ok && key != "" {
			existing[key] = record
		}
	}
	return existing, nil
}

// prepareFields builds the field set to write for one entity, applying
// the ownership policy field by field.
func (s *Syncer) prepareFields(entity map[string]any, table *ownership.Table, existing *airtable.Record) map[string]any {
	fields := make(map[string]any)

	for _, name := range table.FieldNames() {
		spec := table.Fields[name]
		switch spec.Owner {
		case ownership.RemoteOwned:
			// Protected: keep the human-entered value, never derive it.
			if existing != nil {
				if value, ok := existing.Fields[name]; ok {
					fields[name] = value
				}
			}
		case ownership.SyncManaged, ownership.Computed:
			// Sync-managed fields are stamped below; computed fields are
			// reserved and skipped.
		case ownership.RepoOwned:
			value, ok := entity[name]
			if !ok {
				continue
			}
			if list, isList := value.([]any); isList && spec.Type.IsText() {
				parts := make([]string, len(list))
				for i, v := range list {
					parts[i] = fmt.Sprint(v)
				}
				value = strings.Join(parts, ", ")
			}
			if spec.Type == ownership.TypeCheckbox {
				b, _ := value.(bool)
				value = b
			}
			fields[name] = value
		}
	}

	fields["last_synced"] = s.now().Format(time.RFC3339)
	return fields
}

// unchanged reports whether writing the prepared fields would be a no-op
// against the existing record. The sync-managed timestamp is excluded
// from the comparison, which is what makes re-runs idempotent.
func unchanged(prepared map[string]any, existing *airtable.Record) bool {
	if existing == nil {
		return false
	}
	for name, value := range prepared {
		if name == "last_synced" {
			continue
		}
		// The API omits unchecked checkboxes from record fields, so a
		// false value with no remote counterpart is not a difference.
		if b, ok := value.(bool); ok && !b {
			if _, present := existing.Fields[name]; !present {
				continue
			}
		}
		if !reflect.DeepEqual(existing.Fields[name], value) {
			return false
		}
	}
	return true
}

// syncEntities reconciles one entity table and returns the mapping from
// entity ID to remote record ID, used to populate linked-record fields.
func (s *Syncer) syncEntities(ctx context.Context, entities []map[string]any, tableName string, stats *Stats) (map[string]string, error) {
	table := s.schema.Table(tableName)
	if table == nil {
		return nil, errors.NewConfigError("schema", fmt.Sprintf("table %q not defined in ownership schema", tableName), nil)
	}
	tableID, err := s.mappings.TableID(tableName)
	if err != nil {
		return nil, err
	}

	log := s.logger.With().Str("table", tableName).Logger()
	log.Info().Int("entities", len(entities)).Msg("syncing table")

	existing, err := s.fetchExisting(ctx, tableID, table.PrimaryField)
	if err != nil {
		return nil, errors.NewSyncError(tableName, nil, err)
	}
	log.Debug().Int("existing", len(existing)).Msg("fetched remote records")

	seen := make(map[string]bool, len(entities))
	idMapping := make(map[string]string, len(entities))

	var batch []airtable.Record
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		defer func() { batch = nil }()

		if s.dryRun {
			log.Info().Int("records", len(batch)).Msg("dry run, skipping upsert")
			return nil
		}
		results, err := s.client.UpsertBatch(ctx, tableID, batch)
		if err != nil {
			keys := recordKeys(batch, table.PrimaryField)
			stats.Errors = append(stats.Errors, keys...)
			return errors.NewSyncError(tableName, keys, err)
		}
		for _, r := range results {
			if key, ok := r.Fields[table.PrimaryField].(string); ok && key != "" {
				idMapping[key] = r.ID
			}
		}
		return nil
	}

	for _, entity := range entities {
		entityID, _ := entity[table.PrimaryField].(string)
		if entityID == "" {
			continue
		}
		seen[entityID] = true

		var existingRecord *airtable.Record
		if record, ok := existing[entityID]; ok {
			existingRecord = &record
		}

		fields := s.prepareFields(entity, table, existingRecord)
		if unchanged(fields, existingRecord) {
			stats.Unchanged++
			continue
		}

		record := airtable.Record{Fields: fields}
		if existingRecord != nil {
			record.ID = existingRecord.ID
			stats.Updated++
		} else {
			stats.Created++
		}
		batch = append(batch, record)

		if len(batch) >= constants.SyncBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	// Soft delete: remote records absent from the snapshot flip to
	// inactive. Sorted for a deterministic write order.
	var missing []string
	for key := range existing {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	if len(missing) > 0 {
		log.Info().Int("records", len(missing)).Msg("marking records inactive")
		records := make([]airtable.Record, len(missing))
		for i, key := range missing {
			records[i] = existing[key]
		}
		if err := s.markInactive(ctx, tableName, tableID, records, stats); err != nil {
			return nil, err
		}
	}

	// Entities that were unchanged or dry-run still need their remote
	// IDs for relationship linking.
	for key, record := range existing {
		if _, ok := idMapping[key]; !ok {
			idMapping[key] = record.ID
		}
	}

	return idMapping, nil
}

// markInactive flips the status of remote records to the inactive
// sentinel. Records already inactive are left untouched, so repeating
// the same missing-entity scenario is a no-op.
func (s *Syncer) markInactive(ctx context.Context, tableName, tableID string, records []airtable.Record, stats *Stats) error {
	var batch []airtable.Record
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		defer func() { batch = nil }()

		stats.MarkedInactive += len(batch)
		if s.dryRun {
			return nil
		}
		if _, err := s.client.UpsertBatch(ctx, tableID, batch); err != nil {
			return errors.NewSyncError(tableName, recordIDs(batch), err)
		}
		return nil
	}

	for _, record := range records {
		if status, ok := record.Fields["status"].(string); ok && status == constants.InactiveStatus {
			continue
		}
		batch = append(batch, airtable.Record{
			ID:     record.ID,
			Fields: map[string]any{"status": constants.InactiveStatus},
		})
		if len(batch) >= constants.SyncBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func recordKeys(records []airtable.Record, primaryField string) []string {
	keys := make([]string, 0, len(records))
	for _, r := range records {
		if key, ok := r.Fields[primaryField].(string); ok && key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func recordIDs(records []airtable.Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}
