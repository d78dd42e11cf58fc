package syncer

import (
	"context"
	"strings"
	"time"

	"github.com/agentstation/intentmap/pkg/airtable"
	"github.com/agentstation/intentmap/pkg/catalog"
	"github.com/agentstation/intentmap/pkg/constants"
	"github.com/agentstation/intentmap/pkg/errors"
)

// linkRecord is one prepared relationship upsert keyed by its composite
// link_id.
type linkRecord struct {
	linkID string
	fields map[string]any
}

// collapseLinks builds the deduplicated, ordered set of link records for
// a table. The composite key is the upsert key, so duplicate
// relationships collapse into one record with the last write winning for
// non-key fields.
func collapseLinks(records []linkRecord) []linkRecord {
	index := make(map[string]int, len(records))
	var collapsed []linkRecord
	for _, record := range records {
		if i, ok := index[record.linkID]; ok {
			collapsed[i] = record
			continue
		}
		index[record.linkID] = len(collapsed)
		collapsed = append(collapsed, record)
	}
	return collapsed
}

// syncLinks upserts a set of prepared link records against a
// relationship table keyed by link_id.
func (s *Syncer) syncLinks(ctx context.Context, tableName string, records []linkRecord, stats *Stats) error {
	tableID, err := s.mappings.TableID(tableName)
	if err != nil {
		return err
	}

	log := s.logger.With().Str("table", tableName).Logger()
	records = collapseLinks(records)
	log.Info().Int("links", len(records)).Msg("syncing relationship table")

	existing, err := s.fetchExisting(ctx, tableID, "link_id")
	if err != nil {
		return errors.NewSyncError(tableName, nil, err)
	}

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
		if _, err := s.client.UpsertBatch(ctx, tableID, batch); err != nil {
			keys := recordKeys(batch, "link_id")
			stats.Errors = append(stats.Errors, keys...)
			return errors.NewSyncError(tableName, keys, err)
		}
		return nil
	}

	for _, link := range records {
		record := airtable.Record{Fields: link.fields}
		if existingRecord, ok := existing[link.linkID]; ok {
			record.ID = existingRecord.ID
			stats.Updated++
		} else {
			stats.Created++
		}
		batch = append(batch, record)

		if len(batch) >= constants.SyncBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// syncPluginSkillLinks reconciles plugin-to-skill relationships. Linked
// record fields are populated from the record ID mappings gathered while
// syncing the entity tables; a missing mapping just omits the link field.
func (s *Syncer) syncPluginSkillLinks(ctx context.Context, relationships []catalog.Relationship, pluginIDs, skillIDs map[string]string, stats *Stats) error {
	now := s.now().Format(time.RFC3339)

	var records []linkRecord
	for _, rel := range relationships {
		if rel.SourceType != catalog.EntityTypePlugin || rel.TargetType != catalog.EntityTypeSkill {
			continue
		}

		fields := map[string]any{
			"link_id":       rel.LinkID(),
			"relation_type": string(rel.Relation),
			"confidence":    confidenceOrDefault(rel.Confidence),
			"last_synced":   now,
		}
		if recordID, ok := pluginIDs[rel.SourceID]; ok {
			fields["plugin"] = []string{recordID}
		}
		if recordID, ok := skillIDs[rel.TargetID]; ok {
			fields["skill"] = []string{recordID}
		}

		records = append(records, linkRecord{linkID: rel.LinkID(), fields: fields})
	}

	return s.syncLinks(ctx, "PluginSkillLinks", records, stats)
}

// syncEntityDocLinks reconciles entity-to-document relationships. The
// composite key carries the source entity type, so a plugin and a skill
// sharing an id never collide on the same link record.
func (s *Syncer) syncEntityDocLinks(ctx context.Context, relationships []catalog.Relationship, docIDs map[string]string, stats *Stats) error {
	now := s.now().Format(time.RFC3339)

	var records []linkRecord
	for _, rel := range relationships {
		if rel.TargetType != catalog.EntityTypeDocument {
			continue
		}

		linkID := strings.Join([]string{
			string(rel.SourceType), rel.SourceID, rel.TargetID, string(rel.Relation),
		}, catalog.LinkSeparator)

		fields := map[string]any{
			"link_id":       linkID,
			"entity_type":   string(rel.SourceType),
			"entity_id":     rel.SourceID,
			"relation_type": string(rel.Relation),
			"confidence":    confidenceOrDefault(rel.Confidence),
			"last_synced":   now,
		}
		if recordID, ok := docIDs[rel.TargetID]; ok {
			fields["document"] = []string{recordID}
		}

		records = append(records, linkRecord{linkID: linkID, fields: fields})
	}

	return s.syncLinks(ctx, "EntityDocLinks", records, stats)
}

func confidenceOrDefault(c catalog.Confidence) string {
	if c == "" {
		return string(catalog.ConfidenceInferred)
	}
	return string(c)
}
