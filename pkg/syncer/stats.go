package syncer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/olekukonko/tablewriter"

	"github.com/agentstation/intentmap/pkg/constants"
	"github.com/agentstation/intentmap/pkg/errors"
)

// Stats tracks per-table reconciliation outcomes.
type Stats struct {
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Unchanged      int      `json:"unchanged"`
	MarkedInactive int      `json:"marked_inactive"`
	Errors         []string `json:"errors"`
}

// statsKeys is the canonical ordering of tables in summaries.
var statsKeys = []string{
	"plugins",
	"skills",
	"documents",
	"plugin_skill_links",
	"entity_doc_links",
}

// Summary is the machine-readable result of a sync run, emitted even on
// partial failure.
type Summary struct {
	Timestamp utc.Time          `json:"timestamp"`
	DryRun    bool              `json:"dry_run"`
	Stats     map[string]*Stats `json:"stats"`
	Totals    Stats             `json:"totals"`
}

func newSummary(dryRun bool, now utc.Time) *Summary {
	stats := make(map[string]*Stats, len(statsKeys))
	for _, key := range statsKeys {
		stats[key] = &Stats{Errors: []string{}}
	}
	return &Summary{
		Timestamp: now,
		DryRun:    dryRun,
		Stats:     stats,
	}
}

// finalize recomputes the totals from the per-table stats.
func (s *Summary) finalize() {
	totals := Stats{Errors: []string{}}
	for _, key := range statsKeys {
		t := s.Stats[key]
		totals.Created += t.Created
		totals.Updated += t.Updated
		totals.Unchanged += t.Unchanged
		totals.MarkedInactive += t.MarkedInactive
		totals.Errors = append(totals.Errors, t.Errors...)
	}
	s.Totals = totals
}

// HasErrors reports whether any table recorded a per-record error.
func (s *Summary) HasErrors() bool {
	for _, t := range s.Stats {
		if len(t.Errors) > 0 {
			return true
		}
	}
	return false
}

// WriteFile saves the summary as indented JSON.
func (s *Summary) WriteFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Render writes a human-readable summary table.
func (s *Summary) Render(w io.Writer) error {
	table := tablewriter.NewTable(w)
	table.Header("Table", "Created", "Updated", "Unchanged", "Inactive", "Errors")

	for _, key := range statsKeys {
		t := s.Stats[key]
		if err := table.Append(key,
			fmt.Sprintf("%d", t.Created),
			fmt.Sprintf("%d", t.Updated),
			fmt.Sprintf("%d", t.Unchanged),
			fmt.Sprintf("%d", t.MarkedInactive),
			fmt.Sprintf("%d", len(t.Errors)),
		); err != nil {
			return err
		}
	}
	if err := table.Append("total",
		fmt.Sprintf("%d", s.Totals.Created),
		fmt.Sprintf("%d", s.Totals.Updated),
		fmt.Sprintf("%d", s.Totals.Unchanged),
		fmt.Sprintf("%d", s.Totals.MarkedInactive),
		fmt.Sprintf("%d", len(s.Totals.Errors)),
	); err != nil {
		return err
	}

	return table.Render()
}
