package airtable

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agentstation/intentmap/pkg/errors"
)

// Mappings resolves logical table and field names to the opaque IDs
// Airtable assigns them. The file is produced by the base provisioner
// and is a hard precondition for any sync run.
type Mappings struct {
	Tables map[string]string            `json:"tables"`
	Fields map[string]map[string]string `json:"fields"`
}

// LoadMappings reads a mappings artifact from disk.
func LoadMappings(path string) (*Mappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError("mappings",
				fmt.Sprintf("mappings file not found at %s, run the provisioner first", path), err)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var m Mappings
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if len(m.Tables) == 0 {
		return nil, errors.NewConfigError("mappings", "no table mappings found in "+path, nil)
	}
	return &m, nil
}

// TableID resolves a logical table name to its remote identifier.
func (m *Mappings) TableID(name string) (string, error) {
	id, ok := m.Tables[name]
	if !ok {
		return "", errors.NewConfigError("mappings",
			fmt.Sprintf("table %q not found in mappings", name), nil)
	}
	return id, nil
}

// FieldID resolves a logical field name within a table, falling back to
// the name itself when the provisioner recorded no ID for it.
func (m *Mappings) FieldID(table, field string) string {
	if fields, ok := m.Fields[table]; ok {
		if id, ok := fields[field]; ok {
			return id
		}
	}
	return field
}
