// Package ownership defines the per-table field-ownership policy that drives
// sync reconciliation. Every remote field is owned by exactly one side:
// repo-owned fields are written unconditionally from the local snapshot,
// remote-owned (protected) fields are preserved from the existing record and
// never derived locally, sync-managed fields are stamped by the reconciler
// itself, and computed fields are reserved for a future derived-field
// mechanism.
package ownership

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/agentstation/intentmap/pkg/errors"
)

// Owner is the closed enumeration of field ownership kinds.
type Owner int

// Ownership kinds.
const (
	// RepoOwned fields take their value unconditionally from the local entity.
	RepoOwned Owner = iota
	// RemoteOwned fields are protected: copied from the existing remote
	// record when present, omitted otherwise, never written from local data.
	RemoteOwned
	// SyncManaged fields are managed by the reconciler (e.g. last_synced).
	SyncManaged
	// Computed fields are reserved for derived values; currently a no-op.
	Computed
)

// String implements fmt.Stringer.
func (o Owner) String() string {
	switch o {
	case RepoOwned:
		return "repo"
	case RemoteOwned:
		return "airtable"
	case SyncManaged:
		return "sync"
	case Computed:
		return "computed"
	default:
		return fmt.Sprintf("owner(%d)", int(o))
	}
}

// parseOwner converts the schema's source string to an Owner.
func parseOwner(s string) (Owner, error) {
	switch s {
	case "repo", "": // repo is the schema default
		return RepoOwned, nil
	case "airtable":
		return RemoteOwned, nil
	case "sync":
		return SyncManaged, nil
	case "computed":
		return Computed, nil
	default:
		return 0, fmt.Errorf("unknown field source %q", s)
	}
}

// FieldType is the remote column type a field is provisioned with.
type FieldType string

// Field types used by the reconciler for value coercion.
const (
	TypeSingleLineText FieldType = "singleLineText"
	TypeMultilineText  FieldType = "multilineText"
	TypeCheckbox       FieldType = "checkbox"
	TypeNumber         FieldType = "number"
	TypeDateTime       FieldType = "dateTime"
	TypeSingleSelect   FieldType = "singleSelect"
	TypeRecordLinks    FieldType = "multipleRecordLinks"
)

// knownFieldTypes is the closed set accepted at schema load time.
var knownFieldTypes = map[FieldType]bool{
	TypeSingleLineText: true,
	TypeMultilineText:  true,
	TypeCheckbox:       true,
	TypeNumber:         true,
	TypeDateTime:       true,
	TypeSingleSelect:   true,
	TypeRecordLinks:    true,
}

// IsText reports whether the type stores delimited text, which is how
// repo-owned array values are flattened.
func (t FieldType) IsText() bool {
	return t == TypeSingleLineText || t == TypeMultilineText
}

// Field describes one remote field's type and ownership.
type Field struct {
	Name        string
	Type        FieldType
	Owner       Owner
	LinkedTable string // for multipleRecordLinks fields
}

// Table describes one remote table's fields and primary key.
type Table struct {
	Name         string
	PrimaryField string
	Fields       map[string]Field
}

// FieldNames returns the table's field names in sorted order.
func (t *Table) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProtectedFields returns the names of the table's remote-owned fields.
func (t *Table) ProtectedFields() []string {
	var names []string
	for _, name := range t.FieldNames() {
		if t.Fields[name].Owner == RemoteOwned {
			names = append(names, name)
		}
	}
	return names
}

// Schema is the validated per-table field-ownership map.
type Schema struct {
	Tables map[string]*Table
}

// Table returns the named table, or nil when absent.
func (s *Schema) Table(name string) *Table {
	return s.Tables[name]
}

// schemaFile mirrors the on-disk provisioning schema document.
type schemaFile struct {
	Tables map[string]struct {
		PrimaryField string `json:"primaryField"`
		Fields       map[string]struct {
			Type        string `json:"type"`
			Source      string `json:"source"`
			LinkedTable string `json:"linkedTable"`
		} `json:"fields"`
	} `json:"tables"`
}

// Load reads and validates the field-ownership schema. Unknown ownership
// kinds and unknown field types are load-time errors, so a malformed schema
// can never silently misclassify a protected field.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("schema",
			fmt.Sprintf("ownership schema not found: %s (run the provisioner first)", path), err)
	}

	var file schemaFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	schema := &Schema{Tables: make(map[string]*Table, len(file.Tables))}
	for tableName, tableSpec := range file.Tables {
		table := &Table{
			Name:         tableName,
			PrimaryField: tableSpec.PrimaryField,
			Fields:       make(map[string]Field, len(tableSpec.Fields)),
		}
		for fieldName, fieldSpec := range tableSpec.Fields {
			owner, err := parseOwner(fieldSpec.Source)
			if err != nil {
				return nil, errors.NewConfigError("schema",
					fmt.Sprintf("table %s field %s: %v", tableName, fieldName, err), nil)
			}
			fieldType := FieldType(fieldSpec.Type)
			if !knownFieldTypes[fieldType] {
				return nil, errors.NewConfigError("schema",
					fmt.Sprintf("table %s field %s: unknown field type %q", tableName, fieldName, fieldSpec.Type), nil)
			}
			table.Fields[fieldName] = Field{
				Name:        fieldName,
				Type:        fieldType,
				Owner:       owner,
				LinkedTable: fieldSpec.LinkedTable,
			}
		}
		schema.Tables[tableName] = table
	}

	return schema, nil
}
