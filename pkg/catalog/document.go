package catalog

// DocType categorizes a document by its filename category code.
type DocType string

// Document type constants.
const (
	DocTypeArchitecture DocType = "architecture"
	DocTypePlanning     DocType = "planning"
	DocTypeSpec         DocType = "spec"
	DocTypeDecision     DocType = "decision"
	DocTypeReport       DocType = "report"
	DocTypeAudit        DocType = "audit"
	DocTypeGuide        DocType = "guide"
	DocTypeReference    DocType = "reference"
	DocTypeUseCase      DocType = "use_case"
	DocTypeUnknown      DocType = "unknown"
)

// DocTypeForCategory maps a category code (e.g. "OD-ARCH") to its document
// type, returning DocTypeUnknown for unrecognized codes.
func DocTypeForCategory(code string) DocType {
	if t, ok := docTypeMap[code]; ok {
		return t
	}
	return DocTypeUnknown
}

// docTypeMap is the fixed category-code lookup table.
var docTypeMap = map[string]DocType{
	"OD-ARCH": DocTypeArchitecture,
	"PP-PLAN": DocTypePlanning,
	"PP-PRD":  DocTypeSpec,
	"PP-ARD":  DocTypeDecision,
	"AA-AACR": DocTypeReport,
	"AA-AUDT": DocTypeAudit,
	"DR-STND": DocTypeSpec,
	"DR-GUID": DocTypeGuide,
	"OD-REF":  DocTypeReference,
	"OD-STAT": DocTypeReport,
	"MC-MEMO": DocTypeReport,
	"UC-CASE": DocTypeUseCase,
}

// Document represents a markdown document discovered in a source repo.
type Document struct {
	ID           string  `json:"doc_id" yaml:"doc_id"`               // Stable identifier derived from the filename
	Title        string  `json:"title" yaml:"title"`                 // First H1 heading, or title-cased filename
	DocType      DocType `json:"doc_type" yaml:"doc_type"`           // Category derived from the filename code
	CategoryCode string  `json:"category_code" yaml:"category_code"` // e.g. "OD-ARCH"; empty when unpatterned
	Path         string  `json:"path" yaml:"path"`                   // Document path, relative to the repo root
	SourceRepo   string  `json:"source_repo" yaml:"source_repo"`     // Name of the repo the document came from
	SourceCommit string  `json:"source_commit" yaml:"source_commit"` // Short commit hash at extraction time
	Status       string  `json:"status" yaml:"status"`               // Lifecycle status; "unknown" when not tracked
}

// Identity implements the Entity interface.
func (d Document) Identity() string { return d.ID }

// EntityType implements the Entity interface.
func (d Document) EntityType() EntityType { return EntityTypeDocument }

// Repo implements the Entity interface.
func (d Document) Repo() string { return d.SourceRepo }
