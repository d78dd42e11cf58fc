package catalog

// Severity classifies an extraction warning.
type Severity string

// Severity constants.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Warning records a non-fatal extraction anomaly. Unreadable or malformed
// entity sources produce a Warning and are skipped; extraction never aborts
// for a single bad entity.
type Warning struct {
	Path     string   `json:"path" yaml:"path"`         // Offending file, relative to the repo root
	Message  string   `json:"message" yaml:"message"`   // What went wrong
	Severity Severity `json:"severity" yaml:"severity"` // warning or error
}

// Collision records two entities from different repos sharing an id.
// Collisions are advisory output for operators; they are not validation
// errors unless strict mode escalates them.
type Collision struct {
	Type  EntityType `json:"type" yaml:"type"`   // Entity category of the colliding id
	ID    string     `json:"id" yaml:"id"`       // The shared identifier
	Repos []string   `json:"repos" yaml:"repos"` // [first_repo, later_repo] in snapshot order
}
