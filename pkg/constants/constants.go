// Package constants provides shared constants used throughout the intentmap codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the Airtable API
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// ExtractTimeout is the timeout for a full multi-repo extraction run
	ExtractTimeout = 5 * time.Minute

	// SyncTimeout is the timeout for sync operations
	SyncTimeout = 30 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like API tokens (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// SyncBatchSize is the number of records per Airtable write request.
	// The Airtable API rejects batches larger than 10.
	SyncBatchSize = 10

	// DefaultPageSize is the page size used when listing remote records
	DefaultPageSize = 100

	// MinTriggerPhraseLength is the shortest fragment kept as a trigger phrase
	MinTriggerPhraseLength = 3

	// ShortCommitLength is the length of abbreviated git commit hashes
	// recorded in snapshot metadata
	ShortCommitLength = 8
)

// Rate limiting constants
const (
	// RateLimitRetryDelay is the fallback delay before retrying a
	// rate-limited request when the server does not send Retry-After
	RateLimitRetryDelay = 30 * time.Second

	// MaxRateLimitRetries is the maximum number of attempts for
	// rate-limited requests
	MaxRateLimitRetries = 5
)

// Schema constants
const (
	// SchemaVersion is the catalog snapshot schema version
	SchemaVersion = "1.0.0"

	// InactiveStatus is the sentinel status written to remote records
	// whose entity is absent from the current snapshot
	InactiveStatus = "inactive"
)
