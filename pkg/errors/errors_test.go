package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/agentstation/intentmap/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "plugin_id",
			Message: "not kebab-case",
		}
		assert.Equal(t, "validation failed for field plugin_id: not kebab-case", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "missing meta section",
		}
		assert.Equal(t, "validation failed: missing meta section", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("skill_id", "Bad_Id", "not kebab-case")
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		err := pkgerrors.NewAPIError(429, "/v0/base/tbl", "too many requests")
		assert.True(t, errors.Is(err, pkgerrors.ErrRateLimited))
		assert.True(t, pkgerrors.IsRateLimited(err))
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("other status is not rate limited", func(t *testing.T) {
		err := pkgerrors.NewAPIError(422, "/v0/base/tbl", "invalid field")
		assert.False(t, pkgerrors.IsRateLimited(err))
		assert.Contains(t, err.Error(), "invalid field")
	})

	t.Run("unwrap", func(t *testing.T) {
		inner := errors.New("connection reset")
		err := &pkgerrors.APIError{StatusCode: 500, Message: "boom", Err: inner}
		assert.Equal(t, inner, errors.Unwrap(err))
	})
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("mappings", "file not found: mappings/airtable_ids.json", nil)
	assert.Contains(t, err.Error(), "mappings")
	assert.Contains(t, err.Error(), "airtable_ids.json")
}

func TestSyncError(t *testing.T) {
	t.Run("with records", func(t *testing.T) {
		err := pkgerrors.NewSyncError("Plugins", []string{"my-plugin"}, errors.New("batch failed"))
		assert.Contains(t, err.Error(), "Plugins")
		assert.Contains(t, err.Error(), "my-plugin")
	})

	t.Run("without records", func(t *testing.T) {
		err := pkgerrors.NewSyncError("Skills", nil, errors.New("fetch failed"))
		assert.Contains(t, err.Error(), "Skills")
	})
}

func TestWrappers(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
		assert.NoError(t, pkgerrors.WrapParse("yaml", "x", nil))
		assert.NoError(t, pkgerrors.WrapValidation("field", nil))
	})

	t.Run("io wrap", func(t *testing.T) {
		err := pkgerrors.WrapIO("read", "dist/catalog.json", errors.New("no such file"))
		var ioErr *pkgerrors.IOError
		assert.True(t, errors.As(err, &ioErr))
		assert.Equal(t, "dist/catalog.json", ioErr.Path)
	})

	t.Run("parse wrap", func(t *testing.T) {
		err := pkgerrors.WrapParse("frontmatter", "skills/a/SKILL.md", errors.New("bad yaml"))
		var parseErr *pkgerrors.ParseError
		assert.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "frontmatter", parseErr.Format)
	})
}

func TestAuthenticationError(t *testing.T) {
	err := &pkgerrors.AuthenticationError{Method: "bearer_token", Message: "AIRTABLE_TOKEN not set"}
	assert.True(t, errors.Is(err, pkgerrors.ErrTokenRequired))
	assert.Contains(t, err.Error(), "AIRTABLE_TOKEN")
}
