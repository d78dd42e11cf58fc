package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/intentmap/pkg/errors"
)

func newServerClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-token", "appTEST", WithBaseURL(server.URL))
	require.NoError(t, err)
	return client, server
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "appTEST")
	assert.ErrorIs(t, err, errors.ErrTokenRequired)

	_, err = NewClient("token", "")
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestListRecordsSinglePage(t *testing.T) {
	client, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appTEST/tblPlugins", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		json.NewEncoder(w).Encode(listResponse{
			Records: []Record{
				{ID: "rec1", Fields: map[string]any{"plugin_id": "alpha"}},
				{ID: "rec2", Fields: map[string]any{"plugin_id": "beta"}},
			},
		})
	}))

	records, err := client.ListRecords(context.Background(), "tblPlugins")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alpha", records[0].Fields["plugin_id"])
}

func TestListRecordsFollowsOffset(t *testing.T) {
	var calls int
	client, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("offset") {
		case "":
			json.NewEncoder(w).Encode(listResponse{
				Records: []Record{{ID: "rec1", Fields: map[string]any{"skill_id": "one"}}},
				Offset:  "itrNEXT",
			})
		case "itrNEXT":
			json.NewEncoder(w).Encode(listResponse{
				Records: []Record{{ID: "rec2", Fields: map[string]any{"skill_id": "two"}}},
			})
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	}))

	records, err := client.ListRecords(context.Background(), "tblSkills")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, records, 2)
	assert.Equal(t, "rec2", records[1].ID)
}

func TestUpsertBatch(t *testing.T) {
	client, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appTEST/tblDocs", r.URL.Path)

		var req upsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Typecast)
		require.Len(t, req.Records, 2)
		assert.Equal(t, "recEXISTING", req.Records[0].ID)
		assert.Empty(t, req.Records[1].ID)

		json.NewEncoder(w).Encode(upsertResponse{
			Records: []Record{
				{ID: "recEXISTING", Fields: req.Records[0].Fields},
				{ID: "recNEW", Fields: req.Records[1].Fields},
			},
		})
	}))

	out, err := client.UpsertBatch(context.Background(), "tblDocs", []Record{
		{ID: "recEXISTING", Fields: map[string]any{"doc_id": "aaa"}},
		{Fields: map[string]any{"doc_id": "bbb"}},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "recNEW", out[1].ID)
}

func TestUpsertBatchEmptyIsNoop(t *testing.T) {
	client, err := NewClient("token", "appTEST", WithBaseURL("http://unused.invalid"))
	require.NoError(t, err)

	out, err := client.UpsertBatch(context.Background(), "tblDocs", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestUpsertBatchRejectsOversizedBatch(t *testing.T) {
	client, err := NewClient("token", "appTEST")
	require.NoError(t, err)

	records := make([]Record, 11)
	for i := range records {
		records[i] = Record{Fields: map[string]any{}}
	}
	_, err = client.UpsertBatch(context.Background(), "tblDocs", records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestUpsertBatchSurfacesAPIError(t *testing.T) {
	client, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": {"message": "Unknown field name: bogus"}}`))
	}))

	_, err := client.UpsertBatch(context.Background(), "tblDocs", []Record{
		{Fields: map[string]any{"bogus": true}},
	})
	require.Error(t, err)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "Unknown field name")
}

func TestLoadMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airtable_ids.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"tables": {"Plugins": "tblAAA", "Skills": "tblBBB"},
		"fields": {"Plugins": {"plugin_id": "fldXXX"}}
	}`), 0o644))

	m, err := LoadMappings(path)
	require.NoError(t, err)

	id, err := m.TableID("Plugins")
	require.NoError(t, err)
	assert.Equal(t, "tblAAA", id)

	_, err = m.TableID("Unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in mappings")

	assert.Equal(t, "fldXXX", m.FieldID("Plugins", "plugin_id"))
	assert.Equal(t, "status", m.FieldID("Plugins", "status"))
}

func TestLoadMappingsMissingFile(t *testing.T) {
	_, err := LoadMappings(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run the provisioner first")
}

func TestLoadMappingsEmptyTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airtable_ids.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tables": {}, "fields": {}}`), 0o644))

	_, err := LoadMappings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table mappings")
}
