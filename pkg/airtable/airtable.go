// Package airtable provides a minimal Airtable REST API client covering
// the operations the sync reconciler needs: listing records with offset
// pagination and batched upserts. Rate-limit retry and authentication
// live in the underlying transport client.
package airtable

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agentstation/intentmap/internal/transport"
	"github.com/agentstation/intentmap/pkg/constants"
	"github.com/agentstation/intentmap/pkg/errors"
)

// DefaultBaseURL is the Airtable REST API root.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Record is a single Airtable record. ID is empty for records that have
// not been created yet.
type Record struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

// Client talks to a single Airtable base.
type Client struct {
	baseURL string
	baseID  string
	http    *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used by tests to point the client
// at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTransport overrides the underlying transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.http = t
	}
}

// NewClient creates a client for the given base using bearer token auth.
func NewClient(token, baseID string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.ErrTokenRequired
	}
	if baseID == "" {
		return nil, errors.NewConfigError("airtable", "base ID is required", nil)
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		baseID:  baseID,
		http:    transport.New(&transport.BearerAuth{}, token, transport.DefaultRetryPolicy()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseID returns the base this client is bound to.
func (c *Client) BaseID() string {
	return c.baseID
}

func (c *Client) tableURL(tableID string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, tableID)
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// ListRecords fetches every record in a table, following the offset
// continuation token until the listing is exhausted.
func (c *Client) ListRecords(ctx context.Context, tableID string) ([]Record, error) {
	var records []Record
	offset := ""

	for {
		params := url.Values{}
		params.Set("pageSize", strconv.Itoa(constants.DefaultPageSize))
		if offset != "" {
			params.Set("offset", offset)
		}

		var page listResponse
		endpoint := c.tableURL(tableID) + "?" + params.Encode()
		if err := c.http.DoJSON(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		records = append(records, page.Records...)
		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

type upsertRequest struct {
	Records  []Record `json:"records"`
	Typecast bool     `json:"typecast"`
}

type upsertResponse struct {
	Records []Record `json:"records"`
}

// UpsertBatch writes a batch of records to a table. Records carrying an
// ID update the existing record; records without one are created. The
// caller is responsible for keeping batches within the API payload limit.
func (c *Client) UpsertBatch(ctx context.Context, tableID string, records []Record) ([]Record, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if len(records) > constants.SyncBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds limit of %d records", len(records), constants.SyncBatchSize)
	}

	body := upsertRequest{Records: records, Typecast: true}
	var resp upsertResponse
	if err := c.http.DoJSON(ctx, http.MethodPatch, c.tableURL(tableID), body, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}
