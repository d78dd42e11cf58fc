package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/intentmap/pkg/constants"
	"github.com/agentstation/intentmap/pkg/errors"
	"github.com/agentstation/intentmap/pkg/logging"
)

// Client provides authenticated JSON transport with bounded rate-limit
// retries.
type Client struct {
	http       *http.Client
	auth       Authenticator
	credential string
	retry      RetryPolicy
}

// New creates a transport client with the given authenticator and credential.
func New(auth Authenticator, credential string, retry RetryPolicy) *Client {
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &Client{
		http:       &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:       auth,
		credential: credential,
		retry:      retry,
	}
}

// errorBody is the error envelope the Airtable API wraps failures in.
type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// DoJSON executes an HTTP request with a JSON body (may be nil) and decodes
// the JSON response into out (may be nil). Rate-limit responses are retried
// per the client's retry policy; exceeding the attempt bound is fatal for
// the run. Any other non-success status is surfaced immediately as an
// APIError carrying the server-provided message.
func (c *Client) DoJSON(ctx context.Context, method, url string, body, out any) error {
	log := logging.FromContext(ctx)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.WrapParse("json", url, err)
		}
	}

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return errors.NewAPIError(0, url, err.Error())
		}
		c.auth.Apply(req, c.credential)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return &errors.APIError{Endpoint: url, Message: err.Error(), Err: err}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			delay := c.retry.retryDelay(resp)
			drain(resp)
			log.Warn().
				Str("url", url).
				Int("attempt", attempt).
				Dur("retry_after", delay).
				Msg("Rate limited, backing off")
			if err := c.retry.sleep(ctx, delay); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			message := readErrorMessage(resp)
			drain(resp)
			return errors.NewAPIError(resp.StatusCode, url, message)
		}

		if out == nil {
			drain(resp)
			return nil
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		drain(resp)
		if err != nil {
			return errors.WrapParse("json", url, err)
		}
		return nil
	}

	return &errors.APIError{
		StatusCode: http.StatusTooManyRequests,
		Endpoint:   url,
		Message:    "max retries exceeded",
		Err:        errors.ErrRateLimited,
	}
}

// readErrorMessage extracts the server-provided error message, falling back
// to the raw body.
func readErrorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(resp.Body)
	if err != nil || len(raw) == 0 {
		return resp.Status
	}

	var envelope errorBody
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return string(raw)
}

// drain discards and closes the response body so connections are reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
