package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	contentType      = "application/json"
	defaultUserAgent = "remotescout/1.0"

	// Providers differ wildly in latency; 15s keeps the slowest boards
	// within the session's forward-progress guarantee.
	defaultTimeout = 15 * time.Second
)

// httpError maps an HTTP status to an adapter error kind.
func httpError(sourceName string, status int, body string) *Error {
	kind := KindNetwork
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuthExpired
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	}

	return &Error{
		Source: sourceName,
		Kind:   kind,
		Status: status,
		Detail: strings.TrimSpace(body),
	}
}

// request describes one provider call issued through getJSON/postJSON.
type request struct {
	source  string
	url     string
	query   url.Values
	headers map[string]string
	body    any
}

// getJSON performs a GET request and decodes the JSON response into target.
// Non-2xx statuses and undecodable bodies come back as *Error so the
// exhaustion detector can classify them.
func getJSON(ctx context.Context, client *http.Client, r request, target any) error {
	return doJSON(ctx, client, http.MethodGet, r, target)
}

// postJSON performs a POST request with a JSON body.
func postJSON(ctx context.Context, client *http.Client, r request, target any) error {
	return doJSON(ctx, client, http.MethodPost, r, target)
}

func doJSON(ctx context.Context, client *http.Client, method string, r request, target any) error {
	var payload io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return &Error{Source: r.source, Kind: KindMalformedResponse, Detail: "encoding request body", Err: err}
		}
		payload = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, r.url, payload)
	if err != nil {
		return &Error{Source: r.source, Kind: KindNetwork, Err: err}
	}

	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", defaultUserAgent)
	if r.body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range r.headers {
		req.Header.Set(key, value)
	}
	if r.query != nil {
		req.URL.RawQuery = r.query.Encode()
	}

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Source: r.source, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	// Bodies are small (bounded page sizes); read fully so error details
	// can include the provider's message.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &Error{Source: r.source, Kind: KindNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpError(r.source, resp.StatusCode, truncateBody(data))
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return &Error{Source: r.source, Kind: KindMalformedResponse, Detail: "decoding response", Err: err}
	}

	return nil
}

func truncateBody(data []byte) string {
	const limit = 500
	s := string(data)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// parseTime tries the layouts providers actually emit, returning the zero
// time when nothing matches.
func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// salaryRangeText renders numeric salary bounds into the canonical free-text
// form used by Job.SalaryText.
func salaryRangeText(currency string, min, max float64) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("%s%.0f - %s%.0f", currency, min, currency, max)
	case min > 0:
		return fmt.Sprintf("from %s%.0f", currency, min)
	case max > 0:
		return fmt.Sprintf("up to %s%.0f", currency, max)
	default:
		return ""
	}
}
