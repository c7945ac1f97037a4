package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdzunaSearch(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"app_id":  r.URL.Query().Get("app_id"),
			"app_key": r.URL.Query().Get("app_key"),
			"what":    r.URL.Query().Get("what"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [{
				"title": "Go Developer",
				"description": "Fully remote Go role",
				"redirect_url": "https://example.com/1",
				"salary_min": 60000,
				"salary_max": 80000,
				"created": "2026-08-20T10:00:00Z",
				"company": {"display_name": "Acme"},
				"location": {"display_name": "UK"},
				"contract_time": "full_time"
			}]
		}`))
	}))
	defer server.Close()

	adapter := NewAdzuna("gb")
	adapter.BaseURL = server.URL

	jobs, err := adapter.Search(context.Background(), "remote golang developer", Filters{}, Credential{ID: "app-1", Secret: "key-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["app_id"] != "app-1" || gotQuery["app_key"] != "key-1" {
		t.Fatalf("credential pair not forwarded: %v", gotQuery)
	}
	if gotQuery["what"] != "remote golang developer" {
		t.Fatalf("query not forwarded: %v", gotQuery)
	}

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	j := jobs[0]
	if j.Title != "Go Developer" || j.Company != "Acme" || j.Source != "adzuna" {
		t.Fatalf("unexpected job: %+v", j)
	}
	if j.SalaryText != "£60000 - £80000" {
		t.Fatalf("unexpected salary text: %q", j.SalaryText)
	}
	if j.PostedAt.IsZero() {
		t.Fatalf("expected posted time to parse")
	}
}

func TestAdzunaSalaryCurrencyFollowsCountry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results": [{
			"title": "Go Developer",
			"company": {"display_name": "Acme"},
			"salary_min": 120000,
			"salary_max": 150000
		}]}`))
	}))
	defer server.Close()

	cases := []struct {
		country string
		want    string
	}{
		{"gb", "£120000 - £150000"},
		{"us", "$120000 - $150000"},
		{"de", "€120000 - €150000"},
		{"au", "$120000 - $150000"},
	}
	for _, c := range cases {
		adapter := NewAdzuna(c.country)
		adapter.BaseURL = server.URL

		jobs, err := adapter.Search(context.Background(), "q", Filters{}, Credential{ID: "a", Secret: "k"})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.country, err)
		}
		if jobs[0].SalaryText != c.want {
			t.Fatalf("%s: unexpected salary text: %q", c.country, jobs[0].SalaryText)
		}
	}
}

func TestAdzunaSearchPagesWhileFull(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)

		count := 1
		if len(paths) == 1 {
			count = 50
		}
		results := make([]map[string]any, count)
		for i := range results {
			results[i] = map[string]any{
				"title":   fmt.Sprintf("Job %d-%d", len(paths), i),
				"company": map[string]any{"display_name": "Acme"},
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer server.Close()

	adapter := NewAdzuna("gb")
	adapter.BaseURL = server.URL

	jobs, err := adapter.Search(context.Background(), "q", Filters{}, Credential{ID: "a", Secret: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("expected 2 page requests, got %v", paths)
	}
	if paths[0] != "/gb/search/1" || paths[1] != "/gb/search/2" {
		t.Fatalf("unexpected page paths: %v", paths)
	}
	if len(jobs) != 51 {
		t.Fatalf("expected 51 jobs across pages, got %d", len(jobs))
	}
}

func TestAdzunaSearchStopsOnPartialPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Write([]byte(`{"results": [{"title": "Only One", "company": {"display_name": "Acme"}}]}`))
	}))
	defer server.Close()

	adapter := NewAdzuna("gb")
	adapter.BaseURL = server.URL

	jobs, err := adapter.Search(context.Background(), "q", Filters{}, Credential{ID: "a", Secret: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests != 1 {
		t.Fatalf("partial page must stop paging, got %d requests", requests)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
}

func TestAdzunaSearchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limit exceeded"}`))
	}))
	defer server.Close()

	adapter := NewAdzuna("gb")
	adapter.BaseURL = server.URL

	_, err := adapter.Search(context.Background(), "remote golang developer", Filters{}, Credential{ID: "a", Secret: "k"})
	if err == nil {
		t.Fatalf("expected error")
	}

	var srcErr *Error
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if srcErr.Kind != KindRateLimited || srcErr.Status != 429 {
		t.Fatalf("unexpected classification: %+v", srcErr)
	}
	if srcErr.Source != "adzuna" {
		t.Fatalf("error should name the source, got %q", srcErr.Source)
	}
}

func TestAdzunaSearchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	adapter := NewAdzuna("gb")
	adapter.BaseURL = server.URL

	_, err := adapter.Search(context.Background(), "q", Filters{}, Credential{ID: "a", Secret: "k"})

	var srcErr *Error
	if !errors.As(err, &srcErr) || srcErr.Kind != KindMalformedResponse {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}
