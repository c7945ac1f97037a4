package source

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/remotescout/remotescout/internal/job"
)

const (
	theMuseName    = "themuse"
	theMuseBaseURL = "https://www.themuse.com/api/public/jobs"
)

// TheMuse queries The Muse public job board. The API works without a key at
// a lower quota; when a credential is configured it is sent as api_key.
type TheMuse struct {
	BaseURL string
	client  *http.Client
}

func NewTheMuse() *TheMuse {
	return &TheMuse{
		BaseURL: theMuseBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (m *TheMuse) Name() string { return theMuseName }

type theMuseResponse struct {
	Results []struct {
		Name     string `json:"name"`
		Contents string `json:"contents"`
		Type     string `json:"type"`
		Company  struct {
			Name string `json:"name"`
		} `json:"company"`
		Locations []struct {
			Name string `json:"name"`
		} `json:"locations"`
		Refs struct {
			LandingPage string `json:"landing_page"`
		} `json:"refs"`
		PublicationDate string `json:"publication_date"`
	} `json:"results"`
}

func (m *TheMuse) Search(ctx context.Context, query string, _ Filters, cred Credential) ([]*job.Job, error) {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("descending", "true")
	// The Muse has no free-text search; the closest match is its category
	// facet, so the query is mapped onto one.
	q.Set("category", museCategory(query))
	q.Set("location", "Flexible / Remote")
	if cred.Secret != "" {
		q.Set("api_key", cred.Secret)
	}

	var resp theMuseResponse
	err := getJSON(ctx, m.client, request{
		source: theMuseName,
		url:    m.BaseURL,
		query:  q,
	}, &resp)
	if err != nil {
		return nil, err
	}

	jobs := make([]*job.Job, 0, len(resp.Results))
	for _, r := range resp.Results {
		location := "Remote"
		if len(r.Locations) > 0 {
			location = r.Locations[0].Name
		}

		jobs = append(jobs, &job.Job{
			Title:          r.Name,
			Company:        r.Company.Name,
			Location:       location,
			Description:    r.Contents,
			URL:            r.Refs.LandingPage,
			EmploymentType: r.Type,
			PostedAt:       parseTime(r.PublicationDate),
			Source:         theMuseName,
		})
	}

	return jobs, nil
}

// museCategory maps a planned query onto the closest Muse category facet.
func museCategory(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "data"):
		return "Data and Analytics"
	case strings.Contains(q, "design"):
		return "Design and UX"
	case strings.Contains(q, "product"):
		return "Product Management"
	case strings.Contains(q, "marketing"):
		return "Marketing"
	case strings.Contains(q, "sales"):
		return "Sales"
	default:
		return "Software Engineering"
	}
}
