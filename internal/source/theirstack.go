package source

import (
	"context"
	"net/http"
	"strings"

	"github.com/remotescout/remotescout/internal/job"
)

const (
	theirstackName    = "theirstack"
	theirstackBaseURL = "https://api.theirstack.com/v1/jobs/search"
)

// Theirstack queries the Theirstack jobs API via its POST search endpoint
// with bearer-token auth.
type Theirstack struct {
	BaseURL string
	client  *http.Client
}

func NewTheirstack() *Theirstack {
	return &Theirstack{
		BaseURL: theirstackBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (t *Theirstack) Name() string { return theirstackName }

type theirstackRequest struct {
	Page            int      `json:"page"`
	Limit           int      `json:"limit"`
	JobTitleOr      []string `json:"job_title_or,omitempty"`
	Remote          bool     `json:"remote"`
	PostedAtMaxDays int      `json:"posted_at_max_age_days"`
}

type theirstackResponse struct {
	Data []struct {
		JobTitle    string `json:"job_title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		DatePosted  string `json:"date_posted"`
		Salary      string `json:"salary_string"`
		Employment  string `json:"employment_statuses"`
		Location    string `json:"location"`
		Company     struct {
			Name string `json:"name"`
		} `json:"company_object"`
	} `json:"data"`
}

func (t *Theirstack) Search(ctx context.Context, query string, _ Filters, cred Credential) ([]*job.Job, error) {
	// The planner prefixes queries with remote intent; Theirstack has a
	// dedicated remote flag instead.
	title := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(query), "remote"))

	var resp theirstackResponse
	err := postJSON(ctx, t.client, request{
		source:  theirstackName,
		url:     t.BaseURL,
		headers: map[string]string{"Authorization": "Bearer " + cred.Secret},
		body: theirstackRequest{
			Page:            0,
			Limit:           25,
			JobTitleOr:      []string{title},
			Remote:          true,
			PostedAtMaxDays: 30,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	jobs := make([]*job.Job, 0, len(resp.Data))
	for _, r := range resp.Data {
		location := r.Location
		if location == "" {
			location = "Remote"
		}

		jobs = append(jobs, &job.Job{
			Title:          r.JobTitle,
			Company:        r.Company.Name,
			Location:       location,
			Description:    r.Description,
			URL:            r.URL,
			SalaryText:     r.Salary,
			EmploymentType: r.Employment,
			PostedAt:       parseTime(r.DatePosted),
			Source:         theirstackName,
		})
	}

	return jobs, nil
}
