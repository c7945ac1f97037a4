package source

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/remotescout/remotescout/internal/job"
)

const (
	jsearchName    = "jsearch"
	jsearchBaseURL = "https://jsearch.p.rapidapi.com/search"
	jsearchHost    = "jsearch.p.rapidapi.com"
)

// JSearch queries the JSearch aggregator on RapidAPI. RapidAPI keys are
// heavily quota-limited, so this source is a prime candidate for rotation.
type JSearch struct {
	BaseURL string
	client  *http.Client
}

func NewJSearch() *JSearch {
	return &JSearch{
		BaseURL: jsearchBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (j *JSearch) Name() string { return jsearchName }

type jsearchResponse struct {
	Data []struct {
		JobTitle        string  `json:"job_title"`
		EmployerName    string  `json:"employer_name"`
		JobCity         string  `json:"job_city"`
		JobCountry      string  `json:"job_country"`
		JobDescription  string  `json:"job_description"`
		JobApplyLink    string  `json:"job_apply_link"`
		JobMinSalary    float64 `json:"job_min_salary"`
		JobMaxSalary    float64 `json:"job_max_salary"`
		JobEmployment   string  `json:"job_employment_type"`
		JobPostedAtUTC  string  `json:"job_posted_at_datetime_utc"`
		JobIsRemote     bool    `json:"job_is_remote"`
	} `json:"data"`
}

func (j *JSearch) Search(ctx context.Context, query string, _ Filters, cred Credential) ([]*job.Job, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", "1")
	q.Set("num_pages", "1")
	q.Set("remote_jobs_only", "true")

	var resp jsearchResponse
	err := getJSON(ctx, j.client, request{
		source: jsearchName,
		url:    j.BaseURL,
		query:  q,
		headers: map[string]string{
			"X-RapidAPI-Key":  cred.Secret,
			"X-RapidAPI-Host": jsearchHost,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	jobs := make([]*job.Job, 0, len(resp.Data))
	for _, r := range resp.Data {
		location := strings.TrimSpace(strings.Trim(r.JobCity+", "+r.JobCountry, ", "))
		if r.JobIsRemote {
			location = "Remote"
		}

		jobs = append(jobs, &job.Job{
			Title:          r.JobTitle,
			Company:        r.EmployerName,
			Location:       location,
			Description:    r.JobDescription,
			URL:            r.JobApplyLink,
			SalaryText:     salaryRangeText("$", r.JobMinSalary, r.JobMaxSalary),
			EmploymentType: r.JobEmployment,
			PostedAt:       parseTime(r.JobPostedAtUTC),
			Source:         jsearchName,
		})
	}

	return jobs, nil
}
