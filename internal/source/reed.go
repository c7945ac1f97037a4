package source

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/remotescout/remotescout/internal/job"
)

const (
	reedName    = "reed"
	reedBaseURL = "https://www.reed.co.uk/api/1.0/search"
)

// Reed queries the Reed UK job board. The API key is sent as the username
// half of HTTP basic auth with an empty password.
type Reed struct {
	BaseURL string
	client  *http.Client
}

func NewReed() *Reed {
	return &Reed{
		BaseURL: reedBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (r *Reed) Name() string { return reedName }

type reedResponse struct {
	Results []struct {
		JobTitle       string  `json:"jobTitle"`
		EmployerName   string  `json:"employerName"`
		LocationName   string  `json:"locationName"`
		JobDescription string  `json:"jobDescription"`
		JobURL         string  `json:"jobUrl"`
		MinimumSalary  float64 `json:"minimumSalary"`
		MaximumSalary  float64 `json:"maximumSalary"`
		Date           string  `json:"date"`
	} `json:"results"`
}

func (r *Reed) Search(ctx context.Context, query string, filters Filters, cred Credential) ([]*job.Job, error) {
	q := url.Values{}
	q.Set("keywords", query)
	q.Set("resultsToTake", "50")
	if filters.Location != "" {
		q.Set("locationName", filters.Location)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(cred.Secret + ":"))

	var resp reedResponse
	err := getJSON(ctx, r.client, request{
		source:  reedName,
		url:     r.BaseURL,
		query:   q,
		headers: map[string]string{"Authorization": "Basic " + auth},
	}, &resp)
	if err != nil {
		return nil, err
	}

	jobs := make([]*job.Job, 0, len(resp.Results))
	for _, item := range resp.Results {
		jobs = append(jobs, &job.Job{
			Title:       item.JobTitle,
			Company:     item.EmployerName,
			Location:    item.LocationName,
			Description: item.JobDescription,
			URL:         item.JobURL,
			SalaryText:  salaryRangeText("£", item.MinimumSalary, item.MaximumSalary),
			PostedAt:    parseTime(item.Date),
			Source:      reedName,
		})
	}

	return jobs, nil
}
