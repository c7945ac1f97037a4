package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/remotescout/remotescout/internal/job"
)

const (
	adzunaName     = "adzuna"
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50

	// adzunaMaxPages caps paging per query; deeper pages are stale and eat
	// into the key's quota.
	adzunaMaxPages = 2
)

// Adzuna queries the Adzuna public API. It authenticates with an
// app_id/app_key pair, so its credential unit carries both halves.
type Adzuna struct {
	Country string // "gb", "us", ...
	BaseURL string
	client  *http.Client
}

func NewAdzuna(country string) *Adzuna {
	if country == "" {
		country = "gb"
	}
	return &Adzuna{
		Country: country,
		BaseURL: adzunaBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (a *Adzuna) Name() string { return adzunaName }

// currencySymbol maps the configured country to the currency Adzuna quotes
// salaries in. Unknown markets fall back to dollars rather than pounds so
// downstream salary parsing does not apply the GBP conversion to them.
func (a *Adzuna) currencySymbol() string {
	switch a.Country {
	case "gb":
		return "£"
	case "de", "fr", "nl", "es", "it", "at", "pl":
		return "€"
	default:
		return "$"
	}
}

type adzunaResponse struct {
	Results []struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		RedirectURL string  `json:"redirect_url"`
		SalaryMin   float64 `json:"salary_min"`
		SalaryMax   float64 `json:"salary_max"`
		Created     string  `json:"created"`
		Company     struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		ContractTime string `json:"contract_time"`
	} `json:"results"`
}

func (a *Adzuna) Search(ctx context.Context, query string, filters Filters, cred Credential) ([]*job.Job, error) {
	q := url.Values{}
	q.Set("app_id", cred.ID)
	q.Set("app_key", cred.Secret)
	q.Set("what", query)
	q.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	q.Set("sort_by", "date")
	q.Set("content-type", contentType)
	if filters.Location != "" {
		q.Set("where", filters.Location)
	}

	var jobs []*job.Job
	for page := 1; page <= adzunaMaxPages; page++ {
		var resp adzunaResponse
		err := getJSON(ctx, a.client, request{
			source: adzunaName,
			url:    fmt.Sprintf("%s/%s/search/%d", a.BaseURL, a.Country, page),
			query:  q,
		}, &resp)
		if err != nil {
			// Results from earlier pages are already normalized; a failing
			// deeper page should not discard them.
			if page > 1 {
				return jobs, nil
			}
			return nil, err
		}

		for _, r := range resp.Results {
			jobs = append(jobs, &job.Job{
				Title:          r.Title,
				Company:        r.Company.DisplayName,
				Location:       r.Location.DisplayName,
				Description:    r.Description,
				URL:            r.RedirectURL,
				SalaryText:     salaryRangeText(a.currencySymbol(), r.SalaryMin, r.SalaryMax),
				EmploymentType: r.ContractTime,
				PostedAt:       parseTime(r.Created),
				Source:         adzunaName,
			})
		}

		if len(resp.Results) < adzunaPageSize {
			break
		}
	}

	return jobs, nil
}
