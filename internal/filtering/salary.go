package filtering

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/remotescout/remotescout/internal/job"
)

const (
	// Annualization for hourly rates: 40h weeks, 52 weeks.
	hoursPerYear = 40 * 52

	// Rough conversions to USD so a single floor applies across markets.
	gbpToUSD = 1.25
	eurToUSD = 1.125
)

// SalaryRange is a parsed free-text salary. Bounds are in annual USD.
type SalaryRange struct {
	Min float64
	Max float64
}

// Bound returns the effective maximum: the number the floor comparison
// runs against.
func (r SalaryRange) Bound() float64 {
	if r.Max > 0 {
		return r.Max
	}
	return r.Min
}

var (
	salaryNumber = regexp.MustCompile(`([$£€])?\s?(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*([kK])?`)

	// "401k plan" would otherwise parse as $401,000.
	retirementPlan = regexp.MustCompile(`(?i)401\s?\(?k\)?`)
)

// ParseSalary extracts a numeric range from a free-text salary string. The
// second return is false when the text carries no parseable salary data at
// all ("Competitive", "Salary not specified", empty).
func ParseSalary(text string) (SalaryRange, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SalaryRange{}, false
	}

	lower := strings.ToLower(text)
	hourly := strings.Contains(lower, "hour") || strings.Contains(lower, "/hr") || strings.Contains(lower, "p/h")

	matches := salaryNumber.FindAllStringSubmatch(retirementPlan.ReplaceAllString(text, ""), -1)
	values := make([]float64, 0, 2)
	pounds := strings.Contains(text, "£")
	euros := !pounds && strings.Contains(text, "€")

	for _, m := range matches {
		raw := strings.ReplaceAll(m[2], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if m[3] != "" {
			v *= 1000
		}
		if hourly {
			v *= hoursPerYear
		}
		// Bare small numbers with no currency or k marker are noise
		// ("5 years", "3 references"), not salary data.
		if v < 1000 {
			continue
		}
		if pounds {
			v *= gbpToUSD
		}
		if euros {
			v *= eurToUSD
		}
		values = append(values, v)
		if len(values) == 2 {
			break
		}
	}

	if len(values) == 0 {
		return SalaryRange{}, false
	}

	r := SalaryRange{Min: values[0], Max: values[0]}
	if len(values) == 2 {
		if values[1] < values[0] {
			values[0], values[1] = values[1], values[0]
		}
		r.Min, r.Max = values[0], values[1]
	}

	switch {
	case strings.Contains(lower, "up to"):
		r.Min = 0
	case strings.Contains(lower, "from") && len(values) == 1:
		r.Max = r.Min
	}

	return r, true
}

type salaryFilter struct {
	floor int
}

// NewSalaryFloor creates the salary step. A job with no parseable salary
// data always passes: absence of information is not evidence of
// disqualification, and excluding it would starve results.
func NewSalaryFloor(floor int) Filter {
	return &salaryFilter{floor: floor}
}

func (f *salaryFilter) Name() string { return "salary_floor" }

func (f *salaryFilter) Apply(_ context.Context, jobs []*job.Job) ([]*job.Job, Step, error) {
	initial := len(jobs)
	if f.floor <= 0 {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}

	kept := make([]*job.Job, 0, initial)
	for _, j := range jobs {
		r, ok := ParseSalary(j.SalaryText)
		if !ok || r.Bound() >= float64(f.floor) {
			kept = append(kept, j)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
