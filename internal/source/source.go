package source

import (
	"context"
	"fmt"

	"github.com/remotescout/remotescout/internal/job"
)

// Credential is one atomic credential unit for a source. Providers that
// authenticate with an app-id/key pair carry both halves; single-key
// providers leave ID empty. Rotation always swaps the whole unit.
type Credential struct {
	ID     string
	Secret string
}

func (c Credential) IsZero() bool {
	return c.ID == "" && c.Secret == ""
}

// Filters are the optional user-supplied search constraints. An unset field
// means no constraint.
type Filters struct {
	SalaryFloor        int    `mapstructure:"salary-floor"`
	ExperienceLevel    string `mapstructure:"experience-level"`
	TimezonePreference string `mapstructure:"timezone-preference"`
	Location           string `mapstructure:"location"`
}

// Adapter translates a generic (query, filters) request into one provider's
// HTTP call and normalizes the response into canonical Job records. Adapters
// never retry and never swallow errors; classification and rotation are the
// orchestrator's job.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string, filters Filters, cred Credential) ([]*job.Job, error)
}

// ErrorKind classifies an adapter failure.
type ErrorKind string

const (
	KindNetwork           ErrorKind = "network"
	KindAuthExpired       ErrorKind = "auth_expired"
	KindRateLimited       ErrorKind = "rate_limited"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// Error is the failure type propagated by adapters.
type Error struct {
	Source string
	Kind   ErrorKind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Source, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
