package keyring

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/remotescout/remotescout/internal/source"
)

// Verdict is the detector's classification of one adapter failure.
type Verdict struct {
	Exhausted bool
	Reason    string
}

// exhaustedStatuses are HTTP statuses that providers use for quota and
// billing problems. 509 (bandwidth limit exceeded) is non-standard but
// appears in the wild on shared API gateways.
var exhaustedStatuses = map[int]bool{
	http.StatusTooManyRequests: true,
	http.StatusPaymentRequired: true,
	http.StatusForbidden:       true,
	509:                        true,
}

// quotaVocabulary are phrases providers put in error bodies when a key has
// run out of quota. Matched case-insensitively as substrings.
var quotaVocabulary = []string{
	"quota",
	"rate limit",
	"limit",
	"exceeded",
	"billing",
	"too many requests",
	"usage cap",
	"subscription",
}

// Classify inspects an adapter error for quota-exhaustion signals. Status
// codes take priority over body text. Anything else is transient: the
// orchestrator logs it and moves on.
func Classify(err error) Verdict {
	if err == nil {
		return Verdict{}
	}

	var srcErr *source.Error
	if errors.As(err, &srcErr) && exhaustedStatuses[srcErr.Status] {
		return Verdict{Exhausted: true, Reason: fmt.Sprintf("HTTP %d", srcErr.Status)}
	}

	text := strings.ToLower(err.Error())
	for _, phrase := range quotaVocabulary {
		if strings.Contains(text, phrase) {
			return Verdict{Exhausted: true, Reason: phrase}
		}
	}

	return Verdict{}
}
