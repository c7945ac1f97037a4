// Package secrets resolves the API keys the job boards and the AI provider
// authenticate with. Every credential in the configuration can be given
// inline or as a file path; file paths take precedence.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source is one configured secret: a board API key, an Adzuna app id, or
// the Gemini key. Name only feeds error messages.
type Source struct {
	Name  string
	Value string
	File  string
}

func (s Source) label() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return "secret"
}

// Load resolves the secret, preferring File over the inline Value. The
// result is trimmed since key files usually end with a newline. An empty
// file is an error even when an inline value is also set.
func Load(src Source) (string, error) {
	name := src.label()

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		if secret := strings.TrimSpace(string(data)); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s is not configured", name)
}
