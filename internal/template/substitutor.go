// Package template substitutes environment variables into raw definition
// text before it reaches the SQL parser.
package template

import (
	"os"
	"regexp"

	"github.com/ducat-dev/ducat/internal/apperrors"
)

// Variable pattern: {{ NAME }}
var varPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Substitutor replaces {{ NAME }} placeholders with environment variable
// values. Lookup defaults to os.LookupEnv and is injectable for tests.
type Substitutor struct {
	lookup func(string) (string, bool)
	// Lenient leaves unresolved placeholders in place instead of failing
	// the load. Off by default: an unset variable is a load-time error.
	Lenient bool
}

// New creates a substitutor backed by the process environment.
func New() *Substitutor {
	return &Substitutor{lookup: os.LookupEnv}
}

// NewWithLookup creates a substitutor with a custom variable lookup.
func NewWithLookup(lookup func(string) (string, bool)) *Substitutor {
	return &Substitutor{lookup: lookup}
}

// Substitute replaces every {{ NAME }} placeholder in text. The unitName is
// only used for error reporting. It returns an UndefinedVariableError for
// the first unset variable unless the substitutor is lenient.
func (s *Substitutor) Substitute(text, unitName string) (string, error) {
	var missing string

	result := varPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := varPattern.FindStringSubmatch(match)[1]
		value, ok := s.lookup(name)
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return value
	})

	if missing != "" && !s.Lenient {
		return "", apperrors.NewUndefinedVariableError(missing, unitName)
	}
	return result, nil
}
