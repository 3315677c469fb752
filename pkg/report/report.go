// Package report holds the outcome of one smoke-test run and renders it
// for a human operator on the console.
package report

import (
	"sort"
	"time"
)

// Result is the outcome of a single check. Skipped marks checks that made
// no request (the detect check without an image); they never count against
// the verdict.
type Result struct {
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Passed   bool          `json:"passed"`
	Skipped  bool          `json:"skipped"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RunReport collects the results of one ordered run of all checks.
type RunReport struct {
	ID        string    `json:"id"`
	BaseURL   string    `json:"base_url"`
	StartedAt time.Time `json:"started_at"`
	Results   []Result  `json:"results"`
}

// Passed reports whether every executed check succeeded. Skipped checks
// are ignored.
func (r *RunReport) Passed() bool {
	for _, res := range r.Results {
		if res.Skipped {
			continue
		}
		if !res.Passed {
			return false
		}
	}
	return true
}

// SampleStrings returns at most max leading entries of values.
func SampleStrings(values []string, max int) []string {
	if len(values) <= max {
		return values
	}
	return values[:max]
}

// SampleKeys returns at most max keys of m in sorted order. Sorting keeps
// the output stable across runs; Go map iteration order is not.
func SampleKeys(m map[string]interface{}, max int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if len(keys) > max {
		keys = keys[:max]
	}
	return keys
}
