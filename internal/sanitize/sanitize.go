// Package sanitize strips markup from user-entered text before it is
// stored. Supply records are plain text; any HTML a client submits is
// removed rather than escaped, so stored values render the same in the
// pages, the JSON API and any export.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton strict policy: no elements or attributes survive.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text removes every HTML tag from input, drops the bodies of script and
// style elements, and trims surrounding whitespace. Entities are decoded so
// "A &amp; B" is stored as "A & B"; markup hidden behind entities
// ("&lt;b&gt;") is decoded and stripped too. Sanitizing repeats until the
// text stops changing; every changing pass shortens it, so the loop ends.
func Text(input string) string {
	if input == "" {
		return ""
	}
	out := input
	for range len(input) + 1 {
		next := html.UnescapeString(getPolicy().Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}
