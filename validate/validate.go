// Package validate is the lexical safety gate restricting queries to
// read-only statements. It scans the whole query string for disallowed
// keywords and requires a leading SELECT; it performs no SQL parsing, so a
// disallowed word appearing anywhere, including inside a string literal or
// comment, rejects the query. That over-breadth is accepted: this is a
// defense-in-depth gate in front of a trusted-but-imperfect generator, not a
// grammar-level guarantee.
package validate

import (
	"regexp"
	"strings"
)

// Denylist holds the mutation keywords that reject a query outright.
var Denylist = []string{
	"drop", "delete", "insert", "update",
	"alter", "create", "truncate", "exec",
	"execute", "grant", "revoke",
}

var denyPatterns = compileDenyPatterns()

func compileDenyPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(Denylist))
	for i, kw := range Denylist {
		// Word-boundary match, so a column named created_at does not
		// trip "create" but the bare word anywhere in the string does.
		patterns[i] = regexp.MustCompile(`\b` + kw + `\b`)
	}
	return patterns
}

// Verdict is the outcome of checking one query string.
type Verdict struct {
	Allowed bool
	Reason  string
}

// Rejection is the error form of a rejected verdict, used by callers that
// report the outcome through an error path.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return "query rejected: " + r.Reason
}

// Check classifies a query string as allowed or rejected. The check is a
// pure function of the lower-cased, whitespace-trimmed string.
func Check(query string) Verdict {
	q := strings.ToLower(strings.TrimSpace(query))

	for i, pattern := range denyPatterns {
		if pattern.MatchString(q) {
			return Verdict{Reason: "dangerous SQL keyword detected: " + Denylist[i]}
		}
	}

	if !strings.HasPrefix(q, "select") {
		return Verdict{Reason: "only SELECT queries are allowed"}
	}

	return Verdict{Allowed: true}
}
