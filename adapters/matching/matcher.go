package matching

import (
	"log"
	"strings"
	"unicode"
)

// HeuristicMatcher maps DAG node identifiers onto table column names.
// Node identifiers may carry a trailing numeric suffix (timestamp) or
// a "-test" suffix; both are stripped before matching. Hyphenated
// identifiers map onto underscore-separated column names.
type HeuristicMatcher struct {
	verbose bool
}

// NewHeuristicMatcher creates a matcher. With verbose set, every
// mapping decision is logged.
func NewHeuristicMatcher(verbose bool) *HeuristicMatcher {
	return &HeuristicMatcher{verbose: verbose}
}

// Match resolves a node identifier against the available column names:
// exact case-insensitive match first, then substring containment in
// either direction.
func (m *HeuristicMatcher) Match(nodeID string, available []string) (string, bool) {
	base := Normalize(nodeID)
	if m.verbose {
		log.Printf("[Matcher] mapping %s -> %s", nodeID, base)
	}

	for _, col := range available {
		if base == strings.ToLower(col) {
			if m.verbose {
				log.Printf("[Matcher] exact match: %s to column %s", base, col)
			}
			return col, true
		}
	}

	for _, col := range available {
		lower := strings.ToLower(col)
		if strings.Contains(lower, base) || strings.Contains(base, lower) {
			if m.verbose {
				log.Printf("[Matcher] partial match: %s to column %s", base, col)
			}
			return col, true
		}
	}

	if m.verbose {
		log.Printf("[Matcher] no match found for %s in %v", base, available)
	}
	return "", false
}

// Normalize strips node-id decorations down to the column naming
// convention: drop a trailing numeric (timestamp) segment, drop a
// "-test" suffix, then lower-case with hyphens as underscores.
func Normalize(nodeID string) string {
	base := nodeID

	parts := strings.Split(base, "-")
	if len(parts) > 1 && isDigits(parts[len(parts)-1]) {
		base = strings.Join(parts[:len(parts)-1], "-")
	}

	base = strings.TrimSuffix(base, "-test")

	return strings.ToLower(strings.ReplaceAll(base, "-", "_"))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
