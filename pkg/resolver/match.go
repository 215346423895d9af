// Package resolver locates nodes in a parsed render forest by text, type
// or property predicates and scores each candidate.
package resolver

import (
	"encoding/json"

	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

// Match is a scored association between a resolved node and the query
// that found it.
type Match struct {
	Node  *rstree.Node // reference into the queried forest
	Path  []string     // ancestor labels from root to node
	Score int          // 0-100 confidence
}

// MatchSnapshot is the JSON-able search-result form of a match.
type MatchSnapshot struct {
	Path  []string        `json:"path"`
	Score int             `json:"score"`
	Node  rstree.Snapshot `json:"node"`
}

// ExportMatches renders matches as JSON for diagnostic display. Each
// matched node is exported without its subtree.
func ExportMatches(matches []Match) ([]byte, error) {
	out := make([]MatchSnapshot, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchSnapshot{
			Path:  m.Path,
			Score: m.Score,
			Node:  m.Node.Snapshot(1),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// Best returns the highest-scored match, or nil when the list is empty.
// Matches are already sorted, so this is the first element.
func Best(matches []Match) *Match {
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}
