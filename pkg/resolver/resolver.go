package resolver

import (
	"math"
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

// Condition weights for combined-predicate queries.
const (
	weightText     = 30
	weightType     = 20
	weightProperty = 25
)

// similarityFloor is the minimum normalized edit-distance similarity for
// a fuzzy text candidate to count as a match at all.
const similarityFloor = 0.60

// Conditions is a combined predicate. Every present field is one
// condition; each satisfied condition raises the candidate's score.
type Conditions struct {
	Text       string
	Type       string
	Properties map[string]string
}

// Count returns the number of conditions present.
func (c Conditions) Count() int {
	n := len(c.Properties)
	if c.Text != "" {
		n++
	}
	if c.Type != "" {
		n++
	}
	return n
}

// FindByText finds nodes whose display name matches text. With exact set,
// the name must equal text ignoring case; otherwise a case-insensitive
// substring either way suffices. Candidates whose tier score computes to
// zero are excluded. Results are sorted by descending score; ties keep
// depth-first discovery order.
func FindByText(root *rstree.Node, text string, exact bool) []Match {
	var matches []Match
	walkWithPath(root, func(n *rstree.Node, path []string) {
		if n.Name == "" {
			return
		}
		if !textCandidate(n.Name, text, exact) {
			return
		}
		score := scoreText(n.Name, text)
		if score == 0 {
			return
		}
		matches = append(matches, Match{Node: n, Path: path, Score: score})
	})
	sortMatches(matches)
	return matches
}

// FindByType finds nodes whose type discriminator equals typ exactly.
// Every match scores a fixed 80.
func FindByType(root *rstree.Node, typ string) []Match {
	var matches []Match
	walkWithPath(root, func(n *rstree.Node, path []string) {
		if n.Type != typ {
			return
		}
		matches = append(matches, Match{Node: n, Path: path, Score: 80})
	})
	return matches
}

// FindByProperty finds nodes carrying the exact key/value attribute.
// Every match scores a fixed 100.
func FindByProperty(root *rstree.Node, key, value string) []Match {
	var matches []Match
	walkWithPath(root, func(n *rstree.Node, path []string) {
		v, ok := n.Property(key)
		if !ok || v != value {
			return
		}
		matches = append(matches, Match{Node: n, Path: path, Score: 100})
	})
	return matches
}

// FindByConditions evaluates the combined predicate against every node.
// Each satisfied condition contributes its fixed weight; the averaged
// weight is then scaled by the fraction of conditions matched, so a node
// satisfying only part of the predicate ranks below one satisfying all of
// it. Nodes matching no condition are excluded.
//
// Note: candidates evaluated under predicates with different condition
// counts are not comparable on this scale. Known ranking quirk of the
// formula, kept as is.
func FindByConditions(root *rstree.Node, cond Conditions) []Match {
	total := cond.Count()
	if total == 0 {
		return nil
	}

	var matches []Match
	walkWithPath(root, func(n *rstree.Node, path []string) {
		raw, matched := 0, 0

		if cond.Text != "" && n.Name != "" && textCandidate(n.Name, cond.Text, false) {
			raw += weightText
			matched++
		}
		if cond.Type != "" && n.Type == cond.Type {
			raw += weightType
			matched++
		}
		for key, want := range cond.Properties {
			if v, ok := n.Property(key); ok && v == want {
				raw += weightProperty
				matched++
			}
		}

		if matched == 0 {
			return
		}

		score := int(math.Round(float64(raw) / float64(total) * float64(matched) / float64(total)))
		if score > 100 {
			score = 100
		}
		matches = append(matches, Match{Node: n, Path: path, Score: score})
	})
	sortMatches(matches)
	return matches
}

// textCandidate decides whether a node name is a candidate for the query
// at all. Detection ignores case; the score tiers then compare exact
// bytes, so a case mangled candidate falls through to the similarity
// tier instead of the containment one.
func textCandidate(name, query string, exact bool) bool {
	a, b := strings.ToLower(name), strings.ToLower(query)
	if exact {
		return a == b
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// scoreText assigns the tiered confidence score for a name/query pair:
// identical 100, containment either way 85, prefix 75, suffix 70, and
// otherwise a normalized Levenshtein similarity mapped onto 0-60 when it
// clears the floor. The tiers are evaluated strictly in that order.
func scoreText(name, query string) int {
	if name == query {
		return 100
	}
	if strings.Contains(name, query) || strings.Contains(query, name) {
		return 85
	}
	if strings.HasPrefix(name, query) {
		return 75
	}
	if strings.HasSuffix(name, query) {
		return 70
	}

	maxLen := len(name)
	if len(query) > maxLen {
		maxLen = len(query)
	}
	if maxLen == 0 {
		return 0
	}

	dist := smetrics.WagnerFischer(name, query, 1, 1, 1)
	sim := 1 - float64(dist)/float64(maxLen)
	if sim < similarityFloor {
		return 0
	}
	return int(math.Round(sim * 60))
}

// walkWithPath traverses the tree depth-first, handing each node its
// ancestor label path (root label first, node's own label last).
func walkWithPath(root *rstree.Node, fn func(*rstree.Node, []string)) {
	var walk func(n *rstree.Node, prefix []string)
	walk = func(n *rstree.Node, prefix []string) {
		path := append(append([]string{}, prefix...), n.Label())
		fn(n, path)
		for _, c := range n.Children {
			walk(c, path)
		}
	}
	walk(root, nil)
}

// sortMatches orders by descending score, keeping discovery order for
// equal scores.
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
