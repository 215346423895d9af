package resolver

import (
	"sort"

	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

// NearestNames returns up to limit distinct node names across the
// forest, ranked by their tier score against text. Used to enrich
// resolution-miss diagnostics; unlike FindByText it skips the candidate
// gate so near misses still surface.
func NearestNames(f rstree.Forest, text string, limit int) []string {
	type scored struct {
		name  string
		score int
	}

	pids := make([]int, 0, len(f))
	for pid := range f {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	seen := make(map[string]bool)
	var names []scored
	for _, pid := range pids {
		f[pid].Walk(func(n *rstree.Node) bool {
			if n.Name == "" || seen[n.Name] {
				return true
			}
			seen[n.Name] = true
			if s := scoreText(n.Name, text); s > 0 {
				names = append(names, scored{n.Name, s})
			}
			return true
		})
	}

	sort.SliceStable(names, func(i, j int) bool {
		return names[i].score > names[j].score
	})

	out := make([]string, 0, limit)
	for _, s := range names {
		if len(out) == limit {
			break
		}
		out = append(out, s.name)
	}
	return out
}
