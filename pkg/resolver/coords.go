package resolver

import (
	"strconv"
	"strings"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

// Coordinates derives the on-screen rectangle for a node. Preference
// order: the structured bounds lifted from the node's modifiers, then a
// bracketed "[x, y, width, height]" property string, then a bare x/y
// property pair (which yields a zero-size rectangle at that point).
// The second return is false when nothing bounds-bearing is present.
func Coordinates(n *rstree.Node) (core.Bounds, bool) {
	if n.Bounds != nil {
		return *n.Bounds, true
	}

	if raw, ok := n.Property("bounds"); ok {
		if b, ok := parseBracketedRect(raw); ok {
			return b, true
		}
	}

	if xs, ok := n.Property("x"); ok {
		if ys, ok := n.Property("y"); ok {
			x, errX := parseComponent(xs)
			y, errY := parseComponent(ys)
			if errX == nil && errY == nil {
				return core.Bounds{X: x, Y: y}, true
			}
		}
	}

	return core.Bounds{}, false
}

// TapPoint returns the actionable screen point for a node: the center of
// its derived rectangle.
func TapPoint(n *rstree.Node) (int, int, bool) {
	b, ok := Coordinates(n)
	if !ok {
		return 0, 0, false
	}
	x, y := b.Center()
	return x, y, true
}

// parseBracketedRect parses "[x, y, width, height]" (brackets optional,
// comma or space separated) into a rectangle.
func parseBracketedRect(s string) (core.Bounds, bool) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)
	if len(parts) != 4 {
		return core.Bounds{}, false
	}

	vals := make([]int, 4)
	for i, p := range parts {
		v, err := parseComponent(p)
		if err != nil {
			return core.Bounds{}, false
		}
		vals[i] = v
	}
	return core.Bounds{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, true
}

// parseComponent reads one numeric component, truncating fractions.
func parseComponent(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
