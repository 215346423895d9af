package rstree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
)

var (
	rootPattern = regexp.MustCompile(`pid\[(\d+)\]`)
	nodePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\[(-?\d+)\]`)
	namePattern = regexp.MustCompile(`\bname\[([^\[\]]*)\]`)
)

// optionalFields are the bracketed attributes captured from a node line
// besides the leading type[id] pair. Values land in the residual map
// unless a known Node field exists for them.
var optionalFields = []string{"parent", "frameNodeId", "frameNodeTag", "instanceId"}

// Parse scans a render-tree dump and reconstructs one tree per process.
//
// A line containing a pid[<n>] marker starts a new tree. Every other line
// has its depth computed by counting leading '|' markers; depth-0 lines
// and lines that don't carry a type[id] pair are skipped. Reconstruction
// is best-effort: malformed lines never fail the parse.
func Parse(dump string) Forest {
	forest := make(Forest)
	var stack []*Node

	for _, line := range strings.Split(dump, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := rootPattern.FindStringSubmatch(line); m != nil {
			pid, _ := strconv.Atoi(m[1])
			root := &Node{
				ID:    fmt.Sprintf("pid-%d", pid),
				Type:  RootType,
				Pid:   pid,
				Depth: markerDepth(line),
			}
			forest[pid] = root
			stack = stack[:0]
			stack = append(stack, root)
			continue
		}

		depth := markerDepth(line)
		if depth == 0 || len(stack) == 0 {
			continue
		}

		node := parseNodeLine(stripMarkers(line))
		if node == nil {
			continue
		}
		node.Depth = depth

		// Realign to the correct ancestor after sibling or dedent
		// transitions. Relies on the dump never increasing depth by
		// more than one between parent and child.
		for len(stack) >= depth && len(stack) > 1 {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		node.ParentID = parent.ID
		node.Pid = parent.Pid
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}

	return forest
}

// markerDepth counts leading '|' characters, skipping spaces, until the
// first character that is neither a marker nor a space.
func markerDepth(line string) int {
	depth := 0
	for _, r := range line {
		switch r {
		case '|':
			depth++
		case ' ', '\t':
			// indentation between markers does not affect depth
		default:
			return depth
		}
	}
	return depth
}

// stripMarkers returns the line content after the leading marker prefix.
func stripMarkers(line string) string {
	return strings.TrimLeft(line, "| \t")
}

// parseNodeLine parses one dump line into a Node. Returns nil when the
// line has no type[id] pair.
func parseNodeLine(content string) *Node {
	m := nodePattern.FindStringSubmatch(content)
	if m == nil {
		return nil
	}

	node := &Node{
		ID:   fmt.Sprintf("%s-%s", m[1], m[2]),
		Type: m[1],
	}

	if nm := namePattern.FindStringSubmatch(content); nm != nil {
		node.Name = nm[1]
	}

	for _, key := range optionalFields {
		if v, ok := bracketValue(content, key); ok {
			switch key {
			case "frameNodeId":
				node.FrameID = v
			case "frameNodeTag":
				node.FrameTag = v
			default:
				if node.Properties == nil {
					node.Properties = make(map[string]string)
				}
				node.Properties[key] = v
			}
		}
	}

	if mods, ok := balancedBracketValue(content, "modifiers"); ok {
		parseModifiers(node, mods)
	}

	return node
}

// parseModifiers splits the modifiers bracket interior on top-level
// commas and lifts the known tokens into Node fields.
func parseModifiers(node *Node, mods string) {
	for _, tok := range splitTopLevel(mods, ',') {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		key := tok
		value := ""
		hasValue := false
		if i := strings.IndexByte(tok, '['); i >= 0 && strings.HasSuffix(tok, "]") {
			key = tok[:i]
			value = tok[i+1 : len(tok)-1]
			hasValue = true
		}

		switch key {
		case "BackgroundColor":
			node.BgColor = value
		case "Bounds":
			node.HasBounds = true
			if hasValue {
				if b, ok := parseBounds(value); ok {
					node.Bounds = &b
				}
				setProperty(node, "bounds", value)
			}
		case "Frame":
			node.HasFrame = true
			if hasValue {
				setProperty(node, "frame", value)
			}
		default:
			if hasValue {
				setProperty(node, lowerFirst(key), value)
			} else {
				setProperty(node, lowerFirst(key), "true")
			}
		}
	}
}

func setProperty(node *Node, key, value string) {
	if node.Properties == nil {
		node.Properties = make(map[string]string)
	}
	node.Properties[key] = value
}

// parseBounds parses a "x y width height" or "x, y, width, height"
// component list. Fractional components are truncated.
func parseBounds(s string) (core.Bounds, bool) {
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)
	if len(parts) != 4 {
		return core.Bounds{}, false
	}

	vals := make([]int, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return core.Bounds{}, false
		}
		vals[i] = int(f)
	}

	return core.Bounds{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, true
}

// bracketValue extracts "key[value]" where value has no nested brackets.
func bracketValue(content, key string) (string, bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\[([^\[\]]*)\]`)
	if m := re.FindStringSubmatch(content); m != nil {
		return m[1], true
	}
	return "", false
}

// balancedBracketValue extracts "key[...]" with bracket balancing, so the
// value may itself contain bracketed tokens.
func balancedBracketValue(content, key string) (string, bool) {
	idx := strings.Index(content, key+"[")
	if idx < 0 {
		return "", false
	}

	start := idx + len(key) + 1
	depth := 1
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return content[start:i], true
			}
		}
	}
	return "", false
}

// splitTopLevel splits s on sep, ignoring separators inside brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
