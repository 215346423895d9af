// Package rstree parses RenderService render-tree dumps into typed node forests.
package rstree

import (
	"fmt"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
)

// RootType is the type discriminator assigned to per-process root nodes.
const RootType = "ProcessRoot"

// Node is a single element of the render hierarchy.
//
// A node is created once during parsing, attached to exactly one parent
// (roots have none) and never mutated afterwards. Children preserve dump
// order, which is the rendering paint order.
type Node struct {
	ID       string // synthetic: "<Type>-<n>", or "pid-<n>" for roots
	Type     string // type discriminator: ProcessRoot, Canvas, Surface, Text, ...
	Name     string // optional display label
	Pid      int    // owning process id (roots only; 0 otherwise)
	FrameID  string // frameNodeId cross-reference into the owning render pipeline
	FrameTag string // frameNodeTag cross-reference
	ParentID string // set when the node is attached to its parent
	Depth    int    // nesting level; equals the leading marker count in the dump

	// Known modifiers, lifted out of the modifiers bracket.
	BgColor   string       // background color token
	Bounds    *core.Bounds // structured bounds, when the token parses
	HasBounds bool         // a Bounds token was present
	HasFrame  bool         // a Frame token was present

	// Residual attributes that don't map to a known field.
	Properties map[string]string

	Children []*Node
}

// Forest maps a process id to the root of its render tree.
type Forest map[int]*Node

// Label returns the path label for the node: the type, with the display
// name appended as "Type(name)" when present.
func (n *Node) Label() string {
	if n.Name != "" && n.Type != RootType {
		return fmt.Sprintf("%s(%s)", n.Type, n.Name)
	}
	return n.Type
}

// Property resolves an attribute by key, checking the known fields before
// the residual property map.
func (n *Node) Property(key string) (string, bool) {
	switch key {
	case "id":
		return n.ID, true
	case "type":
		return n.Type, true
	case "name":
		if n.Name == "" {
			return "", false
		}
		return n.Name, true
	case "frameNodeId":
		if n.FrameID == "" {
			return "", false
		}
		return n.FrameID, true
	case "frameNodeTag":
		if n.FrameTag == "" {
			return "", false
		}
		return n.FrameTag, true
	case "backgroundColor":
		if n.BgColor == "" {
			return "", false
		}
		return n.BgColor, true
	}
	v, ok := n.Properties[key]
	return v, ok
}

// Walk visits the node and all descendants depth-first in child order.
// Traversal stops when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the subtree, excluding the
// receiver itself.
func (n *Node) Count() int {
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Count()
	}
	return total
}
