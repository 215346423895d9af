package rstree

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
)

// Snapshot is the JSON-able form of a node subtree. It is an ephemeral
// export for human or LLM consumption; the parsed forest itself is never
// persisted or reloaded.
type Snapshot struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Name       string            `json:"name,omitempty"`
	Pid        int               `json:"pid,omitempty"`
	FrameID    string            `json:"frameNodeId,omitempty"`
	FrameTag   string            `json:"frameNodeTag,omitempty"`
	BgColor    string            `json:"backgroundColor,omitempty"`
	Bounds     *core.Bounds      `json:"bounds,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Truncated  bool              `json:"truncated,omitempty"` // children elided by a depth bound
	Children   []Snapshot        `json:"children,omitempty"`
}

// Snapshot converts the subtree into its exportable form. maxDepth bounds
// how many child levels are included; zero or negative means unbounded.
func (n *Node) Snapshot(maxDepth int) Snapshot {
	s := Snapshot{
		ID:         n.ID,
		Type:       n.Type,
		Name:       n.Name,
		Pid:        n.Pid,
		FrameID:    n.FrameID,
		FrameTag:   n.FrameTag,
		BgColor:    n.BgColor,
		Bounds:     n.Bounds,
		Properties: n.Properties,
	}

	if maxDepth == 1 && len(n.Children) > 0 {
		s.Truncated = true
		return s
	}

	next := maxDepth
	if maxDepth > 0 {
		next = maxDepth - 1
	}
	for _, c := range n.Children {
		s.Children = append(s.Children, c.Snapshot(next))
	}
	return s
}

// Export renders the forest as JSON, keyed by process id in ascending
// order. maxDepth bounds the exported levels per tree; zero or negative
// exports the full trees.
func (f Forest) Export(maxDepth int) ([]byte, error) {
	pids := make([]int, 0, len(f))
	for pid := range f {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	out := make(map[string]Snapshot, len(f))
	for _, pid := range pids {
		out[strconv.Itoa(pid)] = f[pid].Snapshot(maxDepth)
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeExport reads an exported forest back into snapshot form. Used
// only to inspect previously exported data; it does not rebuild a Forest.
func DecodeExport(data []byte) (map[string]Snapshot, error) {
	var out map[string]Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
