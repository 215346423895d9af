package rstree

import (
	"testing"
)

const exportDump = `pid[10]
| Canvas[1]
| | Text[2] name[OK] modifiers[Bounds[0 0 100 40]]
pid[5]
| Surface[3]
`

func TestExport_KeyedByPid(t *testing.T) {
	forest := Parse(exportDump)

	data, err := forest.Export(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := DecodeExport(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("expected 2 trees, got %d", len(decoded))
	}
	if _, ok := decoded["5"]; !ok {
		t.Error("missing tree for pid 5")
	}
	tree, ok := decoded["10"]
	if !ok {
		t.Fatal("missing tree for pid 10")
	}
	if tree.Type != RootType || tree.Pid != 10 {
		t.Errorf("root = %s pid %d", tree.Type, tree.Pid)
	}

	text := tree.Children[0].Children[0]
	if text.Name != "OK" {
		t.Errorf("text name = %q, want OK", text.Name)
	}
	if text.Bounds == nil || text.Bounds.Width != 100 {
		t.Errorf("bounds not exported: %+v", text.Bounds)
	}
}

func TestSnapshot_DepthBound(t *testing.T) {
	forest := Parse(exportDump)
	root := forest[10]

	s := root.Snapshot(1)
	if !s.Truncated {
		t.Error("expected truncation marker at depth 1")
	}
	if len(s.Children) != 0 {
		t.Errorf("expected no children, got %d", len(s.Children))
	}

	s = root.Snapshot(2)
	if s.Truncated {
		t.Error("root should not be truncated at depth 2")
	}
	if len(s.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(s.Children))
	}
	if !s.Children[0].Truncated {
		t.Error("canvas should be truncated at depth 2")
	}
}

func TestSnapshot_Unbounded(t *testing.T) {
	forest := Parse(exportDump)

	s := forest[10].Snapshot(0)
	if s.Truncated || s.Children[0].Truncated {
		t.Error("unbounded snapshot should not truncate")
	}
	if s.Children[0].Children[0].Name != "OK" {
		t.Errorf("leaf = %q, want OK", s.Children[0].Children[0].Name)
	}
}
