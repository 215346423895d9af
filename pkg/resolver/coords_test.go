package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

func TestCoordinates_FromModifierBounds(t *testing.T) {
	dump := `pid[10]
| Button[1] name[Go] modifiers[Bounds[100 200 300 400]]
`
	node := rstree.Parse(dump)[10].Children[0]

	b, ok := Coordinates(node)
	if !ok {
		t.Fatal("expected coordinates")
	}
	want := core.Bounds{X: 100, Y: 200, Width: 300, Height: 400}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestCoordinates_FromBoundsProperty(t *testing.T) {
	node := &rstree.Node{
		Type:       "Image",
		Properties: map[string]string{"bounds": "[10, 20, 30, 40]"},
	}

	b, ok := Coordinates(node)
	if !ok {
		t.Fatal("expected coordinates")
	}
	want := core.Bounds{X: 10, Y: 20, Width: 30, Height: 40}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestCoordinates_FromPointProperties(t *testing.T) {
	node := &rstree.Node{
		Type:       "Text",
		Properties: map[string]string{"x": "55.7", "y": "66.2"},
	}

	b, ok := Coordinates(node)
	if !ok {
		t.Fatal("expected coordinates")
	}
	// Point fallback yields a zero-size rectangle, components truncated
	want := core.Bounds{X: 55, Y: 66}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestCoordinates_None(t *testing.T) {
	node := &rstree.Node{Type: "Canvas"}
	if _, ok := Coordinates(node); ok {
		t.Error("expected no coordinates")
	}

	// x without y is not enough
	node.Properties = map[string]string{"x": "10"}
	if _, ok := Coordinates(node); ok {
		t.Error("expected no coordinates for lone x")
	}
}

func TestCoordinates_MalformedBoundsProperty(t *testing.T) {
	node := &rstree.Node{
		Type:       "Text",
		Properties: map[string]string{"bounds": "[1, 2, 3]", "x": "7", "y": "8"},
	}

	// Malformed rect string falls through to the point pair
	b, ok := Coordinates(node)
	if !ok {
		t.Fatal("expected fallback coordinates")
	}
	if b.X != 7 || b.Y != 8 || b.Width != 0 {
		t.Errorf("got %+v", b)
	}
}

func TestTapPoint_Center(t *testing.T) {
	dump := `pid[10]
| Button[1] name[Go] modifiers[Bounds[100 200 300 400]]
`
	node := rstree.Parse(dump)[10].Children[0]

	x, y, ok := TapPoint(node)
	if !ok {
		t.Fatal("expected tap point")
	}
	if x != 250 || y != 400 {
		t.Errorf("tap point = (%d, %d), want (250, 400)", x, y)
	}
}

func TestTapPoint_ZeroSizePoint(t *testing.T) {
	node := &rstree.Node{
		Type:       "Text",
		Properties: map[string]string{"x": "30", "y": "40"},
	}

	x, y, ok := TapPoint(node)
	if !ok {
		t.Fatal("expected tap point")
	}
	if x != 30 || y != 40 {
		t.Errorf("tap point = (%d, %d), want (30, 40)", x, y)
	}
}

func TestTapPoint_None(t *testing.T) {
	if _, _, ok := TapPoint(&rstree.Node{Type: "Canvas"}); ok {
		t.Error("expected no tap point")
	}
}
