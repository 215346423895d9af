package core

import "testing"

func TestBoundsCenter(t *testing.T) {
	tests := []struct {
		b      Bounds
		cx, cy int
	}{
		{Bounds{X: 100, Y: 200, Width: 300, Height: 400}, 250, 400},
		{Bounds{X: 0, Y: 0, Width: 0, Height: 0}, 0, 0},
		{Bounds{X: 30, Y: 40}, 30, 40}, // zero-size point keeps its position
		{Bounds{X: 0, Y: 0, Width: 5, Height: 5}, 2, 2},
	}

	for _, tt := range tests {
		cx, cy := tt.b.Center()
		if cx != tt.cx || cy != tt.cy {
			t.Errorf("%v.Center() = (%d, %d), want (%d, %d)", tt.b, cx, cy, tt.cx, tt.cy)
		}
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{X: 10, Y: 10, Width: 100, Height: 50}

	tests := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{109, 59, true},
		{110, 10, false}, // right edge is exclusive
		{10, 60, false},
		{9, 10, false},
		{55, 30, true},
	}

	for _, tt := range tests {
		if got := b.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestBoundsIsZero(t *testing.T) {
	if !(Bounds{}).IsZero() {
		t.Error("zero value should be zero")
	}
	if (Bounds{X: 1}).IsZero() {
		t.Error("non-zero X should not be zero")
	}
}

func TestBoundsString(t *testing.T) {
	b := Bounds{X: 1, Y: 2, Width: 3, Height: 4}
	if got := b.String(); got != "[1, 2, 3, 4]" {
		t.Errorf("String() = %q", got)
	}
}
