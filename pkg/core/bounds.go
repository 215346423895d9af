package core

import "fmt"

// Bounds represents an on-screen rectangle in device pixel space.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// IsZero reports whether all four components are zero.
func (b Bounds) IsZero() bool {
	return b.X == 0 && b.Y == 0 && b.Width == 0 && b.Height == 0
}

// String returns the bracketed form "[x, y, width, height]".
func (b Bounds) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d]", b.X, b.Y, b.Width, b.Height)
}
