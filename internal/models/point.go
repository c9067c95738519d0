// Package models defines the value types shared by the commit-graph model,
// the layout engine and the renderers.
package models

import "fmt"

// Point is a position in layout units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Line is a straight connector between two points
type Line struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}
