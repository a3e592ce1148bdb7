// internal/types/position.go
package types

// Point is a pixel position on the drawing surface.
// X grows to the right, Y grows downward, both 0-based.
type Point struct {
	X int
	Y int
}

// Cell is a position on the terminal screen (column, row).
type Cell struct {
	Col int
	Row int
}
