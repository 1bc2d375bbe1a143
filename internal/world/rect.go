package world

// Rect is an inclusive rectangular region of grid coordinates.
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Contains returns true if the given point is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Width returns the number of columns the rectangle spans.
func (r Rect) Width() int {
	return r.MaxX - r.MinX + 1
}

// Height returns the number of rows the rectangle spans.
func (r Rect) Height() int {
	return r.MaxY - r.MinY + 1
}
