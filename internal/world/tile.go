package world

// Tile represents a single maze cell.
type Tile rune

const (
	// TileWall represents an impassable wall cell.
	TileWall Tile = '#'
	// TileFloor represents a passable floor cell.
	TileFloor Tile = '.'
	// TileExit represents the maze exit door. Passable, but the door
	// only opens once every monster in the maze is defeated.
	TileExit Tile = 'E'
)

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t != TileWall
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
