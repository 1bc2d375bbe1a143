package data

import (
	"fmt"
	"strings"
)

// Maze pattern constraints. The arcade world anchors the pattern at
// (-16, -9), so rows beyond these limits would fall outside its bounds.
const (
	mazeRows     = 19
	mazeMaxWidth = 32
)

// LoadMazePattern loads the arcade maze layout from the embedded
// maze.txt. Rows may be ragged: any cell that is not '#' is open floor,
// and exactly one 'E' marks the exit door.
func LoadMazePattern() ([]string, error) {
	raw, err := dataFS.ReadFile("maze.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to read maze.txt: %w", err)
	}

	rows := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, "\r")
	}

	if len(rows) != mazeRows {
		return nil, fmt.Errorf("maze.txt has %d rows, want %d", len(rows), mazeRows)
	}

	exits := 0
	for i, row := range rows {
		if len(row) > mazeMaxWidth {
			return nil, fmt.Errorf("maze.txt row %d is %d cells wide, max %d", i, len(row), mazeMaxWidth)
		}
		exits += strings.Count(row, "E")
	}
	if exits != 1 {
		return nil, fmt.Errorf("maze.txt has %d exit markers, want exactly 1", exits)
	}

	return rows, nil
}

// MustLoadMazePattern loads the maze layout, panicking on error.
func MustLoadMazePattern() []string {
	pattern, err := LoadMazePattern()
	if err != nil {
		panic(err)
	}
	return pattern
}
