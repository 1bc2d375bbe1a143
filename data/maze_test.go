package data

import (
	"strings"
	"testing"
)

func TestLoadMazePattern(t *testing.T) {
	pattern, err := LoadMazePattern()
	if err != nil {
		t.Fatalf("LoadMazePattern failed: %v", err)
	}

	if len(pattern) != 19 {
		t.Fatalf("Expected 19 rows, got %d", len(pattern))
	}

	for i, row := range pattern {
		if len(row) > 32 {
			t.Errorf("Row %d is %d cells wide, max 32", i, len(row))
		}
		for _, cell := range row {
			switch cell {
			case '#', '.', ' ', 'E':
			default:
				t.Errorf("Row %d contains unexpected cell %q", i, string(cell))
			}
		}
	}

	// The border rows are solid walls.
	if strings.Trim(pattern[0], "#") != "" || strings.Trim(pattern[18], "#") != "" {
		t.Error("Top and bottom rows should be solid walls")
	}

	exits := 0
	for _, row := range pattern {
		exits += strings.Count(row, "E")
	}
	if exits != 1 {
		t.Errorf("Expected exactly one exit marker, got %d", exits)
	}
}

func TestMustLoadMazePattern(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoadMazePattern panicked: %v", r)
		}
	}()

	if pattern := MustLoadMazePattern(); len(pattern) == 0 {
		t.Fatal("MustLoadMazePattern returned an empty pattern")
	}
}
