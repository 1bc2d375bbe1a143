package world

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/telemetry"
)

// mazeBounds frames the arcade maze. The pattern is anchored so that the
// spawn point (0,0) sits in the left corridor of the central chamber row.
var mazeBounds = Rect{MinX: -16, MinY: -9, MaxX: 15, MaxY: 9}

// Pattern anchor: pattern row 0, column 0 maps to (MinX, MinY).
const (
	mazeOffsetX = -16
	mazeOffsetY = -9
)

// defaultExit is used when a pattern carries no exit marker.
var defaultExit = entity.Coord{X: 14, Y: -8}

// monsterKinds is the placement rotation for maze monsters.
var monsterKinds = []string{"goblin", "orc", "slime", "dragon"}

// Maze is the fixed arcade map: walls parsed from an ASCII pattern, with
// coins and monsters scattered over the reachable floor. Unlike the
// overworld grid it is bounded, and it uses screen-style coordinates
// (north decreases y).
type Maze struct {
	walls    map[entity.Coord]bool
	coins    map[entity.Coord]int
	monsters map[entity.Coord]string
	exit     entity.Coord

	totalMonsters    int
	monstersDefeated int
}

// NewMaze parses the pattern into walls, then seeds coins and monsters
// on floor cells reachable from the spawn point. Rows may be ragged;
// anything that is not '#' is open floor, and 'E' marks the exit door.
func NewMaze(ctx context.Context, pattern []string, rng *rand.Rand) *Maze {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "maze.generate")
	defer span.End()

	start := time.Now()

	m := &Maze{
		walls:    make(map[entity.Coord]bool),
		coins:    make(map[entity.Coord]int),
		monsters: make(map[entity.Coord]string),
		exit:     defaultExit,
	}

	for y, row := range pattern {
		for x, cell := range row {
			coord := entity.Coord{X: x + mazeOffsetX, Y: y + mazeOffsetY}
			switch cell {
			case '#':
				m.walls[coord] = true
			case 'E':
				m.exit = coord
			}
		}
	}

	reachable := m.reachableFrom(entity.Coord{X: 0, Y: 0})
	m.placeCoinsAndMonsters(reachable, rng)

	span.SetAttributes(
		attribute.Int("maze.walls", len(m.walls)),
		attribute.Int("maze.reachable", len(reachable)),
		attribute.Int("maze.coins", len(m.coins)),
		attribute.Int("maze.monsters", m.totalMonsters),
		attribute.Int64("maze.generation_ms", time.Since(start).Milliseconds()),
	)

	return m
}

// reachableFrom flood-fills open cells four-directionally inside the
// maze bounds.
func (m *Maze) reachableFrom(start entity.Coord) []entity.Coord {
	visited := make(map[entity.Coord]bool)
	stack := []entity.Coord{start}

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[c] || m.walls[c] || !mazeBounds.Contains(c.X, c.Y) {
			continue
		}
		visited[c] = true

		stack = append(stack,
			entity.Coord{X: c.X, Y: c.Y + 1},
			entity.Coord{X: c.X, Y: c.Y - 1},
			entity.Coord{X: c.X + 1, Y: c.Y},
			entity.Coord{X: c.X - 1, Y: c.Y},
		)
	}

	coords := make([]entity.Coord, 0, len(visited))
	for c := range visited {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	return coords
}

// placeCoinsAndMonsters scatters pickups over reachable cells that are
// comfortably away from both the spawn point and the exit door. A
// quarter of the safe cells get a coin; monsters take up to six of the
// rest, one per dozen free cells, cycling through the kind rotation.
func (m *Maze) placeCoinsAndMonsters(reachable []entity.Coord, rng *rand.Rand) {
	safe := make([]entity.Coord, 0, len(reachable))
	for _, c := range reachable {
		if iabs(c.X)+iabs(c.Y) <= 2 {
			continue
		}
		if c == m.exit || iabs(c.X-m.exit.X)+iabs(c.Y-m.exit.Y) <= 2 {
			continue
		}
		safe = append(safe, c)
	}

	coinCount := len(safe) / 4
	shuffled := make([]entity.Coord, len(safe))
	copy(shuffled, safe)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, c := range shuffled[:coinCount] {
		m.coins[c] = 10
	}

	available := make([]entity.Coord, 0, len(safe))
	for _, c := range safe {
		if _, taken := m.coins[c]; !taken {
			available = append(available, c)
		}
	}
	monsterCount := len(available) / 12
	if monsterCount > 6 {
		monsterCount = 6
	}
	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	for i, c := range available[:monsterCount] {
		m.monsters[c] = monsterKinds[i%len(monsterKinds)]
	}

	m.totalMonsters = monsterCount
	m.monstersDefeated = 0
}

// Bounds returns the maze's coordinate frame.
func (m *Maze) Bounds() Rect {
	return mazeBounds
}

// Exit returns the exit door coordinate.
func (m *Maze) Exit() entity.Coord {
	return m.exit
}

// TileAt classifies the cell at (x, y). Everything outside the bounds
// reads as wall, which doubles as the collision rule at the edges.
func (m *Maze) TileAt(x, y int) Tile {
	coord := entity.Coord{X: x, Y: y}
	switch {
	case !mazeBounds.Contains(x, y) || m.walls[coord]:
		return TileWall
	case coord == m.exit:
		return TileExit
	default:
		return TileFloor
	}
}

// CanMoveTo reports whether a player may step onto (x, y).
func (m *Maze) CanMoveTo(x, y int) bool {
	return m.TileAt(x, y).IsPassable()
}

// CoinAt returns the coin value at (x, y), if any.
func (m *Maze) CoinAt(x, y int) (int, bool) {
	value, ok := m.coins[entity.Coord{X: x, Y: y}]
	return value, ok
}

// TakeCoin removes and returns the coin at (x, y).
func (m *Maze) TakeCoin(x, y int) (int, bool) {
	coord := entity.Coord{X: x, Y: y}
	value, ok := m.coins[coord]
	if ok {
		delete(m.coins, coord)
	}
	return value, ok
}

// MonsterAt returns the monster kind waiting at (x, y), if any.
func (m *Maze) MonsterAt(x, y int) (string, bool) {
	kind, ok := m.monsters[entity.Coord{X: x, Y: y}]
	return kind, ok
}

// TakeMonster removes and returns the monster kind at (x, y). Once
// taken the cell stays clear whether the encounter is won or abandoned.
func (m *Maze) TakeMonster(x, y int) (string, bool) {
	coord := entity.Coord{X: x, Y: y}
	kind, ok := m.monsters[coord]
	if ok {
		delete(m.monsters, coord)
	}
	return kind, ok
}

// CoinsRemaining returns how many coin pickups are still on the floor.
func (m *Maze) CoinsRemaining() int {
	return len(m.coins)
}

// TotalMonsters returns how many monsters the maze started with.
func (m *Maze) TotalMonsters() int {
	return m.totalMonsters
}

// MonstersDefeated returns how many maze monsters have been defeated.
func (m *Maze) MonstersDefeated() int {
	return m.monstersDefeated
}

// MonstersRemaining returns how many defeats the exit still demands.
func (m *Maze) MonstersRemaining() int {
	remaining := m.totalMonsters - m.monstersDefeated
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RecordDefeat counts a defeated maze monster toward unlocking the exit.
func (m *Maze) RecordDefeat() {
	m.monstersDefeated++
}

// ExitUnlocked reports whether the exit door opens.
func (m *Maze) ExitUnlocked() bool {
	return m.monstersDefeated >= m.totalMonsters
}
