package world

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
	"github.com/avenkatesh/labyrinth/internal/telemetry"
)

// spawnArea lists the coordinates created and discovered when a world is
// bootstrapped, in creation order. The order fixes the rng draw sequence
// for a given seed.
var spawnArea = []entity.Coord{
	{X: 0, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: -1, Y: 0},
}

// Grid is the lazy, unbounded world map. Cells come into existence the
// first time any operation touches their coordinates and persist for the
// life of the grid.
type Grid struct {
	locations  map[entity.Coord]*Location
	discovered map[entity.Coord]bool

	factory *entity.Factory
	items   *gamedata.ItemRegistry
	rng     *rand.Rand

	created         int
	coinsGenerated  int
	monstersSpawned int
	itemsPlaced     int
	events          []Event
}

// Stats is an aggregate snapshot of the world. The cumulative counters
// track generation history; the rest is computed on demand.
type Stats struct {
	TotalLocationsCreated  int
	TotalCoinsGenerated    int
	TotalMonstersSpawned   int
	TotalItemsPlaced       int
	LocationsDiscovered    int
	TotalLocations         int
	DiscoveryPercentage    float64
	CurrentMonsters        int
	CurrentCoins           int
	SpecialEventsTriggered int
}

// NewGrid creates a world with the spawn area already generated and
// discovered, so a new player can look around immediately.
func NewGrid(ctx context.Context, factory *entity.Factory, items *gamedata.ItemRegistry, rng *rand.Rand) *Grid {
	g := &Grid{
		locations:  make(map[entity.Coord]*Location),
		discovered: make(map[entity.Coord]bool),
		factory:    factory,
		items:      items,
		rng:        rng,
	}
	g.createSpawnArea(ctx)
	return g
}

// createSpawnArea generates and discovers the village and its four
// neighbors.
func (g *Grid) createSpawnArea(ctx context.Context) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.spawn_area")
	defer span.End()

	start := time.Now()
	for _, c := range spawnArea {
		g.GetOrCreate(c.X, c.Y)
		g.discovered[c] = true
	}

	span.SetAttributes(
		attribute.Int("world.spawn_locations", len(spawnArea)),
		attribute.Int("world.coins_generated", g.coinsGenerated),
		attribute.Int64("world.generation_ms", time.Since(start).Milliseconds()),
	)
}

// GetOrCreate returns the cell at (x, y), generating it on first touch.
// Generation updates the cumulative world counters exactly once per
// coordinate.
func (g *Grid) GetOrCreate(x, y int) *Location {
	coord := entity.Coord{X: x, Y: y}
	if loc, ok := g.locations[coord]; ok {
		return loc
	}

	loc := newLocation(x, y, g.items, g.rng)
	g.locations[coord] = loc

	g.created++
	if loc.HasCoins {
		g.coinsGenerated += loc.CoinAmount
	}
	if loc.HasMonster {
		g.monstersSpawned++
	}
	g.itemsPlaced += len(loc.Items)

	return loc
}

// Get returns the cell at (x, y) if it has been created, else nil.
func (g *Grid) Get(x, y int) *Location {
	return g.locations[entity.Coord{X: x, Y: y}]
}

// Visit enters the cell at (x, y): drains its coins and items and rolls
// the monster encounter. The hostile flag survives the visit, so the
// cell can ambush the player again later.
func (g *Grid) Visit(x, y int) *VisitResult {
	return g.GetOrCreate(x, y).visit(g.factory)
}

// Discover marks (x, y) as known, creating the cell as a side effect.
// It reports whether the coordinate was newly discovered.
func (g *Grid) Discover(x, y int) (*Location, bool) {
	coord := entity.Coord{X: x, Y: y}
	if g.discovered[coord] {
		return g.GetOrCreate(x, y), false
	}
	g.discovered[coord] = true
	return g.GetOrCreate(x, y), true
}

// IsDiscovered reports whether (x, y) has been discovered.
func (g *Grid) IsDiscovered(x, y int) bool {
	return g.discovered[entity.Coord{X: x, Y: y}]
}

// Surrounding returns the square neighborhood of (x, y), excluding the
// center, in a fixed order: dx ascending, then dy ascending.
func (g *Grid) Surrounding(x, y, radius int) []entity.Coord {
	coords := make([]entity.Coord, 0, (2*radius+1)*(2*radius+1)-1)
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			coords = append(coords, entity.Coord{X: x + dx, Y: y + dy})
		}
	}
	return coords
}

// LocationInfo describes the cell at (x, y) without spoiling exact
// contents. Looking at a cell creates it.
func (g *Grid) LocationInfo(x, y int) []string {
	loc := g.GetOrCreate(x, y)

	lines := []string{
		fmt.Sprintf("%s at (%d, %d)", loc.Name, x, y),
		"  " + loc.Description,
	}

	if g.IsDiscovered(x, y) {
		lines = append(lines, "  (Discovered)")
		lines = append(lines, fmt.Sprintf("  Visited: %d times", loc.VisitedCount))
	} else {
		lines = append(lines, "  (Unknown)")
	}

	switch {
	case loc.IsSafe:
		lines = append(lines, "  Safe location")
	case loc.HasMonster:
		lines = append(lines, "  Dangerous area")
	case loc.HasCoins:
		lines = append(lines, "  Something valuable here...")
	}

	return lines
}

// WorldMap renders the discovered area around the player as ASCII rows,
// north at the top. Undiscovered cells show as dots; discovered cells
// show their most interesting feature.
func (g *Grid) WorldMap(playerX, playerY, radius int) []string {
	lines := []string{
		"World Map",
		"====================",
	}

	for y := playerY + radius; y >= playerY-radius; y-- {
		row := make([]rune, 0, 2*radius+1)
		for x := playerX - radius; x <= playerX+radius; x++ {
			row = append(row, g.mapGlyph(x, y, playerX, playerY))
		}
		lines = append(lines, string(row))
	}

	lines = append(lines, "")
	lines = append(lines, "Legend:")
	lines = append(lines, "P=You  H=Safe  M=Danger  T=Treasure  E=Explored  ?=Unknown")
	return lines
}

func (g *Grid) mapGlyph(x, y, playerX, playerY int) rune {
	if x == playerX && y == playerY {
		return 'P'
	}
	if !g.IsDiscovered(x, y) {
		return '.'
	}
	loc := g.Get(x, y)
	if loc == nil {
		return '?'
	}
	switch {
	case loc.IsSafe:
		return 'H'
	case loc.HasMonster:
		return 'M'
	case loc.HasCoins:
		return 'T'
	default:
		return 'E'
	}
}

// Stats returns the aggregate world snapshot.
func (g *Grid) Stats() Stats {
	s := Stats{
		TotalLocationsCreated:  g.created,
		TotalCoinsGenerated:    g.coinsGenerated,
		TotalMonstersSpawned:   g.monstersSpawned,
		TotalItemsPlaced:       g.itemsPlaced,
		LocationsDiscovered:    len(g.discovered),
		TotalLocations:         len(g.locations),
		SpecialEventsTriggered: len(g.events),
	}

	total := len(g.locations)
	if total < 1 {
		total = 1
	}
	s.DiscoveryPercentage = float64(len(g.discovered)) / float64(total) * 100

	for _, loc := range g.locations {
		if loc.HasMonster {
			s.CurrentMonsters++
		}
		if loc.HasCoins {
			s.CurrentCoins += loc.CoinAmount
		}
	}
	return s
}

// All returns every created location ordered by coordinates (x, then y),
// so iteration and persistence are deterministic.
func (g *Grid) All() []*Location {
	locs := make([]*Location, 0, len(g.locations))
	for _, loc := range g.locations {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].X != locs[j].X {
			return locs[i].X < locs[j].X
		}
		return locs[i].Y < locs[j].Y
	})
	return locs
}

// Count returns the number of created locations.
func (g *Grid) Count() int {
	return len(g.locations)
}

// Restore replaces the grid's contents with previously saved locations.
// Zones are rederived from coordinates, and the cumulative counters are
// recounted from what survives in the records; coins and items already
// drained before the save are gone for good.
func (g *Grid) Restore(locations []*Location, discovered []entity.Coord) {
	g.locations = make(map[entity.Coord]*Location, len(locations))
	g.discovered = make(map[entity.Coord]bool, len(discovered))

	g.created = len(locations)
	g.coinsGenerated = 0
	g.monstersSpawned = 0
	g.itemsPlaced = 0

	for _, loc := range locations {
		loc.Zone = ClassifyZone(loc.X, loc.Y)
		g.locations[entity.Coord{X: loc.X, Y: loc.Y}] = loc

		if loc.HasCoins {
			g.coinsGenerated += loc.CoinAmount
		}
		if loc.HasMonster {
			g.monstersSpawned++
		}
		g.itemsPlaced += len(loc.Items)
	}

	for _, c := range discovered {
		g.discovered[c] = true
	}
}
