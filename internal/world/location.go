// Package world provides the procedurally generated overworld grid and
// the fixed maze used by arcade mode.
package world

import (
	"fmt"
	"math/rand"

	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
)

// Zone classifies a coordinate by its distance from the spawn point.
// Classification is pure: the same coordinate always maps to the same zone.
type Zone int

const (
	// ZoneVillage is the spawn point (0,0), always safe.
	ZoneVillage Zone = iota
	// ZoneWilderness covers far coordinates (|x| >= 5 or |y| >= 5), always hostile.
	ZoneWilderness
	// ZoneOutskirts covers the four cells adjacent to spawn (|x|+|y| == 1).
	ZoneOutskirts
	// ZoneNormal covers everything else.
	ZoneNormal
)

// String returns a human-readable zone name.
func (z Zone) String() string {
	switch z {
	case ZoneVillage:
		return "village"
	case ZoneWilderness:
		return "wilderness"
	case ZoneOutskirts:
		return "outskirts"
	case ZoneNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// ClassifyZone returns the zone for a coordinate. Precedence matters:
// the village wins over everything, wilderness over outskirts.
func ClassifyZone(x, y int) Zone {
	switch {
	case x == 0 && y == 0:
		return ZoneVillage
	case iabs(x) >= 5 || iabs(y) >= 5:
		return ZoneWilderness
	case iabs(x)+iabs(y) == 1:
		return ZoneOutskirts
	default:
		return ZoneNormal
	}
}

// Location is a single generated cell of the world grid.
type Location struct {
	X, Y int
	Zone Zone
	Name string

	HasCoins    bool
	CoinAmount  int
	HasMonster  bool
	MonsterKind string // empty means the factory default is used at encounter time
	IsSafe      bool
	Description string

	Items        []string
	VisitedCount int
}

// Name-generation tables for normal cells. Indexing is coordinate-derived,
// so the same cell always gets the same name.
var (
	namePrefixes = []string{"Ancient", "Forgotten", "Mystic", "Dark", "Sunny", "Frozen", "Burning"}
	namePlaces   = []string{"Forest", "Cave", "Ruins", "Temple", "Meadow", "Mountain", "Valley"}
)

// newLocation generates the cell at (x, y). The rng draw order per zone is
// fixed: changing it changes every world generated from a given seed.
func newLocation(x, y int, items *gamedata.ItemRegistry, rng *rand.Rand) *Location {
	loc := &Location{
		X:           x,
		Y:           y,
		Zone:        ClassifyZone(x, y),
		Name:        fmt.Sprintf("Location (%d, %d)", x, y),
		Description: "A mysterious location...",
	}

	switch loc.Zone {
	case ZoneVillage:
		loc.Name = "Village Center"
		loc.IsSafe = true
		loc.Description = "A peaceful village where your journey begins."

	case ZoneWilderness:
		loc.Name = "Dangerous Wilderness"
		loc.HasMonster = true
		if rng.Float64() < 0.3 {
			loc.MonsterKind = "dragon"
		} else {
			loc.MonsterKind = "orc"
		}
		loc.Description = "A dangerous area filled with powerful monsters."

	case ZoneOutskirts:
		loc.Name = "Village Outskirts"
		loc.HasCoins = rng.Float64() < 0.7
		// The amount is rolled whether or not the coins flag came up.
		loc.CoinAmount = 5 + rng.Intn(11)
		loc.Description = "The quiet outskirts of the village."

	case ZoneNormal:
		if rng.Float64() < 0.3 {
			loc.HasCoins = true
			loc.CoinAmount = 10 + rng.Intn(16)
		}
		if !loc.HasCoins && rng.Float64() < 0.4 {
			loc.HasMonster = true
		}
		if rng.Float64() < 0.2 {
			pool := items.Pool(gamedata.PoolExploration)
			if len(pool) > 0 {
				loc.Items = append(loc.Items, pool[rng.Intn(len(pool))].Name)
			}
		}
		loc.Name = pseudoName(x, y)
	}

	return loc
}

// pseudoName derives a stable two-word name from the coordinates.
func pseudoName(x, y int) string {
	prefix := namePrefixes[iabs(x+y)%len(namePrefixes)]
	place := namePlaces[iabs(x*y+1)%len(namePlaces)]
	return prefix + " " + place
}

// VisitResult reports everything a single visit produced. Coins and items
// are drained from the cell; the monster flag intentionally is not, so a
// hostile cell stays hostile across visits.
type VisitResult struct {
	CoinsFound int
	ItemsFound []string
	Monster    *entity.Monster
	Messages   []string
}

// visit drains the cell and rolls the monster encounter.
func (l *Location) visit(factory *entity.Factory) *VisitResult {
	l.VisitedCount++

	result := &VisitResult{
		Messages: []string{
			fmt.Sprintf("You arrive at %s", l.Name),
			l.Description,
		},
	}

	if l.HasCoins {
		result.CoinsFound = l.CoinAmount
		result.Messages = append(result.Messages, fmt.Sprintf("You found %d coins!", l.CoinAmount))
		l.HasCoins = false
		l.CoinAmount = 0
	}

	if len(l.Items) > 0 {
		for _, item := range l.Items {
			result.ItemsFound = append(result.ItemsFound, item)
			result.Messages = append(result.Messages, fmt.Sprintf("You found a %s!", item))
		}
		l.Items = nil
	}

	if l.HasMonster {
		if l.MonsterKind != "" {
			result.Monster, _ = factory.Spawn(l.MonsterKind)
		} else {
			// No stored kind: roll from the starter tier, regardless of
			// how strong the player has become.
			result.Monster = factory.SpawnForLevel(1)
		}
		result.Messages = append(result.Messages, fmt.Sprintf("A %s appears!", result.Monster.Name))
	}

	return result
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
