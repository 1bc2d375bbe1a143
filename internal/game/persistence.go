package game

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
	"github.com/avenkatesh/labyrinth/internal/persist"
	"github.com/avenkatesh/labyrinth/internal/telemetry"
	"github.com/avenkatesh/labyrinth/internal/world"
)

// playerRecord flattens the live player into its save representation.
// Visited cells are sorted so identical states write identical files.
func playerRecord(p *entity.Player) persist.PlayerRecord {
	visited := make([]entity.Coord, 0, len(p.Visited))
	for c := range p.Visited {
		visited = append(visited, c)
	}
	sort.Slice(visited, func(i, j int) bool {
		if visited[i].X != visited[j].X {
			return visited[i].X < visited[j].X
		}
		return visited[i].Y < visited[j].Y
	})

	return persist.PlayerRecord{
		Name:        p.Name,
		Health:      p.HP,
		MaxHealth:   p.MaxHP,
		Coins:       p.Coins,
		Level:       p.Level,
		Experience:  p.Experience,
		AttackPower: p.AttackPower,
		X:           p.X,
		Y:           p.Y,
		Weapon:      p.Weapon,
		Armor:       p.Armor,
		Accessory:   p.Accessory,
		Inventory:   append([]string(nil), p.Inventory...),
		Visited:     visited,
	}
}

// restorePlayer rebuilds a live player from a save record.
func restorePlayer(rec *persist.PlayerRecord, items *gamedata.ItemRegistry) *entity.Player {
	p := entity.NewPlayer(rec.Name, items)
	p.HP = rec.Health
	p.MaxHP = rec.MaxHealth
	p.Coins = rec.Coins
	p.Level = rec.Level
	p.Experience = rec.Experience
	p.AttackPower = rec.AttackPower
	p.Weapon = rec.Weapon
	p.Armor = rec.Armor
	p.Accessory = rec.Accessory
	p.Inventory = append([]string(nil), rec.Inventory...)
	p.SetPosition(rec.X, rec.Y)

	p.Visited = make(map[entity.Coord]bool, len(rec.Visited))
	for _, c := range rec.Visited {
		p.Visited[c] = true
	}
	return p
}

// locationRecord flattens one grid cell.
func locationRecord(l *world.Location, discovered bool) persist.LocationRecord {
	return persist.LocationRecord{
		X:            l.X,
		Y:            l.Y,
		Name:         l.Name,
		VisitedCount: l.VisitedCount,
		HasCoins:     l.HasCoins,
		CoinAmount:   l.CoinAmount,
		HasMonster:   l.HasMonster,
		MonsterType:  l.MonsterKind,
		IsSafe:       l.IsSafe,
		Description:  l.Description,
		Items:        append([]string(nil), l.Items...),
		Discovered:   discovered,
	}
}

// restoreLocation rebuilds one grid cell from its save row. The zone is
// not stored; Grid.Restore rederives it from the coordinates.
func restoreLocation(rec persist.LocationRecord) *world.Location {
	return &world.Location{
		X:            rec.X,
		Y:            rec.Y,
		Name:         rec.Name,
		VisitedCount: rec.VisitedCount,
		HasCoins:     rec.HasCoins,
		CoinAmount:   rec.CoinAmount,
		HasMonster:   rec.HasMonster,
		MonsterKind:  rec.MonsterType,
		IsSafe:       rec.IsSafe,
		Description:  rec.Description,
		Items:        append([]string(nil), rec.Items...),
	}
}

// statsRecord converts grid statistics to their save representation.
func statsRecord(s world.Stats) persist.WorldStats {
	return persist.WorldStats{
		TotalLocationsCreated:  s.TotalLocationsCreated,
		TotalCoinsGenerated:    s.TotalCoinsGenerated,
		TotalMonstersSpawned:   s.TotalMonstersSpawned,
		TotalItemsPlaced:       s.TotalItemsPlaced,
		LocationsDiscovered:    s.LocationsDiscovered,
		TotalLocations:         s.TotalLocations,
		DiscoveryPercentage:    s.DiscoveryPercentage,
		CurrentMonsters:        s.CurrentMonsters,
		CurrentCoins:           s.CurrentCoins,
		SpecialEventsTriggered: s.SpecialEventsTriggered,
	}
}

// worldRecords flattens the whole grid for saving.
func worldRecords(g *world.Grid) (persist.WorldStats, []persist.LocationRecord) {
	locations := g.All()
	records := make([]persist.LocationRecord, 0, len(locations))
	for _, l := range locations {
		records = append(records, locationRecord(l, g.IsDiscovered(l.X, l.Y)))
	}
	return statsRecord(g.Stats()), records
}

// saveState writes the player and world snapshots under one traced span.
func saveState(ctx context.Context, store persist.Store, p *entity.Player, g *world.Grid) error {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "game.save")
	defer span.End()

	start := time.Now()

	if err := store.SavePlayer(playerRecord(p)); err != nil {
		span.SetAttributes(attribute.Bool("save.success", false))
		return err
	}
	stats, locations := worldRecords(g)
	if err := store.SaveWorld(stats, locations); err != nil {
		span.SetAttributes(attribute.Bool("save.success", false))
		return err
	}

	span.SetAttributes(
		attribute.Bool("save.success", true),
		attribute.Int("save.locations", len(locations)),
		attribute.Int64("save.duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// loadState reads the saved player and world into the grid. Nothing is
// mutated until both reads succeed, so a failed load leaves the running
// game untouched.
func loadState(ctx context.Context, store persist.Store, items *gamedata.ItemRegistry, g *world.Grid) (*entity.Player, error) {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "game.load")
	defer span.End()

	rec, err := store.LoadPlayer()
	if err != nil {
		span.SetAttributes(attribute.Bool("load.success", false))
		return nil, err
	}
	locRecords, err := store.LoadWorld()
	if err != nil {
		span.SetAttributes(attribute.Bool("load.success", false))
		return nil, err
	}

	locations := make([]*world.Location, 0, len(locRecords))
	discovered := make([]entity.Coord, 0, len(locRecords))
	for _, lr := range locRecords {
		locations = append(locations, restoreLocation(lr))
		if lr.Discovered {
			discovered = append(discovered, entity.Coord{X: lr.X, Y: lr.Y})
		}
	}
	g.Restore(locations, discovered)

	p := restorePlayer(rec, items)
	span.SetAttributes(
		attribute.Bool("load.success", true),
		attribute.Int("load.locations", len(locRecords)),
		attribute.String("load.player", p.Name),
	)
	return p, nil
}
