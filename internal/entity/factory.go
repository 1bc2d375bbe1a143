package entity

import (
	"math/rand"

	"github.com/avenkatesh/labyrinth/internal/gamedata"
)

// Factory spawns monsters from the catalog with a shared rng, so a
// seeded run reproduces the same creatures.
type Factory struct {
	registry *gamedata.MonsterRegistry
	rng      *rand.Rand
}

// NewFactory creates a monster factory.
func NewFactory(registry *gamedata.MonsterRegistry, rng *rand.Rand) *Factory {
	return &Factory{
		registry: registry,
		rng:      rng,
	}
}

// Spawn creates a monster of the named kind, ignoring case. Unknown
// kinds report false and produce a goblin.
func (f *Factory) Spawn(kind string) (*Monster, bool) {
	def := f.registry.GetByID(kind)
	known := def != nil
	if !known {
		def = f.registry.GetByID(KindGoblin.ID())
		if def == nil {
			all := f.registry.All()
			def = &all[0]
		}
	}
	return NewMonsterFromDef(def, f.rng), known
}

// SpawnForLevel creates a random monster appropriate to the player's
// level using the catalog's spawn tiers.
func (f *Factory) SpawnForLevel(level int) *Monster {
	return NewMonsterFromDef(f.registry.SpawnForLevel(f.rng, level), f.rng)
}
