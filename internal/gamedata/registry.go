package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// MonsterRegistry holds loaded monster definitions and spawn tiers.
type MonsterRegistry struct {
	monsters []MonsterDef
	byID     map[string]*MonsterDef
	tiers    []SpawnTier
}

// NewMonsterRegistry creates a registry from a loaded catalog.
// Tier weight tables are validated against the defined kinds so a typo in
// the data fails at startup instead of at spawn time.
func NewMonsterRegistry(file MonstersFile) (*MonsterRegistry, error) {
	if len(file.Monsters) == 0 {
		return nil, errors.New("no monsters defined in monsters.json")
	}
	if len(file.SpawnTiers) == 0 {
		return nil, errors.New("no spawn tiers defined in monsters.json")
	}

	registry := &MonsterRegistry{
		monsters: file.Monsters,
		byID:     make(map[string]*MonsterDef, len(file.Monsters)),
		tiers:    file.SpawnTiers,
	}
	for i := range file.Monsters {
		registry.byID[file.Monsters[i].ID] = &registry.monsters[i]
	}

	for _, tier := range file.SpawnTiers {
		if tier.TotalWeight() <= 0 {
			return nil, fmt.Errorf("spawn tier (maxLevel %d) has no weight", tier.MaxLevel)
		}
		for _, w := range tier.Weights {
			if registry.byID[w.ID] == nil {
				return nil, fmt.Errorf("spawn tier references unknown monster %q", w.ID)
			}
		}
	}

	return registry, nil
}

// LoadMonsterRegistry loads and creates a registry from the embedded monsters.json.
func LoadMonsterRegistry() (*MonsterRegistry, error) {
	file, err := LoadMonsters()
	if err != nil {
		return nil, err
	}
	return NewMonsterRegistry(file)
}

// MustLoadMonsterRegistry loads a registry, panicking on error.
func MustLoadMonsterRegistry() *MonsterRegistry {
	registry, err := LoadMonsterRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the monster definition with the given ID, or nil if not found.
// Lookup is case-insensitive because kind strings arrive from user-facing
// sources (saved files, location records).
func (r *MonsterRegistry) GetByID(id string) *MonsterDef {
	return r.byID[strings.ToLower(id)]
}

// SpawnForLevel selects a random monster definition for the given player
// level using the tier weight tables. Higher weights are more likely.
func (r *MonsterRegistry) SpawnForLevel(rng *rand.Rand, level int) *MonsterDef {
	tier := r.tierFor(level)
	if tier == nil {
		return &r.monsters[0]
	}

	// Pick a random value in the tier's total weight range
	roll := rng.Intn(tier.TotalWeight())

	// Find which entry this roll corresponds to
	cumulative := 0
	for _, w := range tier.Weights {
		cumulative += w.Weight
		if roll < cumulative {
			return r.byID[w.ID]
		}
	}

	// Fallback (shouldn't happen)
	return &r.monsters[0]
}

// tierFor returns the first tier covering the given level.
func (r *MonsterRegistry) tierFor(level int) *SpawnTier {
	for i := range r.tiers {
		if r.tiers[i].Covers(level) {
			return &r.tiers[i]
		}
	}
	return nil
}

// All returns all monster definitions.
func (r *MonsterRegistry) All() []MonsterDef {
	return r.monsters
}

// Count returns the number of monster kinds in the registry.
func (r *MonsterRegistry) Count() int {
	return len(r.monsters)
}

// =============================================================================
// ItemRegistry
// =============================================================================

// ItemRegistry holds loaded item definitions and provides lookup utilities.
type ItemRegistry struct {
	items  []ItemDef
	byName map[string]*ItemDef // keyed by lowercased display name
}

// NewItemRegistry creates a registry from loaded item definitions.
func NewItemRegistry(items []ItemDef) *ItemRegistry {
	registry := &ItemRegistry{
		items:  items,
		byName: make(map[string]*ItemDef, len(items)),
	}
	for i := range items {
		registry.byName[strings.ToLower(items[i].Name)] = &registry.items[i]
	}
	return registry
}

// LoadItemRegistry loads and creates a registry from the embedded items.json.
func LoadItemRegistry() (*ItemRegistry, error) {
	items, err := LoadItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("no items loaded from items.json")
	}
	return NewItemRegistry(items), nil
}

// MustLoadItemRegistry loads a registry, panicking on error.
func MustLoadItemRegistry() *ItemRegistry {
	registry, err := LoadItemRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByName returns the item with the given display name, or nil if not
// found. The lookup ignores case; inventory membership checks do not.
func (r *ItemRegistry) GetByName(name string) *ItemDef {
	return r.byName[strings.ToLower(name)]
}

// Pool returns the items belonging to the named pool, in catalog order.
// Order is contractual: random picks index into this slice, so identical
// seeds must see identical slices.
func (r *ItemRegistry) Pool(pool string) []ItemDef {
	var result []ItemDef
	for _, item := range r.items {
		if item.InPool(pool) {
			result = append(result, item)
		}
	}
	return result
}

// RandomFromPool picks a uniformly random item from the named pool,
// or nil if the pool is empty.
func (r *ItemRegistry) RandomFromPool(rng *rand.Rand, pool string) *ItemDef {
	items := r.Pool(pool)
	if len(items) == 0 {
		return nil
	}
	return &items[rng.Intn(len(items))]
}

// All returns all item definitions.
func (r *ItemRegistry) All() []ItemDef {
	return r.items
}

// Count returns the number of items in the registry.
func (r *ItemRegistry) Count() int {
	return len(r.items)
}
