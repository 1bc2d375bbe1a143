package gamedata

// Item pool names. Pools control where an item can turn up: scattered in
// normal locations, dropped after combat, or granted by random events.
const (
	PoolExploration = "exploration"
	PoolCombat      = "combat"
	PoolEvent       = "event"
)

// ItemDef defines an item loaded from JSON.
// An item with heal 0 sits in the inventory but cannot be consumed.
type ItemDef struct {
	ID    string   `json:"id"`    // Unique identifier (e.g., "health_potion")
	Name  string   `json:"name"`  // Display name, also the inventory key (e.g., "Health Potion")
	Heal  int      `json:"heal"`  // HP restored on use; 0 = not usable
	Pools []string `json:"pools"` // Pools this item can appear in
}

// Usable returns true if consuming the item has an effect.
func (i *ItemDef) Usable() bool {
	return i.Heal > 0
}

// InPool returns true if the item belongs to the named pool.
func (i *ItemDef) InPool(pool string) bool {
	for _, p := range i.Pools {
		if p == pool {
			return true
		}
	}
	return false
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []ItemDef `json:"items"`
}

// LoadItems loads item definitions from the embedded items.json file.
func LoadItems() ([]ItemDef, error) {
	file, err := Load[ItemsFile]("items.json")
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}
