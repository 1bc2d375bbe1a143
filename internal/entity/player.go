// Package entity provides game entities: the player and monsters.
package entity

import (
	"fmt"
	"strings"

	"github.com/avenkatesh/labyrinth/internal/combat"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
)

// Coord is a position on the world grid.
type Coord struct {
	X, Y int
}

// Player represents the player character: stats, equipment, inventory,
// position, and the set of grid cells visited so far. Mutation methods
// return announcement lines; callers decide where they go.
type Player struct {
	Name        string
	HP          int
	MaxHP       int
	Coins       int
	Level       int
	Experience  float64
	AttackPower int

	Weapon    string
	Armor     string
	Accessory string

	Inventory []string
	X, Y      int
	Visited   map[Coord]bool

	items *gamedata.ItemRegistry
}

// NewPlayer creates a level 1 player at the village center with starting
// equipment and supplies.
func NewPlayer(name string, items *gamedata.ItemRegistry) *Player {
	return &Player{
		Name:        name,
		HP:          100,
		MaxHP:       100,
		Level:       1,
		AttackPower: 10,
		Weapon:      "Wooden Sword",
		Armor:       "Cloth Shirt",
		Accessory:   "None",
		Inventory:   []string{"Health Potion", "Bread"},
		Visited:     map[Coord]bool{{0, 0}: true},
		items:       items,
	}
}

// Move shifts the player one cell in the named direction (full name or
// single-letter shorthand). It returns false for an unknown direction.
func (p *Player) Move(direction string) (bool, []string) {
	x, y := p.X, p.Y

	switch strings.ToLower(direction) {
	case "north", "n":
		y++
	case "south", "s":
		y--
	case "east", "e":
		x++
	case "west", "w":
		x--
	default:
		return false, []string{"Invalid direction! Use north, south, east, or west."}
	}

	oldX, oldY := p.X, p.Y
	p.X, p.Y = x, y
	p.Visited[Coord{x, y}] = true

	return true, []string{fmt.Sprintf("You moved %s from (%d, %d) to (%d, %d)", direction, oldX, oldY, x, y)}
}

// SetPosition places the player without tracking the cell as visited.
// The maze uses this for free movement; Move is the exploration path.
func (p *Player) SetPosition(x, y int) {
	p.X = x
	p.Y = y
}

// CollectCoins adds coins to the purse and checks the level threshold:
// reaching level * 50 coins triggers a level up.
func (p *Player) CollectCoins(amount int) []string {
	if amount <= 0 {
		return nil
	}
	p.Coins += amount

	events := []string{fmt.Sprintf("You collected %d coins! Total coins: %d", amount, p.Coins)}
	if p.Coins >= p.Level*50 {
		events = append(events, p.levelUp()...)
	}
	return events
}

// levelUp raises the level, grows max health and attack, fully heals,
// and resets experience.
func (p *Player) levelUp() []string {
	p.Level++
	p.MaxHP += 20
	p.HP = p.MaxHP
	p.AttackPower += 5
	p.Experience = 0

	return []string{
		fmt.Sprintf("Level up! You are now level %d!", p.Level),
		fmt.Sprintf("Health: %d, Attack Power: %d", p.HP, p.AttackPower),
	}
}

// GainExperience accrues experience. It is informational: levels come
// from coins, and a level up resets it.
func (p *Player) GainExperience(amount float64) {
	p.Experience += amount
}

// TakeDamage applies unmitigated damage, flooring health at zero.
func (p *Player) TakeDamage(damage int) []string {
	p.HP -= damage
	if p.HP <= 0 {
		p.HP = 0
		return []string{fmt.Sprintf("%s has been defeated!", p.Name)}
	}
	return []string{fmt.Sprintf("You took %d damage. Health: %d/%d", damage, p.HP, p.MaxHP)}
}

// Heal restores health up to the maximum.
func (p *Player) Heal(amount int) []string {
	healed := p.MaxHP - p.HP
	if healed > amount {
		healed = amount
	}
	if healed <= 0 {
		return []string{"You are already at full health!"}
	}
	p.HP += healed
	return []string{fmt.Sprintf("You healed for %d HP. Health: %d/%d", healed, p.HP, p.MaxHP)}
}

// UseItem consumes the named inventory item. Membership is exact
// (case-sensitive); items without a use go back into the inventory.
func (p *Player) UseItem(name string) (combat.ItemUse, []string) {
	idx := -1
	for i, item := range p.Inventory {
		if item == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return combat.ItemMissing, []string{fmt.Sprintf("You don't have %s in your inventory", name)}
	}
	p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)

	def := p.items.GetByName(name)
	if def == nil || !def.Usable() {
		p.Inventory = append(p.Inventory, name)
		return combat.ItemUnusable, []string{fmt.Sprintf("You don't know how to use %s", name)}
	}

	return combat.ItemUsed, p.Heal(def.Heal)
}

// AddItem appends an item to the inventory.
func (p *Player) AddItem(name string) []string {
	p.Inventory = append(p.Inventory, name)
	return []string{fmt.Sprintf("Added %s to inventory", name)}
}

// Stats returns the character sheet block.
func (p *Player) Stats() []string {
	inventory := "Empty"
	if len(p.Inventory) > 0 {
		inventory = strings.Join(p.Inventory, ", ")
	}

	return []string{
		"\n" + strings.Repeat("=", 30),
		fmt.Sprintf("Player: %s", p.Name),
		fmt.Sprintf("Level: %d", p.Level),
		fmt.Sprintf("Health: %d/%d", p.HP, p.MaxHP),
		fmt.Sprintf("Coins: %d", p.Coins),
		fmt.Sprintf("Attack Power: %d", p.AttackPower),
		fmt.Sprintf("Position: (%d, %d)", p.X, p.Y),
		fmt.Sprintf("Weapon: %s", p.Weapon),
		fmt.Sprintf("Armor: %s", p.Armor),
		fmt.Sprintf("Accessory: %s", p.Accessory),
		fmt.Sprintf("Inventory: %s", inventory),
		fmt.Sprintf("Locations visited: %d", len(p.Visited)),
		strings.Repeat("=", 30) + "\n",
	}
}

// =============================================================================
// combat.Hero interface implementation
// =============================================================================

// GetName returns the player's name.
func (p *Player) GetName() string { return p.Name }

// IsAlive returns true if the player has health remaining.
func (p *Player) IsAlive() bool { return p.HP > 0 }

// GetHP returns current health.
func (p *Player) GetHP() int { return p.HP }

// GetAttackPower returns the attack stat.
func (p *Player) GetAttackPower() int { return p.AttackPower }

// Position returns the current grid coordinates.
func (p *Player) Position() (int, int) { return p.X, p.Y }

// Ensure Player implements combat.Hero
var _ combat.Hero = (*Player)(nil)
