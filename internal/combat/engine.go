// Package combat provides the turn-based combat engine for Labyrinth.
package combat

import (
	"fmt"
	"math/rand"

	"github.com/avenkatesh/labyrinth/internal/gamedata"
)

// State is the lifecycle of an encounter.
type State int

const (
	StateActive State = iota
	StateVictory
	StateDefeat
	StateFled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	case StateFled:
		return "fled"
	default:
		return "unknown"
	}
}

// ItemUse is the outcome of an inventory action during combat.
type ItemUse int

const (
	// ItemUsed means the item was consumed. The monster gets its turn.
	ItemUsed ItemUse = iota
	// ItemUnusable means the item exists but has no effect. It goes back
	// to the inventory and the monster's turn is skipped.
	ItemUnusable
	// ItemMissing means the named item is not in the inventory. The
	// monster's turn is skipped.
	ItemMissing
)

// Hero is the player side of an encounter. Mutation methods return the
// announcement lines for whatever happened so the engine can sequence
// them into the round transcript.
type Hero interface {
	GetName() string
	IsAlive() bool
	GetHP() int
	GetAttackPower() int
	Position() (int, int)

	TakeDamage(amount int) []string
	CollectCoins(amount int) []string
	GainExperience(amount float64)
	AddItem(name string) []string
	UseItem(name string) (ItemUse, []string)
}

// Foe is the monster side of an encounter. Attack and special rolls take
// the encounter's rng so identical seeds replay identical fights.
type Foe interface {
	GetName() string
	IsAlive() bool
	GetHP() int
	GetMaxHP() int
	GetCoinsReward() int

	TakeDamage(amount int) []string
	AttackRoll(rng *rand.Rand) (int, []string)
	SpecialRoll(rng *rand.Rand) (int, []string)
}

// Round is the outcome of one player action: everything that happened, in
// order, and the encounter state afterwards. Lines prefixed with a newline
// mark paragraph breaks in the transcript.
type Round struct {
	Events []string
	State  State
}

// Engine resolves one encounter between a hero and a foe. It owns the
// round sequencing; the caller owns prompting and printing.
type Engine struct {
	hero   Hero
	foe    Foe
	items  *gamedata.ItemRegistry
	rng    *rand.Rand
	state  State
	rounds int
}

// NewEngine creates an encounter in the active state.
func NewEngine(hero Hero, foe Foe, items *gamedata.ItemRegistry, rng *rand.Rand) *Engine {
	return &Engine{
		hero:  hero,
		foe:   foe,
		items: items,
		rng:   rng,
		state: StateActive,
	}
}

// State returns the current encounter state.
func (e *Engine) State() State {
	return e.state
}

// Rounds returns how many player actions have been resolved.
func (e *Engine) Rounds() int {
	return e.rounds
}

// Opening returns the encounter announcement lines.
func (e *Engine) Opening() []string {
	return []string{
		fmt.Sprintf("\nCombat begins! %s vs %s", e.hero.GetName(), e.foe.GetName()),
		fmt.Sprintf("Monster Health: %d", e.foe.GetHP()),
		fmt.Sprintf("Your Health: %d", e.hero.GetHP()),
	}
}

// Attack resolves an attack action: the hero strikes, then the foe
// responds if it survives. Hero damage is attack power plus a roll in
// [-2, 3], unmitigated here; the foe applies its own defense.
func (e *Engine) Attack() Round {
	if e.state != StateActive {
		return Round{State: e.state}
	}
	e.rounds++

	damage := e.hero.GetAttackPower() + e.rng.Intn(6) - 2
	events := []string{fmt.Sprintf("You attack %s for %d damage!", e.foe.GetName(), damage)}
	events = append(events, e.foe.TakeDamage(damage)...)

	if !e.foe.IsAlive() {
		events = append(events, e.victory()...)
		return Round{Events: events, State: e.state}
	}

	events = append(events, e.foeTurn()...)
	return Round{Events: events, State: e.state}
}

// UseItem resolves an inventory action. A consumed item costs the turn
// and the foe responds; a missing or unusable item wastes the attempt
// without giving the foe a turn.
func (e *Engine) UseItem(name string) Round {
	if e.state != StateActive {
		return Round{State: e.state}
	}
	e.rounds++

	use, events := e.hero.UseItem(name)
	if use != ItemUsed {
		return Round{Events: events, State: e.state}
	}

	events = append(events, e.foeTurn()...)
	return Round{Events: events, State: e.state}
}

// Flee resolves an escape attempt: 80% from the village center, 50%
// anywhere else. Failure hands the foe its turn.
func (e *Engine) Flee() Round {
	if e.state != StateActive {
		return Round{State: e.state}
	}
	e.rounds++

	chance := 0.5
	if x, y := e.hero.Position(); x == 0 && y == 0 {
		chance = 0.8
	}

	if e.rng.Float64() < chance {
		e.state = StateFled
		return Round{
			Events: []string{"You successfully fled from combat!"},
			State:  e.state,
		}
	}

	events := []string{"You failed to escape!"}
	events = append(events, e.foeTurn()...)
	return Round{Events: events, State: e.state}
}

// Forfeit resolves a wasted turn: the foe acts, the hero does not. Used
// when the player picks an invalid action or opens an empty inventory.
func (e *Engine) Forfeit() Round {
	if e.state != StateActive {
		return Round{State: e.state}
	}
	e.rounds++

	return Round{Events: e.foeTurn(), State: e.state}
}

// foeTurn runs the monster's response: a coin flip between its special
// ability and a plain attack, then the damage lands on the hero.
func (e *Engine) foeTurn() []string {
	var damage int
	var events []string

	if e.rng.Float64() < 0.5 {
		damage, events = e.foe.SpecialRoll(e.rng)
	} else {
		damage, events = e.foe.AttackRoll(e.rng)
	}

	events = append(events, e.hero.TakeDamage(damage)...)

	if !e.hero.IsAlive() {
		e.state = StateDefeat
		events = append(events, fmt.Sprintf("\nDefeat! You were slain by the %s...", e.foe.GetName()))
	}
	return events
}

// victory pays out the kill: coins (which may level the hero up),
// experience worth half the foe's max health, and a 30% chance at a
// drop from the combat item pool.
func (e *Engine) victory() []string {
	e.state = StateVictory

	events := []string{fmt.Sprintf("\nVictory! You defeated the %s!", e.foe.GetName())}
	events = append(events, e.hero.CollectCoins(e.foe.GetCoinsReward())...)
	e.hero.GainExperience(float64(e.foe.GetMaxHP()) * 0.5)

	if e.rng.Float64() < 0.3 {
		if drop := e.items.RandomFromPool(e.rng, gamedata.PoolCombat); drop != nil {
			events = append(events, e.hero.AddItem(drop.Name)...)
			events = append(events, fmt.Sprintf("You found a %s!", drop.Name))
		}
	}
	return events
}
