package entity

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/avenkatesh/labyrinth/internal/combat"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
)

// Kind identifies a monster kind. Stats live in the monster catalog; the
// kind drives behavior that data cannot express, like the Slime's
// regeneration.
type Kind int

const (
	KindGoblin Kind = iota
	KindOrc
	KindDragon
	KindSlime
)

// String returns the kind's display name.
func (k Kind) String() string {
	switch k {
	case KindGoblin:
		return "Goblin"
	case KindOrc:
		return "Orc"
	case KindDragon:
		return "Dragon"
	case KindSlime:
		return "Slime"
	default:
		return "Unknown"
	}
}

// ID returns the kind's catalog identifier.
func (k Kind) ID() string {
	switch k {
	case KindGoblin:
		return "goblin"
	case KindOrc:
		return "orc"
	case KindDragon:
		return "dragon"
	case KindSlime:
		return "slime"
	default:
		return "unknown"
	}
}

// ParseKind resolves a kind identifier, ignoring case. Unknown strings
// report false and fall back to the goblin kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "goblin":
		return KindGoblin, true
	case "orc":
		return KindOrc, true
	case "dragon":
		return KindDragon, true
	case "slime":
		return KindSlime, true
	default:
		return KindGoblin, false
	}
}

// Monster is a hostile creature instance built from a catalog definition.
type Monster struct {
	Def    *gamedata.MonsterDef // Catalog definition this instance was built from
	Kind   Kind
	Name   string
	Symbol rune // Display symbol for the maze renderer
	HP     int
	MaxHP  int
	Speed  int // Rolled per instance from the definition's speed range
}

// NewMonsterFromDef creates a combat-ready monster from a catalog
// definition, rolling its speed with the given rng.
func NewMonsterFromDef(def *gamedata.MonsterDef, rng *rand.Rand) *Monster {
	kind, _ := ParseKind(def.ID)

	speed := def.SpeedMin
	if span := def.SpeedMax - def.SpeedMin; span > 0 {
		speed += rng.Intn(span + 1)
	}

	return &Monster{
		Def:    def,
		Kind:   kind,
		Name:   def.Name,
		Symbol: def.GlyphRune(),
		HP:     def.HP,
		MaxHP:  def.HP,
		Speed:  speed,
	}
}

// Color returns the tcell color for this monster's glyph.
func (m *Monster) Color() tcell.Color {
	return m.Def.TCellColor()
}

// =============================================================================
// combat.Foe interface implementation
// =============================================================================

// GetName returns the monster's name.
func (m *Monster) GetName() string { return m.Name }

// IsAlive returns true if the monster has health remaining.
func (m *Monster) IsAlive() bool { return m.HP > 0 }

// GetHP returns current health.
func (m *Monster) GetHP() int { return m.HP }

// GetMaxHP returns maximum health.
func (m *Monster) GetMaxHP() int { return m.MaxHP }

// GetCoinsReward returns the coins dropped on defeat.
func (m *Monster) GetCoinsReward() int { return m.Def.CoinsReward }

// TakeDamage applies damage reduced by defense, always at least 1.
func (m *Monster) TakeDamage(amount int) []string {
	actual := amount - m.Def.Defense
	if actual < 1 {
		actual = 1
	}
	m.HP -= actual
	if m.HP <= 0 {
		m.HP = 0
		return []string{fmt.Sprintf("%s has been defeated!", m.Name)}
	}
	return []string{fmt.Sprintf("%s took %d damage. Health: %d/%d", m.Name, actual, m.HP, m.MaxHP)}
}

// AttackRoll rolls a plain attack: base attack plus a swing in [-2, 3],
// at least 1.
func (m *Monster) AttackRoll(rng *rand.Rand) (int, []string) {
	damage := m.Def.Attack + rng.Intn(6) - 2
	if damage < 1 {
		damage = 1
	}
	return damage, []string{fmt.Sprintf("%s attacks for %d damage!", m.Name, damage)}
}

// SpecialRoll rolls the kind's special ability. When the special misses
// its chance the monster falls back to a silent flat hit. The Slime heals
// itself instead of hitting harder; everything else multiplies its attack.
func (m *Monster) SpecialRoll(rng *rand.Rand) (int, []string) {
	if m.Kind == KindSlime {
		if rng.Float64() < m.Def.SpecialChance && m.HP < m.MaxHP {
			m.HP += m.Def.SpecialHeal
			if m.HP > m.MaxHP {
				m.HP = m.MaxHP
			}
			return m.Def.Attack, []string{fmt.Sprintf("%s regenerates %d health!", m.Name, m.Def.SpecialHeal)}
		}
		return m.Def.Attack, nil
	}

	if rng.Float64() < m.Def.SpecialChance {
		return m.Def.Attack * m.Def.SpecialMultiplier, []string{m.Name + " " + m.Def.SpecialText}
	}
	return m.Def.Attack, nil
}

// Ensure Monster implements combat.Foe
var _ combat.Foe = (*Monster)(nil)
