package gamedata

import "github.com/gdamore/tcell/v2"

// =============================================================================
// MONSTER CATALOG DESIGN
// =============================================================================
//
// Overview:
// ---------
// Monster stats are data-driven: each kind is defined in monsters.json and
// loaded into a registry at game startup. Kind-specific BEHAVIOR (the Slime's
// self-heal) stays in code as a switch on the kind enum in the entity
// package; the catalog only carries numbers and display data.
//
// Core Concepts:
// --------------
//
// 1. MonsterDef - one monster kind: stats, rewards, special-ability numbers,
//    and a glyph/color pair for the arcade renderer.
//
// 2. SpawnTier - a level bracket with an ordered weight table. The factory
//    asks the registry for a random kind appropriate to the player's level;
//    the first tier whose maxLevel covers the level is used (maxLevel 0
//    means no upper bound, i.e. the late-game tier).
//
// 3. Special abilities - each kind gets one:
//    - chance: probability the special fires on a special-path turn
//    - multiplier: damage = attack * multiplier when it fires
//    - heal: self-heal amount instead of bonus damage (Slime only)
//    - text: the announcement appended after the monster's name
//    When the special-path roll misses, the monster deals its flat base
//    attack with no variance. The baseline (non-special) attack is
//    max(1, attack + uniform(-2..3)).
//
// JSON Schema:
// ------------
// {
//   "id": "goblin",
//   "name": "Goblin",
//   "glyph": "g",
//   "color": "#00CC44",
//   "hp": 30,
//   "attack": 5,
//   "coinsReward": 15,
//   "defense": 0,
//   "magicResistance": 0,
//   "speedMin": 6,
//   "speedMax": 10,
//   "specialChance": 0.3,
//   "specialMultiplier": 2,
//   "specialHeal": 0,
//   "specialText": "uses Quick Strike!"
// }
//
// Damage Calculation:
// -------------------
// Player -> monster: damage reduced by defense, minimum 1.
// Monster -> player: unmitigated (the player has no defense stat).
// Speed and magicResistance are rolled/stored per instance but currently
// only surface in saves and stats.
//
// Integration Points:
// -------------------
// 1. entity.Kind enum values mirror the catalog ids
// 2. entity.NewMonsterFromDef builds a combat-ready instance (speed rolled
//    from [speedMin, speedMax] with the threaded rng)
// 3. entity.Factory resolves kind strings and level-tier defaults
// 4. The combat engine only sees the combat.Foe interface
//
// Telemetry:
// ----------
// - combat.start: monster kind, monster hp, player level
// - combat.turn: action, damage, player/monster hp after
// - combat.end: outcome, rounds

// MonsterDef defines a monster kind loaded from JSON.
type MonsterDef struct {
	ID                string  `json:"id"`                // Unique identifier (e.g., "goblin")
	Name              string  `json:"name"`              // Display name (e.g., "Goblin")
	Glyph             string  `json:"glyph"`             // Single character for arcade rendering
	Color             string  `json:"color"`             // Hex color code (e.g., "#00CC44")
	HP                int     `json:"hp"`                // Base hit points
	Attack            int     `json:"attack"`            // Base attack power
	CoinsReward       int     `json:"coinsReward"`       // Coins dropped when defeated
	Defense           int     `json:"defense"`           // Flat damage reduction
	MagicResistance   int     `json:"magicResistance"`   // Stored stat, informational
	SpeedMin          int     `json:"speedMin"`          // Lower bound for per-instance speed roll
	SpeedMax          int     `json:"speedMax"`          // Upper bound for per-instance speed roll
	SpecialChance     float64 `json:"specialChance"`     // Probability the special fires
	SpecialMultiplier int     `json:"specialMultiplier"` // attack * multiplier when it fires
	SpecialHeal       int     `json:"specialHeal"`       // Self-heal amount (0 = damage special)
	SpecialText       string  `json:"specialText"`       // Announcement after the monster's name
}

// GlyphRune returns the glyph as a rune for rendering.
func (m *MonsterDef) GlyphRune() rune {
	if len(m.Glyph) == 0 {
		return '?'
	}
	return rune(m.Glyph[0])
}

// TCellColor returns the glyph color as a tcell.Color.
func (m *MonsterDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(m.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// SpawnWeight pairs a monster id with its relative spawn frequency.
// Order matters: the weighted roll walks entries in file order so that
// identical seeds produce identical picks.
type SpawnWeight struct {
	ID     string `json:"id"`
	Weight int    `json:"weight"`
}

// SpawnTier is a level bracket with its spawn weight table.
type SpawnTier struct {
	MaxLevel int           `json:"maxLevel"` // Inclusive upper bound; 0 = unbounded
	Weights  []SpawnWeight `json:"weights"`
}

// Covers returns true if the tier applies to the given player level.
func (t *SpawnTier) Covers(level int) bool {
	return t.MaxLevel == 0 || level <= t.MaxLevel
}

// TotalWeight returns the sum of the tier's spawn weights.
func (t *SpawnTier) TotalWeight() int {
	total := 0
	for _, w := range t.Weights {
		total += w.Weight
	}
	return total
}

// MonstersFile represents the structure of monsters.json.
type MonstersFile struct {
	Monsters   []MonsterDef `json:"monsters"`
	SpawnTiers []SpawnTier  `json:"spawnTiers"`
}

// LoadMonsters loads the monster catalog from the embedded monsters.json file.
func LoadMonsters() (MonstersFile, error) {
	return Load[MonstersFile]("monsters.json")
}
