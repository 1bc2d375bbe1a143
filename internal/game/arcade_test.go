package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
	"github.com/avenkatesh/labyrinth/internal/persist"
	"github.com/avenkatesh/labyrinth/internal/world"
)

// newTestArcade builds an arcade on the given maze pattern without a
// terminal. Tests drive the internal handlers directly, so nothing here
// ever renders. A nil pattern yields an open field with no walls.
func newTestArcade(t *testing.T, seed int64, pattern []string) *Arcade {
	t.Helper()
	ctx := context.Background()
	monsters := gamedata.MustLoadMonsterRegistry()
	items := gamedata.MustLoadItemRegistry()
	rng := rand.New(rand.NewSource(seed))
	factory := entity.NewFactory(monsters, rng)

	return &Arcade{
		monsters: monsters,
		factory:  factory,
		items:    items,
		store:    persist.NewCSVStore(t.TempDir()),
		rng:      rng,
		maze:     world.NewMaze(ctx, pattern, rng),
		grid:     world.NewGrid(ctx, factory, items, rng),
		player:   entity.NewPlayer("Hero", items),
		mode:     ModePlaying,
		visited:  make(map[entity.Coord]bool),
		running:  true,
	}
}

// boxedSpawnPattern walls in the spawn cell on all four sides. Pattern
// row 0, column 0 anchors at (-16, -9), so (0, 0) sits at row 9, column
// 16.
func boxedSpawnPattern() []string {
	rows := make([]string, 11)
	rows[8] = strings.Repeat(" ", 16) + "#"
	rows[9] = strings.Repeat(" ", 15) + "# #"
	rows[10] = strings.Repeat(" ", 16) + "#"
	return rows
}

func arcadeHasMessage(a *Arcade, want string) bool {
	for _, m := range a.messages {
		if strings.Contains(m, want) {
			return true
		}
	}
	return false
}

func TestArcadeMessageLogCapped(t *testing.T) {
	a := newTestArcade(t, 1, nil)

	for i := 0; i < 30; i++ {
		a.addMessage(fmt.Sprintf("line %d", i))
	}

	if len(a.messages) != maxMessages {
		t.Fatalf("log holds %d messages, want %d", len(a.messages), maxMessages)
	}
	if a.messages[0] != "line 10" {
		t.Errorf("oldest kept message = %q, want %q", a.messages[0], "line 10")
	}
	if last := a.messages[len(a.messages)-1]; last != "line 29" {
		t.Errorf("newest message = %q, want %q", last, "line 29")
	}
}

func TestArcadeMoveBlockedByWall(t *testing.T) {
	a := newTestArcade(t, 2, boxedSpawnPattern())

	a.tryMove(context.Background(), 1, 0)

	if x, y := a.player.Position(); x != 0 || y != 0 {
		t.Errorf("player moved through a wall to (%d, %d)", x, y)
	}
	if len(a.visited) != 0 {
		t.Errorf("blocked move visited %d cells", len(a.visited))
	}
	if a.mode != ModePlaying {
		t.Errorf("mode = %v after blocked move, want playing", a.mode)
	}
}

func TestArcadeMoveVisitsOncePerRun(t *testing.T) {
	ctx := context.Background()
	a := newTestArcade(t, 3, nil)

	a.tryMove(ctx, 1, 0)

	if x, y := a.player.Position(); x != 1 || y != 0 {
		t.Fatalf("player at (%d, %d), want (1, 0)", x, y)
	}
	if !a.visited[entity.Coord{X: 1, Y: 0}] {
		t.Error("cell (1, 0) not marked visited")
	}
	if a.mode != ModePlaying {
		t.Fatalf("mode = %v, want playing", a.mode)
	}

	// Leaving and re-entering must not visit the world cell again.
	count := a.grid.Get(1, 0).VisitedCount
	a.tryMove(ctx, -1, 0)
	a.tryMove(ctx, 1, 0)
	if got := a.grid.Get(1, 0).VisitedCount; got != count {
		t.Errorf("VisitedCount grew from %d to %d on re-entry", count, got)
	}
}

func TestArcadeCombatAttackKill(t *testing.T) {
	a := newTestArcade(t, 4, nil)
	foe, ok := a.factory.Spawn("goblin")
	if !ok {
		t.Fatal("goblin missing from catalog")
	}
	foe.HP = 1
	a.foe = foe
	a.mode = ModeCombat

	a.combatAttack(context.Background())

	if a.maze.MonstersDefeated() != 1 {
		t.Errorf("MonstersDefeated = %d, want 1", a.maze.MonstersDefeated())
	}
	if a.player.Coins != 15 {
		t.Errorf("Coins = %d, want the goblin reward 15", a.player.Coins)
	}
	if a.mode != ModePlaying {
		t.Errorf("mode = %v after kill, want playing", a.mode)
	}
	if a.foe != nil {
		t.Error("foe not cleared after kill")
	}
	if !arcadeHasMessage(a, "Goblin has been defeated!") {
		t.Errorf("missing defeat message in %v", a.messages)
	}
	if !arcadeHasMessage(a, "Monsters defeated: 1/") {
		t.Errorf("missing progress message in %v", a.messages)
	}
}

func TestArcadeCombatAttackCounterattack(t *testing.T) {
	a := newTestArcade(t, 5, nil)
	foe, ok := a.factory.Spawn("dragon")
	if !ok {
		t.Fatal("dragon missing from catalog")
	}
	a.foe = foe
	a.mode = ModeCombat

	a.combatAttack(context.Background())

	// A level-1 strike cannot fell a dragon, so the exchange continues.
	if a.mode != ModeCombat {
		t.Errorf("mode = %v, want combat to continue", a.mode)
	}
	if a.foe == nil {
		t.Fatal("foe cleared while still alive")
	}
	if a.foe.HP >= a.foe.MaxHP {
		t.Errorf("foe HP = %d, strike did not land", a.foe.HP)
	}
	if a.player.HP >= a.player.MaxHP {
		t.Errorf("player HP = %d, counterattack did not land", a.player.HP)
	}
}

func TestArcadeCombatDefeatEndsRun(t *testing.T) {
	a := newTestArcade(t, 6, nil)
	foe, ok := a.factory.Spawn("dragon")
	if !ok {
		t.Fatal("dragon missing from catalog")
	}
	a.foe = foe
	a.mode = ModeCombat
	a.player.HP = 1

	a.combatAttack(context.Background())

	if a.player.IsAlive() {
		t.Fatalf("player survived with HP %d", a.player.HP)
	}
	if a.mode != ModeGameOver {
		t.Errorf("mode = %v, want game over", a.mode)
	}
}

func TestArcadeCombatUseItemHeals(t *testing.T) {
	a := newTestArcade(t, 7, nil)
	a.player.HP = 50

	a.combatUseItem()

	if a.player.HP != 80 {
		t.Errorf("HP = %d after potion, want 80", a.player.HP)
	}
	if !arcadeHasMessage(a, "Used Health Potion in combat!") {
		t.Errorf("missing use message in %v", a.messages)
	}
	for _, item := range a.player.Inventory {
		if item == "Health Potion" {
			t.Errorf("potion not consumed: %v", a.player.Inventory)
		}
	}
}

func TestArcadeCombatUseItemEmptyInventory(t *testing.T) {
	a := newTestArcade(t, 8, nil)
	a.player.Inventory = nil

	a.combatUseItem()

	if !arcadeHasMessage(a, "No items in inventory!") {
		t.Errorf("missing empty-inventory message in %v", a.messages)
	}
}

func TestArcadeCombatUseItemNothingUsable(t *testing.T) {
	a := newTestArcade(t, 9, nil)
	a.player.Inventory = []string{"Rare Gem", "Magic Sword"}

	a.combatUseItem()

	if !arcadeHasMessage(a, "No usable items in inventory!") {
		t.Errorf("missing no-usable message in %v", a.messages)
	}
	if len(a.player.Inventory) != 2 {
		t.Errorf("inventory changed: %v", a.player.Inventory)
	}
}

func TestArcadeCombatUseItemSkipsUnusableBread(t *testing.T) {
	a := newTestArcade(t, 10, nil)
	a.player.HP = 50
	a.player.Inventory = []string{"Magic Bread", "Bread"}

	a.combatUseItem()

	// Magic Bread matches the name filter but cannot be consumed; the
	// scan falls through to plain Bread.
	if a.player.HP != 60 {
		t.Errorf("HP = %d, want 60 from Bread", a.player.HP)
	}
	if !arcadeHasMessage(a, "Used Bread in combat!") {
		t.Errorf("missing use message in %v", a.messages)
	}
}

func TestArcadeExitLockedUntilMonstersCleared(t *testing.T) {
	a := newTestArcade(t, 11, nil)
	exit := a.maze.Exit()

	a.checkExit(exit.X, exit.Y)

	if a.mode != ModePlaying {
		t.Fatalf("mode = %v at locked exit, want playing", a.mode)
	}
	if !arcadeHasMessage(a, "Exit locked! Defeat") {
		t.Errorf("missing locked message in %v", a.messages)
	}

	for i := 0; i < a.maze.TotalMonsters(); i++ {
		a.maze.RecordDefeat()
	}
	a.checkExit(exit.X, exit.Y)

	if a.mode != ModeVictory {
		t.Errorf("mode = %v at unlocked exit, want victory", a.mode)
	}
	if !arcadeHasMessage(a, "You found the exit! Congratulations!") {
		t.Errorf("missing victory message in %v", a.messages)
	}
}

func TestArcadeEscapeLeavesExitLocked(t *testing.T) {
	a := newTestArcade(t, 12, nil)
	foe, ok := a.factory.Spawn("orc")
	if !ok {
		t.Fatal("orc missing from catalog")
	}
	a.foe = foe
	a.mode = ModeCombat

	// Escape mirrors the ESC key's combat branch.
	a.endCombat(context.Background(), "escaped")
	a.foe = nil
	a.mode = ModePlaying

	if a.maze.MonstersDefeated() != 0 {
		t.Errorf("escape counted as a defeat: %d", a.maze.MonstersDefeated())
	}
	if a.maze.ExitUnlocked() {
		t.Error("exit unlocked after an escape")
	}
}

func TestArcadeRestartResetsRun(t *testing.T) {
	a := newTestArcade(t, 13, nil)
	a.player.Coins = 500
	a.player.HP = 0
	a.mode = ModeGameOver
	a.addMessage("old line")

	a.restart(context.Background())

	if a.mode != ModePlaying {
		t.Errorf("mode = %v after restart, want playing", a.mode)
	}
	if a.player.Name != "Hero" {
		t.Errorf("restart renamed the hero to %q", a.player.Name)
	}
	if a.player.HP != a.player.MaxHP {
		t.Errorf("HP = %d after restart, want full", a.player.HP)
	}
	if a.player.Coins != 0 {
		t.Errorf("Coins = %d after restart, want 0", a.player.Coins)
	}
	if arcadeHasMessage(a, "old line") {
		t.Error("old messages survived the restart")
	}
	if !arcadeHasMessage(a, "Welcome to the adventure, Hero!") {
		t.Errorf("missing welcome message in %v", a.messages)
	}
}

func TestArcadeUseItemByIndex(t *testing.T) {
	a := newTestArcade(t, 14, nil)
	a.player.HP = 40

	a.useItemAt(0)

	if a.player.HP != 70 {
		t.Errorf("HP = %d after potion, want 70", a.player.HP)
	}
	if !arcadeHasMessage(a, "Used Health Potion") {
		t.Errorf("missing use message in %v", a.messages)
	}

	a.useItemAt(9)
	if !arcadeHasMessage(a, "Invalid item number") {
		t.Errorf("missing bounds message in %v", a.messages)
	}
}
