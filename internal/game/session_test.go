package game

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/avenkatesh/labyrinth/internal/combat"
	"github.com/avenkatesh/labyrinth/internal/config"
	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
	"github.com/avenkatesh/labyrinth/internal/persist"
)

// newTestSession builds a session reading the scripted input and writing
// into the returned buffer. Saves land in a per-test temp directory.
func newTestSession(t *testing.T, seed int64, input string) (*Session, *bytes.Buffer) {
	t.Helper()
	store := persist.NewCSVStore(t.TempDir())
	return newTestSessionWithStore(t, seed, input, store)
}

func newTestSessionWithStore(t *testing.T, seed int64, input string, store persist.Store) (*Session, *bytes.Buffer) {
	t.Helper()
	monsters := gamedata.MustLoadMonsterRegistry()
	items := gamedata.MustLoadItemRegistry()
	rng := rand.New(rand.NewSource(seed))
	factory := entity.NewFactory(monsters, rng)

	var out bytes.Buffer
	s := NewSession(factory, items, store, config.Default(), rng, strings.NewReader(input), &out)
	return s, &out
}

func assertContains(t *testing.T, out *bytes.Buffer, wants ...string) {
	t.Helper()
	text := out.String()
	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Errorf("Output missing %q", want)
		}
	}
}

func TestSessionNewGameAndQuit(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out,
		"Labyrinth v1.0",
		"Welcome, brave adventurer!",
		"Would you like to:",
		"Character Creation",
		"Welcome, Tester! Your adventure begins now...",
		"Village Center at (0, 0)",
		"--- Turn 1 ---",
		"Tester> ",
		"Are you sure you want to quit? (y/n): ",
		"Final Statistics for Tester:",
		"Thanks for playing!",
	)
}

func TestSessionBlankNameDefaultsToHero(t *testing.T) {
	s, out := newTestSession(t, 1, "1\n\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out, "Welcome, Hero! Your adventure begins now...")
}

func TestSessionMenuRetriesInvalidChoice(t *testing.T) {
	s, out := newTestSession(t, 1, "7\nbanana\n1\nTester\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out,
		"Invalid choice! Please enter 1 or 2.",
		"Character Creation",
	)
}

func TestSessionLoadWithoutSavesStartsNewGame(t *testing.T) {
	s, out := newTestSession(t, 1, "2\nTester\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out,
		"Loading saved game...",
		"No saved games found. Starting new game...",
		"Character Creation",
		"Welcome, Tester!",
	)
}

func TestSessionMovementAndLook(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\nnorth\nlook\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out,
		"You moved north from (0, 0) to (0, 1)",
		"Village Outskirts at (0, 1)",
		"Nearby discovered locations:",
		"South: Village Center",
	)
	if s.player.X != 0 || s.player.Y != 1 {
		t.Errorf("Player ended at (%d, %d), want (0, 1)", s.player.X, s.player.Y)
	}
}

func TestSessionDirectionShorthand(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\ne\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out, "You moved e from (0, 0) to (1, 0)")
	if s.player.X != 1 || s.player.Y != 0 {
		t.Errorf("Player ended at (%d, %d), want (1, 0)", s.player.X, s.player.Y)
	}
}

func TestSessionBareMoveNeedsDirection(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\nmove\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out, "Specify a direction: north, south, east, west")
	if s.player.X != 0 || s.player.Y != 0 {
		t.Errorf("Player moved without a direction to (%d, %d)", s.player.X, s.player.Y)
	}
}

func TestSessionUnknownCommand(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\ndance\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out,
		"Unknown command: dance",
		"Type 'help' to see available commands.",
	)
}

func TestSessionHelpListsEveryCommand(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\nhelp\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out, "Available Commands:", "Direction shortcuts: n, s, e, w")
	for _, c := range commands {
		if !strings.Contains(out.String(), c.desc) {
			t.Errorf("Help output missing %q", c.desc)
		}
	}
}

func TestSessionStatsCommand(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\nstats\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out,
		"Player: Tester",
		"Level: 1",
		"Health: 100/100",
		"Attack Power: 10",
		"Weapon: Wooden Sword",
		"Inventory: Health Potion, Bread",
	)
}

func TestSessionInventoryCommand(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\ninventory\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out,
		"Inventory:",
		"  1. Health Potion",
		"  2. Bread",
		"Total items: 2",
	)
}

// The command line is lowercased before dispatch, so "use Health Potion"
// looks for "health potion" and misses the title-case inventory entry.
func TestSessionUseCommandIsCaseSensitiveAfterLowercasing(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\nuse Health Potion\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out,
		"You don't have health potion in your inventory",
		"Cannot use that item.",
	)
	if len(s.player.Inventory) != 2 {
		t.Errorf("Inventory changed: %v", s.player.Inventory)
	}
	if s.itemsUsed != 0 {
		t.Errorf("itemsUsed = %d, want 0", s.itemsUsed)
	}
}

func TestSessionBareUseNeedsItem(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\nuse\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out, "Specify an item to use.")
}

func TestSessionEmptyCommandConsumesTurn(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\n\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The blank line burns turn 1; quit happens on turn 2.
	assertContains(t, out, "--- Turn 1 ---", "--- Turn 2 ---")
	if s.commandsEntered != 1 {
		t.Errorf("commandsEntered = %d, want 1 (blank lines do not count)", s.commandsEntered)
	}
}

func TestSessionEOFEndsGame(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out, "--- Turn 1 ---", "Final Statistics for Tester:")
}

func TestSessionEOFBeforeSetupSkipsCleanup(t *testing.T) {
	s, out := newTestSession(t, 1, "")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out, "Would you like to:")
	if strings.Contains(out.String(), "Final Statistics") {
		t.Error("Cleanup ran although no game was started")
	}
}

func TestSessionQuitDeclined(t *testing.T) {
	s, out := newTestSession(t, 1, "1\nTester\nquit\nn\nquit\ny\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Declining the first quit keeps the loop alive for another turn.
	assertContains(t, out, "--- Turn 2 ---")
}

func TestSessionSaveWritesFilesAndStatistics(t *testing.T) {
	store := persist.NewCSVStore(t.TempDir())
	s, out := newTestSessionWithStore(t, 1, "1\nTester\nnorth\nsave\nquit\ny\n", store)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertContains(t, out, "Saving game...", "Game saved successfully!")

	files := store.SaveFiles()
	if len(files) != 4 {
		t.Fatalf("SaveFiles = %v, want player, statistics, world, and location files", files)
	}

	stats, err := store.LatestStatistics()
	if err != nil {
		t.Fatalf("LatestStatistics failed: %v", err)
	}
	if stats.SessionID == "" {
		t.Error("Statistics row is missing the session id")
	}
	if stats.TurnCount != 2 {
		t.Errorf("TurnCount = %d, want 2 (save happened on the second turn)", stats.TurnCount)
	}
	// The command counter increments after the turn resolves, so the row
	// written mid-turn only counts the move before it.
	if stats.CommandsEntered != 1 {
		t.Errorf("CommandsEntered = %d, want 1", stats.CommandsEntered)
	}
}

func TestSessionLoadRestoresSavedGame(t *testing.T) {
	store := persist.NewCSVStore(t.TempDir())

	first, _ := newTestSessionWithStore(t, 1, "1\nTester\nnorth\nsave\nquit\ny\n", store)
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("First session failed: %v", err)
	}

	second, out := newTestSessionWithStore(t, 2, "2\nquit\ny\n", store)
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("Second session failed: %v", err)
	}

	assertContains(t, out,
		"Loading saved game...",
		"Welcome back, Tester!",
		"Village Outskirts at (0, 1)",
	)
	if second.player.Name != "Tester" {
		t.Errorf("Loaded player name = %q, want Tester", second.player.Name)
	}
	if second.player.X != 0 || second.player.Y != 1 {
		t.Errorf("Loaded position = (%d, %d), want (0, 1)", second.player.X, second.player.Y)
	}
}

// ==== combat driver ====

func testCombatSession(t *testing.T, seed int64, input string) (*Session, *bytes.Buffer, *entity.Monster) {
	t.Helper()
	s, out := newTestSession(t, seed, input)
	s.player = entity.NewPlayer("Tester", s.items)
	foe, ok := s.factory.Spawn("goblin")
	if !ok {
		t.Fatal("Goblin kind missing from the registry")
	}
	return s, out, foe
}

func TestCombatDriverAttackToVictory(t *testing.T) {
	s, out, foe := testCombatSession(t, 3, strings.Repeat("1\n", 8))

	state := s.runCombat(context.Background(), foe)

	if state != combat.StateVictory {
		t.Fatalf("State = %v, want victory", state)
	}
	assertContains(t, out,
		"Combat begins! Tester vs Goblin",
		"Choose your action:",
		"Enter choice (1-3): ",
		"Victory! You defeated the Goblin!",
	)
	if foe.IsAlive() {
		t.Error("Foe should be dead after a victory")
	}
	if s.player.Coins < 15 {
		t.Errorf("Coins = %d, want at least the goblin reward", s.player.Coins)
	}
}

func TestCombatDriverFleesOnEOF(t *testing.T) {
	s, out, foe := testCombatSession(t, 4, "")
	// Flee failures hand the foe free turns; enough health makes the
	// repeated 80% rolls certain to land first.
	s.player.HP = 10000
	s.player.MaxHP = 10000

	state := s.runCombat(context.Background(), foe)

	if state != combat.StateFled {
		t.Fatalf("State = %v, want fled", state)
	}
	assertContains(t, out, "You successfully fled from combat!")
}

func TestCombatDriverEmptyInventoryForfeitsTurn(t *testing.T) {
	s, out, foe := testCombatSession(t, 5, "2\n")
	s.player.Inventory = nil
	s.player.HP = 10000
	s.player.MaxHP = 10000

	state := s.runCombat(context.Background(), foe)

	assertContains(t, out, "Your inventory is empty!")
	if s.player.HP == 10000 {
		t.Error("Forfeit should give the monster a free turn")
	}
	if state == combat.StateActive {
		t.Errorf("State = %v, want a terminal state", state)
	}
}

func TestCombatDriverInvalidChoiceForfeitsTurn(t *testing.T) {
	s, out, foe := testCombatSession(t, 6, "banana\n")
	s.player.HP = 10000
	s.player.MaxHP = 10000

	state := s.runCombat(context.Background(), foe)

	assertContains(t, out, "Invalid choice! You lose your turn.")
	if s.player.HP == 10000 {
		t.Error("Forfeit should give the monster a free turn")
	}
	if state == combat.StateActive {
		t.Errorf("State = %v, want a terminal state", state)
	}
}

// An unusable item wastes the attempt without giving the monster a turn:
// killing a one-hit foe right after proves the player took no damage.
func TestCombatDriverUnusableItemSkipsMonsterTurn(t *testing.T) {
	s, out, foe := testCombatSession(t, 7, "2\nRare Gem\n1\n")
	s.player.Inventory = []string{"Rare Gem"}
	foe.HP = 1

	state := s.runCombat(context.Background(), foe)

	if state != combat.StateVictory {
		t.Fatalf("State = %v, want victory", state)
	}
	assertContains(t, out,
		"Inventory: Rare Gem",
		"Enter item name: ",
		"You don't know how to use Rare Gem",
	)
	if s.player.HP != 100 {
		t.Errorf("Player HP = %d, want 100 (no monster turn should have happened)", s.player.HP)
	}
}

// The combat item prompt reads its own line and keeps the typed case, so
// title-case names work here even though commands are lowercased.
func TestCombatDriverItemPromptKeepsCase(t *testing.T) {
	s, out, foe := testCombatSession(t, 8, "2\nHealth Potion\n"+strings.Repeat("1\n", 8))
	s.player.HP = 60

	state := s.runCombat(context.Background(), foe)

	// The potion resolves before the monster's response, so the heal
	// lands on exactly 60 health.
	assertContains(t, out,
		"Inventory: Health Potion, Bread",
		"You healed for 30 HP. Health: 90/100",
	)
	if strings.Contains(out.String(), "You don't have Health Potion") {
		t.Error("Title-case item name should resolve in combat")
	}
	if state == combat.StateActive {
		t.Errorf("State = %v, want a terminal state", state)
	}
}
