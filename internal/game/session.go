package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/avenkatesh/labyrinth/internal/combat"
	"github.com/avenkatesh/labyrinth/internal/config"
	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
	"github.com/avenkatesh/labyrinth/internal/persist"
	"github.com/avenkatesh/labyrinth/internal/telemetry"
	"github.com/avenkatesh/labyrinth/internal/world"
)

const (
	gameTitle   = "Labyrinth"
	gameVersion = "1.0"
)

// command is one entry of the help listing.
type command struct {
	name string
	desc string
}

var commands = []command{
	{"move", "Move in a direction (north, south, east, west)"},
	{"look", "Look around your current location"},
	{"stats", "Show your character statistics"},
	{"inventory", "Show your inventory"},
	{"map", "Display the world map"},
	{"use", "Use an item from your inventory"},
	{"save", "Save your game progress"},
	{"load", "Load saved game progress"},
	{"help", "Show this help menu"},
	{"quit", "Exit the game"},
}

var directions = []string{"north", "south", "east", "west", "n", "s", "e", "w"}

func isDirection(word string) bool {
	for _, d := range directions {
		if word == d {
			return true
		}
	}
	return false
}

// Session runs the interactive text game: one player, one lazily
// generated world, and a turn-based command loop over line I/O.
type Session struct {
	id      string
	factory *entity.Factory
	items   *gamedata.ItemRegistry
	store   persist.Store
	cfg     *config.Config
	rng     *rand.Rand

	in  *bufio.Scanner
	out io.Writer

	player *entity.Player
	grid   *world.Grid

	running bool

	// Reset on death-restart.
	turnCount        int
	monstersDefeated int
	coinsCollected   int
	locationsVisited int
	avgCoinsPerTurn  float64

	// Survive death-restart; written to the statistics history on save.
	commandsEntered int
	battlesWon      int
	battlesLost     int
	itemsUsed       int
}

// NewSession wires a session from its dependencies. The world and the
// player are created in Run, once the start menu has decided between a
// new game and a load.
func NewSession(factory *entity.Factory, items *gamedata.ItemRegistry, store persist.Store, cfg *config.Config, rng *rand.Rand, in io.Reader, out io.Writer) *Session {
	return &Session{
		id:      uuid.NewString(),
		factory: factory,
		items:   items,
		store:   store,
		cfg:     cfg,
		rng:     rng,
		in:      bufio.NewScanner(in),
		out:     out,
		running: true,
	}
}

// Run drives the session from the welcome banner to cleanup. It returns
// when the player quits, dies without restarting, or input ends.
func (s *Session) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("session")
	ctx, span := tracer.Start(ctx, "session.run")
	span.SetAttributes(attribute.String("session.id", s.id))
	defer span.End()

	s.grid = world.NewGrid(ctx, s.factory, s.items, s.rng)

	s.showWelcome()
	if !s.setup(ctx) {
		// Input ended before a game began; nothing to clean up.
		return nil
	}

	s.mainLoop(ctx)
	s.cleanup(ctx)

	span.SetAttributes(
		attribute.Int("session.turns", s.turnCount),
		attribute.Int("session.commands", s.commandsEntered),
		attribute.Int("session.battles_won", s.battlesWon),
		attribute.Int("session.battles_lost", s.battlesLost),
	)
	return nil
}

func (s *Session) showWelcome() {
	banner := strings.Repeat("=", 50)
	s.println(banner)
	s.printf("  %s v%s\n", gameTitle, gameVersion)
	s.println(banner)
	s.println("Welcome, brave adventurer!")
	s.println("Explore the world, collect coins, and defeat monsters!")
	s.println("\nType 'help' at any time to see available commands.")
	s.println(banner + "\n")
}

// setup runs the start menu. It returns false when input ends before a
// game begins.
func (s *Session) setup(ctx context.Context) bool {
	s.println("Would you like to:")
	s.println("1. Start a new game")
	s.println("2. Load saved game")

	for {
		choice, ok := s.prompt("\nEnter your choice (1-2): ")
		if !ok {
			return false
		}
		switch choice {
		case "1":
			return s.createCharacter()
		case "2":
			return s.loadExisting(ctx)
		default:
			s.println("Invalid choice! Please enter 1 or 2.")
		}
	}
}

func (s *Session) createCharacter() bool {
	s.println("\nCharacter Creation")

	name, ok := s.prompt("Enter your hero's name (or press Enter for 'Hero'): ")
	if !ok {
		return false
	}
	if name == "" {
		name = "Hero"
	}

	s.player = entity.NewPlayer(name, s.items)
	s.printf("\nWelcome, %s! Your adventure begins now...\n", name)
	s.lookAround()
	return true
}

// loadExisting restores a saved game, falling back to character
// creation when there is nothing to load.
func (s *Session) loadExisting(ctx context.Context) bool {
	s.println("\nLoading saved game...")

	if len(s.store.SaveFiles()) == 0 {
		s.println("No saved games found. Starting new game...")
		return s.createCharacter()
	}

	player, err := loadState(ctx, s.store, s.items, s.grid)
	if err != nil {
		s.println("Failed to load save data. Starting new game...")
		return s.createCharacter()
	}

	s.player = player
	s.printf("Welcome back, %s!\n", player.Name)
	s.lookAround()
	return true
}

func (s *Session) mainLoop(ctx context.Context) {
	tracer := telemetry.Tracer("session")

	for s.running && s.player.IsAlive() {
		s.turnCount++
		s.avgCoinsPerTurn = float64(s.coinsCollected) / float64(s.turnCount)

		s.printf("\n--- Turn %d ---\n", s.turnCount)
		line, ok := s.prompt(s.player.Name + "> ")
		if !ok {
			s.running = false
			break
		}
		cmd := strings.ToLower(line)
		if cmd == "" {
			continue
		}

		turnCtx, turnSpan := tracer.Start(ctx, "session.turn")
		turnSpan.SetAttributes(
			attribute.Int("turn", s.turnCount),
			attribute.String("command", cmd),
		)
		s.processCommand(turnCtx, cmd)
		turnSpan.End()

		if s.cfg.AutoSave && s.turnCount%10 == 0 {
			s.autoSave(ctx)
		}

		if s.rng.Float64() < 0.1 {
			s.handleRandomEvent()
		}

		s.commandsEntered++
	}
}

// processCommand dispatches one lowercased command line. Note that the
// lowercasing makes "use" fail against title-case item names; combat
// item prompts read their own line and keep its case.
func (s *Session) processCommand(ctx context.Context, line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	cmd, args := parts[0], parts[1:]

	switch {
	case cmd == "move" || cmd == "go" || cmd == "m" || isDirection(cmd):
		var direction string
		switch {
		case isDirection(cmd):
			direction = cmd
		case len(args) > 0 && isDirection(args[0]):
			direction = args[0]
		default:
			s.println("Specify a direction: north, south, east, west")
			return
		}
		s.handleMovement(ctx, direction)

	case cmd == "look" || cmd == "l" || cmd == "examine":
		s.lookAround()

	case cmd == "stats" || cmd == "status" || cmd == "character":
		s.printLines(s.player.Stats())

	case cmd == "inventory" || cmd == "inv" || cmd == "i":
		s.showInventory()

	case cmd == "map" || cmd == "worldmap":
		s.showWorldMap()

	case cmd == "use" || cmd == "consume":
		if len(args) == 0 {
			s.println("Specify an item to use.")
			return
		}
		s.useItem(strings.Join(args, " "))

	case cmd == "help" || cmd == "h" || cmd == "?":
		s.showHelp()

	case cmd == "save":
		s.saveGame(ctx)

	case cmd == "load":
		s.loadGame(ctx)

	case cmd == "quit" || cmd == "exit" || cmd == "q":
		if s.confirmQuit() {
			s.running = false
		}

	default:
		s.printf("Unknown command: %s\n", line)
		s.println("Type 'help' to see available commands.")
	}
}

// handleMovement moves the player, discovers the new neighborhood, and
// visits the destination cell.
func (s *Session) handleMovement(ctx context.Context, direction string) {
	moved, events := s.player.Move(direction)
	s.printLines(events)
	if !moved {
		return
	}
	s.locationsVisited++

	for _, c := range s.grid.Surrounding(s.player.X, s.player.Y, 1) {
		if loc, newly := s.grid.Discover(c.X, c.Y); newly {
			s.printf("Discovered: %s\n", loc.Name)
		}
	}

	s.processVisit(ctx, s.grid.Visit(s.player.X, s.player.Y))
}

func (s *Session) processVisit(ctx context.Context, result *world.VisitResult) {
	s.printLines(result.Messages)

	if result.CoinsFound > 0 {
		s.printLines(s.player.CollectCoins(result.CoinsFound))
		s.coinsCollected += result.CoinsFound
	}
	for _, item := range result.ItemsFound {
		s.printLines(s.player.AddItem(item))
	}

	if result.Monster == nil {
		return
	}
	s.printf("\nA wild %s appears!\n", result.Monster.Name)

	switch s.runCombat(ctx, result.Monster) {
	case combat.StateVictory:
		s.monstersDefeated++
		s.battlesWon++
	case combat.StateDefeat:
		s.battlesLost++
		s.handleDeath(ctx)
	}
}

func (s *Session) handleDeath(ctx context.Context) {
	s.println("\nGAME OVER")
	s.printf("You survived %d turns and collected %d coins.\n", s.turnCount, s.coinsCollected)
	s.printf("You defeated %d monsters.\n", s.monstersDefeated)

	choice, ok := s.prompt("\nDo you want to start over? (y/n): ")
	if !ok {
		choice = "n"
	}
	if choice = strings.ToLower(choice); choice == "y" || choice == "yes" {
		s.restart(ctx)
	} else {
		s.running = false
	}
}

// restart revives the player under the same name in a fresh world. Turn
// counters reset; the session statistics keep accumulating.
func (s *Session) restart(ctx context.Context) {
	s.player = entity.NewPlayer(s.player.Name, s.items)
	s.grid = world.NewGrid(ctx, s.factory, s.items, s.rng)

	s.turnCount = 0
	s.monstersDefeated = 0
	s.coinsCollected = 0
	s.locationsVisited = 0

	s.printf("\n%s has been revived! The adventure continues...\n", s.player.Name)
	s.lookAround()
}

func (s *Session) lookAround() {
	x, y := s.player.X, s.player.Y
	s.println("")
	s.printLines(s.grid.LocationInfo(x, y))

	var discovered []entity.Coord
	for _, c := range s.grid.Surrounding(x, y, 1) {
		if s.grid.IsDiscovered(c.X, c.Y) {
			discovered = append(discovered, c)
		}
	}
	if len(discovered) == 0 {
		return
	}

	s.println("\nNearby discovered locations:")
	for _, c := range discovered {
		loc := s.grid.GetOrCreate(c.X, c.Y)
		s.printf("  %s: %s\n", directionTo(x, y, c.X, c.Y), loc.Name)
	}
}

// directionTo names the compass direction from one cell to another.
// East/west wins on diagonals.
func directionTo(fromX, fromY, toX, toY int) string {
	dx, dy := toX-fromX, toY-fromY
	switch {
	case dx > 0:
		return "East"
	case dx < 0:
		return "West"
	case dy > 0:
		return "North"
	case dy < 0:
		return "South"
	default:
		return "Here"
	}
}

func (s *Session) showInventory() {
	if len(s.player.Inventory) == 0 {
		s.println("Your inventory is empty.")
		return
	}
	s.println("\nInventory:")
	for i, item := range s.player.Inventory {
		s.printf("  %d. %s\n", i+1, item)
	}
	s.printf("Total items: %d\n", len(s.player.Inventory))
}

func (s *Session) useItem(name string) {
	use, events := s.player.UseItem(name)
	s.printLines(events)
	if use == combat.ItemUsed {
		s.itemsUsed++
		s.println("Item used successfully!")
	} else {
		s.println("Cannot use that item.")
	}
}

func (s *Session) showWorldMap() {
	s.println("")
	s.printLines(s.grid.WorldMap(s.player.X, s.player.Y, 3))
}

func (s *Session) showHelp() {
	s.println("\nAvailable Commands:")
	s.println(strings.Repeat("=", 40))
	for _, c := range commands {
		s.printf("  %-12s - %s\n", c.name, c.desc)
	}
	s.println(strings.Repeat("=", 40))
	s.println("\nDirection shortcuts: n, s, e, w")
	s.println("You can also type just the direction name to move.")
}

// saveGame is the manual save: player, world, and a statistics row.
func (s *Session) saveGame(ctx context.Context) {
	s.println("Saving game...")

	if err := saveState(ctx, s.store, s.player, s.grid); err != nil {
		s.println("Failed to save game.")
		return
	}
	if err := s.store.AppendStatistics(s.statisticsRecord()); err != nil {
		s.println("Failed to save game.")
		return
	}
	s.println("Game saved successfully!")
}

func (s *Session) loadGame(ctx context.Context) {
	s.println("Loading game...")

	player, err := loadState(ctx, s.store, s.items, s.grid)
	if err != nil {
		s.println("Failed to load game.")
		return
	}
	s.player = player
	s.println("Game loaded successfully!")
	s.lookAround()
}

// autoSave saves player and world without a statistics row. Failures
// stay silent; the periodic save is best-effort.
func (s *Session) autoSave(ctx context.Context) {
	if err := saveState(ctx, s.store, s.player, s.grid); err != nil {
		return
	}
	s.println("Auto-saved")
}

func (s *Session) handleRandomEvent() {
	event := s.grid.GenerateRandomEvent(s.player.MaxHP)
	if event == nil {
		return
	}

	s.printf("\n%s\n", event.Message)
	if event.Coins > 0 {
		s.printLines(s.player.CollectCoins(event.Coins))
		s.coinsCollected += event.Coins
	}
	for _, item := range event.Items {
		s.printLines(s.player.AddItem(item))
	}
	if event.Healing > 0 {
		s.printLines(s.player.Heal(event.Healing))
	}
}

func (s *Session) confirmQuit() bool {
	response, ok := s.prompt("Are you sure you want to quit? (y/n): ")
	if !ok {
		return true
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes"
}

// cleanup runs the end-of-session routine: a final auto-save when the
// player is still alive, then the statistics summary.
func (s *Session) cleanup(ctx context.Context) {
	if s.cfg.AutoSave && s.player.IsAlive() {
		s.println("\nPerforming final auto-save...")
		s.autoSave(ctx)
	}

	s.printf("\nFinal Statistics for %s:\n", s.player.Name)
	s.printf("  Turns played: %d\n", s.turnCount)
	s.printf("  Coins collected: %d\n", s.coinsCollected)
	s.printf("  Monsters defeated: %d\n", s.monstersDefeated)
	s.printf("  Locations visited: %d\n", s.locationsVisited)
	if s.turnCount > 0 {
		s.printf("  Average coins per turn: %.1f\n", s.avgCoinsPerTurn)
	}
	s.println("\nThanks for playing!")
}

// statisticsRecord merges the session counters with the current world
// snapshot into one history row.
func (s *Session) statisticsRecord() persist.StatisticsRecord {
	w := s.grid.Stats()
	return persist.StatisticsRecord{
		SessionID:              s.id,
		CommandsEntered:        s.commandsEntered,
		BattlesWon:             s.battlesWon,
		BattlesLost:            s.battlesLost,
		ItemsUsed:              s.itemsUsed,
		LocationsDiscovered:    w.LocationsDiscovered,
		TotalLocationsCreated:  w.TotalLocationsCreated,
		TotalCoinsGenerated:    w.TotalCoinsGenerated,
		TotalMonstersSpawned:   w.TotalMonstersSpawned,
		TotalItemsPlaced:       w.TotalItemsPlaced,
		TotalLocations:         w.TotalLocations,
		DiscoveryPercentage:    w.DiscoveryPercentage,
		CurrentMonsters:        w.CurrentMonsters,
		CurrentCoins:           w.CurrentCoins,
		SpecialEventsTriggered: w.SpecialEventsTriggered,
		TurnCount:              s.turnCount,
		MonstersDefeated:       s.monstersDefeated,
		CoinsCollected:         s.coinsCollected,
		LocationsVisited:       s.locationsVisited,
		AverageCoinsPerTurn:    s.avgCoinsPerTurn,
	}
}

// println writes one line of game output.
func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// printLines writes a block of announcement lines.
func (s *Session) printLines(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(s.out, line)
	}
}

// prompt writes a prompt and reads one trimmed line. ok is false once
// input has ended.
func (s *Session) prompt(text string) (string, bool) {
	fmt.Fprint(s.out, text)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}
