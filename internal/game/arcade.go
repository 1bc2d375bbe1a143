package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/avenkatesh/labyrinth/data"
	"github.com/avenkatesh/labyrinth/internal/combat"
	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
	"github.com/avenkatesh/labyrinth/internal/persist"
	"github.com/avenkatesh/labyrinth/internal/telemetry"
	"github.com/avenkatesh/labyrinth/internal/ui"
	"github.com/avenkatesh/labyrinth/internal/world"
)

// maxMessages bounds the arcade's rolling message log.
const maxMessages = 20

// Arcade is the real-time maze mode: the same world and progression
// rules as the text session, driven by tcell key events instead of a
// command line.
type Arcade struct {
	screen   *ui.Screen
	renderer *ui.Renderer

	monsters *gamedata.MonsterRegistry
	factory  *entity.Factory
	items    *gamedata.ItemRegistry
	store    persist.Store
	rng      *rand.Rand

	maze   *world.Maze
	grid   *world.Grid
	player *entity.Player

	mode     Mode
	foe      *entity.Monster
	messages []string
	visited  map[entity.Coord]bool
	running  bool
}

// NewArcade creates the arcade and takes over the terminal.
func NewArcade(monsters *gamedata.MonsterRegistry, factory *entity.Factory, items *gamedata.ItemRegistry, store persist.Store, rng *rand.Rand) (*Arcade, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	return &Arcade{
		screen:   screen,
		renderer: ui.NewRenderer(screen, monsters),
		monsters: monsters,
		factory:  factory,
		items:    items,
		store:    store,
		rng:      rng,
		mode:     ModePlaying,
		visited:  make(map[entity.Coord]bool),
		running:  true,
	}, nil
}

// Run executes the main arcade loop.
func (a *Arcade) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("arcade")

	ctx, initSpan := tracer.Start(ctx, "arcade.init")

	a.maze = world.NewMaze(ctx, data.MustLoadMazePattern(), a.rng)
	a.grid = world.NewGrid(ctx, a.factory, a.items, a.rng)
	a.player = entity.NewPlayer("Hero", a.items)
	a.tryLoadSave(ctx)

	initSpan.SetAttributes(
		attribute.Int("maze.monsters", a.maze.TotalMonsters()),
		attribute.Int("maze.coins", a.maze.CoinsRemaining()),
		attribute.String("player", a.player.Name),
	)
	initSpan.End()

	// The spawn cell counts as entered.
	a.visitLocation()

	for a.running {
		a.render()
		a.handleInput(ctx)
	}

	// The maze itself is never persisted; progression is.
	if a.player.IsAlive() && a.mode != ModeGameOver {
		a.saveGame(ctx)
	}

	a.screen.Close()
	return nil
}

// tryLoadSave restores saved progression when a save exists. Every run
// starts at the maze spawn regardless; only stats and inventory carry
// over.
func (a *Arcade) tryLoadSave(ctx context.Context) {
	if len(a.store.SaveFiles()) > 0 {
		if player, err := loadState(ctx, a.store, a.items, a.grid); err == nil {
			a.player = player
			a.player.SetPosition(0, 0)
			a.addMessage("Welcome back, " + a.player.Name + "!")
			return
		}
	}
	a.addMessage("Welcome to the adventure, " + a.player.Name + "!")
}

// Close cleans up terminal resources.
func (a *Arcade) Close() {
	if a.screen != nil {
		a.screen.Close()
	}
}

func (a *Arcade) render() {
	switch a.mode {
	case ModeCombat:
		a.renderer.RenderCombat(a.maze, a.player, a.foe, a.messages)
	case ModePaused:
		a.renderer.RenderPaused(a.maze, a.player, a.messages)
	case ModeVictory:
		a.renderer.RenderVictory(a.player)
	case ModeGameOver:
		a.renderer.RenderGameOver(a.player)
	default:
		a.renderer.RenderPlaying(a.maze, a.player, a.messages)
	}
}

// handleInput processes a single input event.
func (a *Arcade) handleInput(ctx context.Context) {
	ev := a.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

// handleKeyEvent dispatches keyboard input by mode.
func (a *Arcade) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		a.running = false
		return
	}

	switch a.mode {
	case ModePlaying:
		a.handlePlayingKey(ctx, ev)
	case ModeCombat:
		a.handleCombatKey(ctx, ev)
	case ModePaused:
		a.handlePausedKey(ctx, ev)
	case ModeVictory:
		a.handleVictoryKey(ctx, ev)
	case ModeGameOver:
		a.handleGameOverKey(ev)
	}
}

func (a *Arcade) handlePlayingKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.mode = ModePaused
		return
	case tcell.KeyUp:
		a.tryMove(ctx, 0, -1)
		return
	case tcell.KeyDown:
		a.tryMove(ctx, 0, 1)
		return
	case tcell.KeyLeft:
		a.tryMove(ctx, -1, 0)
		return
	case tcell.KeyRight:
		a.tryMove(ctx, 1, 0)
		return
	}

	if ev.Key() != tcell.KeyRune {
		return
	}
	switch r := ev.Rune(); r {
	case 'w', 'W':
		a.tryMove(ctx, 0, -1)
	case 's', 'S':
		a.tryMove(ctx, 0, 1)
	case 'a', 'A':
		a.tryMove(ctx, -1, 0)
	case 'd', 'D':
		a.tryMove(ctx, 1, 0)
	case ' ':
		a.examineLocation()
	case 'i', 'I':
		a.showInventory()
	case 'm', 'M':
		a.showPosition()
	case 'h', 'H':
		a.showHelp()
	default:
		if r >= '1' && r <= '9' {
			a.useItemAt(int(r - '1'))
		}
	}
}

// tryMove attempts one step. Walking into a wall is silent; a valid
// step collects, encounters, and visits in that order.
func (a *Arcade) tryMove(ctx context.Context, dx, dy int) {
	x, y := a.player.X+dx, a.player.Y+dy
	if !a.maze.CanMoveTo(x, y) {
		return
	}
	a.player.SetPosition(x, y)

	if value, ok := a.maze.TakeCoin(x, y); ok {
		// Maze pickups deliberately skip the level-up check; quick
		// combat rewards still level through CollectCoins.
		a.player.Coins += value
		a.addMessage(fmt.Sprintf("Collected %d coins! Total: %d", value, a.player.Coins))
	}

	a.checkMonster(ctx, x, y)
	a.checkExit(x, y)
	a.visitLocation()
}

// checkMonster pops a placed encounter and enters combat mode.
func (a *Arcade) checkMonster(ctx context.Context, x, y int) {
	if a.mode == ModeCombat {
		return
	}
	kind, ok := a.maze.TakeMonster(x, y)
	if !ok {
		return
	}

	// Unknown kinds fall back to a goblin inside Spawn.
	foe, _ := a.factory.Spawn(kind)
	a.foe = foe
	a.mode = ModeCombat
	a.addMessage(foe.Name + " appears!")

	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "combat.start")
	span.SetAttributes(
		attribute.String("monster", foe.Name),
		attribute.Int("monster_hp", foe.HP),
		attribute.Int("player_level", a.player.Level),
	)
	span.End()
}

func (a *Arcade) checkExit(x, y int) {
	exit := a.maze.Exit()
	if x != exit.X || y != exit.Y {
		return
	}

	if a.maze.ExitUnlocked() {
		a.mode = ModeVictory
		a.addMessage("You found the exit! Congratulations!")
	} else {
		a.addMessage(fmt.Sprintf("Exit locked! Defeat %d more monsters first!", a.maze.MonstersRemaining()))
	}
}

// visitLocation visits the underlying world cell once per run. Its
// monster roll is ignored: maze placement owns arcade encounters.
func (a *Arcade) visitLocation() {
	c := entity.Coord{X: a.player.X, Y: a.player.Y}
	if a.visited[c] {
		return
	}
	a.visited[c] = true

	result := a.grid.Visit(c.X, c.Y)
	if result.CoinsFound > 0 {
		a.player.CollectCoins(result.CoinsFound)
		a.addMessage(fmt.Sprintf("Found %d coins!", result.CoinsFound))
	}
	for _, item := range result.ItemsFound {
		a.player.AddItem(item)
		a.addMessage(fmt.Sprintf("Found %s!", item))
	}
}

func (a *Arcade) handleCombatKey(ctx context.Context, ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape {
		// Escaping abandons the encounter: the monster is gone but not
		// counted defeated, so the exit stays locked.
		a.endCombat(ctx, "escaped")
		a.foe = nil
		a.mode = ModePlaying
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case '1':
		a.combatAttack(ctx)
	case '2':
		a.combatUseItem()
	}
}

// combatAttack resolves one exchange of quick combat: a level-scaled
// capped strike, then the survivor's counterattack.
func (a *Arcade) combatAttack(ctx context.Context) {
	if a.foe == nil {
		return
	}

	base := a.player.Level/2 + 5
	if base < 8 {
		base = 8
	}
	if base > 15 {
		base = 15
	}
	damage := base + a.rng.Intn(7) - 3
	if damage < 1 {
		damage = 1
	}

	a.foe.TakeDamage(damage)
	a.addMessage(fmt.Sprintf("You attack for %d damage!", damage))

	if !a.foe.IsAlive() {
		a.maze.RecordDefeat()
		a.addMessage(a.foe.Name + " has been defeated!")
		a.addMessage(fmt.Sprintf("Monsters defeated: %d/%d", a.maze.MonstersDefeated(), a.maze.TotalMonsters()))
		a.player.CollectCoins(a.foe.GetCoinsReward())
		a.endCombat(ctx, "victory")
		a.foe = nil
		a.mode = ModePlaying
		return
	}

	counter, _ := a.foe.AttackRoll(a.rng)
	a.player.TakeDamage(counter)
	if !a.player.IsAlive() {
		a.endCombat(ctx, "defeat")
		a.mode = ModeGameOver
	}
}

// combatUseItem heals with the first potion or bread in the inventory.
// Items never cost the exchange here.
func (a *Arcade) combatUseItem() {
	if len(a.player.Inventory) == 0 {
		a.addMessage("No items in inventory!")
		return
	}

	names := append([]string(nil), a.player.Inventory...)
	for _, item := range names {
		lower := strings.ToLower(item)
		if !strings.Contains(lower, "potion") && !strings.Contains(lower, "bread") {
			continue
		}
		if use, _ := a.player.UseItem(item); use == combat.ItemUsed {
			a.addMessage("Used " + item + " in combat!")
			return
		}
	}
	a.addMessage("No usable items in inventory!")
}

// endCombat emits the closing span for a quick-combat encounter.
func (a *Arcade) endCombat(ctx context.Context, outcome string) {
	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "combat.end")
	span.SetAttributes(
		attribute.String("outcome", outcome),
		attribute.Int("player_hp_remaining", a.player.HP),
		attribute.Int("monsters_defeated", a.maze.MonstersDefeated()),
	)
	span.End()
}

func (a *Arcade) handlePausedKey(ctx context.Context, ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape {
		a.mode = ModePlaying
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case 's', 'S':
		a.saveGame(ctx)
	case 'q', 'Q':
		a.running = false
	}
}

func (a *Arcade) handleVictoryKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		a.running = false
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			a.running = false
		case 'r', 'R':
			a.restart(ctx)
		}
	}
}

func (a *Arcade) handleGameOverKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape {
		a.running = false
		return
	}
	if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
		a.running = false
	}
}

// restart rebuilds the run from scratch under the same hero name.
func (a *Arcade) restart(ctx context.Context) {
	name := a.player.Name

	a.maze = world.NewMaze(ctx, data.MustLoadMazePattern(), a.rng)
	a.grid = world.NewGrid(ctx, a.factory, a.items, a.rng)
	a.player = entity.NewPlayer(name, a.items)
	a.foe = nil
	a.visited = make(map[entity.Coord]bool)
	a.messages = nil
	a.mode = ModePlaying

	a.addMessage("Welcome to the adventure, " + name + "!")
	a.visitLocation()
}

func (a *Arcade) saveGame(ctx context.Context) {
	if err := saveState(ctx, a.store, a.player, a.grid); err != nil {
		a.addMessage("Failed to save game!")
		return
	}
	a.addMessage("Game saved successfully!")
}

func (a *Arcade) examineLocation() {
	loc := a.grid.GetOrCreate(a.player.X, a.player.Y)
	a.addMessage("You examine " + loc.Name + ":")
	a.addMessage(loc.Description)
}

func (a *Arcade) showInventory() {
	items := "empty"
	if len(a.player.Inventory) > 0 {
		items = strings.Join(a.player.Inventory, ", ")
	}
	a.addMessage("Inventory: " + items)
}

func (a *Arcade) showPosition() {
	a.addMessage(fmt.Sprintf("Position: (%d, %d), Discovered: %d",
		a.player.X, a.player.Y, a.grid.Stats().LocationsDiscovered))
}

func (a *Arcade) showHelp() {
	a.addMessage("WASD: Move | Space: Examine | I: Inventory | M: Map | H: Help | 1-9: Use item | ESC: Pause")
}

func (a *Arcade) useItemAt(index int) {
	if index < 0 || index >= len(a.player.Inventory) {
		a.addMessage("Invalid item number")
		return
	}

	item := a.player.Inventory[index]
	if use, _ := a.player.UseItem(item); use == combat.ItemUsed {
		a.addMessage("Used " + item)
	} else {
		a.addMessage("Cannot use " + item)
	}
}

// addMessage appends to the rolling log, keeping the newest lines.
func (a *Arcade) addMessage(msg string) {
	a.messages = append(a.messages, msg)
	if len(a.messages) > maxMessages {
		a.messages = a.messages[len(a.messages)-maxMessages:]
	}
}
