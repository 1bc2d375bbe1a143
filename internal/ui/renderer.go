package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
	"github.com/avenkatesh/labyrinth/internal/world"
)

// Panel geometry. The maze view gets whatever the sidebar and message
// panel leave of the terminal.
const (
	sidebarWidth = 24
	messageRows  = 6
)

// Renderer draws the arcade to the screen. Monster glyphs and colors
// come from the catalog definitions.
type Renderer struct {
	screen   *Screen
	monsters *gamedata.MonsterRegistry
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, monsters *gamedata.MonsterRegistry) *Renderer {
	return &Renderer{screen: screen, monsters: monsters}
}

// RenderPlaying draws the maze view, the sidebar, and the message log.
func (r *Renderer) RenderPlaying(maze *world.Maze, player *entity.Player, messages []string) {
	r.screen.Clear()
	r.drawFrame(maze, player, messages)
	r.screen.Show()
}

// RenderCombat draws the maze with the encounter overlay on top.
func (r *Renderer) RenderCombat(maze *world.Maze, player *entity.Player, foe *entity.Monster, messages []string) {
	r.screen.Clear()
	r.drawFrame(maze, player, messages)
	if foe != nil {
		r.drawCombatOverlay(player, foe)
	}
	r.screen.Show()
}

// RenderPaused draws the maze with the pause menu on top.
func (r *Renderer) RenderPaused(maze *world.Maze, player *entity.Player, messages []string) {
	r.screen.Clear()
	r.drawFrame(maze, player, messages)
	r.drawPauseOverlay()
	r.screen.Show()
}

// RenderVictory draws the escape summary screen.
func (r *Renderer) RenderVictory(player *entity.Player) {
	r.screen.Clear()
	_, height := r.screen.Size()
	gold := tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	top := height/2 - 6
	r.centerText(top, "VICTORY!", gold)
	r.centerText(top+2, "You escaped the labyrinth!", white)
	r.centerText(top+4, fmt.Sprintf("Hero: %s", player.Name), white)
	r.centerText(top+5, fmt.Sprintf("Final Level: %d", player.Level), white)
	r.centerText(top+6, fmt.Sprintf("Coins Collected: %d", player.Coins), white)
	r.centerText(top+7, fmt.Sprintf("Locations Explored: %d", len(player.Visited)), white)
	r.centerText(top+9, "Achievement Unlocked: Maze Master!", gold)
	r.centerText(top+11, "SPACE/ENTER: Exit Game", white)
	r.centerText(top+12, "R: Restart Adventure", white)
	r.screen.Show()
}

// RenderGameOver draws the defeat screen.
func (r *Renderer) RenderGameOver(player *entity.Player) {
	r.screen.Clear()
	_, height := r.screen.Size()
	red := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	top := height/2 - 4
	r.centerText(top, "GAME OVER", red)
	r.centerText(top+2, fmt.Sprintf("Character: %s", player.Name), white)
	r.centerText(top+3, fmt.Sprintf("Level Reached: %d", player.Level), white)
	r.centerText(top+4, fmt.Sprintf("Coins Collected: %d", player.Coins), white)
	r.centerText(top+5, fmt.Sprintf("Locations Visited: %d", len(player.Visited)), white)
	r.centerText(top+7, "Press ESC to quit", white)
	r.screen.Show()
}

// drawFrame draws the base layer shared by every in-maze mode: tiles,
// pickups, monsters, the player, and the panels around them.
func (r *Renderer) drawFrame(maze *world.Maze, player *entity.Player, messages []string) {
	width, height := r.screen.Size()
	viewW := width - sidebarWidth
	viewH := height - messageRows
	if viewW < 1 || viewH < 1 {
		return
	}

	// The player stays centered; the maze scrolls under them.
	offsetX := viewW/2 - player.X
	offsetY := viewH/2 - player.Y

	bounds := maze.Bounds()
	for y := bounds.MinY; y <= bounds.MaxY; y++ {
		for x := bounds.MinX; x <= bounds.MaxX; x++ {
			sx, sy := x+offsetX, y+offsetY
			if sx < 0 || sx >= viewW || sy < 0 || sy >= viewH {
				continue
			}

			tile := maze.TileAt(x, y)
			glyph := tile.Rune()
			style := r.tileStyle(tile, maze.ExitUnlocked())

			if _, ok := maze.CoinAt(x, y); ok {
				glyph = 'o'
				style = tcell.StyleDefault.Foreground(tcell.ColorGold)
			}
			if kind, ok := maze.MonsterAt(x, y); ok {
				glyph, style = r.monsterGlyph(kind)
			}

			r.screen.SetContent(sx, sy, glyph, style)
		}
	}

	playerStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	r.screen.SetContent(player.X+offsetX, player.Y+offsetY, '@', playerStyle)

	r.drawSidebar(viewW, maze, player)
	r.drawStatus(viewH, player)
	r.drawMessages(viewH+1, messages)
}

// tileStyle returns the appropriate style for a tile type.
func (r *Renderer) tileStyle(tile world.Tile, exitUnlocked bool) tcell.Style {
	switch tile {
	case world.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case world.TileExit:
		if exitUnlocked {
			return tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
		}
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
}

// monsterGlyph looks up the catalog glyph and color for a monster kind.
func (r *Renderer) monsterGlyph(kind string) (rune, tcell.Style) {
	def := r.monsters.GetByID(kind)
	if def == nil {
		return 'M', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	}
	return def.GlyphRune(), tcell.StyleDefault.Foreground(def.TCellColor()).Bold(true)
}

func (r *Renderer) drawSidebar(x0 int, maze *world.Maze, player *entity.Player) {
	_, height := r.screen.Size()

	rule := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	for y := 0; y < height; y++ {
		r.screen.SetContent(x0, y, '|', rule)
	}

	title := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	lines := []struct {
		text  string
		style tcell.Style
	}{
		{player.Name, title},
		{fmt.Sprintf("Level: %d", player.Level), text},
		{fmt.Sprintf("HP: %d/%d", player.HP, player.MaxHP), text},
		{fmt.Sprintf("Coins: %d", player.Coins), text},
		{fmt.Sprintf("Defeated: %d/%d", maze.MonstersDefeated(), maze.TotalMonsters()), text},
		{fmt.Sprintf("Items: %d", len(player.Inventory)), text},
		{"", text},
		{"WASD/Arrows: move", dim},
		{"Space: examine", dim},
		{"I: inventory", dim},
		{"M: map  H: help", dim},
		{"1-9: use item", dim},
		{"ESC: pause", dim},
	}
	for i, l := range lines {
		r.drawText(x0+2, 1+i, l.text, l.style)
	}
}

func (r *Renderer) drawStatus(y int, player *entity.Player) {
	status := fmt.Sprintf("Warrior at (%d, %d) | Coins: %d", player.X, player.Y, player.Coins)
	r.drawText(0, y, status, tcell.StyleDefault.Foreground(tcell.ColorYellow))
}

// drawMessages shows the tail of the message log below the status line.
func (r *Renderer) drawMessages(top int, messages []string) {
	_, height := r.screen.Size()
	rows := height - top
	if rows <= 0 {
		return
	}

	start := 0
	if len(messages) > rows {
		start = len(messages) - rows
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, msg := range messages[start:] {
		r.drawText(0, top+i, msg, style)
	}
}

func (r *Renderer) drawCombatOverlay(player *entity.Player, foe *entity.Monster) {
	width, height := r.screen.Size()
	const boxW, boxH = 40, 9
	x0 := (width - boxW) / 2
	y0 := (height - boxH) / 2

	border := tcell.StyleDefault.Foreground(tcell.ColorRed)
	for y := y0; y < y0+boxH; y++ {
		for x := x0; x < x0+boxW; x++ {
			onEdge := y == y0 || y == y0+boxH-1 || x == x0 || x == x0+boxW-1
			if onEdge {
				r.screen.SetContent(x, y, '#', border)
			} else {
				r.screen.SetContent(x, y, ' ', tcell.StyleDefault)
			}
		}
	}

	title := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.drawText(x0+2, y0+1, fmt.Sprintf("COMBAT: %s", foe.Name), title)
	r.drawText(x0+2, y0+3, fmt.Sprintf("%s HP: %d/%d", foe.Name, foe.HP, foe.MaxHP), text)
	r.drawText(x0+2, y0+4, fmt.Sprintf("Your HP: %d/%d", player.HP, player.MaxHP), text)
	r.drawText(x0+2, y0+6, "1: Attack   2: Use Item", text)
	r.drawText(x0+2, y0+7, "ESC: Run away", text)
}

func (r *Renderer) drawPauseOverlay() {
	_, height := r.screen.Size()
	mid := height / 2

	r.centerText(mid-2, "PAUSED", tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	r.centerText(mid, "ESC - Resume game", tcell.StyleDefault)
	r.centerText(mid+1, "S - Save game", tcell.StyleDefault)
	r.centerText(mid+2, "Q - Quit", tcell.StyleDefault)
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		r.screen.SetContent(x+i, y, ch, style)
	}
}

func (r *Renderer) centerText(y int, text string, style tcell.Style) {
	width, _ := r.screen.Size()
	r.drawText((width-len(text))/2, y, text, style)
}
