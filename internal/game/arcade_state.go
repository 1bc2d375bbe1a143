// Package game provides the interactive session loop and the arcade mode.
package game

// Mode represents the current arcade game state.
type Mode int

const (
	// ModePlaying is the default maze exploration mode.
	ModePlaying Mode = iota
	// ModeCombat is a monster encounter waiting on an action key.
	ModeCombat
	// ModePaused is the pause menu.
	ModePaused
	// ModeVictory is the escape summary screen.
	ModeVictory
	// ModeGameOver is the defeat screen.
	ModeGameOver
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModePlaying:
		return "playing"
	case ModeCombat:
		return "combat"
	case ModePaused:
		return "paused"
	case ModeVictory:
		return "victory"
	case ModeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
