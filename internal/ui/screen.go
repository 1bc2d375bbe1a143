// Package ui provides terminal rendering for the arcade mode using tcell.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Screen wraps tcell.Screen with the narrow surface the arcade needs:
// cell writes, event polling, and lifecycle. The renderer composes frames
// on top of it.
type Screen struct {
	tc tcell.Screen
}

// NewScreen takes over the terminal. The arcade is keyboard-only, so the
// cursor is hidden and mouse reporting stays off.
func NewScreen() (*Screen, error) {
	tc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := tc.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	tc.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	tc.HideCursor()
	tc.Clear()
	return &Screen{tc: tc}, nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.tc.Fini()
}

// PollEvent blocks until the next terminal event.
func (s *Screen) PollEvent() tcell.Event {
	return s.tc.PollEvent()
}

// Clear empties the back buffer.
func (s *Screen) Clear() {
	s.tc.Clear()
}

// Show flushes the back buffer to the terminal.
func (s *Screen) Show() {
	s.tc.Show()
}

// SetContent writes one cell.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.tc.SetContent(x, y, r, nil, style)
}

// Size returns the terminal dimensions.
func (s *Screen) Size() (width, height int) {
	return s.tc.Size()
}

// Sync redraws everything, used after terminal resizes.
func (s *Screen) Sync() {
	s.tc.Sync()
}
