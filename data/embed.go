// Package data provides embedded world assets and utilities for loading them.
package data

import "embed"

// dataFS embeds the maze pattern from the data directory at build time.
//
//go:embed maze.txt
var dataFS embed.FS
