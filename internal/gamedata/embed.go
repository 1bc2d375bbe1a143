// Package gamedata provides the embedded monster and item catalogs and
// utilities for loading them.
package gamedata

import "embed"

// dataFS carries the JSON catalogs compiled into the binary, so a built
// game needs no files next to it.
//
//go:embed *.json
var dataFS embed.FS
